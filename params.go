package main

import (
	"strings"
	"time"

	"github.com/breakly/api-smoke-tests/config"
	"github.com/breakly/api-smoke-tests/framework"
	"github.com/breakly/api-smoke-tests/report"

	"github.com/spf13/pflag"
)

type commandParams struct {
	serviceURL       string
	timeout          time.Duration
	slowThreshold    time.Duration
	healthMessage    string
	filters          framework.RegexFilters
	checksFile       string
	jsonOutput       string
	criticalKeywords []string
	debug            bool
	debugAll         bool
	noColor          bool
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test (default from $"+config.BaseURLEnv+")")
	fs.DurationVar(&c.timeout, "timeout", 0, "timeout for each request (default from $REQUEST_TIMEOUT, or 30s)")
	fs.DurationVar(&c.slowThreshold, "slow-threshold", 0, "slowest acceptable API root response (default from $SLOW_RESPONSE_THRESHOLD, or 1s)")
	fs.StringVar(&c.healthMessage, "health-message", "", "text the API root message must contain (default from $HEALTH_MESSAGE)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.checksFile, "checks", "", "YAML file of additional endpoint checks")
	fs.StringVar(&c.jsonOutput, "json-output", "", "write the results as JSON to this file")
	fs.StringSliceVar(&c.criticalKeywords, "critical-keyword", report.DefaultCriticalKeywords,
		"keyword(s) marking a failed check as critical")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
}

// applyTo overrides configuration values with any flags that were given explicitly.
func (c *commandParams) applyTo(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("url") {
		cfg.BaseURL = c.serviceURL
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = c.timeout
	}
	if fs.Changed("slow-threshold") {
		cfg.SlowResponseThreshold = c.slowThreshold
	}
	if fs.Changed("health-message") {
		cfg.ExpectedHealthMessage = c.healthMessage
	}
	return cfg.Validate()
}

// argsWithoutFilters returns the command-line arguments with every --run and --skip flag
// removed, for building a command that reruns a different selection of tests.
func argsWithoutFilters(args []string) []string {
	var ret []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--run" || a == "--skip":
			i++
		case strings.HasPrefix(a, "--run=") || strings.HasPrefix(a, "--skip="):
		default:
			ret = append(ret, a)
		}
	}
	return ret
}
