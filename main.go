package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/breakly/api-smoke-tests/checkfile"
	"github.com/breakly/api-smoke-tests/client"
	"github.com/breakly/api-smoke-tests/config"
	"github.com/breakly/api-smoke-tests/framework"
	"github.com/breakly/api-smoke-tests/report"
	"github.com/breakly/api-smoke-tests/smoketests"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitInvalid = 2
)

// errTestsFailed is returned by the root command when the run completed but some checks failed.
var errTestsFailed = errors.New("some tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := logrus.New()
	logger.SetOutput(stderr)

	cmd := newRootCommand(args, logger, stdout)
	cmd.AddCommand(newServeMockCommand(logger))
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errTestsFailed):
		return exitFailed
	default:
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitInvalid
	}
}

func newRootCommand(args []string, logger *logrus.Logger, stdout io.Writer) *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   "api-smoke-tests",
		Short: "Smoke tests for the leave-management API",
		Long: `Runs black-box smoke tests against a deployed instance of the leave-management API
and reports which checks passed. The exit status is 0 only if every check passed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := params.applyTo(cmd.Flags(), cfg); err != nil {
				return err
			}
			if params.noColor {
				color.NoColor = true
			}
			logger.SetLevel(cfg.LogLevel)
			logger.Debug(cfg.String())
			return runTests(cmd.Context(), cfg, params, args, logger, stdout)
		},
	}
	params.addFlags(cmd.Flags())
	return cmd
}

func runTests(
	ctx context.Context,
	cfg *config.Config,
	params commandParams,
	args []string,
	logger *logrus.Logger,
	out io.Writer,
) error {
	suiteParams := smoketests.SuiteParams{
		HealthMessage:         cfg.ExpectedHealthMessage,
		SlowResponseThreshold: cfg.SlowResponseThreshold,
	}
	if params.checksFile != "" {
		f, err := checkfile.Load(params.checksFile)
		if err != nil {
			return err
		}
		suiteParams.ExtraChecks = f.NamedExpectations()
		logger.WithField("file", params.checksFile).Infof("Loaded %d additional checks", len(f.Checks))
	}

	runner := client.NewRunner(cfg.BaseURL, client.WithTimeout(cfg.RequestTimeout))

	fmt.Fprintf(out, "Starting API smoke tests\n")
	fmt.Fprintf(out, "Testing API at: %s\n", runner.URL(smoketests.PathRoot))
	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	run := smoketests.RunTestSuite(ctx, runner, suiteParams, params.filters.AsFilter, testLogger)

	summary := report.Summarize(run, params.criticalKeywords)
	summary.Print(out)

	if params.jsonOutput != "" {
		if err := writeJSONReport(params.jsonOutput, run); err != nil {
			logger.WithError(err).Error("Could not write JSON report")
		} else {
			logger.WithField("file", params.jsonOutput).Info("Wrote JSON report")
		}
	}

	if !summary.OK() {
		if rerun := report.RerunCommand(argsWithoutFilters(args), run.FailedCases()); rerun != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "To rerun the failed tests:")
			fmt.Fprintf(out, "  %s\n", rerun)
		}
		return errTestsFailed
	}
	return nil
}

func writeJSONReport(path string, run *framework.TestRun) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(f, run); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
