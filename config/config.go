// Package config loads the harness configuration from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// BaseURLEnv names the variable holding the base URL of the service under test.
	BaseURLEnv = "NEXT_PUBLIC_BASE_URL"

	// DefaultBaseURL is used when BaseURLEnv is unset.
	DefaultBaseURL = "http://localhost:3000"

	requestTimeoutEnv = "REQUEST_TIMEOUT"
	slowThresholdEnv  = "SLOW_RESPONSE_THRESHOLD"
	healthMessageEnv  = "HEALTH_MESSAGE"
	logLevelEnv       = "LOG_LEVEL"

	defaultRequestTimeout = 30 * time.Second
	defaultSlowThreshold  = time.Second
)

// Config holds everything the harness needs to run. Command-line flags are applied on top
// of the values loaded here.
type Config struct {
	BaseURL               string
	RequestTimeout        time.Duration
	SlowResponseThreshold time.Duration
	ExpectedHealthMessage string
	LogLevel              logrus.Level
}

// Load reads configuration from environment variables, after loading a .env file from the
// working directory if there is one. Values already present in the environment win over
// the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using the given lookup function instead of the process
// environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BaseURL:               getEnv(getenv, BaseURLEnv, DefaultBaseURL),
		ExpectedHealthMessage: getenv(healthMessageEnv),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration(getenv, requestTimeoutEnv, defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.SlowResponseThreshold, err = getDuration(getenv, slowThresholdEnv, defaultSlowThreshold); err != nil {
		return nil, err
	}

	levelName := getEnv(getenv, logLevelEnv, "info")
	if cfg.LogLevel, err = logrus.ParseLevel(levelName); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", logLevelEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that may also have been set from flags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SlowResponseThreshold <= 0 {
		return fmt.Errorf("slow response threshold must be positive, got %s", c.SlowResponseThreshold)
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	return nil
}

func (c *Config) String() string {
	health := c.ExpectedHealthMessage
	if health == "" {
		health = "(any)"
	}
	return fmt.Sprintf(`Current Configuration:
======================
Base URL:                %s
Request Timeout:         %s
Slow Response Threshold: %s
Health Message:          %s
Log Level:               %s`,
		c.BaseURL,
		c.RequestTimeout,
		c.SlowResponseThreshold,
		health,
		c.LogLevel,
	)
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(getenv func(string) string, key string, defaultValue time.Duration) (time.Duration, error) {
	value := getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
