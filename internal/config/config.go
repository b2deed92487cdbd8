package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultFailureThreshold = 10

// DefaultOptions returns baseline settings used before environment and CLI overrides.
func DefaultOptions() Options {
	return Options{
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		MaxConcurrency:   8,
		FailureThreshold: defaultFailureThreshold,
		SitesFile:        "sites.json",
		StateBackend:     StateBackendFile,
		StatePath:        "notification_state.json",
		ProbeLogPath:     "logs/uptime.log",
		MetricsListen:    "",
		UIDisable:        false,
	}
}

// Load assembles Options from defaults, the environment and CLI overrides,
// in that order of precedence, and validates the result.
func Load(overrides CLIOverrides) (Options, error) {
	opts := DefaultOptions()
	if v := os.Getenv("TELEGRAM_FAILURE_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Options{}, fmt.Errorf("invalid TELEGRAM_FAILURE_THRESHOLD: %w", err)
		}
		opts.FailureThreshold = n
	}
	applyCLIOverrides(&opts, overrides)
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate rejects option combinations the scheduler and engine cannot run with.
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", o.Interval)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be >= 1, got %d", o.MaxConcurrency)
	}
	if o.FailureThreshold < 1 {
		return fmt.Errorf("failure threshold must be >= 1, got %d", o.FailureThreshold)
	}
	switch o.StateBackend {
	case StateBackendFile, StateBackendMemory, StateBackendSQLite, StateBackendPostgres:
	default:
		return fmt.Errorf("unknown state backend %q", o.StateBackend)
	}
	return nil
}

// LoadTelegram reads the Telegram channel configuration from the environment.
func LoadTelegram() TelegramConfig {
	threshold := defaultFailureThreshold
	if v := os.Getenv("TELEGRAM_FAILURE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			threshold = n
		}
	}
	return TelegramConfig{
		BotToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:           os.Getenv("TELEGRAM_CHAT_ID"),
		Enabled:          os.Getenv("TELEGRAM_ENABLED") == "true",
		FailureThreshold: threshold,
		APIBase:          "https://api.telegram.org",
	}
}

// LoadEmail reads the SMTP channel configuration from the environment.
func LoadEmail() EmailConfig {
	port := 0
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		To:       os.Getenv("SMTP_TO"),
		Enabled:  os.Getenv("SMTP_ENABLED") == "true",
	}
}

func applyCLIOverrides(opts *Options, overrides CLIOverrides) {
	if overrides.Interval != nil {
		opts.Interval = *overrides.Interval
	}
	if overrides.Timeout != nil {
		opts.Timeout = *overrides.Timeout
	}
	if overrides.MaxConcurrency != nil {
		opts.MaxConcurrency = *overrides.MaxConcurrency
	}
	if overrides.FailureThreshold != nil {
		opts.FailureThreshold = *overrides.FailureThreshold
	}
	if overrides.SitesFile != nil {
		opts.SitesFile = *overrides.SitesFile
	}
	if overrides.StateBackend != nil {
		opts.StateBackend = *overrides.StateBackend
	}
	if overrides.StatePath != nil {
		opts.StatePath = *overrides.StatePath
	}
	if overrides.ProbeLogPath != nil {
		opts.ProbeLogPath = *overrides.ProbeLogPath
	}
	if overrides.MetricsListen != nil {
		val := *overrides.MetricsListen
		if isDigits(val) {
			val = ":" + val
		}
		opts.MetricsListen = val
	}
	if overrides.UIDisable != nil {
		opts.UIDisable = *overrides.UIDisable
	}
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
