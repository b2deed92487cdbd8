package config

import "time"

// Options holds global settings assembled from defaults, environment and CLI overrides.
type Options struct {
	Interval         time.Duration
	Timeout          time.Duration
	MaxConcurrency   int
	FailureThreshold int
	SitesFile        string
	StateBackend     StateBackend
	StatePath        string
	ProbeLogPath     string
	MetricsListen    string
	UIDisable        bool
}

// StateBackend selects the notification state store implementation.
type StateBackend string

const (
	StateBackendFile     StateBackend = "file"
	StateBackendMemory   StateBackend = "memory"
	StateBackendSQLite   StateBackend = "sqlite"
	StateBackendPostgres StateBackend = "postgres"
)

// SiteConfig is a single monitored site as stored in sites.json.
type SiteConfig struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Keyword   string `json:"keyword,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
}

// Timeout returns the per-site timeout, or fallback when none is configured.
func (s SiteConfig) Timeout(fallback time.Duration) time.Duration {
	if s.TimeoutMS <= 0 {
		return fallback
	}
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// TelegramConfig holds the Telegram notification channel settings, read from
// the environment the same way the rest of the deployment tooling expects.
type TelegramConfig struct {
	BotToken         string
	ChatID           string
	Enabled          bool
	FailureThreshold int
	APIBase          string
}

// Configured reports whether Telegram notifications can actually be sent.
func (c TelegramConfig) Configured() bool {
	return c.Enabled && c.BotToken != "" && c.ChatID != ""
}

// EmailConfig holds the optional SMTP notification channel settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Enabled  bool
}

// Configured reports whether email notifications can actually be sent.
func (c EmailConfig) Configured() bool {
	return c.Enabled && c.Host != "" && c.Port > 0 && c.From != "" && c.To != ""
}

// CLIOverrides holds optional CLI values that override defaults and environment.
type CLIOverrides struct {
	Interval         *time.Duration
	Timeout          *time.Duration
	MaxConcurrency   *int
	FailureThreshold *int
	SitesFile        *string
	StateBackend     *StateBackend
	StatePath        *string
	ProbeLogPath     *string
	MetricsListen    *string
	UIDisable        *bool
}
