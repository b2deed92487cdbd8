package config

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Interval != 30*time.Second {
		t.Fatalf("expected 30s interval, got %s", opts.Interval)
	}
	if opts.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", opts.Timeout)
	}
	if opts.FailureThreshold != 10 {
		t.Fatalf("expected threshold 10, got %d", opts.FailureThreshold)
	}
	if opts.StateBackend != StateBackendFile {
		t.Fatalf("expected file backend, got %s", opts.StateBackend)
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadEnvThreshold(t *testing.T) {
	t.Setenv("TELEGRAM_FAILURE_THRESHOLD", "3")

	opts, err := Load(CLIOverrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.FailureThreshold != 3 {
		t.Fatalf("expected env threshold 3, got %d", opts.FailureThreshold)
	}
}

func TestLoadEnvThresholdInvalid(t *testing.T) {
	t.Setenv("TELEGRAM_FAILURE_THRESHOLD", "many")

	if _, err := Load(CLIOverrides{}); err == nil {
		t.Fatalf("expected error for non-numeric threshold")
	}
}

func TestLoadCLIOverridesWinOverEnv(t *testing.T) {
	t.Setenv("TELEGRAM_FAILURE_THRESHOLD", "3")

	interval := 5 * time.Second
	threshold := 7
	backend := StateBackendMemory
	opts, err := Load(CLIOverrides{
		Interval:         &interval,
		FailureThreshold: &threshold,
		StateBackend:     &backend,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Interval != 5*time.Second {
		t.Fatalf("expected interval override, got %s", opts.Interval)
	}
	if opts.FailureThreshold != 7 {
		t.Fatalf("expected CLI threshold to win over env, got %d", opts.FailureThreshold)
	}
	if opts.StateBackend != StateBackendMemory {
		t.Fatalf("expected memory backend, got %s", opts.StateBackend)
	}
}

func TestLoadMetricsListenBarePort(t *testing.T) {
	listen := "9090"
	opts, err := Load(CLIOverrides{MetricsListen: &listen})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.MetricsListen != ":9090" {
		t.Fatalf("expected bare port to gain a colon, got %q", opts.MetricsListen)
	}

	listen = "127.0.0.1:9090"
	opts, err = Load(CLIOverrides{MetricsListen: &listen})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.MetricsListen != "127.0.0.1:9090" {
		t.Fatalf("expected full address kept as-is, got %q", opts.MetricsListen)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero interval", func(o *Options) { o.Interval = 0 }},
		{"negative timeout", func(o *Options) { o.Timeout = -time.Second }},
		{"zero concurrency", func(o *Options) { o.MaxConcurrency = 0 }},
		{"zero threshold", func(o *Options) { o.FailureThreshold = 0 }},
		{"unknown backend", func(o *Options) { o.StateBackend = "redis" }},
	}
	for _, tc := range cases {
		opts := DefaultOptions()
		tc.mutate(&opts)
		if err := opts.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSiteConfigTimeout(t *testing.T) {
	fallback := 10 * time.Second

	site := SiteConfig{URL: "https://example.com"}
	if got := site.Timeout(fallback); got != fallback {
		t.Fatalf("expected fallback timeout, got %s", got)
	}

	site.TimeoutMS = 2500
	if got := site.Timeout(fallback); got != 2500*time.Millisecond {
		t.Fatalf("expected per-site timeout, got %s", got)
	}
}

func TestLoadTelegram(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("TELEGRAM_ENABLED", "true")
	t.Setenv("TELEGRAM_FAILURE_THRESHOLD", "5")

	cfg := LoadTelegram()
	if !cfg.Configured() {
		t.Fatalf("expected configured telegram, got %+v", cfg)
	}
	if cfg.FailureThreshold != 5 {
		t.Fatalf("expected threshold 5, got %d", cfg.FailureThreshold)
	}

	t.Setenv("TELEGRAM_ENABLED", "false")
	if LoadTelegram().Configured() {
		t.Fatalf("disabled channel must not report configured")
	}
}

func TestEmailConfigured(t *testing.T) {
	cfg := EmailConfig{
		Host:    "smtp.example.com",
		Port:    587,
		From:    "uptime@example.com",
		To:      "ops@example.com",
		Enabled: true,
	}
	if !cfg.Configured() {
		t.Fatalf("expected configured email, got %+v", cfg)
	}

	cfg.Port = 0
	if cfg.Configured() {
		t.Fatalf("missing port must not report configured")
	}
}
