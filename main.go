package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zq535228/UptimeGuard/internal/alert"
	"github.com/zq535228/UptimeGuard/internal/cli"
	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/log"
	"github.com/zq535228/UptimeGuard/internal/metrics"
	"github.com/zq535228/UptimeGuard/internal/notify"
	"github.com/zq535228/UptimeGuard/internal/notifystate"
	"github.com/zq535228/UptimeGuard/internal/notifystate/postgres"
	"github.com/zq535228/UptimeGuard/internal/notifystate/sqlite"
	"github.com/zq535228/UptimeGuard/internal/probe"
	"github.com/zq535228/UptimeGuard/internal/scheduler"
	"github.com/zq535228/UptimeGuard/internal/state"
	"github.com/zq535228/UptimeGuard/internal/ui"
)

const version = "0.1.0"

func main() {
	var (
		flagInterval       cli.OptionalDuration
		flagTimeout        cli.OptionalDuration
		flagMaxConcurrency cli.OptionalInt
		flagThreshold      cli.OptionalInt
		flagSites          cli.OptionalString
		flagStateBackend   cli.OptionalString
		flagStatePath      cli.OptionalString
		flagProbeLog       cli.OptionalString
		flagMetricsListen  cli.OptionalString
		flagNoUI           cli.OptionalBool
		flagLogLevel       string
		flagVersion        bool
		flagVersionShort   bool
	)

	flag.Var(&flagInterval, "interval", "probe interval (override default)")
	flag.Var(&flagInterval, "i", "probe interval (override default)")
	flag.Var(&flagTimeout, "timeout", "probe timeout (override default)")
	flag.Var(&flagTimeout, "t", "probe timeout (override default)")
	flag.Var(&flagMaxConcurrency, "max-concurrency", "max concurrent probes")
	flag.Var(&flagThreshold, "threshold", "consecutive failures before alerting")
	flag.Var(&flagSites, "sites", "path to sites.json")
	flag.Var(&flagStateBackend, "state-backend", "notification state backend: file|memory|sqlite|postgres")
	flag.Var(&flagStatePath, "state-path", "state file path, database file, or connection string")
	flag.Var(&flagProbeLog, "probe-log", "probe log file path")
	flag.Var(&flagMetricsListen, "metrics-listen", "metrics listen address (e.g. :9100)")
	flag.Var(&flagNoUI, "no-ui", "disable TUI (log only)")
	flag.StringVar(&flagLogLevel, "log-level", "info", "log level: debug|info|warn|error")
	flag.BoolVar(&flagVersion, "version", false, "show version")
	flag.BoolVar(&flagVersionShort, "v", false, "show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flagVersion || flagVersionShort {
		fmt.Fprintf(os.Stdout, "uptimeguard version %s\n", version)
		return
	}

	overrides := buildOverrides(
		flagInterval, flagTimeout, flagMaxConcurrency, flagThreshold,
		flagSites, flagStateBackend, flagStatePath, flagProbeLog,
		flagMetricsListen, flagNoUI,
	)

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger(log.ParseLevel(flagLogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStateStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open state store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	registry := config.NewRegistry(cfg.SitesFile)
	sites, err := registry.Load()
	logger.LogConfigLoad(err == nil, cfg.SitesFile, err)

	tracker := state.NewTracker(sites)
	engine := alert.NewEngine(store, cfg.FailureThreshold, logger)
	notifier := buildNotifier(logger)
	probeLog := log.NewProbeLog(cfg.ProbeLogPath)

	sched := scheduler.New(cfg, registry, probe.NewHTTPProber(), tracker, engine, notifier, logger, probeLog)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(runCtx) }()

	if cfg.MetricsListen != "" {
		go func() {
			if err := metrics.Serve(runCtx, cfg.MetricsListen, tracker); err != nil && !errors.Is(err, context.Canceled) {
				logger.LogError("metrics", err, nil)
			}
		}()
	}

	if cfg.UIDisable {
		<-runCtx.Done()
	} else {
		if err := ui.New(cfg, tracker).Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.LogError("ui", err, nil)
		}
		cancel()
	}

	// Let in-flight probes finish their own timeouts before exiting.
	<-schedDone
}

func buildOverrides(
	interval cli.OptionalDuration,
	timeout cli.OptionalDuration,
	maxConcurrency cli.OptionalInt,
	threshold cli.OptionalInt,
	sites cli.OptionalString,
	stateBackend cli.OptionalString,
	statePath cli.OptionalString,
	probeLog cli.OptionalString,
	metricsListen cli.OptionalString,
	noUI cli.OptionalBool,
) config.CLIOverrides {
	overrides := config.CLIOverrides{}

	if v, ok := interval.Value(); ok {
		value := v
		overrides.Interval = &value
	}
	if v, ok := timeout.Value(); ok {
		value := v
		overrides.Timeout = &value
	}
	if v, ok := maxConcurrency.Value(); ok {
		value := v
		overrides.MaxConcurrency = &value
	}
	if v, ok := threshold.Value(); ok {
		value := v
		overrides.FailureThreshold = &value
	}
	if v, ok := sites.Value(); ok && v != "" {
		value := v
		overrides.SitesFile = &value
	}
	if v, ok := stateBackend.Value(); ok && v != "" {
		value := config.StateBackend(v)
		overrides.StateBackend = &value
	}
	if v, ok := statePath.Value(); ok && v != "" {
		value := v
		overrides.StatePath = &value
	}
	if v, ok := probeLog.Value(); ok && v != "" {
		value := v
		overrides.ProbeLogPath = &value
	}
	if v, ok := metricsListen.Value(); ok && v != "" {
		value := v
		overrides.MetricsListen = &value
	}
	if v, ok := noUI.Value(); ok {
		value := v
		overrides.UIDisable = &value
	}

	return overrides
}

func buildStateStore(ctx context.Context, cfg config.Options, logger *log.Logger) (notifystate.Store, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendMemory:
		return notifystate.NewMemoryStore(), func() {}, nil
	case config.StateBackendSQLite:
		store, err := sqlite.New(ctx, cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.StateBackendPostgres:
		store, err := postgres.New(ctx, cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return notifystate.NewFileStore(cfg.StatePath, logger), func() {}, nil
	}
}

func buildNotifier(logger *log.Logger) notify.Notifier {
	var channels notify.Multi

	telegram := config.LoadTelegram()
	if telegram.Configured() {
		channels = append(channels, notify.NewTelegramNotifier(telegram))
		logger.Info("telegram notifications enabled", nil)
	}
	email := config.LoadEmail()
	if email.Configured() {
		channels = append(channels, notify.NewEmailNotifier(email))
		logger.Info("email notifications enabled", nil)
	}

	if len(channels) == 0 {
		logger.Info("no notification channel configured, alerts will only be logged", nil)
		return nil
	}
	return channels
}
