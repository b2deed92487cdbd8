package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/zq535228/UptimeGuard/internal/cli"
	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/log"
	"github.com/zq535228/UptimeGuard/internal/notifystate"
)

func TestBuildOverridesEmpty(t *testing.T) {
	overrides := buildOverrides(
		cli.OptionalDuration{}, cli.OptionalDuration{}, cli.OptionalInt{}, cli.OptionalInt{},
		cli.OptionalString{}, cli.OptionalString{}, cli.OptionalString{}, cli.OptionalString{},
		cli.OptionalString{}, cli.OptionalBool{},
	)
	if overrides != (config.CLIOverrides{}) {
		t.Fatalf("expected zero overrides, got %+v", overrides)
	}
}

func TestBuildOverridesSetValues(t *testing.T) {
	var interval cli.OptionalDuration
	var threshold cli.OptionalInt
	var backend cli.OptionalString
	var noUI cli.OptionalBool
	if err := interval.Set("5s"); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if err := threshold.Set("3"); err != nil {
		t.Fatalf("set threshold: %v", err)
	}
	if err := backend.Set("memory"); err != nil {
		t.Fatalf("set backend: %v", err)
	}
	if err := noUI.Set("true"); err != nil {
		t.Fatalf("set no-ui: %v", err)
	}

	overrides := buildOverrides(
		interval, cli.OptionalDuration{}, cli.OptionalInt{}, threshold,
		cli.OptionalString{}, backend, cli.OptionalString{}, cli.OptionalString{},
		cli.OptionalString{}, noUI,
	)

	if overrides.Interval == nil || *overrides.Interval != 5*time.Second {
		t.Fatalf("expected interval override, got %+v", overrides.Interval)
	}
	if overrides.FailureThreshold == nil || *overrides.FailureThreshold != 3 {
		t.Fatalf("expected threshold override, got %+v", overrides.FailureThreshold)
	}
	if overrides.StateBackend == nil || *overrides.StateBackend != config.StateBackendMemory {
		t.Fatalf("expected backend override, got %+v", overrides.StateBackend)
	}
	if overrides.UIDisable == nil || !*overrides.UIDisable {
		t.Fatalf("expected ui disable override, got %+v", overrides.UIDisable)
	}
}

func TestBuildStateStoreBackends(t *testing.T) {
	logger := log.NewLogger(log.LevelError)

	cfg := config.DefaultOptions()
	cfg.StateBackend = config.StateBackendMemory
	store, closeStore, err := buildStateStore(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*notifystate.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	cfg.StateBackend = config.StateBackendFile
	cfg.StatePath = filepath.Join(t.TempDir(), "state.json")
	store, closeStore, err = buildStateStore(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*notifystate.FileStore); !ok {
		t.Fatalf("expected file store, got %T", store)
	}
}
