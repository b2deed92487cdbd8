package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/zq535228/UptimeGuard/internal/log"
	"github.com/zq535228/UptimeGuard/internal/notifystate"
	"github.com/zq535228/UptimeGuard/internal/state"
)

// Engine owns the read-decide-write cycle over the notification state store.
// A single mutex serializes probe-triggered decisions and administrative
// operations, so two decisions can never interleave their writes.
type Engine struct {
	mu        sync.Mutex
	store     notifystate.Store
	threshold int
	logger    *log.Logger
}

// NewEngine builds an engine with the given store and failure threshold.
func NewEngine(store notifystate.Store, threshold int, logger *log.Logger) *Engine {
	if threshold < 1 {
		threshold = 1
	}
	return &Engine{store: store, threshold: threshold, logger: logger}
}

// Evaluate runs one decision cycle for a site and persists the outcome when
// it authorizes a send. The record write happens before any delivery attempt;
// it means "we decided to notify", not "delivery succeeded".
func (e *Engine) Evaluate(url string, status state.Status, failures int) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.store.Load()
	if err != nil {
		e.warn("loading notification state failed, deciding against empty history", url, err)
		records = map[string]notifystate.Record{}
	}

	var record *notifystate.Record
	if rec, ok := records[url]; ok {
		record = &rec
	}

	decision := Decide(status, failures, e.threshold, record)
	if !decision.Send() {
		return decision
	}

	count := failures
	if status == state.StatusUp {
		count = 0
	}
	records[url] = notifystate.Record{
		Status:              string(status),
		Timestamp:           time.Now().Unix(),
		ConsecutiveFailures: count,
	}
	if err := e.store.Save(records); err != nil {
		e.warn("saving notification state failed", url, err)
	}
	return decision
}

// Threshold returns the current process-wide failure threshold.
func (e *Engine) Threshold() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.threshold
}

// SetThreshold hot-reloads the failure threshold.
func (e *Engine) SetThreshold(n int) error {
	if n < 1 {
		return fmt.Errorf("failure threshold must be >= 1, got %d", n)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.threshold = n
	return nil
}

// ClearSite drops a site's notification history, as when the site is removed
// from the registry.
func (e *Engine) ClearSite(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ClearSite(url)
}

// ClearAll drops all notification history.
func (e *Engine) ClearAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ClearAll()
}

func (e *Engine) warn(message, url string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(message, map[string]interface{}{
		"url":   url,
		"error": err.Error(),
	})
}
