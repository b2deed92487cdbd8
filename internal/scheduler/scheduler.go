package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/zq535228/UptimeGuard/internal/alert"
	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/log"
	"github.com/zq535228/UptimeGuard/internal/notify"
	"github.com/zq535228/UptimeGuard/internal/probe"
	"github.com/zq535228/UptimeGuard/internal/state"
)

const notifySendTimeout = 30 * time.Second

// SiteSource yields the current site list each tick, so adds and removes in
// the registry take effect without a restart.
type SiteSource interface {
	Load() ([]config.SiteConfig, error)
}

// Scheduler drives periodic probing of all registered sites.
type Scheduler struct {
	cfg      config.Options
	sites    SiteSource
	prober   probe.Prober
	tracker  state.Tracker
	engine   *alert.Engine
	notifier notify.Notifier
	logger   *log.Logger
	probeLog *log.ProbeLog

	mu        sync.Mutex
	inflight  map[string]struct{}
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New constructs a scheduler. notifier and probeLog may be nil when the
// corresponding collaborator is not configured.
func New(
	cfg config.Options,
	sites SiteSource,
	prober probe.Prober,
	tracker state.Tracker,
	engine *alert.Engine,
	notifier notify.Notifier,
	logger *log.Logger,
	probeLog *log.ProbeLog,
) *Scheduler {
	concurrency := cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		cfg:       cfg,
		sites:     sites,
		prober:    prober,
		tracker:   tracker,
		engine:    engine,
		notifier:  notifier,
		logger:    logger,
		probeLog:  probeLog,
		inflight:  make(map[string]struct{}),
		semaphore: make(chan struct{}, concurrency),
	}
}

// Run probes all sites once immediately, then on every wall-clock tick, and
// blocks until the context is cancelled. Ticks that overrun the interval do
// not compound: a site whose previous probe is still in flight is skipped
// for the tick. On cancellation, in-flight probes finish up to their own
// timeout before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	sites, err := s.sites.Load()
	if err != nil {
		s.logger.Warn("site registry unreadable, skipping tick", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.tracker.UpdateSites(sites)

	for _, site := range sites {
		if site.URL == "" {
			s.logger.Warn("skipping site with empty url", map[string]interface{}{
				"name": site.Name,
			})
			continue
		}
		if !s.markInflight(site.URL) {
			continue
		}
		s.wg.Add(1)
		go func(site config.SiteConfig) {
			defer s.wg.Done()
			defer s.clearInflight(site.URL)
			s.runCycle(ctx, site)
		}(site)
	}
}

// runCycle executes the full per-site cycle: probe, tracker update, decision
// with state write-back, notification, probe log line. Because the in-flight
// mark is held across all of it, probes for one site are strictly sequential.
func (s *Scheduler) runCycle(ctx context.Context, site config.SiteConfig) {
	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		return
	}

	// The probe gets its own deadline, deliberately detached from the run
	// context: shutdown lets network calls reach their own timeout instead
	// of killing them with a decision half-applied.
	probeCtx, cancel := context.WithTimeout(context.Background(), site.Timeout(s.cfg.Timeout))
	defer cancel()

	target := probe.Target{
		Name:    site.Name,
		URL:     site.URL,
		Keyword: site.Keyword,
		Timeout: site.Timeout(s.cfg.Timeout),
	}
	result := s.prober.Probe(probeCtx, target)

	siteState := s.tracker.Record(site, result)
	s.logger.LogProbeResult(site.Name, site.URL, result.Up, result.LatencyMS, result.Reason)
	if s.probeLog != nil {
		if err := s.probeLog.AppendResult(site.Name, site.URL, result); err != nil {
			s.logger.Warn("probe log write failed", map[string]interface{}{
				"url":   site.URL,
				"error": err.Error(),
			})
		}
	}

	decision := s.engine.Evaluate(site.URL, siteState.Status, siteState.ConsecutiveFailures)
	if !decision.Send() || s.notifier == nil {
		return
	}

	s.logger.LogDecision(site.Name, site.URL, string(decision), siteState.ConsecutiveFailures)
	event := notify.Event{
		Kind:                decisionKind(decision),
		SiteName:            site.Name,
		SiteURL:             site.URL,
		ConsecutiveFailures: siteState.ConsecutiveFailures,
		LatencyMS:           result.LatencyMS,
		Reason:              result.Reason,
	}
	sendCtx, cancelSend := context.WithTimeout(context.Background(), notifySendTimeout)
	defer cancelSend()
	if err := s.notifier.Notify(sendCtx, event); err != nil {
		// The record already reflects the decision; a failed delivery is
		// logged and left to the channel's own retry policy.
		s.logger.Warn("notification delivery failed", map[string]interface{}{
			"url":   site.URL,
			"kind":  string(event.Kind),
			"error": err.Error(),
		})
	}
}

func (s *Scheduler) markInflight(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[url]; busy {
		return false
	}
	s.inflight[url] = struct{}{}
	return true
}

func (s *Scheduler) clearInflight(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, url)
}

func decisionKind(decision alert.Decision) notify.Kind {
	switch decision {
	case alert.SendRecovery:
		return notify.KindRecovery
	case alert.SendFailureUpdate:
		return notify.KindFailureUpdate
	default:
		return notify.KindFailure
	}
}
