package state

import (
	"sort"
	"sync"

	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/probe"
)

// TrackerImpl is a thread-safe in-memory site state tracker.
type TrackerImpl struct {
	mu    sync.RWMutex
	sites map[string]*SiteState
}

// NewTracker creates a tracker initialized with the provided sites.
func NewTracker(sites []config.SiteConfig) *TrackerImpl {
	tracker := &TrackerImpl{sites: make(map[string]*SiteState)}
	tracker.UpdateSites(sites)
	return tracker
}

// Record folds a probe result into the site's runtime state and returns the
// updated state. The failure counter resets to 0 on any up result and grows
// by exactly 1 on each consecutive down result.
func (t *TrackerImpl) Record(site config.SiteConfig, result probe.Result) SiteState {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.sites[site.URL]
	if !ok {
		entry = &SiteState{Name: site.Name, URL: site.URL, Status: StatusUnknown}
		t.sites[site.URL] = entry
	}
	entry.Name = site.Name

	if result.Up {
		entry.Status = StatusUp
		entry.ConsecutiveFailures = 0
	} else {
		entry.Status = StatusDown
		entry.ConsecutiveFailures++
	}
	entry.LastResult = result

	return *entry
}

// Snapshot returns a copy of all site states, sorted by name for stable
// presentation. Readers never observe in-place mutation.
func (t *TrackerImpl) Snapshot() []SiteState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make([]SiteState, 0, len(t.sites))
	for _, entry := range t.sites {
		snapshot = append(snapshot, *entry)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].Name != snapshot[j].Name {
			return snapshot[i].Name < snapshot[j].Name
		}
		return snapshot[i].URL < snapshot[j].URL
	})
	return snapshot
}

// Get returns a copy of a single site state.
func (t *TrackerImpl) Get(url string) (SiteState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.sites[url]
	if !ok {
		return SiteState{}, false
	}
	return *entry, true
}

// UpdateSites reconciles the tracked set with the registry: new sites start
// as unknown, removed sites are dropped, existing sites keep their counters.
func (t *TrackerImpl) UpdateSites(sites []config.SiteConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()

	updated := make(map[string]*SiteState, len(sites))
	for _, site := range sites {
		if site.URL == "" {
			continue
		}
		if existing, ok := t.sites[site.URL]; ok {
			existing.Name = site.Name
			updated[site.URL] = existing
			continue
		}
		updated[site.URL] = &SiteState{Name: site.Name, URL: site.URL, Status: StatusUnknown}
	}
	t.sites = updated
}
