package state

import (
	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/probe"
)

// Status is the externally visible health of a site.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

// SiteState is the per-site runtime state mutated after each probe.
type SiteState struct {
	Name                string
	URL                 string
	Status              Status
	ConsecutiveFailures int
	LastResult          probe.Result
}

// Tracker defines operations for tracking site runtime state.
type Tracker interface {
	Record(site config.SiteConfig, result probe.Result) SiteState
	Snapshot() []SiteState
	Get(url string) (SiteState, bool)
	UpdateSites(sites []config.SiteConfig)
}
