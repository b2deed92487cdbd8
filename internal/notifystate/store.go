// Package notifystate persists what was last communicated per site, the
// durable memory behind the notification dedup policy.
package notifystate

// Record is the last-notified state for one site. ConsecutiveFailures is only
// meaningful when Status is "down"; it carries the exact failure count at
// which the last alert fired.
type Record struct {
	Status              string `json:"status"`
	Timestamp           int64  `json:"timestamp"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// Store is the durable mapping from site URL to last-notified state. The
// whole mapping is the unit of persistence: Load returns it in full, Save
// replaces it in full. Callers serialize load/decide/save cycles themselves;
// implementations only guarantee that a single Save is atomic.
type Store interface {
	Load() (map[string]Record, error)
	Save(records map[string]Record) error
	ClearSite(url string) error
	ClearAll() error
}
