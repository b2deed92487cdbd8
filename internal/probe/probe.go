package probe

import (
	"context"
	"time"
)

// TLSStatus is the TLS certificate signal for a probe. It is only meaningful
// for https targets; plain http probes report TLSNotApplicable.
type TLSStatus string

const (
	TLSUp            TLSStatus = "up"
	TLSDown          TLSStatus = "down"
	TLSNotApplicable TLSStatus = "-"
)

// KeywordStatus is the content-keyword signal for a probe. It is only
// meaningful when the site has a keyword configured.
type KeywordStatus string

const (
	KeywordMatch         KeywordStatus = "match"
	KeywordMiss          KeywordStatus = "miss"
	KeywordNotApplicable KeywordStatus = "-"
)

// Target describes a single probe request.
type Target struct {
	Name    string
	URL     string
	Keyword string
	Timeout time.Duration
}

// Result captures a single probe outcome. Error conditions never surface as
// errors; they are folded into Up=false with a Reason for logging.
type Result struct {
	StatusCode int // 0 when no HTTP response was obtained
	TLS        TLSStatus
	Keyword    KeywordStatus
	LatencyMS  int64
	Timestamp  time.Time
	Up         bool
	Reason     string
}

// Prober performs a single availability check for a target.
type Prober interface {
	Probe(ctx context.Context, target Target) Result
}
