// Package alert decides, per probe cycle, whether the notification channel
// must be informed of a site's state, deduplicating against the persisted
// notification history.
package alert

import (
	"github.com/zq535228/UptimeGuard/internal/notifystate"
	"github.com/zq535228/UptimeGuard/internal/state"
)

// Decision classifies what, if anything, should be sent for a probe outcome.
type Decision string

const (
	Suppress          Decision = "suppress"
	SendFailure       Decision = "send-failure"
	SendFailureUpdate Decision = "send-failure-update"
	SendRecovery      Decision = "send-recovery"
)

// Send reports whether the decision authorizes a notification.
func (d Decision) Send() bool {
	return d != Suppress
}

// Decide evaluates one probe outcome against the site's notification record.
// record is nil when the site has no history. Precedence, first match wins:
//
//	up    + no history or last-notified up            -> suppress
//	up    + last-notified down                        -> send-recovery
//	down  + failures below threshold                  -> suppress
//	down  + no history or last-notified up            -> send-failure
//	down  + same failure count already reported       -> suppress
//	down  + failure count grew past the last report   -> send-failure-update
//	down  + failure count below the last report       -> suppress (noise)
func Decide(status state.Status, failures, threshold int, record *notifystate.Record) Decision {
	if status == state.StatusUp {
		if record == nil || record.Status == string(state.StatusUp) {
			return Suppress
		}
		return SendRecovery
	}

	if failures < threshold {
		return Suppress
	}
	if record == nil || record.Status == string(state.StatusUp) {
		return SendFailure
	}
	switch {
	case failures == record.ConsecutiveFailures:
		return Suppress
	case failures > record.ConsecutiveFailures:
		return SendFailureUpdate
	default:
		// A count below the last reported streak is out-of-order noise;
		// never regress the record.
		return Suppress
	}
}
