package notify

import "context"

// Kind is the kind of notification a decision authorized.
type Kind string

const (
	KindFailure       Kind = "failure"
	KindFailureUpdate Kind = "failure-update"
	KindRecovery      Kind = "recovery"
)

// Event carries everything a channel needs to render one notification.
type Event struct {
	Kind                Kind
	SiteName            string
	SiteURL             string
	ConsecutiveFailures int
	LatencyMS           int64
	Reason              string
}

// Notifier delivers one notification. Implementations own their retry
// policy; the decision engine never retries and never rolls back state on a
// delivery failure.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi fans one event out to several channels. Every channel gets the
// event; the first error is returned after all sends were attempted.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, event Event) error {
	var firstErr error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
