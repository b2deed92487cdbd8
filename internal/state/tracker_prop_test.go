package state

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/probe"
)

func TestPropertyFailureCounter(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	site := config.SiteConfig{Name: "prop", URL: "https://prop.test"}

	props.Property("counter equals length of trailing down run", prop.ForAll(
		func(ups []bool) bool {
			tracker := NewTracker([]config.SiteConfig{site})

			trailing := 0
			var last SiteState
			for _, up := range ups {
				last = tracker.Record(site, probe.Result{Up: up})
				if up {
					trailing = 0
				} else {
					trailing++
				}
			}
			if len(ups) == 0 {
				return true
			}

			if last.ConsecutiveFailures != trailing {
				return false
			}
			expected := StatusDown
			if ups[len(ups)-1] {
				expected = StatusUp
			}
			return last.Status == expected
		},
		gen.SliceOf(gen.Bool()),
	))

	props.TestingRun(t)
}
