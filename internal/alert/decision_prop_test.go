package alert

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/zq535228/UptimeGuard/internal/notifystate"
	"github.com/zq535228/UptimeGuard/internal/state"
)

func intGen(min, max int) gopter.Gen {
	return gopter.Gen(func(genParams *gopter.GenParameters) *gopter.GenResult {
		value := min + genParams.Rng.Intn(max-min+1)
		return gopter.NewGenResult(value, gopter.NoShrinker)
	})
}

func TestPropertyThresholdGate(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	props.Property("no failure send below threshold for any history", prop.ForAll(
		func(threshold, failures, recorded int) bool {
			if failures >= threshold {
				return true
			}
			histories := []*notifystate.Record{
				nil,
				{Status: "up"},
				{Status: "down", ConsecutiveFailures: recorded},
			}
			for _, record := range histories {
				if Decide(state.StatusDown, failures, threshold, record).Send() {
					return false
				}
			}
			return true
		},
		intGen(1, 20),
		intGen(0, 19),
		intGen(0, 30),
	))

	props.TestingRun(t)
}

func TestPropertyIdempotence(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	props.Property("repeating the same down count after a send always suppresses", prop.ForAll(
		func(threshold, extra int) bool {
			count := threshold + extra
			first := Decide(state.StatusDown, count, threshold, nil)
			if first != SendFailure {
				return false
			}
			record := &notifystate.Record{Status: "down", ConsecutiveFailures: count}
			for i := 0; i < 5; i++ {
				if Decide(state.StatusDown, count, threshold, record) != Suppress {
					return false
				}
			}
			return true
		},
		intGen(1, 10),
		intGen(0, 10),
	))

	props.TestingRun(t)
}

func TestPropertyMonotonicEscalation(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	props.Property("strictly increasing counts past threshold always send", prop.ForAll(
		func(threshold, steps int) bool {
			var record *notifystate.Record
			count := threshold
			for i := 0; i < steps; i++ {
				decision := Decide(state.StatusDown, count, threshold, record)
				if i == 0 && decision != SendFailure {
					return false
				}
				if i > 0 && decision != SendFailureUpdate {
					return false
				}
				record = &notifystate.Record{Status: "down", ConsecutiveFailures: count}
				count++
			}
			return true
		},
		intGen(1, 10),
		intGen(1, 15),
	))

	props.TestingRun(t)
}

func TestPropertyRecoveryExactlyOnce(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	props := gopter.NewProperties(params)

	props.Property("an up result after a down record recovers exactly once", prop.ForAll(
		func(threshold, recorded int) bool {
			record := &notifystate.Record{Status: "down", ConsecutiveFailures: recorded}
			if Decide(state.StatusUp, 0, threshold, record) != SendRecovery {
				return false
			}
			after := &notifystate.Record{Status: "up"}
			return Decide(state.StatusUp, 0, threshold, after) == Suppress
		},
		intGen(1, 10),
		intGen(1, 30),
	))

	props.TestingRun(t)
}
