package domain

import (
	"time"
)

type (
	// ReadinessStatus is the aggregate verdict for one readiness invocation.
	ReadinessStatus string

	// DependencyState is the folded per-dependency outcome.
	DependencyState string

	// ProbeOutcome is the result of one minimal round-trip against a single
	// dependency. Detail is set only when OK is false.
	ProbeOutcome struct {
		OK     bool
		Detail string
	}

	// AggregateResult is produced once per readiness invocation and never
	// mutated afterwards.
	//
	// Invariant: OverallStatus is ReadinessStatusReady iff every entry in
	// PerDependency is DependencyStateOK and TimedOut is false. Errors holds
	// an entry for every dependency in the error state. When TimedOut is set,
	// PerDependency is empty and Errors holds the single TimeoutErrorKey
	// entry, since probe outcomes are indeterminate at cancellation time.
	AggregateResult struct {
		OverallStatus ReadinessStatus
		PerDependency map[string]DependencyState
		Errors        map[string]string
		TimedOut      bool
		ElapsedMillis int64

		// Order preserves dependency registration order for presentation.
		Order []string
	}

	// LivenessResult reports that the process is running, nothing more.
	LivenessResult struct {
		Status    string
		Timestamp time.Time
		Uptime    float32
	}
)

const (
	ReadinessStatusReady       ReadinessStatus = "ready"
	ReadinessStatusUnavailable ReadinessStatus = "unavailable"
)

const (
	DependencyStateOK    DependencyState = "ok"
	DependencyStateError DependencyState = "error"
)

// TimeoutErrorKey is the synthetic Errors entry written when the aggregate
// deadline elapses before all probes report.
const TimeoutErrorKey = "timeout"

// Ready reports whether the instance may receive traffic.
func (r *AggregateResult) Ready() bool {
	return r.OverallStatus == ReadinessStatusReady
}
