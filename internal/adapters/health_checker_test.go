package adapters

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/architeacher/svc-health-gate/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name    string
	delay   time.Duration
	outcome func() domain.ProbeOutcome
	calls   atomic.Int32
}

func (s *stubCheck) Name() string {
	return s.name
}

func (s *stubCheck) Probe(_ context.Context) domain.ProbeOutcome {
	s.calls.Add(1)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	return s.outcome()
}

func healthyCheck(name string) *stubCheck {
	return &stubCheck{
		name: name,
		outcome: func() domain.ProbeOutcome {
			return domain.ProbeOutcome{OK: true}
		},
	}
}

func failingCheck(name, detail string) *stubCheck {
	return &stubCheck{
		name: name,
		outcome: func() domain.ProbeOutcome {
			return domain.ProbeOutcome{OK: false, Detail: detail}
		},
	}
}

type panickingCheck struct {
	name string
}

func (p panickingCheck) Name() string {
	return p.name
}

func (p panickingCheck) Probe(_ context.Context) domain.ProbeOutcome {
	panic("connection pool exhausted")
}

func newTestChecker(checks []ports.DependencyCheck, budget time.Duration) ports.HealthChecker {
	return NewHealthChecker(checks, budget, infrastructure.NewTestLogger(), &infrastructure.NoOpMetrics{})
}

func TestHealthChecker_CheckReadiness(t *testing.T) {
	t.Parallel()

	t.Run("reports ready when all dependencies are healthy", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{
			healthyCheck("database"),
			healthyCheck("cache"),
		}, time.Second)

		result := checker.CheckReadiness(context.Background())

		require.NotNil(t, result)
		assert.Equal(t, domain.ReadinessStatusReady, result.OverallStatus)
		assert.True(t, result.Ready())
		assert.False(t, result.TimedOut)
		assert.Equal(t, domain.DependencyStateOK, result.PerDependency["database"])
		assert.Equal(t, domain.DependencyStateOK, result.PerDependency["cache"])
		assert.Empty(t, result.Errors)
		assert.Equal(t, []string{"database", "cache"}, result.Order)
	})

	t.Run("isolates a single dependency failure", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{
			healthyCheck("database"),
			failingCheck("cache", "Connection timeout after 5000ms"),
		}, time.Second)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, domain.ReadinessStatusUnavailable, result.OverallStatus)
		assert.False(t, result.Ready())
		assert.False(t, result.TimedOut)
		assert.Equal(t, domain.DependencyStateOK, result.PerDependency["database"])
		assert.Equal(t, domain.DependencyStateError, result.PerDependency["cache"])
		assert.Equal(t, "Connection timeout after 5000ms", result.Errors["cache"])
		assert.NotContains(t, result.Errors, "database")
	})

	t.Run("collects every failure when all dependencies are down", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{
			failingCheck("database", "connection refused"),
			failingCheck("cache", "connection refused"),
		}, time.Second)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, domain.ReadinessStatusUnavailable, result.OverallStatus)
		assert.Equal(t, domain.DependencyStateError, result.PerDependency["database"])
		assert.Equal(t, domain.DependencyStateError, result.PerDependency["cache"])
		assert.Len(t, result.Errors, 2)
	})

	t.Run("timeout verdict replaces partial results", func(t *testing.T) {
		t.Parallel()

		fast := healthyCheck("database")
		slow := healthyCheck("cache")
		slow.delay = 500 * time.Millisecond

		checker := newTestChecker([]ports.DependencyCheck{fast, slow}, 50*time.Millisecond)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, domain.ReadinessStatusUnavailable, result.OverallStatus)
		assert.True(t, result.TimedOut)
		assert.Empty(t, result.PerDependency, "no per-dependency verdicts on timeout")
		assert.Equal(t, "Health check exceeded 50ms timeout", result.Errors[domain.TimeoutErrorKey])
		assert.Len(t, result.Errors, 1)
	})

	t.Run("every invocation probes dependencies afresh", func(t *testing.T) {
		t.Parallel()

		var healthy atomic.Bool

		flipping := &stubCheck{
			name: "database",
			outcome: func() domain.ProbeOutcome {
				if healthy.Load() {
					return domain.ProbeOutcome{OK: true}
				}

				return domain.ProbeOutcome{OK: false, Detail: "connection refused"}
			},
		}

		checker := newTestChecker([]ports.DependencyCheck{flipping}, time.Second)

		first := checker.CheckReadiness(context.Background())
		assert.Equal(t, domain.ReadinessStatusUnavailable, first.OverallStatus)

		healthy.Store(true)

		second := checker.CheckReadiness(context.Background())
		assert.Equal(t, domain.ReadinessStatusReady, second.OverallStatus)

		assert.Equal(t, int32(2), flipping.calls.Load(), "each invocation runs the probe")
	})

	t.Run("dispatches probes concurrently", func(t *testing.T) {
		t.Parallel()

		first := healthyCheck("database")
		first.delay = 80 * time.Millisecond
		second := healthyCheck("cache")
		second.delay = 80 * time.Millisecond

		checker := newTestChecker([]ports.DependencyCheck{first, second}, time.Second)

		start := time.Now()
		result := checker.CheckReadiness(context.Background())
		elapsed := time.Since(start)

		assert.Equal(t, domain.ReadinessStatusReady, result.OverallStatus)
		assert.Less(t, elapsed, 150*time.Millisecond, "sequential execution would take at least 160ms")
	})

	t.Run("late aggregation result is never observed", func(t *testing.T) {
		t.Parallel()

		slow := healthyCheck("database")
		slow.delay = 100 * time.Millisecond

		checker := newTestChecker([]ports.DependencyCheck{slow}, 30*time.Millisecond)

		result := checker.CheckReadiness(context.Background())

		require.True(t, result.TimedOut)

		// Let the probe goroutine finish well past the deadline; the verdict
		// already returned must not change underneath the caller.
		time.Sleep(150 * time.Millisecond)

		assert.True(t, result.TimedOut)
		assert.Empty(t, result.PerDependency)
		assert.Equal(t, domain.ReadinessStatusUnavailable, result.OverallStatus)
	})

	t.Run("panicking probe degrades to an error entry", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{
			healthyCheck("database"),
			panickingCheck{name: "cache"},
		}, time.Second)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, domain.ReadinessStatusUnavailable, result.OverallStatus)
		assert.Equal(t, domain.DependencyStateOK, result.PerDependency["database"])
		assert.Equal(t, domain.DependencyStateError, result.PerDependency["cache"])
		assert.Equal(t, "probe failure: connection pool exhausted", result.Errors["cache"])
	})

	t.Run("failure without detail gets a generic message", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{
			failingCheck("database", ""),
		}, time.Second)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, "dependency check failed", result.Errors["database"])
	})

	t.Run("zero budget falls back to the default", func(t *testing.T) {
		t.Parallel()

		checker := newTestChecker([]ports.DependencyCheck{healthyCheck("database")}, 0)

		result := checker.CheckReadiness(context.Background())

		assert.Equal(t, domain.ReadinessStatusReady, result.OverallStatus)
		assert.False(t, result.TimedOut)
	})
}

func TestHealthChecker_CheckLiveness(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(nil, time.Second)

	result := checker.CheckLiveness(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, "ok", result.Status)
	assert.WithinDuration(t, time.Now().UTC(), result.Timestamp, time.Second)
	assert.GreaterOrEqual(t, result.Uptime, float32(0))
}
