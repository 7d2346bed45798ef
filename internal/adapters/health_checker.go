package adapters

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/architeacher/svc-health-gate/internal/ports"
	"github.com/google/uuid"
)

// HealthChecker fans out to every configured dependency check concurrently
// and folds the outcomes into a single verdict under one aggregate deadline.
// The check list is fixed at construction time and shared read-only across
// invocations; every invocation produces a fresh AggregateResult.
type HealthChecker struct {
	checks    []ports.DependencyCheck
	budget    time.Duration
	logger    infrastructure.Logger
	metrics   infrastructure.Metrics
	startTime time.Time
}

const defaultReadinessBudget = time.Second

func NewHealthChecker(
	checks []ports.DependencyCheck,
	budget time.Duration,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
) ports.HealthChecker {
	if budget <= 0 {
		budget = defaultReadinessBudget
	}

	return &HealthChecker{
		checks:    checks,
		budget:    budget,
		logger:    logger,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// CheckReadiness races the concurrent probe run against the aggregate
// deadline. The race resolves exactly once: the result channel is buffered,
// so an aggregation that finishes after the deadline fired parks its result
// in the buffer and it is never observed, while the probe goroutines drain
// on their own underlying I/O timeouts.
func (h *HealthChecker) CheckReadiness(ctx context.Context) *domain.AggregateResult {
	start := time.Now()
	checkID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, h.budget)
	defer cancel()

	resultChan := make(chan *domain.AggregateResult, 1)

	go func() {
		resultChan <- h.runAll(ctx)
	}()

	var result *domain.AggregateResult

	select {
	case result = <-resultChan:
	case <-ctx.Done():
		result = h.timeoutResult()
	}

	elapsed := time.Since(start)
	result.ElapsedMillis = elapsed.Milliseconds()

	h.metrics.RecordReadinessCheck(ctx, elapsed, string(result.OverallStatus), result.TimedOut)

	h.logger.Debug().
		Str("check_id", checkID).
		Str("status", string(result.OverallStatus)).
		Bool("timed_out", result.TimedOut).
		Int64("elapsed_ms", result.ElapsedMillis).
		Msg("readiness check completed")

	return result
}

// CheckLiveness confirms the process is running, without touching any
// dependency.
func (h *HealthChecker) CheckLiveness(_ context.Context) *domain.LivenessResult {
	return &domain.LivenessResult{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    float32(time.Since(h.startTime).Seconds()),
	}
}

// runAll dispatches all probes concurrently so every dependency gets the
// full budget, then folds the outcomes single-threaded after the fan-in.
// Each probe writes only to its own slot; no locking is needed.
func (h *HealthChecker) runAll(ctx context.Context) *domain.AggregateResult {
	outcomes := make([]domain.ProbeOutcome, len(h.checks))

	var wg sync.WaitGroup

	for i, check := range h.checks {
		wg.Add(1)

		go func(slot int, check ports.DependencyCheck) {
			defer wg.Done()

			probeStart := time.Now()
			outcome := h.safeProbe(ctx, check)
			outcomes[slot] = outcome

			h.metrics.RecordDependencyProbe(ctx, check.Name(), time.Since(probeStart), outcome.OK)
		}(i, check)
	}

	wg.Wait()

	result := &domain.AggregateResult{
		OverallStatus: domain.ReadinessStatusReady,
		PerDependency: make(map[string]domain.DependencyState, len(h.checks)),
		Errors:        make(map[string]string),
		Order:         make([]string, 0, len(h.checks)),
	}

	for i, check := range h.checks {
		name := check.Name()
		result.Order = append(result.Order, name)

		if outcomes[i].OK {
			result.PerDependency[name] = domain.DependencyStateOK

			continue
		}

		result.PerDependency[name] = domain.DependencyStateError
		result.Errors[name] = outcomes[i].Detail
	}

	if len(result.Errors) != 0 {
		result.OverallStatus = domain.ReadinessStatusUnavailable
	}

	return result
}

// safeProbe shields the aggregation from a misbehaving probe implementation:
// a panic degrades to an error entry instead of aborting the whole run.
func (h *HealthChecker) safeProbe(ctx context.Context, check ports.DependencyCheck) (outcome domain.ProbeOutcome) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Str("dependency", check.Name()).
				Interface("panic", r).
				Msg("dependency probe panicked")

			outcome = domain.ProbeOutcome{OK: false, Detail: fmt.Sprintf("probe failure: %v", r)}
		}
	}()

	outcome = check.Probe(ctx)

	// Detail is never empty on failure.
	if !outcome.OK && outcome.Detail == "" {
		outcome.Detail = "dependency check failed"
	}

	return outcome
}

func (h *HealthChecker) timeoutResult() *domain.AggregateResult {
	return &domain.AggregateResult{
		OverallStatus: domain.ReadinessStatusUnavailable,
		PerDependency: map[string]domain.DependencyState{},
		Errors: map[string]string{
			domain.TimeoutErrorKey: fmt.Sprintf("Health check exceeded %dms timeout", h.budget.Milliseconds()),
		},
		TimedOut: true,
	}
}
