package ports

import (
	"context"

	"github.com/architeacher/svc-health-gate/internal/domain"
)

type (
	// DependencyCheck is a named probe against a single runtime dependency.
	// Implementations must not return errors or panic outward: every failure
	// mode folds into ProbeOutcome{OK: false, Detail: ...}. Probe may block
	// on network I/O and must honor ctx cancellation on a best-effort basis.
	DependencyCheck interface {
		Name() string
		Probe(ctx context.Context) domain.ProbeOutcome
	}

	// HealthChecker produces readiness and liveness reports.
	HealthChecker interface {
		CheckReadiness(ctx context.Context) *domain.AggregateResult
		CheckLiveness(ctx context.Context) *domain.LivenessResult
	}
)
