package service

import (
	"context"

	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/architeacher/svc-health-gate/internal/ports"
)

type (
	// ApplicationService is the use-case surface consumed by the HTTP layer.
	// Neither report operation returns an error: every path through the
	// readiness engine terminates in a well-formed result.
	ApplicationService interface {
		FetchReadinessReport(ctx context.Context) *domain.AggregateResult
		FetchLivenessReport(ctx context.Context) *domain.LivenessResult
	}

	appService struct {
		healthChecker ports.HealthChecker
		logger        infrastructure.Logger
	}
)

func NewApplicationService(
	healthChecker ports.HealthChecker,
	logger infrastructure.Logger,
) ApplicationService {
	return &appService{
		healthChecker: healthChecker,
		logger:        logger,
	}
}

func (s *appService) FetchReadinessReport(ctx context.Context) *domain.AggregateResult {
	return s.healthChecker.CheckReadiness(ctx)
}

func (s *appService) FetchLivenessReport(ctx context.Context) *domain.LivenessResult {
	return s.healthChecker.CheckLiveness(ctx)
}
