package infrastructure

import (
	"context"
	"net/http"
	"time"
)

type (
	NoOpMetrics struct{}
)

func (n *NoOpMetrics) RecordHTTPRequest(_ context.Context, _, _ string, _ int, _ time.Duration, _, _ int64) {
}

func (n *NoOpMetrics) RecordReadinessCheck(_ context.Context, _ time.Duration, _ string, _ bool) {
}

func (n *NoOpMetrics) RecordDependencyProbe(_ context.Context, _ string, _ time.Duration, _ bool) {
}

func (n *NoOpMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (n *NoOpMetrics) Shutdown(_ context.Context) error {
	return nil
}
