package adapters

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/architeacher/svc-health-gate/internal/service"
)

type RequestHandler struct {
	app    service.ApplicationService
	logger infrastructure.Logger
}

func NewRequestHandler(
	app service.ApplicationService,
	logger infrastructure.Logger,
) *RequestHandler {
	return &RequestHandler{
		app:    app,
		logger: logger,
	}
}

type livenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthCheck handles GET /health. Liveness only confirms the process is
// running; no dependency is touched.
func (h *RequestHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	result := h.app.FetchLivenessReport(r.Context())

	h.logger.Debug().
		Float32("uptime_seconds", result.Uptime).
		Msg("liveness check completed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(livenessResponse{
		Status:    result.Status,
		Timestamp: result.Timestamp.Format(time.RFC3339),
	}); err != nil {
		h.logger.Error().Err(err).Msg("failed to write liveness response")
	}
}

// ReadinessCheck handles GET /health/ready. The verdict maps to exactly two
// status codes: 200 when ready, 503 otherwise. There is no 500 path.
func (h *RequestHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	result := h.app.FetchReadinessReport(r.Context())

	statusCode := http.StatusOK
	if !result.Ready() {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(presentReadiness(result, time.Now().UTC())); err != nil {
		h.logger.Error().Err(err).Msg("failed to write readiness response")
	}
}

// presentReadiness renders the readiness body with a stable key order:
// status, timestamp, the dependencies in registration order, errors last.
// On timeout the dependency keys are omitted entirely because their
// outcomes are indeterminate at cancellation time.
func presentReadiness(result *domain.AggregateResult, now time.Time) []byte {
	var buf bytes.Buffer

	buf.WriteByte('{')
	writeJSONField(&buf, "status", string(result.OverallStatus))
	buf.WriteByte(',')
	writeJSONField(&buf, "timestamp", now.Format(time.RFC3339))

	if !result.TimedOut {
		for _, name := range result.Order {
			buf.WriteByte(',')
			writeJSONField(&buf, name, string(result.PerDependency[name]))
		}
	}

	if len(result.Errors) != 0 {
		buf.WriteString(`,"errors":{`)

		if result.TimedOut {
			writeJSONField(&buf, domain.TimeoutErrorKey, result.Errors[domain.TimeoutErrorKey])
		} else {
			first := true
			for _, name := range result.Order {
				detail, failed := result.Errors[name]
				if !failed {
					continue
				}

				if !first {
					buf.WriteByte(',')
				}

				writeJSONField(&buf, name, detail)
				first = false
			}
		}

		buf.WriteByte('}')
	}

	buf.WriteByte('}')

	return buf.Bytes()
}

func writeJSONField(buf *bytes.Buffer, key, value string) {
	keyJSON, _ := json.Marshal(key)
	valueJSON, _ := json.Marshal(value)

	buf.Write(keyJSON)
	buf.WriteByte(':')
	buf.Write(valueJSON)
}
