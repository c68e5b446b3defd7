package metrics

import (
	"strconv"
	"time"

	"github.com/appscope/appscope/internal/observability"
)

// Metric names
const (
	OutboundRequestsTotal   = "catalog_requests_total"
	OutboundRequestDuration = "catalog_request_duration_ms"
	OutboundErrorsTotal     = "catalog_request_errors_total"
	OperationsTotal         = "catalog_operations_total"
	ErrorsTotal             = "errors_total"
	PanicsTotal             = "panics_total"
	ErrorsByEndpoint        = "errors_by_endpoint"
	ServerStartTime         = "app_server_start_time_seconds"
)

// RecordOutboundRequest records a completed catalog request.
func RecordOutboundRequest(host string, status string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	labels := map[string]string{
		"host":   host,
		"status": status,
	}
	_ = observability.TelemetrySystem.Counter(OutboundRequestsTotal, 1, labels)
	_ = observability.TelemetrySystem.Histogram(OutboundRequestDuration, duration, map[string]string{"host": host})
}

// RecordOutboundError records a catalog request that produced no response.
func RecordOutboundError(host string, kind string) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(OutboundErrorsTotal, 1, map[string]string{
		"host": host,
		"kind": kind,
	})
}

// RecordOperation records a lookup or privacy fetch with its outcome kind.
func RecordOperation(operation string, outcome string) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(OperationsTotal, 1, map[string]string{
		"operation": operation,
		"outcome":   outcome,
	})
}

// RecordError records an error response with code and status.
func RecordError(errorCode string, httpStatus int) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(ErrorsTotal, 1, map[string]string{
		"error_code":  errorCode,
		"http_status": strconv.Itoa(httpStatus),
	})
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(ErrorsByEndpoint, 1, map[string]string{
		"endpoint":   endpoint,
		"error_code": errorCode,
	})
}

// RecordPanic records a panic recovery.
func RecordPanic() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(PanicsTotal, 1, nil)
	}
}

// SetServerStartTime records the server start time (Unix timestamp).
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
	}
}
