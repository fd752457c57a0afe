package metrics

import (
	"net/http"
	"time"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordTurn(status string, duration time.Duration)
	RecordCrisisDetected(crisisType, severity string)
	RecordNotification(status string)
	RecordDBQuery(operation, status string)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordTurn(status string, duration time.Duration) {}
func (m *NoOpMetrics) RecordCrisisDetected(crisisType, severity string) {}
func (m *NoOpMetrics) RecordNotification(status string)                 {}
func (m *NoOpMetrics) RecordDBQuery(operation, status string)           {}
func (m *NoOpMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }

// Global metrics instance
var globalMetrics Metrics = &NoOpMetrics{}

// Init initializes metrics (no-op for now, can be extended with Prometheus)
func Init() {
	// For now, keep using no-op metrics
	// In a full implementation, this would initialize Prometheus metrics
}

// Handler returns the metrics handler
func Handler() http.Handler {
	return globalMetrics.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	globalMetrics.RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordTurn records conversation turn processing metrics
func RecordTurn(status string, duration time.Duration) {
	globalMetrics.RecordTurn(status, duration)
}

// RecordCrisisDetected records a crisis detection by type and severity
func RecordCrisisDetected(crisisType, severity string) {
	globalMetrics.RecordCrisisDetected(crisisType, severity)
}

// RecordNotification records a clinician notification outcome
func RecordNotification(status string) {
	globalMetrics.RecordNotification(status)
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, status string) {
	globalMetrics.RecordDBQuery(operation, status)
}
