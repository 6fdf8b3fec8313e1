// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// API client metrics
	IncAPIRequest(method, statusClass string) // statusClass: "2xx", "4xx", "5xx", "error"
	ObserveAPIRequestDuration(duration time.Duration)

	// Session metrics
	IncSessionInvalidated()
}

// StatusClass buckets an HTTP status. 0 means the transport failed.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
