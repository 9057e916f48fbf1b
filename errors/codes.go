package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Startup errors
const (
	// ErrCodeConfigInvalid indicates a malformed flag or configuration value.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ErrCodeRouteConflict indicates a route name was registered twice.
	ErrCodeRouteConflict ErrorCode = "ROUTE_CONFLICT"
	// ErrCodeMetricsBindFailed indicates the metrics collector could not be attached.
	ErrCodeMetricsBindFailed ErrorCode = "METRICS_BIND_FAILED"
	// ErrCodeBindFailed indicates the listener could not bind host:port.
	ErrCodeBindFailed ErrorCode = "BIND_FAILED"
)

// Request-time errors
const (
	// ErrCodeProbeFailed indicates a liveness or readiness probe returned an error.
	ErrCodeProbeFailed ErrorCode = "PROBE_FAILED"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// fatalCodes lists codes that must stop the process before Run serves traffic.
var fatalCodes = map[ErrorCode]bool{
	ErrCodeConfigInvalid:     true,
	ErrCodeRouteConflict:     true,
	ErrCodeMetricsBindFailed: true,
	ErrCodeBindFailed:        true,
}

// IsFatalCode returns true if the error code belongs to the startup taxonomy.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
