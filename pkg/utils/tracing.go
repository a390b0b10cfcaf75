package utils

const defaultServiceName = "innr-waitlist"

// IsTracingEnabled reports OTEL_TRACES_ENABLED; tracing is off unless explicitly enabled.
func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", defaultServiceName)
}
