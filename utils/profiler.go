package utils

import (
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog continuous profiler for the given service.
func StartProfiler(serviceName string) error {
	return profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithEnv(DatadogEnv()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	)
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
