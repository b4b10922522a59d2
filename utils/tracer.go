package utils

import (
	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer for the given service.
func StartTracer(serviceName string) {
	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(DatadogEnv()),
	)

	Logger.Log.WithFields(
		logrus.Fields{"env": DatadogEnv()},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
