package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Statsd is the part of the DataDog client the reporter needs.
type Statsd interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
}

type ReporterConfig struct {
	Name string
}

// Reporter's job is to listen to executed asset jobs and aggregate results,
// sending to Datadog for monitoring purpose. A nil Statsd only logs.
type Reporter struct {
	Config ReporterConfig

	Statsd Statsd

	EventBus *gochannel.GoChannel

	ready     chan struct{}
	readyOnce sync.Once
}

func NewReporter(config ReporterConfig, statsd Statsd, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the reporter listens to executed jobs.
func (r *Reporter) Ready() <-chan struct{} {
	return r.ready
}

// Report job result state to datadog.
func ReportResultState(job ExecutedAssetJob, statsd Statsd) {
	Logger.Log.WithField("job_id", job.JobID).
		WithField("attempts", job.Attempts).
		Infof("asset job %s", job.State)
	if statsd == nil {
		return
	}
	tags := []string{fmt.Sprintf("state:%s", job.State)}
	if err := statsd.Incr(DdogAssetJobStateCounter, tags, 1); err != nil {
		Logger.Log.Infoln("cannot report result state")
	}
	if err := statsd.Count(DdogAssetJobAttemptsCounter, int64(job.Attempts), tags, 1); err != nil {
		Logger.Log.Infoln("cannot report attempts")
	}
}

func (r *Reporter) ProcessExecutedJobs(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, TopicExecutedAssetJob)
	if err != nil {
		return err
	}
	r.readyOnce.Do(func() { close(r.ready) })

	for msg := range messages {
		msg.Ack()

		job := ExecutedAssetJob{}
		if err := json.Unmarshal(msg.Payload, &job); err != nil {
			Logger.Log.Errorf("drop malformed executed job message %s: %v", msg.UUID, err)
			continue
		}

		ReportResultState(job, r.Statsd)
	}

	return nil
}

func (r *Reporter) RunModule(ctx context.Context) error {
	return r.ProcessExecutedJobs(ctx)
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {}
