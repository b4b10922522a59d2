package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const defaultConcurrency = 4

type OrchestratorConfig struct {
	// Name of the orchestrator.
	Name string
	// Maximum number of jobs executed at the same time.
	Concurrency int
	Retry       RetryPolicy
}

// Orchestrator consumes pending asset jobs and drives each of them to a final
// state through the executor.
type Orchestrator struct {
	Config OrchestratorConfig

	executor Executor

	EventBus *gochannel.GoChannel

	inflight  sync.WaitGroup
	ready     chan struct{}
	readyOnce sync.Once
}

// Return a new instance of Orchestrator.
func NewOrchestrator(config OrchestratorConfig, executor Executor, e *gochannel.GoChannel) *Orchestrator {
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}
	config.Retry = config.Retry.normalized()
	return &Orchestrator{
		Config:   config,
		executor: executor,
		EventBus: e,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the orchestrator subscribed to pending jobs. Jobs
// published before that are dropped by the bus.
func (o *Orchestrator) Ready() <-chan struct{} {
	return o.ready
}

// After a job stopped being retried, publish it into the executed job channel
// for reporter to report to Datadog.
func (o *Orchestrator) PublishFinishedJob(job ExecutedAssetJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return o.EventBus.Publish(TopicExecutedAssetJob, msg)
}

func (o *Orchestrator) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := o.EventBus.Subscribe(ctx, TopicPendingAssetJob)
	if err != nil {
		return err
	}
	o.readyOnce.Do(func() { close(o.ready) })

	slots := make(chan struct{}, o.Config.Concurrency)
	for msg := range messages {
		msg.Ack()

		pending := PendingAssetJob{}
		if err := json.Unmarshal(msg.Payload, &pending); err != nil || pending.JobID == "" {
			Logger.Log.Errorf("drop malformed asset job message %s: %v", msg.UUID, err)
			continue
		}

		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			return nil
		}
		o.inflight.Add(1)
		go func(jobID string) {
			defer o.inflight.Done()
			defer func() { <-slots }()

			res, done := o.Process(ctx, jobID)
			if !done {
				return
			}
			if err := o.PublishFinishedJob(res); err != nil {
				Logger.Log.Errorf("fail to publish job into executed job channel, error: %s", err)
			}
		}(pending.JobID)
	}

	return nil
}

// Process runs the job until it succeeds, fails permanently or runs out of
// attempts. It returns false when ctx ended first, the job is then left for
// startup recovery.
func (o *Orchestrator) Process(ctx context.Context, jobID string) (ExecutedAssetJob, bool) {
	policy := o.Config.Retry
	res := ExecutedAssetJob{JobID: jobID}

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		res.Attempts = attempt

		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		err = o.executor.Execute(attemptCtx, jobID)
		cancel()

		if err == nil {
			res.State = JobSucceeded
			return res, true
		}
		if ctx.Err() != nil {
			Logger.Log.Warnf("asset job %s interrupted: %s", jobID, err)
			return res, false
		}
		if isPermanent(err) {
			break
		}
		if attempt < policy.MaxAttempts {
			Logger.Log.Warnf("asset job %s attempt %d failed, retry in %s: %s", jobID, attempt, policy.Backoff, err)
			select {
			case <-time.After(policy.Backoff):
			case <-ctx.Done():
				return res, false
			}
		}
	}

	Logger.Log.Errorf("asset job %s failed after %d attempt(s): %s", jobID, res.Attempts, err)
	if markErr := o.executor.MarkFailed(ctx, jobID, err); markErr != nil {
		Logger.Log.Errorf("fail to mark asset job %s as failed: %s", jobID, markErr)
	}
	res.State = JobFailed
	res.Error = err.Error()
	return res, true
}

func (o *Orchestrator) Name() string {
	return o.Config.Name
}

func (o *Orchestrator) Shutdown() {
	o.inflight.Wait()
	Logger.Log.Infoln("Module ", o.Config.Name, " gracefully shutdown")
}
