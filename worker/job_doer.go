package worker

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// NewEventBus returns the in process bus shared by the job doer, the
// orchestrator and the reporter.
func NewEventBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
}

// AssetJobDoer hands accepted asset jobs over to the orchestrator. It is the
// queue the song service enqueues into.
type AssetJobDoer struct {
	EventBus *gochannel.GoChannel
}

func NewAssetJobDoer(e *gochannel.GoChannel) *AssetJobDoer {
	return &AssetJobDoer{
		EventBus: e,
	}
}

// Enqueue publishes the job id onto the pending job topic. Publishing never
// blocks on the consumer so ctx is not consulted.
func (d *AssetJobDoer) Enqueue(ctx context.Context, jobID string) error {
	data, err := json.Marshal(PendingAssetJob{JobID: jobID})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return errors.Wrapf(d.EventBus.Publish(TopicPendingAssetJob, msg), "fail to publish asset job %s", jobID)
}
