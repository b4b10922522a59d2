package worker

const (
	// Asset job stored and waiting for execution.
	TopicPendingAssetJob = "topic.pending_asset_job"
	// Asset job that reached a final state.
	TopicExecutedAssetJob = "topic.executed_asset_job"

	DdogAssetJobStateCounter    = "tunemux.asset_job.state"
	DdogAssetJobAttemptsCounter = "tunemux.asset_job.attempts"
)

// Final outcome of an asset job as reported on TopicExecutedAssetJob.
type JobState string

const (
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// PendingAssetJob is the message published for every accepted job.
type PendingAssetJob struct {
	JobID string `json:"job_id"`
}

// ExecutedAssetJob is the message published once a job stops being retried.
type ExecutedAssetJob struct {
	JobID    string   `json:"job_id"`
	State    JobState `json:"state"`
	Attempts int      `json:"attempts"`
	Error    string   `json:"error,omitempty"`
}
