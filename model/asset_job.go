package model

import (
	"time"

	"gorm.io/datatypes"
)

type AssetJobKind string

const (
	AssetJobCreateSong AssetJobKind = "create_song"
	AssetJobUpdateSong AssetJobKind = "update_song"
)

type AssetJobStatus string

const (
	AssetJobPending   AssetJobStatus = "pending"
	AssetJobRunning   AssetJobStatus = "running"
	AssetJobSucceeded AssetJobStatus = "succeeded"
	AssetJobFailed    AssetJobStatus = "failed"
)

/*
AssetJob tracks the background upload and persistence of song assets.

Id: uuid, returned to the client for polling
UserID: submitter, the only user allowed to read the job
Kind: create_song or update_song
SongID: target song, set for updates up front and for creations on success
Status: pending -> running -> succeeded | failed
Attempts: number of started execution attempts
Error: last failure message, empty on success
Payload: AssetJobPayload encoded as JSON
*/
type AssetJob struct {
	Id         string         `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"not null;index"`
	Kind       AssetJobKind   `json:"kind" gorm:"not null"`
	SongID     *uint          `json:"song_id"`
	Status     AssetJobStatus `json:"status" gorm:"not null;index"`
	Attempts   int            `json:"attempts"`
	Error      string         `json:"error"`
	Payload    datatypes.JSON `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	FinishedAt *time.Time     `json:"finished_at"`
}

func (j *AssetJob) OwnerID() uint {
	return j.UserID
}

func (j *AssetJob) IsTerminal() bool {
	return j.Status == AssetJobSucceeded || j.Status == AssetJobFailed
}

// SpooledAsset is an uploaded file parked on local disk until the job uploads
// it to object storage. Key is the final object name.
type SpooledAsset struct {
	Slot        string `json:"slot"`
	Path        string `json:"path"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

type AssetJobPayload struct {
	Title  *string        `json:"title,omitempty"`
	Assets []SpooledAsset `json:"assets"`
}

// Slots a song job can carry.
const (
	SlotSongFile       = "song_file"
	SlotSmallThumbnail = "small_thumbnail"
	SlotLargeThumbnail = "large_thumbnail"
)
