package service

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const MsgInterrupted = "interrupted by restart"

// JobQueue hands a stored job over to background execution.
type JobQueue interface {
	Enqueue(ctx context.Context, jobID string) error
}

// AssetJobService accepts song uploads for background processing and runs a
// single attempt of a job on behalf of the worker pipeline.
type AssetJobService struct {
	tx       repository.Transactor
	jobs     repository.AssetJobRepository
	songs    repository.SongRepository
	store    file_store.FileStore
	queue    JobQueue
	spoolDir string
	now      Clock
}

func NewAssetJobService(
	tx repository.Transactor,
	jobs repository.AssetJobRepository,
	songs repository.SongRepository,
	store file_store.FileStore,
	spoolDir string,
) *AssetJobService {
	return &AssetJobService{
		tx:       tx,
		jobs:     jobs,
		songs:    songs,
		store:    store,
		spoolDir: spoolDir,
		now:      utcNow,
	}
}

// SetQueue connects the service to the pipeline executing its jobs. The queue
// and the service reference each other, so it is set after construction.
func (s *AssetJobService) SetQueue(queue JobQueue) {
	s.queue = queue
}

// Submit spools assets to disk, records a pending job and enqueues it.
func (s *AssetJobService) Submit(
	ctx context.Context,
	actor *model.User,
	kind model.AssetJobKind,
	songID *uint,
	title *string,
	assets []preparedAsset,
) (*model.AssetJob, error) {
	if s.queue == nil {
		return nil, errors.New("asset job queue is not configured")
	}
	jobID := uuid.NewString()
	payload := model.AssetJobPayload{Title: title}

	dir := filepath.Join(s.spoolDir, jobID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "failed to create spool dir")
	}
	for _, a := range assets {
		path := filepath.Join(dir, a.Slot)
		if err := spool(path, a.Body); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		payload.Assets = append(payload.Assets, model.SpooledAsset{
			Slot:        a.Slot,
			Path:        path,
			Key:         a.Key,
			ContentType: a.ContentType,
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	job := &model.AssetJob{
		Id:      jobID,
		UserID:  actor.Id,
		Kind:    kind,
		SongID:  songID,
		Status:  model.AssetJobPending,
		Payload: datatypes.JSON(data),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, job.Id); err != nil {
		if markErr := s.MarkFailed(ctx, job.Id, err); markErr != nil {
			Logger.Log.Errorf("fail to mark job %s as failed: %s", job.Id, markErr)
		}
		return nil, errors.Wrap(err, "failed to enqueue asset job")
	}
	return job, nil
}

func spool(path string, body io.Reader) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to spool asset")
	}
	defer file.Close()
	if _, err := io.Copy(file, body); err != nil {
		return errors.Wrap(err, "failed to spool asset")
	}
	return nil
}

// GetByID returns a job to the user who submitted it.
func (s *AssetJobService) GetByID(ctx context.Context, actor *model.User, id string) (*model.AssetJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, MsgJobNotFound)
	}
	if err := requireOwner(actor, job, MsgViewJobDenied); err != nil {
		return nil, err
	}
	return job, nil
}

// Execute runs one attempt of the job: upload the spooled assets, then create
// or update the song and mark the job succeeded in one transaction. Jobs that
// already finished are skipped.
func (s *AssetJobService) Execute(ctx context.Context, jobID string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return notFoundOr(err, MsgJobNotFound)
	}
	if job.IsTerminal() {
		return nil
	}

	job.Status = model.AssetJobRunning
	job.Attempts++
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}

	var payload model.AssetJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return BadRequest("corrupted job payload")
	}

	urls, err := s.uploadSpooled(ctx, payload.Assets)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		switch job.Kind {
		case model.AssetJobCreateSong:
			song := &model.Song{UserID: job.UserID}
			songPatch(payload.Title, urls).Apply(song)
			if err := s.songs.Create(ctx, song); err != nil {
				return err
			}
			job.SongID = &song.Id
		case model.AssetJobUpdateSong:
			if job.SongID == nil {
				return BadRequest("update job without song")
			}
			song, err := s.songs.GetByIDForUpdate(ctx, *job.SongID)
			if err != nil {
				return notFoundOr(err, MsgSongNotFound)
			}
			if err := requireOwner(&model.User{Id: job.UserID}, song, MsgUpdateSongDenied); err != nil {
				return err
			}
			songPatch(payload.Title, urls).Apply(song)
			if err := s.songs.Update(ctx, song); err != nil {
				return err
			}
		default:
			return BadRequest("unknown job kind " + string(job.Kind))
		}

		finished := s.now()
		job.Status = model.AssetJobSucceeded
		job.Error = ""
		job.FinishedAt = &finished
		return s.jobs.Update(ctx, job)
	})
	if err != nil {
		stored := make([]preparedAsset, 0, len(payload.Assets))
		for _, a := range payload.Assets {
			stored = append(stored, preparedAsset{Slot: a.Slot, Key: a.Key})
		}
		discardAssets(ctx, s.store, stored)
		return err
	}

	s.cleanSpool(jobID)
	return nil
}

func (s *AssetJobService) uploadSpooled(ctx context.Context, spooled []model.SpooledAsset) (map[string]string, error) {
	assets := []preparedAsset{}
	for _, a := range spooled {
		file, err := os.Open(a.Path)
		if err != nil {
			return nil, BadRequest("spooled asset is gone: " + a.Slot)
		}
		defer file.Close()
		assets = append(assets, preparedAsset{Slot: a.Slot, Key: a.Key, ContentType: a.ContentType, Body: file})
	}
	return uploadAssets(ctx, s.store, assets)
}

// MarkFailed records the final failure of a job.
func (s *AssetJobService) MarkFailed(ctx context.Context, jobID string, cause error) error {
	defer s.cleanSpool(jobID)
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		job, err := s.jobs.GetByIDForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return nil
		}
		finished := s.now()
		job.Status = model.AssetJobFailed
		job.Error = cause.Error()
		job.FinishedAt = &finished
		return s.jobs.Update(ctx, job)
	})
}

// FailUnfinished fails jobs left behind by a previous process.
func (s *AssetJobService) FailUnfinished(ctx context.Context) (int64, error) {
	return s.jobs.FailUnfinished(ctx, MsgInterrupted)
}

func (s *AssetJobService) cleanSpool(jobID string) {
	if err := os.RemoveAll(filepath.Join(s.spoolDir, jobID)); err != nil {
		Logger.Log.Warnf("fail to clean spool of job %s: %s", jobID, err)
	}
}

// Payload decodes the job payload, mostly useful for inspection.
func Payload(job *model.AssetJob) (model.AssetJobPayload, error) {
	var payload model.AssetJobPayload
	err := json.Unmarshal(job.Payload, &payload)
	return payload, err
}
