package service

import (
	"context"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
)

type SongInput struct {
	Title          string
	SongFile       *file_store.Asset
	SmallThumbnail *file_store.Asset
	LargeThumbnail *file_store.Asset
}

// SongUpdateInput is a partial song update, nil fields are left untouched.
type SongUpdateInput struct {
	Title          *string
	SongFile       *file_store.Asset
	SmallThumbnail *file_store.Asset
	LargeThumbnail *file_store.Asset
}

func (in SongInput) slots() []slotAsset {
	return []slotAsset{
		{model.SlotSongFile, in.SongFile},
		{model.SlotSmallThumbnail, in.SmallThumbnail},
		{model.SlotLargeThumbnail, in.LargeThumbnail},
	}
}

func (in SongUpdateInput) slots() []slotAsset {
	return SongInput{SongFile: in.SongFile, SmallThumbnail: in.SmallThumbnail, LargeThumbnail: in.LargeThumbnail}.slots()
}

// SongResult holds the outcome of a song mutation: the song when assets were
// processed inline, or the job tracking them otherwise.
type SongResult struct {
	Song *model.Song
	Job  *model.AssetJob
}

type SongService struct {
	tx    repository.Transactor
	songs repository.SongRepository
	users repository.UserRepository
	store file_store.FileStore
	// Set when uploads are processed in the background.
	jobs *AssetJobService
	now  Clock
}

func NewSongService(tx repository.Transactor, songs repository.SongRepository, users repository.UserRepository, store file_store.FileStore) *SongService {
	return &SongService{tx: tx, songs: songs, users: users, store: store, now: utcNow}
}

// WithAssetJobs switches the service to background asset processing.
func (s *SongService) WithAssetJobs(jobs *AssetJobService) *SongService {
	s.jobs = jobs
	return s
}

func (s *SongService) WithClock(now Clock) *SongService {
	s.now = now
	return s
}

func (s *SongService) Create(ctx context.Context, actor *model.User, in SongInput) (*SongResult, error) {
	if in.Title == "" {
		return nil, FieldRequired("title")
	}
	if in.SongFile == nil {
		return nil, FieldRequired(model.SlotSongFile)
	}
	assets, err := prepareAssets(s.now(), in.slots())
	if err != nil {
		return nil, err
	}

	if s.jobs != nil {
		title := in.Title
		job, err := s.jobs.Submit(ctx, actor, model.AssetJobCreateSong, nil, &title, assets)
		if err != nil {
			return nil, err
		}
		return &SongResult{Job: job}, nil
	}

	urls, err := uploadAssets(ctx, s.store, assets)
	if err != nil {
		return nil, err
	}
	song := &model.Song{Title: in.Title, UserID: actor.Id}
	songPatch(nil, urls).Apply(song)
	if err := s.songs.Create(ctx, song); err != nil {
		discardAssets(ctx, s.store, assets)
		return nil, err
	}
	return &SongResult{Song: song}, nil
}

// Update applies a partial update. Ownership is checked before anything is
// uploaded, and nothing is persisted when an upload fails.
func (s *SongService) Update(ctx context.Context, actor *model.User, id uint, in SongUpdateInput) (*SongResult, error) {
	if in.Title != nil && *in.Title == "" {
		return nil, FieldRequired("title")
	}
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, MsgSongNotFound)
	}
	if err := requireOwner(actor, song, MsgUpdateSongDenied); err != nil {
		return nil, err
	}
	assets, err := prepareAssets(s.now(), in.slots())
	if err != nil {
		return nil, err
	}

	if s.jobs != nil && len(assets) > 0 {
		job, err := s.jobs.Submit(ctx, actor, model.AssetJobUpdateSong, &song.Id, in.Title, assets)
		if err != nil {
			return nil, err
		}
		return &SongResult{Job: job}, nil
	}

	urls, err := uploadAssets(ctx, s.store, assets)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The song may have been deleted while uploading.
		song, err = s.songs.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, MsgSongNotFound)
		}
		if err := requireOwner(actor, song, MsgUpdateSongDenied); err != nil {
			return err
		}
		songPatch(in.Title, urls).Apply(song)
		return s.songs.Update(ctx, song)
	})
	if err != nil {
		discardAssets(ctx, s.store, assets)
		return nil, err
	}
	return &SongResult{Song: song}, nil
}

func (s *SongService) Delete(ctx context.Context, actor *model.User, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		song, err := s.songs.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, MsgSongNotFound)
		}
		if err := requireOwner(actor, song, MsgDeleteSongDenied); err != nil {
			return err
		}
		return s.songs.Delete(ctx, id)
	})
}

func (s *SongService) GetByID(ctx context.Context, id uint) (*model.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, MsgSongNotFound)
	}
	return song, nil
}

func (s *SongService) GetAll(ctx context.Context, page model.Page) ([]*model.Song, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	return s.songs.List(ctx, page)
}

// GetByUser lists the songs owned by userID.
func (s *SongService) GetByUser(ctx context.Context, userID uint, page model.Page) ([]*model.Song, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, MsgUserNotFound)
	}
	return s.songs.ListByUser(ctx, userID, page)
}
