package repository

import (
	"context"

	"github.com/Luismorlan/tunemux/model"
	"gorm.io/gorm"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id uint) (*model.Playlist, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page model.Page) ([]*model.Playlist, error)

	AddSong(ctx context.Context, playlistID, songID uint) (bool, error)
	RemoveSong(ctx context.Context, playlistID, songID uint) (bool, error)
	CountSong(ctx context.Context, playlistID, songID uint) (int64, error)
	Songs(ctx context.Context, playlistID uint, page model.Page) ([]*model.Song, error)
}

type GormPlaylistRepository struct {
	db    *gorm.DB
	edges *EdgeManager
}

func NewPlaylistRepository(db *gorm.DB, edges *EdgeManager) *GormPlaylistRepository {
	return &GormPlaylistRepository{db: db, edges: edges}
}

func (r *GormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	return translateError(conn(ctx, r.db).Create(playlist).Error, "failed to create playlist")
}

func (r *GormPlaylistRepository) GetByID(ctx context.Context, id uint) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := conn(ctx, r.db).First(&playlist, id).Error; err != nil {
		return nil, translateError(err, "failed to get playlist")
	}
	return &playlist, nil
}

func (r *GormPlaylistRepository) GetByIDForUpdate(ctx context.Context, id uint) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := forUpdate(conn(ctx, r.db)).First(&playlist, id).Error; err != nil {
		return nil, translateError(err, "failed to get playlist")
	}
	return &playlist, nil
}

func (r *GormPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	return translateError(conn(ctx, r.db).Save(playlist).Error, "failed to update playlist")
}

// Delete removes the playlist and its memberships, songs are kept.
func (r *GormPlaylistRepository) Delete(ctx context.Context, id uint) error {
	if err := r.edges.Detach(ctx, MembershipEdge, Outgoing, id); err != nil {
		return err
	}
	return translateError(conn(ctx, r.db).Delete(&model.Playlist{}, id).Error, "failed to delete playlist")
}

func (r *GormPlaylistRepository) List(ctx context.Context, page model.Page) ([]*model.Playlist, error) {
	playlists := []*model.Playlist{}
	err := conn(ctx, r.db).Order("id").Scopes(Paginate(page)).Find(&playlists).Error
	return playlists, translateError(err, "failed to list playlists")
}

func (r *GormPlaylistRepository) AddSong(ctx context.Context, playlistID, songID uint) (bool, error) {
	return r.edges.Add(ctx, MembershipEdge, playlistID, songID)
}

func (r *GormPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID uint) (bool, error) {
	return r.edges.Remove(ctx, MembershipEdge, playlistID, songID)
}

func (r *GormPlaylistRepository) CountSong(ctx context.Context, playlistID, songID uint) (int64, error) {
	return r.edges.Count(ctx, MembershipEdge, playlistID, songID)
}

// Songs returns the songs of a playlist in the order they were added.
func (r *GormPlaylistRepository) Songs(ctx context.Context, playlistID uint, page model.Page) ([]*model.Song, error) {
	songs := []*model.Song{}
	err := r.edges.Neighbors(ctx, MembershipEdge, Outgoing, playlistID, page, &songs)
	return songs, err
}
