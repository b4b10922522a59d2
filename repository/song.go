package repository

import (
	"context"

	"github.com/Luismorlan/tunemux/model"
	"gorm.io/gorm"
)

type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id uint) (*model.Song, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*model.Song, error)
	Update(ctx context.Context, song *model.Song) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page model.Page) ([]*model.Song, error)
	ListByUser(ctx context.Context, userID uint, page model.Page) ([]*model.Song, error)
}

type GormSongRepository struct {
	db    *gorm.DB
	edges *EdgeManager
}

func NewSongRepository(db *gorm.DB, edges *EdgeManager) *GormSongRepository {
	return &GormSongRepository{db: db, edges: edges}
}

func (r *GormSongRepository) Create(ctx context.Context, song *model.Song) error {
	return translateError(conn(ctx, r.db).Create(song).Error, "failed to create song")
}

func (r *GormSongRepository) GetByID(ctx context.Context, id uint) (*model.Song, error) {
	var song model.Song
	if err := conn(ctx, r.db).First(&song, id).Error; err != nil {
		return nil, translateError(err, "failed to get song")
	}
	return &song, nil
}

// GetByIDForUpdate is GetByID that also locks the row until the surrounding
// transaction ends.
func (r *GormSongRepository) GetByIDForUpdate(ctx context.Context, id uint) (*model.Song, error) {
	var song model.Song
	if err := forUpdate(conn(ctx, r.db)).First(&song, id).Error; err != nil {
		return nil, translateError(err, "failed to get song")
	}
	return &song, nil
}

func (r *GormSongRepository) Update(ctx context.Context, song *model.Song) error {
	return translateError(conn(ctx, r.db).Save(song).Error, "failed to update song")
}

// Delete removes the song and its playlist memberships.
func (r *GormSongRepository) Delete(ctx context.Context, id uint) error {
	if err := r.edges.Detach(ctx, MembershipEdge, Incoming, id); err != nil {
		return err
	}
	return translateError(conn(ctx, r.db).Delete(&model.Song{}, id).Error, "failed to delete song")
}

func (r *GormSongRepository) List(ctx context.Context, page model.Page) ([]*model.Song, error) {
	songs := []*model.Song{}
	err := conn(ctx, r.db).Order("id").Scopes(Paginate(page)).Find(&songs).Error
	return songs, translateError(err, "failed to list songs")
}

func (r *GormSongRepository) ListByUser(ctx context.Context, userID uint, page model.Page) ([]*model.Song, error) {
	songs := []*model.Song{}
	err := conn(ctx, r.db).Where("user_id = ?", userID).Order("id").Scopes(Paginate(page)).Find(&songs).Error
	return songs, translateError(err, "failed to list songs of user")
}
