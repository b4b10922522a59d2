package repository

import (
	"context"

	"github.com/Luismorlan/tunemux/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error

	Follow(ctx context.Context, followerID, followedID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error)
	FollowedUsers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error)
}

type GormUserRepository struct {
	db    *gorm.DB
	edges *EdgeManager
}

func NewUserRepository(db *gorm.DB, edges *EdgeManager) *GormUserRepository {
	return &GormUserRepository{db: db, edges: edges}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return translateError(conn(ctx, r.db).Create(user).Error, "failed to create user")
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, translateError(err, "failed to get user")
	}
	return &user, nil
}

func (r *GormUserRepository) GetByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := forUpdate(conn(ctx, r.db)).First(&user, id).Error; err != nil {
		return nil, translateError(err, "failed to get user")
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err, "failed to get user by email")
	}
	return &user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *model.User) error {
	return translateError(conn(ctx, r.db).Save(user).Error, "failed to update user")
}

// Delete removes the user with every follow edge touching it. Songs and
// playlists are kept.
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)
	if err := r.edges.Detach(ctx, FollowEdge, Outgoing, id); err != nil {
		return err
	}
	if err := r.edges.Detach(ctx, FollowEdge, Incoming, id); err != nil {
		return err
	}
	return translateError(db.Delete(&model.User{}, id).Error, "failed to delete user")
}

func (r *GormUserRepository) Follow(ctx context.Context, followerID, followedID uint) (bool, error) {
	return r.edges.Add(ctx, FollowEdge, followerID, followedID)
}

func (r *GormUserRepository) Unfollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	return r.edges.Remove(ctx, FollowEdge, followerID, followedID)
}

func (r *GormUserRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return r.edges.Exists(ctx, FollowEdge, followerID, followedID)
}

// Followers returns the users following userID.
func (r *GormUserRepository) Followers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error) {
	users := []*model.User{}
	err := r.edges.Neighbors(ctx, FollowEdge, Incoming, userID, page, &users)
	return users, err
}

// FollowedUsers returns the users userID follows.
func (r *GormUserRepository) FollowedUsers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error) {
	users := []*model.User{}
	err := r.edges.Neighbors(ctx, FollowEdge, Outgoing, userID, page, &users)
	return users, err
}
