package service

import (
	"context"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
)

const SlotAvatar = "avatar"

type ProfileInput struct {
	Fullname *string
	Bio      *string
	Avatar   *file_store.Asset
}

type UserService struct {
	tx    repository.Transactor
	users repository.UserRepository
	store file_store.FileStore
	now   Clock
}

func NewUserService(tx repository.Transactor, users repository.UserRepository, store file_store.FileStore) *UserService {
	return &UserService{tx: tx, users: users, store: store, now: utcNow}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, MsgUserNotFound)
	}
	return user, nil
}

// Follow makes actor follow targetID. Following twice keeps one edge.
func (s *UserService) Follow(ctx context.Context, actor *model.User, targetID uint) error {
	if targetID == actor.Id {
		return BadRequest(MsgSelfFollow)
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return notFoundOr(err, MsgUserNotFound)
		}
		_, err := s.users.Follow(ctx, actor.Id, targetID)
		return err
	})
}

// Unfollow removes the follow edge, a missing edge is a no-op.
func (s *UserService) Unfollow(ctx context.Context, actor *model.User, targetID uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return notFoundOr(err, MsgUserNotFound)
		}
		_, err := s.users.Unfollow(ctx, actor.Id, targetID)
		return err
	})
}

func (s *UserService) IsFollowing(ctx context.Context, actor *model.User, targetID uint) (bool, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return false, notFoundOr(err, MsgUserNotFound)
	}
	return s.users.IsFollowing(ctx, actor.Id, targetID)
}

// GetFollowers returns the users following userID, oldest follow first.
func (s *UserService) GetFollowers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, MsgUserNotFound)
	}
	return s.users.Followers(ctx, userID, page)
}

// GetFollowedUsers returns the users userID follows, oldest follow first.
func (s *UserService) GetFollowedUsers(ctx context.Context, userID uint, page model.Page) ([]*model.User, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, MsgUserNotFound)
	}
	return s.users.FollowedUsers(ctx, userID, page)
}

// UpdateProfile patches the actor's profile, uploading the avatar first.
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.User, in ProfileInput) (*model.User, error) {
	assets, err := prepareAssets(s.now(), []slotAsset{{SlotAvatar, in.Avatar}})
	if err != nil {
		return nil, err
	}
	urls, err := uploadAssets(ctx, s.store, assets)
	if err != nil {
		return nil, err
	}

	patch := model.UserPatch{Fullname: in.Fullname, Bio: in.Bio}
	if url, ok := urls[SlotAvatar]; ok {
		patch.Avatar = &url
	}

	var user *model.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err = s.users.GetByIDForUpdate(ctx, actor.Id)
		if err != nil {
			return notFoundOr(err, MsgUserNotFound)
		}
		if patch.IsEmpty() {
			return nil
		}
		patch.Apply(user)
		return s.users.Update(ctx, user)
	})
	if err != nil {
		discardAssets(ctx, s.store, assets)
		return nil, err
	}
	return user, nil
}
