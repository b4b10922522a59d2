package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a")
	b := env.createUser(t, "b")

	require.Nil(t, env.people.Follow(env.ctx, a, b.Id))
	require.Nil(t, env.people.Follow(env.ctx, a, b.Id))

	followers, err := env.people.GetFollowers(env.ctx, b.Id, model.DefaultPage())
	require.Nil(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, a.Id, followers[0].Id)

	following, err := env.people.IsFollowing(env.ctx, a, b.Id)
	require.Nil(t, err)
	assert.True(t, following)
	following, err = env.people.IsFollowing(env.ctx, b, a.Id)
	require.Nil(t, err)
	assert.False(t, following)

	err = env.people.Follow(env.ctx, a, a.Id)
	requireAPIError(t, err, KindBadRequest, MsgSelfFollow)

	err = env.people.Follow(env.ctx, a, 999)
	requireAPIError(t, err, KindNotFound, MsgUserNotFound)
}

func TestUnfollow(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a")
	b := env.createUser(t, "b")

	// nothing to remove yet
	require.Nil(t, env.people.Unfollow(env.ctx, a, b.Id))

	require.Nil(t, env.people.Follow(env.ctx, a, b.Id))
	require.Nil(t, env.people.Unfollow(env.ctx, a, b.Id))

	followed, err := env.people.GetFollowedUsers(env.ctx, a.Id, model.DefaultPage())
	require.Nil(t, err)
	assert.Empty(t, followed)

	err = env.people.Unfollow(env.ctx, a, 999)
	requireAPIError(t, err, KindNotFound, MsgUserNotFound)
}

func TestFollowerPagination(t *testing.T) {
	env := newTestEnv(t)
	var users []*model.User
	for i := 1; i <= 10; i++ {
		users = append(users, env.createUser(t, fmt.Sprintf("u%d", i)))
	}
	u1 := users[0]
	for _, u := range users[1:] {
		require.Nil(t, env.people.Follow(env.ctx, u, u1.Id))
		require.Nil(t, env.people.Follow(env.ctx, u1, u.Id))
	}

	followers, err := env.people.GetFollowers(env.ctx, u1.Id, model.DefaultPage())
	require.Nil(t, err)
	assert.Len(t, followers, 9)

	window, err := env.people.GetFollowers(env.ctx, u1.Id, model.Page{Take: 5, Skip: 0})
	require.Nil(t, err)
	require.Len(t, window, 5)
	assert.Equal(t, users[1].Id, window[0].Id)

	followed, err := env.people.GetFollowedUsers(env.ctx, u1.Id, model.Page{Take: 5, Skip: 5})
	require.Nil(t, err)
	require.Len(t, followed, 4)
	assert.Equal(t, users[6].Id, followed[0].Id)

	_, err = env.people.GetFollowers(env.ctx, 999, model.DefaultPage())
	requireAPIError(t, err, KindNotFound, MsgUserNotFound)
	_, err = env.people.GetFollowedUsers(env.ctx, u1.Id, model.Page{Take: -1})
	requireAPIError(t, err, KindBadRequest, MsgInvalidPage)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.people.now = func() time.Time { return fixedNow }
	user := env.createUser(t, "a")

	updated, err := env.people.UpdateProfile(env.ctx, user, ProfileInput{
		Bio:    strPtr("drummer"),
		Avatar: asset("Me.png", "img"),
	})
	require.Nil(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "drummer", *updated.Bio)
	require.NotNil(t, updated.Avatar)
	assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--me.png", *updated.Avatar)
	assert.Nil(t, updated.Fullname)

	env.store.FailAll = true
	_, err = env.people.UpdateProfile(env.ctx, user, ProfileInput{
		Fullname: strPtr("never"),
		Avatar:   asset("other.png", "img"),
	})
	requireAPIError(t, err, KindUploadFailed, MsgUploadFailed)

	stored, err := env.people.GetByID(env.ctx, user.Id)
	require.Nil(t, err)
	assert.Nil(t, stored.Fullname)
}
