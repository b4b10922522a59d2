package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/Luismorlan/tunemux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeAddIsIdempotent(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	a := createUser(t, r, "a")
	b := createUser(t, r, "b")

	created, err := r.edges.Add(ctx, FollowEdge, a.Id, b.Id)
	require.Nil(t, err)
	assert.True(t, created)

	created, err = r.edges.Add(ctx, FollowEdge, a.Id, b.Id)
	require.Nil(t, err)
	assert.False(t, created)

	count, err := r.edges.Count(ctx, FollowEdge, a.Id, b.Id)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	// the reverse direction is a different edge
	exists, err := r.edges.Exists(ctx, FollowEdge, b.Id, a.Id)
	require.Nil(t, err)
	assert.False(t, exists)
}

func TestEdgeRemove(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "owner")
	song := createSong(t, r, owner.Id, "s")
	playlist := &model.Playlist{Title: "p", UserID: owner.Id}
	require.Nil(t, r.playlists.Create(ctx, playlist))

	removed, err := r.playlists.RemoveSong(ctx, playlist.Id, song.Id)
	require.Nil(t, err)
	assert.False(t, removed)

	created, err := r.playlists.AddSong(ctx, playlist.Id, song.Id)
	require.Nil(t, err)
	assert.True(t, created)

	removed, err = r.playlists.RemoveSong(ctx, playlist.Id, song.Id)
	require.Nil(t, err)
	assert.True(t, removed)

	count, err := r.playlists.CountSong(ctx, playlist.Id, song.Id)
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)
}

func TestFollowTraversal(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	users := []*model.User{}
	for i := 1; i <= 10; i++ {
		users = append(users, createUser(t, r, fmt.Sprintf("u%d", i)))
	}
	u1 := users[0]
	// follow in reverse id order so insertion order differs from id order
	for i := len(users) - 1; i >= 1; i-- {
		_, err := r.users.Follow(ctx, users[i].Id, u1.Id)
		require.Nil(t, err)
	}

	followers, err := r.users.Followers(ctx, u1.Id, model.DefaultPage())
	require.Nil(t, err)
	require.Len(t, followers, 9)
	assert.Equal(t, users[9].Id, followers[0].Id)
	assert.Equal(t, users[1].Id, followers[8].Id)

	window, err := r.users.Followers(ctx, u1.Id, model.Page{Take: 5, Skip: 0})
	require.Nil(t, err)
	assert.Len(t, window, 5)

	window, err = r.users.Followers(ctx, u1.Id, model.Page{Take: 0, Skip: 2})
	require.Nil(t, err)
	assert.Empty(t, window)

	degree, err := r.edges.Degree(ctx, FollowEdge, Incoming, u1.Id)
	require.Nil(t, err)
	assert.Equal(t, int64(9), degree)

	followed, err := r.users.FollowedUsers(ctx, users[3].Id, model.DefaultPage())
	require.Nil(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, u1.Id, followed[0].Id)
	assert.Equal(t, "u1", followed[0].Username)

	empty, err := r.users.FollowedUsers(ctx, u1.Id, model.DefaultPage())
	require.Nil(t, err)
	assert.Empty(t, empty)
}

func TestPlaylistSongsOrder(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "owner")
	playlist := &model.Playlist{Title: "p", UserID: owner.Id}
	require.Nil(t, r.playlists.Create(ctx, playlist))

	songs := []*model.Song{}
	for i := 0; i < 4; i++ {
		songs = append(songs, createSong(t, r, owner.Id, fmt.Sprintf("s%d", i)))
	}
	for _, idx := range []int{2, 0, 3, 1} {
		_, err := r.playlists.AddSong(ctx, playlist.Id, songs[idx].Id)
		require.Nil(t, err)
	}

	got, err := r.playlists.Songs(ctx, playlist.Id, model.Page{Take: 2, Skip: 1})
	require.Nil(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, songs[0].Id, got[0].Id)
	assert.Equal(t, songs[3].Id, got[1].Id)
	assert.Equal(t, "s3", got[1].Title)
}
