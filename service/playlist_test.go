package service

import (
	"testing"

	"github.com/Luismorlan/tunemux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlaylist(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")

	playlist, err := env.playlists.Create(env.ctx, owner, "Road trip")
	require.Nil(t, err)
	assert.Equal(t, "Road trip", playlist.Title)
	assert.Equal(t, owner.Id, playlist.UserID)

	_, err = env.playlists.Create(env.ctx, owner, "")
	requireAPIError(t, err, KindFieldRequired, "title is required")

	all, err := env.playlists.GetAll(env.ctx, model.DefaultPage())
	require.Nil(t, err)
	assert.Len(t, all, 1)
}

func TestUpdatePlaylist(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	playlist := env.createPlaylist(t, owner, "A")

	t.Run("non owner is rejected and nothing changes", func(t *testing.T) {
		_, err := env.playlists.Update(env.ctx, other, playlist.Id, model.PlaylistPatch{Title: strPtr("B")})
		requireAPIError(t, err, KindUnauthorized, MsgUpdatePlaylistDenied)

		stored, err := env.playRepo.GetByID(env.ctx, playlist.Id)
		require.Nil(t, err)
		assert.Equal(t, "A", stored.Title)
	})

	t.Run("missing playlist wins over ownership", func(t *testing.T) {
		_, err := env.playlists.Update(env.ctx, other, 999, model.PlaylistPatch{Title: strPtr("B")})
		requireAPIError(t, err, KindNotFound, MsgPlaylistNotFound)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := env.playlists.Update(env.ctx, owner, playlist.Id, model.PlaylistPatch{Title: strPtr("")})
		requireAPIError(t, err, KindFieldRequired, "title is required")
	})

	t.Run("owner updates", func(t *testing.T) {
		updated, err := env.playlists.Update(env.ctx, owner, playlist.Id, model.PlaylistPatch{Title: strPtr("B")})
		require.Nil(t, err)
		assert.Equal(t, "B", updated.Title)
		assert.Equal(t, owner.Id, updated.UserID)
	})

	t.Run("empty patch keeps the playlist", func(t *testing.T) {
		updated, err := env.playlists.Update(env.ctx, owner, playlist.Id, model.PlaylistPatch{})
		require.Nil(t, err)
		assert.Equal(t, "B", updated.Title)
	})
}

func TestDeletePlaylist(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	playlist := env.createPlaylist(t, owner, "A")
	song := env.createSong(t, owner, "s")
	require.Nil(t, env.playlists.AddSong(env.ctx, owner, playlist.Id, song.Id))

	err := env.playlists.Delete(env.ctx, other, playlist.Id)
	requireAPIError(t, err, KindUnauthorized, MsgDeletePlaylistDenied)

	require.Nil(t, env.playlists.Delete(env.ctx, owner, playlist.Id))
	_, err = env.playlists.GetByID(env.ctx, playlist.Id, model.DefaultPage())
	requireAPIError(t, err, KindNotFound, MsgPlaylistNotFound)

	count, err := env.playlists.SongCount(env.ctx, playlist.Id, song.Id)
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)

	// the song itself survives
	_, err = env.songs.GetByID(env.ctx, song.Id)
	assert.Nil(t, err)

	err = env.playlists.Delete(env.ctx, owner, playlist.Id)
	requireAPIError(t, err, KindNotFound, MsgPlaylistNotFound)
}

func TestPlaylistMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	playlist := env.createPlaylist(t, owner, "A")
	song := env.createSong(t, other, "foreign")

	t.Run("adding twice keeps one membership", func(t *testing.T) {
		require.Nil(t, env.playlists.AddSong(env.ctx, owner, playlist.Id, song.Id))
		require.Nil(t, env.playlists.AddSong(env.ctx, owner, playlist.Id, song.Id))

		count, err := env.playlists.SongCount(env.ctx, playlist.Id, song.Id)
		require.Nil(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("only the playlist owner edits membership", func(t *testing.T) {
		err := env.playlists.AddSong(env.ctx, other, playlist.Id, song.Id)
		requireAPIError(t, err, KindUnauthorized, MsgAddSongDenied)
		err = env.playlists.RemoveSong(env.ctx, other, playlist.Id, song.Id)
		requireAPIError(t, err, KindUnauthorized, MsgRemoveSongDenied)
	})

	t.Run("endpoints resolve with distinct messages", func(t *testing.T) {
		err := env.playlists.AddSong(env.ctx, owner, 999, 999)
		requireAPIError(t, err, KindNotFound, MsgPlaylistNotFound)
		err = env.playlists.AddSong(env.ctx, owner, playlist.Id, 999)
		requireAPIError(t, err, KindNotFound, MsgSongNotFound)
		err = env.playlists.RemoveSong(env.ctx, owner, playlist.Id, 999)
		requireAPIError(t, err, KindNotFound, MsgSongNotFound)
	})

	t.Run("remove then remove again", func(t *testing.T) {
		require.Nil(t, env.playlists.RemoveSong(env.ctx, owner, playlist.Id, song.Id))
		require.Nil(t, env.playlists.RemoveSong(env.ctx, owner, playlist.Id, song.Id))

		count, err := env.playlists.SongCount(env.ctx, playlist.Id, song.Id)
		require.Nil(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestGetPlaylistWithSongs(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	playlist := env.createPlaylist(t, owner, "A")
	var songs []*model.Song
	for _, title := range []string{"s0", "s1", "s2"} {
		song := env.createSong(t, owner, title)
		songs = append(songs, song)
		require.Nil(t, env.playlists.AddSong(env.ctx, owner, playlist.Id, song.Id))
	}

	got, err := env.playlists.GetByID(env.ctx, playlist.Id, model.Page{Take: 2, Skip: 1})
	require.Nil(t, err)
	assert.Equal(t, playlist.Id, got.Playlist.Id)
	require.Len(t, got.Songs, 2)
	assert.Equal(t, songs[1].Id, got.Songs[0].Id)
	assert.Equal(t, songs[2].Id, got.Songs[1].Id)

	_, err = env.playlists.GetByID(env.ctx, playlist.Id, model.Page{Take: -1})
	requireAPIError(t, err, KindBadRequest, MsgInvalidPage)
	_, err = env.playlists.GetAll(env.ctx, model.Page{Skip: -1})
	requireAPIError(t, err, KindBadRequest, MsgInvalidPage)
}
