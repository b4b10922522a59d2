package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSong(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")

	res, err := env.songs.Create(env.ctx, owner, SongInput{
		Title:          "Intro",
		SongFile:       asset("My Intro.MP3", "audio"),
		LargeThumbnail: asset("cover.png", "image"),
	})
	require.Nil(t, err)
	require.NotNil(t, res.Song)
	assert.Nil(t, res.Job)

	song := res.Song
	assert.Equal(t, "Intro", song.Title)
	assert.Equal(t, owner.Id, song.UserID)
	assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--my_intro.MP3", song.SongURL)
	assert.Nil(t, song.SmallThumbnailURL)
	require.NotNil(t, song.LargeThumbnailURL)
	assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--cover.png", *song.LargeThumbnailURL)

	data, ok := env.store.Object("20230405060708--my_intro.MP3")
	require.True(t, ok)
	assert.Equal(t, "audio", string(data))
}

func TestCreateSongValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")

	_, err := env.songs.Create(env.ctx, owner, SongInput{SongFile: asset("a.mp3", "x")})
	requireAPIError(t, err, KindFieldRequired, "title is required")

	_, err = env.songs.Create(env.ctx, owner, SongInput{Title: "t"})
	requireAPIError(t, err, KindFieldRequired, "song_file is required")

	_, err = env.songs.Create(env.ctx, owner, SongInput{Title: "t", SongFile: asset("noextension", "x")})
	requireAPIError(t, err, KindBadRequest, MsgInvalidFilename)

	// a bad thumbnail name stops the request before the song file is uploaded
	_, err = env.songs.Create(env.ctx, owner, SongInput{
		Title:          "t",
		SongFile:       asset("a.mp3", "x"),
		SmallThumbnail: asset("thumb", "x"),
	})
	requireAPIError(t, err, KindBadRequest, MsgInvalidFilename)
	assert.Equal(t, 0, env.store.Calls())

	songs, err := env.songs.GetAll(env.ctx, model.DefaultPage())
	require.Nil(t, err)
	assert.Empty(t, songs)
}

func TestCreateSongUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	env.store.FailAll = true

	_, err := env.songs.Create(env.ctx, owner, SongInput{Title: "t", SongFile: asset("a.mp3", "x")})
	requireAPIError(t, err, KindUploadFailed, MsgUploadFailed)

	songs, err := env.songs.GetAll(env.ctx, model.DefaultPage())
	require.Nil(t, err)
	assert.Empty(t, songs)
}

// brokenSongRepository fails every write after the uploads went through.
type brokenSongRepository struct {
	repository.SongRepository
}

var errWriteFailed = errors.New("write failed")

func (brokenSongRepository) Create(ctx context.Context, song *model.Song) error {
	return errWriteFailed
}

func (brokenSongRepository) Update(ctx context.Context, song *model.Song) error {
	return errWriteFailed
}

func TestSongWriteFailureDiscardsUploads(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	song := env.createSong(t, owner, "orig")
	songs := *env.songs
	songs.songs = brokenSongRepository{env.songRepo}

	_, err := songs.Create(env.ctx, owner, SongInput{
		Title:          "t",
		SongFile:       asset("a.mp3", "x"),
		SmallThumbnail: asset("s.png", "x"),
	})
	assert.ErrorIs(t, err, errWriteFailed)
	assert.Equal(t, []string{"20230405060708--a.mp3", "20230405060708--s.png"}, env.store.Deleted())
	_, ok := env.store.Object("20230405060708--a.mp3")
	assert.False(t, ok)

	_, err = songs.Update(env.ctx, owner, song.Id, SongUpdateInput{SongFile: asset("b.mp3", "x")})
	assert.ErrorIs(t, err, errWriteFailed)
	assert.Contains(t, env.store.Deleted(), "20230405060708--b.mp3")

	stored, err := env.songRepo.GetByID(env.ctx, song.Id)
	require.Nil(t, err)
	assert.Equal(t, "https://cdn/orig.mp3", stored.SongURL)
}

func TestUpdateSong(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	song := env.createSong(t, owner, "orig")

	t.Run("non owner is rejected before uploading", func(t *testing.T) {
		_, err := env.songs.Update(env.ctx, other, song.Id, SongUpdateInput{
			Title:    strPtr("hijack"),
			SongFile: asset("b.mp3", "x"),
		})
		requireAPIError(t, err, KindUnauthorized, MsgUpdateSongDenied)
		assert.Equal(t, 0, env.store.Calls())
	})

	t.Run("missing song", func(t *testing.T) {
		_, err := env.songs.Update(env.ctx, other, 999, SongUpdateInput{Title: strPtr("x")})
		requireAPIError(t, err, KindNotFound, MsgSongNotFound)
	})

	t.Run("title cannot be cleared", func(t *testing.T) {
		_, err := env.songs.Update(env.ctx, owner, song.Id, SongUpdateInput{Title: strPtr("")})
		requireAPIError(t, err, KindFieldRequired, "title is required")
	})

	t.Run("only supplied fields change", func(t *testing.T) {
		res, err := env.songs.Update(env.ctx, owner, song.Id, SongUpdateInput{
			SmallThumbnail: asset("small.png", "img"),
		})
		require.Nil(t, err)
		assert.Equal(t, "orig", res.Song.Title)
		assert.Equal(t, song.SongURL, res.Song.SongURL)
		require.NotNil(t, res.Song.SmallThumbnailURL)
		assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--small.png", *res.Song.SmallThumbnailURL)
		assert.Nil(t, res.Song.LargeThumbnailURL)
	})

	t.Run("title only", func(t *testing.T) {
		res, err := env.songs.Update(env.ctx, owner, song.Id, SongUpdateInput{Title: strPtr("renamed")})
		require.Nil(t, err)
		assert.Equal(t, "renamed", res.Song.Title)
		require.NotNil(t, res.Song.SmallThumbnailURL)

		stored, err := env.songs.GetByID(env.ctx, song.Id)
		require.Nil(t, err)
		assert.Equal(t, "renamed", stored.Title)
		assert.Equal(t, owner.Id, stored.UserID)
	})

	t.Run("upload failure persists nothing", func(t *testing.T) {
		env.store.FailAll = true
		defer func() { env.store.FailAll = false }()

		_, err := env.songs.Update(env.ctx, owner, song.Id, SongUpdateInput{
			Title:    strPtr("never"),
			SongFile: asset("new.mp3", "x"),
		})
		requireAPIError(t, err, KindUploadFailed, MsgUploadFailed)

		stored, err := env.songs.GetByID(env.ctx, song.Id)
		require.Nil(t, err)
		assert.Equal(t, "renamed", stored.Title)
		assert.Equal(t, song.SongURL, stored.SongURL)
	})
}

func TestDeleteSong(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	song := env.createSong(t, owner, "s")
	playlist := env.createPlaylist(t, other, "p")
	require.Nil(t, env.playlists.AddSong(env.ctx, other, playlist.Id, song.Id))

	err := env.songs.Delete(env.ctx, other, song.Id)
	requireAPIError(t, err, KindUnauthorized, MsgDeleteSongDenied)

	require.Nil(t, env.songs.Delete(env.ctx, owner, song.Id))
	_, err = env.songs.GetByID(env.ctx, song.Id)
	requireAPIError(t, err, KindNotFound, MsgSongNotFound)

	got, err := env.playlists.GetByID(env.ctx, playlist.Id, model.DefaultPage())
	require.Nil(t, err)
	assert.Empty(t, got.Songs)

	err = env.songs.Delete(env.ctx, owner, song.Id)
	requireAPIError(t, err, KindNotFound, MsgSongNotFound)
}

func TestSongListing(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		ids = append(ids, env.createSong(t, owner, title).Id)
	}
	env.createSong(t, other, "d")

	all, err := env.songs.GetAll(env.ctx, model.Page{Take: 2, Skip: 2})
	require.Nil(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ids[2], all[0].Id)

	mine, err := env.songs.GetByUser(env.ctx, owner.Id, model.DefaultPage())
	require.Nil(t, err)
	assert.Len(t, mine, 3)

	_, err = env.songs.GetByUser(env.ctx, 999, model.DefaultPage())
	requireAPIError(t, err, KindNotFound, MsgUserNotFound)

	_, err = env.songs.GetAll(env.ctx, model.Page{Take: -2})
	requireAPIError(t, err, KindBadRequest, MsgInvalidPage)
}
