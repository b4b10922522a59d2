package service

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asyncSongs(env *testEnv) *SongService {
	return env.songs.WithAssetJobs(env.jobs)
}

func TestAsyncCreateSong(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	songs := asyncSongs(env)

	res, err := songs.Create(env.ctx, owner, SongInput{
		Title:          "Later",
		SongFile:       asset("later.mp3", "audio"),
		SmallThumbnail: asset("s.png", "img"),
	})
	require.Nil(t, err)
	assert.Nil(t, res.Song)
	require.NotNil(t, res.Job)
	job := res.Job
	assert.Equal(t, model.AssetJobPending, job.Status)
	assert.Equal(t, []string{job.Id}, env.queue.ids)
	// nothing is uploaded before the job runs
	assert.Equal(t, 0, env.store.Calls())

	payload, err := Payload(job)
	require.Nil(t, err)
	require.Len(t, payload.Assets, 2)
	spooled, err := ioutil.ReadFile(payload.Assets[0].Path)
	require.Nil(t, err)
	assert.Equal(t, "audio", string(spooled))

	require.Nil(t, env.jobs.Execute(env.ctx, job.Id))

	done, err := env.jobs.GetByID(env.ctx, owner, job.Id)
	require.Nil(t, err)
	assert.Equal(t, model.AssetJobSucceeded, done.Status)
	assert.Equal(t, 1, done.Attempts)
	assert.NotNil(t, done.FinishedAt)
	require.NotNil(t, done.SongID)

	song, err := env.songs.GetByID(env.ctx, *done.SongID)
	require.Nil(t, err)
	assert.Equal(t, "Later", song.Title)
	assert.Equal(t, owner.Id, song.UserID)
	assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--later.mp3", song.SongURL)
	require.NotNil(t, song.SmallThumbnailURL)

	_, err = os.Stat(filepath.Dir(payload.Assets[0].Path))
	assert.True(t, os.IsNotExist(err))

	// running a finished job again changes nothing
	require.Nil(t, env.jobs.Execute(env.ctx, job.Id))
	all, err := env.songs.GetAll(env.ctx, model.DefaultPage())
	require.Nil(t, err)
	assert.Len(t, all, 1)
}

func TestAsyncUpdateSong(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	song := env.createSong(t, owner, "orig")
	songs := asyncSongs(env)

	_, err := songs.Update(env.ctx, other, song.Id, SongUpdateInput{SongFile: asset("b.mp3", "x")})
	requireAPIError(t, err, KindUnauthorized, MsgUpdateSongDenied)
	assert.Empty(t, env.queue.ids)

	// title only changes need no job
	res, err := songs.Update(env.ctx, owner, song.Id, SongUpdateInput{Title: strPtr("renamed")})
	require.Nil(t, err)
	require.NotNil(t, res.Song)
	assert.Equal(t, "renamed", res.Song.Title)

	res, err = songs.Update(env.ctx, owner, song.Id, SongUpdateInput{
		Title:    strPtr("remastered"),
		SongFile: asset("remaster.mp3", "x"),
	})
	require.Nil(t, err)
	require.NotNil(t, res.Job)
	require.NotNil(t, res.Job.SongID)
	assert.Equal(t, song.Id, *res.Job.SongID)

	require.Nil(t, env.jobs.Execute(env.ctx, res.Job.Id))
	stored, err := env.songs.GetByID(env.ctx, song.Id)
	require.Nil(t, err)
	assert.Equal(t, "remastered", stored.Title)
	assert.Equal(t, file_store.FakeBaseUrl+"/20230405060708--remaster.mp3", stored.SongURL)
}

func TestAsyncJobFailures(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	songs := asyncSongs(env)

	res, err := songs.Create(env.ctx, owner, SongInput{Title: "t", SongFile: asset("a.mp3", "x")})
	require.Nil(t, err)
	jobID := res.Job.Id

	t.Run("upload failures are transient", func(t *testing.T) {
		env.store.FailAll = true
		err := env.jobs.Execute(env.ctx, jobID)
		requireAPIError(t, err, KindUploadFailed, MsgUploadFailed)
		apiErr, _ := AsAPIError(err)
		assert.False(t, apiErr.Permanent())

		job, err := env.jobRepo.GetByID(env.ctx, jobID)
		require.Nil(t, err)
		assert.Equal(t, model.AssetJobRunning, job.Status)
		assert.Equal(t, 1, job.Attempts)
	})

	t.Run("final failure is recorded", func(t *testing.T) {
		require.Nil(t, env.jobs.MarkFailed(env.ctx, jobID, errors.New("Failed to upload")))
		job, err := env.jobs.GetByID(env.ctx, owner, jobID)
		require.Nil(t, err)
		assert.Equal(t, model.AssetJobFailed, job.Status)
		assert.Equal(t, "Failed to upload", job.Error)
		assert.Nil(t, job.SongID)
	})

	t.Run("jobs are private", func(t *testing.T) {
		_, err := env.jobs.GetByID(env.ctx, other, jobID)
		requireAPIError(t, err, KindUnauthorized, MsgViewJobDenied)
		_, err = env.jobs.GetByID(env.ctx, owner, "missing")
		requireAPIError(t, err, KindNotFound, MsgJobNotFound)
	})

	t.Run("deleted target song", func(t *testing.T) {
		env.store.FailAll = false
		song := env.createSong(t, owner, "gone")
		res, err := songs.Update(env.ctx, owner, song.Id, SongUpdateInput{SongFile: asset("b.mp3", "x")})
		require.Nil(t, err)
		require.Nil(t, env.songs.Delete(env.ctx, owner, song.Id))

		err = env.jobs.Execute(env.ctx, res.Job.Id)
		requireAPIError(t, err, KindNotFound, MsgSongNotFound)
		apiErr, _ := AsAPIError(err)
		assert.True(t, apiErr.Permanent())

		payload, err := Payload(res.Job)
		require.Nil(t, err)
		require.Len(t, payload.Assets, 1)
		_, ok := env.store.Object(payload.Assets[0].Key)
		assert.False(t, ok)
		assert.Contains(t, env.store.Deleted(), payload.Assets[0].Key)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		env.queue.err = errors.New("bus closed")
		defer func() { env.queue.err = nil }()
		_, err := songs.Create(env.ctx, owner, SongInput{Title: "t", SongFile: asset("a.mp3", "x")})
		assert.Error(t, err)
	})
}

func TestFailUnfinished(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	res, err := asyncSongs(env).Create(env.ctx, owner, SongInput{Title: "t", SongFile: asset("a.mp3", "x")})
	require.Nil(t, err)

	n, err := env.jobs.FailUnfinished(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(1), n)

	job, err := env.jobs.GetByID(env.ctx, owner, res.Job.Id)
	require.Nil(t, err)
	assert.Equal(t, model.AssetJobFailed, job.Status)
	assert.Equal(t, MsgInterrupted, job.Error)
}
