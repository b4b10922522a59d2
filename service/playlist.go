package service

import (
	"context"

	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
)

// PlaylistWithSongs is a playlist together with one window of its songs.
type PlaylistWithSongs struct {
	Playlist *model.Playlist
	Songs    []*model.Song
}

type PlaylistService struct {
	tx        repository.Transactor
	playlists repository.PlaylistRepository
	songs     repository.SongRepository
}

func NewPlaylistService(tx repository.Transactor, playlists repository.PlaylistRepository, songs repository.SongRepository) *PlaylistService {
	return &PlaylistService{tx: tx, playlists: playlists, songs: songs}
}

func (s *PlaylistService) Create(ctx context.Context, actor *model.User, title string) (*model.Playlist, error) {
	if title == "" {
		return nil, FieldRequired("title")
	}
	playlist := &model.Playlist{Title: title, UserID: actor.Id}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, actor *model.User, id uint, patch model.PlaylistPatch) (*model.Playlist, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, FieldRequired("title")
	}

	var playlist *model.Playlist
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		playlist, err = s.playlists.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, MsgPlaylistNotFound)
		}
		if err := requireOwner(actor, playlist, MsgUpdatePlaylistDenied); err != nil {
			return err
		}
		patch.Apply(playlist)
		return s.playlists.Update(ctx, playlist)
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, actor *model.User, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		playlist, err := s.playlists.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, MsgPlaylistNotFound)
		}
		if err := requireOwner(actor, playlist, MsgDeletePlaylistDenied); err != nil {
			return err
		}
		return s.playlists.Delete(ctx, id)
	})
}

// GetByID returns the playlist and the window of its songs selected by
// songsPage, songs in the order they were added.
func (s *PlaylistService) GetByID(ctx context.Context, id uint, songsPage model.Page) (*PlaylistWithSongs, error) {
	if err := validatePage(songsPage); err != nil {
		return nil, err
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, MsgPlaylistNotFound)
	}
	songs, err := s.playlists.Songs(ctx, id, songsPage)
	if err != nil {
		return nil, err
	}
	return &PlaylistWithSongs{Playlist: playlist, Songs: songs}, nil
}

func (s *PlaylistService) GetAll(ctx context.Context, page model.Page) ([]*model.Playlist, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	return s.playlists.List(ctx, page)
}

// AddSong resolves the playlist, checks the actor owns it, resolves the song
// and links both. Adding a song twice keeps a single membership.
func (s *PlaylistService) AddSong(ctx context.Context, actor *model.User, playlistID, songID uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveMembership(ctx, actor, playlistID, songID, MsgAddSongDenied); err != nil {
			return err
		}
		_, err := s.playlists.AddSong(ctx, playlistID, songID)
		return err
	})
}

// RemoveSong unlinks a song from a playlist, removing a song that is not in
// the playlist is a no-op.
func (s *PlaylistService) RemoveSong(ctx context.Context, actor *model.User, playlistID, songID uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveMembership(ctx, actor, playlistID, songID, MsgRemoveSongDenied); err != nil {
			return err
		}
		_, err := s.playlists.RemoveSong(ctx, playlistID, songID)
		return err
	})
}

// SongCount returns how many times songID is linked to playlistID.
func (s *PlaylistService) SongCount(ctx context.Context, playlistID, songID uint) (int64, error) {
	return s.playlists.CountSong(ctx, playlistID, songID)
}

func (s *PlaylistService) resolveMembership(ctx context.Context, actor *model.User, playlistID, songID uint, denial string) error {
	playlist, err := s.playlists.GetByIDForUpdate(ctx, playlistID)
	if err != nil {
		return notFoundOr(err, MsgPlaylistNotFound)
	}
	if err := requireOwner(actor, playlist, denial); err != nil {
		return err
	}
	if _, err := s.songs.GetByID(ctx, songID); err != nil {
		return notFoundOr(err, MsgSongNotFound)
	}
	return nil
}
