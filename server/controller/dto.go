package controller

import (
	"time"

	"github.com/Luismorlan/tunemux/model"
	"github.com/jinzhu/copier"
)

// UserResponse is the public shape of a user.
type UserResponse struct {
	Id        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Fullname  *string    `json:"fullname"`
	Bio       *string    `json:"bio"`
	Avatar    *string    `json:"avatar"`
	Verified  bool       `json:"verified"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

type PlaylistDetailResponse struct {
	Id     uint          `json:"id"`
	Title  string        `json:"title"`
	UserID uint          `json:"user_id"`
	Songs  []*model.Song `json:"songs"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *model.User) (UserResponse, error) {
	res := UserResponse{}
	err := copier.Copy(&res, user)
	return res, err
}

func toUserResponses(users []*model.User) ([]UserResponse, error) {
	res := []UserResponse{}
	err := copier.Copy(&res, users)
	return res, err
}

func nonNilSongs(songs []*model.Song) []*model.Song {
	if songs == nil {
		return []*model.Song{}
	}
	return songs
}

func nonNilPlaylists(playlists []*model.Playlist) []*model.Playlist {
	if playlists == nil {
		return []*model.Playlist{}
	}
	return playlists
}
