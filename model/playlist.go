package model

import "time"

/*
Playlist is an ordered collection of songs curated by its owner.

Id: primary key, auto increment
Title: display title, required
UserID: owner, set at creation and never reassigned

Songs are attached through PlaylistSong edges, see playlist_song.go.
*/
type Playlist struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Playlist) OwnerID() uint {
	return p.UserID
}

type PlaylistPatch struct {
	Title *string `json:"title"`
}

func (p PlaylistPatch) Apply(pl *Playlist) {
	if p.Title != nil {
		pl.Title = *p.Title
	}
}
