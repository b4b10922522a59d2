package model

import "time"

/*
Song is an uploaded audio asset with optional thumbnails.

Id: primary key, auto increment
Title: display title, required
SongURL: object storage URL of the audio file, required
SmallThumbnailURL, LargeThumbnailURL: optional object storage URLs
UserID: owner, set at creation and never reassigned
*/
type Song struct {
	Id                uint      `json:"id" gorm:"primaryKey"`
	Title             string    `json:"title" gorm:"not null"`
	SongURL           string    `json:"song_url" gorm:"column:song_url;not null"`
	SmallThumbnailURL *string   `json:"small_thumbnail_url" gorm:"column:small_thumbnail_url"`
	LargeThumbnailURL *string   `json:"large_thumbnail_url" gorm:"column:large_thumbnail_url"`
	UserID            uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (s *Song) OwnerID() uint {
	return s.UserID
}

// SongPatch is a partial update of a Song. A nil field means unset, a non nil
// field replaces the stored value. Title and SongURL can be replaced but never
// cleared.
type SongPatch struct {
	Title             *string `json:"title"`
	SongURL           *string `json:"song_url"`
	SmallThumbnailURL *string `json:"small_thumbnail_url"`
	LargeThumbnailURL *string `json:"large_thumbnail_url"`
}

func (p SongPatch) Apply(s *Song) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.SongURL != nil {
		s.SongURL = *p.SongURL
	}
	if p.SmallThumbnailURL != nil {
		s.SmallThumbnailURL = p.SmallThumbnailURL
	}
	if p.LargeThumbnailURL != nil {
		s.LargeThumbnailURL = p.LargeThumbnailURL
	}
}
