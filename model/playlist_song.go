package model

import "time"

/*
PlaylistSong is a "many-to-many" membership edge between a playlist and a
song.

Id: auto increment, the playlist's song order is the edge insertion order
PlaylistID: playlist id
SongID: song id
CreatedAt: time when the song is added
*/
type PlaylistSong struct {
	Id         uint `gorm:"primaryKey"`
	PlaylistID uint `gorm:"not null;uniqueIndex:idx_playlist_song_pair;index"`
	SongID     uint `gorm:"not null;uniqueIndex:idx_playlist_song_pair;index"`
	CreatedAt  time.Time
}
