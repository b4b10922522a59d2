package controller

import (
	"context"
	"net/http"

	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type PlaylistController struct {
	service *service.PlaylistService
}

func NewPlaylistController(s *service.PlaylistService) *PlaylistController {
	return &PlaylistController{service: s}
}

type playlistRequest struct {
	Title *string `json:"title" form:"title"`
}

func (ctl *PlaylistController) Create(c *gin.Context) {
	req := playlistRequest{}
	if err := bindBody(c, &req); err != nil {
		c.Error(err)
		return
	}
	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	playlist, err := ctl.service.Create(c.Request.Context(), middlewares.CurrentUser(c), title)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, playlist)
}

func (ctl *PlaylistController) Update(c *gin.Context) {
	id, err := pathID(c, "playlist_id", service.MsgPlaylistNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	req := playlistRequest{}
	if err := bindBody(c, &req); err != nil {
		c.Error(err)
		return
	}
	playlist, err := ctl.service.Update(c.Request.Context(), middlewares.CurrentUser(c), id, model.PlaylistPatch{Title: req.Title})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, playlist)
}

func (ctl *PlaylistController) Delete(c *gin.Context) {
	id, err := pathID(c, "playlist_id", service.MsgPlaylistNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	if err := ctl.service.Delete(c.Request.Context(), middlewares.CurrentUser(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *PlaylistController) GetAll(c *gin.Context) {
	playlists, err := ctl.service.GetAll(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, nonNilPlaylists(playlists))
}

// GetByID returns the playlist with one page of its songs, paginated by take
// and skip.
func (ctl *PlaylistController) GetByID(c *gin.Context) {
	id, err := pathID(c, "playlist_id", service.MsgPlaylistNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	result, err := ctl.service.GetByID(c.Request.Context(), id, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	res := PlaylistDetailResponse{}
	if err := copier.Copy(&res, result.Playlist); err != nil {
		c.Error(err)
		return
	}
	res.Songs = nonNilSongs(result.Songs)
	c.JSON(http.StatusOK, res)
}

func (ctl *PlaylistController) AddSong(c *gin.Context) {
	ctl.editMembership(c, ctl.service.AddSong)
}

func (ctl *PlaylistController) RemoveSong(c *gin.Context) {
	ctl.editMembership(c, ctl.service.RemoveSong)
}

type membershipEdit func(ctx context.Context, actor *model.User, playlistID, songID uint) error

func (ctl *PlaylistController) editMembership(c *gin.Context, edit membershipEdit) {
	playlistID, err := pathID(c, "playlist_id", service.MsgPlaylistNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	// The song is resolved after the playlist ownership check, an unparsable
	// id becomes 0 which matches no song.
	songID, _ := pathID(c, "song_id", service.MsgSongNotFound)
	if err := edit(c.Request.Context(), middlewares.CurrentUser(c), playlistID, songID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}
