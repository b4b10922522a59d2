package controller

import (
	"net/http"

	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
)

type SongController struct {
	service *service.SongService
}

func NewSongController(s *service.SongService) *SongController {
	return &SongController{service: s}
}

type songUpdateRequest struct {
	Title *string `json:"title" form:"title"`
}

// respondSong answers with the song, or with 202 and the job when the assets
// are processed in the background.
func respondSong(c *gin.Context, status int, result *service.SongResult) {
	if result.Job != nil {
		c.JSON(http.StatusAccepted, result.Job)
		return
	}
	c.JSON(status, result.Song)
}

func (ctl *SongController) Create(c *gin.Context) {
	files := newFormFiles(c)
	defer files.Close()

	in := service.SongInput{Title: c.PostForm("title")}
	var err error
	if in.SongFile, err = files.Asset("song_file"); err != nil {
		c.Error(err)
		return
	}
	if in.SmallThumbnail, err = files.Asset("small_thumbnail"); err != nil {
		c.Error(err)
		return
	}
	if in.LargeThumbnail, err = files.Asset("large_thumbnail"); err != nil {
		c.Error(err)
		return
	}

	result, err := ctl.service.Create(c.Request.Context(), middlewares.CurrentUser(c), in)
	if err != nil {
		c.Error(err)
		return
	}
	respondSong(c, http.StatusCreated, result)
}

// Update accepts a multipart form carrying any of title and the asset files,
// or a JSON body with the title.
func (ctl *SongController) Update(c *gin.Context) {
	id, err := pathID(c, "song_id", service.MsgSongNotFound)
	if err != nil {
		c.Error(err)
		return
	}

	in := service.SongUpdateInput{}
	if isMultipart(c) {
		files := newFormFiles(c)
		defer files.Close()

		in.Title = optionalForm(c, "title")
		if in.SongFile, err = files.Asset("song_file"); err != nil {
			c.Error(err)
			return
		}
		if in.SmallThumbnail, err = files.Asset("small_thumbnail"); err != nil {
			c.Error(err)
			return
		}
		if in.LargeThumbnail, err = files.Asset("large_thumbnail"); err != nil {
			c.Error(err)
			return
		}
	} else {
		req := songUpdateRequest{}
		if err := bindBody(c, &req); err != nil {
			c.Error(err)
			return
		}
		in.Title = req.Title
	}

	result, err := ctl.service.Update(c.Request.Context(), middlewares.CurrentUser(c), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	respondSong(c, http.StatusOK, result)
}

func (ctl *SongController) Delete(c *gin.Context) {
	id, err := pathID(c, "song_id", service.MsgSongNotFound)
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

func (ctl *SongController) GetAll(c *gin.Context) {
	songs, err := ctl.service.GetAll(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"songs": nonNilSongs(songs)})
}

func (ctl *SongController) GetByID(c *gin.Context) {
	id, err := pathID(c, "song_id", service.MsgSongNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	song, err := ctl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, song)
}
