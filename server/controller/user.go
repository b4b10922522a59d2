package controller

import (
	"net/http"

	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *service.UserService
	songs *service.SongService
}

func NewUserController(users *service.UserService, songs *service.SongService) *UserController {
	return &UserController{users: users, songs: songs}
}

type profileRequest struct {
	Fullname *string `json:"fullname" form:"fullname"`
	Bio      *string `json:"bio" form:"bio"`
}

func (ctl *UserController) Follow(c *gin.Context) {
	targetID, err := queryUserID(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := ctl.users.Follow(c.Request.Context(), middlewares.CurrentUser(c), targetID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *UserController) Unfollow(c *gin.Context) {
	targetID, err := queryUserID(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := ctl.users.Unfollow(c.Request.Context(), middlewares.CurrentUser(c), targetID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *UserController) IsFollowing(c *gin.Context) {
	targetID, err := queryUserID(c)
	if err != nil {
		c.Error(err)
		return
	}
	following, err := ctl.users.IsFollowing(c.Request.Context(), middlewares.CurrentUser(c), targetID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_following": following})
}

// GetFollowers lists the users following the current user.
func (ctl *UserController) GetFollowers(c *gin.Context) {
	users, err := ctl.users.GetFollowers(c.Request.Context(), middlewares.CurrentUser(c).Id, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	res, err := toUserResponses(users)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": res})
}

// GetFollowedUsers lists the users the current user follows.
func (ctl *UserController) GetFollowedUsers(c *gin.Context) {
	users, err := ctl.users.GetFollowedUsers(c.Request.Context(), middlewares.CurrentUser(c).Id, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	res, err := toUserResponses(users)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followed_users": res})
}

func (ctl *UserController) GetSongsByUserID(c *gin.Context) {
	userID, err := pathID(c, "user_id", service.MsgUserNotFound)
	if err != nil {
		c.Error(err)
		return
	}
	songs, err := ctl.songs.GetByUser(c.Request.Context(), userID, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"songs": nonNilSongs(songs)})
}

// UpdateProfile accepts a multipart form with fullname, bio and an avatar
// file, or a JSON body without the avatar.
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	in := service.ProfileInput{}
	if isMultipart(c) {
		files := newFormFiles(c)
		defer files.Close()

		in.Fullname = optionalForm(c, "fullname")
		in.Bio = optionalForm(c, "bio")
		avatar, err := files.Asset(service.SlotAvatar)
		if err != nil {
			c.Error(err)
			return
		}
		in.Avatar = avatar
	} else {
		req := profileRequest{}
		if err := bindBody(c, &req); err != nil {
			c.Error(err)
			return
		}
		in.Fullname, in.Bio = req.Fullname, req.Bio
	}

	user, err := ctl.users.UpdateProfile(c.Request.Context(), middlewares.CurrentUser(c), in)
	if err != nil {
		c.Error(err)
		return
	}
	res, err := toUserResponse(user)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
