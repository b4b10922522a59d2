package controller

import (
	"net/http"

	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service *service.AuthService
}

func NewAuthController(s *service.AuthService) *AuthController {
	return &AuthController{service: s}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ctl *AuthController) Register(c *gin.Context) {
	in := service.RegisterInput{}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(service.BadRequest(service.MsgInvalidBody))
		return
	}
	user, err := ctl.service.Register(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	res, err := toUserResponse(user)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *AuthController) Login(c *gin.Context) {
	req := loginRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(service.BadRequest(service.MsgMissingCredential))
		return
	}
	result, err := ctl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	user, err := toUserResponse(result.User)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{User: user, Token: result.Token})
}

func (ctl *AuthController) Profile(c *gin.Context) {
	res, err := toUserResponse(middlewares.CurrentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
