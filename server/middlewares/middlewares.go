package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/service"
	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/gin-gonic/gin"
)

const (
	currentUserKey = "current_user"

	MsgInternal = "Internal server error"
)

// Authenticator resolves a bearer token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// JWT middleware fetch user jwt in the "Authorization" header, formatted as
// "Bearer <token>". It loads the token's user and stores it in the context, see
// CurrentUser. It aborts on token not provided or token is invalid (wrong
// token, expired or unknown user).
func JWT(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticator.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)

		// before request
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// CurrentUser returns the user authenticated by JWT. Handlers behind JWT can
// rely on it being set.
func CurrentUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(currentUserKey).(*model.User)
	return user
}

// Errors renders the last error recorded with c.Error as
// {"message", "error_code"} unless the handler already wrote a response.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		status, body := ErrorResponse(last.Err)
		if status == http.StatusInternalServerError {
			Logger.Log.WithField("path", c.FullPath()).Errorf("request failed: %+v", last.Err)
		}
		c.JSON(status, body)
	}
}

// ErrorResponse maps an error to its status code and body. Errors not meant
// for the client are reported as internal errors.
func ErrorResponse(err error) (int, gin.H) {
	status, message := http.StatusInternalServerError, MsgInternal
	if apiErr, ok := service.AsAPIError(err); ok {
		status = apiErr.StatusCode()
		if status != http.StatusInternalServerError || apiErr.Kind == service.KindUploadFailed {
			message = apiErr.Message
		}
	}
	return status, gin.H{
		"message":    message,
		"error_code": status,
	}
}
