package server

import (
	"net/http"

	"github.com/Luismorlan/tunemux/server/controller"
	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

// Services the HTTP surface is built on.
type Services struct {
	Auth      *service.AuthService
	Songs     *service.SongService
	Playlists *service.PlaylistService
	Users     *service.UserService
	Jobs      *service.AssetJobService
}

type RouterConfig struct {
	ServiceName string
	// Allow every origin when empty.
	AllowedOrigins []string
	// Attach the DataDog tracing middleware.
	Tracing bool
	// Serve this folder under /assets, used with the local file store.
	AssetsDir string
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AddAllowHeaders("Authorization")
	return cors.New(config)
}

// NewRouter builds the gin engine serving the API.
func NewRouter(config RouterConfig, services Services) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(corsMiddleware(config.AllowedOrigins))
	if config.Tracing {
		router.Use(gintrace.Middleware(config.ServiceName))
	}
	router.Use(middlewares.Errors())

	if config.AssetsDir != "" {
		router.Static("/assets", config.AssetsDir)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authRequired := middlewares.JWT(services.Auth)

	auth := controller.NewAuthController(services.Auth)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.GET("/profile", authRequired, auth.Profile)
	}

	song := controller.NewSongController(services.Songs)
	songGroup := router.Group("/song", authRequired)
	{
		songGroup.POST("/create", song.Create)
		songGroup.PUT("/update/:song_id", song.Update)
		songGroup.DELETE("/delete/:song_id", song.Delete)
		songGroup.GET("/get-all", song.GetAll)
		songGroup.GET("/get-by-id/:song_id", song.GetByID)
	}

	playlist := controller.NewPlaylistController(services.Playlists)
	playlistGroup := router.Group("/playlist", authRequired)
	{
		playlistGroup.POST("/create", playlist.Create)
		playlistGroup.PUT("/update/:playlist_id", playlist.Update)
		playlistGroup.DELETE("/delete/:playlist_id", playlist.Delete)
		playlistGroup.GET("/get-all", playlist.GetAll)
		playlistGroup.GET("/get-by-id/:playlist_id", playlist.GetByID)
		playlistGroup.POST("/add-song/:playlist_id/:song_id", playlist.AddSong)
		playlistGroup.POST("/remove-song/:playlist_id/:song_id", playlist.RemoveSong)
	}

	user := controller.NewUserController(services.Users, services.Songs)
	userGroup := router.Group("/user", authRequired)
	{
		userGroup.POST("/follow", user.Follow)
		userGroup.POST("/unfollow", user.Unfollow)
		userGroup.GET("/is-following", user.IsFollowing)
		userGroup.GET("/get-followers", user.GetFollowers)
		userGroup.GET("/get-followed-users", user.GetFollowedUsers)
		userGroup.GET("/get-songs-by-user-id/:user_id", user.GetSongsByUserID)
		userGroup.PUT("/update-profile", user.UpdateProfile)
	}

	job := controller.NewJobController(services.Jobs)
	router.GET("/job/get-by-id/:job_id", authRequired, job.GetByID)

	return router
}
