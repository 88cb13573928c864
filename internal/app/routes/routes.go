package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/collabhub/internal/app/controllers"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/pkg/websocket"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Project      *controllers.ProjectController
	JoinRequest  *controllers.JoinRequestController
	Reaction     *controllers.ReactionController
	Comment      *controllers.CommentController
	Notification *controllers.NotificationController
	WebSocket    *websocket.Handler
}

// RateLimits configures the per-client limits of the write-heavy routes
type RateLimits struct {
	AuthPerMinute         int
	JoinRequestsPerMinute int
	Burst                 int
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, limits RateLimits) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(limits.AuthPerMinute, limits.Burst))
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
	}

	required := authMiddleware.JWTAuth()
	optional := authMiddleware.OptionalAuth()

	// Projects are addressed by owner username and slug. Static segments take
	// precedence over the :username wildcard.
	projects := v1.Group("/projects")
	{
		projects.GET("/feed", optional, c.Project.GetFeed)
		projects.POST("", required, c.Project.CreateProject)
		projects.GET("/mine", required, c.Project.ListMine)
		projects.GET("/contributed", required, c.Project.ListContributed)

		projects.GET("/:username/:slug", optional, c.Project.GetProject)
		projects.PATCH("/:username/:slug", required, c.Project.UpdateProject)
		projects.POST("/:username/:slug/join-requests",
			required,
			middleware.RateLimitMiddleware(limits.JoinRequestsPerMinute, limits.Burst),
			c.JoinRequest.RequestToJoin,
		)
		projects.POST("/:username/:slug/like", required, c.Reaction.Like)
		projects.DELETE("/:username/:slug/like", required, c.Reaction.Unlike)
		projects.POST("/:username/:slug/comments", required, c.Comment.AddComment)
		projects.GET("/:username/:slug/comments", optional, c.Comment.ListComments)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(required)
	{
		joinRequests := authenticated.Group("/join-requests")
		{
			joinRequests.GET("/incoming", c.JoinRequest.ListIncoming)
			joinRequests.GET("/mine", c.JoinRequest.ListMine)
			joinRequests.POST("/:id/respond", c.JoinRequest.Respond)
			joinRequests.POST("/:id/cancel", c.JoinRequest.Cancel)
		}

		bookmarks := authenticated.Group("/users/me/bookmarks")
		{
			bookmarks.GET("", c.Reaction.ListBookmarks)
			bookmarks.PUT("/:projectId", c.Reaction.ToggleBookmark)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.List)
			notifications.POST("/:id/read", c.Notification.MarkRead)
		}

		authenticated.GET("/ws/notifications", c.WebSocket.HandleConnection)
	}
}
