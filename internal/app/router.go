package app

import (
	"habitloop_backend/docs"
	"habitloop_backend/internal/config"
	"habitloop_backend/internal/middleware"
	"habitloop_backend/internal/model"
	"habitloop_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/motivation/current", c.motivation.GetCurrent)
		// 动态流可匿名浏览，带 token 则能看到好友的非公开动态
		public.GET("/feed", middleware.TryAuthMiddleware(cfg), c.feed.GetFeed)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		// 用户
		authGroup.GET("/users/:id", c.user.GetUserProfile)
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.PUT("/users/password", c.user.ChangePassword)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)

		// 习惯与打卡
		habits := authGroup.Group("/habits")
		{
			habits.POST("", c.habit.CreateHabit)
			habits.GET("", c.habit.ListHabits)
			habits.GET("/progress", c.habit.GetProgress)
			habits.POST("/photo", c.habit.UploadCheckInPhoto)
			habits.GET("/:id", c.habit.GetHabit)
			habits.PUT("/:id", c.habit.UpdateHabit)
			habits.DELETE("/:id", c.habit.DeleteHabit)
			habits.POST("/:id/check-in", c.habit.CheckIn)
		}

		// 扩展门禁
		gate := authGroup.Group("/gate")
		{
			gate.GET("/status", c.gate.GetStatus)
			gate.PUT("/settings", c.gate.UpdateSettings)
			gate.POST("/progress", c.gate.ReportProgress)
			gate.POST("/evaluate", c.gate.Evaluate)
		}

		// 社区动态
		feed := authGroup.Group("/feed")
		{
			feed.POST("", c.feed.SharePost)
			feed.POST("/like", c.feed.ToggleLike)
			feed.GET("/:id", c.feed.GetPostDetail)
			feed.DELETE("/:id", c.feed.DeletePost)
			feed.POST("/:id/comments", c.feed.CreateComment)
			feed.DELETE("/comments/:commentId", c.feed.DeleteComment)
		}

		// 好友
		friends := authGroup.Group("/friends")
		{
			friends.GET("", c.friendship.GetFriends)
			friends.GET("/search", c.friendship.SearchUsers)
			friends.POST("/requests", c.friendship.SendFriendRequest)
			friends.GET("/requests", c.friendship.GetFriendRequests)
			friends.PUT("/requests/:id", c.friendship.HandleFriendRequest)
			friends.DELETE("/:id", c.friendship.DeleteFriend)
		}

		// 私聊
		chat := authGroup.Group("/chat")
		{
			chat.GET("/ws", c.chat.HandleWS)
			chat.POST("/conversations", c.chat.CreatePrivateChat)
			chat.GET("/conversations", c.chat.GetConversations)
			chat.POST("/conversations/:id/messages", c.chat.SendMessage)
			chat.GET("/conversations/:id/messages", c.chat.GetMessages)
			chat.PUT("/conversations/:id/read", c.chat.MarkAsRead)
			chat.DELETE("/conversations/:id", c.chat.HideConversation)
			chat.PUT("/messages/:msgId/revoke", c.chat.RevokeMessage)
			chat.GET("/online/:id", c.chat.GetOnlineStatus)
		}
	}

	// 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.GetUsers)
		admin.PUT("/users/:id/disable", c.user.DisableUser)

		admin.GET("/motivations", c.motivation.GetAll)
		admin.POST("/motivations", c.motivation.Create)
		admin.PUT("/motivations/:id", c.motivation.Update)
		admin.DELETE("/motivations/:id", c.motivation.Delete)
		admin.PUT("/motivations/:id/switch", c.motivation.Switch)
	}
}
