package app

import (
	"skillxchange_backend/docs"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/middleware"
	"skillxchange_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(s.streak))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerSkillRoutes(authGroup, c)
		a.registerSocialRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.HealthCheck)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.GET("/check-username/:username", c.auth.CheckUsername)
	}

	// Google 授权链路走浏览器会话 cookie，不依赖登录态
	router.GET("/meet/auth/url", c.meet.AuthURL)
	router.GET("/meet/auth/status", c.meet.Status)
	router.GET("/oauth2callback", c.meet.Callback)
}

func (a *App) registerUserRoutes(g *gin.RouterGroup, c *controllers) {
	g.GET("/profile", c.user.Profile)
	g.PATCH("/profile", c.user.UpdateProfile)
	g.GET("/users/profile/:username", c.user.PublicProfile)
	g.GET("/users/search", c.user.Search)

	g.GET("/streaks", c.streak.Stats)
}

func (a *App) registerSkillRoutes(g *gin.RouterGroup, c *controllers) {
	g.GET("/skills", c.skill.List)
	g.POST("/skills", c.skill.Create)
	g.PATCH("/skills/:id", c.skill.Update)
	g.DELETE("/skills/:id", c.skill.Delete)
	g.POST("/match_skills", c.skill.Match)

	g.POST("/upload_resume", c.resume.Upload)
	g.GET("/resume/current", c.resume.Current)
	g.DELETE("/resume/current", c.resume.Delete)
}

func (a *App) registerSocialRoutes(g *gin.RouterGroup, c *controllers) {
	g.POST("/connections/request/:userId", c.connection.Request)
	g.POST("/connections/:id/accept", c.connection.Accept)
	g.POST("/connections/:id/reject", c.connection.Reject)
	g.GET("/connections", c.connection.List)

	g.GET("/messages", c.message.History)
	g.POST("/messages", c.message.Send)
	g.GET("/conversations", c.message.Conversations)

	notifications := g.Group("/notifications")
	{
		notifications.GET("", c.notification.List)
		notifications.GET("/unread", c.notification.Unread)
		notifications.POST("/:id/mark_read", c.notification.MarkRead)
		notifications.POST("/mark_all_read", c.notification.MarkAllRead)
	}

	g.GET("/realtime/token", c.realtime.Token)
	g.GET("/realtime/ws", c.realtime.Connect)

	g.POST("/create-meet", c.meet.CreateMeet)
}

func (a *App) registerLearningRoutes(g *gin.RouterGroup, c *controllers) {
	learning := g.Group("/learning")
	{
		learning.GET("/points", c.learning.Points)
		learning.POST("/join", c.learning.Join)
		learning.GET("/requests", c.learning.Requests)
		learning.POST("/requests/:id/accept", c.learning.Accept)
		learning.POST("/requests/:id/reject", c.learning.RejectRequest)
		learning.POST("/end/:id", c.learning.End)
		learning.GET("/sessions", c.learning.Sessions)
		learning.GET("/sessions/:id", c.learning.Session)
		learning.GET("/can-rate/:id", c.learning.CanRate)
		learning.POST("/rate/:id", c.learning.Rate)
		learning.GET("/ratings/user/:username", c.learning.UserRatings)
		learning.GET("/ratings/:id", c.learning.SessionRatings)
		learning.GET("/skills-learned", c.learning.SkillsLearned)
		learning.GET("/skills-learned/:username", c.learning.SkillsLearned)
		learning.GET("/skills-taught", c.learning.SkillsTaught)
		learning.GET("/skills-taught/:username", c.learning.SkillsTaught)
		learning.GET("/badges", c.learning.Badges)
		learning.GET("/badges/:username", c.learning.Badges)
	}
}
