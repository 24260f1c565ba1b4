package router

import (
	"github.com/bloomlog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret string, maxPhotoDim int) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("bloomlog_session", store))

	api := handler.NewAPI(gdb, maxPhotoDim)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 注册与登录不要求会话
	auth := r.Group("/auth")
	{
		auth.POST("/signup", api.Signup)
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
	}

	// 需要认证的 API 路由
	authorized := r.Group("/api")
	authorized.Use(handler.AuthRequired())
	{
		authorized.GET("/goals", api.ListGoals)
		authorized.POST("/goals", api.CreateGoal)
		authorized.PUT("/goals/:id", api.UpdateGoal)
		authorized.DELETE("/goals/:id", api.DeleteGoal)

		authorized.GET("/calendar", api.GetCalendar)
		authorized.GET("/calendar/:month", api.GetCalendarMonth)

		authorized.POST("/days", api.CompleteDay)
		authorized.GET("/days/:id", api.GetDay)
		authorized.GET("/days/:id/photo", api.GetDayPhoto)
		authorized.PUT("/days/:id/milestone", api.SaveMilestone)
		authorized.DELETE("/days/:id/milestone", api.DeleteMilestone)

		authorized.GET("/profile", api.GetProfile)
		authorized.PUT("/profile", api.UpdateProfile)
		authorized.POST("/profile/avatar", api.UploadAvatar)
		authorized.GET("/profile/avatar", api.GetAvatar)
		authorized.DELETE("/account", api.DeleteAccount)
	}

	return r
}
