package routes

import (
	"expedition_tracker/internal/controllers"
	"expedition_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	// Stats feed the public dashboard page.
	r.GET("/api/stats", controllers.Stats)
	r.GET("/api/cave-survey-stats", controllers.CaveSurveyStats)
	r.GET("/health", controllers.HealthCheck)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/settings", controllers.ListSettings)
		admin.PUT("/settings", controllers.UpdateSettings)
		admin.POST("/settings/reset", controllers.ResetSettings)
	}
}
