package routes

import (
	"expedition_tracker/internal/controllers"
	"expedition_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SurveyRoutes(r *gin.Engine) {
	// Field laptops submit survey pages without logging in.
	r.POST("/survey", controllers.SubmitSurvey)

	surveys := r.Group("/admin/surveys")
	surveys.Use(middleware.RequireAuthWithRole("admin"))
	{
		surveys.GET("", controllers.ListSurveys)
		surveys.GET("/:id", controllers.GetSurvey)
		surveys.PUT("/:id", controllers.UpdateSurvey)
		surveys.DELETE("/:id", controllers.DeleteSurvey)
		surveys.GET("/:id/export", controllers.ExportSurveyText)
		surveys.GET("/:id/centerline", controllers.SurveyCenterline)
	}
}
