package routes

import (
	"expedition_tracker/internal/controllers"
	"expedition_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ExportRoutes(r *gin.Engine) {
	export := r.Group("/admin/export")
	export.Use(middleware.RequireAuthWithRole("admin"))
	{
		export.GET("/registrations", controllers.ExportRegistrationWorkbook)
		export.GET("/shots", controllers.ExportShotsCSV)
		export.GET("/trips", controllers.ExportTripsCSV)
	}
}
