package routes

import (
	"expedition_tracker/internal/controllers"
	"expedition_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	// Public trip calendar, grouped by date.
	r.GET("/trips", controllers.ListTrips)

	trips := r.Group("/admin/trips")
	trips.Use(middleware.RequireAuthWithRole("admin"))
	{
		trips.POST("", controllers.CreateTrip)
		trips.GET("", controllers.ListTripsAdmin)
		trips.GET("/:id", controllers.GetTrip)
		trips.PUT("/:id", controllers.UpdateTrip)
		trips.DELETE("/:id", controllers.DeleteTrip)
		trips.PUT("/:id/participants", controllers.UpdateTripParticipants)
	}
}
