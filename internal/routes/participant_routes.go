package routes

import (
	"expedition_tracker/internal/controllers"
	"expedition_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ParticipantRoutes(r *gin.Engine) {
	// Registration stays open to the public form.
	r.POST("/register", controllers.RegisterParticipant)

	participants := r.Group("/participants")
	participants.Use(middleware.RequireAuthWithRole("admin"))
	{
		participants.GET("", controllers.ListParticipants)
		participants.GET("/:id", controllers.GetParticipant)
		participants.PUT("/:id", controllers.UpdateParticipant)
		participants.DELETE("/:id", controllers.DeleteParticipant)
	}
}
