package routes

import (
	"expedition_tracker/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/admin")
	{
		auth.POST("/login", controllers.AdminLogin)
	}
}
