package routes

import (
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	AuthRoutes(r)
	ParticipantRoutes(r)
	TripRoutes(r)
	SurveyRoutes(r)
	AdminRoutes(r)
	ExportRoutes(r)

	return r
}
