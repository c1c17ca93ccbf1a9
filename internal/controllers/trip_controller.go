package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/models"
)

type tripInput struct {
	TripName          string   `json:"trip_name" binding:"required"`
	TripDate          string   `json:"trip_date" binding:"required"`
	CaveName          string   `json:"cave_name" binding:"required"`
	Objective         string   `json:"objective"`
	LeaderName        string   `json:"leader_name"`
	EntryTime         string   `json:"entry_time"`
	ExitTime          string   `json:"exit_time"`
	RouteDescription  string   `json:"route_description"`
	Hazards           string   `json:"hazards"`
	Notes             string   `json:"notes"`
	RequiredSkills    []string `json:"required_skills"`
	RequiredEquipment []string `json:"required_equipment"`
	MaxParticipants   int      `json:"max_participants"`
	DifficultyLevel   string   `json:"difficulty_level"`
	Status            string   `json:"status"`
}

func tripFromInput(in *tripInput) models.Trip {
	skills, _ := json.Marshal(in.RequiredSkills)
	equipment, _ := json.Marshal(in.RequiredEquipment)

	maxParticipants := in.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = 6
	}
	difficulty := in.DifficultyLevel
	if difficulty == "" {
		difficulty = "intermediate"
	}
	status := in.Status
	if status == "" {
		status = "planned"
	}

	return models.Trip{
		TripName:          in.TripName,
		TripDate:          in.TripDate,
		CaveName:          in.CaveName,
		Objective:         in.Objective,
		LeaderName:        in.LeaderName,
		EntryTime:         in.EntryTime,
		ExitTime:          in.ExitTime,
		RouteDescription:  in.RouteDescription,
		Hazards:           in.Hazards,
		Notes:             in.Notes,
		RequiredSkills:    string(skills),
		RequiredEquipment: string(equipment),
		Participants:      "[]",
		MaxParticipants:   maxParticipants,
		DifficultyLevel:   difficulty,
		Status:            status,
	}
}

// CreateTrip adds a trip to the expedition calendar.
func CreateTrip(c *gin.Context) {
	var input tripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip name, date, and cave name are required: " + err.Error()})
		return
	}

	trip := tripFromInput(&input)
	if err := config.DB.Create(&trip).Error; err != nil {
		logrus.WithError(err).Error("CreateTrip: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating trip: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// ListTrips is the public calendar view: trips grouped by date, soonest first.
func ListTrips(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Order("trip_date ASC, created_at ASC").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trips: " + err.Error()})
		return
	}

	type dayGroup struct {
		Date      string        `json:"date"`
		DateLabel string        `json:"date_label"`
		Trips     []models.Trip `json:"trips"`
	}
	var groups []dayGroup
	for _, trip := range trips {
		parsed, err := time.Parse("2006-01-02", trip.TripDate)
		if err != nil {
			continue
		}
		label := parsed.Format("Monday, January 2, 2006")
		if n := len(groups); n > 0 && groups[n-1].Date == trip.TripDate {
			groups[n-1].Trips = append(groups[n-1].Trips, trip)
		} else {
			groups = append(groups, dayGroup{Date: trip.TripDate, DateLabel: label, Trips: []models.Trip{trip}})
		}
	}

	c.JSON(http.StatusOK, gin.H{"trips_by_date": groups})
}

// ListTripsAdmin returns the flat trip list, newest first.
func ListTripsAdmin(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Order("trip_date DESC, created_at DESC").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trips: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// GetTrip returns one trip by id.
func GetTrip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// UpdateTrip replaces a trip's fields.
func UpdateTrip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var input tripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip name, date, and cave name are required: " + err.Error()})
		return
	}

	updated := tripFromInput(&input)
	updated.Model = trip.Model
	updated.Participants = trip.Participants // assignment has its own endpoint

	if err := config.DB.Save(&updated).Error; err != nil {
		logrus.WithError(err).Error("UpdateTrip: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating trip: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": updated})
}

// DeleteTrip removes a trip.
func DeleteTrip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	config.DB.Delete(&trip)
	c.JSON(http.StatusOK, gin.H{"message": "Trip \"" + trip.TripName + "\" deleted successfully"})
}

// UpdateTripParticipants replaces the trip's participant id list.
func UpdateTripParticipants(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var input struct {
		Participants []uint `json:"participants" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if trip.MaxParticipants > 0 && len(input.Participants) > trip.MaxParticipants {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip is limited to " + strconv.Itoa(trip.MaxParticipants) + " participants"})
		return
	}

	ids, _ := json.Marshal(input.Participants)
	trip.Participants = string(ids)
	if err := config.DB.Save(&trip).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating participants: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip})
}
