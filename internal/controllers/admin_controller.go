package controllers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/middleware"
	"expedition_tracker/internal/models"
)

var passcodeHash []byte

// adminPasscodeHash hashes the configured passcode once so login compares
// against a bcrypt digest rather than the raw env value.
func adminPasscodeHash() []byte {
	if passcodeHash == nil {
		passcode := os.Getenv("ADMIN_PASSCODE")
		if passcode == "" {
			passcode = "expedition2025"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			logrus.WithError(err).Fatal("could not hash admin passcode")
		}
		passcodeHash = hash
	}
	return passcodeHash
}

// AdminLogin exchanges the shared admin passcode for a session token.
func AdminLogin(c *gin.Context) {
	var body struct {
		Passcode string `json:"passcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword(adminPasscodeHash(), []byte(body.Passcode)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passcode. Please try again."})
		return
	}

	token, err := middleware.GenerateToken("admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Stats is the public expedition statistics endpoint.
func Stats(c *gin.Context) {
	var total int64
	if err := config.DB.Model(&models.Participant{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	accommodations := map[string]int64{}
	rows := []struct {
		Accommodation string
		Count         int64
	}{}
	err := config.DB.Model(&models.Participant{}).
		Select("accommodation, COUNT(*) as count").
		Group("accommodation").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, r := range rows {
		accommodations[r.Accommodation] = r.Count
	}

	// Multi-select fields are JSON arrays, so the day/skill breakdowns are
	// tallied in code rather than SQL.
	participationByDay := map[string]int64{}
	skillsCount := map[string]int64{}
	var participants []models.Participant
	if err := config.DB.Select("participation_days", "skills").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, p := range participants {
		for _, day := range decodeStringList(p.ParticipationDays) {
			participationByDay[day]++
		}
		for _, skill := range decodeStringList(p.Skills) {
			skillsCount[skill]++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_participants":   total,
		"accommodations":       accommodations,
		"skills_count":         skillsCount,
		"participation_by_day": participationByDay,
	})
}

// CaveSurveyStats reports totals from the normalized survey schema.
func CaveSurveyStats(c *gin.Context) {
	var totalCaves, totalSurveys, totalShots int64
	if err := config.DB.Model(&models.Cave{}).Count(&totalCaves).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.Survey{}).Count(&totalSurveys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.Shot{}).Count(&totalShots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var totalDistance float64
	err := config.DB.Model(&models.Shot{}).
		Select("COALESCE(SUM(distance), 0)").
		Where("distance IS NOT NULL").
		Scan(&totalDistance).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type caveStat struct {
		models.Cave
		SurveyCount int64 `json:"survey_count"`
	}
	var caves []models.Cave
	if err := config.DB.Order("name").Find(&caves).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	caveStats := make([]caveStat, 0, len(caves))
	for _, cave := range caves {
		var count int64
		if err := config.DB.Model(&models.Survey{}).Where("cave_id = ?", cave.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		caveStats = append(caveStats, caveStat{Cave: cave, SurveyCount: count})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_caves":    totalCaves,
		"total_surveys":  totalSurveys,
		"total_shots":    totalShots,
		"total_distance": totalDistance,
		"caves":          caveStats,
	})
}

// ListSettings returns all settings grouped by category.
func ListSettings(c *gin.Context) {
	var settings []models.Setting
	if err := config.DB.Order("category, key").Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading settings: " + err.Error()})
		return
	}

	byCategory := map[string][]models.Setting{}
	for _, s := range settings {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	c.JSON(http.StatusOK, gin.H{"settings_by_category": byCategory})
}

// UpdateSettings applies a batch of key/value changes to existing settings.
func UpdateSettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := 0
	for key, value := range body {
		res := config.DB.Model(&models.Setting{}).Where("key = ?", key).Update("value", value)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating settings: " + res.Error.Error()})
			return
		}
		updated += int(res.RowsAffected)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully!", "updated": updated})
}

// ResetSettings restores every setting to its default value.
func ResetSettings(c *gin.Context) {
	for _, def := range config.DefaultSettings {
		err := config.DB.Model(&models.Setting{}).Where("key = ?", def.Key).Update("value", def.Value).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resetting settings: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings have been reset to default values."})
}

// HealthCheck pings the database for monitoring and load balancers.
func HealthCheck(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		logrus.WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
