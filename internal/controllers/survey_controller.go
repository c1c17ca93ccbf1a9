package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/survey"
)

// surveyPipeline builds an ingestion pipeline bound to the application
// database. A fresh value per request keeps concurrent handlers from sharing
// mutable state, and reads the variance threshold from settings each time so
// operator changes apply without a restart.
func surveyPipeline() *survey.Pipeline {
	p := survey.NewPipeline(config.DB)
	p.VarianceLimit = config.GetSettingFloat(config.DB, "survey_variance_limit", 0)
	return p
}

// SubmitSurvey processes a cave survey data submission.
func SubmitSurvey(c *gin.Context) {
	var input survey.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format: " + err.Error()})
		return
	}

	result, err := surveyPipeline().Submit(&input)
	if err != nil {
		var verr *survey.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Violations})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Survey submission failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Survey data for " + input.CaveName + " submitted successfully! Recorded " +
			strconv.Itoa(result.ShotCount) + " survey shots.",
		"result": result,
	})
}

// surveyHeaderResponse adds the decoded shot list to the flat header row.
type surveyHeaderResponse struct {
	Header    interface{}         `json:"header"`
	Shots     []survey.ShotRecord `json:"shots"`
	ShotCount int                 `json:"shot_count"`
}

// ListSurveys returns all survey headers, newest first.
func ListSurveys(c *gin.Context) {
	headers, err := surveyPipeline().Headers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error accessing cave survey data: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": headers})
}

// GetSurvey returns one survey header with its parsed shot list.
func GetSurvey(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	header, err := surveyPipeline().Header(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var shots []survey.ShotRecord
	if header.SurveyShotsJSON != "" {
		if err := json.Unmarshal([]byte(header.SurveyShotsJSON), &shots); err != nil {
			logrus.WithError(err).WithField("header_id", header.ID).Warn("GetSurvey: stored shot list is not valid JSON")
		}
	}

	c.JSON(http.StatusOK, surveyHeaderResponse{Header: header, Shots: shots, ShotCount: len(shots)})
}

// UpdateSurvey replaces a survey's header fields and whole shot sequence.
func UpdateSurvey(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	var input survey.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format: " + err.Error()})
		return
	}

	result, err := surveyPipeline().Update(uint(id), &input)
	if err != nil {
		var verr *survey.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Violations})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating survey: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Survey updated successfully!", "result": result})
}

// DeleteSurvey removes a survey from both schemas.
func DeleteSurvey(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	if err := surveyPipeline().Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Survey deleted successfully"})
}
