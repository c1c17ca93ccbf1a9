package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/models"
)

type registrationInput struct {
	FullName              string   `json:"full_name"`
	Email                 string   `json:"email" binding:"required,email"`
	PhoneNumber           string   `json:"phone_number"`
	Address               string   `json:"address"`
	EmergencyContact      string   `json:"emergency_contact"`
	TraveledWith          string   `json:"traveled_with"`
	Accommodation         string   `json:"accommodation"`
	OtherAccommodation    string   `json:"other_accommodation"`
	ParticipationDays     []string `json:"participation_days"`
	EatingAtExpedition    bool     `json:"eating_at_expedition"`
	RoppelTrips           string   `json:"roppel_trips"`
	CRFCompassAgreement   bool     `json:"crf_compass_agreement"`
	Skills                []string `json:"skills"`
	HaveInstruments       bool     `json:"have_instruments"`
	InstrumentsDetails    string   `json:"instruments_details"`
	GroupGear             []string `json:"group_gear"`
	GroupGearOtherDetails string   `json:"group_gear_other_details"`
	AdditionalInfo        string   `json:"additional_info"`
}

// validateRegistration mirrors the registration form rules; it returns all
// missing-field and conditional-detail problems at once.
func validateRegistration(in *registrationInput) []string {
	var problems []string

	required := []struct{ value, label string }{
		{in.FullName, "Full Name"},
		{in.Email, "Email Address"},
		{in.PhoneNumber, "Phone Number"},
		{in.Address, "Physical Address"},
		{in.EmergencyContact, "Emergency Contact"},
		{in.Accommodation, "Accommodation"},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, "Please fill in all required fields: "+strings.Join(missing, ", "))
	}

	if len(in.ParticipationDays) == 0 {
		problems = append(problems, "Please select at least one participation day")
	}
	if len(in.Skills) == 0 {
		problems = append(problems, "Please select at least one skill or experience level")
	}
	if in.RoppelTrips == "yes" && !in.CRFCompassAgreement {
		problems = append(problems, "You must agree to use the CRF compass course method for Roppel Cave System trips")
	}
	if in.Accommodation == "other" && strings.TrimSpace(in.OtherAccommodation) == "" {
		problems = append(problems, "Please specify your accommodation details")
	}
	if in.HaveInstruments && strings.TrimSpace(in.InstrumentsDetails) == "" {
		problems = append(problems, "Please provide details about your survey instruments")
	}
	for _, gear := range in.GroupGear {
		if gear == "other" && strings.TrimSpace(in.GroupGearOtherDetails) == "" {
			problems = append(problems, "Please specify what other gear you can share/loan")
		}
	}

	return problems
}

// RegisterParticipant handles a public registration submission.
func RegisterParticipant(c *gin.Context) {
	var input registrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration input: " + err.Error()})
		return
	}

	if config.GetSetting(config.DB, "registration_open", "true") != "true" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is closed"})
		return
	}

	if problems := validateRegistration(&input); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": problems})
		return
	}

	days, _ := json.Marshal(input.ParticipationDays)
	skills, _ := json.Marshal(input.Skills)
	gear, _ := json.Marshal(input.GroupGear)

	participant := models.Participant{
		FullName:              strings.TrimSpace(input.FullName),
		Email:                 strings.TrimSpace(input.Email),
		PhoneNumber:           strings.TrimSpace(input.PhoneNumber),
		Address:               strings.TrimSpace(input.Address),
		EmergencyContact:      strings.TrimSpace(input.EmergencyContact),
		TraveledWith:          strings.TrimSpace(input.TraveledWith),
		Accommodation:         input.Accommodation,
		OtherAccommodation:    strings.TrimSpace(input.OtherAccommodation),
		ParticipationDays:     string(days),
		EatingAtExpedition:    input.EatingAtExpedition,
		RoppelTrips:           input.RoppelTrips,
		CRFCompassAgreement:   input.CRFCompassAgreement,
		Skills:                string(skills),
		HaveInstruments:       input.HaveInstruments,
		InstrumentsDetails:    strings.TrimSpace(input.InstrumentsDetails),
		GroupGear:             string(gear),
		GroupGearOtherDetails: strings.TrimSpace(input.GroupGearOtherDetails),
		AdditionalInfo:        strings.TrimSpace(input.AdditionalInfo),
		WaiverAcknowledged:    true, // submitting the form acknowledges the waiver
	}

	if err := config.DB.Create(&participant).Error; err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email " + participant.Email + " is already registered. Each participant must use a unique email address."})
			return
		}
		logrus.WithError(err).Error("RegisterParticipant: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"participant": toParticipantResponse(participant)})
}

// participantResponse mirrors models.Participant but with the JSON-array
// fields decoded for API output.
type participantResponse struct {
	models.Participant
	ParticipationDays []string `json:"participation_days"`
	Skills            []string `json:"skills"`
	GroupGear         []string `json:"group_gear"`
}

func toParticipantResponse(p models.Participant) participantResponse {
	return participantResponse{
		Participant:       p,
		ParticipationDays: decodeStringList(p.ParticipationDays),
		Skills:            decodeStringList(p.Skills),
		GroupGear:         decodeStringList(p.GroupGear),
	}
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

// ListParticipants returns all registrations, newest first.
func ListParticipants(c *gin.Context) {
	var participants []models.Participant
	if err := config.DB.Order("created_at DESC").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing participants: " + err.Error()})
		return
	}

	responses := make([]participantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, toParticipantResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// GetParticipant returns one registration by id.
func GetParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": toParticipantResponse(participant)})
}

// UpdateParticipant lets an admin correct the contact fields of a record.
func UpdateParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		FullName         *string `json:"full_name"`
		Email            *string `json:"email"`
		PhoneNumber      *string `json:"phone_number"`
		Address          *string `json:"address"`
		EmergencyContact *string `json:"emergency_contact"`
		Accommodation    *string `json:"accommodation"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.FullName != nil {
		participant.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		participant.Email = strings.TrimSpace(*input.Email)
	}
	if input.PhoneNumber != nil {
		participant.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Address != nil {
		participant.Address = strings.TrimSpace(*input.Address)
	}
	if input.EmergencyContact != nil {
		participant.EmergencyContact = strings.TrimSpace(*input.EmergencyContact)
	}
	if input.Accommodation != nil {
		participant.Accommodation = *input.Accommodation
	}

	if err := config.DB.Save(&participant).Error; err != nil {
		logrus.WithError(err).Error("UpdateParticipant: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": toParticipantResponse(participant)})
}

// DeleteParticipant removes a registration.
func DeleteParticipant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	var participant models.Participant
	if err := config.DB.First(&participant, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	config.DB.Delete(&participant)
	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted successfully"})
}
