package models

import "gorm.io/gorm"

// Participant is one registered expedition member.
// Multi-select form fields (participation days, skills, group gear) are
// stored as JSON-encoded arrays, the same shape the registration form posts.
type Participant struct {
	gorm.Model
	FullName         string `json:"full_name" binding:"required"`
	Email            string `gorm:"uniqueIndex" json:"email" binding:"required,email"`
	PhoneNumber      string `json:"phone_number" binding:"required"`
	Address          string `json:"address" binding:"required"`
	EmergencyContact string `json:"emergency_contact" binding:"required"`
	TraveledWith     string `json:"traveled_with"`
	Accommodation    string `json:"accommodation" binding:"required"`
	OtherAccommodation string `json:"other_accommodation"`

	ParticipationDays string `gorm:"type:text" json:"participation_days"`
	EatingAtExpedition bool  `json:"eating_at_expedition"`
	RoppelTrips        string `json:"roppel_trips"`
	CRFCompassAgreement bool `json:"crf_compass_agreement"`
	Skills             string `gorm:"type:text" json:"skills"`
	HaveInstruments    bool   `json:"have_instruments"`
	InstrumentsDetails string `json:"instruments_details"`
	GroupGear          string `gorm:"type:text" json:"group_gear"`
	GroupGearOtherDetails string `json:"group_gear_other_details"`
	AdditionalInfo     string `json:"additional_info"`

	WaiverAcknowledged bool `json:"waiver_acknowledged"`
}
