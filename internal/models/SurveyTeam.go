package models

import "gorm.io/gorm"

// SurveyTeam links a Person to a Survey with the role they worked.
type SurveyTeam struct {
	gorm.Model
	SurveyID    uint   `gorm:"index" json:"survey_id"`
	PersonID    uint   `gorm:"index" json:"person_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"` // "sketch_book", "foresight", "backsight", "other"
}
