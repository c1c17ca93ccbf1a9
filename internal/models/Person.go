package models

import "gorm.io/gorm"

// Person is a deduplicated surveyor, keyed by exact full name.
type Person struct {
	gorm.Model
	FullName string `gorm:"uniqueIndex" json:"full_name" binding:"required"`

	TeamAssignments []SurveyTeam `gorm:"foreignKey:PersonID" json:"team_assignments,omitempty"`
}
