package models

import "gorm.io/gorm"

// Trip is a planned cave trip on the expedition calendar.
// Participants holds a JSON array of participant IDs; RequiredSkills and
// RequiredEquipment hold JSON arrays of tags.
type Trip struct {
	gorm.Model
	TripName   string `json:"trip_name" binding:"required"`
	TripDate   string `json:"trip_date" binding:"required"` // YYYY-MM-DD
	CaveName   string `json:"cave_name" binding:"required"`
	Objective  string `json:"objective"`
	LeaderName string `json:"leader_name"`
	EntryTime  string `json:"entry_time"`
	ExitTime   string `json:"exit_time"`

	RouteDescription string `json:"route_description"`
	Hazards          string `json:"hazards"`
	Notes            string `json:"notes"`

	RequiredSkills    string `gorm:"type:text" json:"required_skills"`
	RequiredEquipment string `gorm:"type:text" json:"required_equipment"`
	Participants      string `gorm:"type:text" json:"participants"`

	MaxParticipants int    `json:"max_participants"`
	DifficultyLevel string `json:"difficulty_level"` // "beginner", "intermediate", "advanced"
	Status          string `json:"status"`           // "planned", "active", "completed", "cancelled"
}
