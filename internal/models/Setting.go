package models

import "gorm.io/gorm"

// Setting is one runtime-tunable configuration value.
type Setting struct {
	gorm.Model
	Key         string `gorm:"uniqueIndex" json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
