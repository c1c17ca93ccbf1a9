package models

import "gorm.io/gorm"

// Cave is the deduplicated cave registry. A cave is identified by its name
// plus a "{county}, {state}" location string; the composite unique index
// backs the insert-or-fetch upsert in the ingestion pipeline.
type Cave struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex:idx_cave_name_location" json:"name" binding:"required"`
	LocationText string `gorm:"uniqueIndex:idx_cave_name_location" json:"location_text"`

	Surveys []Survey `gorm:"foreignKey:CaveID" json:"surveys,omitempty"`
}
