package config

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"expedition_tracker/internal/models"
)

// DefaultSettings are the rows seeded at startup and restored by the
// settings reset endpoint.
var DefaultSettings = []models.Setting{
	{Key: "expedition_name", Value: "October 2025 Expedition", Description: "Displayed expedition title", Category: "general"},
	{Key: "expedition_dates", Value: "October 10-18, 2025", Description: "Expedition date range", Category: "general"},
	{Key: "expedition_location", Value: "Barren, Hart, Edmonson Counties, KY", Description: "Expedition base location", Category: "general"},
	{Key: "registration_open", Value: "true", Description: "Whether new registrations are accepted", Category: "registration"},
	{Key: "max_participants", Value: "50", Description: "Registration cap", Category: "registration"},
	{Key: "emergency_contact_required", Value: "true", Description: "Require an emergency contact on registration", Category: "registration"},
	{Key: "survey_unit_system", Value: "feet", Description: "Length unit recorded on surveys", Category: "survey"},
	{Key: "survey_variance_limit", Value: "0", Description: "Frontsight/backsight variance limit in degrees; 0 disables enforcement", Category: "survey"},
	{Key: "default_trip_duration", Value: "6", Description: "Default trip length in hours", Category: "trips"},
	{Key: "require_leader_approval", Value: "true", Description: "Trips need leader sign-off", Category: "trips"},
}

// SeedDefaultSettings inserts any missing default settings. Existing values
// are left alone so operator edits survive restarts.
func SeedDefaultSettings(db *gorm.DB) error {
	for _, s := range DefaultSettings {
		row := s
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// GetSetting returns the value for key, or fallback if the row is missing.
func GetSetting(db *gorm.DB, key, fallback string) string {
	var s models.Setting
	if err := db.Where("key = ?", key).First(&s).Error; err != nil {
		return fallback
	}
	return s.Value
}

// GetSettingFloat parses the setting as a float, or returns fallback.
func GetSettingFloat(db *gorm.DB, key string, fallback float64) float64 {
	raw := GetSetting(db, key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
