package models

import "gorm.io/gorm"

// Survey is the normalized measurement session, linked to a Cave.
// Centerline holds the reduced shot sequence as a WKB LINESTRING; the
// export layer converts it to GeoJSON on the way out.
type Survey struct {
	gorm.Model
	CaveID     uint   `json:"cave_id"`
	Date       string `json:"date"`
	AreaInCave string `json:"area_in_cave"`
	Objective  string `json:"objective"`
	TimeIn     string `json:"time_in"`
	TimeOut    string `json:"time_out"`
	Conditions string `json:"conditions"`

	SurveyDesignationRaw string `json:"survey_designation_raw"`
	UnitsLength          string `json:"units_length"`
	UnitsCompass         string `json:"units_compass"`
	UnitsClino           string `json:"units_clino"`

	Centerline []byte `gorm:"type:bytea" json:"-"`

	// Associations
	Shots []Shot       `gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shots,omitempty"`
	Team  []SurveyTeam `gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"team,omitempty"`
}
