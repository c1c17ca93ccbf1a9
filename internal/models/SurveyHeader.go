package models

import "gorm.io/gorm"

// SurveyHeader is the flat, book-page representation of one survey session:
// all header fields plus the ordered shot list serialized as JSON. The
// normalized representation (Cave/Survey/Shot/SurveyTeam) is written in the
// same transaction; both are kept in parallel on purpose.
type SurveyHeader struct {
	gorm.Model
	// SurveyID links to the normalized Survey row written in the same
	// transaction, so edits can be propagated to both schemas.
	SurveyID uint `gorm:"index" json:"survey_id"`

	CaveName   string `json:"cave_name"`
	State      string `json:"state"`
	County     string `json:"county"`
	Region     string `json:"region"`
	SurveyDate string `json:"survey_date"`
	FSBNumber  string `json:"fsb_number"`
	AreaInCave string `json:"area_in_cave"`
	TimeIn     string `json:"time_in"`
	TimeOut    string `json:"time_out"`

	SurveyObjective string `json:"survey_objective"`
	Conditions      string `json:"conditions"`
	OtherInfo       string `json:"other_info"`

	BookSketchPerson string `json:"book_sketch_person"`
	InstrumentReader string `json:"instrument_reader"`
	TapePerson       string `json:"tape_person"`
	PointPerson      string `json:"point_person"`
	TripLeader       string `json:"trip_leader"`
	OtherTeamMembers string `json:"other_team_members"`

	CompassID              string   `json:"compass_id"`
	CompassFrontsight      *float64 `json:"compass_frontsight"`
	CompassBacksight       *float64 `json:"compass_backsight"`
	InclinometerID         string   `json:"inclinometer_id"`
	InclinometerFrontsight *float64 `json:"inclinometer_frontsight"`
	InclinometerBacksight  *float64 `json:"inclinometer_backsight"`
	CRFCompassCourse       bool     `json:"crf_compass_course"`
	CalibrationNotes       string   `json:"calibration_notes"`
	AdditionalEquipment    string   `json:"additional_equipment"`

	InstrumentsCRFCourse bool `json:"instruments_crf_course"`
	DataAccuracy         bool `json:"data_accuracy"`

	SurveyShotsJSON string `gorm:"type:text" json:"survey_shots_json"`
	RawData         string `gorm:"type:text" json:"raw_data"`
}
