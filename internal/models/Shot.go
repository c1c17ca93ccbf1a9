package models

import "gorm.io/gorm"

// Shot is one normalized measured segment between two stations.
// Nullable instrument readings use pointers; absent LRUD offsets default to
// zero. Variance columns and the QA flag are derived at ingestion time.
type Shot struct {
	gorm.Model
	SurveyID       uint   `gorm:"index" json:"survey_id"`
	SequenceInPage int    `json:"sequence_in_page"`
	StationFrom    string `gorm:"size:20" json:"station_from"`
	StationTo      string `gorm:"size:20" json:"station_to"`

	Distance     *float64 `json:"distance"`
	FsAzimuthDeg *float64 `json:"fs_azimuth_deg"`
	BsAzimuthDeg *float64 `json:"bs_azimuth_deg"`
	FsInclineDeg *float64 `json:"fs_incline_deg"`
	BsInclineDeg *float64 `json:"bs_incline_deg"`

	LrudLeft  float64 `json:"lrud_left"`
	LrudRight float64 `json:"lrud_right"`
	LrudUp    float64 `json:"lrud_up"`
	LrudDown  float64 `json:"lrud_down"`

	Note string `json:"note"`

	AzimuthVarianceDeg *float64 `json:"azimuth_variance_deg"`
	InclineVarianceDeg *float64 `json:"incline_variance_deg"`
	RunningRawDistance float64  `json:"running_raw_distance"`
	QAFlag             string   `json:"qa_flag"`
}
