package survey

import (
	"fmt"
	"strconv"
	"strings"
)

const maxStationLen = 20

// maxReportedShotViolations caps how many shot-level problems are surfaced
// per submission; the remainder is summarized with a count.
const maxReportedShotViolations = 5

// SubmissionInput carries one survey form submission: scalar header fields
// plus the aligned per-shot arrays, all still as posted strings.
type SubmissionInput struct {
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

	CompassID              string `json:"compass_id"`
	CompassFrontsight      string `json:"compass_frontsight"`
	CompassBacksight       string `json:"compass_backsight"`
	InclinometerID         string `json:"inclinometer_id"`
	InclinometerFrontsight string `json:"inclinometer_frontsight"`
	InclinometerBacksight  string `json:"inclinometer_backsight"`
	CRFCompassCourse       bool   `json:"crf_compass_course"`
	CalibrationNotes       string `json:"calibration_notes"`
	AdditionalEquipment    string `json:"additional_equipment"`

	InstrumentsCRFCourse bool `json:"instruments_crf_course"`
	DataAccuracy         bool `json:"data_accuracy"`

	RawData string `json:"raw_data"`

	FromStations  []string `json:"from_station"`
	ToStations    []string `json:"to_station"`
	Distances     []string `json:"distance"`
	AzimuthFs     []string `json:"azimuth_fs"`
	AzimuthBs     []string `json:"azimuth_bs"`
	InclinationFs []string `json:"inclination_fs"`
	InclinationBs []string `json:"inclination_bs"`
	Left          []string `json:"left"`
	Right         []string `json:"right"`
	Up            []string `json:"up"`
	Down          []string `json:"down"`
	Notes         []string `json:"notes"`
}

// ShotRecord is one parsed shot, the unit the validator and reducer work on.
// It also defines the serialized shape stored on the flat survey header.
type ShotRecord struct {
	// Row is the 1-based form row the shot came from. Blank rows are
	// skipped, so it can run ahead of the shot's position in the list;
	// violation messages number shots by it.
	Row int `json:"-"`

	FromStation   string   `json:"from_station"`
	ToStation     string   `json:"to_station"`
	Distance      *float64 `json:"distance"`
	AzimuthFs     *float64 `json:"azimuth_fs"`
	AzimuthBs     *float64 `json:"azimuth_bs"`
	InclinationFs *float64 `json:"inclination_fs"`
	InclinationBs *float64 `json:"inclination_bs"`
	Left          float64  `json:"left"`
	Right         float64  `json:"right"`
	Up            float64  `json:"up"`
	Down          float64  `json:"down"`
	Note          string   `json:"note"`
}

// calibration holds the header's parsed instrument readings.
type calibration struct {
	CompassFs      *float64
	CompassBs      *float64
	InclinometerFs *float64
	InclinometerBs *float64
}

// ValidateHeader checks the header-level business rules and parses the
// calibration readings. All violations are collected in one pass.
func ValidateHeader(in *SubmissionInput) (calibration, []string) {
	var violations []string
	var cal calibration

	if strings.TrimSpace(in.CaveName) == "" {
		violations = append(violations, "Cave name is required")
	}
	if strings.TrimSpace(in.SurveyDate) == "" {
		violations = append(violations, "Survey date is required")
	}
	if !in.DataAccuracy {
		violations = append(violations, "You must confirm the accuracy of the survey data")
	}
	if strings.TrimSpace(in.BookSketchPerson) == "" {
		violations = append(violations, "Book/Sketch person is required")
	}
	if strings.TrimSpace(in.InstrumentReader) == "" {
		violations = append(violations, "Instrument reader is required")
	}
	if strings.TrimSpace(in.TapePerson) == "" {
		violations = append(violations, "Tape person is required")
	}
	if strings.TrimSpace(in.PointPerson) == "" {
		violations = append(violations, "Point person is required")
	}
	if strings.TrimSpace(in.TripLeader) == "" {
		violations = append(violations, "Trip/Survey leader is required")
	}
	if strings.TrimSpace(in.CompassID) == "" {
		violations = append(violations, "Compass ID is required")
	}
	if strings.TrimSpace(in.InclinometerID) == "" {
		violations = append(violations, "Inclinometer ID is required")
	}
	if !in.CRFCompassCourse {
		violations = append(violations, "You must confirm that instruments were shot on the CRF Compass Course")
	}

	// Calibration readings are optional but range-checked when present.
	// Frontsight and backsight are taken on opposite headings of the fixed
	// course, hence the split ranges for the compass.
	if v, err := parseOptionalFloat(in.CompassFrontsight); err != nil {
		violations = append(violations, "Invalid compass frontsight value")
	} else if v != nil {
		if *v <= 180 || *v > 360 {
			violations = append(violations, "Compass frontsight must be > 180° (expected range 181-360°)")
		}
		cal.CompassFs = v
	}
	if v, err := parseOptionalFloat(in.CompassBacksight); err != nil {
		violations = append(violations, "Invalid compass backsight value")
	} else if v != nil {
		if *v < 0 || *v >= 180 {
			violations = append(violations, "Compass backsight must be < 180° (expected range 0-179°)")
		}
		cal.CompassBs = v
	}
	if v, err := parseOptionalFloat(in.InclinometerFrontsight); err != nil {
		violations = append(violations, "Invalid inclinometer frontsight value")
	} else if v != nil {
		if *v < -90 || *v > 90 {
			violations = append(violations, "Inclinometer frontsight must be between -90° and 90°")
		}
		cal.InclinometerFs = v
	}
	if v, err := parseOptionalFloat(in.InclinometerBacksight); err != nil {
		violations = append(violations, "Invalid inclinometer backsight value")
	} else if v != nil {
		if *v < -90 || *v > 90 {
			violations = append(violations, "Inclinometer backsight must be between -90° and 90°")
		}
		cal.InclinometerBs = v
	}

	return cal, violations
}

// ParseShots builds one ShotRecord per aligned row of the submission arrays.
// A row is materialized only when both station names are non-blank after
// trimming; a numeric parse failure drops the row and records a violation.
func ParseShots(in *SubmissionInput) ([]ShotRecord, []string) {
	var shots []ShotRecord
	var violations []string

	for i := range in.FromStations {
		from := strings.TrimSpace(in.FromStations[i])
		to := strings.TrimSpace(at(in.ToStations, i))
		if from == "" || to == "" {
			continue
		}

		seq := i + 1
		shot := ShotRecord{Row: seq, FromStation: from, ToStation: to, Note: strings.TrimSpace(at(in.Notes, i))}

		var parseErr error
		assign := func(dst **float64, raw string) {
			v, err := parseOptionalFloat(raw)
			if err != nil && parseErr == nil {
				parseErr = err
			}
			*dst = v
		}
		assign(&shot.Distance, at(in.Distances, i))
		assign(&shot.AzimuthFs, at(in.AzimuthFs, i))
		assign(&shot.AzimuthBs, at(in.AzimuthBs, i))
		assign(&shot.InclinationFs, at(in.InclinationFs, i))
		assign(&shot.InclinationBs, at(in.InclinationBs, i))

		assignLRUD := func(dst *float64, raw string) {
			v, err := parseOptionalFloat(raw)
			if err != nil && parseErr == nil {
				parseErr = err
			}
			if v != nil {
				*dst = *v
			}
		}
		assignLRUD(&shot.Left, at(in.Left, i))
		assignLRUD(&shot.Right, at(in.Right, i))
		assignLRUD(&shot.Up, at(in.Up, i))
		assignLRUD(&shot.Down, at(in.Down, i))

		if parseErr != nil {
			violations = append(violations, fmt.Sprintf("Shot %d: Invalid numeric value - %v", seq, parseErr))
			continue
		}
		shots = append(shots, shot)
	}

	return shots, violations
}

// ValidateShot checks one parsed shot against the instrument and geometric
// field ranges. seq is the 1-based position used in messages.
func ValidateShot(s ShotRecord, seq int) []string {
	var violations []string

	if s.Distance != nil && *s.Distance < 0 {
		violations = append(violations, fmt.Sprintf("Shot %d: Distance cannot be negative", seq))
	}
	if s.AzimuthFs != nil && (*s.AzimuthFs < 0 || *s.AzimuthFs >= 360) {
		violations = append(violations, fmt.Sprintf("Shot %d: Frontsight azimuth must be 0-359°", seq))
	}
	if s.AzimuthBs != nil && (*s.AzimuthBs < 0 || *s.AzimuthBs >= 360) {
		violations = append(violations, fmt.Sprintf("Shot %d: Backsight azimuth must be 0-359°", seq))
	}
	if s.InclinationFs != nil && (*s.InclinationFs < -90 || *s.InclinationFs > 90) {
		violations = append(violations, fmt.Sprintf("Shot %d: Frontsight inclination must be -90° to 90°", seq))
	}
	if s.InclinationBs != nil && (*s.InclinationBs < -90 || *s.InclinationBs > 90) {
		violations = append(violations, fmt.Sprintf("Shot %d: Backsight inclination must be -90° to 90°", seq))
	}
	if s.Left < 0 || s.Right < 0 || s.Up < 0 || s.Down < 0 {
		violations = append(violations, fmt.Sprintf("Shot %d: LRUD values cannot be negative", seq))
	}
	if len(s.FromStation) > maxStationLen {
		violations = append(violations, fmt.Sprintf("Shot %d: From station name too long (max %d characters)", seq, maxStationLen))
	}
	if len(s.ToStation) > maxStationLen {
		violations = append(violations, fmt.Sprintf("Shot %d: To station name too long (max %d characters)", seq, maxStationLen))
	}

	return violations
}

// capShotViolations keeps the first maxReportedShotViolations entries and
// appends a count suffix for the rest.
func capShotViolations(violations []string) []string {
	if len(violations) <= maxReportedShotViolations {
		return violations
	}
	capped := make([]string, maxReportedShotViolations, maxReportedShotViolations+1)
	copy(capped, violations[:maxReportedShotViolations])
	capped = append(capped, fmt.Sprintf("... and %d more validation errors", len(violations)-maxReportedShotViolations))
	return capped
}

// parseOptionalFloat returns nil for blank input rather than an error.
func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// at indexes a form array defensively; short arrays read as blank fields.
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
