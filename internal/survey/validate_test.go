package survey

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeHeader() *SubmissionInput {
	return &SubmissionInput{
		CaveName:         "Roppel Cave",
		State:            "KY",
		County:           "Hart",
		SurveyDate:       "2025-10-11",
		BookSketchPerson: "Velma Dinkley",
		InstrumentReader: "Fred Jones",
		TapePerson:       "Daphne Blake",
		PointPerson:      "Shaggy Rogers",
		TripLeader:       "Fred Jones",
		CompassID:        "C-12",
		InclinometerID:   "I-7",
		CRFCompassCourse: true,
		DataAccuracy:     true,
	}
}

func TestValidateHeaderComplete(t *testing.T) {
	_, violations := ValidateHeader(completeHeader())
	assert.Empty(t, violations)
}

func TestValidateHeaderCollectsAllViolations(t *testing.T) {
	_, violations := ValidateHeader(&SubmissionInput{})

	expected := []string{
		"Cave name is required",
		"Survey date is required",
		"You must confirm the accuracy of the survey data",
		"Book/Sketch person is required",
		"Instrument reader is required",
		"Tape person is required",
		"Point person is required",
		"Trip/Survey leader is required",
		"Compass ID is required",
		"Inclinometer ID is required",
		"You must confirm that instruments were shot on the CRF Compass Course",
	}
	assert.Equal(t, expected, violations)
}

func TestValidateHeaderCalibrationRanges(t *testing.T) {
	in := completeHeader()
	in.CompassFrontsight = "270.5"
	in.CompassBacksight = "90.5"
	in.InclinometerFrontsight = "1.2"
	in.InclinometerBacksight = "-1.1"

	cal, violations := ValidateHeader(in)
	assert.Empty(t, violations)
	require.NotNil(t, cal.CompassFs)
	assert.InDelta(t, 270.5, *cal.CompassFs, 1e-9)
	require.NotNil(t, cal.CompassBs)
	assert.InDelta(t, 90.5, *cal.CompassBs, 1e-9)

	in = completeHeader()
	in.CompassFrontsight = "90" // frontsight is taken on the far heading
	in.CompassBacksight = "270"
	in.InclinometerFrontsight = "95"
	_, violations = ValidateHeader(in)
	assert.Contains(t, violations, "Compass frontsight must be > 180° (expected range 181-360°)")
	assert.Contains(t, violations, "Compass backsight must be < 180° (expected range 0-179°)")
	assert.Contains(t, violations, "Inclinometer frontsight must be between -90° and 90°")
}

func TestValidateHeaderCalibrationOptional(t *testing.T) {
	cal, violations := ValidateHeader(completeHeader())
	assert.Empty(t, violations)
	assert.Nil(t, cal.CompassFs)
	assert.Nil(t, cal.CompassBs)
	assert.Nil(t, cal.InclinometerFs)
	assert.Nil(t, cal.InclinometerBs)
}

func TestValidateHeaderCalibrationUnparseable(t *testing.T) {
	in := completeHeader()
	in.CompassFrontsight = "north-ish"
	_, violations := ValidateHeader(in)
	assert.Contains(t, violations, "Invalid compass frontsight value")
}

func TestParseShotsSkipsBlankStations(t *testing.T) {
	in := &SubmissionInput{
		FromStations: []string{"A1", "  ", "A3", "A4"},
		ToStations:   []string{"A2", "B2", "", "A5"},
		Distances:    []string{"10", "11", "12", "13"},
	}

	shots, violations := ParseShots(in)
	assert.Empty(t, violations)
	require.Len(t, shots, 2)
	assert.Equal(t, "A1", shots[0].FromStation)
	assert.Equal(t, "A4", shots[1].FromStation)

	// Row keeps the form position even when blank rows are skipped.
	assert.Equal(t, 1, shots[0].Row)
	assert.Equal(t, 4, shots[1].Row)
}

func TestParseShotsBadNumberDropsRow(t *testing.T) {
	in := &SubmissionInput{
		FromStations: []string{"A1", "A2"},
		ToStations:   []string{"A2", "A3"},
		Distances:    []string{"ten", "12.5"},
	}

	shots, violations := ParseShots(in)
	require.Len(t, shots, 1)
	assert.Equal(t, "A2", shots[0].FromStation)
	require.Len(t, violations, 1)
	assert.True(t, strings.HasPrefix(violations[0], "Shot 1: Invalid numeric value"))
}

func TestParseShotsShortArrays(t *testing.T) {
	// Browsers drop trailing empty fields; short arrays read as blanks.
	in := &SubmissionInput{
		FromStations: []string{"A1"},
		ToStations:   []string{"A2"},
	}

	shots, violations := ParseShots(in)
	assert.Empty(t, violations)
	require.Len(t, shots, 1)
	assert.Nil(t, shots[0].Distance)
	assert.Zero(t, shots[0].Left)
}

func TestValidateShotRanges(t *testing.T) {
	tests := []struct {
		name string
		shot ShotRecord
		want string
	}{
		{"negative distance", ShotRecord{FromStation: "A1", ToStation: "A2", Distance: f(-1)}, "Shot 1: Distance cannot be negative"},
		{"azimuth 360", ShotRecord{FromStation: "A1", ToStation: "A2", AzimuthFs: f(360)}, "Shot 1: Frontsight azimuth must be 0-359°"},
		{"negative backsight azimuth", ShotRecord{FromStation: "A1", ToStation: "A2", AzimuthBs: f(-0.5)}, "Shot 1: Backsight azimuth must be 0-359°"},
		{"steep inclination", ShotRecord{FromStation: "A1", ToStation: "A2", InclinationFs: f(91)}, "Shot 1: Frontsight inclination must be -90° to 90°"},
		{"negative lrud", ShotRecord{FromStation: "A1", ToStation: "A2", Left: -1}, "Shot 1: LRUD values cannot be negative"},
		{"long from station", ShotRecord{FromStation: strings.Repeat("A", 21), ToStation: "A2"}, "Shot 1: From station name too long (max 20 characters)"},
		{"long to station", ShotRecord{FromStation: "A1", ToStation: strings.Repeat("B", 21)}, "Shot 1: To station name too long (max 20 characters)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := ValidateShot(tc.shot, 1)
			assert.Contains(t, violations, tc.want)
		})
	}
}

func TestValidateShotBoundaryValues(t *testing.T) {
	shot := ShotRecord{
		FromStation:   "A1",
		ToStation:     "A2",
		Distance:      f(0),
		AzimuthFs:     f(0),
		AzimuthBs:     f(359.9),
		InclinationFs: f(-90),
		InclinationBs: f(90),
	}
	assert.Empty(t, ValidateShot(shot, 1))
}

func TestCapShotViolations(t *testing.T) {
	var violations []string
	for i := 1; i <= 8; i++ {
		violations = append(violations, fmt.Sprintf("Shot %d: Distance cannot be negative", i))
	}

	capped := capShotViolations(violations)
	require.Len(t, capped, 6)
	assert.Equal(t, violations[:5], capped[:5])
	assert.Equal(t, "... and 3 more validation errors", capped[5])

	assert.Len(t, capShotViolations(violations[:5]), 5)
	assert.Empty(t, capShotViolations(nil))
}
