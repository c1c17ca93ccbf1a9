package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"expedition_tracker/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Cave{},
		&models.Person{},
		&models.Survey{},
		&models.Shot{},
		&models.SurveyTeam{},
		&models.SurveyHeader{},
	))
	return db
}

func validSubmission() *SubmissionInput {
	in := completeHeader()
	in.FromStations = []string{"A1"}
	in.ToStations = []string{"A2"}
	in.Distances = []string{"25.5"}
	in.AzimuthFs = []string{"45"}
	in.AzimuthBs = []string{"225"}
	in.InclinationFs = []string{"5"}
	in.InclinationBs = []string{"-5"}
	in.Left = []string{"4"}
	in.Right = []string{"3"}
	in.Up = []string{"8"}
	in.Down = []string{"6"}
	in.Notes = []string{"entrance crawl"}
	return in
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSubmitWritesBothSchemas(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	res, err := p.Submit(validSubmission())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.ShotCount)

	assert.EqualValues(t, 1, count(t, db, &models.SurveyHeader{}))
	assert.EqualValues(t, 1, count(t, db, &models.Survey{}))
	assert.EqualValues(t, 1, count(t, db, &models.Cave{}))
	assert.EqualValues(t, 1, count(t, db, &models.Shot{}))

	var cave models.Cave
	require.NoError(t, db.First(&cave, res.CaveID).Error)
	assert.Equal(t, "Roppel Cave", cave.Name)
	assert.Equal(t, "Hart, KY", cave.LocationText)

	var shot models.Shot
	require.NoError(t, db.Where("survey_id = ?", res.SurveyID).First(&shot).Error)
	assert.Equal(t, 1, shot.SequenceInPage)
	assert.Equal(t, "A1", shot.StationFrom)
	assert.Equal(t, "A2", shot.StationTo)
	require.NotNil(t, shot.AzimuthVarianceDeg)
	assert.InDelta(t, 0, *shot.AzimuthVarianceDeg, 1e-9)
	require.NotNil(t, shot.InclineVarianceDeg)
	assert.InDelta(t, 0, *shot.InclineVarianceDeg, 1e-9)
	assert.InDelta(t, 25.5, shot.RunningRawDistance, 1e-9)
	assert.Empty(t, shot.QAFlag)

	var header models.SurveyHeader
	require.NoError(t, db.First(&header, res.HeaderID).Error)
	assert.Equal(t, res.SurveyID, header.SurveyID)
	assert.Contains(t, header.SurveyShotsJSON, `"from_station":"A1"`)

	var srv models.Survey
	require.NoError(t, db.First(&srv, res.SurveyID).Error)
	assert.NotEmpty(t, srv.Centerline)
	assert.Equal(t, "feet", srv.UnitsLength)
}

func TestSubmitDedupesTeamMembers(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	in := validSubmission()
	in.BookSketchPerson = "Velma Dinkley"
	in.InstrumentReader = "Velma Dinkley" // doubles up on roles
	in.TapePerson = "Daphne Blake"
	in.PointPerson = "Shaggy Rogers"

	res, err := p.Submit(in)
	require.NoError(t, err)

	assert.EqualValues(t, 3, count(t, db, &models.Person{}))

	var team []models.SurveyTeam
	require.NoError(t, db.Where("survey_id = ?", res.SurveyID).Order("id").Find(&team).Error)
	require.Len(t, team, 4)
	assert.Equal(t, "sketch_book", team[0].Role)
	assert.Equal(t, "foresight", team[1].Role)
	assert.Equal(t, "backsight", team[2].Role)
	assert.Equal(t, "other", team[3].Role)
	// Same person carries both instrument roles.
	assert.Equal(t, team[0].PersonID, team[1].PersonID)
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	in := validSubmission()
	in.CompassID = ""

	res, err := p.Submit(in)
	assert.Nil(t, res)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "Compass ID is required")

	assert.EqualValues(t, 0, count(t, db, &models.SurveyHeader{}))
	assert.EqualValues(t, 0, count(t, db, &models.Survey{}))
	assert.EqualValues(t, 0, count(t, db, &models.Cave{}))
	assert.EqualValues(t, 0, count(t, db, &models.Shot{}))
	assert.EqualValues(t, 0, count(t, db, &models.Person{}))
}

func TestSubmitRequiresAtLeastOneShot(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	in := validSubmission()
	in.ToStations = []string{"   "} // row never materializes

	res, err := p.Submit(in)
	assert.Nil(t, res)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "At least one survey shot is required")
}

func TestSubmitReusesCave(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	first, err := p.Submit(validSubmission())
	require.NoError(t, err)
	second, err := p.Submit(validSubmission())
	require.NoError(t, err)

	assert.Equal(t, first.CaveID, second.CaveID)
	assert.EqualValues(t, 1, count(t, db, &models.Cave{}))
	assert.EqualValues(t, 2, count(t, db, &models.Survey{}))
}

func TestSubmitVarianceEnforcement(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)
	p.VarianceLimit = 2

	in := validSubmission()
	in.AzimuthBs = []string{"220"} // 5° off the reciprocal

	res, err := p.Submit(in)
	assert.Nil(t, res)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "Shot 1: Large azimuth variance (5.0°) - check readings")
}

func TestSubmitVarianceQAFlag(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db) // enforcement off

	in := validSubmission()
	in.AzimuthBs = []string{"215"} // 10° off, above the notice threshold

	res, err := p.Submit(in)
	require.NoError(t, err)

	var shot models.Shot
	require.NoError(t, db.Where("survey_id = ?", res.SurveyID).First(&shot).Error)
	assert.Equal(t, "check_variance", shot.QAFlag)
}

func TestSubmitCapsShotViolations(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	in := validSubmission()
	in.FromStations = nil
	in.ToStations = nil
	in.Distances = nil
	for i := 0; i < 8; i++ {
		in.FromStations = append(in.FromStations, "A1")
		in.ToStations = append(in.ToStations, "A2")
		in.Distances = append(in.Distances, "-1")
	}

	_, err := p.Submit(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 6)
	assert.Equal(t, "... and 3 more validation errors", verr.Violations[5])
}

func TestShotViolationsNumberedByFormRow(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	in := validSubmission()
	in.FromStations = []string{"A1", "", "A3"}
	in.ToStations = []string{"A2", "", "A4"}
	in.Distances = []string{"10", "", "-1"}
	in.AzimuthFs = nil
	in.AzimuthBs = nil
	in.InclinationFs = nil
	in.InclinationBs = nil
	in.Left = nil
	in.Right = nil
	in.Up = nil
	in.Down = nil
	in.Notes = nil

	_, err := p.Submit(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// The blank second row does not shift the numbering of the third.
	assert.Contains(t, verr.Violations, "Shot 3: Distance cannot be negative")
}

func TestUpdateRewritesBothSchemas(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	res, err := p.Submit(validSubmission())
	require.NoError(t, err)

	in := validSubmission()
	in.AreaInCave = "Gothic Avenue"
	in.FromStations = []string{"B1", "B2"}
	in.ToStations = []string{"B2", "B3"}
	in.Distances = []string{"10", "12"}
	in.AzimuthFs = []string{"90", "180"}
	in.AzimuthBs = []string{"270", "0"}
	in.InclinationFs = []string{"0", "0"}
	in.InclinationBs = []string{"0", "0"}
	in.Left = nil
	in.Right = nil
	in.Up = nil
	in.Down = nil
	in.Notes = nil

	updated, err := p.Update(res.HeaderID, in)
	require.NoError(t, err)
	assert.Equal(t, res.HeaderID, updated.HeaderID)
	assert.Equal(t, res.SurveyID, updated.SurveyID)
	assert.Equal(t, 2, updated.ShotCount)

	header, err := p.Header(res.HeaderID)
	require.NoError(t, err)
	assert.Equal(t, "Gothic Avenue", header.AreaInCave)
	assert.Contains(t, header.SurveyShotsJSON, `"from_station":"B1"`)

	var srv models.Survey
	require.NoError(t, db.First(&srv, res.SurveyID).Error)
	assert.Equal(t, "Gothic Avenue", srv.AreaInCave)

	n, err := p.ShotCount(res.SurveyID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var shots []models.Shot
	require.NoError(t, db.Where("survey_id = ?", res.SurveyID).Order("sequence_in_page").Find(&shots).Error)
	require.Len(t, shots, 2)
	assert.Equal(t, "B1", shots[0].StationFrom)
	assert.InDelta(t, 22, shots[1].RunningRawDistance, 1e-9)
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	res, err := p.Submit(validSubmission())
	require.NoError(t, err)

	in := validSubmission()
	in.CaveName = ""

	_, err = p.Update(res.HeaderID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Original row is untouched.
	header, err := p.Header(res.HeaderID)
	require.NoError(t, err)
	assert.Equal(t, "Roppel Cave", header.CaveName)
}

func TestDeleteRemovesBothSchemas(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	res, err := p.Submit(validSubmission())
	require.NoError(t, err)

	require.NoError(t, p.Delete(res.HeaderID))

	assert.EqualValues(t, 0, count(t, db, &models.SurveyHeader{}))
	assert.EqualValues(t, 0, count(t, db, &models.Survey{}))
	assert.EqualValues(t, 0, count(t, db, &models.Shot{}))
	assert.EqualValues(t, 0, count(t, db, &models.SurveyTeam{}))
	// The cave registry and people survive survey deletion.
	assert.EqualValues(t, 1, count(t, db, &models.Cave{}))
}

func TestHeadersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	p := NewPipeline(db)

	_, err := p.Submit(validSubmission())
	require.NoError(t, err)

	in := validSubmission()
	in.CaveName = "Mystery Cave"
	_, err = p.Submit(in)
	require.NoError(t, err)

	headers, err := p.Headers()
	require.NoError(t, err)
	require.Len(t, headers, 2)
}
