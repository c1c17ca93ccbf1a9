package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"expedition_tracker/internal/models"
)

// varianceNoticeDeg is the informational QA threshold: shots whose
// frontsight/backsight disagreement exceeds it are flagged on the normalized
// row regardless of whether enforcement is switched on.
const varianceNoticeDeg = 5.0

// Role tags used on survey_team rows, in the order the form roles map to them.
var teamRoles = []string{"sketch_book", "foresight", "backsight", "other"}

// ValidationError carries the itemized business-rule violations for one
// rejected submission. Nothing is persisted when it is returned.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "survey validation failed: " + strings.Join(e.Violations, "; ")
}

// Result reports what one accepted submission wrote.
type Result struct {
	HeaderID  uint `json:"header_id"`
	SurveyID  uint `json:"survey_id"`
	CaveID    uint `json:"cave_id"`
	ShotCount int  `json:"shot_count"`
}

// Pipeline ingests survey submissions: parse, validate, reduce, and persist
// to both the flat header schema and the normalized cave/survey/shot schema
// in one transaction. It owns no global state; construct one per database.
type Pipeline struct {
	db *gorm.DB

	// VarianceLimit is the fs/bs variance enforcement threshold in degrees.
	// Zero disables enforcement (variances are still computed and stored).
	VarianceLimit float64
}

func NewPipeline(db *gorm.DB) *Pipeline {
	return &Pipeline{db: db}
}

// Submit runs the full ingestion for a new survey. On business-rule failure
// it returns a *ValidationError and writes nothing.
func (p *Pipeline) Submit(in *SubmissionInput) (*Result, error) {
	shots, cal, verr := p.validate(in)
	if verr != nil {
		return nil, verr
	}

	rows := p.buildShotRows(shots)
	centerline, err := Centerline(shots)
	if err != nil {
		return nil, fmt.Errorf("centerline reduction: %w", err)
	}

	shotsJSON, err := json.Marshal(shots)
	if err != nil {
		return nil, fmt.Errorf("serialize shots: %w", err)
	}

	var res Result
	err = p.db.Transaction(func(tx *gorm.DB) error {
		cave, err := upsertCave(tx, in.CaveName, caveLocation(in.County, in.State))
		if err != nil {
			return err
		}

		srv := models.Survey{
			CaveID:               cave.ID,
			Date:                 in.SurveyDate,
			AreaInCave:           in.AreaInCave,
			Objective:            in.SurveyObjective,
			TimeIn:               in.TimeIn,
			TimeOut:              in.TimeOut,
			Conditions:           in.Conditions,
			SurveyDesignationRaw: "Form Entry",
			UnitsLength:          "feet",
			UnitsCompass:         "degrees",
			UnitsClino:           "degrees",
			Centerline:           centerline,
		}
		if err := tx.Create(&srv).Error; err != nil {
			return err
		}

		for i := range rows {
			rows[i].SurveyID = srv.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if err := writeTeam(tx, srv.ID, in); err != nil {
			return err
		}

		header := p.headerFromInput(in, cal)
		header.SurveyID = srv.ID
		header.SurveyShotsJSON = string(shotsJSON)
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		res = Result{HeaderID: header.ID, SurveyID: srv.ID, CaveID: cave.ID, ShotCount: len(shots)}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("survey submission failed")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"header_id":  res.HeaderID,
		"survey_id":  res.SurveyID,
		"cave":       in.CaveName,
		"shot_count": res.ShotCount,
	}).Info("survey ingested")
	return &res, nil
}

// Update re-validates and replaces an existing survey wholesale: the flat
// header is rewritten and, when the header is linked to a normalized survey,
// that survey's shot sequence and team are replaced in the same transaction.
func (p *Pipeline) Update(headerID uint, in *SubmissionInput) (*Result, error) {
	shots, cal, verr := p.validate(in)
	if verr != nil {
		return nil, verr
	}

	var header models.SurveyHeader
	if err := p.db.First(&header, headerID).Error; err != nil {
		return nil, err
	}

	rows := p.buildShotRows(shots)
	centerline, err := Centerline(shots)
	if err != nil {
		return nil, fmt.Errorf("centerline reduction: %w", err)
	}

	shotsJSON, err := json.Marshal(shots)
	if err != nil {
		return nil, fmt.Errorf("serialize shots: %w", err)
	}

	var res Result
	err = p.db.Transaction(func(tx *gorm.DB) error {
		updated := p.headerFromInput(in, cal)
		updated.Model = header.Model
		updated.SurveyID = header.SurveyID
		updated.SurveyShotsJSON = string(shotsJSON)
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}

		res = Result{HeaderID: header.ID, ShotCount: len(shots)}
		if header.SurveyID == 0 {
			return nil
		}

		var srv models.Survey
		if err := tx.First(&srv, header.SurveyID).Error; err != nil {
			return err
		}

		srv.Date = in.SurveyDate
		srv.AreaInCave = in.AreaInCave
		srv.Objective = in.SurveyObjective
		srv.TimeIn = in.TimeIn
		srv.TimeOut = in.TimeOut
		srv.Conditions = in.Conditions
		srv.Centerline = centerline
		if err := tx.Save(&srv).Error; err != nil {
			return err
		}

		// Replace, never merge: the prior sequence is discarded.
		if err := tx.Where("survey_id = ?", srv.ID).Delete(&models.Shot{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].SurveyID = srv.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("survey_id = ?", srv.ID).Delete(&models.SurveyTeam{}).Error; err != nil {
			return err
		}
		if err := writeTeam(tx, srv.ID, in); err != nil {
			return err
		}

		res.SurveyID = srv.ID
		res.CaveID = srv.CaveID
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("header_id", headerID).Error("survey update failed")
		return nil, err
	}
	return &res, nil
}

// Delete removes the flat header and, when linked, the normalized survey
// with its shots and team rows.
func (p *Pipeline) Delete(headerID uint) error {
	var header models.SurveyHeader
	if err := p.db.First(&header, headerID).Error; err != nil {
		return err
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		if header.SurveyID != 0 {
			if err := tx.Where("survey_id = ?", header.SurveyID).Delete(&models.Shot{}).Error; err != nil {
				return err
			}
			if err := tx.Where("survey_id = ?", header.SurveyID).Delete(&models.SurveyTeam{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Survey{}, header.SurveyID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&header).Error
	})
}

// Header fetches one flat survey header by id.
func (p *Pipeline) Header(id uint) (*models.SurveyHeader, error) {
	var header models.SurveyHeader
	if err := p.db.First(&header, id).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

// Headers lists all flat survey headers, newest first.
func (p *Pipeline) Headers() ([]models.SurveyHeader, error) {
	var headers []models.SurveyHeader
	if err := p.db.Order("created_at DESC").Find(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

// ShotCount returns the number of normalized shots recorded for a survey.
func (p *Pipeline) ShotCount(surveyID uint) (int64, error) {
	var count int64
	err := p.db.Model(&models.Shot{}).Where("survey_id = ?", surveyID).Count(&count).Error
	return count, err
}

// validate runs header checks, parsing, and per-shot checks, and folds the
// results into one capped violation list. All header violations surface;
// shot violations are capped at five plus a summary line.
func (p *Pipeline) validate(in *SubmissionInput) ([]ShotRecord, calibration, *ValidationError) {
	cal, headerViolations := ValidateHeader(in)
	shots, shotViolations := ParseShots(in)

	for _, s := range shots {
		seq := s.Row
		shotViolations = append(shotViolations, ValidateShot(s, seq)...)

		if p.VarianceLimit > 0 {
			if v := AzimuthVariance(s.AzimuthFs, s.AzimuthBs); v != nil && *v > p.VarianceLimit {
				shotViolations = append(shotViolations,
					fmt.Sprintf("Shot %d: Large azimuth variance (%.1f°) - check readings", seq, *v))
			}
			if v := InclinationVariance(s.InclinationFs, s.InclinationBs); v != nil && *v > p.VarianceLimit {
				shotViolations = append(shotViolations,
					fmt.Sprintf("Shot %d: Large inclination variance (%.1f°) - check readings", seq, *v))
			}
		}
	}

	violations := append(headerViolations, capShotViolations(shotViolations)...)
	if len(violations) == 0 && len(shots) == 0 {
		violations = append(violations, "At least one survey shot is required")
	}
	if len(violations) > 0 {
		return nil, cal, &ValidationError{Violations: violations}
	}
	return shots, cal, nil
}

// buildShotRows derives the normalized rows: sequence numbers, variances,
// running tape distance, and the informational QA flag.
func (p *Pipeline) buildShotRows(shots []ShotRecord) []models.Shot {
	rows := make([]models.Shot, 0, len(shots))
	var running float64
	for i, s := range shots {
		if s.Distance != nil {
			running += *s.Distance
		}

		azVar := AzimuthVariance(s.AzimuthFs, s.AzimuthBs)
		incVar := InclinationVariance(s.InclinationFs, s.InclinationBs)
		qa := ""
		if (azVar != nil && *azVar > varianceNoticeDeg) || (incVar != nil && *incVar > varianceNoticeDeg) {
			qa = "check_variance"
		}

		rows = append(rows, models.Shot{
			SequenceInPage:     i + 1,
			StationFrom:        s.FromStation,
			StationTo:          s.ToStation,
			Distance:           s.Distance,
			FsAzimuthDeg:       s.AzimuthFs,
			BsAzimuthDeg:       s.AzimuthBs,
			FsInclineDeg:       s.InclinationFs,
			BsInclineDeg:       s.InclinationBs,
			LrudLeft:           s.Left,
			LrudRight:          s.Right,
			LrudUp:             s.Up,
			LrudDown:           s.Down,
			Note:               s.Note,
			AzimuthVarianceDeg: azVar,
			InclineVarianceDeg: incVar,
			RunningRawDistance: running,
			QAFlag:             qa,
		})
	}
	return rows
}

func (p *Pipeline) headerFromInput(in *SubmissionInput, cal calibration) models.SurveyHeader {
	return models.SurveyHeader{
		CaveName:               strings.TrimSpace(in.CaveName),
		State:                  strings.TrimSpace(in.State),
		County:                 strings.TrimSpace(in.County),
		Region:                 strings.TrimSpace(in.Region),
		SurveyDate:             strings.TrimSpace(in.SurveyDate),
		FSBNumber:              strings.TrimSpace(in.FSBNumber),
		AreaInCave:             strings.TrimSpace(in.AreaInCave),
		TimeIn:                 strings.TrimSpace(in.TimeIn),
		TimeOut:                strings.TrimSpace(in.TimeOut),
		SurveyObjective:        strings.TrimSpace(in.SurveyObjective),
		Conditions:             strings.TrimSpace(in.Conditions),
		OtherInfo:              strings.TrimSpace(in.OtherInfo),
		BookSketchPerson:       strings.TrimSpace(in.BookSketchPerson),
		InstrumentReader:       strings.TrimSpace(in.InstrumentReader),
		TapePerson:             strings.TrimSpace(in.TapePerson),
		PointPerson:            strings.TrimSpace(in.PointPerson),
		TripLeader:             strings.TrimSpace(in.TripLeader),
		OtherTeamMembers:       strings.TrimSpace(in.OtherTeamMembers),
		CompassID:              strings.TrimSpace(in.CompassID),
		CompassFrontsight:      cal.CompassFs,
		CompassBacksight:       cal.CompassBs,
		InclinometerID:         strings.TrimSpace(in.InclinometerID),
		InclinometerFrontsight: cal.InclinometerFs,
		InclinometerBacksight:  cal.InclinometerBs,
		CRFCompassCourse:       in.CRFCompassCourse,
		CalibrationNotes:       strings.TrimSpace(in.CalibrationNotes),
		AdditionalEquipment:    strings.TrimSpace(in.AdditionalEquipment),
		InstrumentsCRFCourse:   in.InstrumentsCRFCourse,
		DataAccuracy:           in.DataAccuracy,
		RawData:                strings.TrimSpace(in.RawData),
	}
}

// caveLocation forms the "{county}, {state}" lookup key; either part may be
// missing.
func caveLocation(county, state string) string {
	county = strings.TrimSpace(county)
	state = strings.TrimSpace(state)
	if county != "" && state != "" {
		return county + ", " + state
	}
	return state
}

// writeTeam upserts a Person per filled role and links it to the survey.
func writeTeam(tx *gorm.DB, surveyID uint, in *SubmissionInput) error {
	names := []string{
		strings.TrimSpace(in.BookSketchPerson),
		strings.TrimSpace(in.InstrumentReader),
		strings.TrimSpace(in.TapePerson),
		strings.TrimSpace(in.PointPerson),
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		person, err := upsertPerson(tx, name)
		if err != nil {
			return err
		}
		member := models.SurveyTeam{
			SurveyID:    surveyID,
			PersonID:    person.ID,
			DisplayName: name,
			Role:        teamRoles[i],
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
	}
	return nil
}

// upsertCave resolves or creates a cave by (name, location). The unique
// index plus ON CONFLICT DO NOTHING makes concurrent first submissions of
// the same cave converge on one row instead of racing a check-then-insert.
func upsertCave(tx *gorm.DB, name, location string) (*models.Cave, error) {
	cave := models.Cave{Name: strings.TrimSpace(name), LocationText: location}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "location_text"}},
		DoNothing: true,
	}).Create(&cave).Error
	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}
	if cave.ID == 0 {
		if err := tx.Where("name = ? AND location_text = ?", cave.Name, location).First(&cave).Error; err != nil {
			return nil, err
		}
	}
	return &cave, nil
}

// upsertPerson resolves or creates a person by exact full name.
func upsertPerson(tx *gorm.DB, fullName string) (*models.Person, error) {
	person := models.Person{FullName: fullName}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "full_name"}},
		DoNothing: true,
	}).Create(&person).Error
	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}
	if person.ID == 0 {
		if err := tx.Where("full_name = ?", fullName).First(&person).Error; err != nil {
			return nil, err
		}
	}
	return &person, nil
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
