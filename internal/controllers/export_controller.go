package controllers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/models"
	"expedition_tracker/internal/survey"
)

func attachmentName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}

func fmtPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// ExportShotsCSV streams every normalized shot row, QA columns included.
func ExportShotsCSV(c *gin.Context) {
	var shots []models.Shot
	if err := config.DB.Order("survey_id, sequence_in_page").Find(&shots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting cave survey data: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"Shot ID", "Survey ID", "Sequence in Page", "Station From", "Station To",
		"Distance", "FS Azimuth (deg)", "BS Azimuth (deg)", "FS Incline (deg)", "BS Incline (deg)",
		"LRUD Left", "LRUD Right", "LRUD Up", "LRUD Down", "Note",
		"Azimuth Variance (deg)", "Incline Variance (deg)", "Running Raw Distance", "QA Flag",
	})
	for _, s := range shots {
		w.Write([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			strconv.FormatUint(uint64(s.SurveyID), 10),
			strconv.Itoa(s.SequenceInPage),
			s.StationFrom,
			s.StationTo,
			fmtPtr(s.Distance),
			fmtPtr(s.FsAzimuthDeg),
			fmtPtr(s.BsAzimuthDeg),
			fmtPtr(s.FsInclineDeg),
			fmtPtr(s.BsInclineDeg),
			strconv.FormatFloat(s.LrudLeft, 'f', -1, 64),
			strconv.FormatFloat(s.LrudRight, 'f', -1, 64),
			strconv.FormatFloat(s.LrudUp, 'f', -1, 64),
			strconv.FormatFloat(s.LrudDown, 'f', -1, 64),
			s.Note,
			fmtPtr(s.AzimuthVarianceDeg),
			fmtPtr(s.InclineVarianceDeg),
			strconv.FormatFloat(s.RunningRawDistance, 'f', 2, 64),
			s.QAFlag,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("Cave_Survey_Data", "csv"))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportTripsCSV streams the trip calendar.
func ExportTripsCSV(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Order("trip_date DESC").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting trip data: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"ID", "Trip Name", "Cave Name", "Trip Date", "Entry Time", "Exit Time",
		"Objective", "Route Description", "Hazards", "Leader Name", "Participants",
		"Required Skills", "Required Equipment", "Max Participants", "Difficulty Level",
		"Status", "Notes", "Created Date",
	})
	for _, t := range trips {
		w.Write([]string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.TripName,
			t.CaveName,
			t.TripDate,
			t.EntryTime,
			t.ExitTime,
			t.Objective,
			t.RouteDescription,
			t.Hazards,
			t.LeaderName,
			strings.Join(decodeStringList(t.Participants), ", "),
			strings.Join(decodeStringList(t.RequiredSkills), ", "),
			strings.Join(decodeStringList(t.RequiredEquipment), ", "),
			strconv.Itoa(t.MaxParticipants),
			t.DifficultyLevel,
			t.Status,
			t.Notes,
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("Trip_Data", "csv"))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportRegistrationWorkbook builds an xlsx workbook of every registration.
func ExportRegistrationWorkbook(c *gin.Context) {
	var participants []models.Participant
	if err := config.DB.Order("created_at DESC").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting registration data: " + err.Error()})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Registrations"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{
		"ID", "Full Name", "Email", "Phone Number", "Address", "Emergency Contact",
		"Traveled With", "Accommodation", "Other Accommodation", "Participation Days",
		"Eating at Expedition", "Roppel Trips", "CRF Compass Agreement", "Skills",
		"Have Instruments", "Instrument Details", "Group Gear", "Group Gear Other Details",
		"Additional Info", "Registration Time", "Waiver Acknowledged",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i, p := range participants {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		row := []interface{}{
			p.ID,
			p.FullName,
			p.Email,
			p.PhoneNumber,
			p.Address,
			p.EmergencyContact,
			p.TraveledWith,
			p.Accommodation,
			p.OtherAccommodation,
			strings.Join(decodeStringList(p.ParticipationDays), ", "),
			yesNo(p.EatingAtExpedition),
			p.RoppelTrips,
			yesNo(p.CRFCompassAgreement),
			strings.Join(decodeStringList(p.Skills), ", "),
			yesNo(p.HaveInstruments),
			p.InstrumentsDetails,
			strings.Join(decodeStringList(p.GroupGear), ", "),
			p.GroupGearOtherDetails,
			p.AdditionalInfo,
			p.CreatedAt.Format(time.RFC3339),
			yesNo(p.WaiverAcknowledged),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logrus.WithError(err).Error("ExportRegistrationWorkbook: write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("Expedition_Registration_Data", "xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportSurveyText renders one survey as the formatted book-page text sheet.
func ExportSurveyText(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	header, err := surveyPipeline().Header(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var shots []survey.ShotRecord
	if header.SurveyShotsJSON != "" {
		// Tolerate bad stored JSON; the sheet just reports no shots.
		_ = json.Unmarshal([]byte(header.SurveyShotsJSON), &shots)
	}

	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(rule)
	line("CAVE SURVEY DATA EXPORT")
	line("%s", config.GetSetting(config.DB, "expedition_name", "Expedition"))
	line(rule)
	line("")
	line("BASIC INFORMATION")
	line(thin)
	line("Survey ID: %d", header.ID)
	line("Cave Name: %s", header.CaveName)
	line("State: %s", header.State)
	line("County: %s", header.County)
	line("Region: %s", header.Region)
	line("Survey Date: %s", header.SurveyDate)
	line("FSB Number: %s", header.FSBNumber)
	line("Area in Cave: %s", header.AreaInCave)
	line("Time In: %s", header.TimeIn)
	line("Time Out: %s", header.TimeOut)
	line("Survey Objective: %s", header.SurveyObjective)
	line("Conditions: %s", header.Conditions)
	line("Other Info: %s", header.OtherInfo)
	line("")
	line("SURVEY TEAM")
	line(thin)
	line("Book/Sketch Person: %s", header.BookSketchPerson)
	line("Instrument Reader: %s", header.InstrumentReader)
	line("Tape Person: %s", header.TapePerson)
	line("Point Person: %s", header.PointPerson)
	line("Trip/Survey Leader: %s", header.TripLeader)
	line("Other Team Members: %s", header.OtherTeamMembers)
	line("")
	line("INSTRUMENTS")
	line(thin)
	line("Compass ID: %s", header.CompassID)
	line("Compass Frontsight: %s", fmtPtr(header.CompassFrontsight))
	line("Compass Backsight: %s", fmtPtr(header.CompassBacksight))
	line("Inclinometer ID: %s", header.InclinometerID)
	line("Inclinometer Frontsight: %s", fmtPtr(header.InclinometerFrontsight))
	line("Inclinometer Backsight: %s", fmtPtr(header.InclinometerBacksight))
	line("CRF Compass Course: %s", yesNo(header.CRFCompassCourse))
	line("Calibration Notes: %s", header.CalibrationNotes)
	line("Additional Equipment: %s", header.AdditionalEquipment)
	line("Instruments on CRF Course: %s", yesNo(header.InstrumentsCRFCourse))
	line("Data Accuracy Confirmed: %s", yesNo(header.DataAccuracy))
	line("")
	line("SURVEY SHOTS")
	line(thin)
	if len(shots) > 0 {
		line("%-8s %-8s %-8s %-8s %-8s %-8s %-8s %-6s %-6s %-6s %-6s %-20s",
			"From", "To", "Dist", "Az FS", "Az BS", "Inc FS", "Inc BS", "L", "R", "U", "D", "Notes")
		line(thin)
		for _, s := range shots {
			line("%-8s %-8s %-8s %-8s %-8s %-8s %-8s %-6.1f %-6.1f %-6.1f %-6.1f %-20s",
				s.FromStation, s.ToStation, fmtPtr(s.Distance),
				fmtPtr(s.AzimuthFs), fmtPtr(s.AzimuthBs),
				fmtPtr(s.InclinationFs), fmtPtr(s.InclinationBs),
				s.Left, s.Right, s.Up, s.Down, s.Note)
		}
	} else {
		line("No survey shots recorded")
	}
	line("")
	line(rule)
	line("Created: %s", header.CreatedAt.Format(time.RFC3339))
	line(rule)

	filename := fmt.Sprintf("survey_%s_%d.txt", strings.ReplaceAll(header.CaveName, " ", "_"), header.ID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain", []byte(b.String()))
}

// SurveyCenterline serves the reduced centerline of a survey as GeoJSON.
func SurveyCenterline(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid survey ID"})
		return
	}

	header, err := surveyPipeline().Header(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var srv models.Survey
	if err := config.DB.First(&srv, header.SurveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Survey has no centerline"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	geoJSON, err := survey.CenterlineGeoJSON(srv.Centerline)
	if err != nil {
		logrus.WithError(err).WithField("survey_id", srv.ID).Error("SurveyCenterline: decode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid centerline geometry: " + err.Error()})
		return
	}
	if geoJSON == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Survey has no centerline"})
		return
	}

	c.Data(http.StatusOK, "application/geo+json", []byte(geoJSON))
}
