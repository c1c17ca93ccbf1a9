// Package seed loads fictional demonstration data so the app can be shown
// without real registrations. Everything here uses cartoon characters; clear
// it before collecting real expedition information.
package seed

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"expedition_tracker/internal/models"
	"expedition_tracker/internal/survey"
)

const disclaimerText = "Mockup for demonstration purposes only. The data shown here does not reflect " +
	"the actual registration, cave trip, or survey data collected during the " +
	"October 2025 expedition in Kentucky."

// Run clears existing data and repopulates every table with demo rows.
func Run(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearExisting(tx); err != nil {
			return err
		}
		if err := demoParticipants(tx); err != nil {
			return err
		}
		if err := demoTrips(tx); err != nil {
			return err
		}
		if err := demoCavesAndSurvey(tx); err != nil {
			return err
		}
		return demoSettings(tx)
	})
}

// clearExisting deletes in dependency order so foreign keys hold.
func clearExisting(tx *gorm.DB) error {
	logrus.Info("seed: clearing existing data")
	for _, model := range []interface{}{
		&models.Shot{},
		&models.SurveyTeam{},
		&models.SurveyHeader{},
		&models.Survey{},
		&models.Trip{},
		&models.Participant{},
		&models.Person{},
		&models.Cave{},
	} {
		if err := tx.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

func demoParticipants(tx *gorm.DB) error {
	participants := []models.Participant{
		{
			FullName:            "Shaggy Rogers",
			Email:               "shaggy@mysteryinc.demo",
			PhoneNumber:         "555-0101",
			Address:             "123 Mystery Lane, Coolsville, OH",
			EmergencyContact:    "Scooby-Doo (Dog): 555-0102",
			TraveledWith:        "Scooby-Doo",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-11","2025-10-12","2025-10-13"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Maybe interested in seeing the underground kitchen",
			CRFCompassAgreement: true,
			Skills:              `["vertical","sketching","photography"]`,
			GroupGear:           `["tent","cooking_gear"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Scooby-Doo",
			Email:               "scooby@mysteryinc.demo",
			PhoneNumber:         "555-0102",
			Address:             "123 Mystery Lane, Coolsville, OH",
			EmergencyContact:    "Shaggy Rogers: 555-0101",
			TraveledWith:        "Shaggy Rogers",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-11","2025-10-12"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Interested in Scooby Snacks Underground Tour",
			CRFCompassAgreement: true,
			Skills:              `["vertical","navigation"]`,
			GroupGear:           `["tent"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Velma Dinkley",
			Email:               "velma@mysteryinc.demo",
			PhoneNumber:         "555-0103",
			Address:             "456 Research Blvd, Coolsville, OH",
			EmergencyContact:    "Daphne Blake: 555-0104",
			Accommodation:       "cabin",
			ParticipationDays:   `["2025-10-11","2025-10-12","2025-10-13","2025-10-14"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Very interested in geological formations",
			CRFCompassAgreement: true,
			Skills:              `["surveying","sketching","navigation","vertical"]`,
			HaveInstruments:     true,
			InstrumentsDetails:  "Brunton Compass, Suunto Clino",
			GroupGear:           `["rope","survey_instruments"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Daphne Blake",
			Email:               "daphne@mysteryinc.demo",
			PhoneNumber:         "555-0104",
			Address:             "789 Fashion Ave, Coolsville, OH",
			EmergencyContact:    "Fred Jones: 555-0105",
			Accommodation:       "cabin",
			ParticipationDays:   `["2025-10-11","2025-10-12","2025-10-13"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Interested in photography opportunities",
			CRFCompassAgreement: true,
			Skills:              `["photography","vertical"]`,
			GroupGear:           `["cooking_gear"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Fred Jones",
			Email:               "fred@mysteryinc.demo",
			PhoneNumber:         "555-0105",
			Address:             "321 Leadership St, Coolsville, OH",
			EmergencyContact:    "Velma Dinkley: 555-0103",
			Accommodation:       "rv",
			ParticipationDays:   `["2025-10-11","2025-10-12","2025-10-13","2025-10-14","2025-10-15"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Leading several trips",
			CRFCompassAgreement: true,
			Skills:              `["navigation","vertical","rigging","rescue"]`,
			HaveInstruments:     true,
			InstrumentsDetails:  "Complete survey kit with laser rangefinder",
			GroupGear:           `["rope","rigging_equipment","survey_instruments"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "SpongeBob SquarePants",
			Email:               "spongebob@bikinibottom.demo",
			PhoneNumber:         "555-0201",
			Address:             "124 Conch Street, Bikini Bottom",
			EmergencyContact:    "Patrick Star: 555-0202",
			TraveledWith:        "Patrick Star",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-12","2025-10-13"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Ready for underwater... I mean underground adventure!",
			CRFCompassAgreement: true,
			Skills:              `["vertical"]`,
			GroupGear:           `["tent"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Patrick Star",
			Email:               "patrick@bikinibottom.demo",
			PhoneNumber:         "555-0202",
			Address:             "120 Conch Street, Bikini Bottom",
			EmergencyContact:    "SpongeBob SquarePants: 555-0201",
			TraveledWith:        "SpongeBob SquarePants",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-12","2025-10-13"]`,
			EatingAtExpedition:  true,
			CRFCompassAgreement: true,
			Skills:              `[]`,
			GroupGear:           `["tent"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Sandy Cheeks",
			Email:               "sandy@bikinibottom.demo",
			PhoneNumber:         "555-0203",
			Address:             "Treedome, Bikini Bottom",
			EmergencyContact:    "SpongeBob SquarePants: 555-0201",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-11","2025-10-12","2025-10-13","2025-10-14"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Science expedition participant",
			CRFCompassAgreement: true,
			Skills:              `["surveying","vertical","rigging","navigation"]`,
			HaveInstruments:     true,
			InstrumentsDetails:  "Scientific equipment and survey tools",
			GroupGear:           `["rope","survey_instruments","scientific_equipment"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Finn the Human",
			Email:               "finn@adventuretime.demo",
			PhoneNumber:         "555-0301",
			Address:             "Tree Fort, Land of Ooo",
			EmergencyContact:    "Jake the Dog: 555-0302",
			TraveledWith:        "Jake the Dog",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-13","2025-10-14","2025-10-15"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Mathematical cave adventures!",
			CRFCompassAgreement: true,
			Skills:              `["vertical","rigging","rescue"]`,
			GroupGear:           `["rope","tent"]`,
			WaiverAcknowledged:  true,
		},
		{
			FullName:            "Jake the Dog",
			Email:               "jake@adventuretime.demo",
			PhoneNumber:         "555-0302",
			Address:             "Tree Fort, Land of Ooo",
			EmergencyContact:    "Finn the Human: 555-0301",
			TraveledWith:        "Finn the Human",
			Accommodation:       "tent",
			ParticipationDays:   `["2025-10-13","2025-10-14","2025-10-15"]`,
			EatingAtExpedition:  true,
			RoppelTrips:         "Stretchy abilities useful for tight passages",
			CRFCompassAgreement: true,
			Skills:              `["navigation","vertical"]`,
			GroupGear:           `["tent"]`,
			WaiverAcknowledged:  true,
		},
	}

	if err := tx.Create(&participants).Error; err != nil {
		return fmt.Errorf("seeding participants: %w", err)
	}
	logrus.WithField("count", len(participants)).Info("seed: participants added")
	return nil
}

func demoTrips(tx *gorm.DB) error {
	trips := []models.Trip{
		{
			TripName:          "Mystery Machine Cave Tour",
			TripDate:          "2025-10-11",
			CaveName:          "Mammoth Cave",
			Objective:         "Survey new passages in Historic Section",
			LeaderName:        "Fred Jones",
			EntryTime:         "09:00",
			ExitTime:          "15:00",
			RouteDescription:  "Enter via Historic Entrance, survey Gothic Avenue extension",
			Hazards:           "Low crawls, tight squeezes",
			RequiredSkills:    `["vertical","surveying"]`,
			RequiredEquipment: `["helmet","headlamp","survey_instruments"]`,
			Participants:      `["Fred Jones","Velma Dinkley","Daphne Blake"]`,
			MaxParticipants:   6,
			DifficultyLevel:   "intermediate",
			Status:            "planned",
			Notes:             "Looking for clues... I mean cave passages",
		},
		{
			TripName:          "Scooby Snacks Underground Expedition",
			TripDate:          "2025-10-12",
			CaveName:          "Roppel Cave",
			Objective:         "Push leads in the lunch room area",
			LeaderName:        "Shaggy Rogers",
			EntryTime:         "10:00",
			ExitTime:          "16:00",
			RouteDescription:  "Looking for the legendary underground kitchen",
			Hazards:           "Possible hungry cavers",
			RequiredSkills:    `["navigation"]`,
			RequiredEquipment: `["helmet","headlamp","extra_snacks"]`,
			Participants:      `["Shaggy Rogers","Scooby-Doo","Velma Dinkley"]`,
			MaxParticipants:   4,
			DifficultyLevel:   "beginner",
			Status:            "planned",
			Notes:             "Like, bring extra Scooby Snacks, man!",
		},
		{
			TripName:          "Scientific Survey Expedition",
			TripDate:          "2025-10-13",
			CaveName:          "Crystal Onyx Cave",
			Objective:         "Geological formations documentation",
			LeaderName:        "Sandy Cheeks",
			EntryTime:         "08:00",
			ExitTime:          "17:00",
			RouteDescription:  "Full scientific survey of formation room",
			Hazards:           "Delicate formations, watch your step",
			RequiredSkills:    `["surveying","photography","vertical"]`,
			RequiredEquipment: `["survey_instruments","camera","measuring_tape"]`,
			Participants:      `["Sandy Cheeks","Velma Dinkley","Fred Jones"]`,
			MaxParticipants:   5,
			DifficultyLevel:   "advanced",
			Status:            "planned",
			Notes:             "Texas-sized science expedition, y'all!",
		},
		{
			TripName:          "Mathematical Cave Adventure",
			TripDate:          "2025-10-14",
			CaveName:          "Hidden River Cave",
			Objective:         "Explore uncharted passages",
			LeaderName:        "Finn the Human",
			EntryTime:         "09:30",
			ExitTime:          "16:30",
			RouteDescription:  "Adventure through new discoveries",
			Hazards:           "Unknown passages, water features",
			RequiredSkills:    `["vertical","navigation","rigging"]`,
			RequiredEquipment: `["helmet","headlamp","rope","webbing"]`,
			Participants:      `["Finn the Human","Jake the Dog","Fred Jones"]`,
			MaxParticipants:   6,
			DifficultyLevel:   "intermediate",
			Status:            "planned",
			Notes:             "Algebraic cave passages!",
		},
		{
			TripName:          "Bikini Bottom Cave Dive... Er, Hike",
			TripDate:          "2025-10-12",
			CaveName:          "Morrison Cave",
			Objective:         "Easy introduction trip",
			LeaderName:        "SpongeBob SquarePants",
			EntryTime:         "11:00",
			ExitTime:          "14:00",
			RouteDescription:  "Gentle walking passages",
			Hazards:           "Minimal, beginner-friendly",
			RequiredSkills:    `[]`,
			RequiredEquipment: `["helmet","headlamp"]`,
			Participants:      `["SpongeBob SquarePants","Patrick Star","Sandy Cheeks"]`,
			MaxParticipants:   8,
			DifficultyLevel:   "beginner",
			Status:            "planned",
			Notes:             "I'm ready, I'm ready, I'm ready!",
		},
	}

	if err := tx.Create(&trips).Error; err != nil {
		return fmt.Errorf("seeding trips: %w", err)
	}
	logrus.WithField("count", len(trips)).Info("seed: trips added")
	return nil
}

func fp(v float64) *float64 { return &v }

func demoCavesAndSurvey(tx *gorm.DB) error {
	caves := []models.Cave{
		{Name: "Mystery Cave", LocationText: "Coolsville, OH - Fictional Location"},
		{Name: "Mammoth Cave", LocationText: "Kentucky - Demo Data"},
		{Name: "Roppel Cave", LocationText: "Kentucky - Demo Data"},
		{Name: "Crystal Onyx Cave", LocationText: "Fictional Location"},
		{Name: "Hidden River Cave", LocationText: "Kentucky - Demo Data"},
	}
	if err := tx.Create(&caves).Error; err != nil {
		return fmt.Errorf("seeding caves: %w", err)
	}

	records := []survey.ShotRecord{
		{FromStation: "A1", ToStation: "A2", Distance: fp(25.5), AzimuthFs: fp(45.0), AzimuthBs: fp(225.0), InclinationFs: fp(5.0), InclinationBs: fp(-5.0), Left: 4.0, Right: 3.0, Up: 8.0, Down: 6.0, Note: "Demo survey shot"},
		{FromStation: "A2", ToStation: "A3", Distance: fp(32.0), AzimuthFs: fp(90.0), AzimuthBs: fp(270.0), InclinationFs: fp(0.0), InclinationBs: fp(0.0), Left: 5.0, Right: 4.0, Up: 10.0, Down: 8.0, Note: "Demo survey shot"},
		{FromStation: "A3", ToStation: "A4", Distance: fp(18.3), AzimuthFs: fp(135.0), AzimuthBs: fp(315.0), InclinationFs: fp(-10.0), InclinationBs: fp(10.0), Left: 3.0, Right: 3.0, Up: 6.0, Down: 5.0, Note: "Demo survey shot"},
	}

	centerline, err := survey.Centerline(records)
	if err != nil {
		return fmt.Errorf("building demo centerline: %w", err)
	}

	demoSurvey := models.Survey{
		CaveID:               caves[0].ID,
		Date:                 "2025-10-11",
		AreaInCave:           "Mystery Passage",
		Objective:            "Initial Survey",
		TimeIn:               "09:00",
		TimeOut:              "15:00",
		Conditions:           "Dry, excellent",
		SurveyDesignationRaw: "DEMO-SURVEY-001",
		UnitsLength:          "feet",
		UnitsCompass:         "degrees",
		UnitsClino:           "degrees",
		Centerline:           centerline,
	}
	if err := tx.Create(&demoSurvey).Error; err != nil {
		return fmt.Errorf("seeding demo survey: %w", err)
	}

	team := map[string]string{
		"Velma Dinkley": "sketch_book",
		"Fred Jones":    "foresight",
		"Daphne Blake":  "backsight",
	}
	for name, role := range team {
		person := models.Person{FullName: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&person).Error; err != nil {
			return fmt.Errorf("seeding person %q: %w", name, err)
		}
		if person.ID == 0 {
			if err := tx.Where("full_name = ?", name).First(&person).Error; err != nil {
				return fmt.Errorf("fetching person %q: %w", name, err)
			}
		}
		member := models.SurveyTeam{
			SurveyID:    demoSurvey.ID,
			PersonID:    person.ID,
			DisplayName: name,
			Role:        role,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("seeding survey team: %w", err)
		}
	}

	running := 0.0
	for i, r := range records {
		running += *r.Distance
		shot := models.Shot{
			SurveyID:           demoSurvey.ID,
			SequenceInPage:     i + 1,
			StationFrom:        r.FromStation,
			StationTo:          r.ToStation,
			Distance:           r.Distance,
			FsAzimuthDeg:       r.AzimuthFs,
			BsAzimuthDeg:       r.AzimuthBs,
			FsInclineDeg:       r.InclinationFs,
			BsInclineDeg:       r.InclinationBs,
			LrudLeft:           r.Left,
			LrudRight:          r.Right,
			LrudUp:             r.Up,
			LrudDown:           r.Down,
			Note:               r.Note,
			AzimuthVarianceDeg: survey.AzimuthVariance(r.AzimuthFs, r.AzimuthBs),
			InclineVarianceDeg: survey.InclinationVariance(r.InclinationFs, r.InclinationBs),
			RunningRawDistance: running,
		}
		if err := tx.Create(&shot).Error; err != nil {
			return fmt.Errorf("seeding demo shot %d: %w", i+1, err)
		}
	}

	logrus.WithField("caves", len(caves)).Info("seed: caves and sample survey added")
	return nil
}

func demoSettings(tx *gorm.DB) error {
	settings := []models.Setting{
		{Key: "demo_mode_disclaimer", Value: disclaimerText, Description: "Disclaimer for demo/mockup mode", Category: "system"},
		{Key: "demo_mode_enabled", Value: "true", Description: "Whether demo mode is active", Category: "system"},
	}
	for _, s := range settings {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&s).Error
		if err != nil {
			return fmt.Errorf("seeding setting %q: %w", s.Key, err)
		}
	}
	logrus.Info("seed: demonstration disclaimer added")
	return nil
}
