package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"expedition_tracker/internal/config"
)

func statsRequest(t *testing.T, handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	handler(c)
	return w
}

func TestStatsEmptyDatabase(t *testing.T) {
	useTestDB(t)

	w := statsRequest(t, Stats, "/api/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_participants":0`)
}

// A failing database must answer 500, not silently zeroed stats.
func TestStatsReportsDatabaseErrors(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	config.DB = db // no migrations, every query fails

	w := statsRequest(t, Stats, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = statsRequest(t, CaveSurveyStats, "/api/cave-survey-stats")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCaveSurveyStatsEmptyDatabase(t *testing.T) {
	useTestDB(t)

	w := statsRequest(t, CaveSurveyStats, "/api/cave-survey-stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_caves":0`)
	assert.Contains(t, w.Body.String(), `"total_distance":0`)
}
