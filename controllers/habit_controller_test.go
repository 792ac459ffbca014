package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"habitd/middleware"
	"habitd/models"
	"habitd/store"
	"habitd/tracker"
	"habitd/utils"
)

var testDBSeq int64

// newTestRouter builds a router backed by an in-memory database with a stub
// auth middleware that injects the given user ID.
func newTestRouter(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	if utils.Sugar == nil {
		utils.Sugar = zap.NewNop().Sugar()
	}

	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.HabitRecord{},
		&models.Achievement{},
	))

	user := models.User{Username: fmt.Sprintf("tester%d", userID)}
	user.ID = userID
	require.NoError(t, db.Create(&user).Error)

	st := store.New(db)
	engine := tracker.NewEngine(tracker.Catalog())
	habits := NewHabitController(db, st, engine)
	achievements := NewAchievementController(st, engine)

	r := gin.New()
	authed := r.Group("", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})
	authed.GET("/habits", habits.ListHabits)
	authed.POST("/habits", habits.CreateHabit)
	authed.DELETE("/habits/:id", habits.DeleteHabit)
	authed.POST("/habits/:id/toggle", habits.ToggleDay)
	authed.GET("/habits/:id/streak", habits.Streak)
	authed.GET("/habits/:id/calendar", habits.Calendar)
	authed.GET("/achievements", achievements.List)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope.Data
}

func createHabit(t *testing.T, r *gin.Engine, name, createdDay string, targetDays int) string {
	t.Helper()
	w, data := doJSON(t, r, http.MethodPost, "/habits", gin.H{
		"name":        name,
		"target_days": targetDays,
		"created_day": createdDay,
	})
	require.Equal(t, http.StatusOK, w.Code)
	habit, ok := data["habit"].(map[string]interface{})
	require.True(t, ok)
	id, ok := habit["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestCreateHabitValidation(t *testing.T) {
	r, _ := newTestRouter(t, 1)

	w, _ := doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "   ", "target_days": 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "read", "target_days": 366})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "read", "target_days": 30, "created_day": "2024-1-5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/habits", gin.H{"name": "read", "target_days": 30})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToggleCreatesThenFlips(t *testing.T) {
	r, db := newTestRouter(t, 1)
	id := createHabit(t, r, "meditate", tracker.Today(), 30)

	w, data := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, data["completed"])
	assert.Equal(t, true, data["toggled"])

	w, data = doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["completed"])
	assert.Equal(t, true, data["toggled"])

	var count int64
	require.NoError(t, db.Model(&models.HabitRecord{}).Where("habit_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleOutsideWindowIsSilentNoOp(t *testing.T) {
	r, db := newTestRouter(t, 1)
	tomorrow := tracker.AddDays(tracker.Today(), 1)
	id := createHabit(t, r, "run", tomorrow, 7)

	// The habit starts tomorrow, so today is before the window.
	w, data := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["toggled"])
	assert.Equal(t, false, data["completed"])
	assert.Equal(t, string(tracker.ZoneBeforeStart), data["zone"])

	var count int64
	require.NoError(t, db.Model(&models.HabitRecord{}).Where("habit_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestToggleAfterWindowEnd(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	start := tracker.AddDays(tracker.Today(), -10)
	id := createHabit(t, r, "stretch", start, 5)

	w, data := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["toggled"])
	assert.Equal(t, string(tracker.ZoneAfterEnd), data["zone"])
}

func TestFirstHabitAndFirstCheckinUnlock(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	id := createHabit(t, r, "journal", tracker.Today(), 30)

	w, data := doJSON(t, r, http.MethodGet, "/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	unlocked, ok := data["unlocked"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, unlocked, tracker.TypeFirstHabit)
	assert.NotContains(t, unlocked, tracker.TypeFirstCheckin)

	w, _ = doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, data = doJSON(t, r, http.MethodGet, "/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	unlocked, ok = data["unlocked"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, unlocked, tracker.TypeFirstCheckin)
}

func TestForeignHabitLooksMissing(t *testing.T) {
	r, db := newTestRouter(t, 1)

	other := models.User{Username: "other"}
	other.ID = 2
	require.NoError(t, db.Create(&other).Error)
	foreign := models.Habit{UserID: 2, Name: "theirs", CreatedDay: tracker.Today(), TargetDays: 7}
	require.NoError(t, db.Create(&foreign).Error)

	w, _ := doJSON(t, r, http.MethodPost, "/habits/"+foreign.ID+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/habits/"+foreign.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteHabitRemovesRecords(t *testing.T) {
	r, db := newTestRouter(t, 1)
	id := createHabit(t, r, "water", tracker.Today(), 30)

	w, _ := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, data := doJSON(t, r, http.MethodDelete, "/habits/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, data["deleted"])

	var habits, records int64
	require.NoError(t, db.Model(&models.Habit{}).Where("id = ?", id).Count(&habits).Error)
	require.NoError(t, db.Model(&models.HabitRecord{}).Where("habit_id = ?", id).Count(&records).Error)
	assert.Zero(t, habits)
	assert.Zero(t, records)
}

func TestCalendarClassifiesDays(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	start := tracker.AddDays(tracker.Today(), -2)
	id := createHabit(t, r, "walk", start, 7)

	w, _ := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", gin.H{"date": start})
	require.Equal(t, http.StatusOK, w.Code)

	w, data := doJSON(t, r, http.MethodGet, "/habits/"+id+"/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, start, data["window_start"])
	assert.Equal(t, tracker.AddDays(start, 6), data["window_end"])

	days, ok := data["days"].([]interface{})
	require.True(t, ok)
	require.Len(t, days, 7)

	first := days[0].(map[string]interface{})
	assert.Equal(t, start, first["day"])
	assert.Equal(t, string(tracker.ZoneEditable), first["zone"])
	assert.Equal(t, true, first["completed"])

	last := days[6].(map[string]interface{})
	assert.Equal(t, string(tracker.ZoneFuturePlanned), last["zone"])
	assert.Equal(t, false, last["completed"])
}

func TestStreakEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	start := tracker.AddDays(tracker.Today(), -5)
	id := createHabit(t, r, "code", start, 30)

	for i := -2; i <= 0; i++ {
		day := tracker.AddDays(tracker.Today(), i)
		w, _ := doJSON(t, r, http.MethodPost, "/habits/"+id+"/toggle", gin.H{"date": day})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, data := doJSON(t, r, http.MethodGet, "/habits/"+id+"/streak", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), data["streak"])
}
