package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"habitd/models"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Habit{}, &models.HabitRecord{}, &models.Achievement{}))

	// Habits reference users; seed the two accounts the tests use.
	for i, name := range []string{"alice", "bob"} {
		user := models.User{Username: name}
		user.ID = uint(i + 1)
		require.NoError(t, db.Create(&user).Error)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return New(db)
}

func seedHabit(t *testing.T, s Store, userID uint, name, createdDay string, targetDays int) *models.Habit {
	t.Helper()
	habit := &models.Habit{
		UserID:     userID,
		Name:       name,
		Color:      "#4F46E5",
		CreatedDay: createdDay,
		TargetDays: targetDays,
	}
	require.NoError(t, s.InsertHabit(habit))
	require.NotEmpty(t, habit.ID)
	return habit
}

func TestInsertAndListHabits(t *testing.T) {
	s := newTestStore(t)
	seedHabit(t, s, 1, "Read", "2024-01-01", 30)
	seedHabit(t, s, 1, "Run", "2024-01-02", 7)
	seedHabit(t, s, 2, "Swim", "2024-01-03", 14)

	habits, err := s.ListHabits(1)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read", habits[0].Name)
	assert.Equal(t, "Run", habits[1].Name)
}

func TestGetHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetHabit("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestToggleRecordCreateFlipFlip(t *testing.T) {
	s := newTestStore(t)
	habit := seedHabit(t, s, 1, "Read", "2024-01-01", 30)

	// First toggle creates a completed record.
	rec, created, err := s.ToggleRecord(1, habit.ID, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, rec.Completed)

	// Second toggle flips it to not completed, same row.
	rec2, created, err := s.ToggleRecord(1, habit.ID, "2024-01-03")
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, rec2.Completed)
	assert.Equal(t, rec.ID, rec2.ID)

	// Third toggle flips it back to completed without creating a new row.
	rec3, created, err := s.ToggleRecord(1, habit.ID, "2024-01-03")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, rec3.Completed)

	records, err := s.ListHabitRecords(habit.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestToggleRecordOnePerDayAcrossDays(t *testing.T) {
	s := newTestStore(t)
	habit := seedHabit(t, s, 1, "Read", "2024-01-01", 30)

	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, created, err := s.ToggleRecord(1, habit.ID, day)
		require.NoError(t, err)
		assert.True(t, created)
	}

	records, err := s.ListRecords(1)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestDeleteHabitCascadeRemovesRecords(t *testing.T) {
	s := newTestStore(t)
	habit := seedHabit(t, s, 1, "Read", "2024-01-01", 30)
	other := seedHabit(t, s, 1, "Run", "2024-01-01", 30)

	_, _, err := s.ToggleRecord(1, habit.ID, "2024-01-01")
	require.NoError(t, err)
	_, _, err = s.ToggleRecord(1, habit.ID, "2024-01-02")
	require.NoError(t, err)
	_, _, err = s.ToggleRecord(1, other.ID, "2024-01-01")
	require.NoError(t, err)

	require.NoError(t, s.DeleteHabitCascade(habit.ID))

	_, err = s.GetHabit(habit.ID)
	assert.True(t, IsNotFound(err))

	records, err := s.ListRecords(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, other.ID, records[0].HabitID)
}

func TestInsertAchievementIfAbsentIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, err := s.InsertAchievementIfAbsent(1, "first_habit", "2024-01-01", "")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "2024-01-01", first.DateEarned)

	// Second unlock attempt is a successful no-op.
	dup, err := s.InsertAchievementIfAbsent(1, "first_habit", "2024-02-01", "")
	require.NoError(t, err)
	assert.Nil(t, dup)

	// A different user may earn the same type.
	otherUser, err := s.InsertAchievementIfAbsent(2, "first_habit", "2024-02-01", "")
	require.NoError(t, err)
	require.NotNil(t, otherUser)

	achievements, err := s.ListAchievements(1)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "2024-01-01", achievements[0].DateEarned)
}
