// Package store is the persistence boundary for habits, records and
// achievements. The engine talks to the Store interface only; the GORM
// implementation owns the uniqueness and cascade invariants so they hold
// even when concurrent requests race.
package store

import "habitd/models"

// Store exposes the record store the tracking core consumes.
type Store interface {
	// Habits.
	ListHabits(userID uint) ([]models.Habit, error)
	GetHabit(habitID string) (*models.Habit, error)
	InsertHabit(habit *models.Habit) error
	// DeleteHabitCascade removes a habit and all of its records as one unit.
	DeleteHabitCascade(habitID string) error

	// Records.
	ListRecords(userID uint) ([]models.HabitRecord, error)
	ListHabitRecords(habitID string) ([]models.HabitRecord, error)
	// ToggleRecord flips the completion state of (habitID, day), creating the
	// record as completed on first toggle. created reports whether a new
	// completed record came into existence.
	ToggleRecord(userID uint, habitID, day string) (record models.HabitRecord, created bool, err error)

	// Achievements.
	ListAchievements(userID uint) ([]models.Achievement, error)
	// InsertAchievementIfAbsent unlocks a type once per user. A duplicate
	// insert is a successful no-op returning (nil, nil).
	InsertAchievementIfAbsent(userID uint, achievementType, dateEarned, meta string) (*models.Achievement, error)
}
