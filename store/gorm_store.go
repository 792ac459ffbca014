package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habitd/models"
)

// gormStore implements Store on top of a *gorm.DB (MySQL in production,
// sqlite in tests).
type gormStore struct {
	db *gorm.DB
}

// New wraps a gorm DB in the Store interface.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListHabits(userID uint) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error
	return habits, err
}

func (s *gormStore) GetHabit(habitID string) (*models.Habit, error) {
	var habit models.Habit
	if err := s.db.Where("id = ?", habitID).First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *gormStore) InsertHabit(habit *models.Habit) error {
	return s.db.Create(habit).Error
}

func (s *gormStore) DeleteHabitCascade(habitID string) error {
	// The habit and its records go together; one transaction keeps a failed
	// record wipe from leaving a half-deleted habit behind.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", habitID).Delete(&models.Habit{}).Error; err != nil {
			return err
		}
		return tx.Where("habit_id = ?", habitID).Delete(&models.HabitRecord{}).Error
	})
}

func (s *gormStore) ListRecords(userID uint) ([]models.HabitRecord, error) {
	var records []models.HabitRecord
	err := s.db.Where("user_id = ?", userID).Order("day ASC").Find(&records).Error
	return records, err
}

func (s *gormStore) ListHabitRecords(habitID string) ([]models.HabitRecord, error) {
	var records []models.HabitRecord
	err := s.db.Where("habit_id = ?", habitID).Order("day ASC").Find(&records).Error
	return records, err
}

func (s *gormStore) ToggleRecord(userID uint, habitID, day string) (models.HabitRecord, bool, error) {
	record := models.HabitRecord{
		HabitID:   habitID,
		Day:       day,
		UserID:    userID,
		Completed: true,
	}

	// First toggle of a day always marks it done. The conflict clause rides
	// on the (habit_id, day) unique index, so two concurrent first toggles
	// cannot both insert; the loser falls through to the flip path.
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "habit_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&record)
	if res.Error != nil {
		return models.HabitRecord{}, false, res.Error
	}
	if res.RowsAffected == 1 {
		return record, true, nil
	}

	// Record exists: flip its completed flag in place.
	var existing models.HabitRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ? AND day = ?", habitID, day).First(&existing).Error; err != nil {
			return err
		}
		existing.Completed = !existing.Completed
		return tx.Model(&existing).Update("completed", existing.Completed).Error
	})
	if err != nil {
		return models.HabitRecord{}, false, err
	}
	return existing, false, nil
}

func (s *gormStore) ListAchievements(userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&achievements).Error
	return achievements, err
}

func (s *gormStore) InsertAchievementIfAbsent(userID uint, achievementType, dateEarned, meta string) (*models.Achievement, error) {
	achievement := models.Achievement{
		UserID:     userID,
		Type:       achievementType,
		DateEarned: dateEarned,
		Meta:       meta,
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoNothing: true,
	}).Create(&achievement)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Already earned; a duplicate unlock is not an error.
		return nil, nil
	}
	return &achievement, nil
}

// IsNotFound reports whether err is the store's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
