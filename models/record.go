package models

import "time"

// HabitRecord stores the completion state of a habit on one calendar day.
// The unique index on (habit_id, day) is the invariant that makes concurrent
// toggles safe: a second insert for the same pair is rejected by the database.
type HabitRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HabitID   string    `gorm:"size:36;not null;uniqueIndex:idx_records_habit_day" json:"habit_id"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_records_habit_day" json:"day"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
