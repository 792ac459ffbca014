package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit is a recurring habit with a fixed tracking plan. Immutable after
// creation except for deletion, which cascades to its records.
type Habit struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint          `gorm:"index;not null" json:"user_id"`
	Name        string        `gorm:"size:128;not null" json:"name"`
	Description string        `gorm:"size:512" json:"description"`
	Color       string        `gorm:"size:16" json:"color"`
	CreatedDay  string        `gorm:"size:10;not null" json:"created_day"`
	TargetDays  int           `gorm:"not null" json:"target_days"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Records     []HabitRecord `gorm:"foreignKey:HabitID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate assigns an id when the caller did not provide one.
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
