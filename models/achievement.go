package models

import "time"

// Achievement is a one-time unlock of a milestone type for a user.
// At most one row per (user_id, type) ever exists; rows are never updated
// or deleted. The unique index backs InsertAchievementIfAbsent so a
// check-then-create race cannot produce duplicates.
type Achievement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_achievements_user_type" json:"user_id"`
	Type       string    `gorm:"size:32;not null;uniqueIndex:idx_achievements_user_type" json:"type"`
	DateEarned string    `gorm:"size:10;not null" json:"date_earned"`
	Meta       string    `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
