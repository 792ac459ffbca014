package models

import "time"

// UsageStat stores aggregated request counts per day and endpoint.
type UsageStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_usage_date_path" json:"date"`
	Path      string    `gorm:"size:255;not null;index;uniqueIndex:idx_usage_date_path" json:"path"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
