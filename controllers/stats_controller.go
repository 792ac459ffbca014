package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"habitd/models"
	"habitd/tracker"
	"habitd/utils"
)

// StatsController provides aggregate statistics for the service.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate counters across all users, cached briefly in
// redis since nothing here needs to be fresher than a minute.
func (s *StatsController) GetStats(ctx *gin.Context) {
	const cacheKey = "cache:stats:overview"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var userCount int64
	var habitCount int64
	var checkinCount int64
	var achievementCount int64
	var dailyActive int64

	// Fall back to 0 per counter instead of failing the whole endpoint.
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Habit{}).Count(&habitCount).Error; err != nil {
		habitCount = 0
	}
	if err := s.db.Model(&models.HabitRecord{}).Where("completed = ?", true).Count(&checkinCount).Error; err != nil {
		checkinCount = 0
	}
	if err := s.db.Model(&models.Achievement{}).Count(&achievementCount).Error; err != nil {
		achievementCount = 0
	}

	today := tracker.Today()
	if err := s.db.Model(&models.UsageStat{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	payload := gin.H{
		"user_count":        userCount,
		"habit_count":       habitCount,
		"checkin_count":     checkinCount,
		"achievement_count": achievementCount,
		"daily_requests":    dailyActive,
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}
