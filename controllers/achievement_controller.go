package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"habitd/store"
	"habitd/tracker"
	"habitd/utils"
)

// AchievementController exposes the static catalog and per-user unlocks.
type AchievementController struct {
	store  store.Store
	engine *tracker.Engine
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(st store.Store, engine *tracker.Engine) *AchievementController {
	return &AchievementController{store: st, engine: engine}
}

// Catalog returns the fixed universe of unlockable achievement types.
func (a *AchievementController) Catalog(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": tracker.Catalog()})
}

// List returns the user's achievements plus a type -> date_earned mapping.
func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	achievements, err := a.store.ListAchievements(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list achievements")
		return
	}

	unlocked := make(map[string]string, len(achievements))
	for _, ach := range achievements {
		unlocked[ach.Type] = ach.DateEarned
	}

	utils.Success(ctx, gin.H{
		"items":    achievements,
		"unlocked": unlocked,
	})
}
