package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"habitd/models"
	"habitd/store"
	"habitd/tracker"
	"habitd/utils"
)

const (
	minTargetDays = 1
	maxTargetDays = 365
)

// HabitController manages habits, their daily completion records and the
// achievement evaluation that follows every state change.
type HabitController struct {
	db     *gorm.DB
	store  store.Store
	engine *tracker.Engine
}

// NewHabitController creates a new controller instance.
func NewHabitController(db *gorm.DB, st store.Store, engine *tracker.Engine) *HabitController {
	return &HabitController{db: db, store: st, engine: engine}
}

type habitView struct {
	models.Habit
	Streak        int `json:"streak"`
	CompletedDays int `json:"completed_days"`
}

// ListHabits returns the user's habits with their current streak and
// completion count.
func (h *HabitController) ListHabits(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habits, err := h.store.ListHabits(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list habits")
		return
	}
	records, err := h.store.ListRecords(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list records")
		return
	}

	completed := completedByHabit(records)
	today := tracker.Today()

	items := make([]habitView, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitView{
			Habit:         habit,
			Streak:        tracker.ComputeStreak(completed[habit.ID], today),
			CompletedDays: len(completed[habit.ID]),
		})
	}

	utils.Success(ctx, gin.H{"items": items})
}

// CreateHabit validates and stores a new habit, then evaluates habit-count
// achievements against the grown habit list.
func (h *HabitController) CreateHabit(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
		TargetDays  int    `json:"target_days" binding:"required"`
		CreatedDay  string `json:"created_day"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	// Validation happens before any store call.
	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "habit name cannot be empty")
		return
	}
	if req.TargetDays < minTargetDays || req.TargetDays > maxTargetDays {
		utils.Error(ctx, http.StatusBadRequest, 40022, "target days must be between 1 and 365")
		return
	}

	// Clients send their local calendar day so the plan starts on the day
	// the user saw; server-local today is the fallback.
	createdDay := req.CreatedDay
	if createdDay == "" {
		createdDay = tracker.Today()
	} else if !tracker.ValidDay(createdDay) {
		utils.Error(ctx, http.StatusBadRequest, 40023, "created_day must be a YYYY-MM-DD day")
		return
	}

	habit := models.Habit{
		UserID:      userID,
		Name:        name,
		Description: utils.Sanitize(strings.TrimSpace(req.Description)),
		Color:       strings.TrimSpace(req.Color),
		CreatedDay:  createdDay,
		TargetDays:  req.TargetDays,
	}

	if err := h.store.InsertHabit(&habit); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create habit")
		return
	}

	habits, err := h.store.ListHabits(userID)
	if err == nil {
		h.unlockAchievements(ctx, userID, tracker.Snapshot{
			HabitCount:  len(habits),
			ComebackGap: -1,
		})
	}

	utils.Success(ctx, gin.H{"habit": habit})
}

// DeleteHabit removes a habit and all of its records as one unit.
func (h *HabitController) DeleteHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habit, err := h.ownedHabit(ctx, userID)
	if err != nil {
		return
	}

	if err := h.store.DeleteHabitCascade(habit.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete habit")
		return
	}

	utils.Success(ctx, gin.H{"deleted": habit.ID})
}

// ToggleDay flips the completion state of one plan day. Days outside the
// editable window are silently rejected: the current state comes back with
// toggled=false and nothing is written.
func (h *HabitController) ToggleDay(ctx *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	// Body is optional; an empty date means today.
	_ = ctx.ShouldBindJSON(&req)

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habit, err := h.ownedHabit(ctx, userID)
	if err != nil {
		return
	}

	day := req.Date
	if day == "" {
		day = tracker.Today()
	} else if !tracker.ValidDay(day) {
		utils.Error(ctx, http.StatusBadRequest, 40024, "date must be a YYYY-MM-DD day")
		return
	}

	today := tracker.Today()
	window := tracker.Window{Start: habit.CreatedDay, TargetDays: habit.TargetDays}
	if zone := window.Classify(day, today); zone != tracker.ZoneEditable {
		// The UI prevents this; when it happens anyway it is a no-op, not an
		// error. Echo whatever state the day currently has.
		completed := false
		if records, err := h.store.ListHabitRecords(habit.ID); err == nil {
			for _, r := range records {
				if r.Day == day {
					completed = r.Completed
					break
				}
			}
		}
		utils.Sugar.Debugw("toggle outside editable window ignored",
			"habit_id", habit.ID, "day", day, "zone", zone)
		utils.Success(ctx, gin.H{"completed": completed, "toggled": false, "zone": zone})
		return
	}

	record, created, err := h.store.ToggleRecord(userID, habit.ID, day)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to toggle day")
		return
	}

	// Only a brand-new completed record can cross a milestone; a flip either
	// un-completes a day or restores one that was already counted once.
	if created && record.Completed {
		h.evaluateAfterToggle(ctx, userID, habit, day)
	}

	utils.Success(ctx, gin.H{"completed": record.Completed, "toggled": true, "zone": tracker.ZoneEditable})
}

// Streak returns the habit's consecutive-day streak ending today.
func (h *HabitController) Streak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habit, err := h.ownedHabit(ctx, userID)
	if err != nil {
		return
	}

	records, err := h.store.ListHabitRecords(habit.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list records")
		return
	}

	completed := map[string]bool{}
	for _, r := range records {
		if r.Completed {
			completed[r.Day] = true
		}
	}

	utils.Success(ctx, gin.H{
		"habit_id": habit.ID,
		"streak":   tracker.ComputeStreak(completed, tracker.Today()),
	})
}

type calendarDay struct {
	Day       string       `json:"day"`
	Zone      tracker.Zone `json:"zone"`
	Completed bool         `json:"completed"`
}

// Calendar classifies every requested day against the habit's window and
// reports its completion state, ready for calendar rendering.
func (h *HabitController) Calendar(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	habit, err := h.ownedHabit(ctx, userID)
	if err != nil {
		return
	}

	window := tracker.Window{Start: habit.CreatedDay, TargetDays: habit.TargetDays}

	from := ctx.Query("from")
	to := ctx.Query("to")
	if from == "" {
		from = window.Start
	}
	if to == "" {
		to = window.End()
	}
	if !tracker.ValidDay(from) || !tracker.ValidDay(to) {
		utils.Error(ctx, http.StatusBadRequest, 40025, "from/to must be YYYY-MM-DD days")
		return
	}

	records, err := h.store.ListHabitRecords(habit.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list records")
		return
	}
	completed := map[string]bool{}
	for _, r := range records {
		if r.Completed {
			completed[r.Day] = true
		}
	}

	today := tracker.Today()
	days := tracker.DayRange(from, to)
	out := make([]calendarDay, 0, len(days))
	for _, day := range days {
		out = append(out, calendarDay{
			Day:       day,
			Zone:      window.Classify(day, today),
			Completed: completed[day],
		})
	}

	utils.Success(ctx, gin.H{
		"habit_id":     habit.ID,
		"window_start": window.Start,
		"window_end":   window.End(),
		"today":        today,
		"days":         out,
	})
}

// ListRecords returns all of the user's habit records.
func (h *HabitController) ListRecords(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	records, err := h.store.ListRecords(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list records")
		return
	}

	utils.Success(ctx, gin.H{"items": records})
}

// ownedHabit loads the :id habit and verifies ownership, writing the error
// response itself when the habit is missing or foreign.
func (h *HabitController) ownedHabit(ctx *gin.Context, userID uint) (*models.Habit, error) {
	habitID := strings.TrimSpace(ctx.Param("id"))
	if habitID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40026, "missing habit id")
		return nil, gorm.ErrRecordNotFound
	}

	habit, err := h.store.GetHabit(habitID)
	if err != nil {
		if store.IsNotFound(err) {
			utils.Error(ctx, http.StatusNotFound, 40420, "habit not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load habit")
		}
		return nil, err
	}
	if habit.UserID != userID {
		// Do not leak existence of other users' habits.
		utils.Error(ctx, http.StatusNotFound, 40420, "habit not found")
		return nil, gorm.ErrRecordNotFound
	}
	return habit, nil
}

// evaluateAfterToggle rebuilds the aggregate counters from the freshly
// updated record set and unlocks whatever newly qualifies.
func (h *HabitController) evaluateAfterToggle(ctx *gin.Context, userID uint, habit *models.Habit, day string) {
	habits, err := h.store.ListHabits(userID)
	if err != nil {
		utils.Sugar.Warnw("achievement evaluation skipped", "err", err)
		return
	}
	records, err := h.store.ListRecords(userID)
	if err != nil {
		utils.Sugar.Warnw("achievement evaluation skipped", "err", err)
		return
	}

	completed := completedByHabit(records)
	totalCheckins := 0
	for _, days := range completed {
		totalCheckins += len(days)
	}

	spans := make([]tracker.HabitSpan, 0, len(habits))
	for _, hb := range habits {
		spans = append(spans, tracker.HabitSpan{ID: hb.ID, Start: hb.CreatedDay, TargetDays: hb.TargetDays})
	}

	// The toggled day is already in the completed set; the comeback gap looks
	// strictly before it.
	snapshot := tracker.Snapshot{
		HabitCount:    len(habits),
		TotalCheckins: totalCheckins,
		Streak:        tracker.ComputeStreak(completed[habit.ID], day),
		PerfectWeek:   tracker.PerfectSpan(spans, completed, day, 7),
		PerfectMonth:  tracker.PerfectSpan(spans, completed, day, 30),
		ComebackGap:   tracker.ComebackGap(completed[habit.ID], day),
	}

	h.unlockAchievements(ctx, userID, snapshot)
}

// unlockAchievements persists every newly qualifying type. The store's
// unique (user_id, type) index absorbs races: a duplicate unlock is a no-op.
func (h *HabitController) unlockAchievements(ctx *gin.Context, userID uint, snapshot tracker.Snapshot) {
	existing, err := h.store.ListAchievements(userID)
	if err != nil {
		utils.Sugar.Warnw("achievement evaluation skipped", "err", err)
		return
	}
	unlocked := make(map[string]bool, len(existing))
	for _, a := range existing {
		unlocked[a.Type] = true
	}

	today := tracker.Today()
	for _, achievementType := range h.engine.Evaluate(snapshot, unlocked) {
		created, err := h.store.InsertAchievementIfAbsent(userID, achievementType, today, "")
		if err != nil {
			utils.Sugar.Warnw("achievement unlock failed", "type", achievementType, "err", err)
			continue
		}
		if created == nil {
			// Lost a race with another request; the achievement exists.
			continue
		}

		utils.Sugar.Infow("achievement unlocked", "user_id", userID, "type", achievementType)
		utils.InvalidateByPrefix("cache:stats")
		h.notifyAchievement(userID, achievementType)
	}
}

// notifyAchievement sends the unlock email in the background; the API
// response never waits on SMTP.
func (h *HabitController) notifyAchievement(userID uint, achievementType string) {
	cfg, ok := h.engine.ConfigFor(achievementType)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}

	go func(email string) {
		if err := utils.SendAchievementMail(email, cfg.Title, cfg.Description); err != nil {
			utils.Sugar.Debugw("achievement mail not sent", "type", achievementType, "err", err)
		}
	}(user.Email)
}

func completedByHabit(records []models.HabitRecord) map[string]map[string]bool {
	completed := map[string]map[string]bool{}
	for _, r := range records {
		if !r.Completed {
			continue
		}
		if completed[r.HabitID] == nil {
			completed[r.HabitID] = map[string]bool{}
		}
		completed[r.HabitID][r.Day] = true
	}
	return completed
}
