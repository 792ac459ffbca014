package tracker

// Achievement types unlockable by the engine. Each type is earned at most
// once per user; the store's unique (user_id, type) index enforces that even
// when two evaluations race.
const (
	TypeFirstHabit   = "first_habit"
	TypeFirstCheckin = "first_checkin"
	TypeStreak3      = "streak_3"
	TypeStreak7      = "streak_7"
	TypeStreak30     = "streak_30"
	TypeFiveHabits   = "five_habits"
	TypeTenHabits    = "ten_habits"
	TypeWeekPerfect  = "week_perfect"
	TypeMonthPerfect = "month_perfect"
	TypeComeback     = "comeback"
)

// Config describes one unlockable achievement type and its display text.
type Config struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Catalog returns the fixed universe of achievement types in evaluation
// order. Callers get a fresh slice; the catalog itself never changes at
// runtime.
func Catalog() []Config {
	return []Config{
		{Type: TypeFirstHabit, Title: "First Habit", Description: "Create your first habit"},
		{Type: TypeFirstCheckin, Title: "First Check-in", Description: "Complete your first habit day"},
		{Type: TypeStreak3, Title: "3-Day Streak", Description: "Maintain a 3-day streak on any habit"},
		{Type: TypeStreak7, Title: "7-Day Streak", Description: "Maintain a 7-day streak on any habit"},
		{Type: TypeStreak30, Title: "30-Day Streak", Description: "Maintain a 30-day streak on any habit"},
		{Type: TypeFiveHabits, Title: "5 Habits", Description: "Create 5 habits"},
		{Type: TypeTenHabits, Title: "10 Habits", Description: "Create 10 habits"},
		{Type: TypeWeekPerfect, Title: "Perfect Week", Description: "Complete all habits every day for a week"},
		{Type: TypeMonthPerfect, Title: "Perfect Month", Description: "Complete all habits every day for a month"},
		{Type: TypeComeback, Title: "Comeback", Description: "Return after a 7+ day break and complete a habit"},
	}
}

// Snapshot carries the aggregate counters the engine evaluates after a
// state-changing operation. Counters reflect the state AFTER the operation.
type Snapshot struct {
	// HabitCount is the user's current number of habits.
	HabitCount int
	// TotalCheckins is the user's total number of completed records.
	TotalCheckins int
	// Streak is the toggled habit's streak ending at the toggled day.
	Streak int
	// PerfectWeek and PerfectMonth report whether every habit was completed
	// on every governed day of the trailing 7 / 30 day span.
	PerfectWeek  bool
	PerfectMonth bool
	// ComebackGap is the number of empty days between this completion and the
	// habit's previous one; negative when there was no previous completion.
	ComebackGap int
}

// Engine evaluates milestone predicates against snapshots. The catalog is an
// explicit immutable value injected at construction, not hidden global state.
type Engine struct {
	catalog []Config
}

// NewEngine builds an engine over the given catalog.
func NewEngine(catalog []Config) *Engine {
	return &Engine{catalog: catalog}
}

// ConfigFor looks up the display config for a type.
func (e *Engine) ConfigFor(achievementType string) (Config, bool) {
	for _, c := range e.catalog {
		if c.Type == achievementType {
			return c, true
		}
	}
	return Config{}, false
}

// Evaluate returns, in catalog order, the types whose predicate holds for the
// snapshot and that the user has not unlocked yet. Predicates use ">= threshold"
// rather than exact crossings so bulk or out-of-order completions cannot skip
// a milestone; idempotency comes from the unlocked filter plus the store's
// uniqueness constraint.
func (e *Engine) Evaluate(s Snapshot, unlocked map[string]bool) []string {
	newly := []string{}
	for _, c := range e.catalog {
		if unlocked[c.Type] {
			continue
		}
		if qualifies(c.Type, s) {
			newly = append(newly, c.Type)
		}
	}
	return newly
}

func qualifies(achievementType string, s Snapshot) bool {
	switch achievementType {
	case TypeFirstHabit:
		return s.HabitCount >= 1
	case TypeFiveHabits:
		return s.HabitCount >= 5
	case TypeTenHabits:
		return s.HabitCount >= 10
	case TypeFirstCheckin:
		return s.TotalCheckins >= 1
	case TypeStreak3:
		return s.Streak >= 3
	case TypeStreak7:
		return s.Streak >= 7
	case TypeStreak30:
		return s.Streak >= 30
	case TypeWeekPerfect:
		return s.PerfectWeek
	case TypeMonthPerfect:
		return s.PerfectMonth
	case TypeComeback:
		return s.ComebackGap >= 7
	default:
		return false
	}
}

// HabitSpan is the minimal habit view needed for perfect-span checks.
type HabitSpan struct {
	ID         string
	Start      string
	TargetDays int
}

// PerfectSpan reports whether every habit was completed on every day of the
// `length`-day span ending at reference, counting only days inside each
// habit's editable window. A span with no governed habit-days never
// qualifies, so a user without habits cannot earn a perfect week.
func PerfectSpan(habits []HabitSpan, completed map[string]map[string]bool, reference string, length int) bool {
	if length < 1 || len(habits) == 0 {
		return false
	}

	observed := 0
	for _, h := range habits {
		w := Window{Start: h.Start, TargetDays: h.TargetDays}
		day := reference
		for i := 0; i < length; i++ {
			if w.Classify(day, reference) == ZoneEditable {
				if !completed[h.ID][day] {
					return false
				}
				observed++
			}
			day = AddDays(day, -1)
		}
	}
	// Require the span to be fully covered by at least one habit's plan;
	// otherwise a habit created yesterday would grant a perfect week.
	return observed >= length
}

// ComebackGap returns the number of empty days between day and the habit's
// most recent completion strictly before day, or -1 when no earlier
// completion exists.
func ComebackGap(completed map[string]bool, day string) int {
	prev := ""
	for d := range completed {
		if d < day && d > prev {
			prev = d
		}
	}
	if prev == "" {
		return -1
	}
	return DaysBetween(prev, day) - 1
}
