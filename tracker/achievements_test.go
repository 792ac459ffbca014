package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(Catalog())
}

func TestCatalogCoversAllTypes(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 10)
	seen := map[string]bool{}
	for _, c := range catalog {
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Description)
		assert.False(t, seen[c.Type], "duplicate type %s", c.Type)
		seen[c.Type] = true
	}
}

func TestEvaluateFirstHabit(t *testing.T) {
	e := newTestEngine()
	got := e.Evaluate(Snapshot{HabitCount: 1, ComebackGap: -1}, map[string]bool{})
	assert.Equal(t, []string{TypeFirstHabit}, got)
}

func TestEvaluateFirstHabitFiresOnlyOnce(t *testing.T) {
	e := newTestEngine()
	unlocked := map[string]bool{}

	// Creating three habits in sequence unlocks first_habit exactly once.
	for i := 1; i <= 3; i++ {
		for _, typ := range e.Evaluate(Snapshot{HabitCount: i, ComebackGap: -1}, unlocked) {
			assert.False(t, unlocked[typ])
			unlocked[typ] = true
		}
	}
	assert.True(t, unlocked[TypeFirstHabit])
	assert.Len(t, unlocked, 1)
}

func TestEvaluateHabitCountThresholdsUseAtLeast(t *testing.T) {
	e := newTestEngine()
	// Jumping from 0 straight to 6 habits (bulk import) still grants both
	// first_habit and five_habits.
	got := e.Evaluate(Snapshot{HabitCount: 6, ComebackGap: -1}, map[string]bool{})
	assert.Equal(t, []string{TypeFirstHabit, TypeFiveHabits}, got)

	got = e.Evaluate(Snapshot{HabitCount: 12, ComebackGap: -1}, map[string]bool{})
	assert.Contains(t, got, TypeTenHabits)
}

func TestEvaluateStreakMilestones(t *testing.T) {
	e := newTestEngine()

	got := e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 3, Streak: 3, ComebackGap: 0}, map[string]bool{
		TypeFirstHabit:   true,
		TypeFirstCheckin: true,
	})
	assert.Equal(t, []string{TypeStreak3}, got)

	got = e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 7, Streak: 7, ComebackGap: 0}, map[string]bool{
		TypeFirstHabit:   true,
		TypeFirstCheckin: true,
		TypeStreak3:      true,
	})
	assert.Equal(t, []string{TypeStreak7}, got)
}

func TestEvaluateSkipsUnlocked(t *testing.T) {
	e := newTestEngine()
	unlocked := map[string]bool{TypeFirstHabit: true, TypeFirstCheckin: true}
	got := e.Evaluate(Snapshot{HabitCount: 2, TotalCheckins: 5, Streak: 1, ComebackGap: 0}, unlocked)
	assert.Empty(t, got)
}

func TestEvaluateComeback(t *testing.T) {
	e := newTestEngine()
	unlocked := map[string]bool{TypeFirstHabit: true, TypeFirstCheckin: true}

	assert.Empty(t, e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 2, Streak: 1, ComebackGap: 6}, unlocked))
	assert.Equal(t, []string{TypeComeback},
		e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 2, Streak: 1, ComebackGap: 7}, unlocked))
	// No previous completion at all: not a comeback.
	assert.Empty(t, e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 1, Streak: 1, ComebackGap: -1}, unlocked))
}

func TestEvaluatePerfectSpans(t *testing.T) {
	e := newTestEngine()
	unlocked := map[string]bool{TypeFirstHabit: true, TypeFirstCheckin: true}
	got := e.Evaluate(Snapshot{HabitCount: 1, TotalCheckins: 40, Streak: 2, PerfectWeek: true, PerfectMonth: true, ComebackGap: 0}, unlocked)
	assert.Equal(t, []string{TypeWeekPerfect, TypeMonthPerfect}, got)
}

func TestConfigFor(t *testing.T) {
	e := newTestEngine()
	c, ok := e.ConfigFor(TypeStreak30)
	require.True(t, ok)
	assert.Equal(t, "30-Day Streak", c.Title)

	_, ok = e.ConfigFor("unknown")
	assert.False(t, ok)
}

func TestComebackGap(t *testing.T) {
	completed := CompletedSet([]string{"2024-01-01", "2024-01-10"})
	// Jan 2 through Jan 9 are empty: an 8-day gap before the Jan 10 completion.
	assert.Equal(t, 8, ComebackGap(CompletedSet([]string{"2024-01-01"}), "2024-01-10"))
	// Previous completion is the latest one before the day.
	assert.Equal(t, 0, ComebackGap(completed, "2024-01-11"))
	// No earlier completion.
	assert.Equal(t, -1, ComebackGap(map[string]bool{}, "2024-01-10"))
	assert.Equal(t, -1, ComebackGap(CompletedSet([]string{"2024-01-10"}), "2024-01-10"))
}

func TestPerfectSpanAllHabitsAllDays(t *testing.T) {
	habits := []HabitSpan{
		{ID: "a", Start: "2024-01-01", TargetDays: 30},
		{ID: "b", Start: "2024-01-01", TargetDays: 30},
	}
	completed := map[string]map[string]bool{
		"a": CompletedSet(DayRange("2024-01-04", "2024-01-10")),
		"b": CompletedSet(DayRange("2024-01-04", "2024-01-10")),
	}
	assert.True(t, PerfectSpan(habits, completed, "2024-01-10", 7))
}

func TestPerfectSpanFailsOnOneMiss(t *testing.T) {
	habits := []HabitSpan{
		{ID: "a", Start: "2024-01-01", TargetDays: 30},
		{ID: "b", Start: "2024-01-01", TargetDays: 30},
	}
	completed := map[string]map[string]bool{
		"a": CompletedSet(DayRange("2024-01-04", "2024-01-10")),
		"b": CompletedSet([]string{"2024-01-04", "2024-01-05", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"}),
	}
	assert.False(t, PerfectSpan(habits, completed, "2024-01-10", 7))
}

func TestPerfectSpanIgnoresDaysOutsideHabitWindow(t *testing.T) {
	// Habit created mid-span: only its governed days must be completed, but a
	// lone young habit cannot cover the span by itself.
	young := []HabitSpan{{ID: "a", Start: "2024-01-08", TargetDays: 30}}
	completed := map[string]map[string]bool{
		"a": CompletedSet(DayRange("2024-01-08", "2024-01-10")),
	}
	assert.False(t, PerfectSpan(young, completed, "2024-01-10", 7))

	// Paired with a fully covering habit, the young habit's pre-creation days
	// are not held against it.
	both := []HabitSpan{
		{ID: "a", Start: "2024-01-08", TargetDays: 30},
		{ID: "b", Start: "2024-01-01", TargetDays: 30},
	}
	completed["b"] = CompletedSet(DayRange("2024-01-04", "2024-01-10"))
	assert.True(t, PerfectSpan(both, completed, "2024-01-10", 7))
}

func TestPerfectSpanNoHabits(t *testing.T) {
	assert.False(t, PerfectSpan(nil, nil, "2024-01-10", 7))
}
