package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowGovernedHasTargetDaysEntries(t *testing.T) {
	w := Window{Start: "2024-01-01", TargetDays: 7}
	governed := w.Governed()
	assert.Len(t, governed, 7)
	assert.Equal(t, "2024-01-01", governed[0])
	assert.Equal(t, "2024-01-07", governed[6])
	assert.Equal(t, "2024-01-07", w.End())
}

func TestWindowSingleDayTarget(t *testing.T) {
	w := Window{Start: "2024-05-10", TargetDays: 1}
	assert.Equal(t, "2024-05-10", w.End())
	assert.Equal(t, []string{"2024-05-10"}, w.Governed())
	assert.Equal(t, ZoneEditable, w.Classify("2024-05-10", "2024-05-10"))
	assert.Equal(t, ZoneAfterEnd, w.Classify("2024-05-11", "2024-05-11"))
}

func TestWindowEditableStopsAtToday(t *testing.T) {
	w := Window{Start: "2024-01-01", TargetDays: 30}
	editable := w.Editable("2024-01-05")
	assert.Len(t, editable, 5)
	assert.Equal(t, "2024-01-05", editable[len(editable)-1])
}

func TestWindowEditableStopsAtPlanEnd(t *testing.T) {
	w := Window{Start: "2024-01-01", TargetDays: 7}
	// Day 8: plan is over, editable window is the whole plan.
	editable := w.Editable("2024-01-08")
	assert.Len(t, editable, 7)
	assert.Equal(t, "2024-01-07", editable[6])
}

func TestWindowFutureCreationDegradesToEmpty(t *testing.T) {
	w := Window{Start: "2024-06-01", TargetDays: 10}
	assert.Empty(t, w.Editable("2024-05-20"))
	assert.Equal(t, ZoneFuturePlanned, w.Classify("2024-06-01", "2024-05-20"))
}

func TestClassifyPriorityOrder(t *testing.T) {
	w := Window{Start: "2024-01-01", TargetDays: 7}
	today := "2024-01-04"

	cases := []struct {
		day  string
		want Zone
	}{
		{"2023-12-31", ZoneBeforeStart},
		{"2024-01-01", ZoneEditable},
		{"2024-01-04", ZoneEditable},
		{"2024-01-05", ZoneFuturePlanned},
		{"2024-01-07", ZoneFuturePlanned},
		{"2024-01-08", ZoneAfterEnd},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, w.Classify(tc.day, today), "day %s", tc.day)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every day across a wide span lands in exactly one zone.
	w := Window{Start: "2024-01-10", TargetDays: 5}
	today := "2024-01-12"
	zones := map[Zone]int{}
	for _, day := range DayRange("2024-01-01", "2024-01-31") {
		zones[w.Classify(day, today)]++
	}
	assert.Equal(t, 9, zones[ZoneBeforeStart])
	assert.Equal(t, 3, zones[ZoneEditable])
	assert.Equal(t, 2, zones[ZoneFuturePlanned])
	assert.Equal(t, 17, zones[ZoneAfterEnd])
}

func TestWindowAfterEndScenario(t *testing.T) {
	// Habit created 2024-01-01 with targetDays=7, observed on day 8.
	w := Window{Start: "2024-01-01", TargetDays: 7}
	today := "2024-01-08"
	for _, day := range DayRange("2024-01-01", "2024-01-07") {
		assert.Equal(t, ZoneEditable, w.Classify(day, today), "day %s", day)
	}
	assert.Equal(t, ZoneAfterEnd, w.Classify("2024-01-08", today))
	assert.False(t, w.InWindow("2024-01-08"))
	assert.True(t, w.InWindow("2024-01-07"))
}
