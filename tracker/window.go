package tracker

// Zone classifies a calendar day relative to a habit's plan.
type Zone string

const (
	// ZoneBeforeStart is a day before the habit existed; never habit data.
	ZoneBeforeStart Zone = "before_start"
	// ZoneEditable is a governed day that has been reached; togglable.
	ZoneEditable Zone = "editable"
	// ZoneFuturePlanned is a governed day not yet reached; visible, not togglable.
	ZoneFuturePlanned Zone = "future_planned"
	// ZoneAfterEnd is a day past the plan's last day; immutable.
	ZoneAfterEnd Zone = "after_end"
)

// Window is a habit's governed calendar span: TargetDays days starting at
// the creation day. The zero value is not meaningful.
type Window struct {
	Start      string
	TargetDays int
}

// End returns the last day the plan covers: Start + (TargetDays - 1).
func (w Window) End() string {
	if w.TargetDays < 1 {
		return w.Start
	}
	return AddDays(w.Start, w.TargetDays-1)
}

// EditableEnd returns the last currently togglable day, the earlier of today
// and the plan end.
func (w Window) EditableEnd(today string) string {
	return MinDay(today, w.End())
}

// Governed returns every day the plan tracks, including future days.
// It always has exactly TargetDays entries for a valid window.
func (w Window) Governed() []string {
	return DayRange(w.Start, w.End())
}

// Editable returns the subset of governed days eligible for toggling.
// When the habit was created in the future the result degrades to an empty
// slice instead of failing.
func (w Window) Editable(today string) []string {
	return DayRange(w.Start, w.EditableEnd(today))
}

// InWindow reports whether day falls inside the governed span.
func (w Window) InWindow(day string) bool {
	return day >= w.Start && day <= w.End()
}

// Classify assigns day to exactly one zone, evaluated in priority order:
// before-start, after-end, editable, future-planned.
func (w Window) Classify(day, today string) Zone {
	switch {
	case day < w.Start:
		return ZoneBeforeStart
	case day > w.End():
		return ZoneAfterEnd
	case day <= w.EditableEnd(today):
		return ZoneEditable
	default:
		return ZoneFuturePlanned
	}
}
