package tracker

// StreakLookbackDays bounds the backward walk of ComputeStreak. A streak
// longer than the cap reports the cap; this keeps the calculation O(cap)
// instead of O(history) and is a documented display limitation.
const StreakLookbackDays = 30

// ComputeStreak counts consecutive completed days ending exactly at
// reference. The chain breaks at the first missing day, so an incomplete
// reference day always yields 0 even when an unbroken run ended yesterday:
// "days in a row" resets immediately, it does not credit the previous run.
func ComputeStreak(completed map[string]bool, reference string) int {
	streak := 0
	day := reference
	for i := 0; i < StreakLookbackDays; i++ {
		if !completed[day] {
			break
		}
		streak++
		day = AddDays(day, -1)
	}
	return streak
}

// CompletedSet collapses a list of completed day keys into a lookup set.
func CompletedSet(days []string) map[string]bool {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}
