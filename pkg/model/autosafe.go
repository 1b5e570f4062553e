package model

import "time"

// DefaultCutoffHour is the wall-clock hour after which the current day is
// considered over and an undecided day is backfilled as safe.
const DefaultCutoffHour = 17

// ApplyAutoSafe backfills undecided days: every day strictly before the
// current calendar day becomes safe, and the current day too once now is at
// or past the cutoff hour. Days in the future are untouched.
//
// When no day qualifies the IDENTICAL record pointer is returned, so
// downstream change detection (and the save debounce behind it) is not
// triggered spuriously. Otherwise a deep clone with the days set is returned.
// The transition is idempotent for a fixed now.
func ApplyAutoSafe(r *SafetyRecord, now time.Time, cutoffHour int) *SafetyRecord {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	pastCutoff := now.Hour() >= cutoffHour

	qualifies := func(m Month, d Day) bool {
		if d.Status != nil {
			return false
		}
		date := time.Date(m.Year, time.Month(m.Month), d.Day, 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			return true
		}
		return date.Equal(today) && pastCutoff
	}

	changed := false
	for _, m := range r.MonthlyData {
		for _, d := range m.Days {
			if qualifies(m, d) {
				changed = true
				break
			}
		}
		if changed {
			break
		}
	}
	if !changed {
		return r
	}

	out := r.Clone()
	for i, m := range out.MonthlyData {
		for j, d := range m.Days {
			if qualifies(m, d) {
				safe := StatusSafe
				out.MonthlyData[i].Days[j].Status = &safe
			}
		}
	}
	return out
}

// Streak holds the consecutive-safe-day counters for the streak panel.
type Streak struct {
	Current int
	Best    int
}

// ComputeStreak walks the calendar in date order and returns the run of safe
// days ending at the last decided day, plus the best run of the year. Any
// near miss or accident breaks a run; undecided days are skipped (after the
// auto-safe backfill only future days are undecided).
func ComputeStreak(r *SafetyRecord) Streak {
	var st Streak
	run := 0
	for _, m := range r.MonthlyData {
		for _, d := range m.Days {
			if d.Status == nil {
				continue
			}
			if *d.Status == StatusSafe {
				run++
				if run > st.Best {
					st.Best = run
				}
			} else {
				run = 0
			}
		}
	}
	st.Current = run
	return st
}
