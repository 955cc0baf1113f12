package course

import (
	"fmt"
	"sort"
)

// Normalize validates raw sample rows and builds the Timeline. Rows may
// arrive in any order; they are stable-sorted by time, so rows sharing a
// timestamp keep their input order. Rows carrying neither power nor text are
// dropped.
//
// Normalize fails when two power-bearing rows land on the identical
// timestamp (the power at that instant would be ambiguous), when a row sits
// before the workout start, and when no power value is resolvable at time
// zero.
func Normalize(samples []Sample) (Timeline, error) {
	if len(samples) == 0 {
		return Timeline{}, fmt.Errorf("no samples: %w", ErrEmptyWorkout)
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	var tl Timeline
	for _, s := range sorted {
		if s.Power == nil && s.Text == "" {
			continue
		}
		if s.Time < 0 {
			return Timeline{}, fmt.Errorf("sample at %s precedes workout start: %w", s.Time, ErrOrdering)
		}
		if s.Power != nil {
			if n := len(tl.Power); n > 0 && tl.Power[n-1].Time == s.Time {
				return Timeline{}, fmt.Errorf("two power values at %s: %w", s.Time, ErrOrdering)
			}
			tl.Power = append(tl.Power, PowerEvent{Time: s.Time, Power: *s.Power})
		}
		if s.Text != "" {
			tl.Text = append(tl.Text, TextEvent{Time: s.Time, Text: s.Text})
		}
		if s.Time > tl.End {
			tl.End = s.Time
		}
	}

	if len(tl.Power) == 0 || tl.Power[0].Time != 0 {
		return Timeline{}, fmt.Errorf("first power sample must sit at 0s: %w", ErrMissingInitialPower)
	}
	return tl, nil
}
