package course

import (
	"fmt"
	"math"
	"time"
)

// Scale applies the two linear transforms to a normalized timeline: every
// event time is divided by accel and every power is multiplied by
// powerScale. Text passes through untouched and power is never clamped; a
// fraction beyond what the target platform renders is the serializer's
// concern. Both factors must be strictly positive, which keeps the relative
// event ordering intact.
func Scale(tl Timeline, accel, powerScale float64) (Timeline, error) {
	if accel <= 0 {
		return Timeline{}, fmt.Errorf("acceleration %v must be positive: %w", accel, ErrInvalidParameter)
	}
	if powerScale <= 0 {
		return Timeline{}, fmt.Errorf("power scale %v must be positive: %w", powerScale, ErrInvalidParameter)
	}

	out := Timeline{
		Power: make([]PowerEvent, len(tl.Power)),
		Text:  make([]TextEvent, len(tl.Text)),
		End:   scaleDuration(tl.End, accel),
	}
	for i, p := range tl.Power {
		out.Power[i] = PowerEvent{Time: scaleDuration(p.Time, accel), Power: p.Power * powerScale}
	}
	for i, t := range tl.Text {
		out.Text[i] = TextEvent{Time: scaleDuration(t.Time, accel), Text: t.Text}
	}
	return out, nil
}

func scaleDuration(d time.Duration, accel float64) time.Duration {
	if accel == 1.0 {
		return d
	}
	return time.Duration(math.Round(float64(d) / accel))
}
