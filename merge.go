package course

// Merge collapses consecutive equal-power segments into steps. The
// comparison is exact equality on the scaled power value, so the result is
// the unique minimal sequence describing the same step function: no two
// adjacent steps share power, and every step boundary is one of the original
// raster boundaries. Annotation offsets are rebased to the merged step's
// start; total duration is preserved.
//
// Merge is idempotent: feeding its output back in merges nothing further.
func Merge(segments []Segment) []Step {
	var steps []Step
	for _, seg := range segments {
		if n := len(steps); n > 0 && steps[n-1].Power == seg.Power {
			step := &steps[n-1]
			base := seg.Start - step.Start
			for _, a := range seg.Annotations {
				step.Annotations = append(step.Annotations, Annotation{Offset: base + a.Offset, Text: a.Text})
			}
			step.Duration += seg.Duration
			continue
		}
		steps = append(steps, Step{
			Start:       seg.Start,
			Duration:    seg.Duration,
			Power:       seg.Power,
			Annotations: append([]Annotation(nil), seg.Annotations...),
		})
	}
	return steps
}
