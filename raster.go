package course

import (
	"fmt"
	"time"
)

// Rasterize slices the scaled timeline into raster-aligned segments covering
// [0, tl.End). Each slice gets the step function's value at its start: a
// power change strictly inside a slice only takes effect from the next slice
// boundary on, so the raster must be chosen at least as fine as the finest
// meaningful power change or short-lived changes are absorbed.
//
// Every text event lands in the slice containing its time, with the offset
// measured from the slice start. A text event at exactly tl.End belongs to
// the final slice, with its offset equal to that slice's duration.
//
// The slice durations always sum to tl.End exactly: all slices are raster
// wide except possibly the last, which is truncated to the remainder.
func Rasterize(tl Timeline, raster time.Duration) ([]Segment, error) {
	if raster <= 0 {
		return nil, fmt.Errorf("raster %s must be positive: %w", raster, ErrInvalidParameter)
	}

	var segments []Segment
	next := 0 // index into tl.Text, consumed in order
	for start := time.Duration(0); start < tl.End; start += raster {
		duration := raster
		if start+duration > tl.End {
			duration = tl.End - start
		}
		end := start + duration

		seg := Segment{Start: start, Duration: duration, Power: tl.PowerAt(start)}
		for next < len(tl.Text) && (tl.Text[next].Time < end || end == tl.End) {
			seg.Annotations = append(seg.Annotations, Annotation{
				Offset: tl.Text[next].Time - start,
				Text:   tl.Text[next].Text,
			})
			next++
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
