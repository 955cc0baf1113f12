// Package course turns a sparse table of (time, power, text) course samples
// into a fixed-granularity list of steady-power workout steps. Samples carry
// power forward until the next change, so the table only needs a row where
// something happens: the engine normalizes the rows into a step function,
// slices it on a raster grid, merges equal-power slices and keeps every text
// hint attached to the step that contains it.
package course

import (
	"sort"
	"time"
)

// Sample is one raw input row: an offset from the workout start plus an
// optional power value and/or an optional rider-facing text hint. Power is a
// fraction of threshold power (1.0 = threshold); values above 1.0 are legal.
type Sample struct {
	Time  time.Duration
	Power *float64 // nil for text-only rows
	Text  string   // empty for power-only rows
}

// PowerEvent is one change point of the carry-forward power step function.
type PowerEvent struct {
	Time  time.Duration
	Power float64
}

// TextEvent is one positional text hint.
type TextEvent struct {
	Time time.Duration
	Text string
}

// Timeline is a validated sample sequence, split into power change points and
// text events, both sorted by time. End is the workout's implicit end: the
// time of the last sample.
type Timeline struct {
	Power []PowerEvent
	Text  []TextEvent
	End   time.Duration
}

// PowerAt evaluates the step function at t: the power of the latest change
// point at or before t. Normalize guarantees a change point at time zero, so
// the function is defined for every non-negative t.
func (tl Timeline) PowerAt(t time.Duration) float64 {
	// Latest change point with Time <= t.
	i := sort.Search(len(tl.Power), func(i int) bool {
		return tl.Power[i].Time > t
	})
	if i == 0 {
		return 0
	}
	return tl.Power[i-1].Power
}

// Annotation is a text hint positioned relative to its owning segment or step.
type Annotation struct {
	Offset time.Duration
	Text   string
}

// Segment is one raster-aligned slice of the step function, pre-merge. Slices
// are contiguous and non-overlapping; every slice has the raster width except
// possibly the last, which is truncated to the remaining course duration.
type Segment struct {
	Start       time.Duration
	Duration    time.Duration
	Power       float64
	Annotations []Annotation
}

// Step is a maximal run of equal-power segments, the unit the workout file is
// written from. Annotation offsets are relative to the step's start.
type Step struct {
	Start       time.Duration
	Duration    time.Duration
	Power       float64
	Annotations []Annotation
}

// Params are the shaping factors for one conversion run.
type Params struct {
	// Accel divides elapsed time; 2.0 packs a two-hour course into one hour.
	Accel float64
	// PowerScale multiplies every power fraction. No clamping is applied.
	PowerScale float64
	// Raster is the slice width used to discretize the step function.
	Raster time.Duration
}

// Metadata is the caller-supplied workout header.
type Metadata struct {
	Name        string
	Description string
	Author      string
	SportType   string
}

// Workout is the finished descriptor: ordered steps plus metadata. It is
// immutable once built and owned by the caller that requests serialization.
type Workout struct {
	Meta  Metadata
	Steps []Step
}

// TotalDuration is the sum of all step durations.
func (w *Workout) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range w.Steps {
		total += s.Duration
	}
	return total
}

// Convert runs the whole engine over raw samples:
// Normalize -> Scale -> Rasterize -> Merge -> NewWorkout.
func Convert(samples []Sample, p Params, meta Metadata) (*Workout, error) {
	tl, err := Normalize(samples)
	if err != nil {
		return nil, err
	}
	scaled, err := Scale(tl, p.Accel, p.PowerScale)
	if err != nil {
		return nil, err
	}
	segments, err := Rasterize(scaled, p.Raster)
	if err != nil {
		return nil, err
	}
	return NewWorkout(meta, Merge(segments))
}
