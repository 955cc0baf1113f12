package course

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// The reference scenario: a 270s course with two power changes and three
// hints, sliced on a 30s raster.
func referenceSamples() []Sample {
	return []Sample{
		{Time: 0, Power: power(0.9)},
		{Time: seconds(90), Text: "Turn right"},
		{Time: seconds(120), Power: power(1.05), Text: "Up that hill"},
		{Time: seconds(210), Power: power(0.8)},
		{Time: seconds(270), Text: "You're done!"},
	}
}

func TestRasterizeReferenceScenario(t *testing.T) {
	tl := mustNormalize(t, referenceSamples())
	segments, err := Rasterize(tl, 30*time.Second)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}

	if len(segments) != 9 {
		t.Fatalf("got %d segments, want 9", len(segments))
	}

	wantPower := []float64{0.9, 0.9, 0.9, 0.9, 1.05, 1.05, 1.05, 0.8, 0.8}
	for i, seg := range segments {
		if seg.Start != time.Duration(i)*30*time.Second {
			t.Errorf("segment %d starts at %s, want %s", i, seg.Start, time.Duration(i)*30*time.Second)
		}
		if seg.Duration != 30*time.Second {
			t.Errorf("segment %d duration = %s, want 30s", i, seg.Duration)
		}
		if seg.Power != wantPower[i] {
			t.Errorf("segment %d power = %v, want %v", i, seg.Power, wantPower[i])
		}
	}

	// "Turn right" at 90s opens the [90,120) slice; "Up that hill" opens
	// [120,150); the terminal hint at 270s lands at the end of [240,270).
	wantAnnotations := map[int][]Annotation{
		3: {{Offset: 0, Text: "Turn right"}},
		4: {{Offset: 0, Text: "Up that hill"}},
		8: {{Offset: 30 * time.Second, Text: "You're done!"}},
	}
	for i, seg := range segments {
		if diff := cmp.Diff(wantAnnotations[i], seg.Annotations); diff != "" {
			t.Errorf("segment %d annotations mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRasterizeTruncatesFinalSlice(t *testing.T) {
	tl := mustNormalize(t, []Sample{
		{Time: 0, Power: power(0.9)},
		{Time: seconds(75), Power: power(1.0)},
	})

	segments, err := Rasterize(tl, 30*time.Second)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	last := segments[2]
	if last.Start != seconds(60) || last.Duration != seconds(15) {
		t.Errorf("final slice = [%s, +%s), want [60s, +15s)", last.Start, last.Duration)
	}
}

func TestRasterizeCoarserThanCourse(t *testing.T) {
	tl := mustNormalize(t, []Sample{
		{Time: 0, Power: power(0.7)},
		{Time: seconds(200), Power: power(1.2)},
	})

	segments, err := Rasterize(tl, 10*time.Minute)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Duration != seconds(200) || segments[0].Power != 0.7 {
		t.Errorf("segment = {%s %v}, want {200s 0.7}", segments[0].Duration, segments[0].Power)
	}
}

// A power change strictly inside a slice is invisible to it: the slice keeps
// the value read at its start and the change surfaces at the next boundary.
func TestRasterizeSamplesAtSliceStart(t *testing.T) {
	tl := mustNormalize(t, []Sample{
		{Time: 0, Power: power(0.5)},
		{Time: seconds(40), Power: power(1.0)},
		{Time: seconds(90), Power: power(0.5)},
	})

	segments, err := Rasterize(tl, 30*time.Second)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	got := make([]float64, len(segments))
	for i, seg := range segments {
		got[i] = seg.Power
	}
	want := []float64{0.5, 0.5, 1.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slice powers mismatch (-want +got):\n%s", diff)
	}
}

func TestRasterizeRejectsNonPositiveRaster(t *testing.T) {
	tl := mustNormalize(t, referenceSamples())
	for _, raster := range []time.Duration{0, -time.Second} {
		if _, err := Rasterize(tl, raster); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Rasterize(raster=%s) error = %v, want ErrInvalidParameter", raster, err)
		}
	}
}

// Slice durations must sum to the course end exactly, for any timeline and
// raster.
func TestRasterizeConservesDuration(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tl := generateTimeline(t)
		raster := time.Duration(rapid.IntRange(1, 900).Draw(t, "raster_s")) * time.Second

		segments, err := Rasterize(tl, raster)
		if err != nil {
			t.Fatalf("Rasterize() error: %v", err)
		}

		var total time.Duration
		for i, seg := range segments {
			if seg.Start != total {
				t.Fatalf("segment %d starts at %s, want %s (gap or overlap)", i, seg.Start, total)
			}
			total += seg.Duration
		}
		if total != tl.End {
			t.Fatalf("segment durations sum to %s, want %s", total, tl.End)
		}
	})
}

// Every text event must survive rasterization exactly once, attached to the
// slice containing its time.
func TestRasterizeKeepsEveryAnnotation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tl := generateTimeline(t)
		raster := time.Duration(rapid.IntRange(1, 900).Draw(t, "raster_s")) * time.Second

		segments, err := Rasterize(tl, raster)
		if err != nil {
			t.Fatalf("Rasterize() error: %v", err)
		}

		var got []TextEvent
		for _, seg := range segments {
			for _, a := range seg.Annotations {
				if a.Offset < 0 || a.Offset > seg.Duration {
					t.Fatalf("annotation %q offset %s outside slice of %s", a.Text, a.Offset, seg.Duration)
				}
				got = append(got, TextEvent{Time: seg.Start + a.Offset, Text: a.Text})
			}
		}
		if diff := cmp.Diff(tl.Text, got); diff != "" {
			t.Fatalf("annotations lost or moved (-want +got):\n%s", diff)
		}
	})
}
