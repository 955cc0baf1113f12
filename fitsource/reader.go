// Package fitsource turns a recorded ride (an activity FIT file) into the
// sparse course table the converter consumes, so a real ride can be replayed
// as a structured workout. Per-record power is smoothed with a rolling
// average, quantized to a watt step and reduced to its change points; lap
// boundaries become text hints.
package fitsource

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/tormoder/fit"
)

const (
	// DefaultWindow is the rolling-average window applied before
	// quantization.
	DefaultWindow = 30 * time.Second
	// DefaultQuantize is the watt step powers are snapped to. Coarser steps
	// yield fewer, longer workout steps.
	DefaultQuantize = 10.0
)

// Options tunes the change-point extraction.
type Options struct {
	Window   time.Duration
	Quantize float64
}

// Row is one synthesized course-table row, power in absolute watts.
type Row struct {
	Time  time.Duration
	Watts *float64
	Text  string
}

// Ride is the sparse sample table extracted from an activity file.
type Ride struct {
	Rows []Row
	// ThresholdWatts is the session's threshold power, 0 when the file
	// carries none. Callers use it as the default FTP.
	ThresholdWatts float64
	// Sport is the workout sport tag derived from the session, empty when
	// the session carries none we can name. Callers use it as the default
	// sport type.
	Sport string
}

// ReadFile decodes an activity FIT file and extracts its sparse course table.
func ReadFile(path string, opts Options) (*Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	ride := &Ride{}
	if len(activity.Sessions) > 0 {
		session := activity.Sessions[0]
		ride.Sport = sportTag(session.Sport)
		if session.ThresholdPower != math.MaxUint16 && session.ThresholdPower > 0 {
			ride.ThresholdWatts = float64(session.ThresholdPower)
		}
	}

	recs, start := recordSamples(activity.Records)
	if len(recs) == 0 {
		return nil, fmt.Errorf("activity file has no power records")
	}

	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Quantize <= 0 {
		opts.Quantize = DefaultQuantize
	}
	ride.Rows = changePoints(recs, opts.Window, opts.Quantize)

	for i, lap := range activity.Laps {
		if i == 0 || lap == nil || !lap.StartTime.After(start) {
			continue
		}
		ride.Rows = append(ride.Rows, Row{
			Time: lap.StartTime.Sub(start),
			Text: fmt.Sprintf("Lap %d", i+1),
		})
	}
	sort.SliceStable(ride.Rows, func(i, j int) bool {
		return ride.Rows[i].Time < ride.Rows[j].Time
	})

	return ride, nil
}

// sportTag maps a session sport onto the workout-file vocabulary.
func sportTag(s fit.Sport) string {
	switch s {
	case fit.SportCycling:
		return "ride"
	case fit.SportRunning:
		return "run"
	default:
		return ""
	}
}

// recordSample is one power reading, offset from the first record.
type recordSample struct {
	elapsed time.Duration
	watts   float64
}

func recordSamples(records []*fit.RecordMsg) ([]recordSample, time.Time) {
	type row struct {
		ts    time.Time
		watts float64
	}
	rows := make([]row, 0, len(records))
	for _, rec := range records {
		if rec == nil || rec.Power == math.MaxUint16 {
			continue
		}
		ts := rec.Timestamp
		if ts.IsZero() || fit.IsBaseTime(ts) {
			continue
		}
		rows = append(rows, row{ts: ts, watts: float64(rec.Power)})
	}
	if len(rows) == 0 {
		return nil, time.Time{}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ts.Before(rows[j].ts)
	})

	start := rows[0].ts
	out := make([]recordSample, len(rows))
	for i, r := range rows {
		out[i] = recordSample{elapsed: r.ts.Sub(start), watts: r.watts}
	}
	return out, start
}

// changePoints smooths the readings with a trailing window average, snaps
// them to the quantize step and keeps only the rows where the snapped value
// changes. The trailing row pins the course end so the final step keeps its
// full length.
func changePoints(recs []recordSample, window time.Duration, quantize float64) []Row {
	rows := make([]Row, 0, 16)
	lo := 0
	sum := 0.0
	last := math.NaN()
	for i, rec := range recs {
		sum += rec.watts
		for recs[lo].elapsed < rec.elapsed-window {
			sum -= recs[lo].watts
			lo++
		}
		avg := sum / float64(i-lo+1)
		q := math.Round(avg/quantize) * quantize

		if q != last {
			rows = append(rows, Row{Time: rec.elapsed, Watts: &q})
			last = q
		}
	}

	if end := recs[len(recs)-1].elapsed; len(rows) > 0 && rows[len(rows)-1].Time != end {
		final := last
		rows = append(rows, Row{Time: end, Watts: &final})
	}
	return rows
}
