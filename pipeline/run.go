// Package pipeline wires the sample-table loaders, the conversion engine and
// the workout-file serializer into a one-shot run, and writes the run's
// artifacts.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	course "github.com/denudge/course2zwift"
	"github.com/denudge/course2zwift/csvsource"
	"github.com/denudge/course2zwift/fitsource"
	"github.com/denudge/course2zwift/zwo"
)

// DefaultRaster is the slice width used when the caller supplies none.
const DefaultRaster = 30 * time.Second

// Run executes one conversion: load, convert, serialize, write artifacts.
// The first failing stage aborts the run; no output is written before the
// conversion has fully succeeded.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("workout name is required")
	}
	switch opts.DumpSegments {
	case "", "csv", "parquet":
	default:
		return nil, fmt.Errorf("unsupported segment dump format %q (expected csv|parquet)", opts.DumpSegments)
	}
	if opts.OutPath != "" && !opts.Overwrite {
		if _, err := os.Stat(opts.OutPath); err == nil {
			return nil, fmt.Errorf("output file %s already exists, pass --overwrite to replace it", opts.OutPath)
		}
	}
	applyDefaults(&opts)

	source := opts.Source
	if source == SourceAuto {
		source = detectSource(opts.InputPath)
	}

	samples, ftp, sport, err := loadSamples(source, opts)
	if err != nil {
		return nil, err
	}
	if opts.SportType == "" {
		opts.SportType = sport
	}

	timeline, err := course.Normalize(samples)
	if err != nil {
		return nil, fmt.Errorf("normalize samples: %w", err)
	}
	scaled, err := course.Scale(timeline, opts.Accel, opts.PowerScale)
	if err != nil {
		return nil, fmt.Errorf("scale timeline: %w", err)
	}
	segments, err := course.Rasterize(scaled, opts.Raster)
	if err != nil {
		return nil, fmt.Errorf("rasterize timeline: %w", err)
	}
	workout, err := course.NewWorkout(course.Metadata{
		Name:        opts.Name,
		Description: opts.Description,
		Author:      opts.Author,
		SportType:   opts.SportType,
	}, course.Merge(segments))
	if err != nil {
		return nil, err
	}

	result := &Result{
		StepCount:     len(workout.Steps),
		SegmentCount:  len(segments),
		TotalDuration: workout.TotalDuration(),
		FTPWatts:      ftp,
	}

	if opts.OutPath == "" {
		if err := zwo.FromWorkout(workout).Write(os.Stdout); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := zwo.WriteFile(opts.OutPath, workout); err != nil {
		return nil, err
	}
	result.WorkoutPath = opts.OutPath

	manifestPath, err := writeManifest(opts, source, ftp, len(workout.Steps))
	if err != nil {
		return nil, err
	}
	result.ManifestPath = manifestPath

	switch opts.DumpSegments {
	case "csv":
		result.SegmentsPath = artifactPath(opts.OutPath, "segments.csv")
		if err := writeSegmentsCSV(result.SegmentsPath, segments); err != nil {
			return nil, fmt.Errorf("write segment dump: %w", err)
		}
	case "parquet":
		result.SegmentsPath = artifactPath(opts.OutPath, "segments.parquet")
		if err := writeSegmentsParquet(result.SegmentsPath, segments); err != nil {
			return nil, fmt.Errorf("write segment dump: %w", err)
		}
	}

	return result, nil
}

func applyDefaults(opts *Options) {
	if opts.Accel == 0 {
		opts.Accel = 1.0
	}
	if opts.PowerScale == 0 {
		opts.PowerScale = 1.0
	}
	if opts.Raster == 0 {
		opts.Raster = DefaultRaster
	}
	if opts.TimeMode == "" {
		opts.TimeMode = csvsource.ModeTime
	}
}

func detectSource(path string) Source {
	if strings.EqualFold(filepath.Ext(path), ".fit") {
		return SourceFIT
	}
	return SourceCSV
}

// loadSamples reads the input into core samples, with power converted from
// watts to fractions of the FTP actually used. The used FTP is returned,
// along with the source's sport tag where it carries one.
func loadSamples(source Source, opts Options) ([]course.Sample, float64, string, error) {
	switch source {
	case SourceCSV:
		if opts.FTPWatts <= 0 {
			return nil, 0, "", fmt.Errorf("ftp is required for CSV input")
		}
		rows, err := csvsource.ReadFile(opts.InputPath, opts.TimeMode)
		if err != nil {
			return nil, 0, "", err
		}
		samples := make([]course.Sample, len(rows))
		for i, row := range rows {
			samples[i] = course.Sample{
				Time:  row.Time,
				Power: fraction(row.Watts, opts.FTPWatts),
				Text:  row.Text,
			}
		}
		return samples, opts.FTPWatts, "", nil

	case SourceFIT:
		ride, err := fitsource.ReadFile(opts.InputPath, fitsource.Options{
			Window:   opts.Window,
			Quantize: opts.QuantizeWatts,
		})
		if err != nil {
			return nil, 0, "", err
		}
		ftp := opts.FTPWatts
		if ftp <= 0 {
			ftp = ride.ThresholdWatts
		}
		if ftp <= 0 {
			return nil, 0, "", fmt.Errorf("ftp is required: ride carries no threshold power")
		}
		samples := make([]course.Sample, len(ride.Rows))
		for i, row := range ride.Rows {
			samples[i] = course.Sample{
				Time:  row.Time,
				Power: fraction(row.Watts, ftp),
				Text:  row.Text,
			}
		}
		return samples, ftp, ride.Sport, nil

	default:
		return nil, 0, "", fmt.Errorf("unsupported source %q (expected csv|fit)", source)
	}
}

func fraction(watts *float64, ftp float64) *float64 {
	if watts == nil {
		return nil
	}
	f := *watts / ftp
	return &f
}

func inputSHA256(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// artifactPath derives a sibling artifact name: ride.zwo -> ride.segments.csv.
func artifactPath(outPath, suffix string) string {
	base := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	return base + "." + suffix
}
