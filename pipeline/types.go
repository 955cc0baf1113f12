package pipeline

import (
	"time"

	"github.com/denudge/course2zwift/csvsource"
)

// Source selects the sample-table loader.
type Source string

const (
	SourceAuto Source = ""    // pick by file extension
	SourceCSV  Source = "csv" // sparse course table
	SourceFIT  Source = "fit" // recorded ride
)

// Options configures one conversion run.
type Options struct {
	InputPath string
	// OutPath receives the rendered workout file. Empty writes the document
	// to stdout and skips all artifacts.
	OutPath string
	// Overwrite allows replacing an existing workout file at OutPath.
	Overwrite bool
	Source    Source

	// FTPWatts converts absolute power to fractions of threshold. Required
	// for CSV input; for FIT input the session's threshold power is the
	// fallback.
	FTPWatts float64

	Accel      float64        // default 1.0
	PowerScale float64        // default 1.0
	Raster     time.Duration  // default 30s
	TimeMode   csvsource.Mode // default "time"

	Name        string
	Description string
	Author      string
	SportType   string

	// DumpSegments writes the pre-merge raster slices beside the output:
	// "csv" or "parquet". Empty skips the dump.
	DumpSegments string

	// FIT extraction tuning; zero values use the fitsource defaults.
	Window        time.Duration
	QuantizeWatts float64
}

// Result returns generated output paths and run counts.
type Result struct {
	WorkoutPath   string        `json:"workout_path,omitempty"`
	ManifestPath  string        `json:"manifest_path,omitempty"`
	SegmentsPath  string        `json:"segments_path,omitempty"`
	StepCount     int           `json:"step_count"`
	SegmentCount  int           `json:"segment_count"`
	TotalDuration time.Duration `json:"total_duration_ns"`
	FTPWatts      float64       `json:"ftp_watts"`
}

// Manifest captures what produced a workout file, written beside it.
type Manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	SourceFile  string    `json:"source_file"`
	SourceSHA   string    `json:"source_sha256"`
	SourceKind  Source    `json:"source_kind"`
	FTPWatts    float64   `json:"ftp_watts"`
	Accel       float64   `json:"acceleration"`
	PowerScale  float64   `json:"power_scale"`
	RasterS     int       `json:"raster_s"`
	TimeMode    string    `json:"time_mode,omitempty"`
	StepCount   int       `json:"step_count"`
	WorkoutPath string    `json:"workout_path"`
}
