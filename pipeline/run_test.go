package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	course "github.com/denudge/course2zwift"
	"github.com/denudge/course2zwift/csvsource"
)

const referenceTable = `time,power,text
0:00:00,180,
0:01:30,,"Turn right"
0:02:00,210,"Up that hill"
0:03:30,160,
0:04:30,,"You're done!"
`

func writeReferenceTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.csv")
	if err := os.WriteFile(path, []byte(referenceTable), 0o644); err != nil {
		t.Fatalf("write course table: %v", err)
	}
	return path
}

func TestRunProducesWorkoutAndArtifacts(t *testing.T) {
	input := writeReferenceTable(t)
	outPath := filepath.Join(filepath.Dir(input), "course.zwo")

	res, err := Run(Options{
		InputPath:    input,
		OutPath:      outPath,
		Name:         "Reference loop",
		Author:       "tester",
		FTPWatts:     200,
		DumpSegments: "csv",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.StepCount != 3 || res.SegmentCount != 9 {
		t.Errorf("counts = %d steps / %d segments, want 3 / 9", res.StepCount, res.SegmentCount)
	}
	if res.TotalDuration != 270*time.Second {
		t.Errorf("total duration = %s, want 270s", res.TotalDuration)
	}

	data, err := os.ReadFile(res.WorkoutPath)
	if err != nil {
		t.Fatalf("read workout file: %v", err)
	}
	doc := string(data)
	for _, want := range []string{
		`<SteadyState Duration="120" Power="0.9" pace="0">`,
		`<SteadyState Duration="90" Power="1.05" pace="0">`,
		`<SteadyState Duration="60" Power="0.8" pace="0">`,
		`<textevent timeoffset="90" message="Turn right"></textevent>`,
		`<sportType>ride</sportType>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("workout file missing %q:\n%s", want, doc)
		}
	}

	var manifest Manifest
	raw, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if manifest.RunID == "" || manifest.SourceSHA == "" {
		t.Errorf("manifest missing run id or source hash: %+v", manifest)
	}
	if manifest.FTPWatts != 200 || manifest.StepCount != 3 {
		t.Errorf("manifest ftp/steps = %v/%d, want 200/3", manifest.FTPWatts, manifest.StepCount)
	}

	f, err := os.Open(res.SegmentsPath)
	if err != nil {
		t.Fatalf("open segment dump: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read segment dump: %v", err)
	}
	if len(rows) != 10 { // header + 9 slices
		t.Errorf("segment dump has %d rows, want 10", len(rows))
	}
}

func TestRunAcceleratedAndScaled(t *testing.T) {
	input := writeReferenceTable(t)
	outPath := filepath.Join(filepath.Dir(input), "fast.zwo")

	res, err := Run(Options{
		InputPath:  input,
		OutPath:    outPath,
		Name:       "Fast loop",
		FTPWatts:   200,
		Accel:      2.0,
		PowerScale: 1.1,
		Raster:     15 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.TotalDuration != 135*time.Second {
		t.Errorf("total duration = %s, want 135s", res.TotalDuration)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read workout file: %v", err)
	}
	// 180 W * 1.1 / 200 = 0.99, over a 60s opening step.
	if !strings.Contains(string(data), `<SteadyState Duration="60" Power="0.99" pace="0">`) {
		t.Errorf("workout file missing scaled opening step:\n%s", data)
	}
}

func TestRunDurationMode(t *testing.T) {
	table := "time,power,text\n0:02:00,180,\n0:01:00,220,\n0:01:00,150,\n"
	dir := t.TempDir()
	input := filepath.Join(dir, "blocks.csv")
	if err := os.WriteFile(input, []byte(table), 0o644); err != nil {
		t.Fatalf("write course table: %v", err)
	}

	res, err := Run(Options{
		InputPath: input,
		OutPath:   filepath.Join(dir, "blocks.zwo"),
		Name:      "Blocks",
		FTPWatts:  200,
		TimeMode:  csvsource.ModeDuration,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	// Rows open at 0s, 120s and 180s; the last row pins the end at 240s.
	if res.TotalDuration != 240*time.Second {
		t.Errorf("total duration = %s, want 240s", res.TotalDuration)
	}
}

func TestRunRefusesToOverwrite(t *testing.T) {
	input := writeReferenceTable(t)
	outPath := filepath.Join(filepath.Dir(input), "course.zwo")
	opts := Options{
		InputPath: input,
		OutPath:   outPath,
		Name:      "Reference loop",
		FTPWatts:  200,
	}

	if _, err := Run(opts); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if _, err := Run(opts); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second Run() error = %v, want refusal to replace the existing file", err)
	}

	opts.Overwrite = true
	if _, err := Run(opts); err != nil {
		t.Fatalf("Run() with overwrite error: %v", err)
	}
}

func TestRunValidation(t *testing.T) {
	input := writeReferenceTable(t)

	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing input", opts: Options{Name: "x", FTPWatts: 200}},
		{name: "missing name", opts: Options{InputPath: input, FTPWatts: 200}},
		{name: "missing ftp", opts: Options{InputPath: input, Name: "x"}},
		{name: "bad dump format", opts: Options{InputPath: input, Name: "x", FTPWatts: 200, OutPath: input + ".zwo", DumpSegments: "xlsx"}},
		{name: "bad source", opts: Options{InputPath: input, Name: "x", FTPWatts: 200, Source: "gpx"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Run(tc.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunFromFIT(t *testing.T) {
	fitPath := os.Getenv("COURSE2ZWIFT_TEST_FIT")
	if fitPath == "" {
		t.Skip("set COURSE2ZWIFT_TEST_FIT to an activity file to run")
	}

	outPath := filepath.Join(t.TempDir(), "ride.zwo")
	res, err := Run(Options{
		InputPath: fitPath,
		OutPath:   outPath,
		Name:      "Replayed ride",
		FTPWatts:  223,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.StepCount == 0 {
		t.Fatal("expected at least one step from a recorded ride")
	}
	if _, err := os.Stat(res.WorkoutPath); err != nil {
		t.Fatalf("workout file missing: %v", err)
	}
}

func TestRunSurfacesCoreValidation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "late.csv")
	if err := os.WriteFile(input, []byte("time,power,text\n0:00:05,180,\n"), 0o644); err != nil {
		t.Fatalf("write course table: %v", err)
	}

	_, err := Run(Options{InputPath: input, OutPath: filepath.Join(dir, "late.zwo"), Name: "Late", FTPWatts: 200})
	if err == nil {
		t.Fatal("expected error for course without power at 0s")
	}
	if !strings.Contains(err.Error(), course.ErrMissingInitialPower.Error()) {
		t.Errorf("error %q does not wrap the initial-power failure", err)
	}
}
