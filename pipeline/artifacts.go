package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	course "github.com/denudge/course2zwift"
)

func writeManifest(opts Options, source Source, ftp float64, stepCount int) (string, error) {
	sha, err := inputSHA256(opts.InputPath)
	if err != nil {
		return "", err
	}

	manifest := Manifest{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		SourceFile:  opts.InputPath,
		SourceSHA:   sha,
		SourceKind:  source,
		FTPWatts:    ftp,
		Accel:       opts.Accel,
		PowerScale:  opts.PowerScale,
		RasterS:     int(opts.Raster / time.Second),
		StepCount:   stepCount,
		WorkoutPath: opts.OutPath,
	}
	if source == SourceCSV {
		manifest.TimeMode = string(opts.TimeMode)
	}

	path := artifactPath(opts.OutPath, "manifest.json")
	if err := writeJSON(path, manifest); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSegmentsCSV(path string, segments []course.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"start_s", "duration_s", "power", "annotations"}); err != nil {
		return err
	}
	for _, seg := range segments {
		row := []string{
			strconv.FormatFloat(seg.Start.Seconds(), 'f', 3, 64),
			strconv.FormatFloat(seg.Duration.Seconds(), 'f', 3, 64),
			strconv.FormatFloat(seg.Power, 'f', 4, 64),
			strconv.Itoa(len(seg.Annotations)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type segmentParquetRow struct {
	StartS      int64   `parquet:"name=start_s, type=INT64"`
	DurationS   int64   `parquet:"name=duration_s, type=INT64"`
	Power       float64 `parquet:"name=power, type=DOUBLE"`
	Annotations int64   `parquet:"name=annotations, type=INT64"`
}

func writeSegmentsParquet(path string, segments []course.Segment) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(segmentParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, seg := range segments {
		row := segmentParquetRow{
			StartS:      int64(math.Round(seg.Start.Seconds())),
			DurationS:   int64(math.Round(seg.Duration.Seconds())),
			Power:       seg.Power,
			Annotations: int64(len(seg.Annotations)),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
