// Package csvsource reads the three-column course table (time, power, text)
// the converter consumes. Power is in absolute watts; the pipeline divides by
// FTP later. Rows keep their file order.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode selects how the time column is interpreted.
type Mode string

const (
	// ModeTime reads each row's time as an offset from the course start.
	ModeTime Mode = "time"
	// ModeDuration reads each row's time as the length of the stretch it
	// opens; offsets are accumulated row by row.
	ModeDuration Mode = "duration"
)

// ParseMode validates a mode string from the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTime, ModeDuration:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("time mode must be %q or %q, got %q", ModeTime, ModeDuration, s)
	}
}

// Row is one parsed course-table row.
type Row struct {
	Time  time.Duration
	Watts *float64 // nil for text-only rows
	Text  string
}

// ReadFile reads and parses a course table from disk.
func ReadFile(path string, mode Mode) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open course table: %w", err)
	}
	defer f.Close()
	return Read(f, mode)
}

// Read parses a course table. The first record is treated as a header row
// and skipped unless its time cell already parses as a clock value. An
// unparsable time cell in a data row is a hard error carrying the line
// number, and in time mode so is a time that steps backwards; an unparsable
// power cell degrades to "no power" so a table can mix plain rows and hint
// rows freely.
func Read(r io.Reader, mode Mode) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	var runningEnd time.Duration
	var lastWatts *float64
	lastTime := time.Duration(-1)
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if len(record) == 0 {
			continue
		}

		t, err := parseClock(record[0])
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: %v", line, err)
		}

		row := Row{Time: t}
		if mode == ModeDuration {
			row.Time = runningEnd
			runningEnd += t
		} else {
			if t < lastTime {
				return nil, fmt.Errorf("line %d: time %s is before the previous row", line, t)
			}
			lastTime = t
		}
		if len(record) > 1 {
			if w, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64); err == nil {
				row.Watts = &w
			}
		}
		if len(record) > 2 {
			row.Text = strings.TrimSpace(record[2])
		}
		if row.Watts != nil {
			lastWatts = row.Watts
		}
		rows = append(rows, row)
	}

	// In duration mode every row describes the length of the stretch it
	// opens, so the table's end lies one stretch beyond the last row. Pin it
	// with a repeat of the carried power, otherwise the final stretch would
	// be cut off.
	if mode == ModeDuration && len(rows) > 0 && lastWatts != nil && runningEnd > rows[len(rows)-1].Time {
		pin := *lastWatts
		rows = append(rows, Row{Time: runningEnd, Watts: &pin})
	}
	return rows, nil
}
