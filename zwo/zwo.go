// Package zwo renders a finished workout into the Zwift workout-file schema:
// a header block followed by steady-state intervals with embedded text-event
// markers.
package zwo

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	course "github.com/denudge/course2zwift"
)

// File is the <workout_file> document.
type File struct {
	XMLName     xml.Name `xml:"workout_file"`
	Author      string   `xml:"author"`
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	SportType   string   `xml:"sportType"`
	Tags        struct{} `xml:"tags"`
	Workout     Body     `xml:"workout"`
}

// Body holds the interval list.
type Body struct {
	Steady []SteadyState `xml:"SteadyState"`
}

// SteadyState is one constant-power interval. Power is a fraction of FTP,
// rounded to two decimals; Duration is whole seconds.
type SteadyState struct {
	Duration int         `xml:"Duration,attr"`
	Power    float64     `xml:"Power,attr"`
	Pace     int         `xml:"pace,attr"`
	Events   []TextEvent `xml:"textevent,omitempty"`
}

// TextEvent is a rider-facing message, offset in seconds from the start of
// its interval.
type TextEvent struct {
	TimeOffset int    `xml:"timeoffset,attr"`
	Message    string `xml:"message,attr"`
}

// FromWorkout maps a workout descriptor onto the file schema. Power rounding
// happens here and nowhere earlier, so merging upstream always compares
// unrounded values.
func FromWorkout(w *course.Workout) *File {
	f := &File{
		Author:      w.Meta.Author,
		Name:        w.Meta.Name,
		Description: w.Meta.Description,
		SportType:   w.Meta.SportType,
	}
	for _, step := range w.Steps {
		ss := SteadyState{
			Duration: wholeSeconds(step.Duration),
			Power:    math.Round(step.Power*100) / 100,
		}
		for _, a := range step.Annotations {
			ss.Events = append(ss.Events, TextEvent{
				TimeOffset: wholeSeconds(a.Offset),
				Message:    a.Text,
			})
		}
		f.Workout.Steady = append(f.Workout.Steady, ss)
	}
	return f
}

// Write renders the document with four-space indentation and a trailing
// newline.
func (f *File) Write(w io.Writer) error {
	data, err := xml.MarshalIndent(f, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal workout file: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write workout file: %w", err)
	}
	return nil
}

// WriteFile renders the document to disk.
func WriteFile(path string, w *course.Workout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workout file: %w", err)
	}
	defer f.Close()
	if err := FromWorkout(w).Write(f); err != nil {
		return err
	}
	return f.Close()
}

func wholeSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}
