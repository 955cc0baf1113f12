package course

import "fmt"

// DefaultSportType is the sport tag used when the caller supplies none.
const DefaultSportType = "ride"

// NewWorkout wraps the merged steps with their metadata. An empty step list
// means the sample table had no duration to describe, which is an error
// rather than an empty file.
func NewWorkout(meta Metadata, steps []Step) (*Workout, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps produced: %w", ErrEmptyWorkout)
	}
	if meta.SportType == "" {
		meta.SportType = DefaultSportType
	}
	return &Workout{Meta: meta, Steps: steps}, nil
}
