package csvsource

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseClock parses a time cell: "H:MM:SS", "MM:SS" or plain seconds. All
// parts are non-negative integers.
func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time value")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time value %q", s)
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time value %q", s)
		}
		// Only the leading field may drop its zero padding.
		if i > 0 && (len(part) != 2 || n > 59) {
			return 0, fmt.Errorf("invalid time value %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
