package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time string cannot be parsed.
var ErrInvalidTime = errors.New("invalid time")

// labelPattern matches the MM:SS (or H:MM:SS) timestamps inside a selection label.
var labelPattern = regexp.MustCompile(`\d+(?::\d{2}){1,2}`)

// FormatMillis formats milliseconds as MM:SS, or H:MM:SS once an hour is reached.
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// FormatSelection renders the selection label shown under the timeline.
func FormatSelection(startMs, endMs int64) string {
	return fmt.Sprintf("%s sec - %s sec", FormatMillis(startMs), FormatMillis(endMs))
}

// ParseMillis parses HH:MM:SS, MM:SS or raw seconds into milliseconds.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw seconds.
func ParseMillis(timeStr string) (int64, error) {
	timeStr = strings.TrimSpace(timeStr)
	parts := strings.Split(timeStr, ":")

	switch len(parts) {
	case 3, 2:
		var total int64
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
			}
			// minutes and seconds fields after the first must stay below 60
			if i > 0 && (len(p) != 2 || n >= 60) {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
			}
			total = total*60 + n
		}
		return total * 1000, nil
	case 1:
		secs, err := strconv.ParseFloat(timeStr, 64)
		if err != nil || secs < 0 {
			return 0, fmt.Errorf("%w: expected HH:MM:SS, MM:SS, or seconds, got %q", ErrInvalidTime, timeStr)
		}
		return int64(secs * 1000), nil
	}

	return 0, fmt.Errorf("%w: expected HH:MM:SS, MM:SS, or seconds, got %q", ErrInvalidTime, timeStr)
}

// ParseSelection extracts the start and end of a label produced by
// FormatSelection. Anything other than exactly two timestamps is an error.
func ParseSelection(label string) (startMs, endMs int64, err error) {
	matches := labelPattern.FindAllString(label, -1)
	if len(matches) != 2 {
		return 0, 0, fmt.Errorf("%w: selection label %q has %d timestamps", ErrInvalidTime, label, len(matches))
	}
	if startMs, err = ParseMillis(matches[0]); err != nil {
		return 0, 0, err
	}
	if endMs, err = ParseMillis(matches[1]); err != nil {
		return 0, 0, err
	}
	return startMs, endMs, nil
}
