package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationRE = regexp.MustCompile(`^(?:(\d+)h)?(\d+)m(\d+(?:\.\d+)?)s$`)

// ParseFillDuration reads fill lengths written as "1h02m03s" or "12m30s".
func ParseFillDuration(value string) (time.Duration, error) {
	m := durationRE.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid duration value: %q", value)
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration seconds %q: %w", m[3], err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}

// FormatClock renders a duration as total minutes and seconds, "mm:ss".
// Zero renders as "".
func FormatClock(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
