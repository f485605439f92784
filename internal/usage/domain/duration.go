package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts a raw "H:MM:SS" or "MM:SS" duration string into
// fractional minutes rounded to two decimal places. Empty strings and
// unknown formats yield 0 so a single bad record can never halt a billing
// run. Seconds (and minutes) beyond their usual range are tolerated and
// converted rather than rejected.
func ParseDuration(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	parts := strings.Split(raw, ":")
	fields := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return 0
		}
		fields = append(fields, value)
	}

	var minutes float64
	switch len(fields) {
	case 2:
		minutes = float64(fields[0]) + float64(fields[1])/60
	case 3:
		minutes = float64(fields[0])*60 + float64(fields[1]) + float64(fields[2])/60
	default:
		return 0
	}

	return math.Round(minutes*100) / 100
}
