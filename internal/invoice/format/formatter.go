// Package format holds the pure formatting helpers for invoice drafts:
// duration pretty-printing and the invoice number codec.
package format

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"time"
)

var numberRe = regexp.MustCompile(`^INV-(\d{2})(\d{2})(\d{6})$`)

// FormatDuration renders fractional minutes as a compact human string.
// Under an hour it reads "Nm" or "Nm Ss"; from an hour up it reads "Hh"
// or "Hh Mm". A zero-valued trailing unit is suppressed.
//
// This function is PURE:
// - No side effects
// - Fully deterministic
func FormatDuration(minutes float64) string {
	if minutes <= 0 {
		return "0m"
	}

	totalSeconds := int(math.Round(minutes * 60))
	if totalSeconds < 3600 {
		m := totalSeconds / 60
		s := totalSeconds % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}

	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// SequentialNumber builds an INV-YYMMNNNNNN identifier from a
// caller-supplied monotonic sequence. The sequence wraps at six digits so
// the fixed-width form always holds.
func SequentialNumber(year int, month time.Month, seq int64) string {
	return fmt.Sprintf("INV-%02d%02d%06d", year%100, int(month), seq%1000000)
}

// RandomNumber builds an INV-YYMMNNNNNN identifier with a random sequence
// in [1, 999999]. Use SequentialNumber when reproducible numbering is
// required.
func RandomNumber(year int, month time.Month) string {
	return SequentialNumber(year, month, int64(rand.Intn(999999)+1))
}

// ParsedNumber is the decoded form of an invoice number. The *Text fields
// preserve the zero-padded segments for display.
type ParsedNumber struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Sequence     int    `json:"sequence"`
	YearText     string `json:"year_text"`
	MonthText    string `json:"month_text"`
	SequenceText string `json:"sequence_text"`
}

// ParseNumber decodes an INV-YYMMNNNNNN identifier. Input that does not
// match the fixed-width pattern reports ok false; it never panics.
func ParseNumber(raw string) (ParsedNumber, bool) {
	match := numberRe.FindStringSubmatch(raw)
	if match == nil {
		return ParsedNumber{}, false
	}

	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	seq, _ := strconv.Atoi(match[3])

	return ParsedNumber{
		Year:         2000 + year,
		Month:        month,
		Sequence:     seq,
		YearText:     match[1],
		MonthText:    match[2],
		SequenceText: match[3],
	}, true
}
