// Package period resolves billing periods from raw record dates.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// Period identifies the month an invoice bills for.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// FromTime returns the period containing t.
func FromTime(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// FromDate parses a raw feed date of the form "?/MM/YYYY". The day field is
// ignored; month and year must be positive integers with month in 1..12.
func FromDate(raw string) (Period, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return Period{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year <= 0 {
		return Period{}, false
	}
	return Period{Month: time.Month(month), Year: year}, true
}

// Filter keeps the records whose date falls in the target period. Records
// with unparseable dates never match.
func Filter(records []usagedomain.UsageRecord, target Period) []usagedomain.UsageRecord {
	matched := make([]usagedomain.UsageRecord, 0, len(records))
	for _, record := range records {
		p, ok := FromDate(record.Date)
		if !ok {
			continue
		}
		if p == target {
			matched = append(matched, record)
		}
	}
	return matched
}

// Derive infers a period from the first record carrying a parseable date.
// Callers without an explicit target use this fallback so sparse historical
// feeds bill the month that actually has data instead of coming back empty.
func Derive(records []usagedomain.UsageRecord) (Period, bool) {
	for _, record := range records {
		if p, ok := FromDate(record.Date); ok {
			return p, true
		}
	}
	return Period{}, false
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
