// Package domain contains known Lune devices and the rules that associate
// raw usage records with them.
package domain

import (
	"strings"

	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// Device is one billable unit installed at an office.
type Device struct {
	SerialNumber string `json:"serial_number"`
	OfficeID     string `json:"office_id"`
	Plan         string `json:"plan"`
}

// MatchMode selects how record identifiers are compared against device
// serials.
type MatchMode string

const (
	// MatchModeExact requires an identifier field to equal the serial.
	MatchModeExact MatchMode = "exact"
	// MatchModeSubstring additionally accepts fields that merely contain
	// the serial. Permissive toward upstream prefix/suffix noise, but a
	// serial that is a substring of another serial can misattribute usage,
	// so substring-only hits are logged by the matcher.
	MatchModeSubstring MatchMode = "substring"
)

// ParseMatchMode normalizes a configured mode string, falling back to the
// safe exact default.
func ParseMatchMode(raw string) MatchMode {
	switch MatchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case MatchModeSubstring:
		return MatchModeSubstring
	default:
		return MatchModeExact
	}
}

// MatchExact reports whether the record's primary or secondary identifier
// equals the serial. Empty serials match nothing.
func MatchExact(serial string, record usagedomain.UsageRecord) bool {
	if serial == "" {
		return false
	}
	return record.DeviceID == serial || record.SBC == serial
}

// MatchSubstring reports whether the record's primary or secondary
// identifier contains the serial. Empty serials match nothing.
func MatchSubstring(serial string, record usagedomain.UsageRecord) bool {
	if serial == "" {
		return false
	}
	return strings.Contains(record.DeviceID, serial) || strings.Contains(record.SBC, serial)
}
