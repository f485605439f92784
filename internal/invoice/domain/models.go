// Package domain contains the invoice draft model assembled from rated
// usage. Drafts are built fresh on every run; persistence belongs to the
// systems consuming them.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smallbiznis/lunebill/internal/period"
	ratingdomain "github.com/smallbiznis/lunebill/internal/rating/domain"
)

// NumberingMode selects how draft invoice numbers are generated.
type NumberingMode string

const (
	// NumberingSequential derives the number from the caller-supplied
	// sequence, keeping repeated runs reproducible.
	NumberingSequential NumberingMode = "sequential"
	// NumberingRandom draws a fresh six digit sequence per draft.
	NumberingRandom NumberingMode = "random"
)

// ParseNumberingMode maps free-form config input onto a NumberingMode.
// Unknown values fall back to sequential.
func ParseNumberingMode(raw string) NumberingMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(NumberingRandom):
		return NumberingRandom
	default:
		return NumberingSequential
	}
}

// LineItem is one billable usage event on a draft.
type LineItem struct {
	TransactionID string          `json:"transaction_id"`
	DeviceID      string          `json:"device_id"`
	SBC           string          `json:"sbc"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Action        string          `json:"action"`
	Description   string          `json:"description"`
	DurationText  string          `json:"duration_text"`
	Minutes       float64         `json:"minutes"`
	Charge        decimal.Decimal `json:"charge"`
}

// DeviceUsage carries one device's aggregate behind the flattened line
// items.
type DeviceUsage struct {
	DeviceID string                  `json:"device_id"`
	Stats    ratingdomain.Statistics `json:"stats"`
}

// InvoiceDraft is the assembled billing output for one office and period.
type InvoiceDraft struct {
	InvoiceNumber string          `json:"invoice_number"`
	Period        period.Period   `json:"period"`
	LineItems     []LineItem      `json:"line_items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"`
	PerDevice     []DeviceUsage   `json:"per_device"`
}
