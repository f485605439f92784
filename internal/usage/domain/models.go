// Package domain contains the raw usage feed records emitted by Lune devices.
package domain

// UsageRecord is a single button-press event as delivered by the upstream
// feed. All fields arrive as strings and are never mutated; derived values
// live on enriched records downstream.
type UsageRecord struct {
	TransactionID string `json:"transaction_id"`
	DeviceID      string `json:"device_id"`
	SBC           string `json:"sbc"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Action        string `json:"action"`
	Duration      string `json:"duration"`
}
