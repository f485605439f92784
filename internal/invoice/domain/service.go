package domain

import (
	"context"

	"github.com/smallbiznis/lunebill/internal/period"
	ratingdomain "github.com/smallbiznis/lunebill/internal/rating/domain"
)

// DeviceResult is one device's rated usage feeding the assembler.
// DeviceID is the device serial, not a raw record identifier.
type DeviceResult struct {
	DeviceID string
	Rated    ratingdomain.Result
}

// AssembleRequest carries everything the assembler needs for one draft.
// Devices must arrive in iteration order; line items follow it.
type AssembleRequest struct {
	Period   period.Period
	Devices  []DeviceResult
	Sequence int64
}

// Assembler flattens per-device rated usage into an invoice draft.
type Assembler interface {
	Assemble(ctx context.Context, req AssembleRequest) InvoiceDraft
}
