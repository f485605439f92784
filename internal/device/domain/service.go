package domain

import (
	"context"

	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// Matcher selects the feed records belonging to a device, honoring the
// configured match mode.
type Matcher interface {
	RecordsForDevice(ctx context.Context, device Device, feed []usagedomain.UsageRecord) []usagedomain.UsageRecord
}
