// Package domain defines the inputs of a billing run.
package domain

import (
	devicedomain "github.com/smallbiznis/lunebill/internal/device/domain"
	"github.com/smallbiznis/lunebill/internal/period"
	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// RunInput is one fully materialized billing run request. Device and feed
// fetches happen upstream; the run itself performs no I/O.
type RunInput struct {
	Devices []devicedomain.Device
	Feed    []usagedomain.UsageRecord

	// Period pins the billing period. Nil derives it from the feed,
	// falling back to the current month when no record carries a
	// parseable date.
	Period *period.Period

	// Sequence feeds sequential invoice numbering. Ignored in random
	// mode.
	Sequence int64
}
