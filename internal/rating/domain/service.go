package domain

import (
	"context"

	usagedomain "github.com/smallbiznis/lunebill/internal/usage/domain"
)

// Service rates a batch of usage records against the active pricing table.
type Service interface {
	Rate(ctx context.Context, records []usagedomain.UsageRecord) Result
}
