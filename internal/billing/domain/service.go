package domain

import (
	"context"

	invoicedomain "github.com/smallbiznis/lunebill/internal/invoice/domain"
)

// Service executes billing runs over an in-memory usage feed.
type Service interface {
	Run(ctx context.Context, input RunInput) invoicedomain.InvoiceDraft
}
