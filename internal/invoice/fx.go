package invoice

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/lunebill/internal/invoice/sequence"
	"github.com/smallbiznis/lunebill/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.NewService),
	fx.Provide(sequence.NewSequencer),
)
