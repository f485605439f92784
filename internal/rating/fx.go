package rating

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/lunebill/internal/rating/service"
)

var Module = fx.Module("rating.service",
	fx.Provide(service.NewService),
)
