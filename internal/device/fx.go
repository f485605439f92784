package device

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/lunebill/internal/device/service"
)

var Module = fx.Module("device.matcher",
	fx.Provide(service.NewService),
)
