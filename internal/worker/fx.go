package worker

import (
	"context"

	"go.uber.org/fx"

	"github.com/smallbiznis/lunebill/internal/config"
	"github.com/smallbiznis/lunebill/internal/feed"
	"github.com/smallbiznis/lunebill/internal/seed"
)

var Module = fx.Module("worker",
	fx.Provide(feed.NewLoader),
	fx.Provide(seed.NewGenerator),
	fx.Provide(ProvideConfig),
	fx.Provide(New),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{RunInterval: cfg.RunInterval}
}

// StartWatcher keeps the interval loop running for watch mode. One-shot
// invocations call RunOnce directly and never start the loop.
func StartWatcher(lc fx.Lifecycle, cfg config.Config, w *Worker) {
	if !cfg.Watch {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go w.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
