package main

import (
	"context"
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/lunebill/internal/billing"
	"github.com/smallbiznis/lunebill/internal/clock"
	"github.com/smallbiznis/lunebill/internal/config"
	"github.com/smallbiznis/lunebill/internal/device"
	"github.com/smallbiznis/lunebill/internal/invoice"
	"github.com/smallbiznis/lunebill/internal/observability"
	"github.com/smallbiznis/lunebill/internal/rating"
	"github.com/smallbiznis/lunebill/internal/worker"
)

func main() {
	cfg := config.Load()

	opts := []fx.Option{
		// Core Infrastructure
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(config.NewPricingConfigHolder),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		// Functional Domains
		device.Module,
		rating.Module,
		invoice.Module,
		billing.Module,
		worker.Module,
	}

	if cfg.Watch {
		fx.New(append(opts, fx.Invoke(worker.StartWatcher))...).Run()
		return
	}

	var w *worker.Worker
	app := fx.New(append(opts, fx.Populate(&w))...)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}
	runErr := w.RunOnce(ctx)
	if err := app.Stop(ctx); err != nil {
		log.Fatalf("stop: %v", err)
	}
	if runErr != nil {
		log.Fatalf("billing run failed: %v", runErr)
	}
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
