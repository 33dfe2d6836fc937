package main

import (
	"context"
	"log"

	"alert_bot/internal/engine"
	"alert_bot/internal/modules/api"
	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/health"
	"alert_bot/internal/modules/marketdata"
	"alert_bot/internal/modules/postgres"
	"alert_bot/internal/modules/scheduler"
	telegram "alert_bot/internal/modules/telegram_bot"
	"alert_bot/pkg/logger"
	"alert_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	logger.Init()
	logger.SetServiceName("alert_bot")
	tracing.SetServiceName("alert_bot")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		health.Module(),
		marketdata.Module(),
		engine.Module(),
		scheduler.Module(),
		telegram.Module(),
		api.Module(),
		fx.Invoke(func(cfg *config.Config) {
			if cfg.Jaeger.Host == "" {
				return
			}
			_, _, err := tracing.InitTracer(tracing.Config{Host: cfg.Jaeger.Host, Port: cfg.Jaeger.Port})
			if err != nil {
				logger.Warn("tracing disabled: %v", err)
			}
		}),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Wait()
}
