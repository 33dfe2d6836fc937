package telegram

import (
	"context"

	"alert_bot/internal/assistant"
	"alert_bot/internal/modules/config"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/internal/modules/telegram_bot/service"
	"alert_bot/internal/store"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			store.NewUsage,
			func(
				strategies *store.Strategies,
				usage *store.Usage,
				fetch mdservice.Fetcher,
				stream *mdservice.Stream,
			) *assistant.Service {
				return assistant.New(strategies, usage, fetch, stream)
			},
			func(cfg *config.Config, asst *assistant.Service, alerts *store.Alerts) (*service.Bot, error) {
				return service.NewBot(cfg.Telegram.Token, asst, alerts)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Bot, ctx context.Context) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						t.Start(ctx)
						return nil
					},
					OnStop: func(_ context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
