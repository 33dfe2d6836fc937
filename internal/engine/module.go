package engine

import (
	"alert_bot/internal/modules/config"
	healthsvc "alert_bot/internal/modules/health/service"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/internal/notify"
	"alert_bot/internal/store"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			func(fetch mdservice.Fetcher) *Resolver {
				return NewResolver(fetch)
			},
			func(alerts *store.Alerts) *Emitter {
				return NewEmitter(alerts)
			},
			func(cfg *config.Config) notify.Notifier {
				if cfg.NotifyStdout {
					return notify.NewStdout()
				}
				return notify.NewTelegram()
			},
			func(
				cfg *config.Config,
				strategies *store.Strategies,
				settings *store.Settings,
				resolver *Resolver,
				emitter *Emitter,
				notifier notify.Notifier,
				health *healthsvc.State,
			) *Orchestrator {
				return NewOrchestrator(cfg.TwelveDataKey, strategies, settings, resolver, emitter, notifier, health)
			},
		),
	)
}
