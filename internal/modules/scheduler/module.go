package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"

	"alert_bot/internal/engine"
	"alert_bot/internal/modules/config"
	"alert_bot/pkg/logger"
)

// Module — внутренний тикер прогонов. Основной путь запуска — внешний
// HTTP-триггер; тикер включается только при run_interval > 0.
func Module() fx.Option {
	return fx.Module("scheduler",
		fx.Invoke(func(
			lc fx.Lifecycle,
			cfg *config.Config,
			orch *engine.Orchestrator,
			ctx context.Context,
		) {
			if cfg.RunInterval <= 0 {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						t := time.NewTicker(cfg.RunInterval)
						defer t.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case <-t.C:
								if err := orch.Run(ctx); err != nil {
									logger.Error("scheduler: run failed: %v", err)
								}
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
