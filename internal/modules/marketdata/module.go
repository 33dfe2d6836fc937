package marketdata

import (
	"context"

	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/health/service"
	mdservice "alert_bot/internal/modules/marketdata/service"
	"alert_bot/internal/store"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config) *mdservice.Client {
				return mdservice.NewClient(cfg.TwelveDataKey, cfg.FetchTimeout)
			},
			func(client *mdservice.Client, cache *store.APICache, cfg *config.Config) *mdservice.CachedClient {
				return mdservice.NewCachedClient(client, cache, cfg.CacheTTL)
			},
			// резолвер и ассистент ходят только через кэш
			func(c *mdservice.CachedClient) mdservice.Fetcher {
				return c
			},
			func(cfg *config.Config, state *service.State) *mdservice.Stream {
				return mdservice.NewStream(cfg.TwelveDataKey, cfg.StreamSymbols, state)
			},
		),
		fx.Invoke(
			func(lc fx.Lifecycle, stream *mdservice.Stream, ctx context.Context) {
				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						go stream.Run(ctx)
						return nil
					},
				})
			},
		),
	)
}
