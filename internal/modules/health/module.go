package health

import (
	"go.uber.org/fx"

	"alert_bot/internal/modules/health/service"
)

// Module отдаёт только состояние; endpoints живут в модуле api.
func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
		),
	)
}
