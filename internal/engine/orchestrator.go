package engine

import (
	"context"
	"fmt"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/internal/models"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/internal/notify"
	"alert_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

type StrategyStore interface {
	Running(ctx context.Context) ([]models.Strategy, error)
	SetStatus(ctx context.Context, id int64, status models.StrategyStatus) error
}

type SettingsStore interface {
	ByUser(ctx context.Context, userID int64) (*models.NotificationSettings, error)
}

// Orchestrator — один прогон на вызов: загрузить running-стратегии, пройти
// стратегии × символы, зарезолвить, оценить, записать алерт, уведомить.
// Состояния между прогонами нет — всё, что он знает, лежит в базе.
type Orchestrator struct {
	apiKey     string
	strategies StrategyStore
	settings   SettingsStore
	resolver   *Resolver
	emitter    *Emitter
	notifier   notify.Notifier
	health     *healthsvc.State
}

func NewOrchestrator(
	apiKey string,
	strategies StrategyStore,
	settings SettingsStore,
	resolver *Resolver,
	emitter *Emitter,
	notifier notify.Notifier,
	health *healthsvc.State,
) *Orchestrator {
	return &Orchestrator{
		apiKey:     apiKey,
		strategies: strategies,
		settings:   settings,
		resolver:   resolver,
		emitter:    emitter,
		notifier:   notifier,
		health:     health,
	}
}

// Run выполняет батч до конца. Фатальны только отсутствие ключа провайдера
// и невозможность загрузить список стратегий; всё per-symbol — лог и дальше.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.apiKey == "" {
		return fmt.Errorf("provider api key is not configured")
	}

	span := opentracing.StartSpan("engine.run")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	logger.Info("engine: run started")

	strategies, err := o.strategies.Running(ctx)
	if err != nil {
		return fmt.Errorf("load running strategies: %w", err)
	}
	if len(strategies) == 0 {
		logger.Info("engine: no running strategies")
		o.touch(0)
		return nil
	}

	// настройки уведомлений читаем один раз на пользователя за прогон
	settingsByUser := map[int64]*models.NotificationSettings{}

	var alerts int64
	for i := range strategies {
		st := &strategies[i]
		if st.Inert() {
			continue
		}

		rules, err := indicator.ParseRules(st.Conditions)
		if err != nil {
			logger.Warn("engine: strategy %q (id=%d) has bad conditions, skipping: %v", st.Name, st.ID, err)
			// помечаем degraded, чтобы она не грузилась каждый прогон
			// и владелец увидел проблему в списке стратегий
			if serr := o.strategies.SetStatus(ctx, st.ID, models.StatusDegraded); serr != nil {
				logger.Error("engine: failed to mark strategy %d degraded: %v", st.ID, serr)
			}
			continue
		}

		stSpan := opentracing.StartSpan("engine.strategy", opentracing.ChildOf(span.Context()))
		stSpan.SetTag("strategy_id", st.ID)

		for _, symbol := range st.Symbols {
			if fired := o.processSymbol(ctx, st, symbol, rules, settingsByUser); fired {
				alerts++
			}
		}
		stSpan.Finish()
	}

	o.touch(alerts)
	logger.Info("engine: run finished, alerts=%d", alerts)
	return nil
}

// processSymbol — один символ одной стратегии; любая проблема здесь
// не мешает остальным символам/стратегиям.
func (o *Orchestrator) processSymbol(
	ctx context.Context,
	st *models.Strategy,
	symbol string,
	rules []indicator.Rule,
	settingsByUser map[int64]*models.NotificationSettings,
) bool {
	res := o.resolver.Resolve(ctx, symbol, st.Timeframe, rules)
	if !res.PriceOK {
		logger.Warn("engine: %s: price unresolved, skipping symbol", symbol)
		return false
	}

	if !Fires(res, rules) {
		return false
	}

	logger.Info("engine: strategy %q fired for %s @ %.4f", st.Name, symbol, res.Price)

	if _, err := o.emitter.Emit(ctx, st, symbol, res.Price, res.AsOf); err != nil {
		// алерт не записался — уведомление всё равно пробуем,
		// эти два шага не транзакционны
		logger.Error("engine: %s: failed to persist alert: %v", symbol, err)
	}

	settings, ok := settingsByUser[st.UserID]
	if !ok {
		var err error
		settings, err = o.settings.ByUser(ctx, st.UserID)
		if err != nil {
			logger.Error("engine: failed to load notification settings for user %d: %v", st.UserID, err)
		}
		settingsByUser[st.UserID] = settings
	}

	result := o.notifier.Notify(ctx, settings, st.Name, symbol, res.Price)
	if result.Err != nil {
		logger.Error("engine: %s: notification %s", symbol, result)
	} else {
		logger.Info("engine: %s: notification %s", symbol, result)
	}
	return true
}

func (o *Orchestrator) touch(alerts int64) {
	if o.health != nil {
		o.health.TouchRun(time.Now(), alerts)
	}
}
