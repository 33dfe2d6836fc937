package engine

import (
	"context"
	"time"

	"alert_bot/internal/models"
)

// AlertStore — то, что движку нужно от таблицы alerts: только вставка.
type AlertStore interface {
	Insert(ctx context.Context, alert *models.Alert) error
}

// Emitter пишет ровно одну строку на сработавшую пару (стратегия, символ)
// за прогон. Никаких апдейтов и дедупликации: семантика at-least-once,
// условие, держащееся истинным несколько прогонов, породит несколько алертов.
type Emitter struct {
	alerts AlertStore
}

func NewEmitter(alerts AlertStore) *Emitter {
	return &Emitter{alerts: alerts}
}

func (e *Emitter) Emit(ctx context.Context, st *models.Strategy, symbol string, price float64, asOf *time.Time) (*models.Alert, error) {
	alert := &models.Alert{
		UserID:        st.UserID,
		StrategyID:    st.ID,
		StrategyName:  st.Name,
		Symbol:        symbol,
		Price:         price,
		Type:          models.AlertTypeSignal,
		DataTimestamp: asOf,
		IsRead:        false,
	}
	if err := e.alerts.Insert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}
