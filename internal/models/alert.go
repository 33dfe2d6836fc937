package models

import "time"

const AlertTypeSignal = "Signal Triggered"

// Alert — строка, которую движок пишет ровно один раз на сработавшую
// пару (стратегия, символ) за прогон. После записи движок её не трогает,
// is_read живёт на стороне UI.
type Alert struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	StrategyID   int64   `json:"strategy_id"`
	StrategyName string  `json:"strategy_name"`
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Type         string  `json:"type"`
	// As-of время данных индикатора, если его удалось извлечь из ответа провайдера.
	DataTimestamp *time.Time `json:"data_timestamp,omitempty"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}
