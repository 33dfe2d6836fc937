package models

import "time"

type StrategyStatus string

const (
	StatusRunning  StrategyStatus = "running"
	StatusStopped  StrategyStatus = "stopped"
	StatusDegraded StrategyStatus = "degraded"
)

type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

func (t Timeframe) Valid() bool {
	switch t {
	case TF1m, TF5m, TF15m, TF1h, TF4h, TF1d:
		return true
	}
	return false
}

// Condition — одно сравнение "indicator operator value" как оно лежит в jsonb.
// Value — либо число строкой, либо имя другого индикатора.
type Condition struct {
	Indicator string `json:"indicator"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

type Strategy struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      StrategyStatus `json:"status"`
	Timeframe   Timeframe      `json:"timeframe"`
	Symbols     []string       `json:"symbols"`
	Conditions  []Condition    `json:"conditions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Inert — стратегия без символов или условий никогда не оценивается.
func (s *Strategy) Inert() bool {
	return len(s.Symbols) == 0 || len(s.Conditions) == 0
}
