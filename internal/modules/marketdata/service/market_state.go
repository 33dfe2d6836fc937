package service

import (
	"context"

	"alert_bot/internal/indicator"

	"github.com/bytedance/sonic"
)

// MarketState — "Open"/"Closed" по состоянию биржи у провайдера.
// NYSE используем как прокси общего состояния рынка.
func (c *Client) MarketState(ctx context.Context, exchange string) (string, bool) {
	raw := c.Fetch(ctx, indicator.Request{
		Endpoint: "market_state",
		Params:   []indicator.Param{{Key: "exchange", Value: exchange}},
	})
	if raw == nil {
		return "", false
	}

	var state struct {
		IsMarketOpen bool `json:"is_market_open"`
	}
	if err := sonic.Unmarshal(raw, &state); err != nil {
		return "", false
	}
	if state.IsMarketOpen {
		return "Open", true
	}
	return "Closed", true
}
