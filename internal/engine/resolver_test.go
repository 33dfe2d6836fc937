package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/internal/models"
)

// fakeFetcher отдаёт заготовленные ответы по ключу запроса и считает вызовы.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     map[string]int
	responses map[string][]byte
}

func (f *fakeFetcher) GetOrFetch(_ context.Context, req indicator.Request) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[req.Key()]++
	return f.responses[req.Key()]
}

func (f *fakeFetcher) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func mustParseRules(t *testing.T, conds []models.Condition) []indicator.Rule {
	t.Helper()
	rules, err := indicator.ParseRules(conds)
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	return rules
}

func TestResolveDeduplicatesRequests(t *testing.T) {
	fetch := &fakeFetcher{responses: map[string][]byte{
		"price:AAPL": []byte(`{"price":"150.25"}`),
		"rsi:AAPL:1h:14": []byte(
			`{"values":[{"datetime":"2024-03-01 15:00:00","rsi":"25.5"},{"datetime":"2024-03-01 14:00:00","rsi":"40.1"}]}`),
	}}
	r := NewResolver(fetch)

	// RSI встречается в двух условиях — провайдер должен быть вызван один раз
	rules := mustParseRules(t, []models.Condition{
		{Indicator: "RSI", Operator: "<", Value: "30"},
		{Indicator: "RSI", Operator: ">", Value: "20"},
	})

	res := r.Resolve(context.Background(), "AAPL", models.TF1h, rules)

	if got := fetch.callCount("rsi:AAPL:1h:14"); got != 1 {
		t.Errorf("rsi fetched %d times, want 1", got)
	}
	if got := fetch.callCount("price:AAPL"); got != 1 {
		t.Errorf("price fetched %d times, want 1", got)
	}
	if !res.PriceOK || res.Price != 150.25 {
		t.Errorf("price = (%v, %v), want (150.25, true)", res.Price, res.PriceOK)
	}
	if v := res.Values[indicator.RSI]; v == nil || *v != 25.5 {
		t.Errorf("RSI = %v, want 25.5 (самая свежая точка серии)", v)
	}
	want := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	if res.AsOf == nil || !res.AsOf.Equal(want) {
		t.Errorf("AsOf = %v, want %v", res.AsOf, want)
	}
}

func TestResolveBollingerSharesOneCall(t *testing.T) {
	fetch := &fakeFetcher{responses: map[string][]byte{
		"price:AAPL": []byte(`{"price":"139.00"}`),
		"bbands:AAPL:1h:20": []byte(
			`{"values":[{"datetime":"2024-03-01 15:00:00","upper_band":"160.0","middle_band":"150.0","lower_band":"140.0"}]}`),
	}}
	r := NewResolver(fetch)

	rules := mustParseRules(t, []models.Condition{
		{Indicator: "Price", Operator: "<", Value: "BB_LOWER"},
	})

	res := r.Resolve(context.Background(), "AAPL", models.TF1h, rules)

	if got := fetch.callCount("bbands:AAPL:1h:20"); got != 1 {
		t.Fatalf("bbands fetched %d times, want 1", got)
	}
	// один вызов закрывает все три полосы
	for name, want := range map[indicator.Name]float64{
		indicator.BBUpper:  160.0,
		indicator.BBMiddle: 150.0,
		indicator.BBLower:  140.0,
	} {
		if v := res.Values[name]; v == nil || *v != want {
			t.Errorf("%s = %v, want %v", name, v, want)
		}
	}
}

func TestResolvePriceUnavailable(t *testing.T) {
	fetch := &fakeFetcher{responses: map[string][]byte{
		// цены нет, индикатор есть
		"rsi:AAPL:1h:14": []byte(`{"values":[{"datetime":"2024-03-01 15:00:00","rsi":"25.5"}]}`),
	}}
	r := NewResolver(fetch)

	rules := mustParseRules(t, []models.Condition{
		{Indicator: "RSI", Operator: "<", Value: "30"},
	})

	res := r.Resolve(context.Background(), "AAPL", models.TF1h, rules)

	if res.PriceOK {
		t.Error("PriceOK = true without a price response")
	}
	rule := rules[0]
	if Evaluate(res, rule) {
		t.Error("condition must not fire when the price is unresolved")
	}
}

func TestResolveEarliestAsOfWins(t *testing.T) {
	fetch := &fakeFetcher{responses: map[string][]byte{
		"price:AAPL":      []byte(`{"price":"150.00"}`),
		"rsi:AAPL:1h:14":  []byte(`{"values":[{"datetime":"2024-03-01 15:00:00","rsi":"25.5"}]}`),
		"sma:AAPL:1h:50":  []byte(`{"values":[{"datetime":"2024-03-01 13:00:00","sma":"148.0"}]}`),
		"sma:AAPL:1h:200": []byte(`{"values":[{"datetime":"2024-03-01 14:00:00","sma":"145.0"}]}`),
	}}
	r := NewResolver(fetch)

	rules := mustParseRules(t, []models.Condition{
		{Indicator: "RSI", Operator: "<", Value: "30"},
		{Indicator: "SMA50", Operator: ">", Value: "SMA200"},
	})

	res := r.Resolve(context.Background(), "AAPL", models.TF1h, rules)

	want := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	if res.AsOf == nil || !res.AsOf.Equal(want) {
		t.Errorf("AsOf = %v, want earliest %v", res.AsOf, want)
	}
}

func TestResolveFailedIndicatorStaysNil(t *testing.T) {
	fetch := &fakeFetcher{responses: map[string][]byte{
		"price:AAPL": []byte(`{"price":"150.00"}`),
		// rsi отсутствует: провайдер вернул nil
	}}
	r := NewResolver(fetch)

	rules := mustParseRules(t, []models.Condition{
		{Indicator: "RSI", Operator: "<", Value: "30"},
	})

	res := r.Resolve(context.Background(), "AAPL", models.TF1h, rules)

	if v, ok := res.Values[indicator.RSI]; !ok || v != nil {
		t.Errorf("RSI = (%v, %v), want explicit nil entry", v, ok)
	}
	if res.AsOf != nil {
		t.Errorf("AsOf = %v, want nil", res.AsOf)
	}
}
