package indicator

import (
	"testing"

	"alert_bot/internal/models"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name    string
		cond    models.Condition
		wantErr bool
		isRef   bool
		lit     float64
	}{
		{name: "literal rhs", cond: models.Condition{Indicator: "RSI", Operator: "<", Value: "30"}, lit: 30},
		{name: "indicator rhs", cond: models.Condition{Indicator: "SMA50", Operator: "crosses_above", Value: "SMA200"}, isRef: true},
		{name: "price rhs", cond: models.Condition{Indicator: "SMA50", Operator: ">", Value: "Price"}, isRef: true},
		{name: "unknown indicator", cond: models.Condition{Indicator: "VWAP", Operator: ">", Value: "1"}, wantErr: true},
		{name: "unknown operator", cond: models.Condition{Indicator: "RSI", Operator: ">=", Value: "1"}, wantErr: true},
		{name: "garbage value", cond: models.Condition{Indicator: "RSI", Operator: ">", Value: "abc"}, wantErr: true},
		{name: "float literal", cond: models.Condition{Indicator: "Price", Operator: ">", Value: "150.25"}, lit: 150.25},
	}

	for _, tt := range tests {
		r, err := ParseRule(tt.cond)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: ожидали ошибку, получили %+v", tt.name, r)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: неожиданная ошибка %v", tt.name, err)
			continue
		}
		if r.RHS.IsRef != tt.isRef {
			t.Errorf("%s: IsRef = %v, want %v", tt.name, r.RHS.IsRef, tt.isRef)
		}
		if !tt.isRef && r.RHS.Lit != tt.lit {
			t.Errorf("%s: Lit = %v, want %v", tt.name, r.RHS.Lit, tt.lit)
		}
	}
}

func TestRequired_DedupAndSkipPrice(t *testing.T) {
	rules := mustRules(t, []models.Condition{
		{Indicator: "RSI", Operator: ">", Value: "20"},
		{Indicator: "Price", Operator: "<", Value: "RSI"},
		{Indicator: "SMA50", Operator: "crosses_above", Value: "SMA200"},
	})

	got := Required(rules)
	want := map[Name]bool{RSI: true, SMA50: true, SMA200: true}
	if len(got) != len(want) {
		t.Fatalf("Required = %v, want ровно %d индикатора", got, len(want))
	}
	for _, n := range got {
		if !want[n] {
			t.Errorf("unexpected name %s", n)
		}
	}
}

func TestRequestKey_StableOrder(t *testing.T) {
	req, ok := RequestFor(SMA50, "AAPL", models.TF1h)
	if !ok {
		t.Fatal("RequestFor(SMA50) failed")
	}
	if req.Key() != "sma:AAPL:1h:50" {
		t.Errorf("key = %q", req.Key())
	}
	if PriceRequest("TSLA").Key() != "price:TSLA" {
		t.Errorf("price key = %q", PriceRequest("TSLA").Key())
	}
}

func TestBollingerSharesOneRequest(t *testing.T) {
	up, _ := RequestFor(BBUpper, "AAPL", models.TF1h)
	lo, _ := RequestFor(BBLower, "AAPL", models.TF1h)
	if up.Key() != lo.Key() {
		t.Errorf("полосы должны резолвиться одним запросом: %q != %q", up.Key(), lo.Key())
	}
	fills := Fills(BBMiddle)
	if len(fills) != 3 {
		t.Errorf("Fills(BB_MIDDLE) = %v", fills)
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		tf   models.Timeframe
		want string
	}{
		{models.TF1m, "1min"},
		{models.TF5m, "5min"},
		{models.TF15m, "15min"},
		{models.TF1h, "1h"},
		{models.TF4h, "4h"},
		{models.TF1d, "1day"},
	}
	for _, tt := range tests {
		if got := Interval(tt.tf); got != tt.want {
			t.Errorf("Interval(%s) = %q, want %q", tt.tf, got, tt.want)
		}
	}
}

func mustRules(t *testing.T, conds []models.Condition) []Rule {
	t.Helper()
	rules, err := ParseRules(conds)
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	return rules
}
