package service

import (
	"testing"
	"time"
)

func TestPayloadFailed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"quote", `{"price":"150.00"}`, false},
		{"series ok", `{"status":"ok","values":[]}`, false},
		{"status error", `{"status":"error","message":"symbol not found"}`, true},
		{"code 429", `{"code":429,"message":"limit reached"}`, true},
		{"code 401", `{"code":401,"status":"error"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParsePayload: %v", err)
			}
			if p.Failed() != tt.want {
				t.Errorf("Failed() = %v, want %v", p.Failed(), tt.want)
			}
		})
	}
}

func TestPayloadPriceValue(t *testing.T) {
	tests := []struct {
		name   string
		p      *Payload
		want   float64
		wantOK bool
	}{
		{"normal", &Payload{Price: "150.25"}, 150.25, true},
		{"empty", &Payload{}, 0, false},
		{"garbage", &Payload{Price: "n/a"}, 0, false},
		{"nil receiver", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.p.PriceValue()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PriceValue() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPayloadLatest(t *testing.T) {
	raw := `{"values":[
		{"datetime":"2024-03-01 15:00:00","rsi":"25.5"},
		{"datetime":"2024-03-01 14:00:00","rsi":"40.1"}
	]}`
	p, err := ParsePayload([]byte(raw))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}

	v, asOf := p.Latest("rsi")
	if v == nil || *v != 25.5 {
		t.Errorf("value = %v, want 25.5 (позиция 0 — самая свежая)", v)
	}
	want := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	if asOf == nil || !asOf.Equal(want) {
		t.Errorf("asOf = %v, want %v", asOf, want)
	}

	if v, _ := p.Latest("sma"); v != nil {
		t.Errorf("missing key must give nil, got %v", v)
	}

	var nilPayload *Payload
	if v, _ := nilPayload.Latest("rsi"); v != nil {
		t.Error("nil payload must give nil")
	}
}

func TestPayloadLatestDateOnly(t *testing.T) {
	// дневные серии приходят без времени
	p, err := ParsePayload([]byte(`{"values":[{"datetime":"2024-03-01","sma":"148.0"}]}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	v, asOf := p.Latest("sma")
	if v == nil || *v != 148.0 {
		t.Errorf("value = %v, want 148.0", v)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if asOf == nil || !asOf.Equal(want) {
		t.Errorf("asOf = %v, want %v", asOf, want)
	}
}

func TestPayloadLatestUnparsableValue(t *testing.T) {
	p, err := ParsePayload([]byte(`{"values":[{"datetime":"2024-03-01 15:00:00","rsi":"null"}]}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if v, asOf := p.Latest("rsi"); v != nil || asOf != nil {
		t.Errorf("got (%v, %v), want (nil, nil) for unparsable value", v, asOf)
	}
}
