package assistant

import (
	"testing"

	"alert_bot/internal/models"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"Hello there", IntentGreeting},
		{"Create a strategy for AAPL when RSI < 30", IntentCreateStrategy},
		{"Please set up a strategy for me", IntentCreateStrategy},
		{"Show me my strategies", IntentListStrategies},
		{"what are my strats", IntentListStrategies},
		{"Delete my RSI Scalper strategy", IntentDeleteStrategy},
		{"get rid of the old strategy", IntentDeleteStrategy},
		{"Start my Dip Buyer strategy", IntentStartStrategy},
		{"activate the Golden Cross strategy", IntentStartStrategy},
		{"stop my Dip Buyer strategy", IntentStopStrategy},
		{"What is the price of TSLA?", IntentGetMarketData},
		{"get me data for MSFT", IntentGetMarketData},
		// вопрос о термине, а не запрос данных: нет тикера в верхнем регистре
		{"What is a timeframe?", IntentTradingConcept},
		{"explain moving average", IntentTradingConcept},
		{"How do I export my trade history?", IntentHowToExport},
		{"my alerts aren't working", IntentTroubleshoot},
		{"help", IntentHelp},
		{"what can you do", IntentHelp},
		{"can we just chat", IntentConversation},
		{"asdfgh", IntentFallback},
		{"", IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := DetectIntent(tt.message); got != tt.want {
				t.Errorf("DetectIntent(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestParseStrategyCommand(t *testing.T) {
	cmd := "Create a strategy for AAPL on 1h when RSI is less than 30 and Price > SMA50, name it Dip Buyer"
	st, errReply := ParseStrategyCommand(cmd)
	if errReply != "" {
		t.Fatalf("unexpected error reply: %s", errReply)
	}

	if st.Name != "Dip Buyer" {
		t.Errorf("name = %q, want %q", st.Name, "Dip Buyer")
	}
	if len(st.Symbols) != 1 || st.Symbols[0] != "AAPL" {
		t.Errorf("symbols = %v, want [AAPL]", st.Symbols)
	}
	if st.Timeframe != models.TF1h {
		t.Errorf("timeframe = %v, want 1h", st.Timeframe)
	}
	if st.Status != models.StatusStopped {
		t.Errorf("status = %v, новые стратегии создаются остановленными", st.Status)
	}

	want := []models.Condition{
		{Indicator: "RSI", Operator: "<", Value: "30"},
		{Indicator: "Price", Operator: ">", Value: "SMA50"},
	}
	if len(st.Conditions) != len(want) {
		t.Fatalf("conditions = %+v, want %+v", st.Conditions, want)
	}
	for i, c := range want {
		if st.Conditions[i] != c {
			t.Errorf("condition[%d] = %+v, want %+v", i, st.Conditions[i], c)
		}
	}
}

func TestParseStrategyCommandDefaults(t *testing.T) {
	st, errReply := ParseStrategyCommand("create a strategy for TSLA when price > 200")
	if errReply != "" {
		t.Fatalf("unexpected error reply: %s", errReply)
	}
	if st.Timeframe != models.TF15m {
		t.Errorf("timeframe = %v, want default 15m", st.Timeframe)
	}
	if st.Name == "" {
		t.Error("name must be generated when not given")
	}
	if len(st.Conditions) != 1 || st.Conditions[0].Indicator != "Price" {
		t.Errorf("conditions = %+v", st.Conditions)
	}
}

func TestParseStrategyCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"no symbols", "create a strategy when RSI < 30"},
		{"no conditions", "create a strategy for AAPL"},
		{"unparsable condition", "create a strategy for AAPL when vibes are good"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if st, errReply := ParseStrategyCommand(tt.cmd); errReply == "" {
				t.Errorf("got strategy %+v, want error reply", st)
			}
		})
	}
}

func TestParseDeleteCommand(t *testing.T) {
	tests := []struct {
		cmd      string
		wantName string
		wantErr  bool
	}{
		{"Delete my RSI Scalper strategy", "RSI Scalper", false},
		{"remove the 'Dip Buyer' strategy", "Dip Buyer", false},
		{"delete it", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			name, errReply := ParseDeleteCommand(tt.cmd)
			if (errReply != "") != tt.wantErr {
				t.Fatalf("errReply = %q, wantErr = %v", errReply, tt.wantErr)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestParseToggleCommand(t *testing.T) {
	tests := []struct {
		cmd      string
		wantName string
		wantErr  bool
	}{
		{"Start my Dip Buyer strategy", "Dip Buyer", false},
		{"stop the 'Golden Cross' strategy", "Golden Cross", false},
		{"start it", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			name, errReply := ParseToggleCommand(tt.cmd)
			if (errReply != "") != tt.wantErr {
				t.Fatalf("errReply = %q, wantErr = %v", errReply, tt.wantErr)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestParseMarketDataCommand(t *testing.T) {
	tests := []struct {
		cmd        string
		wantSymbol string
		wantInd    string
		wantErr    bool
	}{
		{"What is the price of TSLA?", "TSLA", "price", false},
		{"get me the rsi for AAPL", "AAPL", "RSI", false},
		{"sma200 for MSFT please", "MSFT", "SMA200", false},
		{"sma50 for GOOG", "GOOG", "SMA50", false},
		// тикер обязан быть в верхнем регистре
		{"price of aapl", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			symbol, ind, errReply := ParseMarketDataCommand(tt.cmd)
			if (errReply != "") != tt.wantErr {
				t.Fatalf("errReply = %q, wantErr = %v", errReply, tt.wantErr)
			}
			if symbol != tt.wantSymbol || ind != tt.wantInd {
				t.Errorf("got (%q, %q), want (%q, %q)", symbol, ind, tt.wantSymbol, tt.wantInd)
			}
		})
	}
}
