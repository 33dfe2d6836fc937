package assistant

import (
	"regexp"
	"strings"
	"time"

	"alert_bot/internal/models"
)

type Intent string

const (
	IntentGreeting       Intent = "GREETING"
	IntentCreateStrategy Intent = "CREATE_STRATEGY"
	IntentListStrategies Intent = "LIST_STRATEGIES"
	IntentDeleteStrategy Intent = "DELETE_STRATEGY"
	IntentStartStrategy  Intent = "START_STRATEGY"
	IntentStopStrategy   Intent = "STOP_STRATEGY"
	IntentGetMarketData  Intent = "GET_MARKET_DATA"
	IntentTradingConcept Intent = "QUESTION_TRADING_CONCEPT"
	IntentHowToExport    Intent = "HOW_TO_EXPORT"
	IntentTroubleshoot   Intent = "TROUBLESHOOT_ALERTS"
	IntentConversation   Intent = "CONVERSATION"
	IntentHelp           Intent = "HELP"
	IntentFallback       Intent = "FALLBACK"
)

var (
	reMarketData   = regexp.MustCompile(`(?i)\b(price of|rsi for|sma for|data for|get me|what's the)\b`)
	reTickerUpper  = regexp.MustCompile(`\b([A-Z]{1,5})\b`)
	reDelete       = regexp.MustCompile(`(?i)\b(delete|remove|get rid of)\b.*\b(strategy)\b`)
	reStart        = regexp.MustCompile(`(?i)\b(start|activate|enable)\b.*\b(strategy)\b`)
	reStop         = regexp.MustCompile(`(?i)\b(stop|pause|deactivate|disable)\b.*\b(strategy)\b`)
	reCreate       = regexp.MustCompile(`(?i)\b(create|build|make|set up)\b.*\b(strategy)\b`)
	reList         = regexp.MustCompile(`(?i)\b(list|show|see|what are my|get my)\b.*\b(strategies|strats)\b`)
	reExport       = regexp.MustCompile(`(?i)\b(export|download|csv)\b.*\b(journal|trades|history)\b`)
	reTroubleshoot = regexp.MustCompile(`(?i)\b(alerts? aren't working|troubleshoot|not getting alerts|alerts? broken|debug)\b`)
	reConcept      = regexp.MustCompile(`(?i)\b(what is|what's|define|explain|tell me about)\b`)
	reHelp         = regexp.MustCompile(`(?i)\b(help|what can you do|features|commands|capabilities)\b`)
	reConversation = regexp.MustCompile(`(?i)\b(talk|chat|conversation|are you sentient)\b`)
	reGreeting     = regexp.MustCompile(`(?i)\b(hello|hi|hey|howdy|yo)\b`)
)

// DetectIntent — порядок проверок значим: более специфичные интенты выше.
func DetectIntent(message string) Intent {
	switch {
	case reMarketData.MatchString(message) && reTickerUpper.MatchString(message):
		return IntentGetMarketData
	case reDelete.MatchString(message):
		return IntentDeleteStrategy
	case reStart.MatchString(message):
		return IntentStartStrategy
	case reStop.MatchString(message):
		return IntentStopStrategy
	case reCreate.MatchString(message):
		return IntentCreateStrategy
	case reList.MatchString(message):
		return IntentListStrategies
	case reExport.MatchString(message):
		return IntentHowToExport
	case reTroubleshoot.MatchString(message):
		return IntentTroubleshoot
	case reConcept.MatchString(message):
		return IntentTradingConcept
	case reHelp.MatchString(message):
		return IntentHelp
	case reConversation.MatchString(message):
		return IntentConversation
	case reGreeting.MatchString(message):
		return IntentGreeting
	}
	return IntentFallback
}

var operatorAliases = map[string]string{
	"is greater than": ">", "is above": ">", "greater than": ">", ">": ">",
	"is less than": "<", "is below": "<", "less than": "<", "<": "<",
	"crosses above": "crosses_above", "crosses below": "crosses_below",
}

func normalizeOperator(op string) string {
	if n, ok := operatorAliases[strings.ToLower(strings.TrimSpace(op))]; ok {
		return n
	}
	return op
}

// canonical приводит имя индикатора из свободного текста к реестровому виду.
func canonical(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "PRICE" {
		return "Price"
	}
	return up
}

var (
	reName       = regexp.MustCompile(`(?i)(?:name it|named|called) ['"]?([^'"]+)['"]?`)
	reSymbols    = regexp.MustCompile(`(?i)for (?:symbol[s]?)?([A-Z0-9/,\s]+?)(?: on | when | name |,|$)`)
	reTimeframe  = regexp.MustCompile(`(?i)on (?:a |the )?(\d+(?:m|h|d|hr))`)
	reWhen       = regexp.MustCompile(`(?i)when (.*)`)
	reCondSplit  = regexp.MustCompile(`(?i), and |, | and |,`)
	reCondition  = regexp.MustCompile(`(?i)^\s*(?:the )?(Price|RSI|SMA50|SMA200)\s*(is greater than|is above|greater than|>|is less than|is below|less than|<|crosses above|crosses below)\s*(?:the )?(\d+|Price|RSI|SMA50|SMA200)\s*$`)
	reDeleteName = regexp.MustCompile(`(?i)(?:delete|remove|get rid of) (?:my |the )?['"]?([^'"]+?)['"]? strategy`)

	reWantRSI    = regexp.MustCompile(`\b(rsi)\b`)
	reWantSMA50  = regexp.MustCompile(`\b(sma50|50-period moving average)\b`)
	reWantSMA200 = regexp.MustCompile(`\b(sma200|200-period moving average)\b`)
)

// ParseStrategyCommand разбирает фразу вида
// "Create a strategy for AAPL on 1h when RSI < 30 and price > SMA50, name it Dip Buyer".
// Возвращает текст ошибки для пользователя, если не хватает символов или условий.
func ParseStrategyCommand(command string) (*models.Strategy, string) {
	st := &models.Strategy{
		Description: "Generated by AI Assistant",
		Status:      models.StatusStopped,
		Timeframe:   models.Timeframe("15m"),
	}

	if m := reName.FindStringSubmatch(command); m != nil {
		st.Name = strings.TrimSpace(m[1])
	} else {
		st.Name = "AI Strategy - " + time.Now().Format("15:04:05")
	}

	if m := reSymbols.FindStringSubmatch(command); m != nil {
		for _, s := range strings.Split(m[1], ",") {
			if s = strings.TrimSpace(s); s != "" {
				st.Symbols = append(st.Symbols, strings.ToUpper(s))
			}
		}
	}

	if m := reTimeframe.FindStringSubmatch(command); m != nil {
		if tf := models.Timeframe(strings.Replace(strings.ToLower(m[1]), "hr", "h", 1)); tf.Valid() {
			st.Timeframe = tf
		}
	}

	if m := reWhen.FindStringSubmatch(command); m != nil {
		for _, part := range reCondSplit.Split(m[1], -1) {
			cm := reCondition.FindStringSubmatch(strings.TrimSpace(part))
			if cm == nil {
				continue
			}
			st.Conditions = append(st.Conditions, models.Condition{
				Indicator: canonical(cm[1]),
				Operator:  normalizeOperator(cm[2]),
				Value:     canonicalValue(cm[3]),
			})
		}
	}

	if len(st.Symbols) == 0 {
		return nil, "I can create that strategy, but I need to know which stock symbol(s) to use. For example, '... for symbol AAPL ...'."
	}
	if len(st.Conditions) == 0 {
		return nil, "I can create that strategy, but I need at least one condition. For example, '... when RSI < 30 ...'."
	}
	return st, ""
}

// canonicalValue: число остаётся числом, имя индикатора приводится к реестру.
func canonicalValue(s string) string {
	if isDigits(s) {
		return s
	}
	return canonical(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

var reToggleName = regexp.MustCompile(`(?i)(?:start|activate|enable|stop|pause|deactivate|disable) (?:my |the )?['"]?([^'"]+?)['"]? strategy`)

// ParseToggleCommand — имя стратегии из команды включения/выключения.
func ParseToggleCommand(command string) (string, string) {
	if m := reToggleName.FindStringSubmatch(command); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1]), ""
	}
	return "", "I need the strategy name. For example, 'start my Dip Buyer strategy'."
}

func ParseDeleteCommand(command string) (string, string) {
	if m := reDeleteName.FindStringSubmatch(command); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1]), ""
	}
	return "", "I can delete a strategy, but I need its name. For example, 'delete my Tesla Scalper strategy'."
}

// ParseMarketDataCommand вытаскивает тикер и индикатор (по умолчанию цена).
func ParseMarketDataCommand(command string) (symbol, ind string, errReply string) {
	if m := reTickerUpper.FindStringSubmatch(command); m != nil {
		symbol = m[0]
	}

	ind = "price"
	lower := strings.ToLower(command)
	if reWantRSI.MatchString(lower) {
		ind = "RSI"
	}
	if reWantSMA50.MatchString(lower) {
		ind = "SMA50"
	}
	if reWantSMA200.MatchString(lower) {
		ind = "SMA200"
	}

	if symbol == "" {
		return "", "", "I can get market data, but I need a valid stock symbol (e.g., AAPL, TSLA)."
	}
	return symbol, ind, ""
}
