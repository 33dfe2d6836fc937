package indicator

import (
	"fmt"
	"strconv"

	"alert_bot/internal/models"
)

// Name — каноническое имя индикатора. Единый реестр: и резолвер (что фетчить),
// и эвалюатор (как читать value условия) ходят только сюда.
type Name string

const (
	Price    Name = "Price"
	RSI      Name = "RSI"
	SMA50    Name = "SMA50"
	SMA200   Name = "SMA200"
	EMA20    Name = "EMA20"
	EMA50    Name = "EMA50"
	MACD     Name = "MACD"
	STOCH    Name = "STOCH"
	BBUpper  Name = "BB_UPPER"
	BBMiddle Name = "BB_MIDDLE"
	BBLower  Name = "BB_LOWER"
)

var known = map[string]Name{
	string(Price):    Price,
	string(RSI):      RSI,
	string(SMA50):    SMA50,
	string(SMA200):   SMA200,
	string(EMA20):    EMA20,
	string(EMA50):    EMA50,
	string(MACD):     MACD,
	string(STOCH):    STOCH,
	string(BBUpper):  BBUpper,
	string(BBMiddle): BBMiddle,
	string(BBLower):  BBLower,
}

// Known возвращает каноническое имя, если строка — известный индикатор.
func Known(s string) (Name, bool) {
	n, ok := known[s]
	return n, ok
}

type Operator string

const (
	OpGT         Operator = ">"
	OpLT         Operator = "<"
	OpCrossAbove Operator = "crosses_above"
	OpCrossBelow Operator = "crosses_below"
)

func ParseOperator(s string) (Operator, bool) {
	switch Operator(s) {
	case OpGT, OpLT, OpCrossAbove, OpCrossBelow:
		return Operator(s), true
	}
	return "", false
}

// RHS — правый операнд условия: либо литерал, либо ссылка на индикатор.
type RHS struct {
	IsRef bool
	Ref   Name
	Lit   float64
}

// Rule — условие, разобранное один раз при загрузке стратегии.
// Эвалюатор со строками больше не работает.
type Rule struct {
	Left Name
	Op   Operator
	RHS  RHS
}

func ParseRule(c models.Condition) (Rule, error) {
	left, ok := Known(c.Indicator)
	if !ok {
		return Rule{}, fmt.Errorf("unknown indicator %q", c.Indicator)
	}
	op, ok := ParseOperator(c.Operator)
	if !ok {
		return Rule{}, fmt.Errorf("unknown operator %q", c.Operator)
	}

	// value: известное имя индикатора или числовой литерал
	if ref, ok := Known(c.Value); ok {
		return Rule{Left: left, Op: op, RHS: RHS{IsRef: true, Ref: ref}}, nil
	}
	lit, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return Rule{}, fmt.Errorf("condition value %q is neither indicator nor number", c.Value)
	}
	return Rule{Left: left, Op: op, RHS: RHS{Lit: lit}}, nil
}

func ParseRules(conds []models.Condition) ([]Rule, error) {
	rules := make([]Rule, 0, len(conds))
	for _, c := range conds {
		r, err := ParseRule(c)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Required — множество индикаторов, которые надо зарезолвить для набора правил.
// Price сюда не входит: цена фетчится всегда и отдельно.
func Required(rules []Rule) []Name {
	seen := map[Name]bool{}
	var out []Name
	add := func(n Name) {
		if n == Price || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, r := range rules {
		add(r.Left)
		if r.RHS.IsRef {
			add(r.RHS.Ref)
		}
	}
	return out
}

// Interval переводит таймфрейм стратегии в interval провайдера.
func Interval(tf models.Timeframe) string {
	switch tf {
	case models.TF1m:
		return "1min"
	case models.TF5m:
		return "5min"
	case models.TF15m:
		return "15min"
	case models.TF1h:
		return "1h"
	case models.TF4h:
		return "4h"
	case models.TF1d:
		return "1day"
	}
	return "1h"
}

// Param — пара запроса. Порядок параметров фиксирован: от него зависит ключ кэша.
type Param struct {
	Key   string
	Value string
}

// Request — один вызов провайдера.
type Request struct {
	Endpoint string
	Params   []Param
}

// Key — детерминированный ключ кэша: endpoint + значения параметров
// в объявленном порядке через двоеточие.
func (r Request) Key() string {
	key := r.Endpoint
	for _, p := range r.Params {
		key += ":" + p.Value
	}
	return key
}

// PriceRequest — котировка, фетчится для каждого символа независимо от условий.
func PriceRequest(symbol string) Request {
	return Request{
		Endpoint: "price",
		Params:   []Param{{"symbol", symbol}},
	}
}

// RequestFor мапит индикатор на endpoint и параметры провайдера.
// Все три полосы Боллинджера резолвятся одним вызовом bbands.
func RequestFor(n Name, symbol string, tf models.Timeframe) (Request, bool) {
	interval := Interval(tf)
	switch n {
	case RSI:
		return Request{Endpoint: "rsi", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "14"},
		}}, true
	case SMA50:
		return Request{Endpoint: "sma", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "50"},
		}}, true
	case SMA200:
		return Request{Endpoint: "sma", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "200"},
		}}, true
	case EMA20:
		return Request{Endpoint: "ema", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "20"},
		}}, true
	case EMA50:
		return Request{Endpoint: "ema", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "50"},
		}}, true
	case MACD:
		return Request{Endpoint: "macd", Params: []Param{
			{"symbol", symbol}, {"interval", interval},
		}}, true
	case STOCH:
		return Request{Endpoint: "stoch", Params: []Param{
			{"symbol", symbol}, {"interval", interval},
		}}, true
	case BBUpper, BBMiddle, BBLower:
		return Request{Endpoint: "bbands", Params: []Param{
			{"symbol", symbol}, {"interval", interval}, {"time_period", "20"},
		}}, true
	}
	return Request{}, false
}

// Fills — какие имена заполняет один запрос (bbands закрывает все три полосы).
func Fills(n Name) []Name {
	switch n {
	case BBUpper, BBMiddle, BBLower:
		return []Name{BBUpper, BBMiddle, BBLower}
	default:
		return []Name{n}
	}
}

// SeriesKey — поле точки серии в ответе провайдера для данного имени.
func SeriesKey(n Name) string {
	switch n {
	case RSI:
		return "rsi"
	case SMA50, SMA200:
		return "sma"
	case EMA20, EMA50:
		return "ema"
	case MACD:
		return "macd"
	case STOCH:
		return "slow_k"
	case BBUpper:
		return "upper_band"
	case BBMiddle:
		return "middle_band"
	case BBLower:
		return "lower_band"
	}
	return ""
}
