package engine

import (
	"math"

	"alert_bot/internal/indicator"
)

// Evaluate — одно условие против зарезолвленных значений. Любой отсутствующий
// или не-числовой операнд даёт false: на неполных данных молчим, а не стреляем.
//
// crosses_above/crosses_below — проверка текущего уровня, не настоящий кросс:
// память прошлого прогона не ведётся, так что условие, остающееся истинным,
// будет срабатывать каждый прогон. Честный детектор пересечения потребовал бы
// хранить прошлые значения по (стратегия, символ) — сознательно не делаем.
func Evaluate(res Resolved, rule indicator.Rule) bool {
	left, ok := operand(res, rule.Left)
	if !ok {
		return false
	}

	var right float64
	if rule.RHS.IsRef {
		right, ok = operand(res, rule.RHS.Ref)
		if !ok {
			return false
		}
	} else {
		right = rule.RHS.Lit
	}

	switch rule.Op {
	case indicator.OpGT, indicator.OpCrossAbove:
		return left > right
	case indicator.OpLT, indicator.OpCrossBelow:
		return left < right
	}
	return false
}

// Fires — логическое И по всем правилам, с коротким замыканием.
// Пустой список не срабатывает никогда.
func Fires(res Resolved, rules []indicator.Rule) bool {
	if len(rules) == 0 {
		return false
	}
	for _, rule := range rules {
		if !Evaluate(res, rule) {
			return false
		}
	}
	return true
}

func operand(res Resolved, name indicator.Name) (float64, bool) {
	if name == indicator.Price {
		if !res.PriceOK || math.IsNaN(res.Price) {
			return 0, false
		}
		return res.Price, true
	}
	v, ok := res.Values[name]
	if !ok || v == nil || math.IsNaN(*v) {
		return 0, false
	}
	return *v, true
}
