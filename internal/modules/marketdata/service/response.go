package service

import (
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Payload — общий вид ответа Twelve Data: котировка несёт поле price,
// индикаторы — серию values (позиция 0 — самая свежая точка),
// ошибки провайдера приходят с 200 и полями code/status/message.
type Payload struct {
	Price   string              `json:"price"`
	Status  string              `json:"status"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Values  []map[string]string `json:"values"`
}

func ParsePayload(raw []byte) (*Payload, error) {
	var p Payload
	if err := sonic.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Payload) Failed() bool {
	return p.Code >= 400 || p.Status == "error"
}

// PriceValue — цена из котировки, false если её нет или она не парсится.
func (p *Payload) PriceValue() (float64, bool) {
	if p == nil || p.Price == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Latest достаёт значение поля key из самой свежей точки серии вместе
// с её as-of временем. Пустая серия или непарсящееся значение — (nil, nil).
func (p *Payload) Latest(key string) (*float64, *time.Time) {
	if p == nil || len(p.Values) == 0 {
		return nil, nil
	}
	point := p.Values[0]
	raw, ok := point[key]
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, nil
	}
	return &v, parseDatetime(point["datetime"])
}

func parseDatetime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
