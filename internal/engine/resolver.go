package engine

import (
	"context"
	"sync"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/internal/models"
	mdservice "alert_bot/internal/modules/marketdata/service"
)

// Resolved — всё, что нужно эвалюатору по одному символу за прогон.
// nil в Values — "не удалось зарезолвить": любое условие на таком
// индикаторе даст false.
type Resolved struct {
	Price   float64
	PriceOK bool
	Values  map[indicator.Name]*float64
	// Самый ранний непустой as-of среди извлечённых индикаторов —
	// он станет data_timestamp алерта.
	AsOf *time.Time
}

type Resolver struct {
	fetch mdservice.Fetcher
}

func NewResolver(fetch mdservice.Fetcher) *Resolver {
	return &Resolver{fetch: fetch}
}

// Resolve фетчит цену и минимальный набор индикаторов для правил, всё
// конкурентно и через кэш. Цена обязательна: без PriceOK оркестратор
// пропускает символ целиком.
func (r *Resolver) Resolve(ctx context.Context, symbol string, tf models.Timeframe, rules []indicator.Rule) Resolved {
	res := Resolved{Values: map[indicator.Name]*float64{}}

	// дедуп по ключу запроса: обе SMA50-ссылки — один вызов,
	// три полосы Боллинджера — тоже один
	type fetchJob struct {
		req   indicator.Request
		fills []indicator.Name
	}
	jobs := map[string]fetchJob{}
	for _, name := range indicator.Required(rules) {
		req, ok := indicator.RequestFor(name, symbol, tf)
		if !ok {
			continue
		}
		key := req.Key()
		job := jobs[key]
		job.req = req
		job.fills = appendMissing(job.fills, indicator.Fills(name))
		jobs[key] = job
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		raw := r.fetch.GetOrFetch(ctx, indicator.PriceRequest(symbol))
		if raw == nil {
			return
		}
		payload, err := mdservice.ParsePayload(raw)
		if err != nil {
			return
		}
		price, ok := payload.PriceValue()
		mu.Lock()
		res.Price, res.PriceOK = price, ok
		mu.Unlock()
	}()

	for _, job := range jobs {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw := r.fetch.GetOrFetch(ctx, job.req)
			var payload *mdservice.Payload
			if raw != nil {
				payload, _ = mdservice.ParsePayload(raw)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, name := range job.fills {
				value, asOf := payload.Latest(indicator.SeriesKey(name))
				res.Values[name] = value
				if value != nil && asOf != nil {
					if res.AsOf == nil || asOf.Before(*res.AsOf) {
						res.AsOf = asOf
					}
				}
			}
		}()
	}

	wg.Wait()
	return res
}

func appendMissing(dst []indicator.Name, add []indicator.Name) []indicator.Name {
	for _, n := range add {
		found := false
		for _, have := range dst {
			if have == n {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, n)
		}
	}
	return dst
}
