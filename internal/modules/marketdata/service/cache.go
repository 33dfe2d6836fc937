package service

import (
	"context"
	"time"

	"alert_bot/internal/indicator"
	"alert_bot/pkg/logger"
)

// CacheStore — строки api_cache (postgres в проде, фейк в тестах).
type CacheStore interface {
	Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error)
	Upsert(ctx context.Context, key string, payload []byte, expiresAt time.Time) error
}

// Fetcher — то, что видит резолвер: клиент провайдера за read-through кэшем.
type Fetcher interface {
	GetOrFetch(ctx context.Context, req indicator.Request) []byte
}

// CachedClient экономит вызовы провайдера: много стратегий на один
// символ/индикатор внутри окна — один внешний вызов. Свежесть внутри окна
// не гарантируется, это осознанный размен точности на лимиты API.
type CachedClient struct {
	client *Client
	store  CacheStore
	ttl    time.Duration
	now    func() time.Time
}

func NewCachedClient(client *Client, store CacheStore, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedClient{
		client: client,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetOrFetch: непросроченная запись — наружу не ходим; промах — вызов
// провайдера и апсерт по ключу запроса. nil не кэшируется никогда.
func (c *CachedClient) GetOrFetch(ctx context.Context, req indicator.Request) []byte {
	key := req.Key()

	cached, ok, err := c.store.Get(ctx, key, c.now())
	if err != nil {
		// кэш недоступен — деградируем до прямого вызова
		logger.Warn("marketdata: cache lookup %s: %v", key, err)
	}
	if ok {
		logger.Info("marketdata: cache hit %s", key)
		return cached
	}

	payload := c.client.Fetch(ctx, req)
	if payload == nil {
		return nil
	}

	if err := c.store.Upsert(ctx, key, payload, c.now().Add(c.ttl)); err != nil {
		logger.Warn("marketdata: cache upsert %s: %v", key, err)
	}
	return payload
}
