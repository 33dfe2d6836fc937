package store

import (
	"context"
	"time"

	"alert_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// APICache — строки кэша ответов провайдера. Последний писатель побеждает:
// payload для одного ключа внутри окна эквивалентен, поэтому конкурентные
// апсерты безопасны.
type APICache struct {
	db *db.PgTxManager
}

func NewAPICache(db *db.PgTxManager) *APICache {
	return &APICache{db: db}
}

// Get возвращает payload только для непросроченной записи.
func (c *APICache) Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error) {
	row := c.db.Conn().QueryRow(ctx,
		`SELECT response_data FROM api_cache WHERE request_key = $1 AND expires_at > $2`,
		key, now,
	)
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "select cache entry")
	}
	return payload, true, nil
}

func (c *APICache) Upsert(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	return c.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO api_cache (request_key, response_data, expires_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (request_key) DO UPDATE
			 SET response_data = EXCLUDED.response_data, expires_at = EXCLUDED.expires_at`,
			key, payload, expiresAt,
		)
		return errors.Wrap(err, "upsert cache entry")
	})
}
