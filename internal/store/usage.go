package store

import (
	"context"
	"time"

	"alert_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Usage — дневной счётчик запросов рыночных данных через ассистента.
type Usage struct {
	db *db.PgTxManager
}

func NewUsage(db *db.PgTxManager) *Usage {
	return &Usage{db: db}
}

func (u *Usage) Requests(ctx context.Context, userID int64, day time.Time) (int, error) {
	row := u.db.Conn().QueryRow(ctx,
		`SELECT market_data_requests FROM daily_usage WHERE user_id = $1 AND usage_date = $2`,
		userID, day.Format("2006-01-02"),
	)
	var n int
	err := row.Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "select daily usage")
	}
	return n, nil
}

func (u *Usage) Increment(ctx context.Context, userID int64, day time.Time) error {
	return u.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO daily_usage (user_id, usage_date, market_data_requests)
			 VALUES ($1, $2, 1)
			 ON CONFLICT (user_id, usage_date) DO UPDATE
			 SET market_data_requests = daily_usage.market_data_requests + 1`,
			userID, day.Format("2006-01-02"),
		)
		return errors.Wrap(err, "increment daily usage")
	})
}
