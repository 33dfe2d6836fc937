package store

import (
	"context"

	"alert_bot/internal/models"
	"alert_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Alerts — insert-only со стороны движка; листинг и is_read — для UI/ассистента.
type Alerts struct {
	db *db.PgTxManager
}

func NewAlerts(db *db.PgTxManager) *Alerts {
	return &Alerts{db: db}
}

func (a *Alerts) Insert(ctx context.Context, alert *models.Alert) error {
	return a.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx,
			`INSERT INTO alerts (user_id, strategy_id, strategy_name, symbol, price, type, data_timestamp, is_read)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			alert.UserID, alert.StrategyID, alert.StrategyName, alert.Symbol,
			alert.Price, alert.Type, alert.DataTimestamp, alert.IsRead,
		)
		return errors.Wrap(row.Scan(&alert.ID, &alert.CreatedAt), "insert alert")
	})
}

func (a *Alerts) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.Conn().Query(ctx,
		`SELECT id, user_id, strategy_id, strategy_name, symbol, price, type, data_timestamp, is_read, created_at
		 FROM alerts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select alerts")
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var al models.Alert
		err := rows.Scan(&al.ID, &al.UserID, &al.StrategyID, &al.StrategyName, &al.Symbol,
			&al.Price, &al.Type, &al.DataTimestamp, &al.IsRead, &al.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan alert")
		}
		out = append(out, al)
	}
	return out, errors.Wrap(rows.Err(), "iterate alerts")
}

func (a *Alerts) MarkRead(ctx context.Context, userID, alertID int64) error {
	return a.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`UPDATE alerts SET is_read = true WHERE id = $1 AND user_id = $2`, alertID, userID)
		return errors.Wrap(err, "mark alert read")
	})
}
