package store

import (
	"context"

	"alert_bot/internal/models"
	"alert_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Strategies — репозиторий стратегий. Движок отсюда только читает running,
// CRUD нужен ассистенту и сид-утилите.
type Strategies struct {
	db *db.PgTxManager
}

func NewStrategies(db *db.PgTxManager) *Strategies {
	return &Strategies{db: db}
}

const strategyColumns = `id, user_id, name, description, status, timeframe, symbols, conditions, created_at`

func (s *Strategies) Running(ctx context.Context) ([]models.Strategy, error) {
	rows, err := s.db.Conn().Query(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE status = $1`,
		models.StatusRunning,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select running strategies")
	}
	defer rows.Close()

	return scanStrategies(rows)
}

func (s *Strategies) ListByUser(ctx context.Context, userID int64) ([]models.Strategy, error) {
	rows, err := s.db.Conn().Query(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "select user strategies")
	}
	defer rows.Close()

	return scanStrategies(rows)
}

func (s *Strategies) Create(ctx context.Context, st *models.Strategy) error {
	conds, err := sonic.Marshal(st.Conditions)
	if err != nil {
		return errors.Wrap(err, "marshal conditions")
	}
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctxTx,
			`INSERT INTO strategies (user_id, name, description, status, timeframe, symbols, conditions)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at`,
			st.UserID, st.Name, st.Description, st.Status, st.Timeframe, st.Symbols, conds,
		)
		return errors.Wrap(row.Scan(&st.ID, &st.CreatedAt), "insert strategy")
	})
}

func (s *Strategies) SetStatus(ctx context.Context, id int64, status models.StrategyStatus) error {
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, `UPDATE strategies SET status = $2 WHERE id = $1`, id, status)
		return errors.Wrap(err, "update strategy status")
	})
}

// SearchByName — поиск по подстроке имени без учёта регистра (ассистент
// удаляет стратегию по примерному имени и требует однозначного совпадения).
func (s *Strategies) SearchByName(ctx context.Context, userID int64, name string) ([]models.Strategy, error) {
	rows, err := s.db.Conn().Query(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE user_id = $1 AND name ILIKE '%' || $2 || '%'`,
		userID, name,
	)
	if err != nil {
		return nil, errors.Wrap(err, "search strategies")
	}
	defer rows.Close()

	return scanStrategies(rows)
}

func (s *Strategies) Delete(ctx context.Context, id int64) error {
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, `DELETE FROM strategies WHERE id = $1`, id)
		return errors.Wrap(err, "delete strategy")
	})
}

func scanStrategies(rows pgx.Rows) ([]models.Strategy, error) {
	var out []models.Strategy
	for rows.Next() {
		var (
			st    models.Strategy
			conds []byte
		)
		err := rows.Scan(&st.ID, &st.UserID, &st.Name, &st.Description, &st.Status,
			&st.Timeframe, &st.Symbols, &conds, &st.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan strategy")
		}
		if len(conds) > 0 {
			if err := sonic.Unmarshal(conds, &st.Conditions); err != nil {
				return nil, errors.Wrap(err, "unmarshal conditions")
			}
		}
		out = append(out, st)
	}
	return out, errors.Wrap(rows.Err(), "iterate strategies")
}
