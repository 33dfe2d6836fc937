package store

import (
	"context"

	"alert_bot/internal/models"
	"alert_bot/pkg/db"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type Settings struct {
	db *db.PgTxManager
}

func NewSettings(db *db.PgTxManager) *Settings {
	return &Settings{db: db}
}

// ByUser возвращает (nil, nil), если настроек нет — для движка это
// то же самое, что выключенные уведомления.
func (s *Settings) ByUser(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	row := s.db.Conn().QueryRow(ctx,
		`SELECT user_id, bot_token, chat_id, enabled FROM notification_settings WHERE user_id = $1`,
		userID,
	)
	ns := &models.NotificationSettings{}
	err := row.Scan(&ns.UserID, &ns.BotToken, &ns.ChatID, &ns.Enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select notification settings")
	}
	return ns, nil
}

func (s *Settings) Upsert(ctx context.Context, ns *models.NotificationSettings) error {
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO notification_settings (user_id, bot_token, chat_id, enabled)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id) DO UPDATE
			 SET bot_token = EXCLUDED.bot_token, chat_id = EXCLUDED.chat_id, enabled = EXCLUDED.enabled`,
			ns.UserID, ns.BotToken, ns.ChatID, ns.Enabled,
		)
		return errors.Wrap(err, "upsert notification settings")
	})
}
