package service

import (
	"context"
	"fmt"
	"strings"

	"alert_bot/internal/assistant"
	"alert_bot/internal/store"
	"alert_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot — телеграм-интерфейс ассистента. Любой текст уходит в rule-based
// парсер; пара слэш-команд для быстрого доступа. Chat ID и есть user ID.
type Bot struct {
	bot    *tgbot.BotAPI
	asst   *assistant.Service
	alerts *store.Alerts
}

// NewBot возвращает nil-бота при пустом токене: сервис работает без
// ассистента, движку бот не нужен.
func NewBot(token string, asst *assistant.Service, alerts *store.Alerts) (*Bot, error) {
	if token == "" {
		return nil, nil
	}
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot auth: %w", err)
	}
	return &Bot{bot: b, asst: asst, alerts: alerts}, nil
}

// Start: long-polling входящих сообщений.
func (t *Bot) Start(ctx context.Context) {
	if t == nil || t.bot == nil {
		return
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil {
					continue
				}
				go t.handleMessage(ctx, upd.Message)
			}
		}
	}()
}

func (t *Bot) Stop() {
	if t != nil && t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
}

func (t *Bot) handleMessage(ctx context.Context, msg *tgbot.Message) {
	chatID := msg.Chat.ID

	var reply string
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			reply = t.asst.Handle(ctx, chatID, "help")
		case "strategies":
			reply = t.asst.Handle(ctx, chatID, "show my strategies")
		case "alerts":
			reply = t.recentAlerts(ctx, chatID)
		default:
			reply = "Unknown command. Type /help."
		}
	} else {
		reply = t.asst.Handle(ctx, chatID, msg.Text)
	}

	if _, err := t.bot.Send(tgbot.NewMessage(chatID, reply)); err != nil {
		logger.Error("telegram_bot: send to %d: %v", chatID, err)
	}
}

func (t *Bot) recentAlerts(ctx context.Context, chatID int64) string {
	alerts, err := t.alerts.ListRecent(ctx, chatID, 10)
	if err != nil {
		logger.Error("telegram_bot: list alerts: %v", err)
		return "Sorry, I couldn't load your alerts."
	}
	if len(alerts) == 0 {
		return "📭 No alerts yet."
	}

	var b strings.Builder
	b.WriteString("🔔 Recent alerts:\n")
	for _, a := range alerts {
		mark := ""
		if !a.IsRead {
			mark = " (new)"
			// показанное в боте считается прочитанным
			if err := t.alerts.MarkRead(ctx, chatID, a.ID); err != nil {
				logger.Warn("telegram_bot: mark alert %d read: %v", a.ID, err)
			}
		}
		fmt.Fprintf(&b, "- %s %s @ %.2f — %s%s\n",
			a.CreatedAt.Format("02.01 15:04"), a.Symbol, a.Price, a.StrategyName, mark)
	}
	return b.String()
}
