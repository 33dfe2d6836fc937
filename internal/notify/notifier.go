package notify

import (
	"context"
	"fmt"

	"alert_bot/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Result — исход отправки. Skipped/Err видны вызывающему явно, чтобы контракт
// "никогда не валит прогон" был в сигнатуре, а не в проглоченном catch.
type Result struct {
	Sent    bool
	Skipped bool // настройки выключены или неполные
	Err     error
}

func (r Result) String() string {
	switch {
	case r.Sent:
		return "sent"
	case r.Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("failed: %v", r.Err)
	}
}

type Notifier interface {
	Notify(ctx context.Context, settings *models.NotificationSettings, strategyName, symbol string, price float64) Result
}

// Telegram шлёт алерт персональным ботом пользователя. Одна попытка,
// без ретраев внутри прогона.
type Telegram struct{}

func NewTelegram() *Telegram {
	return &Telegram{}
}

func (t *Telegram) Notify(ctx context.Context, settings *models.NotificationSettings, strategyName, symbol string, price float64) Result {
	if !settings.Complete() {
		return Result{Skipped: true}
	}

	bot, err := tgbot.NewBotAPI(settings.BotToken)
	if err != nil {
		return Result{Err: fmt.Errorf("telegram auth: %w", err)}
	}

	text := fmt.Sprintf("🔔 Signal Triggered\nStrategy: %s\nSymbol: %s\nPrice: %.2f",
		strategyName, symbol, price)
	if _, err := bot.Send(tgbot.NewMessage(settings.ChatID, text)); err != nil {
		return Result{Err: fmt.Errorf("telegram send: %w", err)}
	}
	return Result{Sent: true}
}

// Stdout — заглушка для локального запуска без телеграма.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Notify(_ context.Context, settings *models.NotificationSettings, strategyName, symbol string, price float64) Result {
	if !settings.Complete() {
		return Result{Skipped: true}
	}
	fmt.Printf("ALERT %s %s @ %.2f\n", strategyName, symbol, price)
	return Result{Sent: true}
}
