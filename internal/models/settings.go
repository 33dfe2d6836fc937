package models

// NotificationSettings — куда слать телеграм-уведомления пользователю.
// Движок читает их и никогда не пишет.
type NotificationSettings struct {
	UserID   int64  `json:"user_id"`
	BotToken string `json:"bot_token"`
	ChatID   int64  `json:"chat_id"`
	Enabled  bool   `json:"enabled"`
}

// Complete — можно ли вообще пытаться отправить.
func (s *NotificationSettings) Complete() bool {
	return s != nil && s.Enabled && s.BotToken != "" && s.ChatID != 0
}
