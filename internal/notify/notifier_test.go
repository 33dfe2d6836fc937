package notify

import (
	"context"
	"errors"
	"testing"

	"alert_bot/internal/models"
)

func TestStdoutNotify(t *testing.T) {
	n := NewStdout()

	tests := []struct {
		name     string
		settings *models.NotificationSettings
		want     Result
	}{
		{
			name:     "complete settings",
			settings: &models.NotificationSettings{UserID: 1, BotToken: "t", ChatID: 1, Enabled: true},
			want:     Result{Sent: true},
		},
		{
			name:     "disabled",
			settings: &models.NotificationSettings{UserID: 1, BotToken: "t", ChatID: 1},
			want:     Result{Skipped: true},
		},
		{
			name:     "no token",
			settings: &models.NotificationSettings{UserID: 1, ChatID: 1, Enabled: true},
			want:     Result{Skipped: true},
		},
		{
			// пользователь без настроек вообще
			name: "nil settings",
			want: Result{Skipped: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Notify(context.Background(), tt.settings, "Dip Buyer", "AAPL", 150.25)
			if got != tt.want {
				t.Errorf("Notify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Result{Sent: true}, "sent"},
		{Result{Skipped: true}, "skipped"},
		{Result{Err: errors.New("boom")}, "failed: boom"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
