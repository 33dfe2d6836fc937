package engine

import (
	"os"
	"testing"

	"alert_bot/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// глобальный логгер в тестах — no-op
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
	os.Exit(m.Run())
}
