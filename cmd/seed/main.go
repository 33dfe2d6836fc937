// seed загружает демо-фикстуры (стратегии и настройки уведомлений)
// из yaml-файла в postgres. Утилита для локальной разработки.
package main

import (
	"context"
	"fmt"
	"os"

	"alert_bot/internal/models"
	"alert_bot/internal/store"
	"alert_bot/pkg/db"
	"alert_bot/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

type fixtureCondition struct {
	Indicator string `yaml:"indicator"`
	Operator  string `yaml:"operator"`
	Value     string `yaml:"value"`
}

type fixtureStrategy struct {
	UserID      int64              `yaml:"user_id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Status      string             `yaml:"status"`
	Timeframe   string             `yaml:"timeframe"`
	Symbols     []string           `yaml:"symbols"`
	Conditions  []fixtureCondition `yaml:"conditions"`
}

type fixtureUser struct {
	UserID   int64  `yaml:"user_id"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	Enabled  bool   `yaml:"enabled"`
}

type fixtures struct {
	Users      []fixtureUser     `yaml:"users"`
	Strategies []fixtureStrategy `yaml:"strategies"`
}

func loadFixtures(path string) (*fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixtures file")
	}
	var f fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "decode fixtures yaml")
	}
	return &f, nil
}

func run() error {
	viper.SetDefault("seed_file", "configs/seed.yaml")
	viper.AutomaticEnv()

	dsn := viper.GetString("database_dsn")
	if dsn == "" {
		return errors.New("DATABASE_DSN is required")
	}

	f, err := loadFixtures(viper.GetString("seed_file"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	if err != nil {
		return errors.Wrap(err, "connect to postgres")
	}
	manager := db.NewPgTxManager(pool)
	defer manager.Close()

	settings := store.NewSettings(manager)
	for _, u := range f.Users {
		err := settings.Upsert(ctx, &models.NotificationSettings{
			UserID:   u.UserID,
			BotToken: u.BotToken,
			ChatID:   u.ChatID,
			Enabled:  u.Enabled,
		})
		if err != nil {
			return errors.Wrapf(err, "seed settings for user %d", u.UserID)
		}
	}

	strategies := store.NewStrategies(manager)
	for _, fs := range f.Strategies {
		st := &models.Strategy{
			UserID:      fs.UserID,
			Name:        fs.Name,
			Description: fs.Description,
			Status:      models.StrategyStatus(fs.Status),
			Timeframe:   models.Timeframe(fs.Timeframe),
		}
		st.Symbols = append(st.Symbols, fs.Symbols...)
		for _, c := range fs.Conditions {
			st.Conditions = append(st.Conditions, models.Condition{
				Indicator: c.Indicator,
				Operator:  c.Operator,
				Value:     c.Value,
			})
		}
		if err := strategies.Create(ctx, st); err != nil {
			return errors.Wrapf(err, "seed strategy %q", fs.Name)
		}
		logger.Info("seeded strategy %q (id=%d)", st.Name, st.ID)
	}

	logger.Info("seed done: %d users, %d strategies", len(f.Users), len(f.Strategies))
	return nil
}

func main() {
	logger.Init()
	logger.SetServiceName("seed")

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
