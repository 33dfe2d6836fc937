package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	twelveDataKeyENV  = "TWELVE_DATA_API_KEY"
	engineSecretENV   = "ENGINE_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token"` // токен бота-ассистента (не нотификаций)
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
	} `yaml:"service"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Провайдер рыночных данных
	TwelveDataKey string        `yaml:"twelve_data_key"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"` // таймаут одного вызова провайдера
	CacheTTL      time.Duration `yaml:"cache_ttl"`     // окно кэша ответов

	// Шаред-секрет триггера /run
	EngineSecret string `yaml:"engine_secret"`

	// Локальный запуск: алерты в stdout вместо телеграма
	NotifyStdout bool `yaml:"notify_stdout"`

	// Внутренний тикер. 0 — прогоны только по внешнему HTTP-триггеру.
	RunInterval time.Duration `yaml:"run_interval"`

	// Биржа для market_state
	MarketExchange string `yaml:"market_exchange"`

	// Символы для websocket-стрима котировок. Пусто — стрим выключен.
	StreamSymbols []string `yaml:"stream_symbols"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		FetchTimeout:   durationFromEnv("FETCH_TIMEOUT", "8s"),
		CacheTTL:       durationFromEnv("CACHE_TTL", "5m"),
		RunInterval:    durationFromEnv("RUN_INTERVAL", "0s"),
		MarketExchange: getenvDefault("MARKET_EXCHANGE", "NYSE"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if key := os.Getenv(twelveDataKeyENV); key != "" {
		config.TwelveDataKey = key
	}
	if secret := os.Getenv(engineSecretENV); secret != "" {
		config.EngineSecret = secret
	}

	return &config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
