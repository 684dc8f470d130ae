package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/joripage/batch-matcher/pkg/feed"
	postgres_wrapper "github.com/joripage/batch-matcher/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/batch-matcher/pkg/infra/redis"
	kafkawrapper "github.com/joripage/batch-matcher/pkg/kafka_wrapper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultServiceName = "batch-matcher"
	defaultMaxRetries  = 3
)

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	LogLevel    string                           `yaml:"log_level"`
	Ticker      string                           `yaml:"ticker"`
	Algorithm   string                           `yaml:"algorithm"`
	Feed        feed.Config                      `yaml:"feed"`
	Kafka       *kafkawrapper.ProducerConfig     `yaml:"kafka"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	ReportDB    *postgres_wrapper.PostgresConfig `yaml:"report_db"`
	Archive     *ArchiveConfig                   `yaml:"archive"`
}

// ArchiveConfig points at the local store that keeps every report.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// Default is the configuration used when no config file is given.
func Default() *AppConfig {
	return &AppConfig{
		ServiceName: defaultServiceName,
		LogLevel:    "info",
		Feed: feed.Config{
			MaxRetries: defaultMaxRetries,
		},
	}
}

// Load load config from file and environment variables. With neither a path
// nor CONFIG_FILE set the defaults are returned.
//
// Variables from an optional .env file (ENV_FILE overrides the path) are
// loaded first. They never replace variables already set.
func Load(filePath string) (*AppConfig, error) {
	loadDotEnv()

	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}
	if len(filePath) == 0 {
		zap.S().Debug("no config file, using defaults")
		return Default(), nil
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := Default()

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

func loadDotEnv() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err == nil {
		zap.S().Debugf("loaded env file %s", envFile)
	}
}
