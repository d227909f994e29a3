// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token            string  `yaml:"token"`
	Username         string  `yaml:"username"`
	Workers          int     `yaml:"workers"` // polling workers
	AdminIDs         []int64 `yaml:"admin_ids"`
	ForceSubChannels []int64 `yaml:"force_sub_channels"`
	// StorageFileID is the file_id of the deliverable in the storage channel.
	StorageFileID string `yaml:"storage_file_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type VerificationConfig struct {
	Mode     string        `yaml:"mode"` // always_approve | external
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	UPIID    string `yaml:"upi_id"` // never shown to the user, only embedded in the reference
	PlanName string `yaml:"plan_name"`
	Amount   int64  `yaml:"amount"` // INR
}

type WebConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Log          LogConfig          `yaml:"log"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Verification VerificationConfig `yaml:"verification"`
	Payment      PaymentConfig      `yaml:"payment"`
	Web          WebConfig          `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Verification.Mode == "" {
		cfg.Verification.Mode = "always_approve"
	}
	if cfg.Verification.Timeout <= 0 {
		cfg.Verification.Timeout = 5 * time.Second
	}
	if cfg.Payment.PlanName == "" {
		cfg.Payment.PlanName = "Premium"
	}
	if cfg.Payment.Amount <= 0 {
		cfg.Payment.Amount = 50
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8081
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}
