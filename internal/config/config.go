// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token      string `yaml:"token"`
	Mode       string `yaml:"mode"` // polling only
	Username   string `yaml:"username"`
	Workers    int    `yaml:"workers"` // polling workers
	Language   string `yaml:"language"`
	SupportURL string `yaml:"support_url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ExchangeConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	BybitURL    string        `yaml:"bybit_url"`
	BybitP2PURL string        `yaml:"bybit_p2p_url"`
	HuobiURL    string        `yaml:"huobi_url"`
	BinanceURL  string        `yaml:"binance_url"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Exchange  ExchangeConfig  `yaml:"exchange"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	DefaultBybitURL    = "https://api.bybit.com"
	DefaultBybitP2PURL = "https://api2.bybit.com"
	DefaultHuobiURL    = "https://www.htx.com"
	DefaultBinanceURL  = "https://api.binance.com"
	DefaultSupportURL  = "https://t.me/ryotto"
)

// LoadConfig reads the YAML file at path, then applies .env and process
// environment overrides. A missing file is fine as long as the bot token
// arrives through the environment.
func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required (or set TOKEN in the environment)")
	}
	if cfg.Bot.Workers < 1 {
		return nil, errors.New("bot.workers must be positive")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	for _, key := range []string{"TOKEN", "BOT_TOKEN"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.Bot.Token = v
			break
		}
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Redis.URL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers == 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "en"
	}
	if cfg.Bot.SupportURL == "" {
		cfg.Bot.SupportURL = DefaultSupportURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	cfg.Session.TTL = normalizeTTL(cfg.Session.TTL)
	if cfg.Exchange.Timeout <= 0 {
		cfg.Exchange.Timeout = 10 * time.Second
	}
	if cfg.Exchange.BybitURL == "" {
		cfg.Exchange.BybitURL = DefaultBybitURL
	}
	if cfg.Exchange.BybitP2PURL == "" {
		cfg.Exchange.BybitP2PURL = DefaultBybitP2PURL
	}
	if cfg.Exchange.HuobiURL == "" {
		cfg.Exchange.HuobiURL = DefaultHuobiURL
	}
	if cfg.Exchange.BinanceURL == "" {
		cfg.Exchange.BinanceURL = DefaultBinanceURL
	}
	if cfg.RateLimit.PerMinute <= 0 {
		cfg.RateLimit.PerMinute = 30
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Minute
	}
	return d
}
