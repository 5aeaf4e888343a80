// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token      string `yaml:"token"`
	Mode       string `yaml:"mode"`        // polling | webhook
	WebhookURL string `yaml:"webhook_url"` // public base URL, webhook mode only
	Port       int    `yaml:"port"`        // ops/webhook listen port
	Workers    int    `yaml:"workers"`     // concurrent update workers
	AdminID    int64  `yaml:"admin_id"`
	// RequiredChannel is the @username of the channel users must join.
	RequiredChannel string `yaml:"required_channel"`
	// LogChannel receives audit records; 0 disables auditing.
	LogChannel int64 `yaml:"log_channel"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AIConfig struct {
	OpenAIKey    string `yaml:"openai_key"`
	BaseURL      string `yaml:"base_url"` // OpenAI-compatible gateway base URL
	GeminiKey    string `yaml:"gemini_key"`
	GeminiURL    string `yaml:"gemini_url"`
	ExplainModel string `yaml:"explain_model"`
	RefineModel  string `yaml:"refine_model"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`

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
	cfg.Bot.Mode = strings.ToLower(cfg.Bot.Mode)
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Port <= 0 {
		cfg.Bot.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.ExplainModel == "" {
		cfg.AI.ExplainModel = "gpt-3.5-turbo"
	}
	if cfg.AI.RefineModel == "" {
		cfg.AI.RefineModel = cfg.AI.ExplainModel
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.RequiredChannel == "" {
		return nil, errors.New("bot.required_channel is required")
	}
	if !strings.HasPrefix(cfg.Bot.RequiredChannel, "@") {
		cfg.Bot.RequiredChannel = "@" + cfg.Bot.RequiredChannel
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Bot.Mode != "polling" && cfg.Bot.Mode != "webhook" {
		return nil, fmt.Errorf("bot.mode must be polling or webhook, got %q", cfg.Bot.Mode)
	}
	if cfg.Bot.Mode == "webhook" && cfg.Bot.WebhookURL == "" {
		return nil, errors.New("bot.webhook_url is required in webhook mode")
	}
	if cfg.AI.OpenAIKey == "" && cfg.AI.GeminiKey == "" {
		return nil, errors.New("ai.openai_key or ai.gemini_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ChannelURL returns the t.me link users follow to join the required channel.
func (b BotConfig) ChannelURL() string {
	return "https://t.me/" + strings.TrimPrefix(b.RequiredChannel, "@")
}
