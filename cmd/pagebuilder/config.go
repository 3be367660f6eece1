package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	MaxRevisions    int  `mapstructure:"max_revisions"`
	HistoryMessages int  `mapstructure:"history_messages"`
	LLMIntent       bool `mapstructure:"llm_intent"`
	LLMDialogue     bool `mapstructure:"llm_dialogue"`
	LLMCommands     bool `mapstructure:"llm_commands"`
}

// setDefaults registers every Config key, so Unmarshal also picks up keys
// that are only set through the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("model", "openai/gpt-4o")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("addr", ":8080")
	v.SetDefault("rate_limit", 2.0)
	v.SetDefault("rate_burst", 4)
	v.SetDefault("max_revisions", 20)
	v.SetDefault("history_messages", 20)
	v.SetDefault("llm_intent", false)
	v.SetDefault("llm_dialogue", false)
	v.SetDefault("llm_commands", false)
}

// loadConfig reads path (or ./config.json when empty) and overlays
// PAGEBUILDER_* environment variables. A missing default file is not an error.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("json")
	}
	v.SetEnvPrefix("PAGEBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
