package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// chatConfig holds the terminal client configuration
type chatConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	StorePath      string        `mapstructure:"store_path"`
	AssistantName  string        `mapstructure:"assistant_name"`
	LogPath        string        `mapstructure:"log_path"`
	LogLevel       string        `mapstructure:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PlainText      bool          `mapstructure:"plain_text"`
}

// loadConfig reads chat.yaml from dir (when present) and CHAT_* environment
// variables. An empty dir means the user's config directory.
func loadConfig(dir string) (*chatConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".portfolio-chatbot")

	v := viper.New()
	v.SetConfigName("chat")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(dataDir)
	}

	v.SetDefault("server_url", "http://localhost:8081")
	v.SetDefault("store_path", filepath.Join(dataDir, "history.db"))
	v.SetDefault("assistant_name", "Rangga")
	v.SetDefault("log_path", filepath.Join(dataDir, "chat.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 0)
	v.SetDefault("plain_text", false)

	v.SetEnvPrefix("CHAT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg chatConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
