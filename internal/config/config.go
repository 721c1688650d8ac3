package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppVersion = "0.4.1"

type MediaConfig struct {
	Endpoint  string `mapstructure:"MEDIA_ENDPOINT"`
	AccessKey string `mapstructure:"MEDIA_ACCESS_KEY"`
	SecretKey string `mapstructure:"MEDIA_SECRET_KEY"`
	Bucket    string `mapstructure:"MEDIA_BUCKET"`
	PublicURL string `mapstructure:"MEDIA_PUBLIC_URL"`
	UseSSL    bool   `mapstructure:"MEDIA_USE_SSL"`
}

type AppConfig struct {
	Env             string        `mapstructure:"DESK_ENV"`
	ListenAddr      string        `mapstructure:"LISTEN_ADDR"`
	APIBaseURL      string        `mapstructure:"API_BASE_URL"`
	SocketURL       string        `mapstructure:"SOCKET_URL"`
	DataDir         string        `mapstructure:"DATA_DIR"`
	SessionSecret   string        `mapstructure:"SESSION_SECRET"`
	TokenKeyB64     string        `mapstructure:"TOKEN_KEY"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`

	Media MediaConfig `mapstructure:",squash"`

	// Deferred init failures, surfaced on render instead of aborting
	// startup so the UI can explain what is broken.
	TokenKey     []byte
	KeyB64Err    error
	StoreInitErr error
}

func Load() (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.DataDir = "./data"
		} else {
			cfg.DataDir = filepath.Join(home, ".cssocial-desk")
		}
	}

	cfg.TokenKey, cfg.KeyB64Err = decodeTokenKey(cfg.TokenKeyB64)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DESK_ENV", "prod")
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("SOCKET_URL", "ws://127.0.0.1:8000/ws")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("TOKEN_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("REFRESH_INTERVAL", "5m")
	v.SetDefault("MEDIA_USE_SSL", "false")
}

// decodeTokenKey accepts a base64 encoded 32 byte key. An empty value is
// allowed: the session token is then stored unencrypted and the settings
// page warns about it.
func decodeTokenKey(b64 string) ([]byte, error) {
	if b64 == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("TOKEN_KEY is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("TOKEN_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (c *AppConfig) StorePath() string {
	return filepath.Join(c.DataDir, "desk.db")
}
