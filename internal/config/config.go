package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = "aicms"
	envPrefix  = "AICMS"

	KeyBaseURL        = "api.base_url"
	KeyTimeout        = "api.timeout"
	KeySessionBackend = "session.backend"
	KeySessionDir     = "session.dir"
	KeyRedirectDelay  = "ai.redirect_delay"
	KeyLogLevel       = "log.level"
)

const (
	BackendFile  = "file"
	BackendPass  = "pass"
	BackendChain = "chain"
)

const (
	DefaultBaseURL       = "http://127.0.0.1:8000/api/"
	DefaultTimeout       = 30 * time.Second
	DefaultRedirectDelay = 1500 * time.Millisecond
	DefaultLogLevel      = "warn"
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	SessionBackend string
	SessionDir     string
	RedirectDelay  time.Duration
	LogLevel       string
}

// Load reads config.toml from the user config directory, then environment
// variables prefixed with AICMS_. A .env file in the working directory is
// loaded first and never overrides variables already set.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	_ = godotenv.Load(".env")

	dir, err := defaultConfigDir()
	if err != nil {
		return Config{}, err
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyBaseURL, DefaultBaseURL)
	cfg.SetDefault(KeyTimeout, DefaultTimeout)
	cfg.SetDefault(KeySessionBackend, BackendChain)
	cfg.SetDefault(KeySessionDir, dir)
	cfg.SetDefault(KeyRedirectDelay, DefaultRedirectDelay)
	cfg.SetDefault(KeyLogLevel, DefaultLogLevel)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	out := Config{
		BaseURL:        strings.TrimSpace(cfg.GetString(KeyBaseURL)),
		Timeout:        cfg.GetDuration(KeyTimeout),
		SessionBackend: strings.ToLower(strings.TrimSpace(cfg.GetString(KeySessionBackend))),
		SessionDir:     cfg.GetString(KeySessionDir),
		RedirectDelay:  cfg.GetDuration(KeyRedirectDelay),
		LogLevel:       cfg.GetString(KeyLogLevel),
	}

	if err := out.validate(); err != nil {
		return Config{}, err
	}

	return out, nil
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("api base url is empty")
	}
	switch c.SessionBackend {
	case BackendFile, BackendPass, BackendChain:
	default:
		return fmt.Errorf("unsupported session backend %q (want file, pass or chain)", c.SessionBackend)
	}
	if c.SessionDir == "" {
		return errors.New("session directory is empty")
	}
	if c.Timeout < 0 || c.RedirectDelay < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func defaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDir), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDir), nil
}
