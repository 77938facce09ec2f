package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configDir  = ".config/tradedesk"
	configName = "config"
	configType = "toml"
	envPrefix  = "TD"

	KeyAPIBaseURL       = "api.base_url"
	KeyAPITimeout       = "api.timeout"
	KeyRefreshInterval  = "refresh.interval"
	KeyStorageBackend   = "storage.backend"
	KeyStorageDir       = "storage.dir"
	KeyStorageKey       = "storage.key"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyTokenRefreshSkew = "token.refresh_skew"
)

const (
	BackendFile  = "file"
	BackendPass  = "pass"
	BackendChain = "chain"
)

type Config struct {
	APIBaseURL       string
	APITimeout       time.Duration
	RefreshInterval  time.Duration
	StorageBackend   string
	StorageDir       string
	StorageKey       string
	LogLevel         string
	LogFormat        string
	TokenRefreshSkew time.Duration
}

// Load reads ~/.config/tradedesk/config.toml when present, then TD_*
// environment variables, over the built-in defaults.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyAPIBaseURL, "http://127.0.0.1:8000")
	cfg.SetDefault(KeyAPITimeout, 30*time.Second)
	cfg.SetDefault(KeyRefreshInterval, 5*time.Second)
	cfg.SetDefault(KeyStorageBackend, BackendFile)
	cfg.SetDefault(KeyStorageDir, filepath.Join(homeDir, configDir, "state"))
	cfg.SetDefault(KeyStorageKey, "tradedesk/session.toml")
	cfg.SetDefault(KeyLogLevel, "warn")
	cfg.SetDefault(KeyLogFormat, "text")
	cfg.SetDefault(KeyTokenRefreshSkew, 2*time.Minute)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	storageDir, err := expandHome(cfg.GetString(KeyStorageDir), homeDir)
	if err != nil {
		return Config{}, err
	}

	loaded := Config{
		APIBaseURL:       strings.TrimSpace(cfg.GetString(KeyAPIBaseURL)),
		APITimeout:       cfg.GetDuration(KeyAPITimeout),
		RefreshInterval:  cfg.GetDuration(KeyRefreshInterval),
		StorageBackend:   strings.ToLower(strings.TrimSpace(cfg.GetString(KeyStorageBackend))),
		StorageDir:       storageDir,
		StorageKey:       strings.TrimSpace(cfg.GetString(KeyStorageKey)),
		LogLevel:         cfg.GetString(KeyLogLevel),
		LogFormat:        cfg.GetString(KeyLogFormat),
		TokenRefreshSkew: cfg.GetDuration(KeyTokenRefreshSkew),
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}
	return loaded, nil
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is empty")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval)
	}
	if c.StorageKey == "" {
		return errors.New("storage key is empty")
	}
	switch c.StorageBackend {
	case BackendFile, BackendPass, BackendChain:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}

	return nil
}

func expandHome(path, homeDir string) (string, error) {
	if path == "~" {
		path = homeDir
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve storage dir: %w", err)
	}
	return filepath.Clean(absPath), nil
}
