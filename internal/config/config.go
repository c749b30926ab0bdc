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
	appDir     = ".plandeck"
	configFile = "config.yaml"
	envPrefix  = "PLANDECK"
)

// Config is the merged application configuration
type Config struct {
	DataDir string `mapstructure:"data_dir"`
	DBPath  string `mapstructure:"db_path"`

	Server        ServerConfig        `mapstructure:"server"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Google        GoogleConfig        `mapstructure:"google"`
	Log           LogConfig           `mapstructure:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// AuthConfig configures bearer token issuance
type AuthConfig struct {
	Secret       string        `mapstructure:"secret"`
	ClientSecret string        `mapstructure:"client_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// NotificationsConfig configures due-date reminders
type NotificationsConfig struct {
	ReminderWindow time.Duration `mapstructure:"reminder_window"`
}

// GoogleConfig configures the optional Google Calendar push
type GoogleConfig struct {
	CalendarID      string `mapstructure:"calendar_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Debug reports whether debug logging is on
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Log.Level, "debug")
}

// Load reads .env, ~/.plandeck/config.yaml and PLANDECK_* variables over the defaults
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	// .env is optional
	_ = godotenv.Load()

	return LoadFrom(filepath.Join(home, appDir))
}

// LoadFrom loads configuration using dir as the data directory
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Relative paths live under the data directory
	cfg.DBPath = underDir(cfg.DataDir, cfg.DBPath)
	cfg.Google.CredentialsFile = underDir(cfg.DataDir, cfg.Google.CredentialsFile)
	cfg.Google.TokenFile = underDir(cfg.DataDir, cfg.Google.TokenFile)

	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("data_dir", dir)
	v.SetDefault("db_path", "plandeck.db")
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.client_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("notifications.reminder_window", 24*time.Hour)
	v.SetDefault("google.calendar_id", "")
	v.SetDefault("google.credentials_file", "credentials.json")
	v.SetDefault("google.token_file", "token.json")
	v.SetDefault("log.level", "info")
}

func underDir(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Path returns the config file location inside dir
func Path(dir string) string {
	return filepath.Join(dir, configFile)
}
