package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Backend BackendConfig `mapstructure:"backend"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	DBFile   string `mapstructure:"db_file"`
	LogFile  string `mapstructure:"log_file"`
	LockFile string `mapstructure:"lock_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// EngineConfig controls how the dependency engine reacts to backend failures
type EngineConfig struct {
	FailurePolicy     string `mapstructure:"failure_policy"`
	RollbackOnFailure bool   `mapstructure:"rollback_on_failure"`
}

// BackendConfig selects and tunes the installer backend
type BackendConfig struct {
	Kind        string `mapstructure:"kind"`
	Provider    string `mapstructure:"provider"`
	UseSudo     bool   `mapstructure:"use_sudo"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Timeout returns the per-call backend timeout, zero meaning none
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSecs) * time.Second
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "depkg"))
	}
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Environment variable overrides
	v.SetEnvPrefix("DEPKG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Paths.LockFile = expandPath(cfg.Paths.LockFile)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".local", "share", "depkg")

	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.db_file", filepath.Join(dataDir, "state.db"))
	v.SetDefault("paths.log_file", filepath.Join(dataDir, "depkg.log"))
	v.SetDefault("paths.lock_file", filepath.Join(dataDir, "depkg.lock"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.color", "auto")

	v.SetDefault("engine.failure_policy", "strict")
	v.SetDefault("engine.rollback_on_failure", false)

	v.SetDefault("backend.kind", "record")
	v.SetDefault("backend.provider", "auto")
	v.SetDefault("backend.use_sudo", true)
	v.SetDefault("backend.timeout_secs", 600)
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
