package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "wayfinder"
	configFileType = "yaml"
	envPrefix      = "WAYFINDER"

	defaultConfigDir = ".wayfinder"

	cfgKeyStrategy   = "strategy"
	cfgKeyHeuristic  = "heuristic"
	cfgKeyTimeout    = "timeout"
	cfgKeyMaxNodes   = "max_nodes"
	cfgKeyMaxActions = "max_actions"
	cfgKeyFormat     = "format"
	cfgKeyLibrary    = "library"
	cfgKeyDir        = "dir"
	cfgKeyStore      = "store"
	cfgKeyReportsDir = "reports_dir"
	cfgKeyRedisAddr  = "redis_addr"
	cfgKeySQLitePath = "sqlite_path"
	cfgKeyLogLevel   = "log_level"
	cfgKeyAdjacency  = "adjacency"
	cfgKeyLocation   = "location"
	cfgKeyLabels     = "labels"
	cfgKeyEncryption = "encryption_key"
	cfgKeyRedact     = "redact"
)

// Config is the merged view of wayfinder.yaml, WAYFINDER_* variables and defaults.
type Config struct {
	Strategy   string            `mapstructure:"strategy"`
	Heuristic  string            `mapstructure:"heuristic"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxNodes   int               `mapstructure:"max_nodes"`
	MaxActions int               `mapstructure:"max_actions"`
	Format     string            `mapstructure:"format"`
	Library    string            `mapstructure:"library"`
	Dir        string            `mapstructure:"dir"`
	Store      string            `mapstructure:"store"`
	ReportsDir string            `mapstructure:"reports_dir"`
	RedisAddr  string            `mapstructure:"redis_addr"`
	SQLitePath string            `mapstructure:"sqlite_path"`
	LogLevel   string            `mapstructure:"log_level"`
	Adjacency  string            `mapstructure:"adjacency"`
	Location   string            `mapstructure:"location"`
	Labels     map[string]string `mapstructure:"labels"`

	// EncryptionKey seals stored reports with AES-256 (hex or base64).
	EncryptionKey string `mapstructure:"encryption_key"`
	// Redact lists patterns of object names masked in stored reports.
	Redact []string `mapstructure:"redact"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgKeyStrategy, "bfs")
	v.SetDefault(cfgKeyHeuristic, "")
	v.SetDefault(cfgKeyTimeout, 60*time.Second)
	v.SetDefault(cfgKeyMaxNodes, 0)
	v.SetDefault(cfgKeyMaxActions, 0)
	v.SetDefault(cfgKeyFormat, "raw")
	v.SetDefault(cfgKeyLibrary, "file")
	v.SetDefault(cfgKeyDir, ".")
	v.SetDefault(cfgKeyStore, "none")
	v.SetDefault(cfgKeyReportsDir, defaultConfigDir+"/reports")
	v.SetDefault(cfgKeyRedisAddr, "localhost:6379")
	v.SetDefault(cfgKeySQLitePath, defaultConfigDir+"/reports.db")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyAdjacency, "connected")
	v.SetDefault(cfgKeyLocation, "at")
	v.SetDefault(cfgKeyLabels, map[string]string{})
	v.SetDefault(cfgKeyEncryption, "")
	v.SetDefault(cfgKeyRedact, []string{})
}

// loadConfig reads wayfinder.yaml from configDir using Viper.
// A missing config file is not an error.
func loadConfig(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// resolveConfigDir follows the precedence
// --config-dir flag > WAYFINDER_CONFIG_DIR env > .wayfinder.
func resolveConfigDir(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(envPrefix + "_CONFIG_DIR"); env != "" {
		return env
	}
	return defaultConfigDir
}
