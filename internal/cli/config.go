package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDatabase       = "database"
	cfgKeyProviders      = "providers"
	cfgKeyRequiredTables = "required_tables"
	cfgKeyLogLevel       = "log.level"
	cfgKeySeqURL         = "log.seq_url"

	defaultLogLevel = "info"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Database       string    `yaml:"database,omitempty"`
	Providers      []string  `yaml:"providers"`
	RequiredTables []string  `yaml:"required_tables"`
	Log            logConfig `yaml:"log"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url,omitempty"`
}

// settings is the decoded configuration of one command run.
type settings struct {
	types.Config
	LogLevel string
	SeqURL   string
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// directory or file is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyProviders, types.DefaultProviders)
	v.SetDefault(cfgKeyRequiredTables, types.RequiredTables)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// decodeSettings extracts and validates the configuration.
func decodeSettings(v *viper.Viper) (settings, error) {
	providers := v.GetStringSlice(cfgKeyProviders)
	for i, p := range providers {
		providers[i] = strings.ToLower(strings.TrimSpace(p))
	}
	s := settings{
		Config: types.Config{
			Database:       v.GetString(cfgKeyDatabase),
			Providers:      providers,
			RequiredTables: v.GetStringSlice(cfgKeyRequiredTables),
		},
		LogLevel: v.GetString(cfgKeyLogLevel),
		SeqURL:   v.GetString(cfgKeySeqURL),
	}
	if err := s.Validate(); err != nil {
		return settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(path, database string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	def := types.DefaultConfig()
	cfg := configFile{
		Database:       database,
		Providers:      def.Providers,
		RequiredTables: def.RequiredTables,
		Log:            logConfig{Level: defaultLogLevel},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
