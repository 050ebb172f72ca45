package types

import (
	"errors"
	"strings"
)

// Config holds the provider order and the table list used by the CLI and by
// access.NewService.
type Config struct {
	Database       string   `json:"database" yaml:"database,omitempty"`
	Providers      []string `json:"providers" yaml:"providers"`
	RequiredTables []string `json:"required_tables" yaml:"required_tables"`
}

// Provider names accepted in Config.Providers.
const (
	ProviderACE    = "ace"
	ProviderJet    = "jet"
	ProviderSQLite = "sqlite"
)

// DefaultProviders is the order in which driver identities are tried when
// the configuration does not name any.
var DefaultProviders = []string{ProviderACE, ProviderJet}

// Config validation errors.
var (
	ErrProvidersEmpty     = errors.New("provider list must not be empty")
	ErrProviderUnknown    = errors.New("unknown provider")
	ErrRequiredTableEmpty = errors.New("required table name must not be empty")
)

// knownProviders lists the provider names that Validate accepts.
var knownProviders = map[string]bool{
	ProviderACE:    true,
	ProviderJet:    true,
	ProviderSQLite: true,
}

// DefaultConfig returns a Config with the default provider order and the
// required table list.
func DefaultConfig() Config {
	return Config{
		Providers:      append([]string(nil), DefaultProviders...),
		RequiredTables: append([]string(nil), RequiredTables...),
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return ErrProvidersEmpty
	}
	for _, p := range c.Providers {
		if !knownProviders[strings.ToLower(p)] {
			return ErrProviderUnknown
		}
	}
	for _, name := range c.RequiredTables {
		if name == "" {
			return ErrRequiredTableEmpty
		}
	}
	return nil
}
