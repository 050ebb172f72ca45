// Package paths resolves the configuration directory and the database file
// a command should open.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// AppDirName is the directory name used below the platform config root.
const AppDirName = "kursplan"

// Environment variable names for overrides.
const (
	EnvConfigDir = "KURSPLAN_CONFIG_DIR"
	EnvDatabase  = "KURSPLAN_DATABASE"
)

// DatabaseExtensions lists the file extensions considered by
// DiscoverDatabase, compared case-insensitively.
var DatabaseExtensions = []string{".accdb", ".mdb", ".sqlite"}

// Discovery errors.
var (
	ErrNoDatabase        = errors.New("no database file found")
	ErrAmbiguousDatabase = errors.New("more than one database file found")
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/kursplan (fallback ~/.config/kursplan)
// macOS:   ~/Library/Application Support/kursplan
// Windows: %APPDATA%/kursplan
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppDirName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > KURSPLAN_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabase returns the database file to open following the precedence
// chain: flag > config value > KURSPLAN_DATABASE env > DiscoverDatabase(dir).
func ResolveDatabase(flag, configValue, dir string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDatabase)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return DiscoverDatabase(dir)
}

// DiscoverDatabase returns the only database file in dir. Zero or several
// candidates are errors so the caller can ask for an explicit path.
func DiscoverDatabase(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("search %s: %w", dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !isDatabaseFile(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoDatabase, dir)
	case 1:
		return filepath.Abs(filepath.Join(dir, candidates[0]))
	default:
		sort.Strings(candidates)
		return "", fmt.Errorf("%w in %s: %s", ErrAmbiguousDatabase, dir, strings.Join(candidates, ", "))
	}
}

func isDatabaseFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range DatabaseExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
