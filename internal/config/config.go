// Package config handles the global ntn configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/ntn/internal/notion"
)

// TokenEnv is the environment variable holding the integration token.
const TokenEnv = "NOTION_TOKEN"

// ErrTokenMissing means no token was given by flag, environment or config.
var ErrTokenMissing = errors.New("notion token is not configured")

// Config represents the global ntn configuration.
type Config struct {
	// Token is the Notion integration secret. NOTION_TOKEN and --token win over it.
	Token string `toml:"token"`

	// NotionVersion overrides the Notion-Version header.
	NotionVersion string `toml:"notion_version"`

	// BaseURL overrides the API endpoint.
	BaseURL string `toml:"base_url"`

	// RequestsPerSecond paces API requests. Zero uses the client default,
	// a negative value disables pacing.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// AuditLog is a JSONL file receiving one line per remote mutation.
	// Relative paths are resolved against the config file's directory.
	AuditLog string `toml:"audit_log"`

	// Databases maps short aliases to database IDs or URLs.
	Databases map[string]string `toml:"databases"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from path, or from DefaultPath when path is
// empty. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	path = ResolveConfigPath(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path.
// Prefers ~/.config/ntn/config.toml, then the OS config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdg := filepath.Join(home, ".config", "ntn", "config.toml")
		if _, err := os.Stat(xdg); err == nil {
			return xdg
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ntn", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return DefaultPath()
}

const defaultConfig = `# ntn configuration

# Notion integration secret. NOTION_TOKEN or --token take precedence.
# token = "secret_..."

# API settings
# notion_version = "2022-06-28"
# requests_per_second = 3

# Append one JSON line per page or schema change to this file.
# audit_log = "audit.jsonl"

# Short names usable wherever a database ID is expected.
# [databases]
# tasks = "https://www.notion.so/acme/1b2c3d4e5f60718293a4b5c6d7e8f901"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault writes a commented default config to path if none exists.
// It reports whether a file was written.
func CreateDefault(path string) (bool, error) {
	path = ResolveConfigPath(path)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// ResolveToken picks the token by precedence: flag, environment, config file.
func (c *Config) ResolveToken(flag string) (string, error) {
	for _, candidate := range []string{flag, os.Getenv(TokenEnv), c.Token} {
		if t := strings.TrimSpace(candidate); t != "" {
			return t, nil
		}
	}
	return "", ErrTokenMissing
}

// ResolveDatabase turns an alias, URL or ID into a canonical database ID.
func (c *Config) ResolveDatabase(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if target, ok := c.Databases[ref]; ok {
		id, err := notion.ParseID(target)
		if err != nil {
			return "", fmt.Errorf("database alias %q: %w", ref, err)
		}
		return id, nil
	}
	id, err := notion.ParseID(ref)
	if err != nil {
		if len(c.Databases) > 0 {
			return "", fmt.Errorf("%w (known aliases: %s)", err, strings.Join(c.Aliases(), ", "))
		}
		return "", err
	}
	return id, nil
}

// Aliases returns the configured database aliases, sorted.
func (c *Config) Aliases() []string {
	names := make([]string, 0, len(c.Databases))
	for name := range c.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuditLogPath returns the audit journal path, resolved relative to the
// directory of configPath. Empty when auditing is off.
func (c *Config) AuditLogPath(configPath string) string {
	p := strings.TrimSpace(c.AuditLog)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(ResolveConfigPath(configPath)), p)
}
