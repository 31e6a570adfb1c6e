package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/ntn/internal/atomicfile"
	"github.com/aidanlsb/ntn/internal/notion"
)

type persistedConfig struct {
	Token             *string              `toml:"token,omitempty"`
	NotionVersion     *string              `toml:"notion_version,omitempty"`
	BaseURL           *string              `toml:"base_url,omitempty"`
	RequestsPerSecond *float64             `toml:"requests_per_second,omitempty"`
	AuditLog          *string              `toml:"audit_log,omitempty"`
	Databases         map[string]string    `toml:"databases,omitempty"`
	UI                *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to path atomically. Unset values are omitted.
func SaveTo(path string, cfg *Config) error {
	path = ResolveConfigPath(path)
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Token:         nonEmptyPtr(cfg.Token),
		NotionVersion: nonEmptyPtr(cfg.NotionVersion),
		BaseURL:       nonEmptyPtr(cfg.BaseURL),
		AuditLog:      nonEmptyPtr(cfg.AuditLog),
	}
	if cfg.RequestsPerSecond != 0 {
		rps := cfg.RequestsPerSecond
		out.RequestsPerSecond = &rps
	}
	if len(cfg.Databases) > 0 {
		out.Databases = cfg.Databases
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Keys lists the settable keys. databases.<alias> is also accepted.
var Keys = []string{"token", "notion_version", "base_url", "requests_per_second", "audit_log", "ui.accent"}

// Set assigns a value by key. An empty value clears the setting; for
// databases.<alias> it removes the alias.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "token":
		c.Token = value
	case "notion_version":
		c.NotionVersion = value
	case "base_url":
		c.BaseURL = value
	case "audit_log":
		c.AuditLog = value
	case "ui.accent":
		c.UI.Accent = value
	case "requests_per_second":
		if value == "" {
			c.RequestsPerSecond = 0
			return nil
		}
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("requests_per_second: %w", err)
		}
		c.RequestsPerSecond = rps
	default:
		alias, ok := strings.CutPrefix(key, "databases.")
		if !ok || alias == "" {
			return fmt.Errorf("unknown config key %q (valid: %s, databases.<alias>)", key, strings.Join(Keys, ", "))
		}
		if value == "" {
			delete(c.Databases, alias)
			return nil
		}
		if _, err := notion.ParseID(value); err != nil {
			return fmt.Errorf("databases.%s: %w", alias, err)
		}
		if c.Databases == nil {
			c.Databases = make(map[string]string)
		}
		c.Databases[alias] = value
	}
	return nil
}
