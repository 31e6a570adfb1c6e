package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/ntn/internal/notion"
)

const testID = "1b2c3d4e-5f60-7182-93a4-b5c6d7e8f901"

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `token = "secret_abc"
requests_per_second = 2.5
audit_log = "logs/audit.jsonl"

[databases]
tasks = "https://www.notion.so/acme/Tasks-1b2c3d4e5f60718293a4b5c6d7e8f901"

[ui]
accent = "39"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Token != "secret_abc" || cfg.RequestsPerSecond != 2.5 || cfg.UI.Accent != "39" {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := cfg.AuditLogPath(path); got != filepath.Join(filepath.Dir(path), "logs", "audit.jsonl") {
		t.Errorf("AuditLogPath = %q", got)
	}
}

func TestLoadFromRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tokn = \"x\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "tokn") {
		t.Fatalf("err = %v, want unknown key error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "" || len(cfg.Databases) != 0 {
		t.Errorf("cfg = %+v, want empty", cfg)
	}
}

func TestResolveDatabase(t *testing.T) {
	t.Parallel()

	cfg := &Config{Databases: map[string]string{
		"tasks":  "1b2c3d4e5f60718293a4b5c6d7e8f901",
		"broken": "not-an-id",
	}}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "alias", ref: "tasks", want: testID},
		{name: "raw id", ref: "1b2c3d4e5f60718293a4b5c6d7e8f901", want: testID},
		{name: "url", ref: "https://www.notion.so/x/Y-1b2c3d4e5f60718293a4b5c6d7e8f901", want: testID},
		{name: "bad alias target", ref: "broken", wantErr: true},
		{name: "unknown", ref: "projects", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.ResolveDatabase(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, notion.ErrInvalidID) {
					t.Fatalf("err = %v, want ErrInvalidID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDatabase: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTokenPrecedence(t *testing.T) {
	cfg := &Config{Token: "from-config"}

	t.Setenv(TokenEnv, "from-env")
	if got, _ := cfg.ResolveToken("from-flag"); got != "from-flag" {
		t.Errorf("flag: got %q", got)
	}
	if got, _ := cfg.ResolveToken(""); got != "from-env" {
		t.Errorf("env: got %q", got)
	}

	t.Setenv(TokenEnv, "")
	if got, _ := cfg.ResolveToken(""); got != "from-config" {
		t.Errorf("config: got %q", got)
	}

	empty := &Config{}
	if _, err := empty.ResolveToken(""); !errors.Is(err, ErrTokenMissing) {
		t.Errorf("err = %v, want ErrTokenMissing", err)
	}
}

func TestCreateDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ntn", "config.toml")
	created, err := CreateDefault(path)
	if err != nil || !created {
		t.Fatalf("CreateDefault = %v, %v", created, err)
	}
	if _, err := LoadFrom(path); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	created, err = CreateDefault(path)
	if err != nil || created {
		t.Fatalf("second CreateDefault = %v, %v", created, err)
	}
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	steps := [][2]string{
		{"token", "secret_xyz"},
		{"requests_per_second", "1.5"},
		{"databases.tasks", "1b2c3d4e5f60718293a4b5c6d7e8f901"},
		{"databases.old", "1b2c3d4e5f60718293a4b5c6d7e8f901"},
		{"databases.old", ""},
		{"ui.accent", "#ff8800"},
	}
	for _, s := range steps {
		if err := cfg.Set(s[0], s[1]); err != nil {
			t.Fatalf("Set(%q, %q): %v", s[0], s[1], err)
		}
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := cfg.Set("databases.bad", "not-an-id"); err == nil {
		t.Error("expected error for invalid database id")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Token != "secret_xyz" || loaded.RequestsPerSecond != 1.5 || loaded.UI.Accent != "#ff8800" {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Databases) != 1 || loaded.Databases["tasks"] == "" {
		t.Errorf("databases = %v", loaded.Databases)
	}
}
