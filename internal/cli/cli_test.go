package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/notion/notiontest"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// envelope decodes the JSON response written to stdout.
func (r cliResult) envelope(t *testing.T) (Response, json.RawMessage) {
	t.Helper()
	var raw struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &raw); err != nil {
		t.Fatalf("stdout is not a JSON envelope: %v\n%s", err, r.stdout)
	}
	return raw.Response, raw.Data
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// runCLI executes ntn against srv with a throwaway config file.
func runCLI(t *testing.T, srv *notiontest.Server, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv("NOTION_TOKEN", "")

	prevClient, prevInteractive := newClient, isInteractive
	t.Cleanup(func() {
		newClient, isInteractive = prevClient, prevInteractive
		cfg = nil
		resolvedConfigPath = ""
		resetFlags(rootCmd)
	})
	newClient = func(string) (notion.API, error) { return srv, nil }
	isInteractive = func() bool { return stdin != "" }

	resetFlags(rootCmd)
	if !containsFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.toml"))
	}

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := execute(context.Background(), rootCmd)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func newTasksDB(srv *notiontest.Server) *notion.Database {
	return srv.AddDatabase(&notion.Database{
		ID:    uuid.NewString(),
		Title: notion.NewText("Tasks"),
		Properties: notion.PropertyConfigs{
			"Name":     &notion.TitleConfig{},
			"Tags":     &notion.MultiSelectConfig{Options: notiontest.Options("P0", "P1", "go", "golang")},
			"Priority": &notion.SelectConfig{Options: notiontest.Options("P2")},
		},
	})
}

func TestMergeCommandJSON(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)
	p1 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("golang")})
	srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("b"), "Tags": notiontest.MultiSelect("go")})

	res := runCLI(t, srv, "", "merge-select-options", db.ID, "Tags", "golang", "--output", "go", "--token", "secret", "--json")
	if res.err != nil {
		t.Fatalf("merge failed: %v\n%s", res.err, res.stdout)
	}
	resp, data := res.envelope(t)
	if !resp.OK {
		t.Fatalf("expected ok envelope, got %s", res.stdout)
	}
	var report struct {
		PagesUpdated   int      `json:"pages_updated"`
		OptionsRemoved []string `json:"options_removed"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.PagesUpdated != 1 || len(report.OptionsRemoved) != 1 || report.OptionsRemoved[0] != "golang" {
		t.Fatalf("unexpected report: %+v", report)
	}
	got := srv.Page(p1.ID).Properties["Tags"].(*notion.MultiSelectValue).Names()
	if len(got) != 1 || got[0] != "go" {
		t.Fatalf("page tags = %v, want [go]", got)
	}
}

func TestMissingTokenReportsCode(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)

	res := runCLI(t, srv, "", "describe-db", db.ID, "--json")
	if res.err == nil {
		t.Fatal("expected an error without a token")
	}
	resp, _ := res.envelope(t)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrTokenMissing {
		t.Fatalf("unexpected envelope: %s", res.stdout)
	}
	if resp.Error.Suggestion == "" {
		t.Error("expected a suggestion for a missing token")
	}
}

func TestTextModeErrorGoesToStderr(t *testing.T) {
	srv := notiontest.New()

	res := runCLI(t, srv, "", "describe-db", "not-an-id", "--token", "secret")
	if res.err == nil {
		t.Fatal("expected an error for an invalid id")
	}
	if res.stdout != "" {
		t.Errorf("stdout should be empty, got %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "✗") || !strings.Contains(res.stderr, "invalid notion id") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestMoveToSelectAmbiguousWritesNothing(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)
	srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("P0", "P1")})
	srv.ResetCalls()

	res := runCLI(t, srv, "", "set-select-from-multi-select", db.ID, "P0", "P1",
		"--source", "Tags", "--target", "Priority", "--token", "secret", "--json")
	if res.err == nil {
		t.Fatal("expected ambiguity error")
	}
	resp, _ := res.envelope(t)
	if resp.Error == nil || resp.Error.Code != ErrAmbiguousMatch {
		t.Fatalf("unexpected envelope: %s", res.stdout)
	}
	if n := srv.Mutations(); n != 0 {
		t.Fatalf("expected no mutations, got %d", n)
	}
}

func TestConfirmationPrompt(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		wantErr  bool
		archived int
	}{
		{name: "declined", answer: "n\n", wantErr: true, archived: 0},
		{name: "accepted", answer: "yes\n", wantErr: false, archived: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := notiontest.New()
			db := newTasksDB(srv)
			srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a")})
			srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("b")})

			res := runCLI(t, srv, tt.answer, "archive-all-pages-in-db", db.ID, "--token", "secret")
			if (res.err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", res.err, tt.wantErr)
			}
			if !strings.Contains(res.stdout, "[y/N]") {
				t.Errorf("expected a prompt, got %q", res.stdout)
			}
			if got := 2 - len(srv.Pages(db.ID)); got != tt.archived {
				t.Errorf("archived %d pages, want %d", got, tt.archived)
			}
		})
	}
}

func TestDescribeFormats(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)

	res := runCLI(t, srv, "", "describe-db", db.ID, "--format", "yaml", "--token", "secret")
	if res.err != nil {
		t.Fatalf("describe failed: %v", res.err)
	}
	for _, want := range []string{"title: Tasks", "type: multi_select", "- name: golang"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("yaml output missing %q:\n%s", want, res.stdout)
		}
	}

	res = runCLI(t, srv, "", "describe-db", db.ID, "--format", "xml", "--token", "secret", "--json")
	resp, _ := res.envelope(t)
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("unexpected envelope for bad format: %s", res.stdout)
	}
}

func TestDescribeMarkdown(t *testing.T) {
	info := databaseInfo{
		ID:    "db-1",
		Title: "Tasks",
		Properties: []propertyInfo{
			{Name: "Name", Type: notion.TypeTitle},
			{Name: "A|B", Type: notion.TypeSelect, Options: []optionInfo{{Name: "x"}, {Name: "y"}}},
			{Name: "Project", Type: notion.TypeRelation, Relation: "db-2"},
		},
	}
	md := describeMarkdown(info)
	for _, want := range []string{"# Tasks", "`db-1`", `| **A\|B** | select | x, y |`, "→ db-2"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestDatabaseAliasResolution(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	res := runCLI(t, srv, "", "config", "set", "databases.tasks", db.ID, "--config", cfgPath)
	if res.err != nil {
		t.Fatalf("config set failed: %v\n%s", res.err, res.stderr)
	}

	res = runCLI(t, srv, "", "describe-db", "tasks", "--config", cfgPath, "--token", "secret", "--json")
	if res.err != nil {
		t.Fatalf("describe via alias failed: %v\n%s", res.err, res.stdout)
	}
	_, data := res.envelope(t)
	var info databaseInfo
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatal(err)
	}
	if info.ID != db.ID {
		t.Fatalf("resolved %q, want %q", info.ID, db.ID)
	}
}

func TestConfigShowHidesToken(t *testing.T) {
	srv := notiontest.New()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	if res := runCLI(t, srv, "", "config", "set", "token", "secret_abc", "--config", cfgPath); res.err != nil {
		t.Fatalf("config set failed: %v", res.err)
	}
	res := runCLI(t, srv, "", "config", "show", "--config", cfgPath, "--json")
	if res.err != nil {
		t.Fatalf("config show failed: %v", res.err)
	}
	if strings.Contains(res.stdout, "secret_abc") {
		t.Fatalf("config show leaked the token:\n%s", res.stdout)
	}
	_, data := res.envelope(t)
	var shown map[string]any
	if err := json.Unmarshal(data, &shown); err != nil {
		t.Fatal(err)
	}
	if shown["token_source"] != "config" {
		t.Errorf("token_source = %v, want config", shown["token_source"])
	}
}

func TestUnknownConfigKey(t *testing.T) {
	res := runCLI(t, notiontest.New(), "", "config", "set", "colour", "red", "--json")
	resp, _ := res.envelope(t)
	if res.err == nil || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("unexpected result: err=%v %s", res.err, res.stdout)
	}
}

func TestWrongArgCountIsInvalidInput(t *testing.T) {
	res := runCLI(t, notiontest.New(), "", "copy-between-dbs", "only-one", "--json")
	resp, _ := res.envelope(t)
	if res.err == nil || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("unexpected result: err=%v %s", res.err, res.stdout)
	}
}

func TestNamedFlagForms(t *testing.T) {
	tests := []struct {
		name  string
		args  func(dbID string) []string
		check func(t *testing.T, srv *notiontest.Server, db *notion.Database)
	}{
		{
			name: "merge",
			args: func(dbID string) []string {
				return []string{"merge-select-options", "--db-id", dbID, "--property", "Tags", "--input-options", "golang", "--output-option", "go"}
			},
			check: func(t *testing.T, srv *notiontest.Server, db *notion.Database) {
				if _, ok := notion.FindOption(srv.Database(db.ID).Properties["Tags"].(*notion.MultiSelectConfig).Options, "golang"); ok {
					t.Error("golang still defined after merge")
				}
			},
		},
		{
			name: "remove",
			args: func(dbID string) []string {
				return []string{"remove-select-options", "--db-id", dbID, "--property-name", "Tags", "--option", "P0", "--option", "P1"}
			},
			check: func(t *testing.T, srv *notiontest.Server, db *notion.Database) {
				got := notion.OptionNames(srv.Database(db.ID).Properties["Tags"].(*notion.MultiSelectConfig).Options)
				if len(got) != 2 || got[0] != "go" || got[1] != "golang" {
					t.Errorf("Tags options = %v, want [go golang]", got)
				}
			},
		},
		{
			name: "set select",
			args: func(dbID string) []string {
				return []string{"set-select-from-multi-select", "--db-id", dbID, "--multi-select-property", "Tags", "--select-property", "Priority", "--options", "P0,P1"}
			},
			check: func(t *testing.T, srv *notiontest.Server, db *notion.Database) {
				got := notion.OptionNames(srv.Database(db.ID).Properties["Priority"].(*notion.SelectConfig).Options)
				if len(got) != 3 || got[1] != "P0" || got[2] != "P1" {
					t.Errorf("Priority options = %v, want [P2 P0 P1]", got)
				}
			},
		},
		{
			name: "remove unused",
			args: func(dbID string) []string {
				return []string{"remove-unused-select-options", "--db-id", dbID, "--property", "Priority"}
			},
			check: func(t *testing.T, srv *notiontest.Server, db *notion.Database) {
				if got := srv.Database(db.ID).Properties["Priority"].(*notion.SelectConfig).Options; len(got) != 0 {
					t.Errorf("Priority options = %v, want none", notion.OptionNames(got))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := notiontest.New()
			db := newTasksDB(srv)
			srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("golang")})

			args := append(tt.args(db.ID), "--token", "secret", "--json")
			res := runCLI(t, srv, "", args...)
			if res.err != nil {
				t.Fatalf("%v failed: %v\n%s", args, res.err, res.stdout)
			}
			tt.check(t, srv, db)
		})
	}
}

func TestCopyWithDatabaseFlags(t *testing.T) {
	srv := notiontest.New()
	source := newTasksDB(srv)
	target := srv.AddDatabase(&notion.Database{ID: uuid.NewString(), Properties: notion.PropertyConfigs{"Name": &notion.TitleConfig{}}})
	srv.AddPage(source.ID, notion.PropertyValues{"Name": notiontest.Title("a")})

	res := runCLI(t, srv, "", "copy-between-dbs", "--db-id", source.ID, "--target-db-id", target.ID, "--skip-content", "--token", "secret", "--json")
	if res.err != nil {
		t.Fatalf("copy failed: %v\n%s", res.err, res.stdout)
	}
	if n := len(srv.Pages(target.ID)); n != 1 {
		t.Fatalf("target pages = %d, want 1", n)
	}
}

func TestPositionalAndFlagFormsConflict(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)

	res := runCLI(t, srv, "", "remove-select-options", db.ID, "Tags", "P0", "--options", "P1", "--token", "secret", "--json")
	resp, _ := res.envelope(t)
	if res.err == nil || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("unexpected result: err=%v %s", res.err, res.stdout)
	}
	if n := srv.Mutations(); n != 0 {
		t.Fatalf("expected no mutations, got %d", n)
	}
}

func TestReadOnlyCommandsNeverPrompt(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)

	res := runCLI(t, srv, "n\n", "describe-db", db.ID, "--token", "secret")
	if res.err != nil {
		t.Fatalf("describe failed: %v", res.err)
	}
	if strings.Contains(res.stdout, "[y/N]") {
		t.Errorf("describe-db prompted for confirmation:\n%s", res.stdout)
	}
	if err := confirmMutation(describeCmd, "Proceed?"); err != nil {
		t.Errorf("confirmMutation(describe-db) = %v, want nil", err)
	}
}

func TestRemoveUnusedValidatesBeforeCalling(t *testing.T) {
	srv := notiontest.New()
	db := newTasksDB(srv)
	srv.ResetCalls()

	res := runCLI(t, srv, "", "remove-unused-select-options", db.ID, "", "--token", "secret", "--json")
	resp, _ := res.envelope(t)
	if res.err == nil || resp.Error == nil || resp.Error.Code != ErrValidationFailed {
		t.Fatalf("unexpected result: err=%v %s", res.err, res.stdout)
	}
	if n := srv.CallCount("RetrieveDatabase"); n != 0 {
		t.Errorf("RetrieveDatabase calls = %d, want 0", n)
	}
}
