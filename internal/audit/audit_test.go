package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/notion/notiontest"
)

func TestLoggerAppendsLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "audit.jsonl")
	l := New(path, "merge-select-options")
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	if err := l.Log(Entry{Operation: "update_page", Entity: "page", ID: "p1"}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := l.Log(Entry{Operation: "update_database", Entity: "database", ID: "db1"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Command != "merge-select-options" || entries[0].ID != "p1" {
		t.Errorf("entry = %+v", entries[0])
	}
	if !entries[1].Timestamp.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", entries[1].Timestamp)
	}
}

func TestDisabledLogger(t *testing.T) {
	t.Parallel()

	l := New("", "x")
	if l.Enabled() {
		t.Fatal("logger with empty path should be disabled")
	}
	if err := l.Log(Entry{Operation: "update_page"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	srv := notiontest.New()
	if got := Wrap(srv, l); got != notion.API(srv) {
		t.Error("Wrap should return the api unchanged when disabled")
	}
}

func TestWrapJournalsMutations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.jsonl")
	srv := notiontest.New()
	db := srv.AddDatabase(&notion.Database{Properties: notion.PropertyConfigs{"Name": &notion.TitleConfig{}}})
	api := Wrap(srv, New(path, "archive-all-pages-in-db"))
	ctx := context.Background()

	page, err := api.CreatePage(ctx, &notion.CreatePageRequest{
		Parent:     notion.DatabaseParent(db.ID),
		Properties: notion.PropertyValues{"Name": notiontest.Title("x")},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if _, err := api.UpdatePage(ctx, page.ID, &notion.UpdatePageRequest{Archived: notion.Bool(true)}); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if _, err := api.RetrieveDatabase(ctx, db.ID); err != nil {
		t.Fatalf("RetrieveDatabase: %v", err)
	}

	srv.Fail["UpdateDatabase"] = errors.New("boom")
	if _, err := api.UpdateDatabase(ctx, db.ID, &notion.UpdateDatabaseRequest{Properties: map[string]notion.PropertyConfig{"Old": nil}}); err == nil {
		t.Fatal("expected UpdateDatabase error")
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	ops := make([]string, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	want := []string{"create_page", "archive_page", "update_database"}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, ops[i], want[i])
		}
	}
	if entries[0].ID != page.ID || entries[0].Parent != db.ID {
		t.Errorf("create entry = %+v", entries[0])
	}
	if entries[2].Error != "boom" || entries[2].Properties[0] != "Old" {
		t.Errorf("failed entry = %+v", entries[2])
	}
}
