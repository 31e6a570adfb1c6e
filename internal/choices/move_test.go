package choices

import (
	"context"
	"errors"
	"testing"

	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/notion/notiontest"
)

func newMoveDB(srv *notiontest.Server, target notion.PropertyConfig) *notion.Database {
	return srv.AddDatabase(&notion.Database{Properties: notion.PropertyConfigs{
		"Name": &notion.TitleConfig{},
		"Tags": &notion.MultiSelectConfig{Options: []notion.Option{
			{Name: "urgent", Color: "red"},
			{Name: "later", Color: "gray"},
			{Name: "book"},
			{Name: "film"},
		}},
		"Target": target,
	}})
}

func TestMoveToSelect(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	db := newMoveDB(srv, &notion.SelectConfig{Options: notiontest.Options("urgent")})
	p1 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("urgent", "book"), "Target": notiontest.Select("")})
	p2 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("b"), "Tags": notiontest.MultiSelect("later"), "Target": notiontest.Select("")})
	p3 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("c"), "Tags": notiontest.MultiSelect("film"), "Target": notiontest.Select("")})

	report, err := New(srv, nil).MoveToSelect(context.Background(), MoveArgs{
		DatabaseID: db.ID,
		Source:     "Tags",
		Target:     "Target",
		Options:    []string{"urgent", "later"},
	})
	if err != nil {
		t.Fatalf("MoveToSelect: %v", err)
	}

	if got := valueNames(t, srv.Page(p1.ID), "Target"); !equalStrings(got, []string{"urgent"}) {
		t.Errorf("p1 Target = %v", got)
	}
	if got := valueNames(t, srv.Page(p1.ID), "Tags"); !equalStrings(got, []string{"book"}) {
		t.Errorf("p1 Tags = %v", got)
	}
	if got := valueNames(t, srv.Page(p2.ID), "Target"); !equalStrings(got, []string{"later"}) {
		t.Errorf("p2 Target = %v", got)
	}
	if got := valueNames(t, srv.Page(p3.ID), "Tags"); !equalStrings(got, []string{"film"}) {
		t.Errorf("p3 Tags = %v", got)
	}

	target := srv.Database(db.ID).Properties["Target"].(*notion.SelectConfig)
	later, ok := notion.FindOption(target.Options, "later")
	if !ok || later.Color != "gray" || later.ID == "" {
		t.Errorf("created option = %+v, %v", later, ok)
	}
	if got := optionNames(t, srv, db.ID, "Tags"); !equalStrings(got, []string{"book", "film"}) {
		t.Errorf("source options = %v", got)
	}
	if !equalStrings(report.OptionsCreated, []string{"later"}) || report.PagesUpdated != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestMoveToSelectAmbiguousWritesNothing(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	srv.PageSize = 1
	db := newMoveDB(srv, &notion.SelectConfig{})
	p1 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("book")})
	p2 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("b"), "Tags": notiontest.MultiSelect("book", "film")})

	_, err := New(srv, nil).MoveToSelect(context.Background(), MoveArgs{
		DatabaseID: db.ID,
		Source:     "Tags",
		Target:     "Target",
		Options:    []string{"book", "film"},
	})
	if !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("err = %v, want ErrAmbiguousMatch", err)
	}
	if n := srv.Mutations(); n != 0 {
		t.Errorf("mutations = %d, want 0", n)
	}
	if got := valueNames(t, srv.Page(p1.ID), "Tags"); !equalStrings(got, []string{"book"}) {
		t.Errorf("p1 Tags = %v", got)
	}
	if got := valueNames(t, srv.Page(p2.ID), "Tags"); !equalStrings(got, []string{"book", "film"}) {
		t.Errorf("p2 Tags = %v", got)
	}
}

func TestMoveRepeatedOptionCreatesItOnce(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	db := newMoveDB(srv, &notion.SelectConfig{})
	p1 := srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("later")})

	report, err := New(srv, nil).MoveToSelect(context.Background(), MoveArgs{
		DatabaseID: db.ID,
		Source:     "Tags",
		Target:     "Target",
		Options:    []string{"later", "later"},
	})
	if err != nil {
		t.Fatalf("MoveToSelect: %v", err)
	}

	if got := optionNames(t, srv, db.ID, "Target"); !equalStrings(got, []string{"later"}) {
		t.Errorf("target options = %v", got)
	}
	if !equalStrings(report.OptionsCreated, []string{"later"}) {
		t.Errorf("OptionsCreated = %v", report.OptionsCreated)
	}
	if !equalStrings(report.OptionsRemoved, []string{"later"}) {
		t.Errorf("OptionsRemoved = %v", report.OptionsRemoved)
	}
	if got := valueNames(t, srv.Page(p1.ID), "Target"); !equalStrings(got, []string{"later"}) {
		t.Errorf("p1 Target = %v", got)
	}
}

func TestMoveToMultiSelect(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	db := newMoveDB(srv, &notion.MultiSelectConfig{Options: notiontest.Options("book", "podcast")})
	p1 := srv.AddPage(db.ID, notion.PropertyValues{
		"Name":   notiontest.Title("a"),
		"Tags":   notiontest.MultiSelect("book", "film", "urgent"),
		"Target": notiontest.MultiSelect("book", "podcast"),
	})

	report, err := New(srv, nil).MoveToMultiSelect(context.Background(), MoveArgs{
		DatabaseID: db.ID,
		Source:     "Tags",
		Target:     "Target",
		Options:    []string{"book", "film"},
	})
	if err != nil {
		t.Fatalf("MoveToMultiSelect: %v", err)
	}

	page := srv.Page(p1.ID)
	if got := valueNames(t, page, "Target"); !equalStrings(got, []string{"book", "film", "podcast"}) {
		t.Errorf("Target = %v", got)
	}
	if got := valueNames(t, page, "Tags"); !equalStrings(got, []string{"urgent"}) {
		t.Errorf("Tags = %v", got)
	}
	if !equalStrings(report.OptionsCreated, []string{"film"}) {
		t.Errorf("OptionsCreated = %v", report.OptionsCreated)
	}
	if got := optionNames(t, srv, db.ID, "Tags"); !equalStrings(got, []string{"urgent", "later"}) {
		t.Errorf("source options = %v", got)
	}
}

func TestMoveKeepSourceOptions(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	db := newMoveDB(srv, &notion.MultiSelectConfig{})
	srv.AddPage(db.ID, notion.PropertyValues{"Name": notiontest.Title("a"), "Tags": notiontest.MultiSelect("book")})

	report, err := New(srv, nil).MoveToMultiSelect(context.Background(), MoveArgs{
		DatabaseID:        db.ID,
		Source:            "Tags",
		Target:            "Target",
		Options:           []string{"book"},
		KeepSourceOptions: true,
	})
	if err != nil {
		t.Fatalf("MoveToMultiSelect: %v", err)
	}
	if len(report.OptionsRemoved) != 0 {
		t.Errorf("OptionsRemoved = %v", report.OptionsRemoved)
	}
	if got := optionNames(t, srv, db.ID, "Tags"); len(got) != 4 {
		t.Errorf("source options = %v", got)
	}
}

func TestMoveErrors(t *testing.T) {
	t.Parallel()

	srv := notiontest.New()
	db := newMoveDB(srv, &notion.SelectConfig{})
	e := New(srv, nil)

	tests := []struct {
		name string
		args MoveArgs
		move func(context.Context, MoveArgs) (*Report, error)
		want error
	}{
		{
			name: "source not multi_select",
			args: MoveArgs{DatabaseID: db.ID, Source: "Target", Target: "Tags", Options: []string{"x"}},
			move: e.MoveToMultiSelect,
			want: ErrWrongPropertyType,
		},
		{
			name: "target not select",
			args: MoveArgs{DatabaseID: db.ID, Source: "Tags", Target: "Target", Options: []string{"book"}},
			move: e.MoveToMultiSelect,
			want: ErrWrongPropertyType,
		},
		{
			name: "unknown option",
			args: MoveArgs{DatabaseID: db.ID, Source: "Tags", Target: "Target", Options: []string{"missing"}},
			move: e.MoveToSelect,
			want: ErrOptionNotFound,
		},
		{
			name: "missing target",
			args: MoveArgs{DatabaseID: db.ID, Source: "Tags", Target: "Nope", Options: []string{"book"}},
			move: e.MoveToSelect,
			want: ErrPropertyNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.move(context.Background(), tt.args); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := e.MoveToSelect(context.Background(), MoveArgs{DatabaseID: db.ID, Source: "Tags", Target: "Tags", Options: []string{"book"}}); err == nil {
		t.Error("expected validation error when source equals target")
	}
	if n := srv.Mutations(); n != 0 {
		t.Errorf("failed moves made %d mutations", n)
	}
}
