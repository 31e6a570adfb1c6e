package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("# Tasks\n\n- **Status** select", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected a single trailing newline, got %q", out)
	}
	if !strings.Contains(out, "Tasks") || !strings.Contains(out, "Status") {
		t.Fatalf("rendered output lost content: %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestSummaryStyleFollowsAccent(t *testing.T) {
	origColor := accentColor
	origAccent, origBold := Accent, AccentBold
	t.Cleanup(func() {
		accentColor = origColor
		Accent, AccentBold = origAccent, origBold
	})

	ConfigureTheme("none")
	if c := summaryStyle().Heading.Color; c != nil {
		t.Fatalf("expected uncolored headings, got %q", *c)
	}

	ConfigureTheme("#abc")
	c := summaryStyle().Heading.Color
	if c == nil || *c != "#aabbcc" {
		t.Fatalf("expected heading color #aabbcc, got %v", c)
	}
}
