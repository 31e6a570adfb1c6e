package notion

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	const want = "1b2c3d4e-5f60-7182-93a4-b5c6d7e8f901"

	tests := []struct {
		name string
		in   string
	}{
		{name: "dashed", in: want},
		{name: "compact", in: "1b2c3d4e5f60718293a4b5c6d7e8f901"},
		{name: "upper", in: "1B2C3D4E5F60718293A4B5C6D7E8F901"},
		{name: "url", in: "https://www.notion.so/acme/1b2c3d4e5f60718293a4b5c6d7e8f901"},
		{name: "url with slug", in: "https://www.notion.so/acme/Reading-List-1b2c3d4e5f60718293a4b5c6d7e8f901?v=abc"},
		{name: "url trailing slash", in: "https://notion.so/1b2c3d4e5f60718293a4b5c6d7e8f901/"},
		{name: "padded", in: "  1b2c3d4e5f60718293a4b5c6d7e8f901\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if err != nil {
				t.Fatalf("ParseID(%q) error: %v", tt.in, err)
			}
			if got != want {
				t.Errorf("ParseID(%q) = %q, want %q", tt.in, got, want)
			}
		})
	}
}

func TestParseIDRejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "tasks", "https://www.notion.so/acme/Reading-List", "1b2c3d4e"} {
		if _, err := ParseID(in); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", in, err)
		}
	}
}
