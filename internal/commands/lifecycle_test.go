package commands

import "testing"

func TestResolveCommandID(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{path: "describe-db", wantID: "describe-db", wantOK: true},
		{path: "config set", wantID: "config_set", wantOK: true},
		{path: "  config   show ", wantID: "config_show", wantOK: true},
		{path: "not a real command", wantID: "", wantOK: false},
		{path: "", wantID: "", wantOK: false},
	}

	for _, tt := range tests {
		gotID, gotOK := ResolveCommandID(tt.path)
		if gotOK != tt.wantOK {
			t.Fatalf("ResolveCommandID(%q) ok=%v, want %v", tt.path, gotOK, tt.wantOK)
		}
		if gotID != tt.wantID {
			t.Fatalf("ResolveCommandID(%q) id=%q, want %q", tt.path, gotID, tt.wantID)
		}
	}
}

func TestMutatingCommandFlags(t *testing.T) {
	cases := []struct {
		id      string
		mutates bool
	}{
		{id: "archive-all-pages-in-db", mutates: true},
		{id: "merge-select-options", mutates: true},
		{id: "set-relation-from-multiselect", mutates: true},
		{id: "describe-db", mutates: false},
		{id: "config_set", mutates: false},
		{id: "version", mutates: false},
	}

	for _, tc := range cases {
		meta, ok := Registry[tc.id]
		if !ok {
			t.Fatalf("registry missing %q", tc.id)
		}
		if meta.MutatesRemote != tc.mutates {
			t.Fatalf("Registry[%q].MutatesRemote=%v, want %v", tc.id, meta.MutatesRemote, tc.mutates)
		}
	}
}

func TestMutatingCommandsAreRegistered(t *testing.T) {
	for id := range mutatingCommandIDs {
		if _, ok := Registry[id]; !ok {
			t.Errorf("mutating command %q is not in the registry", id)
		}
	}
}
