package commands

import "strings"

// mutatingCommandIDs lists registry command IDs that write to Notion.
var mutatingCommandIDs = map[string]struct{}{
	"archive-all-pages-in-db":            {},
	"copy-between-dbs":                   {},
	"merge-select-options":               {},
	"remove-select-options":              {},
	"remove-unused-select-options":       {},
	"set-select-from-multi-select":       {},
	"set-multi-select-from-multi-select": {},
	"create-pages-for-multiselect":       {},
	"set-relation-from-multiselect":      {},
}

func init() {
	for id := range mutatingCommandIDs {
		meta, ok := Registry[id]
		if !ok {
			continue
		}
		meta.MutatesRemote = true
		Registry[id] = meta
	}
}

// ResolveCommandID resolves a CLI command path to a registry command ID.
// Example: "config set" -> "config_set"
func ResolveCommandID(path string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", false
	}

	if _, ok := Registry[trimmed]; ok {
		return trimmed, true
	}

	underscored := strings.Join(strings.Fields(trimmed), "_")
	if _, ok := Registry[underscored]; ok {
		return underscored, true
	}

	return "", false
}

// LookupMetaByPath resolves a CLI command path and returns the registry metadata.
func LookupMetaByPath(path string) (string, Meta, bool) {
	id, ok := ResolveCommandID(path)
	if !ok {
		return "", Meta{}, false
	}
	meta, ok := Registry[id]
	return id, meta, ok
}
