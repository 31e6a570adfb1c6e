package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestCurrentPrefersVCSOverLdflags(t *testing.T) {
	origRead, origVersion, origCommit := readBuildInfo, Version, Commit
	t.Cleanup(func() { readBuildInfo, Version, Commit = origRead, origVersion, origCommit })

	Version, Commit = "v0.3.0", "ldflags-sha"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.0",
			Main:      debug.Module{Path: "github.com/aidanlsb/ntn", Version: "(devel)"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	info := Current()
	if info.Version != "v0.3.0" {
		t.Errorf("Version = %q, want ldflags fallback", info.Version)
	}
	if info.Commit != "abc123" {
		t.Errorf("Commit = %q, want vcs revision", info.Commit)
	}
	if !info.Modified || info.GoVersion != "go1.23.0" {
		t.Errorf("info = %+v", info)
	}
}

func TestCurrentWithoutBuildInfo(t *testing.T) {
	origRead, origVersion, origCommit := readBuildInfo, Version, Commit
	t.Cleanup(func() { readBuildInfo, Version, Commit = origRead, origVersion, origCommit })

	Version, Commit = "", ""
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	info := Current()
	if info.Version != "devel" || info.ModulePath != defaultModulePath {
		t.Errorf("info = %+v", info)
	}
}
