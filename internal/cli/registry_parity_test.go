package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/ntn/internal/commands"
)

func commandPaths(root *cobra.Command) []string {
	var paths []string
	var walk func(cmd *cobra.Command, path string)
	walk = func(cmd *cobra.Command, path string) {
		for _, child := range cmd.Commands() {
			if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
				continue
			}
			childPath := strings.TrimSpace(path + " " + child.Name())
			paths = append(paths, childPath)
			walk(child, childPath)
		}
	}
	walk(root, "")
	return paths
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	cmd, rest, err := root.Find(strings.Fields(path))
	if err != nil || len(rest) > 0 || cmd == root {
		return nil, false
	}
	return cmd, true
}

func TestEveryRegistryCommandIsWired(t *testing.T) {
	for _, id := range commands.AllCommandIDs() {
		path := strings.ReplaceAll(id, "_", " ")
		cmd, ok := findCommandByPath(rootCmd, path)
		if !ok {
			t.Errorf("registry command %q missing from CLI tree", id)
			continue
		}
		if len(cmd.Commands()) == 0 && cmd.RunE == nil {
			t.Errorf("registry command %q has no handler", id)
		}
	}
}

func TestEveryCLICommandHasRegistryMetadata(t *testing.T) {
	for _, path := range commandPaths(rootCmd) {
		if _, ok := commands.ResolveCommandID(path); !ok {
			t.Errorf("CLI command %q has no registry entry", path)
		}
	}
}

func TestCommandFlagsMatchRegistry(t *testing.T) {
	for _, path := range commandPaths(rootCmd) {
		id, meta, ok := commands.LookupMetaByPath(path)
		if !ok {
			continue
		}
		cmd, _ := findCommandByPath(rootCmd, path)

		cliFlags := make(map[string]struct{})
		cmd.LocalNonPersistentFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "help" {
				return
			}
			cliFlags[flag.Name] = struct{}{}
		})

		registryFlags := make(map[string]struct{}, len(meta.Flags))
		for _, flag := range meta.Flags {
			registryFlags[flag.Name] = struct{}{}
		}

		for name := range cliFlags {
			if _, ok := registryFlags[name]; !ok {
				t.Errorf("%s: CLI flag %q is missing from registry metadata", id, name)
			}
		}
		for name := range registryFlags {
			if _, ok := cliFlags[name]; !ok {
				t.Errorf("%s: registry flag %q is missing from CLI command", id, name)
			}
		}
	}
}

func TestMutatingCommandsOfferForce(t *testing.T) {
	for _, id := range commands.AllCommandIDs() {
		meta := commands.Registry[id]
		if !meta.MutatesRemote {
			continue
		}
		cmd, ok := findCommandByPath(rootCmd, strings.ReplaceAll(id, "_", " "))
		if !ok {
			continue
		}
		if cmd.Flags().Lookup("force") == nil {
			t.Errorf("mutating command %q has no --force flag", id)
		}
	}
}
