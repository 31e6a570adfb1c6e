package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/buildinfo"
)

var versionCmd = newCommand("version", func(cmd *cobra.Command, args []string) error {
	info := buildinfo.Current()

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), info, nil)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ntn %s\n", info.Version)
	fmt.Fprintf(out, "module: %s\n", info.ModulePath)
	if info.Commit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.Commit)
	}
	if info.CommitTime != "" {
		fmt.Fprintf(out, "commit_time: %s\n", info.CommitTime)
	}
	fmt.Fprintf(out, "go: %s\n", info.GoVersion)
	fmt.Fprintf(out, "platform: %s/%s\n", info.GOOS, info.GOARCH)
	fmt.Fprintf(out, "modified: %t\n", info.Modified)
	return nil
})

func init() {
	rootCmd.AddCommand(versionCmd)
}
