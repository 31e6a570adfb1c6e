package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/commands"
	"github.com/aidanlsb/ntn/internal/ui"
)

// isInteractive is swapped in tests.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isInteractive()
}

func promptForConfirm(cmd *cobra.Command, message string) bool {
	if message == "" {
		message = "Apply changes?"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s ", message, ui.Hint("[y/N]"))
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// confirmMutation asks before a command writes to Notion. Commands the
// registry does not mark as mutating, --force, --json and non-interactive
// runs proceed without asking.
func confirmMutation(cmd *cobra.Command, message string) error {
	if _, meta, ok := commands.LookupMetaByPath(commandPath(cmd)); !ok || !meta.MutatesRemote {
		return nil
	}
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	if !shouldPromptForConfirm() {
		return nil
	}
	if !promptForConfirm(cmd, message) {
		return errCancelled
	}
	return nil
}

// withSpinner runs fn behind a spinner on stderr in text mode.
func withSpinner[T any](message string, fn func() (T, error)) (T, error) {
	if isJSONOutput() {
		return fn()
	}
	s := ui.NewSpinner(message)
	s.Start()
	defer s.Stop()
	return fn()
}
