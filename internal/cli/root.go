// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/audit"
	"github.com/aidanlsb/ntn/internal/commands"
	"github.com/aidanlsb/ntn/internal/config"
	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/ui"
)

var (
	// Global flags
	tokenFlag  string
	configPath string
	verbose    bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = slog.New(slog.NewTextHandler(io.Discard, nil))

	// newClient builds the API client once a token is known. Tests swap it
	// for an in-memory server.
	newClient = func(token string) (notion.API, error) {
		c := getConfig()
		return notion.NewClient(notion.Options{
			Token:             token,
			BaseURL:           c.BaseURL,
			Version:           c.NotionVersion,
			RequestsPerSecond: c.RequestsPerSecond,
			Logger:            logger,
		})
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ntn",
	Short: "ntn - batch edits for Notion databases",
	Long: `ntn runs batch mutations against Notion databases: archiving pages,
copying pages and schema between databases, merging or removing select
options, and moving values between select and multi_select properties.

Authenticate with an internal integration token (NOTION_TOKEN, --token, or
"token" in ~/.config/ntn/config.toml) and share the databases with it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to load .env", "error", err)
		}

		// Skip config loading for commands that must work with a broken file
		switch cmd.Name() {
		case "completion", "help", "version", cobra.ShellCompRequestCmd:
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() == "init" {
			return nil
		}

		var err error
		resolvedConfigPath = config.ResolveConfigPath(configPath)
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("%w: %w", errConfigInvalid, err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
}

// Execute runs the CLI. Errors are reported here, on stdout as a JSON
// envelope with --json and on stderr otherwise.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, rootCmd)
}

func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		reportError(root, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Notion integration token (overrides NOTION_TOKEN and config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log every API request to stderr")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errInvalidInput, err)
	})
}

// newCommand generates a command from its registry entry and attaches run.
func newCommand(id string, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := commands.GenerateCobraCommand(id, completeDynamic)
	if cmd == nil {
		panic(fmt.Sprintf("command %q missing from registry", id))
	}
	validate := cmd.Args
	cmd.Args = func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errInvalidInput, err)
		}
		return nil
	}
	cmd.RunE = run
	return cmd
}

// boundArgs resolves cmd's registry arguments from positional values and the
// flags that stand in for them.
func boundArgs(cmd *cobra.Command, args []string) (commands.Bound, error) {
	_, meta, ok := commands.LookupMetaByPath(commandPath(cmd))
	if !ok {
		return nil, fmt.Errorf("command %q missing from registry", commandPath(cmd))
	}
	bound, err := commands.BindArgs(meta.Args, cmd.Flags(), args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	return bound, nil
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// apiFor builds the client for one invocation of cmd. Mutations are
// journaled when audit_log is configured.
func apiFor(cmd *cobra.Command) (notion.API, error) {
	token, err := getConfig().ResolveToken(tokenFlag)
	if err != nil {
		return nil, err
	}
	client, err := newClient(token)
	if err != nil {
		return nil, err
	}

	id, _ := commands.ResolveCommandID(commandPath(cmd))
	journal := audit.New(getConfig().AuditLogPath(configPath), id)
	if journal.Enabled() {
		logger.Debug("audit log enabled", "path", journal.Path())
	}
	return audit.Wrap(client, journal), nil
}

// resolveDatabase turns a database argument into an ID.
func resolveDatabase(ref string) (string, error) {
	return getConfig().ResolveDatabase(ref)
}

// commandPath returns the path of cmd below the root, e.g. "config set".
func commandPath(cmd *cobra.Command) string {
	return strings.TrimSpace(strings.TrimPrefix(cmd.CommandPath(), rootCmd.Name()))
}

func completeDynamic(kind string) []string {
	switch kind {
	case "databases":
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil
		}
		return loaded.Aliases()
	case "config-keys":
		return append(append([]string{}, config.Keys...), "databases.")
	}
	return nil
}
