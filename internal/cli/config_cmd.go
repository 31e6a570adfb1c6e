package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/config"
	"github.com/aidanlsb/ntn/internal/ui"
)

var (
	configCmd     = newCommand("config", nil)
	configShowCmd = newCommand("config_show", runConfigShow)
	configInitCmd = newCommand("config_init", runConfigInit)
	configSetCmd  = newCommand("config_set", runConfigSet)
)

// tokenSource names where the token would come from, without revealing it.
func tokenSource(c *config.Config) string {
	switch {
	case strings.TrimSpace(tokenFlag) != "":
		return "flag"
	case strings.TrimSpace(os.Getenv(config.TokenEnv)) != "":
		return "env"
	case strings.TrimSpace(c.Token) != "":
		return "config"
	}
	return "none"
}

func configData(c *config.Config, path string) map[string]any {
	_, statErr := os.Stat(path)
	databases := make(map[string]string, len(c.Databases))
	for alias, ref := range c.Databases {
		databases[alias] = ref
	}
	return map[string]any{
		"config_path":         path,
		"exists":              statErr == nil,
		"token_source":        tokenSource(c),
		"notion_version":      strings.TrimSpace(c.NotionVersion),
		"base_url":            strings.TrimSpace(c.BaseURL),
		"requests_per_second": c.RequestsPerSecond,
		"audit_log":           c.AuditLogPath(path),
		"databases":           databases,
		"ui": map[string]any{
			"accent": strings.TrimSpace(c.UI.Accent),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c := getConfig()
	data := configData(c, resolvedConfigPath)
	out := cmd.OutOrStdout()

	if isJSONOutput() {
		outputSuccess(out, data, nil)
		return nil
	}

	exists := ""
	if !data["exists"].(bool) {
		exists = ui.Hint(" (not created; run 'ntn config init')")
	}
	fmt.Fprintf(out, "%s %s%s\n", ui.Header("config:"), resolvedConfigPath, exists)
	fmt.Fprintf(out, "%s %s\n", ui.Header("token:"), data["token_source"])
	if v := data["notion_version"].(string); v != "" {
		fmt.Fprintf(out, "%s %s\n", ui.Header("notion_version:"), v)
	}
	if v := data["base_url"].(string); v != "" {
		fmt.Fprintf(out, "%s %s\n", ui.Header("base_url:"), v)
	}
	if c.RequestsPerSecond != 0 {
		fmt.Fprintf(out, "%s %g\n", ui.Header("requests_per_second:"), c.RequestsPerSecond)
	}
	if v := data["audit_log"].(string); v != "" {
		fmt.Fprintf(out, "%s %s\n", ui.Header("audit_log:"), v)
	}

	if len(c.Databases) > 0 {
		fmt.Fprintln(out)
		tbl := ui.NewTable("ALIAS", "DATABASE")
		for _, alias := range c.Aliases() {
			tbl.AddRow(alias, c.Databases[alias])
		}
		fmt.Fprint(out, tbl.String())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath(configPath)
	created, err := config.CreateDefault(path)
	if err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), map[string]any{"config_path": path, "created": created}, nil)
		return nil
	}
	if created {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Checkf("Created %s", path))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Info("Config already exists at "+path))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	c := getConfig()
	if err := c.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	if err := config.SaveTo(resolvedConfigPath, c); err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), configData(c, resolvedConfigPath), nil)
		return nil
	}
	value := args[1]
	if args[0] == "token" && value != "" {
		value = "(hidden)"
	}
	if strings.TrimSpace(value) == "" {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Checkf("Cleared %s", ui.Name(args[0])))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Checkf("Set %s = %s", ui.Name(args[0]), value))
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
