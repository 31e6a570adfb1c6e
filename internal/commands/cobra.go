package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Completer returns candidates for a dynamic completion kind such as
// "databases". It may return nil.
type Completer func(kind string) []string

// GenerateCobraCommand creates a Cobra command from registry metadata.
// Use, Short, Long, argument validation and flags come from the registry;
// the caller attaches RunE.
func GenerateCobraCommand(id string, complete Completer) *cobra.Command {
	meta, ok := Registry[id]
	if !ok {
		return nil
	}

	use := meta.Name
	for _, arg := range meta.Args {
		name := arg.Name
		if arg.Variadic {
			name += "..."
		}
		if arg.Required {
			use += fmt.Sprintf(" <%s>", name)
		} else {
			use += fmt.Sprintf(" [%s]", name)
		}
	}

	longDesc := meta.Description
	if meta.LongDesc != "" {
		longDesc = meta.LongDesc
	}
	if len(meta.Examples) > 0 {
		var b strings.Builder
		b.WriteString(longDesc)
		b.WriteString("\n\nExamples:\n")
		for _, ex := range meta.Examples {
			b.WriteString("  " + ex + "\n")
		}
		longDesc = b.String()
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: meta.Description,
		Long:  longDesc,
		Args:  argsValidator(meta.Args),
	}

	aliases := make(map[string]string)
	for _, flag := range meta.Flags {
		for _, alias := range flag.Aliases {
			aliases[alias] = flag.Name
		}
	}
	if len(aliases) > 0 {
		cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
			if canonical, ok := aliases[name]; ok {
				name = canonical
			}
			return pflag.NormalizedName(name)
		})
	}

	for _, flag := range meta.Flags {
		switch flag.Type {
		case FlagTypeBool:
			cmd.Flags().BoolP(flag.Name, flag.Short, flag.Default == "true", flag.Description)
		case FlagTypeStringSlice:
			cmd.Flags().StringSliceP(flag.Name, flag.Short, nil, flag.Description)
		default:
			cmd.Flags().StringP(flag.Name, flag.Short, flag.Default, flag.Description)
		}
		if flag.Required {
			_ = cmd.MarkFlagRequired(flag.Name)
		}
	}

	if len(meta.Args) > 0 {
		cmd.ValidArgsFunction = generateCompletionFunc(meta.Args, complete)
	}

	return cmd
}

func argsValidator(args []ArgMeta) cobra.PositionalArgs {
	for _, arg := range args {
		if arg.Flag != "" {
			return func(cmd *cobra.Command, positional []string) error {
				_, err := BindArgs(args, cmd.Flags(), positional)
				return err
			}
		}
	}

	minArgs := 0
	variadic := false
	for _, arg := range args {
		if arg.Required {
			minArgs++
		}
		if arg.Variadic {
			variadic = true
		}
	}
	switch {
	case variadic:
		return cobra.MinimumNArgs(minArgs)
	case len(args) == 0:
		return cobra.NoArgs
	case minArgs == len(args):
		return cobra.ExactArgs(minArgs)
	default:
		return cobra.RangeArgs(minArgs, len(args))
	}
}

// generateCompletionFunc creates a shell completion function based on arg metadata.
func generateCompletionFunc(args []ArgMeta, complete Completer) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, completedArgs []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		argIndex := len(completedArgs)
		if argIndex >= len(args) {
			last := args[len(args)-1]
			if !last.Variadic {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			argIndex = len(args) - 1
		}
		arg := args[argIndex]

		candidates := arg.Completions
		if arg.DynamicComp != "" && complete != nil {
			candidates = complete(arg.DynamicComp)
		}

		var matches []string
		for _, c := range candidates {
			if strings.HasPrefix(c, toComplete) {
				matches = append(matches, c)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// GetCommandMeta returns the metadata for a command.
func GetCommandMeta(id string) (Meta, bool) {
	meta, ok := Registry[id]
	return meta, ok
}

// AllCommandIDs returns all registered command IDs.
func AllCommandIDs() []string {
	ids := make([]string, 0, len(Registry))
	for id := range Registry {
		ids = append(ids, id)
	}
	return ids
}
