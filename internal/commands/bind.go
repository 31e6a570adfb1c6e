package commands

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Bound holds argument values by ArgMeta name.
type Bound map[string][]string

// String returns the first value of the named argument.
func (b Bound) String(name string) string {
	if v := b[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Strings returns every value of the named argument.
func (b Bound) Strings(name string) []string {
	return b[name]
}

// BindArgs resolves each argument from the flag standing in for it, when that
// flag was set, and otherwise from the next positional value. A variadic
// argument takes every remaining positional value.
func BindArgs(args []ArgMeta, flags *pflag.FlagSet, positional []string) (Bound, error) {
	bound := make(Bound, len(args))
	rest := positional
	for _, arg := range args {
		if values, ok := flagValues(flags, arg.Flag); ok {
			bound[arg.Name] = values
			continue
		}
		switch {
		case len(rest) == 0:
		case arg.Variadic:
			bound[arg.Name] = rest
			rest = nil
		default:
			bound[arg.Name] = rest[:1]
			rest = rest[1:]
		}
		if arg.Required && len(bound[arg.Name]) == 0 {
			if arg.Flag != "" {
				return nil, fmt.Errorf("missing %s: pass it as an argument or with --%s", arg.Name, arg.Flag)
			}
			return nil, fmt.Errorf("missing %s argument", arg.Name)
		}
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %q", rest)
	}
	return bound, nil
}

func flagValues(flags *pflag.FlagSet, name string) ([]string, bool) {
	if name == "" || flags == nil {
		return nil, false
	}
	f := flags.Lookup(name)
	if f == nil || !f.Changed {
		return nil, false
	}
	if f.Value.Type() == "stringSlice" {
		values, err := flags.GetStringSlice(name)
		if err != nil {
			return nil, false
		}
		return values, true
	}
	return []string{f.Value.String()}, true
}
