// Package commands provides a central registry of ntn CLI commands.
// This registry is the single source of truth for command metadata: the
// cobra commands are generated from it and the CLI checks that every
// registered command has a handler.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command name (e.g., "merge-select-options")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples

	// MutatesRemote marks commands that write to Notion. Only these ask for
	// confirmation on a terminal.
	MutatesRemote bool
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Variadic    bool     // Consumes all remaining arguments (last arg only)
	Completions []string // Static completions (if any)
	DynamicComp string   // Dynamic completion type: "databases", "config-keys"
	Flag        string   // Flag that may supply the value instead (see BindArgs)
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "output", "source")
	Short       string   // Short flag (e.g., "o" for -o)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
	Required    bool     // Cobra marks the flag required
	Aliases     []string // Alternative long names, normalized to Name
	Examples    []string // Example values
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeStringSlice FlagType = "stringSlice" // Repeatable, also accepts comma-separated values
)

var forceFlag = FlagMeta{Name: "force", Short: "f", Description: "Skip the confirmation prompt", Type: FlagTypeBool}

var databaseArg = ArgMeta{Name: "database", Description: "Database ID, URL or alias from config", Required: true, DynamicComp: "databases", Flag: "db-id"}

// Named-flag forms of the positional arguments.
var (
	dbIDFlag       = FlagMeta{Name: "db-id", Description: "Database ID, URL or alias (instead of the argument)", Type: FlagTypeString}
	targetDBIDFlag = FlagMeta{Name: "target-db-id", Description: "Target database ID, URL or alias (instead of the argument)", Type: FlagTypeString}
	propertyFlag   = FlagMeta{Name: "property", Description: "Property name (instead of the argument)", Type: FlagTypeString}
	optionsFlag    = FlagMeta{Name: "options", Description: "Options, repeatable or comma-separated (instead of the arguments)", Type: FlagTypeStringSlice}
)

// Registry holds all registered commands.
var Registry = map[string]Meta{
	"archive-all-pages-in-db": {
		Name:        "archive-all-pages-in-db",
		Description: "Archive every page of a database",
		LongDesc: `Archives (moves to trash) every page of a database.

Pages are fetched with a full paginated query and archived one at a time.
There is no undo from this tool; restore pages from the Notion trash.`,
		Args:  []ArgMeta{databaseArg},
		Flags: []FlagMeta{dbIDFlag, forceFlag},
		Examples: []string{
			"ntn archive-all-pages-in-db tasks",
			"ntn archive-all-pages-in-db --db-id tasks",
			"ntn archive-all-pages-in-db 1b2c3d4e5f60718293a4b5c6d7e8f901 --force --json",
		},
	},
	"copy-between-dbs": {
		Name:        "copy-between-dbs",
		Description: "Copy schema and pages from one database into another",
		LongDesc: `Copies every page of the source database into the target database.

Properties the target lacks are created first (select and multi_select keep
their option names and colors). Properties present on both databases must
have the same type. Page content is copied one level deep: pages with more
than 100 top-level blocks or with files uploaded to Notion are rejected.
Status, button and verification properties cannot be created through the API
and are skipped.`,
		Args: []ArgMeta{
			{Name: "source", Description: "Source database ID, URL or alias", Required: true, DynamicComp: "databases", Flag: "db-id"},
			{Name: "target", Description: "Target database ID, URL or alias", Required: true, DynamicComp: "databases", Flag: "target-db-id"},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			targetDBIDFlag,
			{Name: "skip-content", Description: "Copy properties only, not page content", Type: FlagTypeBool},
			forceFlag,
		},
		Examples: []string{
			"ntn copy-between-dbs projects archive",
			"ntn copy-between-dbs --db-id projects --target-db-id archive",
			"ntn copy-between-dbs projects archive --skip-content --json",
		},
	},
	"merge-select-options": {
		Name:        "merge-select-options",
		Description: "Merge several options of a select or multi_select property into one",
		LongDesc: `Replaces the input options with the output option on every page, then
removes the input options from the property.

The output option must already exist. It may also be one of the inputs.
Running the command again on merged data changes nothing.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "property", Description: "Select or multi_select property name", Required: true, Flag: "property"},
			{Name: "inputs", Description: "Options to merge", Required: true, Variadic: true, Flag: "input-options"},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			propertyFlag,
			{Name: "input-options", Description: "Options to merge, repeatable or comma-separated (instead of the arguments)", Type: FlagTypeStringSlice},
			{Name: "output", Short: "o", Description: "Option the inputs are merged into", Type: FlagTypeString, Required: true, Aliases: []string{"output-option"}, Examples: []string{"Done"}},
			forceFlag,
		},
		Examples: []string{
			`ntn merge-select-options tasks Status "In review" "Reviewing" --output "Review"`,
			`ntn merge-select-options --db-id tasks --property Status --input-options "In review",Reviewing --output-option Review`,
			`ntn merge-select-options tasks Tags go golang --output go --json`,
		},
	},
	"remove-select-options": {
		Name:        "remove-select-options",
		Description: "Remove options from a select or multi_select property",
		LongDesc: `Removes the named options from the property. Notion clears them from
every page that used them. Unknown option names are reported and ignored.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "property", Description: "Select or multi_select property name", Required: true, Flag: "property"},
			{Name: "options", Description: "Options to remove", Required: true, Variadic: true, Flag: "options"},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			{Name: "property", Description: "Property name (instead of the argument)", Type: FlagTypeString, Aliases: []string{"property-name"}},
			{Name: "options", Description: "Options to remove, repeatable or comma-separated (instead of the arguments)", Type: FlagTypeStringSlice, Aliases: []string{"option"}},
			forceFlag,
		},
		Examples: []string{
			`ntn remove-select-options tasks Tags obsolete legacy`,
			`ntn remove-select-options --db-id tasks --property-name Tags --option obsolete --option legacy`,
		},
	},
	"remove-unused-select-options": {
		Name:        "remove-unused-select-options",
		Description: "Remove options no page uses",
		LongDesc: `Checks each option of the property with a one-page query and removes the
options no page references. Archived pages are not counted.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "property", Description: "Select or multi_select property name", Required: true, Flag: "property"},
		},
		Flags: []FlagMeta{dbIDFlag, propertyFlag, forceFlag},
		Examples: []string{
			"ntn remove-unused-select-options tasks Tags",
			"ntn remove-unused-select-options --db-id tasks --property Tags",
		},
	},
	"set-select-from-multi-select": {
		Name:        "set-select-from-multi-select",
		Description: "Move options from a multi_select property into a select property",
		LongDesc: `For every page carrying one of the named options in the source
multi_select, sets the target select to that option and removes it from the
source. Missing target options are created with the source color.

Every matching page is checked before anything is written: a page carrying
more than one of the named options fails the whole command.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "options", Description: "Options to move", Required: true, Variadic: true, Flag: "options"},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			optionsFlag,
			{Name: "source", Description: "Source multi_select property", Type: FlagTypeString, Required: true, Aliases: []string{"multi-select-property"}},
			{Name: "target", Description: "Target select property", Type: FlagTypeString, Required: true, Aliases: []string{"select-property"}},
			{Name: "keep-source-options", Description: "Keep the moved options defined on the source property", Type: FlagTypeBool},
			forceFlag,
		},
		Examples: []string{
			`ntn set-select-from-multi-select tasks P0 P1 P2 --source Tags --target Priority`,
			`ntn set-select-from-multi-select --db-id tasks --multi-select-property Tags --select-property Priority --options P0,P1,P2`,
		},
	},
	"set-multi-select-from-multi-select": {
		Name:        "set-multi-select-from-multi-select",
		Description: "Move options from one multi_select property into another",
		LongDesc: `For every page carrying any of the named options in the source
multi_select, adds them to the target multi_select and removes them from the
source. Missing target options are created with the source color.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "options", Description: "Options to move", Required: true, Variadic: true, Flag: "options"},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			optionsFlag,
			{Name: "source", Description: "Source multi_select property", Type: FlagTypeString, Required: true, Aliases: []string{"source-property"}},
			{Name: "target", Description: "Target multi_select property", Type: FlagTypeString, Required: true, Aliases: []string{"destination-property"}},
			{Name: "keep-source-options", Description: "Keep the moved options defined on the source property", Type: FlagTypeBool},
			forceFlag,
		},
		Examples: []string{
			`ntn set-multi-select-from-multi-select tasks frontend backend --source Tags --target Areas`,
			`ntn set-multi-select-from-multi-select --db-id tasks --source-property Tags --destination-property Areas --options frontend,backend`,
		},
	},
	"create-pages-for-multiselect": {
		Name:        "create-pages-for-multiselect",
		Description: "Create one page per multi_select option in another database",
		LongDesc: `Creates a page titled with each option of the source multi_select property
in the target database. Options that already have a page with the same title
are skipped.`,
		Args: []ArgMeta{
			{Name: "source", Description: "Database holding the multi_select property", Required: true, DynamicComp: "databases", Flag: "db-id"},
			{Name: "property", Description: "Multi_select property name", Required: true, Flag: "property"},
			{Name: "target", Description: "Database receiving the pages", Required: true, DynamicComp: "databases", Flag: "target-db-id"},
		},
		Flags: []FlagMeta{dbIDFlag, propertyFlag, targetDBIDFlag, forceFlag},
		Examples: []string{
			"ntn create-pages-for-multiselect tasks Tags topics",
		},
	},
	"set-relation-from-multiselect": {
		Name:        "set-relation-from-multiselect",
		Description: "Fill a relation property from multi_select option names",
		LongDesc: `Sets the relation property of every page to the pages of the related
database whose titles match the page's multi_select options. All names are
resolved before anything is written; an unknown title fails the command.`,
		Args: []ArgMeta{
			databaseArg,
			{Name: "source", Description: "Multi_select property name", Required: true},
			{Name: "relation", Description: "Relation property name", Required: true},
		},
		Flags: []FlagMeta{
			dbIDFlag,
			{Name: "related", Description: "Database to match titles in (defaults to the relation's database)", Type: FlagTypeString},
			forceFlag,
		},
		Examples: []string{
			"ntn set-relation-from-multiselect tasks Tags Topics",
		},
	},
	"describe-db": {
		Name:        "describe-db",
		Description: "Show a database schema",
		LongDesc:    `Prints the properties of a database with their types and options.`,
		Args:        []ArgMeta{databaseArg},
		Flags: []FlagMeta{
			dbIDFlag,
			{Name: "format", Description: "Output format: text or yaml", Type: FlagTypeString, Default: "text"},
		},
		Examples: []string{
			"ntn describe-db tasks",
			"ntn describe-db tasks --format yaml",
			"ntn describe-db tasks --json",
		},
	},
	"config": {
		Name:        "config",
		Description: "Manage ntn configuration",
	},
	"config_show": {
		Name:        "show",
		Description: "Show the resolved configuration",
		LongDesc:    `Prints the config file path, the token source and the configured database aliases. The token itself is never printed.`,
	},
	"config_init": {
		Name:        "init",
		Description: "Create a commented config file",
		Examples:    []string{"ntn config init", "ntn config init --config ./ntn.toml"},
	},
	"config_set": {
		Name:        "set",
		Description: "Set a config value",
		LongDesc: `Sets a config value and saves the file. An empty value clears the key;
for databases.<alias> it removes the alias.`,
		Args: []ArgMeta{
			{Name: "key", Description: "Config key (e.g. ui.accent, databases.tasks)", Required: true, DynamicComp: "config-keys"},
			{Name: "value", Description: "New value", Required: true},
		},
		Examples: []string{
			`ntn config set databases.tasks https://www.notion.so/acme/1b2c3d4e5f60718293a4b5c6d7e8f901`,
			`ntn config set ui.accent 39`,
		},
	},
	"version": {
		Name:        "version",
		Description: "Show version information",
	},
}
