package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameSave     = "save"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate        = "template"
	FlagData            = "data"
	FlagDataFile        = "data-file"
	FlagOutput          = "output"
	FlagFormat          = "format"
	FlagSettings        = "settings"
	FlagConvertLiterals = "convert-literals"
	FlagEscapeChar      = "escape-char"
	FlagMissing         = "missing"
	FlagVerbose         = "verbose"
	FlagStore           = "store"
	FlagName            = "name"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
	FlagNameShort     = "n"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Data file extensions decoded as YAML; everything else is JSON
const (
	DataFileExtYAML = ".yaml"
	DataFileExtYML  = ".yml"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgMissingTemplate    = "template source required"
	ErrMsgInvalidFlags       = "invalid flags"
	ErrMsgInvalidData        = "invalid data"
	ErrMsgInvalidSettings    = "invalid settings"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgCompileFailed      = "template compilation failed"
	ErrMsgRenderFailed       = "template rendering failed"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgEscapeCharLength   = "escape character must be exactly one character"
	ErrMsgDataSourceConflict = "use either --data or --data-file, not both"
	ErrMsgLoadStoreFailed    = "failed to load stored templates"
	ErrMsgMissingName        = "template name required"
	ErrMsgMissingStore       = "template directory required"
	ErrMsgSaveFailed         = "failed to save template"
)

// Help text templates
const (
	HelpMainUsage = `go-formatic - composite format string CLI

Usage:
    formatic <command> [options]

Commands:
    render      Render a format string with data
    validate    Compile a format string without rendering
    save        Compile a format string and store it as a named template
    version     Show version information
    help        Show help for a command

Use "formatic help <command>" for more information about a command.`

	HelpRenderUsage = `Render a format string with data

Usage:
    formatic render [options]

Options:
    -t, --template <file>     Format string file (use "-" for stdin)
    -d, --data <json>         JSON data string
    -f, --data-file <file>    JSON or YAML data file (.yaml, .yml)
    -o, --output <file>       Output file (default: stdout)
    --settings <file>         YAML settings file
    --convert-literals        Decode escape sequences in literal text
    --escape-char <char>      Escape character (default: \)
    --missing <action>        Missing selector action: throw, empty, echo
    --store <dir>             Load named templates from a template directory
    -v, --verbose             Log engine activity to stderr

A JSON array is passed as positional arguments; any other value is argument 0.
Settings are read from FORMATIC_* environment variables, then the settings
file, then flags.

Examples:
    formatic render -t greeting.txt -d '{"Name": "Ada"}'
    formatic render -t greeting.txt -f people.yaml
    echo '{0} + {1}' | formatic render -t - -d '[1, 2]'
    formatic render -t card.txt -d '{"Name": "Ada"}' --store ./templates`

	HelpValidateUsage = `Compile a format string without rendering

Usage:
    formatic validate [options]

Options:
    -t, --template <file>     Format string file (use "-" for stdin)
    -F, --format <format>     Output format: text, json (default: text)
    --settings <file>         YAML settings file
    --convert-literals        Decode escape sequences in literal text
    --escape-char <char>      Escape character (default: \)

Examples:
    formatic validate -t greeting.txt
    cat greeting.txt | formatic validate -t - -F json`

	HelpSaveUsage = `Compile a format string and store it as a named template

Usage:
    formatic save [options]

Options:
    -t, --template <file>     Format string file (use "-" for stdin)
    -n, --name <name>         Template name
    --store <dir>             Template directory
    --settings <file>         YAML settings file
    --convert-literals        Decode escape sequences in literal text
    --escape-char <char>      Escape character (default: \)

Each save adds a version. The escape and delimiter settings are stored with
the version, so "render --store" compiles it the same way under any settings.
A format string that does not compile is reported and not stored.

Examples:
    formatic save -t card.txt -n card --store ./templates
    echo '<{Name}>' | formatic save -t - -n card --store ./templates`

	HelpVersionUsage = `Show version information

Usage:
    formatic version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    formatic help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    save        Show help for save command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-formatic version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output format templates
const (
	ValidationTextSuccess      = "Template is valid"
	ValidationTextPlaceholders = "Placeholders: %d"
	ValidationTextFailure      = "[%s] %s at line %d, column %d"
)

// Save output format templates
const (
	SaveTextSuccess = "saved %s v%d (%d placeholders)"
)

// CLI metadata
const (
	CLIName = "formatic"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
