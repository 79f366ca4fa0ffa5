package internal

// NodeType identifies compiled template node types
type NodeType int

// Node type constants
const (
	NodeTypeTemplate NodeType = iota
	NodeTypeText
	NodeTypePlaceholder
)

// Node type string names for debugging
const (
	NodeTypeNameTemplate    = "TEMPLATE"
	NodeTypeNameText        = "TEXT"
	NodeTypeNamePlaceholder = "PLACEHOLDER"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypePlaceholder:
		return NodeTypeNamePlaceholder
	default:
		return NodeTypeNameTemplate
	}
}

// Default structural characters
const (
	DefaultEscapeChar         = '\\'
	DefaultPlaceholderOpen    = '{'
	DefaultPlaceholderClose   = '}'
	DefaultSegmentDelimiter   = '|'
	DefaultFormatterDelimiter = ':'
	DefaultAlignmentDelimiter = ','
)

// Escape sequence letters recognised after the escape char
const (
	EscapeLetterNewline        = 'n'
	EscapeLetterTab            = 't'
	EscapeLetterCarriageReturn = 'r'
)

// Selector characters
const (
	CharSelectorSeparator = '.'
	CharIndexOpen         = '['
	CharIndexClose        = ']'
	CharOptionsOpen       = '('
	CharOptionsClose      = ')'
	CharUnderscore        = '_'
	CharHyphen            = '-'
	CharSpace             = ' '
	CharNewline           = '\n'
	CharPercent           = '%'
	CharOptionSeparator   = ','
)

// Reserved selectors
const (
	// SelectorIndex resolves to the position of the innermost list element
	SelectorIndex = "index"
)

// Pseudo-members resolved on sequences by the reflective source
const (
	PseudoMemberCount  = "Count"
	PseudoMemberLength = "Length"
	PseudoMemberLen    = "Len"
)

// Built-in formatter names and aliases
const (
	FormatterNameList        = "list"
	FormatterAliasList       = "l"
	FormatterNamePlural      = "plural"
	FormatterAliasPlural     = "p"
	FormatterNameConditional = "conditional"
	FormatterAliasCond       = "cond"
	FormatterNameChoose      = "choose"
	FormatterAliasChoose     = "c"
	FormatterNameSubstr      = "substr"
	FormatterNameTemplate    = "template"
	FormatterAliasTemplate   = "t"
	FormatterNameDefault     = "default"
	FormatterAliasDefault    = "d"
)

// Text rendered for choose keys
const (
	ChooseKeyNull  = "null"
	ChooseKeyTrue  = "true"
	ChooseKeyFalse = "false"
)

// CondOpOr joins condition terms with or; any other joiner means and
const CondOpOr = '/'

// Default configuration values
const (
	DefaultMaxDepth = 100
	DefaultLanguage = "en"
)

// ErrorKind classifies compile-time and run-time faults
type ErrorKind string

// Compile-time fault kinds
const (
	ErrKindIllegalEscapeSequence ErrorKind = "IllegalEscapeSequence"
	ErrKindUnbalancedDelimiter   ErrorKind = "UnbalancedDelimiter"
	ErrKindInvalidSelector       ErrorKind = "InvalidSelector"
	ErrKindInvalidAlignment      ErrorKind = "InvalidAlignment"
)

// Run-time fault kinds
const (
	ErrKindUnresolvedSelector     ErrorKind = "UnresolvedSelector"
	ErrKindFormatterMismatch      ErrorKind = "FormatterMismatch"
	ErrKindRecursionLimitExceeded ErrorKind = "RecursionLimitExceeded"
	ErrKindFormatterFailed        ErrorKind = "FormatterFailed"
)

// MissingSelectorAction mirrors formatic.MissingSelectorAction for internal use
type MissingSelectorAction int

// Missing selector actions (mirrors formatic.MissingSelectorAction)
const (
	MissingSelectorThrow MissingSelectorAction = iota
	MissingSelectorEmitEmpty
	MissingSelectorEchoToken
)

// Missing selector action names
const (
	MissingSelectorNameThrow = "throw"
	MissingSelectorNameEmpty = "empty"
	MissingSelectorNameEcho  = "echo"
)

// String returns the string representation of the action
func (a MissingSelectorAction) String() string {
	switch a {
	case MissingSelectorEmitEmpty:
		return MissingSelectorNameEmpty
	case MissingSelectorEchoToken:
		return MissingSelectorNameEcho
	default:
		return MissingSelectorNameThrow
	}
}

// Log message constants
const (
	LogMsgEscapeComplete       = "escape processing complete"
	LogMsgParserCreated        = "parser created"
	LogMsgParserStart          = "starting parse"
	LogMsgParserEnd            = "parse complete"
	LogMsgExecutorCreated      = "executor created"
	LogMsgExecutorStart        = "starting execution"
	LogMsgExecutorEnd          = "execution complete"
	LogMsgFormatterSelected    = "formatter selected"
	LogMsgSelectorMissing      = "selector not resolved"
	LogMsgRegistryCreated      = "formatter registry created"
	LogMsgFormatterRegistered  = "formatter registered"
	LogMsgFormatterCollision   = "formatter registration collision - first-come-wins"
	LogMsgRecursionLimit       = "recursion limit exceeded"
	LogMsgBuiltinsRegistered   = "built-in formatters registered"
	LogMsgBuiltinSkipped       = "built-in formatter shadowed by custom formatter"
	LogMsgRegistryFrozen       = "formatter registry frozen"
	LogMsgFallbackRejected     = "fallback formatter rejected"
)

// Log field names
const (
	LogFieldSource      = "source_length"
	LogFieldRunes       = "rune_count"
	LogFieldNodes       = "node_count"
	LogFieldFormatter   = "formatter"
	LogFieldExplicit    = "explicit"
	LogFieldSelector    = "selector"
	LogFieldDepth       = "depth"
	LogFieldAction      = "action"
	LogFieldName        = "name"
	LogFieldExisting    = "existing"
	LogFieldPlaceholder = "placeholder"
	LogFieldLanguage    = "language"
	LogFieldCount       = "count"
)

// Error message constants
const (
	ErrMsgIllegalEscape       = "illegal escape sequence"
	ErrMsgTrailingEscape      = "escape character at end of input"
	ErrMsgUnmatchedOpen       = "unmatched placeholder open delimiter"
	ErrMsgUnmatchedClose      = "unmatched placeholder close delimiter"
	ErrMsgInvalidSelector     = "invalid character in selector"
	ErrMsgInvalidAlignment    = "alignment must be a signed integer"
	ErrMsgSelectorNotFound    = "selector could not be resolved"
	ErrMsgUnknownFormatter    = "no formatter registered with name"
	ErrMsgFormatterRejected   = "formatter cannot handle value"
	ErrMsgRecursionLimit      = "maximum recursion depth exceeded"
	ErrMsgFormatterFailed     = "formatter failed"
	ErrMsgSegmentOutOfRange   = "format segment index out of range"
	ErrMsgNilFormatter        = "formatter cannot be nil"
	ErrMsgEmptyFormatterName  = "formatter name cannot be empty"
	ErrMsgFormatterExists     = "formatter already registered with name"
	ErrMsgRegistryFrozen      = "formatter registry is frozen"
	ErrMsgNoChoiceMatched     = "no choice option matches value"
	ErrMsgInvalidSubstrOpts   = "substr options must be start[,length]"
	ErrMsgConditionNotNumeric = "conditional comparison requires a numeric value"
	ErrMsgTemplateNameMissing = "template formatter requires a template name"
	ErrMsgTemplateNotFound    = "named template not found"
	ErrMsgInvalidLanguage     = "invalid language tag"
	ErrMsgNotCountable        = "value is not a number or sequence"
)

// Error format string constants (for Error() methods)
const (
	ErrFmtWithPosition    = "%s at %s"
	ErrFmtWithPlaceholder = "%s in %s"
	ErrFmtWithCause       = "%s: %v"
	ErrFmtNameMessage     = "%s: %s"
)

// String display constants for node String() methods
const (
	MaxStringDisplayLength = 50
	TruncatedStringLength  = 47
	TruncationSuffix       = "..."
)

// StringValueEmpty is the empty string constant
const StringValueEmpty = ""
