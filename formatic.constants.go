package formatic

import (
	"github.com/itsatony/go-formatic/internal"
)

// Default structural characters
const (
	DefaultEscapeChar         = internal.DefaultEscapeChar
	DefaultPlaceholderOpen    = internal.DefaultPlaceholderOpen
	DefaultPlaceholderClose   = internal.DefaultPlaceholderClose
	DefaultSegmentDelimiter   = internal.DefaultSegmentDelimiter
	DefaultFormatterDelimiter = internal.DefaultFormatterDelimiter
	DefaultAlignmentDelimiter = internal.DefaultAlignmentDelimiter
)

// Default configuration values
const (
	DefaultMaxRecursionDepth = internal.DefaultMaxDepth
	DefaultLanguage          = internal.DefaultLanguage
	DefaultCompileCacheSize  = 0 // compile cache disabled
)

// Reserved selectors
const (
	// SelectorIndex resolves to the position of the innermost list element
	SelectorIndex = internal.SelectorIndex
)

// Built-in formatter names
const (
	FormatterList        = internal.FormatterNameList
	FormatterPlural      = internal.FormatterNamePlural
	FormatterConditional = internal.FormatterNameConditional
	FormatterChoose      = internal.FormatterNameChoose
	FormatterSubstr      = internal.FormatterNameSubstr
	FormatterTemplate    = internal.FormatterNameTemplate
	FormatterDefault     = internal.FormatterNameDefault
)

// MissingSelectorAction defines what happens when a selector cannot be resolved
type MissingSelectorAction int

const (
	// MissingSelectorThrow fails the render with an UnresolvedSelector error (default)
	MissingSelectorThrow MissingSelectorAction = iota
	// MissingSelectorEmitEmpty renders the placeholder as empty text
	MissingSelectorEmitEmpty
	// MissingSelectorEchoToken renders the placeholder's original text
	MissingSelectorEchoToken
)

// Missing selector action string values for settings files and flags
const (
	MissingSelectorNameThrow = internal.MissingSelectorNameThrow
	MissingSelectorNameEmpty = internal.MissingSelectorNameEmpty
	MissingSelectorNameEcho  = internal.MissingSelectorNameEcho
)

// String returns the string representation of the action
func (a MissingSelectorAction) String() string {
	return internal.MissingSelectorAction(a).String()
}

// ParseMissingSelectorAction converts a string to a MissingSelectorAction
func ParseMissingSelectorAction(s string) (MissingSelectorAction, error) {
	switch s {
	case MissingSelectorNameThrow:
		return MissingSelectorThrow, nil
	case MissingSelectorNameEmpty:
		return MissingSelectorEmitEmpty, nil
	case MissingSelectorNameEcho:
		return MissingSelectorEchoToken, nil
	default:
		return MissingSelectorThrow, NewConfigError(ErrMsgInvalidMissingAction, MetaKeyMissingAction, s)
	}
}

// ErrorKind classifies compile-time and run-time faults
type ErrorKind = internal.ErrorKind

// Compile-time fault kinds
const (
	KindIllegalEscapeSequence = internal.ErrKindIllegalEscapeSequence
	KindUnbalancedDelimiter   = internal.ErrKindUnbalancedDelimiter
	KindInvalidSelector       = internal.ErrKindInvalidSelector
	KindInvalidAlignment      = internal.ErrKindInvalidAlignment
)

// Run-time fault kinds
const (
	KindUnresolvedSelector     = internal.ErrKindUnresolvedSelector
	KindFormatterMismatch      = internal.ErrKindFormatterMismatch
	KindRecursionLimitExceeded = internal.ErrKindRecursionLimitExceeded
	KindFormatterFailed        = internal.ErrKindFormatterFailed
)

// Environment variable prefix for LoadSettingsEnv
const EnvPrefix = "FORMATIC_"

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind          = "kind"
	MetaKeyLine          = "line"
	MetaKeyColumn        = "column"
	MetaKeyOffset        = "offset"
	MetaKeySequence      = "sequence"
	MetaKeyPlaceholder   = "placeholder"
	MetaKeySelector      = "selector"
	MetaKeyFormatter     = "formatter"
	MetaKeyValue         = "value"
	MetaKeyDepth         = "depth"
	MetaKeyTemplateName  = "template_name"
	MetaKeyField         = "field"
	MetaKeyPath          = "path"
	MetaKeyMissingAction = "missing_selector_action"
	MetaKeyReason        = "reason"
)

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgTemplateCompiled   = "template compiled"
	LogMsgTemplateRegistered = "named template registered"
	LogMsgTemplateRemoved    = "named template removed"
	LogMsgTemplatesLoaded    = "named templates loaded from storage"
	LogMsgCacheHit           = "compile cache hit"
	LogMsgCacheEvicted       = "compile cache entry evicted"
	LogMsgStorageMigrated    = "storage schema migrated"
	LogMsgTemplateSaved      = "named template saved to storage"
	LogMsgSaveConflict       = "version conflict on save, retrying"
)

// Log field names
const (
	LogFieldName       = "name"
	LogFieldCount      = "count"
	LogFieldSourceLen  = "source_length"
	LogFieldCacheSize  = "cache_size"
	LogFieldFormatters = "formatters"
	LogFieldLanguage   = "language"
	LogFieldVersion    = "version"
	LogFieldAttempt    = "attempt"
)

// StringValueEmpty is the empty string constant
const StringValueEmpty = ""
