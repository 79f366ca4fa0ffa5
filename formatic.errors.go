package formatic

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-formatic/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Compile and render errors
	ErrMsgCompileFailed = "template compilation failed"
	ErrMsgRenderFailed  = "template rendering failed"
	ErrMsgNilTemplate   = "template cannot be nil"
	ErrMsgForeignEngine = "template was compiled by a different engine"

	// Configuration errors
	ErrMsgInvalidMissingAction = "invalid missing selector action"
	ErrMsgInvalidDelimiter     = "delimiter characters must be distinct and non-zero"
	ErrMsgInvalidEscapeChar    = "escape character must be non-zero and differ from every delimiter"
	ErrMsgInvalidMaxDepth      = "max recursion depth cannot be negative"
	ErrMsgInvalidLanguage      = "invalid language tag"
	ErrMsgInvalidCharSetting   = "setting must be exactly one character"
	ErrMsgInvalidCacheSize     = "compile cache size cannot be negative"
	ErrMsgSettingsFileRead     = "failed to read settings file"
	ErrMsgSettingsFileParse    = "failed to parse settings file"
	ErrMsgSettingsEnvParse     = "failed to parse settings from environment"

	// Registry errors
	ErrMsgFormatterRegistration = "formatter registration failed"
	ErrMsgEmptyTemplateName     = "template name cannot be empty"
	ErrMsgTemplateExists        = "template already registered"
	ErrMsgTemplateNotFound      = "template not found"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "FORMATIC_PARSE"
	ErrCodeExec     = "FORMATIC_EXEC"
	ErrCodeConfig   = "FORMATIC_CONFIG"
	ErrCodeRegistry = "FORMATIC_REGISTRY"
)

// Error format strings
const (
	errFmtPlaceholder = "%s in %s"
	errFmtValue       = "%v"
)

// Position represents a location in the raw template text
type Position = internal.Position

// NewCompileError creates a compile-time error with kind and position metadata
func NewCompileError(kind ErrorKind, msg string, pos Position) error {
	return newCompileError(kind, msg, pos)
}

func newCompileError(kind ErrorKind, msg string, pos Position) *cuserr.CustomError {
	return cuserr.NewValidationError(ErrCodeParse, msg).
		WithMetadata(MetaKeyKind, string(kind)).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// convertCompileError turns internal escape and parse faults into public errors
func convertCompileError(err error) error {
	var escErr *internal.EscapeError
	if errors.As(err, &escErr) {
		return newCompileError(escErr.Kind(), escErr.Error(), escErr.Position).
			WithMetadata(MetaKeySequence, escErr.Sequence)
	}

	var parseErr *internal.ParseError
	if errors.As(err, &parseErr) {
		return newCompileError(parseErr.Kind, parseErr.Error(), parseErr.Position)
	}

	return cuserr.WrapStdError(err, ErrCodeParse, ErrMsgCompileFailed)
}

// convertExecError turns internal executor faults into public errors
func convertExecError(err error) error {
	var execErr *internal.ExecutorError
	if !errors.As(err, &execErr) {
		return cuserr.WrapStdError(err, ErrCodeExec, ErrMsgRenderFailed)
	}

	msg := fmt.Sprintf(errFmtPlaceholder, execErr.Message, execErr.Placeholder)
	var custom *cuserr.CustomError
	if execErr.Cause != nil {
		custom = cuserr.WrapStdError(execErr.Cause, ErrCodeExec, msg)
	} else {
		custom = cuserr.NewValidationError(ErrCodeExec, msg)
	}

	custom = custom.
		WithMetadata(MetaKeyKind, string(execErr.Kind)).
		WithMetadata(MetaKeyPlaceholder, execErr.Placeholder).
		WithMetadata(MetaKeySelector, execErr.Selector).
		WithMetadata(MetaKeyDepth, strconv.Itoa(execErr.Depth)).
		WithMetadata(MetaKeyLine, strconv.Itoa(execErr.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(execErr.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(execErr.Position.Offset))
	if execErr.Formatter != StringValueEmpty {
		custom = custom.WithMetadata(MetaKeyFormatter, execErr.Formatter)
	}
	if execErr.HasValue {
		custom = custom.WithMetadata(MetaKeyValue, fmt.Sprintf(errFmtValue, execErr.Value))
	}
	return custom
}

// NewConfigError creates a configuration validation error
func NewConfigError(msg, field, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyValue, value)
}

// NewFormatterRegistrationError wraps a formatter registry failure
func NewFormatterRegistrationError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgFormatterRegistration).
		WithMetadata(MetaKeyFormatter, name)
}

// NewEmptyTemplateNameError creates an error for empty template names
func NewEmptyTemplateNameError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyTemplateName)
}

// NewTemplateExistsError creates an error for duplicate template names
func NewTemplateExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgTemplateExists).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewTemplateNotFoundError creates an error for unknown template names
func NewTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplateName, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyTemplateName, name).
		WithMetadata(MetaKeyReason, ErrMsgTemplateNotFound)
}

// IsTemplateNotFound reports whether err reports an unknown template name
func IsTemplateNotFound(err error) bool {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	reason, ok := customErr.GetMetadata(MetaKeyReason)
	return ok && reason == ErrMsgTemplateNotFound
}

// withTemplateName attaches the template name to a structured error
func withTemplateName(err error, name string) error {
	var customErr *cuserr.CustomError
	if errors.As(err, &customErr) {
		return customErr.WithMetadata(MetaKeyTemplateName, name)
	}
	return err
}

// KindOf returns the fault kind carried by a compile or render error
func KindOf(err error) (ErrorKind, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return StringValueEmpty, false
	}
	kind, ok := customErr.GetMetadata(MetaKeyKind)
	if !ok {
		return StringValueEmpty, false
	}
	return ErrorKind(kind), true
}

// IsKind reports whether err carries the given fault kind
func IsKind(err error, kind ErrorKind) bool {
	actual, ok := KindOf(err)
	return ok && actual == kind
}

// PositionOf returns the raw source position carried by a compile or render error
func PositionOf(err error) (Position, bool) {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return Position{}, false
	}

	var pos Position
	for key, target := range map[string]*int{
		MetaKeyOffset: &pos.Offset,
		MetaKeyLine:   &pos.Line,
		MetaKeyColumn: &pos.Column,
	} {
		value, ok := customErr.GetMetadata(key)
		if !ok {
			return Position{}, false
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return Position{}, false
		}
		*target = n
	}
	return pos, true
}
