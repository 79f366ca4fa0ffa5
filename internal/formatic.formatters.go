package internal

import (
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// BuiltinConfig configures the built-in formatters
type BuiltinConfig struct {
	Language language.Tag
}

// DefaultBuiltinConfig returns the default built-in formatter configuration
func DefaultBuiltinConfig() BuiltinConfig {
	return BuiltinConfig{Language: language.English}
}

// RegisterBuiltins registers the built-in formatters after any custom ones.
// A built-in whose name is already taken is skipped so custom formatters
// keep priority. The default formatter becomes the fallback.
func RegisterBuiltins(registry *Registry, config BuiltinConfig, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	builtins := []Formatter{
		NewListFormatter(),
		NewPluralFormatter(config.Language),
		NewConditionalFormatter(),
		NewChooseFormatter(),
		NewSubstrFormatter(),
		NewTemplateFormatter(),
	}
	for _, formatter := range builtins {
		if err := registry.Register(formatter); err != nil {
			logger.Debug(LogMsgBuiltinSkipped, zap.String(LogFieldName, formatter.Name()))
		}
	}
	if err := registry.SetFallback(NewDefaultFormatter()); err != nil {
		logger.Warn(LogMsgFallbackRejected, zap.Error(err))
	}

	logger.Debug(LogMsgBuiltinsRegistered, zap.Int(LogFieldCount, registry.Count()))
}

// Stringify converts any value to its plain string representation.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return StringValueEmpty
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

// toFloat returns the numeric value of any integer or float kind
func toFloat(value any) (float64, bool) {
	rv, ok := Indirect(reflect.ValueOf(value))
	if !ok {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// isNumber reports whether value has a numeric kind
func isNumber(value any) bool {
	_, ok := toFloat(value)
	return ok
}

// FormatterError represents a failure inside a built-in formatter
type FormatterError struct {
	Message   string
	Formatter string
	Detail    string
}

// NewFormatterError creates a new formatter error
func NewFormatterError(message, formatter, detail string) *FormatterError {
	return &FormatterError{Message: message, Formatter: formatter, Detail: detail}
}

// Error implements the error interface
func (e *FormatterError) Error() string {
	if e.Detail != StringValueEmpty {
		return fmt.Sprintf(ErrFmtNameMessage, fmt.Sprintf(ErrFmtNameMessage, e.Formatter, e.Message), e.Detail)
	}
	return fmt.Sprintf(ErrFmtNameMessage, e.Formatter, e.Message)
}
