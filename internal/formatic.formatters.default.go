package internal

import (
	"fmt"
	"strings"
)

// DefaultFormatter stringifies values and is the dispatch fallback.
// A format containing placeholders is rendered as a nested template with the
// value as the current scope; a format starting with % is applied as a fmt
// verb. Any other plain-text format leaves the value's text unchanged.
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// Name returns the formatter name
func (f *DefaultFormatter) Name() string {
	return FormatterNameDefault
}

// Aliases returns the formatter aliases
func (f *DefaultFormatter) Aliases() []string {
	return []string{FormatterAliasDefault}
}

// Accepts reports true for every value
func (f *DefaultFormatter) Accepts(call *FormatCall) bool {
	return true
}

// Render stringifies the value or renders the format against it
func (f *DefaultFormatter) Render(call *FormatCall) (string, error) {
	value := call.Value()
	if call.SegmentCount() == 0 {
		return Stringify(value), nil
	}

	if text, literal := f.literalFormat(call); literal {
		if strings.HasPrefix(text, string(CharPercent)) {
			return fmt.Sprintf(text, value), nil
		}
		return Stringify(value), nil
	}

	parts := make([]string, call.SegmentCount())
	for i := range parts {
		part, err := call.Recurse(i, value)
		if err != nil {
			return StringValueEmpty, err
		}
		parts[i] = part
	}
	return strings.Join(parts, string(call.SegmentDelimiter())), nil
}

// literalFormat rejoins the segments when none of them holds a placeholder
func (f *DefaultFormatter) literalFormat(call *FormatCall) (string, bool) {
	texts := make([]string, call.SegmentCount())
	for i := range texts {
		text, literal := call.SegmentText(i)
		if !literal {
			return StringValueEmpty, false
		}
		texts[i] = text
	}
	return strings.Join(texts, string(call.SegmentDelimiter())), true
}
