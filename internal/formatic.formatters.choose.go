package internal

import (
	"strings"
)

// ChooseFormatter maps the value onto one of the options given in
// choose(a|b|c) and renders the matching segment. One extra trailing
// segment is the default when nothing matches.
type ChooseFormatter struct{}

// NewChooseFormatter creates a new ChooseFormatter
func NewChooseFormatter() *ChooseFormatter {
	return &ChooseFormatter{}
}

// Name returns the formatter name
func (f *ChooseFormatter) Name() string {
	return FormatterNameChoose
}

// Aliases returns the formatter aliases
func (f *ChooseFormatter) Aliases() []string {
	return []string{FormatterAliasChoose}
}

// Accepts any value when named with options
func (f *ChooseFormatter) Accepts(call *FormatCall) bool {
	return call.Explicit() && call.SegmentCount() > 0
}

// Render renders the segment whose option equals the value
func (f *ChooseFormatter) Render(call *FormatCall) (string, error) {
	options := strings.Split(call.Options(), string(call.SegmentDelimiter()))
	key := chooseKey(call.Value())

	for i, option := range options {
		if i >= call.SegmentCount() {
			break
		}
		if strings.TrimSpace(option) == key {
			return call.Recurse(i, call.Value())
		}
	}

	if call.SegmentCount() > len(options) {
		return call.Recurse(len(options), call.Value())
	}
	return StringValueEmpty, NewFormatterError(ErrMsgNoChoiceMatched, FormatterNameChoose, key)
}

// chooseKey returns the text compared against the options
func chooseKey(value any) string {
	switch v := value.(type) {
	case nil:
		return ChooseKeyNull
	case bool:
		if v {
			return ChooseKeyTrue
		}
		return ChooseKeyFalse
	}
	return Stringify(value)
}
