package internal

import (
	"strconv"
	"strings"
)

// SubstrFormatter cuts the stringified value by rune positions:
// substr(start) or substr(start,length). A negative start counts from the
// end and out-of-range bounds are clamped.
type SubstrFormatter struct{}

// NewSubstrFormatter creates a new SubstrFormatter
func NewSubstrFormatter() *SubstrFormatter {
	return &SubstrFormatter{}
}

// Name returns the formatter name
func (f *SubstrFormatter) Name() string {
	return FormatterNameSubstr
}

// Aliases returns no aliases
func (f *SubstrFormatter) Aliases() []string {
	return nil
}

// Accepts any value when named
func (f *SubstrFormatter) Accepts(call *FormatCall) bool {
	return call.Explicit()
}

// Render returns the requested substring
func (f *SubstrFormatter) Render(call *FormatCall) (string, error) {
	start, length, hasLength, err := parseSubstrOptions(call.Options())
	if err != nil {
		return StringValueEmpty, err
	}

	runes := []rune(Stringify(call.Value()))
	if start < 0 {
		start += len(runes)
	}
	start = clamp(start, 0, len(runes))

	end := len(runes)
	if hasLength {
		end = clamp(start+length, start, len(runes))
	}
	return string(runes[start:end]), nil
}

func parseSubstrOptions(options string) (int, int, bool, error) {
	startText, lengthText, hasLength := strings.Cut(options, string(CharOptionSeparator))

	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return 0, 0, false, NewFormatterError(ErrMsgInvalidSubstrOpts, FormatterNameSubstr, options)
	}
	if !hasLength {
		return start, 0, false, nil
	}

	length, err := strconv.Atoi(strings.TrimSpace(lengthText))
	if err != nil || length < 0 {
		return 0, 0, false, NewFormatterError(ErrMsgInvalidSubstrOpts, FormatterNameSubstr, options)
	}
	return start, length, true, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
