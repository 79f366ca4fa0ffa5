package formatic

import (
	"github.com/itsatony/go-formatic/internal"
)

// FormatCall describes one placeholder being rendered: the resolved value,
// the formatter name and options, and the format segments. Formatters render
// nested segments through Recurse so depth and scope stay consistent.
type FormatCall = internal.FormatCall

// Formatter renders resolved placeholder values.
//
// Accepts is consulted during dispatch. When the placeholder names the
// formatter, call.Explicit() is true and a false answer fails the render
// with a FormatterMismatch error. Otherwise the first formatter in
// registration order that accepts the value renders it.
//
// Formatters must be safe for concurrent use.
type Formatter = internal.Formatter

// FormatterFunc adapts plain functions to the Formatter interface
type FormatterFunc struct {
	name    string
	aliases []string
	accepts func(call *FormatCall) bool
	render  func(call *FormatCall) (string, error)
}

// NewFormatterFunc creates a formatter from functions.
// A nil accepts function accepts only explicit selection by name or alias.
func NewFormatterFunc(name string, accepts func(call *FormatCall) bool, render func(call *FormatCall) (string, error), aliases ...string) *FormatterFunc {
	return &FormatterFunc{
		name:    name,
		aliases: aliases,
		accepts: accepts,
		render:  render,
	}
}

// Name implements Formatter
func (f *FormatterFunc) Name() string {
	return f.name
}

// Aliases implements Formatter
func (f *FormatterFunc) Aliases() []string {
	return f.aliases
}

// Accepts implements Formatter
func (f *FormatterFunc) Accepts(call *FormatCall) bool {
	if f.accepts == nil {
		return call.Explicit()
	}
	return f.accepts(call)
}

// Render implements Formatter
func (f *FormatterFunc) Render(call *FormatCall) (string, error) {
	return f.render(call)
}

// Stringify renders a value the way the default formatter does
func Stringify(value any) string {
	return internal.Stringify(value)
}
