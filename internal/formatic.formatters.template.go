package internal

import (
	"strings"
)

// TemplateFormatter renders a named template registered on the engine with
// the value as the current scope: {Address:t:addressLine} or
// {Address:template(addressLine):}.
type TemplateFormatter struct{}

// NewTemplateFormatter creates a new TemplateFormatter
func NewTemplateFormatter() *TemplateFormatter {
	return &TemplateFormatter{}
}

// Name returns the formatter name
func (f *TemplateFormatter) Name() string {
	return FormatterNameTemplate
}

// Aliases returns the formatter aliases
func (f *TemplateFormatter) Aliases() []string {
	return []string{FormatterAliasTemplate}
}

// Accepts any value when named
func (f *TemplateFormatter) Accepts(call *FormatCall) bool {
	return call.Explicit()
}

// Render renders the named template
func (f *TemplateFormatter) Render(call *FormatCall) (string, error) {
	name := strings.TrimSpace(call.Options())
	if name == StringValueEmpty {
		text, _ := call.SegmentText(0)
		name = strings.TrimSpace(text)
	}
	if name == StringValueEmpty {
		return StringValueEmpty, NewFormatterError(ErrMsgTemplateNameMissing, FormatterNameTemplate, StringValueEmpty)
	}

	tmpl, ok := call.LookupTemplate(name)
	if !ok {
		return StringValueEmpty, NewFormatterError(ErrMsgTemplateNotFound, FormatterNameTemplate, name)
	}
	return call.RecurseTemplate(tmpl, call.Value())
}
