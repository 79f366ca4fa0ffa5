package formatic

import (
	"github.com/itsatony/go-formatic/internal"
)

// Template is a compiled, immutable template bound to the engine that
// compiled it. A Template is safe for concurrent execution.
type Template struct {
	source string
	root   *internal.TemplateNode
	engine *Engine
}

// Execute renders the template. args[0] is the root value for bare
// selectors; numeric selectors such as {1} index into args.
func (t *Template) Execute(args ...any) (string, error) {
	return t.engine.Render(t, args...)
}

// Source returns the raw text the template was compiled from
func (t *Template) Source() string {
	return t.source
}

// Placeholders returns the raw text of each top-level placeholder in order
func (t *Template) Placeholders() []string {
	nodes := t.root.Placeholders()
	result := make([]string, len(nodes))
	for i, node := range nodes {
		result[i] = node.RawText
	}
	return result
}
