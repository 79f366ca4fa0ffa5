package formatic

import (
	"github.com/itsatony/go-formatic/internal"
)

// SourceProvider resolves one selector token against a value.
// Providers added with WithSource are consulted in order before the
// built-in reflective source, which handles maps, exported struct fields,
// zero-argument methods and sequence indexes.
type SourceProvider = internal.SourceProvider

// SourceFunc adapts a function to the SourceProvider interface
type SourceFunc func(value any, selector string) (any, bool)

// Resolve implements SourceProvider
func (f SourceFunc) Resolve(value any, selector string) (any, bool) {
	return f(value, selector)
}
