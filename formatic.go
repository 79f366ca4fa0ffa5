// Package formatic compiles and renders composite format strings.
//
// A format string holds literal text and placeholders delimited by { and }:
//
//	engine := formatic.MustNew()
//	result, err := engine.Format("Hello {Name}, you have {Count:plural:one message|{} messages}", user)
//
// # Placeholders
//
// A placeholder is {selector[,alignment][:formatter[(options)]:format]}.
//
//   - selector: a dotted path resolved against the current value, such as
//     {Address.City}. A leading integer at the root indexes the arguments,
//     so {1} is the second argument. An empty selector is the current value.
//   - alignment: a signed width; positive pads left, negative pads right.
//   - formatter: an optional name picking a formatter explicitly.
//   - format: text split on | into segments, each itself a nested template.
//
// Selectors inside a nested format resolve against the value being formatted
// first and fall back to outer scopes.
//
// # Built-in Formatters
//
// list (l) joins sequences:
//
//	{Items:list:{Name}|, | and }
//
// plural (p) picks a segment by the plural rules of the engine language:
//
//	{Count:plural:one item|{} items}
//
// conditional (cond) picks a segment by value, or by numeric conditions:
//
//	{Age:cond:>=18?adult|minor}
//
// choose (c) matches the value against option keys:
//
//	{Gender:choose(m|f):Mr|Ms}
//
// substr extracts runes, template (t) renders a named template and
// default (d) renders anything, applying %-verbs when the format starts with %.
//
// # Custom Formatters
//
// Implement Formatter or use NewFormatterFunc and register it with
// WithFormatter. Custom formatters are consulted before the built-ins.
//
// # Errors
//
// Compile and render errors are *cuserr.CustomError values carrying an
// ErrorKind; use KindOf, IsKind and PositionOf to inspect them.
//
// # Thread Safety
//
// Engine and Template are safe for concurrent use. Named templates and the
// compile cache are guarded internally.
package formatic
