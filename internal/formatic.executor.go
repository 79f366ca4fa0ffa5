package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ExecutorConfig holds executor configuration options.
type ExecutorConfig struct {
	MaxDepth         int // Maximum recursion depth (0 = unlimited)
	MissingAction    MissingSelectorAction
	SegmentDelimiter rune
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxDepth:         DefaultMaxDepth,
		MissingAction:    MissingSelectorThrow,
		SegmentDelimiter: DefaultSegmentDelimiter,
	}
}

// TemplateLookup finds named templates for the template formatter.
type TemplateLookup interface {
	LookupTemplate(name string) (*TemplateNode, bool)
}

// Executor walks a compiled template against data and produces output.
// It holds no per-render state, so one executor serves concurrent renders.
type Executor struct {
	registry  *Registry
	source    SourceProvider
	templates TemplateLookup
	config    ExecutorConfig
	logger    *zap.Logger
}

// NewExecutor creates a new executor. templates may be nil.
func NewExecutor(registry *Registry, source SourceProvider, templates TemplateLookup, config ExecutorConfig, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == nil {
		source = ReflectSource{}
	}
	logger.Debug(LogMsgExecutorCreated)

	return &Executor{
		registry:  registry,
		source:    source,
		templates: templates,
		config:    config,
		logger:    logger,
	}
}

// scope is one level of the value chain selectors are resolved against.
// Scopes are created per call and never shared between renders.
type scope struct {
	value    any
	parent   *scope
	args     []any
	root     bool
	index    int
	hasIndex bool
}

func newRootScope(args []any) *scope {
	sc := &scope{args: args, root: true}
	if len(args) > 0 {
		sc.value = args[0]
	}
	return sc
}

// Execute renders the template. args[0] is the default scope and integer
// selectors at the root index into args.
func (e *Executor) Execute(root *TemplateNode, args []any) (string, error) {
	e.logger.Debug(LogMsgExecutorStart)

	result, err := e.executeTemplate(root, newRootScope(args), 0)
	if err != nil {
		return StringValueEmpty, err
	}

	e.logger.Debug(LogMsgExecutorEnd)
	return result, nil
}

// executeTemplate concatenates the output of every child node
func (e *Executor) executeTemplate(t *TemplateNode, sc *scope, depth int) (string, error) {
	var sb strings.Builder

	for _, child := range t.Children {
		switch n := child.(type) {
		case *TextNode:
			sb.WriteString(n.Content)
		case *PlaceholderNode:
			output, err := e.executePlaceholder(n, sc, depth)
			if err != nil {
				return StringValueEmpty, err
			}
			sb.WriteString(output)
		}
	}

	return sb.String(), nil
}

// recurse renders t one level deeper, enforcing the depth limit
func (e *Executor) recurse(t *TemplateNode, sc *scope, depth int, placeholder *PlaceholderNode) (string, error) {
	next := depth + 1
	if e.config.MaxDepth > 0 && next > e.config.MaxDepth {
		e.logger.Debug(LogMsgRecursionLimit,
			zap.Int(LogFieldDepth, next),
			zap.String(LogFieldPlaceholder, placeholder.RawText))
		err := newExecutorError(ErrKindRecursionLimitExceeded, ErrMsgRecursionLimit, placeholder, depth, nil)
		err.Value, err.HasValue = sc.value, true
		return StringValueEmpty, err
	}
	return e.executeTemplate(t, sc, next)
}

// executePlaceholder resolves, dispatches and aligns one placeholder
func (e *Executor) executePlaceholder(placeholder *PlaceholderNode, sc *scope, depth int) (string, error) {
	value, found := e.resolve(placeholder.Selector, sc)
	if !found {
		return e.handleMissing(placeholder, depth)
	}

	call := &FormatCall{
		value:       value,
		placeholder: placeholder,
		executor:    e,
		scope:       sc,
		depth:       depth,
	}

	formatter, err := e.registry.Select(call)
	if err != nil {
		mismatch := newExecutorError(ErrKindFormatterMismatch, ErrMsgFormatterRejected, placeholder, depth, err)
		mismatch.Value, mismatch.HasValue = value, true
		return StringValueEmpty, mismatch
	}
	e.logger.Debug(LogMsgFormatterSelected,
		zap.String(LogFieldFormatter, formatter.Name()),
		zap.Bool(LogFieldExplicit, call.Explicit()))

	output, err := formatter.Render(call)
	if err != nil {
		var execErr *ExecutorError
		if errors.As(err, &execErr) {
			return StringValueEmpty, err
		}
		failed := newExecutorError(ErrKindFormatterFailed, ErrMsgFormatterFailed, placeholder, depth, err)
		failed.Formatter = formatter.Name()
		failed.Value, failed.HasValue = value, true
		return StringValueEmpty, failed
	}

	if placeholder.HasAlignment {
		output = Align(output, placeholder.Alignment)
	}
	return output, nil
}

// resolve walks the selector path. The first token is tried against the
// innermost scope and then outwards; the rest follow the resolved value.
func (e *Executor) resolve(selector []string, sc *scope) (any, bool) {
	if len(selector) == 0 {
		return sc.value, true
	}

	first := selector[0]
	var current any
	found := false

	if first == SelectorIndex {
		for s := sc; s != nil; s = s.parent {
			if s.hasIndex {
				current, found = s.index, true
				break
			}
		}
	}
	for s := sc; s != nil && !found; s = s.parent {
		current, found = e.resolveInScope(s, first)
	}
	if !found {
		return nil, false
	}

	for _, token := range selector[1:] {
		next, ok := e.source.Resolve(current, token)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func (e *Executor) resolveInScope(s *scope, token string) (any, bool) {
	if s.root {
		if n, err := strconv.Atoi(token); err == nil && n >= 0 && n < len(s.args) {
			return s.args[n], true
		}
	}
	return e.source.Resolve(s.value, token)
}

// handleMissing applies the configured missing selector action
func (e *Executor) handleMissing(placeholder *PlaceholderNode, depth int) (string, error) {
	e.logger.Debug(LogMsgSelectorMissing,
		zap.String(LogFieldSelector, placeholder.SelectorText),
		zap.String(LogFieldAction, e.config.MissingAction.String()))

	switch e.config.MissingAction {
	case MissingSelectorEmitEmpty:
		return StringValueEmpty, nil
	case MissingSelectorEchoToken:
		return placeholder.RawText, nil
	default:
		return StringValueEmpty, newExecutorError(ErrKindUnresolvedSelector, ErrMsgSelectorNotFound, placeholder, depth, nil)
	}
}

// Align pads text to the absolute width: positive widths pad on the left,
// negative on the right. Longer text is truncated to the width.
func Align(text string, width int) string {
	if width == 0 {
		return text
	}
	abs := width
	if abs < 0 {
		abs = -abs
	}

	count := utf8.RuneCountInString(text)
	if count >= abs {
		if count == abs {
			return text
		}
		return string([]rune(text)[:abs])
	}

	padding := strings.Repeat(string(CharSpace), abs-count)
	if width > 0 {
		return padding + text
	}
	return text + padding
}

// FormatCall carries one placeholder dispatch: the resolved value, the
// placeholder's format and the means to re-enter the executor.
type FormatCall struct {
	value       any
	placeholder *PlaceholderNode
	executor    *Executor
	scope       *scope
	depth       int
}

// Value returns the resolved placeholder value
func (c *FormatCall) Value() any {
	return c.value
}

// Explicit reports whether the placeholder named a formatter
func (c *FormatCall) Explicit() bool {
	return c.placeholder.IsExplicit()
}

// FormatterName returns the explicit formatter name, if any
func (c *FormatCall) FormatterName() string {
	return c.placeholder.FormatterName
}

// Options returns the text inside name(...)
func (c *FormatCall) Options() string {
	return c.placeholder.FormatterOptions
}

// Placeholder returns the compiled placeholder
func (c *FormatCall) Placeholder() *PlaceholderNode {
	return c.placeholder
}

// HasFormat reports whether the placeholder carried a format part
func (c *FormatCall) HasFormat() bool {
	return c.placeholder.HasFormat
}

// SegmentCount returns the number of format segments
func (c *FormatCall) SegmentCount() int {
	return len(c.placeholder.Segments)
}

// Segment returns format segment i
func (c *FormatCall) Segment(i int) *TemplateNode {
	if i < 0 || i >= len(c.placeholder.Segments) {
		return nil
	}
	return c.placeholder.Segments[i]
}

// SegmentText returns the text of segment i when it holds no placeholders
func (c *FormatCall) SegmentText(i int) (string, bool) {
	segment := c.Segment(i)
	if segment == nil {
		return StringValueEmpty, false
	}
	return segment.LiteralText()
}

// SegmentDelimiter returns the configured segment delimiter
func (c *FormatCall) SegmentDelimiter() rune {
	return c.executor.config.SegmentDelimiter
}

// Depth returns the current recursion depth
func (c *FormatCall) Depth() int {
	return c.depth
}

// Recurse renders segment i with value as the current scope
func (c *FormatCall) Recurse(i int, value any) (string, error) {
	segment := c.Segment(i)
	if segment == nil {
		return StringValueEmpty, c.segmentError(i)
	}
	return c.RecurseTemplate(segment, value)
}

// RecurseIndexed renders segment i with value as the current scope and
// the reserved index selector bound to index
func (c *FormatCall) RecurseIndexed(i int, value any, index int) (string, error) {
	segment := c.Segment(i)
	if segment == nil {
		return StringValueEmpty, c.segmentError(i)
	}
	child := &scope{value: value, parent: c.scope, index: index, hasIndex: true}
	return c.executor.recurse(segment, child, c.depth, c.placeholder)
}

// RecurseTemplate renders any compiled template with value as the current scope
func (c *FormatCall) RecurseTemplate(t *TemplateNode, value any) (string, error) {
	child := &scope{value: value, parent: c.scope}
	return c.executor.recurse(t, child, c.depth, c.placeholder)
}

// LookupTemplate finds a named template registered with the engine
func (c *FormatCall) LookupTemplate(name string) (*TemplateNode, bool) {
	if c.executor.templates == nil {
		return nil, false
	}
	return c.executor.templates.LookupTemplate(name)
}

func (c *FormatCall) segmentError(i int) *ExecutorError {
	err := newExecutorError(ErrKindFormatterFailed, ErrMsgSegmentOutOfRange, c.placeholder, c.depth, nil)
	err.Formatter = c.placeholder.FormatterName
	err.Value, err.HasValue = c.value, true
	return err
}

// ExecutorError represents a run-time fault with placeholder context.
type ExecutorError struct {
	Kind        ErrorKind
	Message     string
	Placeholder string // placeholder raw text
	Selector    string
	Formatter   string
	Value       any
	HasValue    bool
	Depth       int
	Position    Position
	Cause       error
}

func newExecutorError(kind ErrorKind, message string, placeholder *PlaceholderNode, depth int, cause error) *ExecutorError {
	return &ExecutorError{
		Kind:        kind,
		Message:     message,
		Placeholder: placeholder.RawText,
		Selector:    placeholder.SelectorText,
		Formatter:   placeholder.FormatterName,
		Depth:       depth,
		Position:    placeholder.Pos(),
		Cause:       cause,
	}
}

// Error implements the error interface.
func (e *ExecutorError) Error() string {
	result := fmt.Sprintf(ErrFmtWithPlaceholder, e.Message, e.Placeholder)
	result = fmt.Sprintf(ErrFmtWithPosition, result, e.Position)
	if e.Cause != nil {
		result = fmt.Sprintf(ErrFmtWithCause, result, e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *ExecutorError) Unwrap() error {
	return e.Cause
}
