package internal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeSummary is a position-free view of a compiled node used for diffs
type nodeSummary struct {
	Kind      string
	Text      string
	Selector  []string
	Align     int
	Formatter string
	Options   string
	Segments  [][]nodeSummary
}

func summarize(tmpl *TemplateNode) []nodeSummary {
	result := make([]nodeSummary, 0, len(tmpl.Children))
	for _, child := range tmpl.Children {
		switch n := child.(type) {
		case *TextNode:
			result = append(result, nodeSummary{Kind: NodeTypeNameText, Text: n.Content})
		case *PlaceholderNode:
			summary := nodeSummary{
				Kind:      NodeTypeNamePlaceholder,
				Selector:  n.Selector,
				Align:     n.Alignment,
				Formatter: n.FormatterName,
				Options:   n.FormatterOptions,
			}
			for _, segment := range n.Segments {
				summary.Segments = append(summary.Segments, summarize(segment))
			}
			result = append(result, summary)
		}
	}
	return result
}

func text(content string) nodeSummary {
	return nodeSummary{Kind: NodeTypeNameText, Text: content}
}

func placeholder(selector ...string) nodeSummary {
	return nodeSummary{Kind: NodeTypeNamePlaceholder, Selector: selector}
}

func compileDefault(t *testing.T, source string) *TemplateNode {
	t.Helper()
	tmpl, err := Compile(source, CompileConfig{Escape: DefaultEscapeConfig(), Parser: DefaultParserConfig()}, nil)
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	return tmpl
}

func TestParser_Structure(t *testing.T) {
	listPlaceholder := placeholder("0")
	listPlaceholder.Formatter = FormatterNameList
	listPlaceholder.Segments = [][]nodeSummary{
		{placeholder()},
		{text(", ")},
		{text(" and ")},
	}

	pluralPlaceholder := placeholder("n")
	pluralPlaceholder.Formatter = FormatterNamePlural
	pluralPlaceholder.Options = "ru"
	pluralPlaceholder.Segments = [][]nodeSummary{{text("a")}, {text("b")}, {text("c")}}

	innerCond := placeholder("y")
	innerCond.Segments = [][]nodeSummary{{text("a")}, {text("b")}}
	nested := placeholder("x")
	nested.Segments = [][]nodeSummary{{innerCond}, {text("c")}}

	scoped := placeholder("User")
	scoped.Segments = [][]nodeSummary{{text("Hi "), placeholder("Name")}}

	commaAligned := placeholder("Name")
	commaAligned.Align = 10
	colonAligned := placeholder("Name")
	colonAligned.Align = -5

	emptyFormat := placeholder("x")
	emptyFormat.Segments = [][]nodeSummary{{}}

	tests := []struct {
		name     string
		input    string
		expected []nodeSummary
	}{
		{
			name:     "plain text",
			input:    "Hello, World!",
			expected: []nodeSummary{text("Hello, World!")},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []nodeSummary{},
		},
		{
			name:     "text around placeholder",
			input:    "Hello {Name}!",
			expected: []nodeSummary{text("Hello "), placeholder("Name"), text("!")},
		},
		{
			name:     "selector path",
			input:    "{a.b[0].c}",
			expected: []nodeSummary{placeholder("a", "b", "0", "c")},
		},
		{
			name:     "empty selector",
			input:    "{}",
			expected: []nodeSummary{placeholder()},
		},
		{
			name:     "list with segments",
			input:    "{0:list:{}|, | and }",
			expected: []nodeSummary{listPlaceholder},
		},
		{
			name:     "formatter options",
			input:    "{n:plural(ru):a|b|c}",
			expected: []nodeSummary{pluralPlaceholder},
		},
		{
			name:     "nested delimiter does not split",
			input:    "{x:{y:a|b}|c}",
			expected: []nodeSummary{nested},
		},
		{
			name:     "nested scope",
			input:    "{User:Hi {Name}}",
			expected: []nodeSummary{scoped},
		},
		{
			name:     "comma alignment",
			input:    "{Name,10}",
			expected: []nodeSummary{commaAligned},
		},
		{
			name:     "colon alignment",
			input:    "{Name:-5}",
			expected: []nodeSummary{colonAligned},
		},
		{
			name:     "empty format",
			input:    "{x:}",
			expected: []nodeSummary{emptyFormat},
		},
		{
			name:     "doubled braces",
			input:    "{{literal}} {x}",
			expected: []nodeSummary{text("{literal} "), placeholder("x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := compileDefault(t, tt.input)
			if diff := cmp.Diff(tt.expected, summarize(tmpl)); diff != "" {
				t.Errorf("compiled template mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_RawText(t *testing.T) {
	tmpl := compileDefault(t, "a {x:list:{}|, } b")
	placeholders := tmpl.Placeholders()
	require.Len(t, placeholders, 1)

	ph := placeholders[0]
	assert.Equal(t, "{x:list:{}|, }", ph.RawText)
	assert.Equal(t, "x", ph.SelectorText)
	assert.Equal(t, 2, ph.Pos().Offset)
	assert.True(t, ph.HasFormat)
	assert.True(t, ph.IsExplicit())
}

func TestParser_EscapedDelimitersAreText(t *testing.T) {
	config := CompileConfig{Escape: DefaultEscapeConfig(), Parser: DefaultParserConfig()}
	config.Escape.ConvertLiterals = true

	tmpl, err := Compile(`\{a\} {b:x\|y|z}`, config, nil)
	require.NoError(t, err)

	cond := placeholder("b")
	cond.Segments = [][]nodeSummary{{text("x|y")}, {text("z")}}
	expected := []nodeSummary{text("{a} "), cond}
	if diff := cmp.Diff(expected, summarize(tmpl)); diff != "" {
		t.Errorf("compiled template mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedKind   ErrorKind
		expectedOffset int
	}{
		{name: "unmatched open", input: "{a", expectedKind: ErrKindUnbalancedDelimiter, expectedOffset: 0},
		{name: "stray close", input: "a}", expectedKind: ErrKindUnbalancedDelimiter, expectedOffset: 1},
		{name: "unclosed outer", input: "x {a:{b}", expectedKind: ErrKindUnbalancedDelimiter, expectedOffset: 2},
		{name: "space in selector", input: "{a b}", expectedKind: ErrKindInvalidSelector, expectedOffset: 2},
		{name: "trailing dot", input: "{a.}", expectedKind: ErrKindInvalidSelector, expectedOffset: 3},
		{name: "open brace in selector", input: "{a{b}}", expectedKind: ErrKindInvalidSelector, expectedOffset: 2},
		{name: "non-integer alignment", input: "{a,x}", expectedKind: ErrKindInvalidAlignment, expectedOffset: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.input, CompileConfig{Escape: DefaultEscapeConfig(), Parser: DefaultParserConfig()}, nil)
			require.Error(t, err)
			assert.Nil(t, tmpl)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.expectedKind, parseErr.Kind)
			assert.Equal(t, tt.expectedOffset, parseErr.Position.Offset)
		})
	}
}

func TestParser_ErrorPositionLineColumn(t *testing.T) {
	_, err := Compile("line one\n  {a", CompileConfig{Escape: DefaultEscapeConfig(), Parser: DefaultParserConfig()}, nil)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 11, parseErr.Position.Offset)
	assert.Equal(t, 2, parseErr.Position.Line)
	assert.Equal(t, 3, parseErr.Position.Column)
	assert.Contains(t, parseErr.Error(), "line 2, column 3")
}

func TestParser_EscapeErrorsSurface(t *testing.T) {
	config := CompileConfig{Escape: DefaultEscapeConfig(), Parser: DefaultParserConfig()}
	config.Escape.ConvertLiterals = true

	_, err := Compile(`{a} \z`, config, nil)
	var escErr *EscapeError
	require.True(t, errors.As(err, &escErr))
	assert.Equal(t, 4, escErr.Position.Offset)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		path     string
		expected []string
		badByte  int
		ok       bool
	}{
		{path: "", expected: nil, ok: true},
		{path: "Name", expected: []string{"Name"}, ok: true},
		{path: "a.b.c", expected: []string{"a", "b", "c"}, ok: true},
		{path: "items[2]", expected: []string{"items", "2"}, ok: true},
		{path: "m[key].x", expected: []string{"m", "key", "x"}, ok: true},
		{path: "first-name_2", expected: []string{"first-name_2"}, ok: true},
		{path: ".a", badByte: 0},
		{path: "a..b", badByte: 2},
		{path: "a[]", badByte: 1},
		{path: "a[1", badByte: 1},
		{path: "a[1]b", badByte: 4},
		{path: "a b", badByte: 1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tokens, badByte, ok := ParseSelector(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, tokens)
			} else {
				assert.Equal(t, tt.badByte, badByte)
			}
		})
	}
}
