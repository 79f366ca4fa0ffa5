package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ParserConfig holds the structural characters the parser recognises
type ParserConfig struct {
	Open                   rune
	Close                  rune
	SegmentDelimiter       rune
	FormatterDelimiter     rune
	AlignmentDelimiter     rune
	DoubledDelimiterEscape bool // {{ and }} in top-level text are literal braces
}

// DefaultParserConfig returns the default parser configuration
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Open:                   DefaultPlaceholderOpen,
		Close:                  DefaultPlaceholderClose,
		SegmentDelimiter:       DefaultSegmentDelimiter,
		FormatterDelimiter:     DefaultFormatterDelimiter,
		AlignmentDelimiter:     DefaultAlignmentDelimiter,
		DoubledDelimiterEscape: true,
	}
}

// Parser builds a compiled template from an escaped stream.
// Parsing is all-or-nothing: on error no template is returned.
type Parser struct {
	stream *EscapedStream
	runes  []EscapedRune
	config ParserConfig
	logger *zap.Logger
}

// NewParser creates a new parser for the given escaped stream
func NewParser(stream *EscapedStream, config ParserConfig, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldRunes, len(stream.Runes)))
	return &Parser{
		stream: stream,
		runes:  stream.Runes,
		config: config,
		logger: logger,
	}
}

// Parse produces the compiled template
func (p *Parser) Parse() (*TemplateNode, error) {
	p.logger.Debug(LogMsgParserStart)

	root, err := p.parseRange(0, len(p.runes), false)
	if err != nil {
		return nil, err
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(root.Children)))
	return root, nil
}

// parseRange parses runes [start, end) into a template.
// nested is true for format segments, where doubled braces are not collapsed.
func (p *Parser) parseRange(start, end int, nested bool) (*TemplateNode, error) {
	var children []Node
	var text strings.Builder
	textStart := -1

	addText := func(r rune, at int) {
		if textStart < 0 {
			textStart = at
		}
		text.WriteRune(r)
	}
	flush := func() {
		if textStart < 0 {
			return
		}
		children = append(children, NewTextNode(text.String(), p.positionOf(textStart)))
		text.Reset()
		textStart = -1
	}

	for i := start; i < end; {
		switch {
		case p.is(i, p.config.Open):
			if p.isDoubled(i, end, nested, p.config.Open) {
				addText(p.config.Open, i)
				i += 2
				continue
			}
			closeIdx := p.findClose(i, end)
			if closeIdx < 0 {
				return nil, p.newError(ErrKindUnbalancedDelimiter, ErrMsgUnmatchedOpen, i)
			}
			flush()
			placeholder, err := p.parsePlaceholder(i, closeIdx)
			if err != nil {
				return nil, err
			}
			children = append(children, placeholder)
			i = closeIdx + 1

		case p.is(i, p.config.Close):
			if p.isDoubled(i, end, nested, p.config.Close) {
				addText(p.config.Close, i)
				i += 2
				continue
			}
			return nil, p.newError(ErrKindUnbalancedDelimiter, ErrMsgUnmatchedClose, i)

		default:
			addText(p.runes[i].Value, i)
			i++
		}
	}
	flush()

	source := p.stream.Source[p.stream.RawOffset(start):p.stream.RawOffset(end)]
	return NewTemplateNode(children, source, p.positionOf(start)), nil
}

// parsePlaceholder parses the placeholder whose delimiters sit at open and close
func (p *Parser) parsePlaceholder(open, closeAt int) (*PlaceholderNode, error) {
	node := &PlaceholderNode{
		pos:     p.positionOf(open),
		RawText: p.stream.Source[p.runes[open].Offset : p.runes[closeAt].Offset+utf8.RuneLen(p.runes[closeAt].Value)],
	}

	// Selector runs until the alignment or formatter delimiter
	i := open + 1
	for i < closeAt && !p.is(i, p.config.FormatterDelimiter) && !p.is(i, p.config.AlignmentDelimiter) {
		if p.is(i, p.config.Open) || p.is(i, p.config.Close) || p.runes[i].Literal {
			return nil, p.newError(ErrKindInvalidSelector, ErrMsgInvalidSelector, i)
		}
		i++
	}
	node.SelectorText = p.stream.Text(open+1, i)
	tokens, badByte, ok := ParseSelector(node.SelectorText)
	if !ok {
		return nil, p.newError(ErrKindInvalidSelector, ErrMsgInvalidSelector, open+1+utf8.RuneCountInString(node.SelectorText[:badByte]))
	}
	node.Selector = tokens

	if i < closeAt && p.is(i, p.config.AlignmentDelimiter) {
		alignStart := i + 1
		i = alignStart
		for i < closeAt && !p.is(i, p.config.FormatterDelimiter) {
			i++
		}
		width, err := strconv.Atoi(strings.TrimSpace(p.stream.Text(alignStart, i)))
		if err != nil {
			return nil, p.newError(ErrKindInvalidAlignment, ErrMsgInvalidAlignment, alignStart)
		}
		node.Alignment = width
		node.HasAlignment = true
	}

	if i >= closeAt {
		return node, nil
	}

	// Formatter part: optional name(options) followed by the format
	formatStart := i + 1
	if nameEnd, name, options, found := p.scanFormatterName(formatStart, closeAt); found {
		node.FormatterName = name
		node.FormatterOptions = options
		if nameEnd == closeAt {
			return node, nil
		}
		formatStart = nameEnd + 1
	} else if !node.HasAlignment {
		if width, isWidth := p.colonAlignment(formatStart, closeAt); isWidth {
			node.Alignment = width
			node.HasAlignment = true
			return node, nil
		}
	}

	node.HasFormat = true
	segments, err := p.splitSegments(formatStart, closeAt)
	if err != nil {
		return nil, err
	}
	node.Segments = segments
	return node, nil
}

// scanFormatterName recognises "name:" or "name(options):" at the start of a format.
// "name(options)" may also end the placeholder. It returns the index of the
// terminating formatter delimiter, or end when the placeholder closes.
func (p *Parser) scanFormatterName(start, end int) (int, string, string, bool) {
	j := start
	for j < end && !p.runes[j].Literal && isFormatterNameRune(p.runes[j].Value, j == start) {
		j++
	}
	if j == start {
		return 0, StringValueEmpty, StringValueEmpty, false
	}
	name := p.stream.Text(start, j)

	options := StringValueEmpty
	hasOptions := j < end && p.is(j, CharOptionsOpen)
	if hasOptions {
		depth := 0
		k := j
		for ; k < end; k++ {
			if p.is(k, CharOptionsOpen) {
				depth++
			} else if p.is(k, CharOptionsClose) {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if k >= end {
			return 0, StringValueEmpty, StringValueEmpty, false
		}
		options = p.stream.Text(j+1, k)
		j = k + 1
	}

	if j < end && p.is(j, p.config.FormatterDelimiter) {
		return j, name, options, true
	}
	if hasOptions && j == end {
		return end, name, options, true
	}
	return 0, StringValueEmpty, StringValueEmpty, false
}

// colonAlignment reports whether the whole format is a signed integer width
func (p *Parser) colonAlignment(start, end int) (int, bool) {
	if start >= end {
		return 0, false
	}
	for i := start; i < end; i++ {
		if p.runes[i].Literal {
			return 0, false
		}
	}
	text := p.stream.Text(start, end)
	for i, r := range text {
		if (r == '-' || r == '+') && i == 0 && len(text) > 1 {
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	width, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return width, true
}

// splitSegments splits [start, end) on the segment delimiter at nesting depth 0
// and parses every span as a template.
func (p *Parser) splitSegments(start, end int) ([]*TemplateNode, error) {
	var segments []*TemplateNode
	depth := 0
	segStart := start
	for k := start; k < end; k++ {
		switch {
		case p.is(k, p.config.Open):
			depth++
		case p.is(k, p.config.Close):
			depth--
		case depth == 0 && p.is(k, p.config.SegmentDelimiter):
			segment, err := p.parseRange(segStart, k, true)
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment)
			segStart = k + 1
		}
	}
	segment, err := p.parseRange(segStart, end, true)
	if err != nil {
		return nil, err
	}
	return append(segments, segment), nil
}

// findClose returns the index of the close delimiter matching the open at i, or -1
func (p *Parser) findClose(i, end int) int {
	depth := 0
	for k := i; k < end; k++ {
		if p.is(k, p.config.Open) {
			depth++
		} else if p.is(k, p.config.Close) {
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// is reports whether rune i is the structural character r
func (p *Parser) is(i int, r rune) bool {
	return !p.runes[i].Literal && p.runes[i].Value == r
}

func (p *Parser) isDoubled(i, end int, nested bool, r rune) bool {
	return p.config.DoubledDelimiterEscape && !nested && i+1 < end && p.is(i+1, r)
}

func (p *Parser) positionOf(i int) Position {
	return p.stream.PositionAt(p.stream.RawOffset(i))
}

func (p *Parser) newError(kind ErrorKind, message string, i int) *ParseError {
	return &ParseError{Kind: kind, Message: message, Position: p.positionOf(i)}
}

func isFormatterNameRune(r rune, first bool) bool {
	if first {
		return unicode.IsLetter(r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == CharUnderscore
}

// ParseError represents a compile-time fault with its raw source position
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Position Position
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf(ErrFmtWithPosition, e.Message, e.Position)
}

// CompileConfig bundles escape and parser configuration
type CompileConfig struct {
	Escape EscapeConfig
	Parser ParserConfig
}

// Compile runs escape processing and parsing over raw text
func Compile(source string, config CompileConfig, logger *zap.Logger) (*TemplateNode, error) {
	stream, err := Escape(source, config.Escape, logger)
	if err != nil {
		return nil, err
	}
	return NewParser(stream, config.Parser, logger).Parse()
}
