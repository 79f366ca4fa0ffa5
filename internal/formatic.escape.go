package internal

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Position represents a location in the raw template text
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number (in runes)
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// EscapeConfig controls how raw text is turned into an escaped stream
type EscapeConfig struct {
	ConvertLiterals    bool
	EscapeChar         rune
	Open               rune
	Close              rune
	SegmentDelimiter   rune
	FormatterDelimiter rune
}

// DefaultEscapeConfig returns the default escape configuration
func DefaultEscapeConfig() EscapeConfig {
	return EscapeConfig{
		ConvertLiterals:    false,
		EscapeChar:         DefaultEscapeChar,
		Open:               DefaultPlaceholderOpen,
		Close:              DefaultPlaceholderClose,
		SegmentDelimiter:   DefaultSegmentDelimiter,
		FormatterDelimiter: DefaultFormatterDelimiter,
	}
}

// EscapedRune is one character of the escaped stream.
// Literal runes came from an escape sequence and are never structural.
type EscapedRune struct {
	Value   rune
	Literal bool
	Offset  int // byte offset of the originating text in the raw input
}

// EscapedStream is the output of escape processing
type EscapedStream struct {
	Source     string
	Runes      []EscapedRune
	lineStarts []int
}

// Escape converts raw text into an escaped stream.
// With ConvertLiterals disabled every rune passes through as-is.
func Escape(source string, config EscapeConfig, logger *zap.Logger) (*EscapedStream, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stream := &EscapedStream{
		Source:     source,
		Runes:      make([]EscapedRune, 0, len(source)),
		lineStarts: computeLineStarts(source),
	}

	for i := 0; i < len(source); {
		r, size := utf8.DecodeRuneInString(source[i:])
		if !config.ConvertLiterals || r != config.EscapeChar {
			stream.Runes = append(stream.Runes, EscapedRune{Value: r, Offset: i})
			i += size
			continue
		}

		if i+size >= len(source) {
			return nil, &EscapeError{Message: ErrMsgTrailingEscape, Position: stream.PositionAt(i)}
		}
		next, nextSize := utf8.DecodeRuneInString(source[i+size:])
		decoded, ok := config.decode(next)
		if !ok {
			return nil, &EscapeError{
				Message:  ErrMsgIllegalEscape,
				Sequence: string([]rune{r, next}),
				Position: stream.PositionAt(i),
			}
		}
		stream.Runes = append(stream.Runes, EscapedRune{Value: decoded, Literal: true, Offset: i})
		i += size + nextSize
	}

	logger.Debug(LogMsgEscapeComplete,
		zap.Int(LogFieldSource, len(source)),
		zap.Int(LogFieldRunes, len(stream.Runes)))
	return stream, nil
}

// decode maps the character after an escape char to its replacement
func (c EscapeConfig) decode(next rune) (rune, bool) {
	switch next {
	case EscapeLetterNewline:
		return '\n', true
	case EscapeLetterTab:
		return '\t', true
	case EscapeLetterCarriageReturn:
		return '\r', true
	case c.EscapeChar, c.Open, c.Close, c.SegmentDelimiter, c.FormatterDelimiter:
		return next, true
	default:
		return 0, false
	}
}

// PositionAt converts a byte offset in the raw source into a Position
func (s *EscapedStream) PositionAt(offset int) Position {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	})
	start := s.lineStarts[line-1]
	end := offset
	if end > len(s.Source) {
		end = len(s.Source)
	}
	return Position{
		Offset: offset,
		Line:   line,
		Column: utf8.RuneCountInString(s.Source[start:end]) + 1,
	}
}

// RawOffset returns the raw byte offset where stream index i begins.
// Indexes past the end map to the end of the source.
func (s *EscapedStream) RawOffset(i int) int {
	if i >= len(s.Runes) {
		return len(s.Source)
	}
	return s.Runes[i].Offset
}

// Text decodes the runes in [start, end) into a string
func (s *EscapedStream) Text(start, end int) string {
	buf := make([]rune, 0, end-start)
	for i := start; i < end; i++ {
		buf = append(buf, s.Runes[i].Value)
	}
	return string(buf)
}

func computeLineStarts(source string) []int {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == CharNewline {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// EscapeError is raised for an unknown or incomplete escape sequence
type EscapeError struct {
	Message  string
	Sequence string
	Position Position
}

// Error implements the error interface
func (e *EscapeError) Error() string {
	msg := e.Message
	if e.Sequence != StringValueEmpty {
		msg = fmt.Sprintf(ErrFmtNameMessage, e.Message, e.Sequence)
	}
	return fmt.Sprintf(ErrFmtWithPosition, msg, e.Position)
}

// Kind returns the fault kind
func (e *EscapeError) Kind() ErrorKind {
	return ErrKindIllegalEscapeSequence
}
