package formatic

import (
	"encoding/json"

	"github.com/itsatony/go-formatic/internal"
)

// Syntax is the part of Settings that decides how source text compiles:
// escape handling and the structural delimiters. Stored templates carry the
// Syntax they were written for so they compile the same way on any engine.
type Syntax struct {
	ConvertLiterals        bool
	EscapeChar             rune
	PlaceholderOpen        rune
	PlaceholderClose       rune
	SegmentDelimiter       rune
	FormatterDelimiter     rune
	AlignmentDelimiter     rune
	DoubledDelimiterEscape bool
}

// Syntax returns the compile-relevant subset of s
func (s Settings) Syntax() Syntax {
	return Syntax{
		ConvertLiterals:        s.ConvertLiterals,
		EscapeChar:             s.EscapeChar,
		PlaceholderOpen:        s.PlaceholderOpen,
		PlaceholderClose:       s.PlaceholderClose,
		SegmentDelimiter:       s.SegmentDelimiter,
		FormatterDelimiter:     s.FormatterDelimiter,
		AlignmentDelimiter:     s.AlignmentDelimiter,
		DoubledDelimiterEscape: s.DoubledDelimiterEscape,
	}
}

// WithSyntax returns a copy of s using the escape and delimiter settings of x
func (s Settings) WithSyntax(x Syntax) Settings {
	s.ConvertLiterals = x.ConvertLiterals
	s.EscapeChar = x.EscapeChar
	s.PlaceholderOpen = x.PlaceholderOpen
	s.PlaceholderClose = x.PlaceholderClose
	s.SegmentDelimiter = x.SegmentDelimiter
	s.FormatterDelimiter = x.FormatterDelimiter
	s.AlignmentDelimiter = x.AlignmentDelimiter
	s.DoubledDelimiterEscape = x.DoubledDelimiterEscape
	return s
}

// Validate applies the delimiter and escape rules of Settings.Validate
func (x Syntax) Validate() error {
	return DefaultSettings().WithSyntax(x).Validate()
}

func (x Syntax) compileConfig() internal.CompileConfig {
	return internal.CompileConfig{
		Escape: internal.EscapeConfig{
			ConvertLiterals:    x.ConvertLiterals,
			EscapeChar:         x.EscapeChar,
			Open:               x.PlaceholderOpen,
			Close:              x.PlaceholderClose,
			SegmentDelimiter:   x.SegmentDelimiter,
			FormatterDelimiter: x.FormatterDelimiter,
		},
		Parser: internal.ParserConfig{
			Open:                   x.PlaceholderOpen,
			Close:                  x.PlaceholderClose,
			SegmentDelimiter:       x.SegmentDelimiter,
			FormatterDelimiter:     x.FormatterDelimiter,
			AlignmentDelimiter:     x.AlignmentDelimiter,
			DoubledDelimiterEscape: x.DoubledDelimiterEscape,
		},
	}
}

// syntaxDocument is the persisted form of Syntax; characters are strings
// so stored files stay readable
type syntaxDocument struct {
	ConvertLiterals        bool   `json:"convert_literals"`
	EscapeChar             string `json:"escape_char"`
	PlaceholderOpen        string `json:"placeholder_open"`
	PlaceholderClose       string `json:"placeholder_close"`
	SegmentDelimiter       string `json:"segment_delimiter"`
	FormatterDelimiter     string `json:"formatter_delimiter"`
	AlignmentDelimiter     string `json:"alignment_delimiter"`
	DoubledDelimiterEscape bool   `json:"doubled_delimiter_escape"`
}

// MarshalJSON implements json.Marshaler
func (x Syntax) MarshalJSON() ([]byte, error) {
	return json.Marshal(syntaxDocument{
		ConvertLiterals:        x.ConvertLiterals,
		EscapeChar:             string(x.EscapeChar),
		PlaceholderOpen:        string(x.PlaceholderOpen),
		PlaceholderClose:       string(x.PlaceholderClose),
		SegmentDelimiter:       string(x.SegmentDelimiter),
		FormatterDelimiter:     string(x.FormatterDelimiter),
		AlignmentDelimiter:     string(x.AlignmentDelimiter),
		DoubledDelimiterEscape: x.DoubledDelimiterEscape,
	})
}

// UnmarshalJSON implements json.Unmarshaler; every character must be a
// single rune and the result must validate
func (x *Syntax) UnmarshalJSON(data []byte) error {
	doc := syntaxDocument{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	settings, err := settingsDocument{
		ConvertLiterals:        doc.ConvertLiterals,
		EscapeChar:             doc.EscapeChar,
		PlaceholderOpen:        doc.PlaceholderOpen,
		PlaceholderClose:       doc.PlaceholderClose,
		SegmentDelimiter:       doc.SegmentDelimiter,
		FormatterDelimiter:     doc.FormatterDelimiter,
		AlignmentDelimiter:     doc.AlignmentDelimiter,
		DoubledDelimiterEscape: doc.DoubledDelimiterEscape,
		MaxRecursionDepth:      DefaultMaxRecursionDepth,
		MissingSelectorAction:  MissingSelectorNameThrow,
		Language:               DefaultLanguage,
	}.settings()
	if err != nil {
		return err
	}
	*x = settings.Syntax()
	return nil
}
