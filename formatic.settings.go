package formatic

import (
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/caarlos0/env/v10"
	"github.com/itsatony/go-cuserr"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings controls escape processing, placeholder syntax and execution.
// Settings are copied into the engine at construction and never change after.
type Settings struct {
	// ConvertLiterals decodes escape sequences such as \n, \t and \{.
	// Enable it for templates read from files; Go string literals are
	// already decoded by the compiler.
	ConvertLiterals bool

	EscapeChar         rune
	PlaceholderOpen    rune
	PlaceholderClose   rune
	SegmentDelimiter   rune
	FormatterDelimiter rune
	AlignmentDelimiter rune

	// DoubledDelimiterEscape renders {{ and }} in top-level text as single braces
	DoubledDelimiterEscape bool

	// MaxRecursionDepth bounds nested rendering; 0 means unlimited
	MaxRecursionDepth int

	MissingSelectorAction MissingSelectorAction

	// Language is the BCP-47 tag used for plural rules
	Language string
}

// DefaultSettings returns the default settings
func DefaultSettings() Settings {
	return Settings{
		ConvertLiterals:        false,
		EscapeChar:             DefaultEscapeChar,
		PlaceholderOpen:        DefaultPlaceholderOpen,
		PlaceholderClose:       DefaultPlaceholderClose,
		SegmentDelimiter:       DefaultSegmentDelimiter,
		FormatterDelimiter:     DefaultFormatterDelimiter,
		AlignmentDelimiter:     DefaultAlignmentDelimiter,
		DoubledDelimiterEscape: true,
		MaxRecursionDepth:      DefaultMaxRecursionDepth,
		MissingSelectorAction:  MissingSelectorThrow,
		Language:               DefaultLanguage,
	}
}

// Settings field names used in validation metadata
const (
	settingEscapeChar         = "escape_char"
	settingPlaceholderOpen    = "placeholder_open"
	settingPlaceholderClose   = "placeholder_close"
	settingSegmentDelimiter   = "segment_delimiter"
	settingFormatterDelimiter = "formatter_delimiter"
	settingAlignmentDelimiter = "alignment_delimiter"
	settingMaxRecursionDepth  = "max_recursion_depth"
	settingLanguage           = "language"
	settingCompileCacheSize   = "compile_cache_size"
)

// Validate checks that delimiters are distinct, the escape char is usable,
// the depth is non-negative and the language parses.
func (s Settings) Validate() error {
	delimiters := []struct {
		field string
		value rune
	}{
		{settingPlaceholderOpen, s.PlaceholderOpen},
		{settingPlaceholderClose, s.PlaceholderClose},
		{settingSegmentDelimiter, s.SegmentDelimiter},
		{settingFormatterDelimiter, s.FormatterDelimiter},
		{settingAlignmentDelimiter, s.AlignmentDelimiter},
	}

	seen := make(map[rune]bool, len(delimiters))
	for _, d := range delimiters {
		if d.value == 0 || seen[d.value] {
			return NewConfigError(ErrMsgInvalidDelimiter, d.field, string(d.value))
		}
		seen[d.value] = true
	}
	if s.EscapeChar == 0 || seen[s.EscapeChar] {
		return NewConfigError(ErrMsgInvalidEscapeChar, settingEscapeChar, string(s.EscapeChar))
	}
	if s.MaxRecursionDepth < 0 {
		return NewConfigError(ErrMsgInvalidMaxDepth, settingMaxRecursionDepth, strconv.Itoa(s.MaxRecursionDepth))
	}
	if _, err := language.Parse(s.Language); err != nil {
		return NewConfigError(ErrMsgInvalidLanguage, settingLanguage, s.Language)
	}
	return nil
}

// settingsDocument is the file and environment representation of Settings
type settingsDocument struct {
	ConvertLiterals        bool   `yaml:"convert_literals" env:"CONVERT_LITERALS"`
	EscapeChar             string `yaml:"escape_char" env:"ESCAPE_CHAR"`
	PlaceholderOpen        string `yaml:"placeholder_open" env:"PLACEHOLDER_OPEN"`
	PlaceholderClose       string `yaml:"placeholder_close" env:"PLACEHOLDER_CLOSE"`
	SegmentDelimiter       string `yaml:"segment_delimiter" env:"SEGMENT_DELIMITER"`
	FormatterDelimiter     string `yaml:"formatter_delimiter" env:"FORMATTER_DELIMITER"`
	AlignmentDelimiter     string `yaml:"alignment_delimiter" env:"ALIGNMENT_DELIMITER"`
	DoubledDelimiterEscape bool   `yaml:"doubled_delimiter_escape" env:"DOUBLED_DELIMITER_ESCAPE"`
	MaxRecursionDepth      int    `yaml:"max_recursion_depth" env:"MAX_RECURSION_DEPTH"`
	MissingSelectorAction  string `yaml:"missing_selector_action" env:"MISSING_SELECTOR_ACTION"`
	Language               string `yaml:"language" env:"LANGUAGE"`
}

func newSettingsDocument(s Settings) settingsDocument {
	return settingsDocument{
		ConvertLiterals:        s.ConvertLiterals,
		EscapeChar:             string(s.EscapeChar),
		PlaceholderOpen:        string(s.PlaceholderOpen),
		PlaceholderClose:       string(s.PlaceholderClose),
		SegmentDelimiter:       string(s.SegmentDelimiter),
		FormatterDelimiter:     string(s.FormatterDelimiter),
		AlignmentDelimiter:     string(s.AlignmentDelimiter),
		DoubledDelimiterEscape: s.DoubledDelimiterEscape,
		MaxRecursionDepth:      s.MaxRecursionDepth,
		MissingSelectorAction:  s.MissingSelectorAction.String(),
		Language:               s.Language,
	}
}

// settings converts the document back, rejecting multi-character delimiters
func (d settingsDocument) settings() (Settings, error) {
	s := Settings{
		ConvertLiterals:        d.ConvertLiterals,
		DoubledDelimiterEscape: d.DoubledDelimiterEscape,
		MaxRecursionDepth:      d.MaxRecursionDepth,
		Language:               d.Language,
	}

	chars := []struct {
		field  string
		value  string
		target *rune
	}{
		{settingEscapeChar, d.EscapeChar, &s.EscapeChar},
		{settingPlaceholderOpen, d.PlaceholderOpen, &s.PlaceholderOpen},
		{settingPlaceholderClose, d.PlaceholderClose, &s.PlaceholderClose},
		{settingSegmentDelimiter, d.SegmentDelimiter, &s.SegmentDelimiter},
		{settingFormatterDelimiter, d.FormatterDelimiter, &s.FormatterDelimiter},
		{settingAlignmentDelimiter, d.AlignmentDelimiter, &s.AlignmentDelimiter},
	}
	for _, c := range chars {
		r, size := utf8.DecodeRuneInString(c.value)
		if r == utf8.RuneError || size != len(c.value) {
			return Settings{}, NewConfigError(ErrMsgInvalidCharSetting, c.field, c.value)
		}
		*c.target = r
	}

	action, err := ParseMissingSelectorAction(d.MissingSelectorAction)
	if err != nil {
		return Settings{}, err
	}
	s.MissingSelectorAction = action
	return s, s.Validate()
}

// LoadSettingsFile reads settings from a YAML file on top of the defaults
func LoadSettingsFile(path string) (Settings, error) {
	return DefaultSettings().WithFile(path)
}

// LoadSettingsEnv reads FORMATIC_ prefixed environment variables on top of the defaults
func LoadSettingsEnv() (Settings, error) {
	return DefaultSettings().WithEnv(nil)
}

// WithFile returns a copy of s overridden by the keys present in a YAML file
func (s Settings) WithFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgSettingsFileRead).
			WithMetadata(MetaKeyPath, path)
	}
	result, err := s.WithYAML(data)
	if err != nil {
		return Settings{}, err
	}
	return result, nil
}

// WithYAML returns a copy of s overridden by the keys present in a YAML document
func (s Settings) WithYAML(data []byte) (Settings, error) {
	doc := newSettingsDocument(s)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgSettingsFileParse)
	}
	return doc.settings()
}

// WithEnv returns a copy of s overridden by FORMATIC_ prefixed variables.
// A nil environment reads the process environment.
func (s Settings) WithEnv(environment map[string]string) (Settings, error) {
	doc := newSettingsDocument(s)
	opts := env.Options{Prefix: EnvPrefix, Environment: environment}
	if err := env.ParseWithOptions(&doc, opts); err != nil {
		return Settings{}, cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgSettingsEnvParse)
	}
	return doc.settings()
}
