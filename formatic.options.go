package formatic

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	settings   Settings
	formatters []Formatter
	sources    []SourceProvider
	cacheSize  int
	logger     *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		settings:  DefaultSettings(),
		cacheSize: DefaultCompileCacheSize,
		logger:    nil,
	}
}

// WithSettings replaces every setting at once.
// Options applied after it still override individual fields.
func WithSettings(settings Settings) Option {
	return func(c *engineConfig) {
		c.settings = settings
	}
}

// WithConvertLiterals enables decoding of \n, \t, \{ and similar sequences.
// Default: false
func WithConvertLiterals(enabled bool) Option {
	return func(c *engineConfig) {
		c.settings.ConvertLiterals = enabled
	}
}

// WithEscapeChar sets the escape character.
// Default: '\'
func WithEscapeChar(char rune) Option {
	return func(c *engineConfig) {
		c.settings.EscapeChar = char
	}
}

// WithDelimiters sets the placeholder open and close characters.
// Zero leaves the current value.
// Default: '{' and '}'
func WithDelimiters(open, close rune) Option {
	return func(c *engineConfig) {
		if open != 0 {
			c.settings.PlaceholderOpen = open
		}
		if close != 0 {
			c.settings.PlaceholderClose = close
		}
	}
}

// WithSegmentDelimiter sets the character splitting a format into segments.
// Default: '|'
func WithSegmentDelimiter(char rune) Option {
	return func(c *engineConfig) {
		c.settings.SegmentDelimiter = char
	}
}

// WithMaxRecursionDepth sets the maximum nesting depth during rendering.
// Use 0 for unlimited depth.
// Default: 100
func WithMaxRecursionDepth(depth int) Option {
	return func(c *engineConfig) {
		c.settings.MaxRecursionDepth = depth
	}
}

// WithMissingSelectorAction sets how unresolved selectors are handled.
// Default: MissingSelectorThrow
func WithMissingSelectorAction(action MissingSelectorAction) Option {
	return func(c *engineConfig) {
		c.settings.MissingSelectorAction = action
	}
}

// WithLanguage sets the BCP-47 language used for plural rules.
// Default: "en"
func WithLanguage(tag string) Option {
	return func(c *engineConfig) {
		c.settings.Language = tag
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithFormatter registers a custom formatter. Custom formatters are tried
// before the built-ins in the order given; a custom formatter whose name
// matches a built-in replaces it.
func WithFormatter(formatter Formatter) Option {
	return func(c *engineConfig) {
		c.formatters = append(c.formatters, formatter)
	}
}

// WithSource adds a source provider consulted before reflection.
// Providers are tried in the order given.
func WithSource(source SourceProvider) Option {
	return func(c *engineConfig) {
		c.sources = append(c.sources, source)
	}
}

// WithCompileCache enables memoisation of compiled templates in Format.
// Use 0 to disable.
// Default: 0
func WithCompileCache(size int) Option {
	return func(c *engineConfig) {
		c.cacheSize = size
	}
}
