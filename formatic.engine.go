package formatic

import (
	"sort"
	"strconv"
	"sync"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-formatic/internal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Engine compiles and renders format strings.
// It owns the settings, the formatter registry, named templates and the
// optional compile cache. An Engine is safe for concurrent use.
type Engine struct {
	settings      Settings
	compileConfig internal.CompileConfig
	registry      *internal.Registry
	executor      *internal.Executor
	templates     map[string]*Template // Named templates for the template formatter
	tmplMu        sync.RWMutex         // Protects templates map
	cache         *compileCache        // nil when disabled
	logger        *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := config.settings.Validate(); err != nil {
		return nil, err
	}
	if config.cacheSize < 0 {
		return nil, NewConfigError(ErrMsgInvalidCacheSize, settingCompileCacheSize, strconv.Itoa(config.cacheSize))
	}
	tag, err := language.Parse(config.settings.Language)
	if err != nil {
		return nil, NewConfigError(ErrMsgInvalidLanguage, settingLanguage, config.settings.Language)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := internal.NewRegistry(logger)
	for _, formatter := range config.formatters {
		if err := registry.Register(formatter); err != nil {
			name := StringValueEmpty
			if formatter != nil {
				name = formatter.Name()
			}
			return nil, NewFormatterRegistrationError(name, err)
		}
	}
	internal.RegisterBuiltins(registry, internal.BuiltinConfig{Language: tag}, logger)
	registry.Freeze()

	s := config.settings
	engine := &Engine{
		settings:      s,
		compileConfig: s.Syntax().compileConfig(),
		registry:      registry,
		templates:     make(map[string]*Template),
		logger:        logger,
	}
	if config.cacheSize > 0 {
		engine.cache = newCompileCache(config.cacheSize, logger)
	}

	var source internal.SourceProvider
	if len(config.sources) > 0 {
		chain := make(internal.SourceChain, 0, len(config.sources)+1)
		chain = append(chain, config.sources...)
		source = append(chain, internal.ReflectSource{})
	}

	executorConfig := internal.ExecutorConfig{
		MaxDepth:         s.MaxRecursionDepth,
		MissingAction:    internal.MissingSelectorAction(s.MissingSelectorAction),
		SegmentDelimiter: s.SegmentDelimiter,
	}
	engine.executor = internal.NewExecutor(registry, source, templateLookup{engine: engine}, executorConfig, logger)

	logger.Debug(LogMsgEngineCreated,
		zap.Strings(LogFieldFormatters, registry.List()),
		zap.String(LogFieldLanguage, tag.String()),
		zap.Int(LogFieldCacheSize, config.cacheSize))

	return engine, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Settings returns a copy of the engine settings
func (e *Engine) Settings() Settings {
	return e.settings
}

// Formatters returns the registered formatter names in dispatch order
func (e *Engine) Formatters() []string {
	return e.registry.List()
}

// Compile escapes and parses raw text into a reusable Template.
// Compilation is all-or-nothing: on error no template is returned.
func (e *Engine) Compile(source string) (*Template, error) {
	return e.compileWith(source, e.compileConfig)
}

func (e *Engine) compileWith(source string, config internal.CompileConfig) (*Template, error) {
	root, err := internal.Compile(source, config, e.logger)
	if err != nil {
		return nil, convertCompileError(err)
	}

	e.logger.Debug(LogMsgTemplateCompiled, zap.Int(LogFieldSourceLen, len(source)))
	return &Template{source: source, root: root, engine: e}, nil
}

// MustCompile compiles a template and panics on error.
func (e *Engine) MustCompile(source string) *Template {
	tmpl, err := e.Compile(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Render executes a compiled template against args.
func (e *Engine) Render(tmpl *Template, args ...any) (string, error) {
	if tmpl == nil || tmpl.root == nil {
		return StringValueEmpty, cuserr.NewValidationError(ErrCodeExec, ErrMsgNilTemplate)
	}
	if tmpl.engine != e {
		return StringValueEmpty, cuserr.NewValidationError(ErrCodeExec, ErrMsgForeignEngine)
	}

	result, err := e.executor.Execute(tmpl.root, args)
	if err != nil {
		return StringValueEmpty, convertExecError(err)
	}
	return result, nil
}

// Format compiles and renders raw text in one step.
// With WithCompileCache the compiled form is reused for identical text.
func (e *Engine) Format(source string, args ...any) (string, error) {
	tmpl, err := e.compileCached(source)
	if err != nil {
		return StringValueEmpty, err
	}
	return e.Render(tmpl, args...)
}

func (e *Engine) compileCached(source string) (*Template, error) {
	if e.cache == nil {
		return e.Compile(source)
	}
	if tmpl, ok := e.cache.get(source); ok {
		e.logger.Debug(LogMsgCacheHit, zap.Int(LogFieldSourceLen, len(source)))
		return tmpl, nil
	}

	tmpl, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	e.cache.put(source, tmpl)
	return tmpl, nil
}

// RegisterTemplate compiles and registers a named template for the
// template formatter, as in {Address:t:address}.
// Returns an error if a template with the same name already exists.
func (e *Engine) RegisterTemplate(name string, source string) error {
	if name == StringValueEmpty {
		return NewEmptyTemplateNameError()
	}

	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		return NewTemplateExistsError(name)
	}

	tmpl, err := e.Compile(source)
	if err != nil {
		return err
	}

	e.templates[name] = tmpl
	e.logger.Debug(LogMsgTemplateRegistered, zap.String(LogFieldName, name))
	return nil
}

// MustRegisterTemplate registers a template and panics on error.
func (e *Engine) MustRegisterTemplate(name string, source string) {
	if err := e.RegisterTemplate(name, source); err != nil {
		panic(err)
	}
}

// UnregisterTemplate removes a registered template by name.
// Returns true if the template existed and was removed, false otherwise.
func (e *Engine) UnregisterTemplate(name string) bool {
	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		delete(e.templates, name)
		e.logger.Debug(LogMsgTemplateRemoved, zap.String(LogFieldName, name))
		return true
	}
	return false
}

// GetTemplate retrieves a registered template by name.
func (e *Engine) GetTemplate(name string) (*Template, bool) {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	tmpl, ok := e.templates[name]
	return tmpl, ok
}

// HasTemplate checks if a template is registered with the given name.
func (e *Engine) HasTemplate(name string) bool {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	_, ok := e.templates[name]
	return ok
}

// ListTemplates returns all registered template names in sorted order.
func (e *Engine) ListTemplates() []string {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Engine) TemplateCount() int {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	return len(e.templates)
}

// ExecuteTemplate renders a registered template by name.
func (e *Engine) ExecuteTemplate(name string, args ...any) (string, error) {
	tmpl, ok := e.GetTemplate(name)
	if !ok {
		return StringValueEmpty, NewTemplateNotFoundError(name)
	}
	return e.Render(tmpl, args...)
}

// templateLookup exposes named templates to the template formatter
type templateLookup struct {
	engine *Engine
}

// LookupTemplate implements internal.TemplateLookup
func (l templateLookup) LookupTemplate(name string) (*internal.TemplateNode, bool) {
	tmpl, ok := l.engine.GetTemplate(name)
	if !ok {
		return nil, false
	}
	return tmpl.root, true
}
