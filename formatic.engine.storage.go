package formatic

import (
	"context"

	"go.uber.org/zap"
)

// SaveTemplate compiles source with the engine settings and, when it
// compiles, saves it as the next version of name together with the engine
// Syntax and its placeholder count. A source that does not compile is not
// saved; the returned error carries the fault kind, position and name.
func (e *Engine) SaveTemplate(ctx context.Context, storage TemplateStorage, name, source string) (*StoredTemplate, error) {
	if name == StringValueEmpty {
		return nil, NewEmptyTemplateNameError()
	}
	tmpl, err := e.Compile(source)
	if err != nil {
		return nil, withTemplateName(err, name)
	}

	syntax := e.settings.Syntax()
	stored := &StoredTemplate{
		Name:         name,
		Source:       source,
		Syntax:       &syntax,
		Placeholders: len(tmpl.Placeholders()),
	}
	if err := storage.Save(ctx, stored); err != nil {
		return nil, err
	}

	e.logger.Debug(LogMsgTemplateSaved,
		zap.String(LogFieldName, name),
		zap.Int(LogFieldVersion, stored.Version))
	return stored, nil
}

// CompileStored compiles a stored template with the Syntax it was saved
// with, or with the engine settings when it carries none.
func (e *Engine) CompileStored(stored *StoredTemplate) (*Template, error) {
	if stored.Syntax == nil {
		return e.Compile(stored.Source)
	}
	if err := stored.Syntax.Validate(); err != nil {
		return nil, err
	}
	return e.compileWith(stored.Source, stored.Syntax.compileConfig())
}

// LoadTemplate compiles the newest stored version of name and registers
// it, replacing a registered template of the same name.
func (e *Engine) LoadTemplate(ctx context.Context, storage TemplateStorage, name string) error {
	stored, err := storage.Get(ctx, name)
	if err != nil {
		return err
	}
	tmpl, err := e.CompileStored(stored)
	if err != nil {
		return withTemplateName(err, name)
	}

	e.tmplMu.Lock()
	e.templates[name] = tmpl
	e.tmplMu.Unlock()

	e.logger.Debug(LogMsgTemplateRegistered, zap.String(LogFieldName, name))
	return nil
}

// LoadTemplates compiles the latest version of every stored template and
// registers it, replacing registered templates of the same name.
// Nothing is registered unless every template compiles.
func (e *Engine) LoadTemplates(ctx context.Context, storage TemplateStorage) (int, error) {
	stored, err := storage.List(ctx, nil)
	if err != nil {
		return 0, err
	}

	compiled := make(map[string]*Template, len(stored))
	for _, st := range stored {
		if st.Name == StringValueEmpty {
			return 0, NewEmptyTemplateNameError()
		}
		tmpl, err := e.CompileStored(st)
		if err != nil {
			return 0, withTemplateName(err, st.Name)
		}
		compiled[st.Name] = tmpl
	}

	e.tmplMu.Lock()
	for name, tmpl := range compiled {
		e.templates[name] = tmpl
	}
	e.tmplMu.Unlock()

	e.logger.Debug(LogMsgTemplatesLoaded, zap.Int(LogFieldCount, len(compiled)))
	return len(compiled), nil
}
