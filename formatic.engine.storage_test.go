package formatic

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func templateNameOf(t *testing.T, err error) string {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	name, _ := customErr.GetMetadata(MetaKeyTemplateName)
	return name
}

func TestEngine_SaveTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("records syntax and placeholders", func(t *testing.T) {
		storage := NewMemoryStorage()
		core, logs := observer.New(zap.DebugLevel)
		engine := MustNew(WithDelimiters('<', '>'), WithLogger(zap.New(core)))

		stored, err := engine.SaveTemplate(ctx, storage, "greet", "Hello <0>, <1>!")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version)
		assert.Equal(t, 2, stored.Placeholders)
		require.NotNil(t, stored.Syntax)
		assert.Equal(t, engine.Settings().Syntax(), *stored.Syntax)
		assert.Equal(t, 1, logs.FilterMessage(LogMsgTemplateSaved).Len())

		again, err := storage.Get(ctx, "greet")
		require.NoError(t, err)
		assert.Equal(t, '<', again.Syntax.PlaceholderOpen)
		assert.Equal(t, "Hello <0>, <1>!", again.Source)
	})

	t.Run("rejects source that does not compile", func(t *testing.T) {
		storage := NewMemoryStorage()

		_, err := MustNew().SaveTemplate(ctx, storage, "broken", "Hi {0")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindUnbalancedDelimiter))

		pos, ok := PositionOf(err)
		require.True(t, ok)
		assert.Equal(t, 3, pos.Offset)
		assert.Equal(t, 1, pos.Line)
		assert.Equal(t, 4, pos.Column)
		assert.Equal(t, "broken", templateNameOf(t, err))

		exists, err := storage.Exists(ctx, "broken")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := MustNew().SaveTemplate(ctx, NewMemoryStorage(), "", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyTemplateName)
	})

	t.Run("storage failure", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Close())

		_, err := MustNew().SaveTemplate(ctx, storage, "x", "{0}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	})
}

func TestEngine_CompileStored(t *testing.T) {
	engine := MustNew()
	angled := MustNew(WithDelimiters('<', '>')).Settings().Syntax()
	literals := MustNew(WithConvertLiterals(true)).Settings().Syntax()

	tests := []struct {
		name     string
		stored   *StoredTemplate
		args     []any
		expected string
	}{
		{
			name:     "no syntax uses engine settings",
			stored:   &StoredTemplate{Name: "a", Source: "Hi {0} <0>"},
			args:     []any{"Ada"},
			expected: "Hi Ada <0>",
		},
		{
			name:     "saved delimiters",
			stored:   &StoredTemplate{Name: "b", Source: "Hi {0} <0>", Syntax: &angled},
			args:     []any{"Ada"},
			expected: "Hi {0} Ada",
		},
		{
			name:     "saved literal conversion",
			stored:   &StoredTemplate{Name: "c", Source: `a\tb {0}`, Syntax: &literals},
			args:     []any{1},
			expected: "a\tb 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := engine.CompileStored(tt.stored)
			require.NoError(t, err)
			result, err := tmpl.Execute(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("invalid syntax", func(t *testing.T) {
		broken := Syntax{PlaceholderOpen: '{', PlaceholderClose: '{'}
		_, err := engine.CompileStored(&StoredTemplate{Name: "d", Source: "x", Syntax: &broken})
		require.Error(t, err)
	})
}

func TestEngine_LoadTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("loads latest versions", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "greet", Source: "Hello {}"}))
		require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "greet", Source: "Hi {}"}))
		require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "bye", Source: "Bye {}"}))

		engine := MustNew()
		engine.MustRegisterTemplate("greet", "old")

		count, err := engine.LoadTemplates(ctx, storage)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"bye", "greet"}, engine.ListTemplates())

		result, err := engine.Format("{0:t:greet}", "Ada")
		require.NoError(t, err)
		assert.Equal(t, "Hi Ada", result)
	})

	t.Run("compiles with the saved syntax", func(t *testing.T) {
		storage := NewMemoryStorage()
		writer := MustNew(WithDelimiters('<', '>'), WithConvertLiterals(true))
		_, err := writer.SaveTemplate(ctx, storage, "row", `<Name>\t<Age>`)
		require.NoError(t, err)

		engine := MustNew()
		count, err := engine.LoadTemplates(ctx, storage)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		result, err := engine.Format("{0:t:row}", person{Name: "Ada", Age: 36})
		require.NoError(t, err)
		assert.Equal(t, "Ada\t36", result)
	})

	t.Run("all or nothing", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "good", Source: "{0}"}))
		require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "bad", Source: "{0"}))

		engine := MustNew()
		_, err := engine.LoadTemplates(ctx, storage)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindUnbalancedDelimiter))
		assert.Equal(t, "bad", templateNameOf(t, err))
		assert.Equal(t, 0, engine.TemplateCount())
	})

	t.Run("storage failure", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Close())

		_, err := MustNew().LoadTemplates(ctx, storage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	})
}

func TestEngine_LoadTemplate(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "greet", Source: "Hello {0}"}))

	engine := MustNew()
	require.NoError(t, engine.LoadTemplate(ctx, storage, "greet"))
	result, err := engine.ExecuteTemplate("greet", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", result)

	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "greet", Source: "Hi {0}"}))
	require.NoError(t, engine.LoadTemplate(ctx, storage, "greet"))
	result, err = engine.ExecuteTemplate("greet", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", result)

	err = engine.LoadTemplate(ctx, storage, "missing")
	assert.True(t, IsTemplateNotFound(err))
}
