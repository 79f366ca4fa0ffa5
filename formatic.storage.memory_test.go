package formatic

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_Save(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	t.Run("saves new template", func(t *testing.T) {
		tmpl := &StoredTemplate{Name: "greeting", Source: "Hello {Name}", Placeholders: 1}

		require.NoError(t, storage.Save(ctx, tmpl))
		assert.True(t, strings.HasPrefix(string(tmpl.ID), "tmpl_"))
		assert.Equal(t, 1, tmpl.Version)
		assert.False(t, tmpl.SavedAt.IsZero())
		assert.Equal(t, time.UTC, tmpl.SavedAt.Location())
	})

	t.Run("creates new version for existing template", func(t *testing.T) {
		for want := 1; want <= 3; want++ {
			tmpl := &StoredTemplate{Name: "versioned", Source: "v"}
			require.NoError(t, storage.Save(ctx, tmpl))
			assert.Equal(t, want, tmpl.Version)
		}

		versions, err := storage.ListVersions(ctx, "versioned")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, versions)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		err := storage.Save(ctx, &StoredTemplate{Source: "x"})
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgInvalidTemplateName, storageErr.Message)
	})

	t.Run("stored copy is isolated from caller", func(t *testing.T) {
		syntax := DefaultSettings().Syntax()
		saved := &StoredTemplate{Name: "isolated", Source: "x", Syntax: &syntax}
		require.NoError(t, storage.Save(ctx, saved))
		syntax.EscapeChar = '~'
		saved.Source = "mutated"

		got, err := storage.Get(ctx, "isolated")
		require.NoError(t, err)
		assert.Equal(t, "x", got.Source)
		require.NotNil(t, got.Syntax)
		assert.Equal(t, DefaultEscapeChar, got.Syntax.EscapeChar)

		got.Syntax.EscapeChar = '~'
		again, err := storage.Get(ctx, "isolated")
		require.NoError(t, err)
		assert.Equal(t, DefaultEscapeChar, again.Syntax.EscapeChar)
	})
}

func TestMemoryStorage_Get(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))
	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))

	latest, err := storage.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.Source)
	assert.Equal(t, 2, latest.Version)

	first, err := storage.GetVersion(ctx, "t", 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Source)

	_, err = storage.GetVersion(ctx, "t", 9)
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, ErrMsgVersionNotFound, storageErr.Message)

	_, err = storage.Get(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)
}

func TestMemoryStorage_List(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	for _, tmpl := range []*StoredTemplate{
		{Name: "mail.welcome", Source: "1"},
		{Name: "mail.welcome", Source: "2"},
		{Name: "mail.reset", Source: "3"},
		{Name: "sms.code", Source: "4"},
	} {
		require.NoError(t, storage.Save(ctx, tmpl))
	}

	names := func(results []*StoredTemplate) []string {
		out := make([]string, len(results))
		for i, r := range results {
			out[i] = r.Name + "@" + r.Source
		}
		return out
	}

	tests := []struct {
		name     string
		query    *TemplateQuery
		expected []string
	}{
		{name: "nil query returns latest", query: nil, expected: []string{"mail.reset@3", "mail.welcome@2", "sms.code@4"}},
		{name: "prefix", query: &TemplateQuery{NamePrefix: "mail."}, expected: []string{"mail.reset@3", "mail.welcome@2"}},
		{name: "prefix without match", query: &TemplateQuery{NamePrefix: "push."}, expected: []string{}},
		{name: "all versions", query: &TemplateQuery{NamePrefix: "mail.w", IncludeAllVersions: true}, expected: []string{"mail.welcome@2", "mail.welcome@1"}},
		{name: "limit and offset", query: &TemplateQuery{Offset: 1, Limit: 1}, expected: []string{"mail.welcome@2"}},
		{name: "offset past end", query: &TemplateQuery{Offset: 10}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := storage.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(results))
		})
	}
}

func TestMemoryStorage_DeleteAndExists(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, storage.Save(ctx, &StoredTemplate{Name: "gone", Source: "x"}))

	exists, err := storage.Exists(ctx, "gone")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.Delete(ctx, "gone"))
	exists, err = storage.Exists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)

	err = storage.Delete(ctx, "gone")
	assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)

	versions, err := storage.ListVersions(ctx, "gone")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestMemoryStorage_ClosedAndCancelled(t *testing.T) {
	ctx := context.Background()

	t.Run("closed", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Close())

		_, err := storage.Get(ctx, "x")
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
		err = storage.Save(ctx, &StoredTemplate{Name: "x"})
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
		_, err = storage.Exists(ctx, "x")
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		storage := NewMemoryStorage()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := storage.List(cancelled, nil)
		assert.ErrorIs(t, err, context.Canceled)
		err = storage.Save(cancelled, &StoredTemplate{Name: "x"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStorage_ConcurrentSaves(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = storage.Save(ctx, &StoredTemplate{Name: "shared", Source: "x"})
		}()
	}
	wg.Wait()

	versions, err := storage.ListVersions(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, versions, 20)
	assert.Equal(t, 20, versions[0])
}

func TestOpenStorage(t *testing.T) {
	assert.Equal(t, []string{StorageDriverNameFilesystem, StorageDriverNameMemory, StorageDriverNamePostgres}, ListStorageDrivers())

	storage, err := OpenStorage(StorageDriverNameMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, storage)

	_, err = OpenStorage("nosql", "")
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, ErrMsgStorageDriverNotFound, storageErr.Message)

	assert.Panics(t, func() { RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{}) })
	assert.Panics(t, func() { RegisterStorageDriver("nil", nil) })
}
