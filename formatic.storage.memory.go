package formatic

import (
	"context"
	"strings"
)

// MemoryStorage keeps templates in process memory. Useful for tests and
// short-lived tools; nothing survives the process.
type MemoryStorage struct {
	state storageState
	// versions per name, oldest first
	versions map[string][]*StoredTemplate
}

// MemoryStorageDriver opens MemoryStorage; the connection string is ignored.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open implements StorageDriver.
func (d *MemoryStorageDriver) Open(string) (TemplateStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{versions: map[string][]*StoredTemplate{}}
}

// Get returns the newest version of name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	history := s.versions[name]
	if len(history) == 0 {
		return nil, NewTemplateNotFoundError(name)
	}
	return history[len(history)-1].clone(), nil
}

// GetVersion returns one version of name.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	history := s.versions[name]
	if version < 1 || version > len(history) {
		return nil, NewStorageVersionNotFoundError(name, version)
	}
	return history[version-1].clone(), nil
}

// Save appends tmpl as the next version of its name.
func (s *MemoryStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := checkStoredName(tmpl.Name); err != nil {
		return err
	}
	unlock, err := s.state.writing(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	stored, err := stampVersion(tmpl, len(s.versions[tmpl.Name])+1)
	if err != nil {
		return err
	}
	s.versions[tmpl.Name] = append(s.versions[tmpl.Name], stored)
	return nil
}

// Delete removes every version of name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	unlock, err := s.state.writing(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if len(s.versions[name]) == 0 {
		return NewTemplateNotFoundError(name)
	}
	delete(s.versions, name)
	return nil
}

// List returns templates matching query.
func (s *MemoryStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q := query.orZero()
	var matched []*StoredTemplate
	for name, history := range s.versions {
		if !strings.HasPrefix(name, q.NamePrefix) {
			continue
		}
		if !q.IncludeAllVersions {
			history = history[len(history)-1:]
		}
		for _, tmpl := range history {
			matched = append(matched, tmpl.clone())
		}
	}
	return q.page(matched), nil
}

// Exists reports whether name has any version.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	return len(s.versions[name]) > 0, nil
}

// ListVersions returns the version numbers of name, newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	history := s.versions[name]
	numbers := make([]int, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		numbers = append(numbers, history[i].Version)
	}
	return numbers, nil
}

// Close drops all templates; later calls fail with a closed-storage error.
func (s *MemoryStorage) Close() error {
	s.state.shutdown()
	s.state.mu.Lock()
	s.versions = nil
	s.state.mu.Unlock()
	return nil
}
