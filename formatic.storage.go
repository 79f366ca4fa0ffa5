package formatic

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TemplateID identifies one saved version, for example "tmpl_6ByTSYmGzT2c".
type TemplateID string

// StoredTemplate is one saved version of a named format string.
// Versions are immutable once saved; saving the same name again adds a version.
type StoredTemplate struct {
	ID      TemplateID `json:"id"`
	Name    string     `json:"name"`
	Version int        `json:"version"`

	// Source is the raw format string as written.
	Source string `json:"source"`

	// Syntax is the escape and delimiter configuration Source was written
	// for. Nil compiles Source with the settings of the loading engine.
	Syntax *Syntax `json:"syntax,omitempty"`

	// Placeholders is the number of top-level placeholders, recorded by
	// Engine.SaveTemplate after a successful compile.
	Placeholders int `json:"placeholders"`

	SavedAt time.Time `json:"saved_at"`
}

// TemplateQuery selects stored templates. The zero value selects the latest
// version of every name.
type TemplateQuery struct {
	NamePrefix         string
	IncludeAllVersions bool
	Limit              int // 0 = no limit
	Offset             int
}

// TemplateStorage persists named format strings.
// Implementations must be safe for concurrent use.
type TemplateStorage interface {
	// Get returns the newest version of name.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// GetVersion returns one version of name.
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save adds tmpl as the next version of tmpl.Name and fills in
	// ID, Version and SavedAt.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes every version of name.
	Delete(ctx context.Context, name string) error

	// List returns matching templates ordered by name, newest version first.
	// A nil query behaves like the zero TemplateQuery.
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	// Exists reports whether any version of name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns the version numbers of name, newest first.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases the backend.
	Close() error
}

// StorageDriver opens a TemplateStorage from a driver-specific connection string.
type StorageDriver interface {
	Open(connectionString string) (TemplateStorage, error)
}

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNamePostgres   = "postgres"
	StorageDriverNameFilesystem = "filesystem"
)

const (
	templateIDPrefix    = "tmpl_"
	templateIDByteCount = 9
)

var (
	driversMu sync.RWMutex
	drivers   = map[string]StorageDriver{}
)

// RegisterStorageDriver makes a driver available to OpenStorage.
// It panics on a nil driver or a name that is already taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}

	driversMu.Lock()
	defer driversMu.Unlock()

	if _, taken := drivers[name]; taken {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	drivers[name] = driver
}

// OpenStorage opens storage through a registered driver.
//
//	storage, err := formatic.OpenStorage("memory", "")
//	storage, err := formatic.OpenStorage("filesystem", "/var/lib/formatic")
//	storage, err := formatic.OpenStorage("postgres", "postgres://localhost/formatic?sslmode=disable")
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	driversMu.RLock()
	driver, ok := drivers[driverName]
	driversMu.RUnlock()

	if !ok {
		return nil, &StorageError{Message: ErrMsgStorageDriverNotFound, Name: driverName}
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the registered driver names, sorted.
func ListStorageDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error messages
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "template version not found"
	ErrMsgInvalidTemplateName     = "stored template name cannot be empty"
	ErrMsgCryptoRandFailure       = "cryptographic random number generator failure"
)

// StorageError reports a failed storage operation. Name is the template
// name, driver or path involved; Version is set for version lookups.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Name != StringValueEmpty {
		sb.WriteString(": ")
		sb.WriteString(e.Name)
		if e.Version > 0 {
			sb.WriteString(" v")
			sb.WriteString(strconv.Itoa(e.Version))
		}
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageVersionNotFoundError creates an error for a missing version.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{Message: ErrMsgVersionNotFound, Name: name, Version: version}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// storageState is the closed flag and lock shared by the backends.
// reading and writing check the context and the flag, and return the unlock.
type storageState struct {
	mu     sync.RWMutex
	closed bool
}

func (s *storageState) reading(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, NewStorageClosedError()
	}
	return s.mu.RUnlock, nil
}

func (s *storageState) writing(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStorageClosedError()
	}
	return s.mu.Unlock, nil
}

// shutdown marks the state closed and reports whether it already was
func (s *storageState) shutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.closed
	s.closed = true
	return was
}

func checkStoredName(name string) error {
	if name == StringValueEmpty {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	return nil
}

// stampVersion records a new version on tmpl and returns the copy to persist
func stampVersion(tmpl *StoredTemplate, version int) (*StoredTemplate, error) {
	id, err := newTemplateID()
	if err != nil {
		return nil, err
	}
	tmpl.ID = id
	tmpl.Version = version
	tmpl.SavedAt = time.Now().UTC()
	return tmpl.clone(), nil
}

func newTemplateID() (TemplateID, error) {
	b := make([]byte, templateIDByteCount)
	if _, err := rand.Read(b); err != nil {
		return StringValueEmpty, &StorageError{Message: ErrMsgCryptoRandFailure, Cause: err}
	}
	return TemplateID(templateIDPrefix + base64.RawURLEncoding.EncodeToString(b)), nil
}

// clone copies t including its Syntax
func (t *StoredTemplate) clone() *StoredTemplate {
	if t == nil {
		return nil
	}
	c := *t
	if t.Syntax != nil {
		syntax := *t.Syntax
		c.Syntax = &syntax
	}
	return &c
}

// page orders templates by name and newest version, then applies offset and limit
func (q TemplateQuery) page(templates []*StoredTemplate) []*StoredTemplate {
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Name == templates[j].Name {
			return templates[i].Version > templates[j].Version
		}
		return templates[i].Name < templates[j].Name
	})

	if q.Offset >= len(templates) {
		return []*StoredTemplate{}
	}
	templates = templates[q.Offset:]
	if q.Limit > 0 && q.Limit < len(templates) {
		templates = templates[:q.Limit]
	}
	return templates
}

func (q *TemplateQuery) orZero() TemplateQuery {
	if q == nil {
		return TemplateQuery{}
	}
	return *q
}
