package formatic

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Filesystem storage layout
const (
	FilesystemDirPermissions   = 0o755
	FilesystemFilePermissions  = 0o644
	FilesystemVersionPrefix    = "v"
	FilesystemVersionSuffix    = ".json"
	filesystemInvalidNameChars = "/\\:*?\"<>|"
	filesystemParentDir        = ".."
)

// Filesystem storage error messages
const (
	ErrMsgInvalidStorageRoot    = "invalid storage root path"
	ErrMsgCreateStorageDir      = "failed to create storage directory"
	ErrMsgReadStorageDir        = "failed to read storage directory"
	ErrMsgMarshalTemplate       = "failed to marshal template"
	ErrMsgUnmarshalTemplate     = "failed to unmarshal template"
	ErrMsgWriteTemplate         = "failed to write template file"
	ErrMsgReadTemplate          = "failed to read template file"
	ErrMsgDeleteTemplate        = "failed to delete template"
	ErrMsgPathTraversalDetected = "template name escapes the storage root"
	ErrMsgInvalidNameCharacters = "template name contains characters invalid in file names"
)

// FilesystemStorage keeps one directory per template name and one JSON
// document per version:
//
//	<root>/greeting/v1.json
//	<root>/greeting/v2.json
//
// Version files are written once and never rewritten.
type FilesystemStorage struct {
	state storageState
	root  string
}

// FilesystemStorageDriver opens FilesystemStorage rooted at the connection string.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open implements StorageDriver.
func (d *FilesystemStorageDriver) Open(root string) (TemplateStorage, error) {
	return NewFilesystemStorage(root)
}

// NewFilesystemStorage opens root, creating it when missing.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == StringValueEmpty {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStorageDir, Name: root, Cause: err}
	}
	return &FilesystemStorage{root: root}, nil
}

// Get returns the newest version of name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	unlock, err := s.open(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	numbers, err := s.versionNumbers(name)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		return nil, NewTemplateNotFoundError(name)
	}
	return s.readVersion(name, numbers[0])
}

// GetVersion returns one version of name.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	unlock, err := s.open(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.readVersion(name, version)
}

// Save writes tmpl as the next version file of its name.
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	unlock, err := s.open(ctx, tmpl.Name, true)
	if err != nil {
		return err
	}
	defer unlock()

	dir := filepath.Join(s.root, tmpl.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return &StorageError{Message: ErrMsgCreateStorageDir, Name: dir, Cause: err}
	}
	numbers, err := s.versionNumbers(tmpl.Name)
	if err != nil {
		return err
	}
	next := 1
	if len(numbers) > 0 {
		next = numbers[0] + 1
	}

	candidate := tmpl.clone()
	stored, err := stampVersion(candidate, next)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(stored, StringValueEmpty, "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgMarshalTemplate, Name: tmpl.Name, Cause: err}
	}

	path := s.versionPath(tmpl.Name, next)
	// O_EXCL keeps a second writer from replacing an existing version
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilesystemFilePermissions)
	if err != nil {
		return &StorageError{Message: ErrMsgWriteTemplate, Name: path, Cause: err}
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return &StorageError{Message: ErrMsgWriteTemplate, Name: path, Cause: err}
	}
	if err := file.Close(); err != nil {
		return &StorageError{Message: ErrMsgWriteTemplate, Name: path, Cause: err}
	}

	*tmpl = *candidate
	return nil
}

// Delete removes the directory of name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	unlock, err := s.open(ctx, name, true)
	if err != nil {
		return err
	}
	defer unlock()

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewTemplateNotFoundError(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return &StorageError{Message: ErrMsgDeleteTemplate, Name: name, Cause: err}
	}
	return nil
}

// List returns templates matching query. Directories without version files
// are skipped.
func (s *FilesystemStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	unlock, err := s.state.reading(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}

	q := query.orZero()
	var matched []*StoredTemplate
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, q.NamePrefix) {
			continue
		}
		numbers, err := s.versionNumbers(name)
		if err != nil {
			return nil, err
		}
		if !q.IncludeAllVersions && len(numbers) > 1 {
			numbers = numbers[:1]
		}
		for _, number := range numbers {
			tmpl, err := s.readVersion(name, number)
			if err != nil {
				return nil, err
			}
			matched = append(matched, tmpl)
		}
	}
	return q.page(matched), nil
}

// Exists reports whether name has any version file.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	unlock, err := s.open(ctx, name, false)
	if err != nil {
		return false, err
	}
	defer unlock()

	numbers, err := s.versionNumbers(name)
	return len(numbers) > 0, err
}

// ListVersions returns the version numbers of name, newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	unlock, err := s.open(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.versionNumbers(name)
}

// Close marks the storage closed. Files stay on disk.
func (s *FilesystemStorage) Close() error {
	s.state.shutdown()
	return nil
}

// open validates name and takes the read or write lock
func (s *FilesystemStorage) open(ctx context.Context, name string, write bool) (func(), error) {
	if err := checkFilesystemName(name); err != nil {
		return nil, err
	}
	if write {
		return s.state.writing(ctx)
	}
	return s.state.reading(ctx)
}

// versionNumbers parses v<N>.json file names, newest first; other files are ignored
func (s *FilesystemStorage) versionNumbers(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []int{}, nil
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: name, Cause: err}
	}

	numbers := []int{}
	for _, entry := range entries {
		digits, ok := strings.CutPrefix(entry.Name(), FilesystemVersionPrefix)
		if !ok || entry.IsDir() {
			continue
		}
		digits, ok = strings.CutSuffix(digits, FilesystemVersionSuffix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(digits); err == nil && n > 0 {
			numbers = append(numbers, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(numbers)))
	return numbers, nil
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	file := FilesystemVersionPrefix + strconv.Itoa(version) + FilesystemVersionSuffix
	return filepath.Join(s.root, name, file)
}

func (s *FilesystemStorage) readVersion(name string, version int) (*StoredTemplate, error) {
	path := s.versionPath(name, version)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewStorageVersionNotFoundError(name, version)
	}
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadTemplate, Name: path, Cause: err}
	}

	tmpl := &StoredTemplate{}
	if err := json.Unmarshal(data, tmpl); err != nil {
		return nil, &StorageError{Message: ErrMsgUnmarshalTemplate, Name: path, Cause: err}
	}
	return tmpl, nil
}

// checkFilesystemName rejects names that are empty, leave the root or are
// not usable as a directory name
func checkFilesystemName(name string) error {
	if err := checkStoredName(name); err != nil {
		return err
	}
	if strings.Contains(name, filesystemParentDir) {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, filesystemInvalidNameChars) {
		return &StorageError{Message: ErrMsgInvalidNameCharacters, Name: name}
	}
	return nil
}
