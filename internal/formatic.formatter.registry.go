package internal

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Formatter renders a resolved placeholder value.
// Implementations must not keep mutable state across calls; one formatter
// instance serves concurrent renders.
type Formatter interface {
	// Name returns the primary name used for explicit selection
	Name() string
	// Aliases returns additional names for explicit selection
	Aliases() []string
	// Accepts reports whether the formatter can render call.Value().
	// call.Explicit() is true when the placeholder named this formatter.
	Accepts(call *FormatCall) bool
	// Render produces the output for the placeholder
	Render(call *FormatCall) (string, error)
}

// Registry keeps formatters in registration order.
// Dispatch tries formatters in that order; the fallback always comes last.
// After Freeze the registry rejects changes and lookups take no lock.
type Registry struct {
	formatters []Formatter
	byName     map[string]Formatter
	fallback   Formatter
	frozen     atomic.Bool
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewRegistry creates a new formatter registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		byName: make(map[string]Formatter),
		logger: logger,
	}
}

// Register appends a formatter. A name or alias that is already taken
// returns an error and leaves the registry unchanged (first-come-wins).
func (r *Registry) Register(formatter Formatter) error {
	if formatter == nil {
		return NewRegistryError(ErrMsgNilFormatter, StringValueEmpty)
	}
	name := formatter.Name()
	if name == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyFormatterName, StringValueEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return NewRegistryError(ErrMsgRegistryFrozen, name)
	}

	names := append([]string{name}, formatter.Aliases()...)
	for _, n := range names {
		if existing, exists := r.byName[n]; exists {
			r.logger.Warn(LogMsgFormatterCollision,
				zap.String(LogFieldName, n),
				zap.String(LogFieldExisting, existing.Name()))
			return NewRegistryError(ErrMsgFormatterExists, n)
		}
	}

	for _, n := range names {
		if n != StringValueEmpty {
			r.byName[n] = formatter
		}
	}
	r.formatters = append(r.formatters, formatter)
	r.logger.Debug(LogMsgFormatterRegistered, zap.String(LogFieldName, name))
	return nil
}

// MustRegister adds a formatter and panics if registration fails
func (r *Registry) MustRegister(formatter Formatter) {
	if err := r.Register(formatter); err != nil {
		panic(err)
	}
}

// SetFallback installs the formatter used when no other formatter accepts.
// The fallback is also selectable by name.
func (r *Registry) SetFallback(formatter Formatter) error {
	if formatter == nil {
		return NewRegistryError(ErrMsgNilFormatter, StringValueEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return NewRegistryError(ErrMsgRegistryFrozen, formatter.Name())
	}

	r.fallback = formatter
	for _, n := range append([]string{formatter.Name()}, formatter.Aliases()...) {
		if _, exists := r.byName[n]; !exists && n != StringValueEmpty {
			r.byName[n] = formatter
		}
	}
	return nil
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.CompareAndSwap(false, true) {
		r.logger.Debug(LogMsgRegistryFrozen, zap.Int(LogFieldCount, len(r.formatters)))
	}
}

// Frozen reports whether Freeze has been called
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// readLock takes the read lock until the registry is frozen
func (r *Registry) readLock() func() {
	if r.frozen.Load() {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

// Get returns the formatter registered under name
func (r *Registry) Get(name string) (Formatter, bool) {
	defer r.readLock()()

	formatter, ok := r.byName[name]
	return formatter, ok
}

// Select picks the formatter for a call.
// An explicitly named formatter must exist and accept the value.
func (r *Registry) Select(call *FormatCall) (Formatter, error) {
	defer r.readLock()()

	if call.Explicit() {
		name := call.FormatterName()
		formatter, ok := r.byName[name]
		if !ok {
			return nil, NewRegistryError(ErrMsgUnknownFormatter, name)
		}
		if !formatter.Accepts(call) {
			return nil, NewRegistryError(ErrMsgFormatterRejected, name)
		}
		return formatter, nil
	}

	for _, formatter := range r.formatters {
		if formatter.Accepts(call) {
			return formatter, nil
		}
	}
	return r.fallback, nil
}

// List returns the primary names in dispatch order, fallback last
func (r *Registry) List() []string {
	defer r.readLock()()

	names := make([]string, 0, len(r.formatters)+1)
	for _, formatter := range r.formatters {
		names = append(names, formatter.Name())
	}
	if r.fallback != nil {
		names = append(names, r.fallback.Name())
	}
	return names
}

// Count returns the number of registered formatters including the fallback
func (r *Registry) Count() int {
	defer r.readLock()()

	if r.fallback != nil {
		return len(r.formatters) + 1
	}
	return len(r.formatters)
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	Name    string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, name string) *RegistryError {
	return &RegistryError{Message: message, Name: name}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.Name != StringValueEmpty {
		return fmt.Sprintf(ErrFmtNameMessage, e.Message, e.Name)
	}
	return e.Message
}
