package autoreg

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// DefaultBinderModulePrefix is the module name prefix searched by
// DefaultBinders.
const DefaultBinderModulePrefix = "autoreg.binder"

// binderExportName is the export a binder module must provide.
const binderExportName = "Configure"

// Binder binds a configuration section onto an options type and registers
// the result with the container. A Binder is always produced by a template
// for one specific options type.
type Binder func(c Container, section ConfigurationSection) error

// BinderTemplate produces the Binder for optionsType.
type BinderTemplate func(optionsType reflect.Type) (Binder, error)

// Export is a named value published by a binder module.
type Export struct {
	Name  string
	Value any
}

// BinderModule is an independently supplied component that may publish a
// configuration binder. Modules register themselves, usually from an init
// function, so that importing the package is enough to enable them.
type BinderModule struct {
	Name    string
	Exports []Export
}

// BinderRegistry holds the binder modules visible to registration and the
// binder resolved from them.
//
// Exactly one export named "Configure" with the binder template shape must be
// published across all modules whose name starts with the registry prefix.
// The first successful resolution is cached and is never repeated or
// invalidated; modules registered afterwards do not affect it. A failed
// resolution is not cached.
type BinderRegistry struct {
	prefix string

	mu       sync.RWMutex
	modules  []BinderModule
	resolved *resolvedBinder
}

// DefaultBinders is the process-wide registry used unless a Registrar is
// given another one with WithBinderRegistry.
var DefaultBinders = NewBinderRegistry(DefaultBinderModulePrefix)

// RegisterBinderModule adds a module to DefaultBinders.
func RegisterBinderModule(m BinderModule) {
	DefaultBinders.Register(m)
}

// NewBinderRegistry creates an empty registry that searches modules whose
// name starts with prefix. An empty prefix selects DefaultBinderModulePrefix.
func NewBinderRegistry(prefix string) *BinderRegistry {
	if prefix == "" {
		prefix = DefaultBinderModulePrefix
	}
	return &BinderRegistry{prefix: prefix}
}

// Register adds a module. Modules are searched in registration order.
func (r *BinderRegistry) Register(m BinderModule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Prefix returns the module name prefix this registry searches.
func (r *BinderRegistry) Prefix() string {
	return r.prefix
}

// Resolved returns the name of the module whose binder has been resolved, if
// any.
func (r *BinderRegistry) Resolved() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.resolved == nil {
		return "", false
	}
	return r.resolved.module, true
}

type resolvedBinder struct {
	module   string
	template reflect.Value
}

type binderCandidate struct {
	module string
	value  any
}

func (c binderCandidate) String() string {
	return fmt.Sprintf("%s.%s %s", c.module, binderExportName, formatFuncSignature(c.value))
}

// resolve returns the cached binder, or searches the modules for it. fresh is
// true only for the call that performed the search.
func (r *BinderRegistry) resolve() (rb *resolvedBinder, fresh bool, err error) {
	r.mu.RLock()
	if r.resolved != nil {
		rb = r.resolved
		r.mu.RUnlock()
		return rb, false, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved != nil {
		return r.resolved, false, nil
	}

	candidates := r.candidates()
	switch len(candidates) {
	case 0:
		return nil, false, &RegistrationError{
			Message: fmt.Sprintf("no %q export with the binder template shape in modules %q*", binderExportName, r.prefix),
			kind:    ErrBinderNotFound,
		}
	case 1:
		r.resolved = &resolvedBinder{
			module:   candidates[0].module,
			template: reflect.ValueOf(candidates[0].value),
		}
		return r.resolved, true, nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.String()
		}
		sort.Strings(names)
		return nil, false, &RegistrationError{
			Message: fmt.Sprintf("%d binder candidates in modules %q*: %s", len(candidates), r.prefix, strings.Join(names, "; ")),
			kind:    ErrAmbiguousBinder,
		}
	}
}

// candidates must be called with the lock held.
func (r *BinderRegistry) candidates() []binderCandidate {
	var result []binderCandidate
	for _, m := range r.modules {
		if !strings.HasPrefix(m.Name, r.prefix) {
			continue
		}
		for _, e := range m.Exports {
			if e.Name != binderExportName {
				continue
			}
			if ValidateBinderTemplate(e.Value) != nil {
				continue
			}
			result = append(result, binderCandidate{module: m.Name, value: e.Value})
		}
	}
	return result
}

// bind specializes the template for optionsType and calls the result. Panics
// from either step are returned as errors.
func (rb *resolvedBinder) bind(c Container, section ConfigurationSection, optionsType reflect.Type) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if recErr, ok := rec.(error); ok {
				err = fmt.Errorf("binder panicked: %w", recErr)
			} else {
				err = fmt.Errorf("binder panicked: %v", rec)
			}
		}
	}()

	results := rb.template.Call([]reflect.Value{reflect.ValueOf(&optionsType).Elem()})
	if errVal := results[1]; !errVal.IsNil() {
		return fmt.Errorf("cannot specialize binder from %s: %w", rb.module, errVal.Interface().(error))
	}
	binder := results[0]
	if binder.IsNil() {
		return errors.New("binder template returned a nil binder")
	}

	out := binder.Call([]reflect.Value{
		reflect.ValueOf(&c).Elem(),
		reflect.ValueOf(&section).Elem(),
	})
	if errVal := out[0]; !errVal.IsNil() {
		return errVal.Interface().(error)
	}
	return nil
}
