package autoreg

import (
	"fmt"
	"reflect"
	"sync"
)

// Module is a named group of types handed to the scanner. Types are taken as
// given; Load, when set, is called on every scan to enumerate more of them and
// any error it returns aborts the scan.
type Module struct {
	Name  string
	Types []any
	Load  func() ([]reflect.Type, error)
}

// NewModule creates a module from type samples. A sample is a reflect.Type or
// any typed value, typically a nil pointer such as (*Service)(nil).
func NewModule(name string, samples ...any) *Module {
	return &Module{Name: name, Types: samples}
}

// CandidateClass is a struct type found by the scanner together with the
// annotations declared on it, in declaration order.
type CandidateClass struct {
	Name        string
	Type        reflect.Type
	Annotations []Annotation
}

// Implementation is the type registered with the container: a pointer to the
// struct.
func (c CandidateClass) Implementation() reflect.Type {
	return reflect.PointerTo(c.Type)
}

var (
	annotationType = reflect.TypeOf((*Annotation)(nil)).Elem()

	// annotationCache holds the annotations extracted from each struct
	// type. Type metadata never changes, so entries are never evicted.
	annotationCache sync.Map // map[reflect.Type][]Annotation
)

// Scan expands the sources into the list of candidate classes. A source is a
// reflect.Type, a *Module or a typed value sample. The result is fully built
// before it is returned and is never shared between calls.
//
// Interfaces, functions, non-struct kinds and unnamed struct types are
// dropped. A type reachable from more than one source keeps its first
// position.
func Scan(sources ...any) ([]CandidateClass, error) {
	s := &scanner{seen: map[reflect.Type]bool{}}
	for _, src := range sources {
		if err := s.addSource(src, ""); err != nil {
			return nil, err
		}
	}
	return s.candidates, nil
}

type scanner struct {
	seen       map[reflect.Type]bool
	candidates []CandidateClass
}

func (s *scanner) addSource(src any, module string) error {
	switch v := src.(type) {
	case nil:
		return &RegistrationError{
			Message:     "cannot enumerate types",
			SourceError: fmt.Errorf("untyped nil source%s", moduleSuffix(module)),
			kind:        ErrScanFailed,
		}
	case *Module:
		return s.addModule(v)
	case Module:
		return s.addModule(&v)
	case reflect.Type:
		s.addType(v)
		return nil
	default:
		s.addType(reflect.TypeOf(src))
		return nil
	}
}

func (s *scanner) addModule(m *Module) error {
	if m == nil {
		return s.addSource(nil, "")
	}
	for _, sample := range m.Types {
		if err := s.addSource(sample, m.Name); err != nil {
			return err
		}
	}
	if m.Load == nil {
		return nil
	}
	types, err := m.Load()
	if err != nil {
		return &RegistrationError{
			Message:     fmt.Sprintf("cannot enumerate types of module %q", m.Name),
			SourceError: err,
			kind:        ErrScanFailed,
		}
	}
	for _, t := range types {
		if err := s.addSource(t, m.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) addType(t reflect.Type) {
	if t == nil {
		return
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !isCandidate(t) || s.seen[t] {
		return
	}
	s.seen[t] = true
	s.candidates = append(s.candidates, CandidateClass{
		Name:        qualifiedName(t),
		Type:        t,
		Annotations: append([]Annotation(nil), annotationsOf(t)...),
	})
}

// isCandidate keeps named struct types. Unnamed structs are the Go
// counterpart of compiler-synthesized classes and are never services.
func isCandidate(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Name() != ""
}

// annotationsOf returns the cached annotation list of a struct type,
// computing it if necessary.
func annotationsOf(t reflect.Type) []Annotation {
	if cached, ok := annotationCache.Load(t); ok {
		return cached.([]Annotation)
	}

	var result []Annotation
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous && field.Name != "_" {
			continue
		}
		ft := field.Type
		if ft.Kind() != reflect.Struct || ft.Size() != 0 || !ft.Implements(annotationType) {
			continue
		}
		zero := reflect.Zero(ft).Interface()
		if m, ok := zero.(marker); ok {
			result = append(result, m.annotation(field.Tag))
		} else {
			result = append(result, zero.(Annotation))
		}
	}

	actual, _ := annotationCache.LoadOrStore(t, result)
	return actual.([]Annotation)
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

func moduleSuffix(module string) string {
	if module == "" {
		return ""
	}
	return fmt.Sprintf(" in module %q", module)
}
