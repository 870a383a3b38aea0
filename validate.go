package autoreg

import (
	"fmt"
	"reflect"
)

var (
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	containerType   = reflect.TypeOf((*Container)(nil)).Elem()
	sectionType     = reflect.TypeOf((*ConfigurationSection)(nil)).Elem()
	reflectTypeType = reflect.TypeOf((*reflect.Type)(nil)).Elem()
)

// ValidateBinderTemplate checks that fn has the shape of a binder template:
//
//	func(optionsType reflect.Type) (func(Container, ConfigurationSection) error, error)
//
// The returned binder may be a named type such as Binder. Exports that fail
// this check are never considered during binder resolution.
func ValidateBinderTemplate(fn any) error {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("binder template must be a function, got %v", fnType)
	}
	if reflect.ValueOf(fn).IsNil() {
		return fmt.Errorf("binder template must not be a nil %v", fnType)
	}
	if fnType.IsVariadic() || fnType.NumIn() != 1 || fnType.In(0) != reflectTypeType {
		return fmt.Errorf("binder template must take exactly one reflect.Type, got %s", formatFuncSignature(fn))
	}
	if fnType.NumOut() != 2 || fnType.Out(1) != errorType {
		return fmt.Errorf("binder template must return (binder, error), got %s", formatFuncSignature(fn))
	}
	if err := validateBinderType(fnType.Out(0)); err != nil {
		return err
	}
	return nil
}

// validateBinderType checks for func(Container, ConfigurationSection) error,
// with the parameters in that order.
func validateBinderType(t reflect.Type) error {
	if t.Kind() != reflect.Func {
		return fmt.Errorf("binder must be a function, got %v", t)
	}
	if t.IsVariadic() || t.NumIn() != 2 {
		return fmt.Errorf("binder must take exactly two parameters, got %v", t)
	}
	if t.In(0) != containerType || t.In(1) != sectionType {
		return fmt.Errorf("binder parameters must be (%v, %v), got (%v, %v)", containerType, sectionType, t.In(0), t.In(1))
	}
	if t.NumOut() != 1 || t.Out(0) != errorType {
		return fmt.Errorf("binder must return exactly one error, got %v", t)
	}
	return nil
}
