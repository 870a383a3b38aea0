package autoreg

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error kinds. Every failure reported by a registration run is a
// *RegistrationError that matches exactly one of these with errors.Is.
var (
	ErrScanFailed                 = errors.New("type scan failed")
	ErrMissingConfigurationSource = errors.New("configuration source required")
	ErrBinderNotFound             = errors.New("configuration binder not found")
	ErrAmbiguousBinder            = errors.New("ambiguous configuration binder")
	ErrBinderInvocation           = errors.New("configuration binder failed")
	ErrContainer                  = errors.New("container registration failed")
)

// RegistrationError describes why a type could not be registered or bound.
// Key is set for configuration failures.
type RegistrationError struct {
	Message        string
	ReferencedType reflect.Type
	Key            string
	SourceError    error

	kind error
}

func (e *RegistrationError) Error() string {
	b := strings.Builder{}
	b.WriteString(e.Message)
	if e.ReferencedType != nil {
		fmt.Fprintf(&b, ": %v", e.ReferencedType)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " (section %q)", e.Key)
	}
	if e.SourceError != nil {
		fmt.Fprintf(&b, " (%v)", e.SourceError)
	}
	return b.String()
}

func (e *RegistrationError) Unwrap() error {
	return e.SourceError
}

// Is matches the error kind so callers can test with errors.Is.
func (e *RegistrationError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// Kind returns the sentinel error this error is classified as.
func (e *RegistrationError) Kind() error {
	return e.kind
}

// isFatal reports whether err must stop the whole registration run instead
// of failing only the current type.
func isFatal(err error) bool {
	return errors.Is(err, ErrBinderNotFound) || errors.Is(err, ErrAmbiguousBinder)
}
