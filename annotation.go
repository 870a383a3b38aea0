package autoreg

import (
	"fmt"
	"reflect"
)

// Lifetime is the container policy for how many instances of a registered
// type exist.
type Lifetime int

const (
	// LifetimeTransient creates a new instance on every resolution.
	LifetimeTransient Lifetime = iota

	// LifetimeScoped creates one instance per logical unit of work.
	LifetimeScoped

	// LifetimeSingleton creates one instance for the process.
	LifetimeSingleton
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeTransient:
		return "transient"
	case LifetimeScoped:
		return "scoped"
	case LifetimeSingleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// tagName is the struct tag consulted by markers that take a string argument.
const tagName = "autoreg"

// Annotation is declarative metadata attached to a struct type. Any embedded
// or blank zero-size field whose type implements Annotation is treated as an
// annotation of the enclosing struct, in field declaration order.
//
// Packages may define their own annotations. The registration engine only
// acts on LifetimeAnnotation and ConfigurationAnnotation; anything else is
// carried through scanning and then skipped.
type Annotation interface {
	AnnotationName() string
}

// marker is implemented by the marker types in this package. It turns the
// marker and the tag of the field it is declared with into an Annotation.
type marker interface {
	Annotation
	annotation(tag reflect.StructTag) Annotation
}

// LifetimeAnnotation requests registration with the given lifetime. A nil
// ServiceType registers the type against itself.
type LifetimeAnnotation struct {
	Lifetime    Lifetime
	ServiceType reflect.Type
}

func (a LifetimeAnnotation) AnnotationName() string {
	return a.Lifetime.String()
}

func (a LifetimeAnnotation) String() string {
	if a.ServiceType == nil {
		return a.Lifetime.String()
	}
	return fmt.Sprintf("%s as %v", a.Lifetime, a.ServiceType)
}

// ConfigurationAnnotation requests that the configuration section named by
// Key be bound onto the type. An empty Key means the annotation was declared
// without an argument; it is accepted and ignored.
type ConfigurationAnnotation struct {
	Key string
}

func (a ConfigurationAnnotation) AnnotationName() string {
	return "configuration"
}

// HasKey reports whether the annotation carried a section key.
func (a ConfigurationAnnotation) HasKey() bool {
	return a.Key != ""
}

func (a ConfigurationAnnotation) String() string {
	return fmt.Sprintf("configuration(%q)", a.Key)
}

// Transient registers the enclosing struct as a transient service of its own
// pointer type.
type Transient struct{}

func (Transient) AnnotationName() string { return LifetimeTransient.String() }

func (Transient) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeTransient}
}

// Scoped registers the enclosing struct as a scoped service of its own
// pointer type.
type Scoped struct{}

func (Scoped) AnnotationName() string { return LifetimeScoped.String() }

func (Scoped) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeScoped}
}

// Singleton registers the enclosing struct as a singleton service of its own
// pointer type.
type Singleton struct{}

func (Singleton) AnnotationName() string { return LifetimeSingleton.String() }

func (Singleton) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeSingleton}
}

// TransientAs registers the enclosing struct as a transient implementation
// of service type S.
type TransientAs[S any] struct{}

func (TransientAs[S]) AnnotationName() string { return LifetimeTransient.String() }

func (TransientAs[S]) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeTransient, ServiceType: reflect.TypeOf((*S)(nil)).Elem()}
}

// ScopedAs registers the enclosing struct as a scoped implementation of
// service type S.
type ScopedAs[S any] struct{}

func (ScopedAs[S]) AnnotationName() string { return LifetimeScoped.String() }

func (ScopedAs[S]) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeScoped, ServiceType: reflect.TypeOf((*S)(nil)).Elem()}
}

// SingletonAs registers the enclosing struct as a singleton implementation
// of service type S.
type SingletonAs[S any] struct{}

func (SingletonAs[S]) AnnotationName() string { return LifetimeSingleton.String() }

func (SingletonAs[S]) annotation(reflect.StructTag) Annotation {
	return LifetimeAnnotation{Lifetime: LifetimeSingleton, ServiceType: reflect.TypeOf((*S)(nil)).Elem()}
}

// Configuration binds the configuration section named by the field's
// `autoreg` tag onto the enclosing struct:
//
//	type SmtpOptions struct {
//	    autoreg.Configuration `autoreg:"Mail:Smtp"`
//	    Host string
//	}
type Configuration struct{}

func (Configuration) AnnotationName() string { return "configuration" }

func (Configuration) annotation(tag reflect.StructTag) Annotation {
	return ConfigurationAnnotation{Key: tag.Get(tagName)}
}
