package autoreg

import (
	"errors"
	"reflect"
)

type greeter interface {
	Greet() string
}

type plainType struct {
	Name string
}

type transientType struct {
	Transient
}

type scopedType struct {
	Scoped
	Value int
}

type singletonType struct {
	Singleton
}

type greeterImpl struct {
	SingletonAs[greeter]
}

func (*greeterImpl) Greet() string { return "hello" }

type scopedGreeter struct {
	ScopedAs[greeter]
}

func (*scopedGreeter) Greet() string { return "scoped hello" }

type transientGreeter struct {
	TransientAs[greeter]
}

func (*transientGreeter) Greet() string { return "transient hello" }

type notAGreeter struct {
	SingletonAs[greeter]
}

type singletonThenTransient struct {
	Singleton
	Transient
}

type blankMarkers struct {
	_ Scoped
	_ Singleton
}

type customAnnotation struct{}

func (customAnnotation) AnnotationName() string { return "custom" }

type customThenScoped struct {
	customAnnotation
	Scoped
}

type onlyCustom struct {
	customAnnotation
}

type configType struct {
	Configuration `autoreg:"Foo"`
	Value string
}

type otherConfigType struct {
	Configuration `autoreg:"Bar"`
}

type keylessConfig struct {
	Configuration
}

type configThenSingleton struct {
	Configuration `autoreg:"Foo"`
	Singleton
}

type namedMarkerField struct {
	Marker Singleton
}

// fakeSection is a ConfigurationSection that only knows its key.
type fakeSection string

func (s fakeSection) Key() string { return string(s) }

// fakeSource records every section lookup.
type fakeSource struct {
	lookups []string
}

func (f *fakeSource) GetSection(key string) ConfigurationSection {
	f.lookups = append(f.lookups, key)
	return fakeSection(key)
}

type bindCall struct {
	optionsType reflect.Type
	key         string
}

// recordingTemplate returns a binder template that records every binding.
func recordingTemplate(calls *[]bindCall) BinderTemplate {
	return func(optionsType reflect.Type) (Binder, error) {
		return func(c Container, section ConfigurationSection) error {
			*calls = append(*calls, bindCall{optionsType: optionsType, key: section.Key()})
			return nil
		}, nil
	}
}

func binderModule(name string, template any) BinderModule {
	return BinderModule{
		Name:    name,
		Exports: []Export{{Name: "Configure", Value: template}},
	}
}

// failingContainer rejects every registration.
type failingContainer struct {
	err error
}

func (f *failingContainer) AddTransient(reflect.Type, reflect.Type) error { return f.err }
func (f *failingContainer) AddScoped(reflect.Type, reflect.Type) error    { return f.err }
func (f *failingContainer) AddSingleton(reflect.Type, reflect.Type) error { return f.err }

var errContainerFull = errors.New("container full")
