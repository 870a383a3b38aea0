// Package optbind is a configuration binder module. Importing it registers
// its binder with autoreg.DefaultBinders:
//
//	import _ "github.com/gburgyan/go-autoreg/optbind"
//
// The binder decodes a configuration section into a new options struct and
// registers the pointer to it as a singleton instance. The section must
// implement Decoder and the container must implement
// autoreg.InstanceContainer.
package optbind

import (
	"fmt"
	"reflect"

	"github.com/gburgyan/go-autoreg"
)

// ModuleName is the name this package registers its binder module under.
const ModuleName = autoreg.DefaultBinderModulePrefix + ".options"

// Decoder is implemented by configuration sections that can populate a
// struct, such as *yamlconfig.Section.
type Decoder interface {
	Decode(target any) error
}

// Validator is implemented by options types that check themselves after
// being decoded. A validation error fails the binding.
type Validator interface {
	Validate() error
}

func init() {
	autoreg.RegisterBinderModule(Module())
}

// Module returns the binder module. It is registered with
// autoreg.DefaultBinders on import; register it with other registries
// explicitly.
func Module() autoreg.BinderModule {
	return autoreg.BinderModule{
		Name: ModuleName,
		Exports: []autoreg.Export{
			{Name: "Configure", Value: Configure},
		},
	}
}

// Configure returns the binder for optionsType, which must be a struct type.
func Configure(optionsType reflect.Type) (autoreg.Binder, error) {
	if optionsType == nil || optionsType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("options type must be a struct, got %v", optionsType)
	}

	return func(c autoreg.Container, section autoreg.ConfigurationSection) error {
		decoder, ok := section.(Decoder)
		if !ok {
			return fmt.Errorf("section of type %T cannot be decoded", section)
		}
		instances, ok := c.(autoreg.InstanceContainer)
		if !ok {
			return fmt.Errorf("container of type %T cannot register instances", c)
		}

		options := reflect.New(optionsType)
		if err := decoder.Decode(options.Interface()); err != nil {
			return fmt.Errorf("decoding section %q into %v: %w", section.Key(), optionsType, err)
		}
		if v, ok := options.Interface().(Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("validating %v: %w", optionsType, err)
			}
		}
		return instances.AddSingletonInstance(options.Type(), options.Interface())
	}, nil
}
