package autoreg

import (
	"fmt"
	"reflect"
	"sync"
)

// Container is the service container registrations are issued against. Each
// call registers implementation type impl under service type service; when a
// type is registered against itself both arguments are the same.
type Container interface {
	AddTransient(impl, service reflect.Type) error
	AddScoped(impl, service reflect.Type) error
	AddSingleton(impl, service reflect.Type) error
}

// InstanceContainer is an optional Container capability for registering an
// already built value. Configuration binders use it to publish the bound
// options object.
type InstanceContainer interface {
	AddSingletonInstance(service reflect.Type, instance any) error
}

// ConfigurationSource provides named configuration sections.
type ConfigurationSource interface {
	GetSection(key string) ConfigurationSection
}

// ConfigurationSection is opaque to the registration engine; it is handed
// as-is to the configuration binder.
type ConfigurationSection interface {
	Key() string
}

// ServiceDescriptor is one registration recorded by a ServiceCollection.
type ServiceDescriptor struct {
	ServiceType        reflect.Type
	ImplementationType reflect.Type
	Lifetime           Lifetime
	Instance           any
}

// ServiceCollection is an in-memory Container that records registrations in
// the order they are made. It never builds anything itself.
type ServiceCollection struct {
	mu          sync.RWMutex
	descriptors []ServiceDescriptor
}

// NewServiceCollection creates an empty collection.
func NewServiceCollection() *ServiceCollection {
	return &ServiceCollection{}
}

func (s *ServiceCollection) AddTransient(impl, service reflect.Type) error {
	return s.add(impl, service, LifetimeTransient)
}

func (s *ServiceCollection) AddScoped(impl, service reflect.Type) error {
	return s.add(impl, service, LifetimeScoped)
}

func (s *ServiceCollection) AddSingleton(impl, service reflect.Type) error {
	return s.add(impl, service, LifetimeSingleton)
}

// AddSingletonInstance registers instance as the singleton value of service.
func (s *ServiceCollection) AddSingletonInstance(service reflect.Type, instance any) error {
	if service == nil {
		return fmt.Errorf("service type must not be nil")
	}
	if instance == nil {
		return fmt.Errorf("instance for %v must not be nil", service)
	}
	impl := reflect.TypeOf(instance)
	if !impl.AssignableTo(service) {
		return fmt.Errorf("instance of %v is not assignable to %v", impl, service)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors = append(s.descriptors, ServiceDescriptor{
		ServiceType:        service,
		ImplementationType: impl,
		Lifetime:           LifetimeSingleton,
		Instance:           instance,
	})
	return nil
}

func (s *ServiceCollection) add(impl, service reflect.Type, lifetime Lifetime) error {
	if impl == nil {
		return fmt.Errorf("implementation type must not be nil")
	}
	if service == nil {
		service = impl
	}
	if impl.Kind() == reflect.Interface {
		return fmt.Errorf("implementation type %v must be concrete", impl)
	}
	if !impl.AssignableTo(service) {
		return fmt.Errorf("%v does not implement %v", impl, service)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors = append(s.descriptors, ServiceDescriptor{
		ServiceType:        service,
		ImplementationType: impl,
		Lifetime:           lifetime,
	})
	return nil
}

// Descriptors returns a copy of the recorded registrations.
func (s *ServiceCollection) Descriptors() []ServiceDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ServiceDescriptor(nil), s.descriptors...)
}

// Len returns the number of recorded registrations.
func (s *ServiceCollection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.descriptors)
}

// Lookup returns the most recent registration for service type t.
func (s *ServiceCollection) Lookup(t reflect.Type) (ServiceDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.descriptors) - 1; i >= 0; i-- {
		if s.descriptors[i].ServiceType == t {
			return s.descriptors[i], true
		}
	}
	return ServiceDescriptor{}, false
}
