package autoreg

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// lifetimeRegistrars maps each lifetime to the container operation that
// registers it.
var lifetimeRegistrars = map[Lifetime]func(Container, reflect.Type, reflect.Type) error{
	LifetimeTransient: Container.AddTransient,
	LifetimeScoped:    Container.AddScoped,
	LifetimeSingleton: Container.AddSingleton,
}

// registerLifetime issues exactly one container registration for cc. Without
// an explicit service type the implementation is registered against itself.
func (d *dispatcher) registerLifetime(cc CandidateClass, a LifetimeAnnotation) error {
	impl := cc.Implementation()
	service := a.ServiceType
	if service == nil {
		service = impl
	}

	register, ok := lifetimeRegistrars[a.Lifetime]
	if !ok {
		return &RegistrationError{
			Message:        fmt.Sprintf("unknown lifetime %s", a.Lifetime),
			ReferencedType: impl,
			kind:           ErrContainer,
		}
	}
	if err := register(d.container, impl, service); err != nil {
		return &RegistrationError{
			Message:        fmt.Sprintf("cannot register %s service", a.Lifetime),
			ReferencedType: impl,
			SourceError:    err,
			kind:           ErrContainer,
		}
	}

	d.logger.Debug("registered service",
		zap.String("type", cc.Name),
		zap.Stringer("service", service),
		zap.Stringer("lifetime", a.Lifetime),
	)
	return nil
}
