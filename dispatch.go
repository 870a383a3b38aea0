package autoreg

import (
	"context"

	"go.uber.org/zap"
)

// SelectFirstRecognized returns the first LifetimeAnnotation or
// ConfigurationAnnotation in declaration order. Later annotations, including
// other lifetimes, are ignored: a type declaring [Singleton, Transient] is
// registered as a singleton only.
func SelectFirstRecognized(annotations []Annotation) (Annotation, bool) {
	for _, a := range annotations {
		switch a.(type) {
		case LifetimeAnnotation, ConfigurationAnnotation:
			return a, true
		}
	}
	return nil, false
}

// dispatcher carries the per-run collaborators of a Registrar.
type dispatcher struct {
	*Registrar
	container Container
	config    ConfigurationSource
}

// dispatch acts on the first recognized annotation of cc. It reports whether
// a registration was made.
func (d *dispatcher) dispatch(ctx context.Context, cc CandidateClass) (bool, error) {
	selected, ok := SelectFirstRecognized(cc.Annotations)
	if !ok {
		return false, nil
	}

	ctx, complete := d.startTiming(ctx, cc.Name)
	defer complete()

	switch a := selected.(type) {
	case LifetimeAnnotation:
		if err := d.registerLifetime(cc, a); err != nil {
			return false, err
		}
		return true, nil
	case ConfigurationAnnotation:
		if d.config == nil {
			return false, &RegistrationError{
				Message:        "configuration source required to bind",
				ReferencedType: cc.Type,
				Key:            a.Key,
				kind:           ErrMissingConfigurationSource,
			}
		}
		return d.bindConfiguration(ctx, cc, a)
	}
	return false, nil
}

func (d *dispatcher) bindConfiguration(ctx context.Context, cc CandidateClass, a ConfigurationAnnotation) (bool, error) {
	if !a.HasKey() {
		d.logger.Debug("configuration annotation without section key ignored", zap.String("type", cc.Name))
		return false, nil
	}

	rb, err := d.resolveBinder(ctx)
	if err != nil {
		return false, err
	}

	section := d.config.GetSection(a.Key)
	if err := rb.bind(d.container, section, cc.Type); err != nil {
		return false, &RegistrationError{
			Message:        "cannot bind configuration",
			ReferencedType: cc.Type,
			Key:            a.Key,
			SourceError:    err,
			kind:           ErrBinderInvocation,
		}
	}

	d.logger.Debug("bound configuration",
		zap.String("type", cc.Name),
		zap.String("section", a.Key),
		zap.String("binder", rb.module),
	)
	return true, nil
}

func (d *dispatcher) resolveBinder(ctx context.Context) (*resolvedBinder, error) {
	_, complete := d.startTiming(ctx, "resolve-binder")
	defer complete()

	rb, fresh, err := d.binders.resolve()
	if err != nil {
		return nil, err
	}
	if fresh {
		d.logger.Debug("configuration binder resolved", zap.String("module", rb.module))
	}
	return rb, nil
}
