package autoreg

import (
	"context"

	"github.com/gburgyan/go-timing"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Registrar scans types and registers the annotated ones. The zero value is
// not usable; create one with NewRegistrar.
//
// A Registrar is meant to run during start-up, before the container is
// used. The only state it shares between calls is the binder cached in its
// BinderRegistry, which is safe for concurrent use.
type Registrar struct {
	logger  *zap.Logger
	binders *BinderRegistry
	timing  bool
}

// Option is a functional option for configuring a Registrar.
type Option func(*Registrar)

// WithLogger sets the logger. Registrations are logged at debug level and a
// summary of each run at info level. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registrar) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBinderRegistry replaces DefaultBinders as the source of the
// configuration binder.
func WithBinderRegistry(binders *BinderRegistry) Option {
	return func(r *Registrar) {
		if binders != nil {
			r.binders = binders
		}
	}
}

// WithTiming records the scan, each dispatched type and binder resolution as
// timing contexts under the context passed to Register. Use timing.Root on
// that context to collect the report.
func WithTiming() Option {
	return func(r *Registrar) {
		r.timing = true
	}
}

// NewRegistrar creates a Registrar with the given options applied.
func NewRegistrar(opts ...Option) *Registrar {
	r := &Registrar{
		logger:  zap.NewNop(),
		binders: DefaultBinders,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register scans the sources and registers every type carrying a lifetime
// annotation with c. A type whose first recognized annotation is a
// Configuration fails with ErrMissingConfigurationSource.
//
// Failures of individual types do not stop the run; they are combined into
// the returned error (see multierr.Errors). ErrScanFailed, ErrBinderNotFound
// and ErrAmbiguousBinder stop the run immediately.
func (r *Registrar) Register(ctx context.Context, c Container, sources ...any) error {
	return r.run(ctx, c, nil, sources)
}

// RegisterWithConfiguration behaves like Register and also binds the types
// carrying a Configuration annotation, reading their sections from cfg.
func (r *Registrar) RegisterWithConfiguration(ctx context.Context, c Container, cfg ConfigurationSource, sources ...any) error {
	return r.run(ctx, c, cfg, sources)
}

// RegisterAnnotatedTypes runs Register on a Registrar with default options.
func RegisterAnnotatedTypes(ctx context.Context, c Container, sources ...any) error {
	return NewRegistrar().Register(ctx, c, sources...)
}

// RegisterAnnotatedTypesWithConfiguration runs RegisterWithConfiguration on a
// Registrar with default options.
func RegisterAnnotatedTypesWithConfiguration(ctx context.Context, c Container, cfg ConfigurationSource, sources ...any) error {
	return NewRegistrar().RegisterWithConfiguration(ctx, c, cfg, sources...)
}

func (r *Registrar) run(ctx context.Context, c Container, cfg ConfigurationSource, sources []any) error {
	if c == nil {
		return &RegistrationError{Message: "container must not be nil", kind: ErrContainer}
	}

	ctx, complete := r.startTiming(ctx, "autoreg")
	defer complete()

	candidates, err := r.scan(ctx, sources)
	if err != nil {
		return err
	}

	d := &dispatcher{Registrar: r, container: c, config: cfg}
	var errs error
	registered := 0
	for _, cc := range candidates {
		acted, err := d.dispatch(ctx, cc)
		if err != nil {
			r.logger.Debug("registration failed", zap.String("type", cc.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
			if isFatal(err) {
				return errs
			}
			continue
		}
		if acted {
			registered++
		}
	}

	r.logger.Info("annotated types registered",
		zap.Int("candidates", len(candidates)),
		zap.Int("registered", registered),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return errs
}

func (r *Registrar) scan(ctx context.Context, sources []any) ([]CandidateClass, error) {
	_, complete := r.startTiming(ctx, "scan")
	defer complete()
	return Scan(sources...)
}

func (r *Registrar) startTiming(ctx context.Context, name string) (context.Context, func()) {
	if !r.timing {
		return ctx, func() {}
	}
	tCtx, complete := timing.Start(ctx, name)
	return tCtx, complete
}
