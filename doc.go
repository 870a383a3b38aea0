// Package autoreg lets a type declare its own dependency-injection lifetime or
// configuration binding instead of listing every injectable type in a central
// registration file.
//
// A struct opts in by embedding one of the marker types:
//
//	type OrderService struct {
//	    autoreg.ScopedAs[OrderRepository]
//	    db *sql.DB
//	}
//
//	type DatabaseOptions struct {
//	    autoreg.Configuration `autoreg:"Database"`
//	    Host string
//	    Port int
//	}
//
// A single call then scans the supplied types and registers each of them:
//
//	err := autoreg.RegisterAnnotatedTypesWithConfiguration(ctx, services, cfg,
//	    (*OrderService)(nil),
//	    (*DatabaseOptions)(nil),
//	)
//
// Only the first recognized marker on a type is acted upon. Configuration
// markers are serviced by a binder module registered in a BinderRegistry; the
// optbind package provides one.
package autoreg
