// Package container provides a lazy singleton dependency-resolution
// container: named providers with declared dependencies, resolved recursively
// and constructed at most once per process.
//
// # Overview
//
// A Provider is a named recipe — an identity, the identities it depends on,
// and a factory that receives the resolved dependency values. The container
// owns two stores: a registry of provider definitions and a cache of
// resolution results. Resolve(id) walks the dependency chain depth-first,
// runs each factory exactly once, and serves every later request for the same
// identity from the cache. Factories with observable side effects therefore
// fire once, no matter how many request handlers or tests ask for the value.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: c.Register("db", nil, openDatabase)
//  3. Optionally boot eagerly through a ProviderRegistry (fail-fast startup)
//  4. Resolve from consumers: v, err := c.Resolve("db")
//
// # Registering
//
//	// no dependencies
//	c.Register("db", nil, func(...any) (any, error) {
//	    return database.Open(cfg.DB.DSN)
//	})
//
//	// depends on "db" and "mailer", resolved in that order
//	c.Register("users", []string{"db", "mailer"}, func(deps ...any) (any, error) {
//	    return services.NewUserService(deps[0].(*database.UserStore), deps[1].(services.Mailer)), nil
//	})
//
//	// pre-built value
//	c.Instance("config", cfg)
//
//	// alternative name
//	c.Alias("db", "database")
//
// # Resolving
//
//	// untyped
//	raw, err := c.Resolve("db")
//
//	// generic (preferred — no type assertion required)
//	store, err := container.Resolve[*database.UserStore](c, "db")
//
// Resolution errors come in three kinds, all matchable with errors.Is/As:
// ErrNotFound (no provider registered), ErrCycle (the identity transitively
// depends on itself; no factory in the cycle runs), and FactoryError (a
// factory returned an error; the cause is preserved). Failures are cached
// exactly like values: the same error comes back on every call until an
// explicit Reset, and the factory is not retried.
//
// # Test substitution
//
//	// replace the production mailer with an in-memory fake and drop the
//	// cached real one in a single step
//	c.Substitute("mailer", func(...any) (any, error) {
//	    return &fakeMailer{}, nil
//	})
//
// Substitute is Register followed by Reset under one lock. For test
// isolation, build a fresh container per test instead of sharing one —
// New() is cheap and there is no package-level instance.
//
// # Concurrency
//
// A Container is safe for concurrent use. Concurrent Resolve calls for the
// same identity are single-flight: one goroutine constructs, the others block
// on that identity's entry and then observe the same terminal value or error.
// The serialisation is per identity, not global, so a slow factory never
// delays unrelated identities. There is no built-in cancellation: a factory
// that never returns blocks every current and future caller for its identity,
// so wrap Resolve externally when a deadline is needed.
//
// A dependency cycle is detected per call path. A cycle split across two
// goroutines that start resolving at different points of the loop
// concurrently can deadlock instead of erroring; cycles are programming
// mistakes and always reproduce single-threaded, where they are reported as
// ErrCycle with the full path.
//
// Reset and Substitute must not race with an in-flight resolution of the same
// identity; that precondition is documented on Reset, not enforced.
package container
