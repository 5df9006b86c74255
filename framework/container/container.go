package container

import (
	"fmt"
	"sync"
)

// ── Provider model ───────────────────────────────────────────────────────────

// Factory builds a concrete value from its already-resolved dependencies.
// The deps slice matches the provider's DependsOn list position for position.
type Factory func(deps ...any) (any, error)

// Provider describes how to build one named value: its identity, the
// identities it depends on (resolved in declared order), and the factory
// invoked with the resolved dependency values.
// A Provider is immutable once installed; replacing one installs a new value.
type Provider struct {
	ID        string
	DependsOn []string
	Build     Factory
}

// ── Cache entry ──────────────────────────────────────────────────────────────

type state int

const (
	stateUnresolved state = iota
	stateInProgress
	stateResolved
	stateFailed
)

// entry is one identity's resolution slot. Its mutex serialises the
// Unresolved → InProgress transition, so concurrent Resolve calls for the
// same identity run the factory once while unrelated identities proceed
// independently — there is no global lock held during construction.
type entry struct {
	mu    sync.Mutex
	state state
	value any
	err   error
}

// ── Container ────────────────────────────────────────────────────────────────

// Container owns a registry of Provider definitions and a cache of resolution
// results, keyed by identity.
//
// Values are built lazily: nothing runs until the first Resolve of an
// identity, and each factory runs at most once until an explicit Reset or
// Substitute starts a new epoch for that identity. A factory failure is
// cached the same way a value is — every later Resolve returns the stored
// error without re-running the factory.
//
// A Container is safe for concurrent use. Create one per process at
// bootstrap, or a fresh one per test for isolation; there is no package-level
// instance.
type Container struct {
	mu sync.RWMutex

	// identity → active provider definition
	providers map[string]*Provider

	// identity → resolution state for the current epoch
	cache map[string]*entry

	// alias → canonical identity
	aliases map[string]string

	registerOnce bool
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithRegisterOnce makes Register fail with ErrDuplicate when the identity
// already has a provider, instead of the default last-registration-wins.
// Substitute is unaffected — it is the explicit replacement path.
func WithRegisterOnce() Option {
	return func(c *Container) { c.registerOnce = true }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		providers: make(map[string]*Provider),
		cache:     make(map[string]*entry),
		aliases:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	// The container can resolve itself, so factories that need to resolve
	// identities dynamically can declare a dependency on "container".
	c.Instance("container", c)
	return c
}

// ── Registration ─────────────────────────────────────────────────────────────

// Register installs a provider for id.
//
//	c.Register("db", nil, func(...any) (any, error) {
//	    return database.Open(dsn)
//	})
//	c.Register("users", []string{"db", "mailer"}, func(deps ...any) (any, error) {
//	    return services.NewUserService(deps[0].(*database.UserStore), deps[1].(services.Mailer)), nil
//	})
//
// By default the last registration wins. Replacing a provider whose value was
// already resolved also clears the cached value, so the next Resolve uses the
// new factory rather than serving a value built by a discarded one.
// In register-once mode (WithRegisterOnce) a second Register for the same
// identity fails with ErrDuplicate and leaves the existing provider in place.
func (c *Container) Register(id string, dependsOn []string, build Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(id)
	if _, exists := c.providers[key]; exists && c.registerOnce {
		return fmt.Errorf("%w: %q", ErrDuplicate, key)
	}
	c.install(key, dependsOn, build)
	return nil
}

// Instance installs a pre-built value: a dependency-free provider plus an
// already-Resolved cache entry, so Resolve(id) returns value without any
// construction.
func (c *Container) Instance(id string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(id)
	c.providers[key] = &Provider{
		ID:    key,
		Build: func(...any) (any, error) { return value, nil },
	}
	c.cache[key] = &entry{state: stateResolved, value: value}
}

// Substitute atomically replaces the provider for id and invalidates any
// cached result, so the next Resolve uses build. This is the test-injection
// path: swap a production provider for an in-memory fake that satisfies the
// same identity, without touching consumer code.
//
//	c.Substitute("mailer", func(...any) (any, error) {
//	    return &fakeMailer{}, nil
//	})
//
// Substitute bypasses register-once mode. It must not race with an in-flight
// resolution of id (see Reset).
func (c *Container) Substitute(id string, build Factory, dependsOn ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.install(c.canonical(id), dependsOn, build)
}

// install replaces the provider and drops the stale cache entry (must hold mu).
func (c *Container) install(key string, dependsOn []string, build Factory) {
	deps := make([]string, len(dependsOn))
	copy(deps, dependsOn)
	c.providers[key] = &Provider{ID: key, DependsOn: deps, Build: build}
	delete(c.cache, key)
}

// Alias registers an alternative name for an identity.
func (c *Container) Alias(id, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", id))
	}
	c.aliases[alias] = c.canonical(id)
}

// Lookup returns the active provider for id, or ErrNotFound.
func (c *Container) Lookup(id string) (*Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.providers[c.canonical(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve returns the value for id, building it (and its dependency chain)
// on first use.
//
// Errors: ErrNotFound if id has no provider, ErrCycle if id transitively
// depends on itself, FactoryError if a construction routine failed. Failures
// other than ErrNotFound are cached and returned verbatim to every later
// caller until Reset or Substitute.
//
// Resolve may block while another goroutine is constructing the same
// identity; it never blocks on construction of unrelated identities.
func (c *Container) Resolve(id string) (any, error) {
	return c.resolve(id, nil)
}

// resolve is one frame of the recursive descent. path holds the identities
// currently InProgress on this call chain, outermost first.
func (c *Container) resolve(id string, path []string) (any, error) {
	c.mu.RLock()
	key := c.canonical(id)
	c.mu.RUnlock()

	// Cycle check before touching the entry lock: the entry for an ancestor
	// is held by this very goroutine, so locking it again would deadlock.
	for _, ancestor := range path {
		if ancestor == key {
			cycle := make([]string, 0, len(path)+1)
			cycle = append(cycle, path...)
			cycle = append(cycle, key)
			return nil, &CycleError{Path: cycle}
		}
	}

	e := c.entryFor(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateResolved:
		return e.value, nil
	case stateFailed:
		return nil, e.err
	}

	p, err := c.Lookup(key)
	if err != nil {
		// Unregistered identities stay Unresolved: a later Register
		// must be able to succeed.
		return nil, err
	}

	e.state = stateInProgress
	path = append(path, key)

	deps := make([]any, len(p.DependsOn))
	for i, depID := range p.DependsOn {
		v, err := c.resolve(depID, path)
		if err != nil {
			// A failed dependency fails this identity too, without
			// invoking its factory; the error propagates verbatim.
			e.state = stateFailed
			e.err = err
			return nil, err
		}
		deps[i] = v
	}

	v, err := p.Build(deps...)
	if err != nil {
		e.state = stateFailed
		e.err = &FactoryError{ID: key, Cause: err}
		return nil, e.err
	}
	e.state = stateResolved
	e.value = v
	return v, nil
}

// entryFor returns the cache entry for key, creating it on first use.
func (c *Container) entryFor(key string) *entry {
	c.mu.RLock()
	e, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cache[key]; ok {
		return e
	}
	e = &entry{}
	c.cache[key] = e
	return e
}

// ── Reset ────────────────────────────────────────────────────────────────────

// Reset clears the cached result for id, starting a new epoch: the next
// Resolve runs the provider's factory again.
//
// Precondition: no resolution of id is currently in flight. Reset does not
// enforce this — a racing resolution completes against the old epoch's entry
// and its result is lost. Callers (typically test teardown) must sequence
// Reset after their resolutions.
func (c *Container) Reset(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, c.canonical(id))
}

// Flush drops every provider, cached value, and alias.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = make(map[string]*Provider)
	c.cache = make(map[string]*entry)
	c.aliases = make(map[string]string)
}

// ── Introspection ────────────────────────────────────────────────────────────

// Bound reports whether id has a registered provider.
func (c *Container) Bound(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.providers[c.canonical(id)]
	return ok
}

// Resolved reports whether id has a cached value in the current epoch.
func (c *Container) Resolved(id string) bool {
	c.mu.RLock()
	e, ok := c.cache[c.canonical(id)]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	// An entry locked by an in-flight resolution is InProgress, not Resolved.
	if !e.mu.TryLock() {
		return false
	}
	defer e.mu.Unlock()
	return e.state == stateResolved
}

// Bindings returns the registered identities (for debugging / health output).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.providers))
	for k := range c.providers {
		out = append(out, k)
	}
	return out
}

// canonical resolves an alias to its canonical identity (must hold mu, any mode).
func (c *Container) canonical(id string) string {
	if target, ok := c.aliases[id]; ok {
		return target
	}
	return id
}

// ── Generics helpers ─────────────────────────────────────────────────────────

// Resolve is a generic helper that resolves id and type-asserts the result.
//
//	store, err := container.Resolve[*database.UserStore](c, "db")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	v, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: resolve %q: have %T, want %T", id, v, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error — for bootstrap wiring
// where a missing binding is a programming mistake.
func MustResolve[T any](c *Container, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}
