package container

import (
	"golang.org/x/sync/errgroup"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations so application wiring stays in
// one place per concern.
//
// Register installs providers into the container; nothing is constructed yet,
// because the container is lazy. Boot runs after every ServiceProvider has
// registered, making it safe to resolve other identities there.
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(app *container.Container) {
//	    app.Register("mailer", []string{"config"}, func(deps ...any) (any, error) {
//	        return mail.NewSMTP(deps[0].(*config.Config).Mail), nil
//	    })
//	}
type ServiceProvider interface {
	// Register installs providers into the container.
	// Do NOT resolve other identities here — use Boot() for that.
	Register(app *Container)

	// Boot is called after all service providers are registered and the
	// identities in Provides() have been eagerly resolved.
	Boot(app *Container)

	// Provides returns the identities this provider wants constructed
	// eagerly at boot, so a broken dependency chain fails startup instead
	// of the first request. Return nil to stay fully lazy.
	Provides() []string
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot() and Provides().
// Embed it and override only what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a service provider and calls its Register() method.
// Registering the same provider instance twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	provider.Register(r.app)
	r.providers = append(r.providers, provider)

	// A provider registered after Boot() is booted immediately.
	if r.booted {
		provider.Boot(r.app)
	}
}

// Boot eagerly resolves every identity the providers advertise through
// Provides(), then runs each provider's Boot() hook. Eager resolution runs
// concurrently; the container's single-flight cache keeps shared dependency
// chains from being built more than once. The first resolution failure aborts
// the boot — startup is the place to discover a broken chain, not the first
// request.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true

	var g errgroup.Group
	for _, provider := range r.providers {
		for _, id := range provider.Provides() {
			id := id
			g.Go(func() error {
				_, err := r.app.Resolve(id)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, provider := range r.providers {
		provider.Boot(r.app)
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered service providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
