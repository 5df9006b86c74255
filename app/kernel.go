package app

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// Application is the top-level composition root. It embeds the container and
// a ProviderRegistry so bootstrap code can register providers and resolve
// identities through one handle.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the built-in service providers.
// Nothing is constructed until Boot (eager identities) or first Resolve.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&LogServiceProvider{})
	registry.Register(&RoutingServiceProvider{})
	registry.Register(&EventServiceProvider{})
	registry.Register(&DatabaseServiceProvider{})
	registry.Register(&MailServiceProvider{})
	registry.Register(&StorageServiceProvider{})
	registry.Register(&UserServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot eagerly constructs the identities the providers advertise. A broken
// dependency chain surfaces here, not on the first request.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Log resolves the shared logger from the container.
func (a *Application) Log() *logrus.Logger {
	return container.MustResolve[*logrus.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	addr := ":" + cfg.App.Port
	a.Log().WithFields(logrus.Fields{
		"addr": addr,
		"env":  cfg.App.Env,
	}).Infof("%s listening", cfg.App.Name)
	return http.ListenAndServe(addr, a.Router())
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
