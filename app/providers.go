package app

import (
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/app/services"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads configuration from .env / the environment and
// binds it as "config".
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	_ = app.Register("config", nil, func(...any) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("config", "configuration")
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the shared structured logger as "log".
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) {
	_ = app.Register("log", []string{"config"}, func(deps ...any) (any, error) {
		cfg := deps[0].(*config.Config)
		log := logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if cfg.App.Debug {
			log.SetLevel(logrus.DebugLevel)
		}
		return log, nil
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router as "router".
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	_ = app.Register("router", nil, func(...any) (any, error) {
		return routing.New(), nil
	})
}

// ── EventServiceProvider ──────────────────────────────────────────────────────

// EventServiceProvider binds the process-local event bus as "events" and, at
// boot, subscribes an audit log line to user registrations.
type EventServiceProvider struct {
	container.BaseProvider
}

func (p *EventServiceProvider) Register(app *container.Container) {
	_ = app.Register("events", nil, func(...any) (any, error) {
		return services.NewBus(), nil
	})
}

func (p *EventServiceProvider) Boot(app *container.Container) {
	bus := container.MustResolve[*services.Bus](app, "events")
	log := container.MustResolve[*logrus.Logger](app, "log")
	_ = bus.Subscribe(services.TopicUserRegistered, func(u services.User) {
		log.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("audit: user registered")
	})
}

// ── DatabaseServiceProvider ───────────────────────────────────────────────────

// DatabaseServiceProvider binds the sqlite user store as "db". The identity
// is advertised for eager boot: an unreachable database fails startup.
type DatabaseServiceProvider struct {
	container.BaseProvider
}

func (p *DatabaseServiceProvider) Register(app *container.Container) {
	_ = app.Register("db", []string{"config"}, func(deps ...any) (any, error) {
		cfg := deps[0].(*config.Config)
		return services.OpenUserStore(cfg.DB.DSN)
	})
}

func (p *DatabaseServiceProvider) Provides() []string { return []string{"db"} }

// ── MailServiceProvider ───────────────────────────────────────────────────────

// MailServiceProvider binds the outbound mail client as "mailer".
type MailServiceProvider struct {
	container.BaseProvider
}

func (p *MailServiceProvider) Register(app *container.Container) {
	_ = app.Register("mailer", []string{"config", "log"}, func(deps ...any) (any, error) {
		cfg := deps[0].(*config.Config)
		log := deps[1].(*logrus.Logger)
		return services.NewSMTPMailer(cfg.Mail, log), nil
	})
}

// ── StorageServiceProvider ────────────────────────────────────────────────────

// StorageServiceProvider binds the directory-backed blob store as "storage".
type StorageServiceProvider struct {
	container.BaseProvider
}

func (p *StorageServiceProvider) Register(app *container.Container) {
	_ = app.Register("storage", []string{"config"}, func(deps ...any) (any, error) {
		cfg := deps[0].(*config.Config)
		return services.NewBlobStore(cfg.Storage.Dir)
	})
}

// ── UserServiceProvider ───────────────────────────────────────────────────────

// UserServiceProvider binds the user business service as "users". Its
// dependency list is the whole point of the demo: the container resolves
// db → mailer → events → log in declared order, each at most once.
type UserServiceProvider struct {
	container.BaseProvider
}

func (p *UserServiceProvider) Register(app *container.Container) {
	_ = app.Register("users", []string{"db", "mailer", "events", "log"}, func(deps ...any) (any, error) {
		return services.NewUserService(
			deps[0].(services.UserRepository),
			deps[1].(services.Mailer),
			deps[2].(*services.Bus),
			deps[3].(*logrus.Logger),
		), nil
	})
}
