package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/logging"
	"github.com/km-arc/go-locator/framework/providers"
	"github.com/km-arc/go-locator/framework/routing"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Set(), app.Get(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Options tweak New.
type Options struct {
	// EnvFiles are loaded before reading the environment (default ".env").
	EnvFiles []string
	// LogOutput receives the log stream (default os.Stderr).
	LogOutput io.Writer
}

// New loads configuration, builds the logger and container, and registers
// the framework providers. The inspector is skipped when INSPECTOR_ENABLED
// is false.
func New(opts Options) (*Application, error) {
	cfg := config.Load(opts.EnvFiles...)

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := logging.New(cfg.Log, out)

	c := container.New(container.WithLogger(log.WithName("container")))
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
	}
	if cfg.Inspector.Enabled {
		core = append(core, &providers.InspectorServiceProvider{Prefix: cfg.Inspector.Prefix})
	}
	for _, p := range core {
		if err := registry.Register(p); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(p container.ServiceProvider) error {
	return a.Providers.Register(p)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.Config)
}

// Logger resolves the application logger from the container.
func (a *Application) Logger() logr.Logger {
	return container.MustResolve[logr.Logger](a.Container, providers.Logger)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, providers.Router)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled, then shuts the server down within APP_SHUTDOWN_TIMEOUT.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	cfg := a.Config()
	log := a.Logger()
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving", "app", cfg.App.Name, "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
