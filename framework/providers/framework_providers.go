package providers

import (
	"github.com/go-logr/logr"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	gohttp "github.com/km-arc/go-locator/framework/http"
	"github.com/km-arc/go-locator/framework/routing"
)

// Names bound by the framework providers.
const (
	Config    = "config"
	Logger    = "logger"
	Router    = "router"
	Inspector = "inspector"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound names:
//   - "config" → *config.Config (literal)
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *container.Container) error {
	return c.Set(Config, p.Config)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound names:
//   - "logger" → logr.Logger (literal)
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger logr.Logger
}

func (p *LoggingServiceProvider) Register(c *container.Container) error {
	return c.Set(Logger, p.Logger)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound names:
//   - "router" → *routing.Router (singleton, logs through "logger")
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(c *container.Container) error {
	return c.Set(Router, func(c *container.Container) (any, error) {
		log, err := container.Resolve[logr.Logger](c, Logger)
		if err != nil {
			return nil, err
		}
		return routing.New(log), nil
	})
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider exposes the container's registry over HTTP.
//
// Bound names:
//   - "inspector" → *gohttp.Inspector (singleton)
//
// Boot mounts the inspector on "router" under Prefix (default "/container").
type InspectorServiceProvider struct {
	container.BaseProvider
	Prefix string
}

func (p *InspectorServiceProvider) Register(c *container.Container) error {
	return c.Set(Inspector, func(c *container.Container) any {
		return gohttp.NewInspector(c)
	})
}

func (p *InspectorServiceProvider) Boot(c *container.Container) error {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "/container"
	}

	router, err := container.Resolve[*routing.Router](c, Router)
	if err != nil {
		return err
	}
	inspector, err := container.Resolve[*gohttp.Inspector](c, Inspector)
	if err != nil {
		return err
	}
	inspector.Routes(router, prefix)
	return nil
}
