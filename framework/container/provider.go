package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register binds definitions into the container and should not resolve
// anything. Boot runs after every provider has been registered, so it is safe
// to resolve other names there.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(c *container.Container) error {
//	    return c.Set("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	}
type ServiceProvider interface {
	Register(c *Container) error

	Boot(c *Container) error

	// Provides lists the names a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of the
	// Provides() names is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string     { return nil }
func (p *BaseProvider) IsDeferred() bool       { return false }

// Register runs p.Register against c and then sets every pair of values,
// which lets callers override the provider's defaults.
//
//	c.Register(&MailProvider{}, map[string]any{"mail.host": "smtp.local"})
func (c *Container) Register(p ServiceProvider, values map[string]any) error {
	if err := p.Register(c); err != nil {
		return err
	}
	return c.setAll(values)
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers against one container,
// including deferred providers that only register on first use.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]*loadState
	booted     bool
}

type loadState struct {
	once sync.Once
	err  error
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]*loadState),
	}
}

// Register adds a provider. Eager providers are registered immediately, and
// booted immediately too if Boot already ran. Registering the same provider
// twice is a no-op.
func (r *ProviderRegistry) Register(p ServiceProvider) error {
	r.mu.Lock()
	if r.registered[p] {
		r.mu.Unlock()
		return nil
	}
	r.registered[p] = true
	r.mu.Unlock()

	if p.IsDeferred() {
		return r.interceptDeferred(p)
	}
	return r.load(p)
}

// interceptDeferred binds a stub under each provided name. The first Get of
// any of them loads the provider, and the stub then resolves the real
// definition the provider registered.
func (r *ProviderRegistry) interceptDeferred(p ServiceProvider) error {
	for _, name := range p.Provides() {
		var stub *Definition
		stub = Deferred(func(c *Container) (any, error) {
			if err := r.load(p); err != nil {
				return nil, err
			}
			if def, err := c.Raw(name); err == nil && def == stub {
				return nil, &Error{Op: "provide", Name: name, Err: ErrNotFound,
					Detail: fmt.Sprintf("deferred provider %T did not register it", p)}
			}
			return c.Get(name)
		})
		stub.provide = func() error { return r.load(p) }
		if err := r.app.Set(name, stub); err != nil {
			return err
		}
	}
	return nil
}

// load registers p once, and boots it if the registry is already booted.
// Concurrent callers wait for the first one and share its error.
func (r *ProviderRegistry) load(p ServiceProvider) error {
	r.mu.Lock()
	st, ok := r.loaded[p]
	if !ok {
		st = &loadState{}
		r.loaded[p] = st
	}
	r.mu.Unlock()

	st.once.Do(func() {
		if err := p.Register(r.app); err != nil {
			st.err = fmt.Errorf("register %T: %w", p, err)
			return
		}

		// Either Boot sees p in eager, or p sees booted: never both.
		r.mu.Lock()
		r.eager = append(r.eager, p)
		booted := r.booted
		r.mu.Unlock()

		if booted {
			if err := p.Boot(r.app); err != nil {
				st.err = fmt.Errorf("boot %T: %w", p, err)
			}
		}
	})
	return st.err
}

// Boot calls Boot on every loaded provider. Later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, p := range providers {
		if err := p.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", p, err)
		}
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the loaded providers in load order. Deferred providers
// appear once they have been loaded.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
