// Package container provides a lazy service locator.
//
// # Overview
//
// A Container binds names to definitions. A definition is either a literal,
// returned verbatim, or a deferred constructor that is invoked with the
// container the first time the name is resolved. There is no auto-wiring:
// constructors pull their own dependencies out of the container they receive.
//
// # Lifecycle of a name
//
//	unregistered ──Set──▶ registered ──Get──▶ frozen
//	                          │
//	                          └── (factory) Get re-invokes, never frozen
//
// Remove returns any state to unregistered. A frozen name keeps its cached
// value and rejects Set and Extend with ErrFrozen until it is removed.
//
// # Definitions
//
//	// Literal
//	c.Set("dsn", "postgres://localhost/app")
//
//	// Singleton: invoked once, cached
//	c.Set("db", func(c *container.Container) (any, error) {
//	    return sql.Open("pgx", container.MustResolve[string](c, "dsn"))
//	})
//
//	// Factory: invoked on every Get
//	c.Set("request", c.Factory(func(c *container.Container) (any, error) {
//	    return &Request{}, nil
//	}))
//
//	// A callable stored as a value
//	c.Set("hash", container.Protect(sha256.Sum256))
//
// Factory marking follows the definition, not the name: one factory
// definition bound under two names is a factory under both.
//
// # Resolving
//
//	v, err := c.Get("db")
//	db, err := container.Resolve[*sql.DB](c, "db")
//
// # Extend
//
//	c.Extend("db", func(v any, c *container.Container) (any, error) {
//	    db := v.(*sql.DB)
//	    db.SetMaxOpenConns(10)
//	    return db, nil
//	})
//
// # Parameters
//
// Factories built with Parameterized receive a Params bag. ResolveWithParams
// fills it from a mapping registered under another name:
//
//	def, _ := c.DeclareFactory(container.Parameterized(func(p container.Params) (any, error) {
//	    host, err := p.String("host")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Client{Host: host}, nil
//	}))
//	c.Set("client", def)
//	c.Set("clientParams", map[string]any{"host": "example.org"})
//	client, err := c.ResolveWithParams("client", "clientParams")
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.Set("mailer", newMailer)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Concurrency
//
// A Container is safe for concurrent use. Concurrent first resolutions of the
// same singleton invoke its constructor once and all observe the same value.
// A singleton whose constructor resolves its own name deadlocks.
package container
