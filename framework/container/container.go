package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service locator.
//
// It holds:
//   - the registry: name → *Definition
//   - the factory marker set, keyed by definition identity
//   - the frozen marker set, keyed by name
//   - the singleton cache for frozen names
//
// All of it is guarded by one lock. Constructors run without the lock held,
// so they may resolve other names from the container they receive.
type Container struct {
	mu sync.RWMutex

	// name → definition
	entries map[string]*Definition

	// definition identity → factory marker
	factories map[uuid.UUID]struct{}

	// name → frozen marker
	frozen map[string]struct{}

	// name → resolved singleton value
	instances map[string]any

	// resolved callbacks: []func(name, value)
	afterResolving []func(string, any)

	// in-flight singleton resolutions, keyed by name + definition identity
	flight singleflight.Group

	log logr.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution events.
// Events are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(c *Container) { c.log = l }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entries:   make(map[string]*Definition),
		factories: make(map[uuid.UUID]struct{}),
		frozen:    make(map[string]struct{}),
		instances: make(map[string]any),
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWith creates a container and registers every pair of values with Set.
// Pairs are inserted in name order.
func NewWith(values map[string]any, opts ...Option) (*Container, error) {
	c := New(opts...)
	if err := c.setAll(values); err != nil {
		return nil, err
	}
	return c, nil
}

// ── Registration ──────────────────────────────────────────────────────────────

// Set binds v to name. v is coerced with Define, so constructor funcs become
// deferred definitions and everything else is stored as a literal.
//
// Set fails with ErrFrozen when name has already been resolved as a
// singleton. Unresolved names are simply overwritten.
//
//	c.Set("dsn", "postgres://localhost/app")
//	c.Set("db", func(c *container.Container) (any, error) {
//	    dsn, err := container.Resolve[string](c, "dsn")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return sql.Open("pgx", dsn)
//	})
func (c *Container) Set(name string, v any) error {
	if name == "" {
		return invalid("set", name, "empty name")
	}
	def := Define(v)
	if def == nil {
		return invalid("set", name, "nil definition")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set(name, def)
}

// set is the internal registration helper (must hold mu.Lock).
func (c *Container) set(name string, def *Definition) error {
	if _, ok := c.frozen[name]; ok {
		return frozen("set", name)
	}
	c.entries[name] = def
	c.log.V(1).Info("definition registered", "name", name, "kind", def.kind.String())
	return nil
}

func (c *Container) setAll(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := c.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether name has a definition, frozen or not.
func (c *Container) Exists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Remove deletes the definition, frozen marker and cached value of name.
// Removing an absent name is a no-op.
func (c *Container) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
	delete(c.frozen, name)
	delete(c.instances, name)
}

// Raw returns the definition stored under name exactly as registered.
func (c *Container) Raw(name string) (*Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.entries[name]
	if !ok {
		return nil, notFound("raw", name)
	}
	return def, nil
}

// DeclareFactory marks the identity of a deferred definition as a factory and
// returns it, so the result can be passed straight to Set. v is coerced with
// Define. Every name the definition is bound to then resolves fresh on each
// Get.
//
// Literals fail with ErrInvalidDefinition. A definition already resolved as a
// singleton under some name fails with ErrFrozen.
func (c *Container) DeclareFactory(v any) (*Definition, error) {
	def := Define(v)
	if def == nil || !def.IsDeferred() {
		return nil, invalid("factory", "", "not invocable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.frozen {
		if c.entries[name] == def {
			return nil, frozen("factory", name)
		}
	}
	c.factories[def.id] = struct{}{}
	return def, nil
}

// Factory wraps fn in a fresh deferred definition marked as a factory.
//
//	c.Set("request", c.Factory(func(c *container.Container) (any, error) {
//	    return &Request{ID: uuid.NewString()}, nil
//	}))
func (c *Container) Factory(fn Constructor) *Definition {
	def := Deferred(fn)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[def.id] = struct{}{}
	return def
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend replaces the definition of name with one that resolves the old
// definition and passes the result through dec.
//
//	c.Extend("logger", func(v any, c *container.Container) (any, error) {
//	    return &TimestampLogger{Inner: v.(*Logger)}, nil
//	})
//
// Extend fails with ErrNotFound when name is unregistered and ErrFrozen when
// it is already resolved; in both cases nothing changes. A factory stays a
// factory after being extended.
//
// A name bound by a deferred provider loads that provider first, so the
// decorator wraps the definition the provider registers.
func (c *Container) Extend(name string, dec Decorator) error {
	if dec == nil {
		return invalid("extend", name, "nil decorator")
	}

	c.mu.RLock()
	old, ok := c.entries[name]
	c.mu.RUnlock()
	if ok && old.provide != nil {
		if err := old.provide(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok = c.entries[name]
	if !ok {
		return notFound("extend", name)
	}
	if old.provide != nil {
		return &Error{Op: "extend", Name: name, Err: ErrNotFound,
			Detail: "deferred provider did not register it"}
	}
	if _, ok := c.frozen[name]; ok {
		return frozen("extend", name)
	}

	extended := old.decorate(dec)
	if _, ok := c.factories[old.id]; ok && old.IsDeferred() {
		c.factories[extended.id] = struct{}{}
	}
	return c.set(name, extended)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name.
//
//   - literals are returned verbatim
//   - factories are invoked on every call and never cached
//   - everything else is invoked once, cached, and the name frozen; later
//     calls return the cached value
//
// A constructor error is returned as is and leaves the name unfrozen.
//
// A singleton constructor must not resolve its own name, directly or through
// other definitions: the nested Get waits on the outer one and never returns.
func (c *Container) Get(name string) (any, error) {
	c.mu.RLock()
	def, ok := c.entries[name]
	if !ok {
		c.mu.RUnlock()
		return nil, notFound("get", name)
	}
	if !def.IsDeferred() {
		c.mu.RUnlock()
		return def.value, nil
	}
	if _, ok := c.factories[def.id]; ok {
		c.mu.RUnlock()
		return c.invoke(name, def, nil)
	}
	if inst, ok := c.instances[name]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	c.mu.RUnlock()

	return c.resolveSingleton(name, def)
}

// MustGet is like Get but panics on error.
func (c *Container) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// resolveSingleton invokes def at most once for name. Concurrent callers
// share one invocation; callers arriving after it finished read the cache.
func (c *Container) resolveSingleton(name string, def *Definition) (any, error) {
	key := name + "\x00" + def.id.String()
	v, err, _ := c.flight.Do(key, func() (any, error) {
		c.mu.RLock()
		if inst, ok := c.instances[name]; ok && c.entries[name] == def {
			c.mu.RUnlock()
			return inst, nil
		}
		c.mu.RUnlock()

		v, err := c.invoke(name, def, nil)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// Removed, replaced or marked as a factory while resolving: the value
		// goes back to the callers but the name stays mutable.
		if _, factory := c.factories[def.id]; c.entries[name] == def && !factory {
			c.instances[name] = v
			c.frozen[name] = struct{}{}
			c.log.V(1).Info("definition frozen", "name", name)
		}
		return v, nil
	})
	return v, err
}

// invoke runs def and fires the afterResolving callbacks.
func (c *Container) invoke(name string, def *Definition, p Params) (any, error) {
	v, err := def.invoke(c, p)
	if err != nil {
		c.log.V(1).Info("resolution failed", "name", name, "error", err.Error())
		return nil, err
	}
	c.log.V(1).Info("resolved", "name", name)
	c.fireAfterResolving(name, v)
	return v, nil
}

// ResolveWithParams invokes the factory bound to name with a copy of the
// mapping bound to paramsName, plus the container under ContainerKey.
//
//	c.Set("mailer", c.Factory(...))            // or Parameterized + DeclareFactory
//	c.Set("mailerParams", map[string]any{"host": "smtp.local", "port": 25})
//	m, err := c.ResolveWithParams("mailer", "mailerParams")
//
// Checks, in order: name registered (ErrNotFound), name deferred and
// factory-marked (ErrInvalidDefinition), paramsName registered
// (ErrNotFound), paramsName a literal string-keyed map
// (ErrInvalidDefinition). The stored mapping is never modified and the
// result is never cached.
func (c *Container) ResolveWithParams(name, paramsName string) (any, error) {
	const op = "resolve-with-params"

	c.mu.RLock()
	def, ok := c.entries[name]
	if !ok {
		c.mu.RUnlock()
		return nil, notFound(op, name)
	}
	if !def.IsDeferred() {
		c.mu.RUnlock()
		return nil, invalid(op, name, "not invocable")
	}
	if _, ok := c.factories[def.id]; !ok {
		c.mu.RUnlock()
		return nil, invalid(op, name, "not a factory")
	}
	pdef, ok := c.entries[paramsName]
	c.mu.RUnlock()
	if !ok {
		return nil, notFound(op, paramsName)
	}

	if pdef.IsDeferred() {
		return nil, invalid(op, paramsName, "parameters must be a literal mapping")
	}
	params, ok := paramsFrom(pdef.value)
	if !ok {
		return nil, invalid(op, paramsName, fmt.Sprintf("parameters must be a mapping, got %T", pdef.value))
	}
	if params == nil {
		params = Params{}
	}
	params[ContainerKey] = c

	return c.invoke(name, def, params)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Frozen reports whether name has been resolved as a singleton.
func (c *Container) Frozen(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.frozen[name]
	return ok
}

// IsFactory reports whether the definition bound to name is factory-marked.
func (c *Container) IsFactory(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.entries[name]
	if !ok || !def.IsDeferred() {
		return false
	}
	_, ok = c.factories[def.id]
	return ok
}

// Len returns the number of registered names.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Names returns the registered names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after every successful invocation
// of a deferred definition: the first resolution of a singleton and every
// resolution of a factory. Literals and cache hits do not fire it.
func (c *Container) AfterResolving(cb func(name string, v any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(name string, v any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(name, v)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, invalid("resolve", name,
			fmt.Sprintf("resolved to %T, want %s", v, reflect.TypeFor[T]()))
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}
