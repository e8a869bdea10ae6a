package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalled int
	bootCalled     int
}

func (p *eagerProvider) Register(c *container.Container) error {
	p.registerCalled++
	return c.Set("eager-svc", func(_ *container.Container) any { return "eager" })
}

func (p *eagerProvider) Boot(_ *container.Container) error {
	p.bootCalled++
	return nil
}

// deferredProvider is lazy: only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalled int
	bootCalled     int
}

func (p *deferredProvider) Register(c *container.Container) error {
	p.registerCalled++
	if err := c.Set("deferred-svc", func(_ *container.Container) any { return "deferred-value" }); err != nil {
		return err
	}
	return c.Set("deferred-other", "other-value")
}

func (p *deferredProvider) Boot(_ *container.Container) error {
	p.bootCalled++
	return nil
}

func (p *deferredProvider) IsDeferred() bool { return true }
func (p *deferredProvider) Provides() []string {
	return []string{"deferred-svc", "deferred-other"}
}

// liarProvider claims a name it never registers.
type liarProvider struct{ container.BaseProvider }

func (p *liarProvider) Register(_ *container.Container) error { return nil }
func (p *liarProvider) IsDeferred() bool                      { return true }
func (p *liarProvider) Provides() []string                    { return []string{"promised"} }

// failingProvider fails to register.
type failingProvider struct{ container.BaseProvider }

func (p *failingProvider) Register(_ *container.Container) error { return errBoom }

// bootFailingProvider fails to boot.
type bootFailingProvider struct{ container.BaseProvider }

func (p *bootFailingProvider) Register(_ *container.Container) error { return nil }
func (p *bootFailingProvider) Boot(_ *container.Container) error     { return errors.New("no boot") }

// multiProvider registers multiple names.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(c *container.Container) error {
	if err := c.Set("alpha", func(_ *container.Container) any { return "α" }); err != nil {
		return err
	}
	return c.Set("beta", func(_ *container.Container) any { return "β" })
}

// ── Container.Register ────────────────────────────────────────────────────────

func TestContainerRegister_ValuesOverrideProvider(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register(&multiProvider{}, map[string]any{"beta": "b"}))

	assert.Equal(t, "α", c.MustGet("alpha"))
	assert.Equal(t, "b", c.MustGet("beta"))
}

func TestContainerRegister_ProviderError(t *testing.T) {
	c := container.New()
	err := c.Register(&failingProvider{}, map[string]any{"x": 1})
	require.ErrorIs(t, err, errBoom)
	assert.False(t, c.Exists("x"))
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalled, "Register() should be called immediately for eager providers")
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	assert.Zero(t, p.bootCalled, "Boot() should NOT be called before registry.Boot()")

	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, p.bootCalled)
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Boot())

	assert.Equal(t, "eager", container.MustResolve[string](c, "eager-svc"))
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	require.NoError(t, reg.Boot())
	require.NoError(t, reg.Boot())

	assert.True(t, reg.Booted())
	assert.Equal(t, 1, p.bootCalled)
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	assert.False(t, reg.Booted())
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalled)
}

func TestRegistry_RegisterError(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	err := reg.Register(&failingProvider{})
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "register *container_test.failingProvider")
}

func TestRegistry_BootError(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Register(&bootFailingProvider{}))
	require.EqualError(t, reg.Boot(), "boot *container_test.bootFailingProvider: no boot")
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.Zero(t, p.registerCalled, "deferred provider Register() should not be called until Get()")
	assert.True(t, c.Exists("deferred-svc"), "provided names are bound to stubs")
}

func TestRegistry_DeferredProvider_RegisteredOnFirstGet(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.Equal(t, "deferred-value", container.MustResolve[string](c, "deferred-svc"))
	assert.Equal(t, "other-value", container.MustResolve[string](c, "deferred-other"))

	assert.Equal(t, 1, p.registerCalled)
	assert.Equal(t, 1, p.bootCalled, "loaded after Boot(), so booted on load")
	assert.True(t, c.Frozen("deferred-svc"))
	assert.Len(t, reg.Providers(), 1)
}

func TestRegistry_DeferredProvider_ExtendKeepsDecoration(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	require.NoError(t, c.Extend("deferred-svc", func(v any, _ *container.Container) (any, error) {
		return v.(string) + "+decorated", nil
	}))
	assert.Equal(t, 1, p.registerCalled, "Extend loads the provider before decorating")

	first := container.MustResolve[string](c, "deferred-svc")
	second := container.MustResolve[string](c, "deferred-svc")
	assert.Equal(t, "deferred-value+decorated", first)
	assert.Equal(t, first, second)
	assert.True(t, c.Frozen("deferred-svc"))
	assert.Equal(t, 1, p.registerCalled)
}

func TestRegistry_DeferredProvider_ExtendMissingRegistration(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&liarProvider{}))

	err := c.Extend("promised", func(v any, _ *container.Container) (any, error) { return v, nil })
	require.ErrorIs(t, err, container.ErrNotFound)
	assert.Contains(t, err.Error(), "did not register it")
}

func TestRegistry_DeferredProvider_LoadedBeforeBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))

	_ = c.MustGet("deferred-svc")
	assert.Zero(t, p.bootCalled)

	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, p.bootCalled)
}

func TestRegistry_DeferredProvider_MissingRegistration(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&liarProvider{}))

	_, err := c.Get("promised")
	require.ErrorIs(t, err, container.ErrNotFound)
	assert.Contains(t, err.Error(), "did not register it")
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&multiProvider{}))
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Boot())

	assert.Equal(t, "α", c.MustGet("alpha"))
	assert.Equal(t, "β", c.MustGet("beta"))
	assert.Equal(t, "eager", c.MustGet("eager-svc"))
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsLoadedOnes(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Register(&deferredProvider{}))

	assert.Len(t, reg.Providers(), 1, "deferred providers are listed once loaded")
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider

	assert.NoError(t, p.Boot(container.New()))
	assert.False(t, p.IsDeferred())
	assert.Empty(t, p.Provides())
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Boot())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.bootCalled, "provider registered after Boot() should be booted immediately")
}
