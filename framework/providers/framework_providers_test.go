package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-locator/framework/config"
	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/providers"
	"github.com/km-arc/go-locator/framework/routing"
)

func newRegistry(t *testing.T, ps ...container.ServiceProvider) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	return c, reg
}

func core(inspector *providers.InspectorServiceProvider) []container.ServiceProvider {
	return []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: &config.Config{App: config.AppConfig{Name: "test"}}},
		&providers.LoggingServiceProvider{Logger: logr.Discard()},
		&providers.RoutingServiceProvider{},
		inspector,
	}
}

func TestConfigAndLogger_AreLiterals(t *testing.T) {
	c, _ := newRegistry(t, core(&providers.InspectorServiceProvider{})...)

	cfg := container.MustResolve[*config.Config](c, providers.Config)
	assert.Equal(t, "test", cfg.App.Name)

	_, err := container.Resolve[logr.Logger](c, providers.Logger)
	require.NoError(t, err)
	assert.False(t, c.Frozen(providers.Config), "literals are never frozen")
}

func TestRouter_IsSingleton(t *testing.T) {
	c, _ := newRegistry(t, core(&providers.InspectorServiceProvider{})...)

	r1 := container.MustResolve[*routing.Router](c, providers.Router)
	r2 := container.MustResolve[*routing.Router](c, providers.Router)
	assert.Same(t, r1, r2)
	assert.True(t, c.Frozen(providers.Router))
}

func TestRouter_NeedsLogger(t *testing.T) {
	c, _ := newRegistry(t, &providers.RoutingServiceProvider{})

	_, err := c.Get(providers.Router)
	require.ErrorIs(t, err, container.ErrNotFound)
}

func TestInspector_MountedOnBoot(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   string
	}{
		{"default prefix", "", "/container/config"},
		{"custom prefix", "/debug/defs", "/debug/defs/config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reg := newRegistry(t, core(&providers.InspectorServiceProvider{Prefix: tt.prefix})...)
			require.NoError(t, reg.Boot())

			rr := httptest.NewRecorder()
			router := container.MustResolve[*routing.Router](c, providers.Router)
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), `"name":"config"`)
		})
	}
}

func TestInspector_BootWithoutRouter(t *testing.T) {
	_, reg := newRegistry(t, &providers.InspectorServiceProvider{})

	err := reg.Boot()
	require.ErrorIs(t, err, container.ErrNotFound)
	assert.Contains(t, err.Error(), "boot *providers.InspectorServiceProvider")
}
