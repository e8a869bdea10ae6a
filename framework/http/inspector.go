package http

import (
	"errors"
	"net/http"

	"github.com/km-arc/go-locator/framework/container"
	"github.com/km-arc/go-locator/framework/routing"
)

// Inspector serves read-only views of a container's registry. It never
// resolves anything, so inspecting a name cannot freeze it.
type Inspector struct {
	c *container.Container
}

// NewInspector creates an Inspector over c.
func NewInspector(c *container.Container) *Inspector {
	return &Inspector{c: c}
}

// Routes mounts the inspector under prefix:
//
//	GET {prefix}         → {"data": [Entry, ...]}
//	GET {prefix}/{name}  → {"data": Entry} | 404
func (i *Inspector) Routes(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(r *routing.Router) {
		r.Get("/", i.Index)
		r.Get("/{name}", i.Show)
	})
}

// Index lists every registered name with its state.
func (i *Inspector) Index(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(i.c.Entries())
}

// Show describes one name.
func (i *Inspector) Show(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	e, err := i.c.Describe(routing.Param(r, "name"))
	switch {
	case errors.Is(err, container.ErrNotFound):
		res.NotFound(err.Error())
	case err != nil:
		res.ServerError(err.Error())
	default:
		res.Success(e)
	}
}
