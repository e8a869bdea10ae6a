package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/km-arc/go-locator/framework/container"
	gohttp "github.com/km-arc/go-locator/framework/http"
	"github.com/km-arc/go-locator/framework/providers"
	"github.com/km-arc/go-locator/framework/routing"
)

// Greeter is the demo service.
type Greeter struct {
	Greeting    string
	Punctuation string
}

func (g *Greeter) Greet(name string) string {
	return g.Greeting + ", " + name + g.Punctuation
}

const defaultGreeting = "Hello"

func newGreeter(c *container.Container) (any, error) {
	greeting, err := container.Resolve[string](c, "greeting")
	if err != nil {
		return nil, err
	}
	return &Greeter{Greeting: greeting, Punctuation: "."}, nil
}

// setGreeting swaps the greeting literal and drops the cached greeter so the
// next call builds one with the new greeting.
func setGreeting(c *container.Container, greeting string) error {
	if err := c.Set("greeting", greeting); err != nil {
		return err
	}
	c.Remove("greeter")
	return c.Set("greeter", newGreeter)
}

// GreeterServiceProvider shows each kind of definition.
//
// Bound names:
//   - "greeting"       → string (literal)
//   - "greeter"        → *Greeter (singleton)
//   - "greeter.params" → map (literal parameter set)
//   - "greeter.custom" → *Greeter (parameterized factory)
//   - "request.id"     → string (factory, fresh per call)
type GreeterServiceProvider struct {
	container.BaseProvider
}

func (p *GreeterServiceProvider) Register(c *container.Container) error {
	custom, err := c.DeclareFactory(container.ParamConstructor(func(params container.Params) (any, error) {
		greeting, err := params.String("greeting")
		if err != nil {
			return nil, err
		}
		punct, _ := params.String("punctuation")
		return &Greeter{Greeting: greeting, Punctuation: punct}, nil
	}))
	if err != nil {
		return err
	}

	for _, def := range []struct {
		name string
		v    any
	}{
		{"greeting", defaultGreeting},
		{"greeter", newGreeter},
		{"greeter.params", map[string]any{"greeting": "Howdy", "punctuation": "!"}},
		{"greeter.custom", custom},
		{"request.id", c.Factory(func(*container.Container) (any, error) { return uuid.NewString(), nil })},
	} {
		if err := c.Set(def.name, def.v); err != nil {
			return err
		}
	}
	return nil
}

func (p *GreeterServiceProvider) Boot(c *container.Container) error {
	router, err := container.Resolve[*routing.Router](c, providers.Router)
	if err != nil {
		return err
	}

	router.Group(func(r *routing.Router) {
		r.Middleware(middleware.NoCache)

		r.Prefix("/greet", func(r *routing.Router) {
			// GET /greet/{name}
			r.Get("/{name}", func(w http.ResponseWriter, req *http.Request) {
				res := gohttp.NewResponse(w)
				v, err := c.CallMethod("greeter", "Greet", routing.Param(req, "name"))
				if err != nil {
					res.ServerError(err.Error())
					return
				}
				res.Success(map[string]any{"message": v})
			})

			// GET /greet/{name}/custom
			r.Get("/{name}/custom", func(w http.ResponseWriter, req *http.Request) {
				res := gohttp.NewResponse(w)
				v, err := c.ResolveWithParams("greeter.custom", "greeter.params")
				if err != nil {
					res.ServerError(err.Error())
					return
				}
				res.Success(map[string]any{"message": v.(*Greeter).Greet(routing.Param(req, "name"))})
			})
		})

		// POST /greeting {"greeting": "Hi"}
		r.Post("/greeting", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)
			var body struct {
				Greeting string `json:"greeting"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Greeting == "" {
				res.Error(http.StatusBadRequest, "greeting is required")
				return
			}
			if err := setGreeting(c, body.Greeting); err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(map[string]any{"greeting": body.Greeting})
		})

		// DELETE /greeting restores the default
		r.Delete("/greeting", func(w http.ResponseWriter, _ *http.Request) {
			res := gohttp.NewResponse(w)
			if err := setGreeting(c, defaultGreeting); err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(map[string]any{"greeting": defaultGreeting})
		})
	})

	router.Get("/request-id", func(w http.ResponseWriter, _ *http.Request) {
		res := gohttp.NewResponse(w)
		id, err := container.Resolve[string](c, "request.id")
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Success(map[string]any{"id": id})
	})
	return nil
}
