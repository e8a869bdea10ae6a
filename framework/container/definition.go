package container

import (
	"github.com/google/uuid"
)

// ── Definition types ──────────────────────────────────────────────────────────

// Constructor builds a service value from the container.
type Constructor func(c *Container) (any, error)

// ParamConstructor builds a service value from a parameter bag. The bag
// always carries the container under ContainerKey.
type ParamConstructor func(p Params) (any, error)

// Decorator receives the resolved value of the definition it extends plus the
// container, and returns the value that replaces it.
type Decorator func(v any, c *Container) (any, error)

// Kind tells a literal definition from a deferred one.
type Kind int

const (
	// KindLiteral definitions are returned verbatim and never invoked.
	KindLiteral Kind = iota
	// KindDeferred definitions are invoked with the container on resolution.
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Definition is the value bound to a name: either a literal or a deferred
// constructor. Deferred definitions carry an identity token assigned at
// construction, which is what factory marking is keyed on.
type Definition struct {
	id    uuid.UUID
	kind  Kind
	value any
	ctor  Constructor
	pctor ParamConstructor

	// provide loads the deferred provider a placeholder stands in for.
	provide func() error
}

// Value wraps v as a literal definition.
func Value(v any) *Definition {
	return &Definition{kind: KindLiteral, value: v}
}

// Protect stores a callable as a literal, so Get returns the function itself
// instead of invoking it.
//
//	c.Set("hasher", container.Protect(func(s string) string { return sha(s) }))
func Protect(fn any) *Definition {
	return Value(fn)
}

// Deferred wraps fn as a deferred definition with a fresh identity.
func Deferred(fn Constructor) *Definition {
	if fn == nil {
		panic("container: Deferred called with a nil constructor")
	}
	return &Definition{id: uuid.New(), kind: KindDeferred, ctor: fn}
}

// Parameterized wraps fn as a deferred definition that receives a parameter
// bag. Through Get the bag only holds the container; ResolveWithParams fills
// it from a registered mapping.
func Parameterized(fn ParamConstructor) *Definition {
	if fn == nil {
		panic("container: Parameterized called with a nil constructor")
	}
	return &Definition{id: uuid.New(), kind: KindDeferred, pctor: fn}
}

// Define coerces v into a Definition:
//
//   - *Definition                     → itself
//   - Constructor, func(*Container) (any, error) → Deferred
//   - func(*Container) any            → Deferred
//   - ParamConstructor, func(Params) (any, error) → Parameterized
//   - anything else                   → Value
//
// Functions of any other shape are literals. A nil constructor of one of the
// deferred shapes yields nil.
func Define(v any) *Definition {
	switch d := v.(type) {
	case *Definition:
		return d
	case Constructor:
		if d == nil {
			return nil
		}
		return Deferred(d)
	case func(*Container) (any, error):
		if d == nil {
			return nil
		}
		return Deferred(d)
	case func(*Container) any:
		if d == nil {
			return nil
		}
		return Deferred(func(c *Container) (any, error) { return d(c), nil })
	case ParamConstructor:
		if d == nil {
			return nil
		}
		return Parameterized(d)
	case func(Params) (any, error):
		if d == nil {
			return nil
		}
		return Parameterized(d)
	default:
		return Value(v)
	}
}

// Kind reports whether the definition is a literal or deferred.
func (d *Definition) Kind() Kind { return d.kind }

// IsDeferred is shorthand for Kind() == KindDeferred.
func (d *Definition) IsDeferred() bool { return d.kind == KindDeferred }

// ID returns the identity token of a deferred definition (uuid.Nil for literals).
func (d *Definition) ID() uuid.UUID { return d.id }

// Literal returns the stored value of a literal definition, nil otherwise.
func (d *Definition) Literal() any {
	if d.kind != KindLiteral {
		return nil
	}
	return d.value
}

// Invoke runs the definition against c without touching any registry state.
// Literals return their value.
func (d *Definition) Invoke(c *Container) (any, error) {
	return d.invoke(c, nil)
}

func (d *Definition) invoke(c *Container, p Params) (any, error) {
	switch {
	case d.kind == KindLiteral:
		return d.value, nil
	case d.pctor != nil:
		if p == nil {
			p = Params{ContainerKey: c}
		}
		return d.pctor(p)
	default:
		return d.ctor(c)
	}
}

// decorate builds the definition Extend stores: it invokes d, then dec. A
// parameter-aware d stays parameter-aware.
func (d *Definition) decorate(dec Decorator) *Definition {
	if d.pctor != nil {
		return Parameterized(func(p Params) (any, error) {
			v, err := d.invoke(p.Container(), p)
			if err != nil {
				return nil, err
			}
			return dec(v, p.Container())
		})
	}
	return Deferred(func(c *Container) (any, error) {
		v, err := d.invoke(c, nil)
		if err != nil {
			return nil, err
		}
		return dec(v, c)
	})
}
