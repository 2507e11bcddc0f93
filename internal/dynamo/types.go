package dynamo

import "github.com/san-kum/mechsim/internal/vec"

// Kind identifies the capability of an entity so generators can dispatch
// without inspecting concrete types.
type Kind int

const (
	KindParticle Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "particle"
	case KindBar:
		return "bar"
	}
	return "unknown"
}

// Canvas is the surface entities draw on. Coordinates are pixels in world
// orientation: y grows upward.
type Canvas interface {
	Plot(x, y int)
	Line(x0, y0, x1, y1 int)
}

// Drawer is implemented by anything that can render itself on a Canvas.
// scale converts world units to pixels.
type Drawer interface {
	Draw(c Canvas, scale float64)
}

// Entity is a mechanical body advanced by the universe.
type Entity interface {
	Drawer
	Name() string
	Kind() Kind
	Mass() float64
	Position() vec.Vector
	Velocity() vec.Vector
	Fixed() bool
	// Integrate advances the body by dt using the loads accumulated since
	// the previous call, then clears them.
	Integrate(dt float64)
}

// Generator contributes forces to entities. Apply must be a no-op for
// entities the generator does not act on.
type Generator interface {
	Name() string
	Active() bool
	Accepts(k Kind) bool
	Apply(e Entity) error
}

// StepFinisher is implemented by generators with per-step bookkeeping. The
// universe calls EndStep once after every entity has integrated.
type StepFinisher interface {
	EndStep()
}

// Driver is stepped once per step before any force is applied.
type Driver interface {
	Drive(dt float64) error
}

// Configurable exposes tunable parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}
