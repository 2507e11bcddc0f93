package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/forces"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/vec"
)

// View is the world rectangle a renderer should show.
type View struct {
	Min, Max vec.Vector
}

// Scenario is a ready-to-run universe together with what is worth watching
// in it.
type Scenario struct {
	Name        string
	Description string
	Universe    *sim.Universe
	Probes      []sim.Probe
	// Pulses are the one-shot kicks a user may trigger.
	Pulses []*forces.Pulse
	// Extras are drawn after the universe; motors stepped by a controller
	// live here instead of in the universe.
	Extras []dynamo.Drawer
	View   View
}

// Draw renders the universe and the extras.
func (s *Scenario) Draw(c dynamo.Canvas, scale float64) {
	s.Universe.Draw(c, scale)
	for _, d := range s.Extras {
		d.Draw(c, scale)
	}
}

// ArmPulses arms every idle pulse.
func (s *Scenario) ArmPulses() {
	for _, p := range s.Pulses {
		p.Arm()
	}
}

// Builder constructs a fresh scenario from a configuration.
type Builder func(cfg *config.Config) (*Scenario, error)

type entry struct {
	description string
	build       Builder
}

type Registry struct {
	scenarios map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]entry)}

	r.Register("bounce", "particle falling under gravity onto the floor y=0", buildBounce)
	r.Register("spring", "particle on a spring-damper tied to a fixed anchor", buildSpring)
	r.Register("pendulum", "bar pivoted at one end next to a point pendulum of half its length", buildPendulum)
	r.Register("coupled_pendulums", "two pivoted bars whose tips are joined by a spring", buildCoupledPendulums)
	r.Register("trampoline", "two stacked bars on springs above a fixed bar", buildTrampoline)
	r.Register("motor_particle", "particle spun around a DC motor by its torque", buildMotorParticle)
	r.Register("pid_speed", "DC motor under a speed PID", buildPIDSpeed)
	r.Register("pid_position", "DC motor under a position PID", buildPIDPosition)
	r.Register("inverted_pendulum", "bar balanced upright on a sliding base by a PID", buildInvertedPendulum)

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name, description string, b Builder) {
	r.scenarios[name] = entry{description: description, build: b}
}

// Build validates cfg and constructs the scenario it names.
func (r *Registry) Build(cfg *config.Config) (*Scenario, error) {
	e, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := e.build(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scenario, err)
	}
	s.Name = cfg.Scenario
	s.Description = e.description
	return s, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.scenarios[name]
	return ok
}

func (r *Registry) Description(name string) string {
	return r.scenarios[name].description
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
