package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// Universe owns the entities, motors, generators and drivers of one
// simulation and advances them with a fixed step.
type Universe struct {
	step       float64
	time       float64
	steps      int
	entities   []dynamo.Entity
	motors     []Motor
	generators []dynamo.Generator
	finishers  []dynamo.StepFinisher
	drivers    []dynamo.Driver
	observers  []Observer
	metrics    []Metric
}

func New(step float64) (*Universe, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("step %v: %w", step, dynamo.ErrInvalidStep)
	}
	return &Universe{step: step}, nil
}

func (u *Universe) Step() float64 { return u.step }
func (u *Universe) Time() float64 { return u.time }
func (u *Universe) Steps() int    { return u.steps }

// Entities returns the entities in insertion order.
func (u *Universe) Entities() []dynamo.Entity {
	out := make([]dynamo.Entity, len(u.entities))
	copy(out, u.entities)
	return out
}

func (u *Universe) Motors() []Motor {
	out := make([]Motor, len(u.motors))
	copy(out, u.motors)
	return out
}

func (u *Universe) AddEntity(es ...dynamo.Entity) { u.entities = append(u.entities, es...) }
func (u *Universe) AddMotor(ms ...Motor)          { u.motors = append(u.motors, ms...) }
func (u *Universe) AddDriver(ds ...dynamo.Driver) { u.drivers = append(u.drivers, ds...) }
func (u *Universe) AddObserver(o Observer)        { u.observers = append(u.observers, o) }
func (u *Universe) AddMetric(m Metric)            { u.metrics = append(u.metrics, m) }

// AddGenerators registers generators in order. Generators that also finish
// steps get their EndStep hook called by the universe.
func (u *Universe) AddGenerators(gs ...dynamo.Generator) {
	for _, g := range gs {
		u.generators = append(u.generators, g)
		if f, ok := g.(dynamo.StepFinisher); ok {
			u.finishers = append(u.finishers, f)
		}
	}
}

// Generators returns the generators in insertion order.
func (u *Universe) Generators() []dynamo.Generator {
	out := make([]dynamo.Generator, len(u.generators))
	copy(out, u.generators)
	return out
}

// Generator finds the first generator with the given name.
func (u *Universe) Generator(name string) (dynamo.Generator, bool) {
	for _, g := range u.generators {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// Metrics returns the registered metrics.
func (u *Universe) Metrics() []Metric {
	out := make([]Metric, len(u.metrics))
	copy(out, u.metrics)
	return out
}

// SimulateAll advances the universe by one step: drivers, forces,
// entity integration, motors, end-of-step hooks, then time.
func (u *Universe) SimulateAll() error {
	for _, d := range u.drivers {
		if err := d.Drive(u.step); err != nil {
			return u.fail("", err)
		}
	}

	for _, e := range u.entities {
		kind := e.Kind()
		for _, g := range u.generators {
			if !g.Active() || !g.Accepts(kind) {
				continue
			}
			if err := g.Apply(e); err != nil {
				return u.fail(e.Name(), fmt.Errorf("%s: %w", g.Name(), err))
			}
		}
	}

	for _, e := range u.entities {
		e.Integrate(u.step)
	}
	for _, m := range u.motors {
		m.Integrate(u.step)
	}
	for _, f := range u.finishers {
		f.EndStep()
	}

	u.time += u.step
	u.steps++

	for _, m := range u.metrics {
		m.OnStep(u)
	}
	for _, o := range u.observers {
		o.OnStep(u)
	}
	return nil
}

// StepsFor is the number of steps SimulateFor takes for duration.
func (u *Universe) StepsFor(duration float64) (int, error) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("duration %v: %w", duration, dynamo.ErrInvalidDuration)
	}
	return int(math.Round(duration / u.step)), nil
}

// SimulateFor runs round(duration/step) steps.
func (u *Universe) SimulateFor(duration float64) error {
	n, err := u.StepsFor(duration)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := u.SimulateAll(); err != nil {
			return err
		}
	}
	return nil
}

// Run simulates for duration, sampling every probe at t=0 and after each
// step. It stops early when ctx is done or a probe turns non-finite, and
// returns the partial trace alongside the error.
func (u *Universe) Run(ctx context.Context, duration float64, probes ...Probe) (*Result, error) {
	n, err := u.StepsFor(duration)
	if err != nil {
		return nil, err
	}

	result := newResult(probes, n+1)
	for _, m := range u.metrics {
		m.Reset()
	}

	if err := u.sample(result, probes); err != nil {
		return result, err
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			u.collect(result)
			return result, ctx.Err()
		default:
		}

		if err := u.SimulateAll(); err != nil {
			u.collect(result)
			return result, err
		}
		result.Steps++

		if err := u.sample(result, probes); err != nil {
			u.collect(result)
			return result, err
		}
	}

	u.collect(result)
	return result, nil
}

func (u *Universe) sample(r *Result, probes []Probe) error {
	r.Times = append(r.Times, u.time)
	for _, p := range probes {
		v := p.Sample()
		r.Series[p.Name] = append(r.Series[p.Name], v)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return u.fail(p.Name, dynamo.ErrUnstable)
		}
	}
	return nil
}

func (u *Universe) collect(r *Result) {
	for _, m := range u.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func (u *Universe) fail(entity string, err error) error {
	return &dynamo.SimulationError{Step: u.steps, Time: u.time, Entity: entity, Wrapped: err}
}

// Draw renders every entity and motor. Collaborators call it; the step
// loop never does.
func (u *Universe) Draw(c dynamo.Canvas, scale float64) {
	for _, e := range u.entities {
		e.Draw(c, scale)
	}
	for _, m := range u.motors {
		m.Draw(c, scale)
	}
}
