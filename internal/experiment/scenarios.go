package experiment

import (
	"math"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/forces"
	"github.com/san-kum/mechsim/internal/metrics"
	"github.com/san-kum/mechsim/internal/motor"
	"github.com/san-kum/mechsim/internal/physics"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/vec"
)

const (
	pivotK  = 1000
	pivotC  = 100
	sliderK = 1000
	sliderC = 100
)

func probe(name string, f func() float64) sim.Probe {
	return sim.Probe{Name: name, Sample: f}
}

func field(cfg *config.Config) vec.Vector {
	return vec.XY(0, -cfg.Gravity)
}

// hanging returns the angle of a bar measured from straight down.
func hanging(b *physics.Bar) float64 {
	return b.Angle() + math.Pi/2
}

// swing returns the angle of p around the anchor, measured from straight down.
func swing(p, anchor *physics.Particle) float64 {
	d := p.Position().Sub(anchor.Position())
	return math.Atan2(d.X(), -d.Y())
}

func anchor(name string, p vec.Vector) (*physics.Particle, error) {
	return physics.NewParticle(physics.ParticleSpec{Name: name, Mass: 1, Position: p, Fixed: true})
}

// pendulumBar builds a bar hanging from p at angle from straight down,
// spinning about p with omega.
func pendulumBar(name string, p vec.Vector, length, angle, omega float64) (*physics.Bar, error) {
	theta := angle - math.Pi/2
	dir := vec.XY(math.Cos(theta), math.Sin(theta))
	return physics.NewBar(physics.BarSpec{
		Name:            name,
		Mass:            1,
		Length:          length,
		Position:        p,
		Velocity:        dir.Perp().Scale(omega * length / 2),
		Angle:           theta,
		AngularVelocity: omega,
		FromEnd:         true,
	})
}

func pulse(name string, target dynamo.Entity, f vec.Vector, point float64) (*forces.Pulse, error) {
	p, err := forces.NewPulse(target, f, point)
	if err != nil {
		return nil, err
	}
	p.SetName(name)
	return p, nil
}

func buildBounce(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	ball, err := physics.NewParticle(physics.ParticleSpec{
		Name:     "ball",
		Mass:     1,
		Position: vec.XY(0, cfg.Initial.Height),
		Velocity: vec.XY(cfg.Initial.Speed, 0),
	})
	if err != nil {
		return nil, err
	}
	floor, err := forces.NewBounce(forces.AxisY, cfg.Bounce.K, cfg.Dt)
	if err != nil {
		return nil, err
	}
	kick, err := pulse("kick", ball, vec.XY(0, 10/cfg.Dt), 0)
	if err != nil {
		return nil, err
	}

	u.AddEntity(ball)
	u.AddGenerators(forces.NewGravity(field(cfg)), floor, kick)
	u.AddMetric(metrics.NewEnergy(field(cfg)))
	u.AddMetric(metrics.NewEnergyDrift(field(cfg)))

	h := math.Max(cfg.Initial.Height, 1)
	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("y", func() float64 { return ball.Position().Y() }),
			probe("vy", func() float64 { return ball.Velocity().Y() }),
			probe("x", func() float64 { return ball.Position().X() }),
		},
		Pulses: []*forces.Pulse{kick},
		View:   View{Min: vec.XY(-h, -0.1*h), Max: vec.XY(h, 1.2*h)},
	}, nil
}

func buildSpring(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	rest := cfg.Initial.Length
	base, err := anchor("base", vec.Zero)
	if err != nil {
		return nil, err
	}
	mass, err := physics.NewParticle(physics.ParticleSpec{
		Name:     "mass",
		Mass:     1,
		Position: vec.XY(rest+cfg.Initial.Offset, 0),
		Velocity: vec.XY(cfg.Initial.Speed, 0),
	})
	if err != nil {
		return nil, err
	}
	spring, err := forces.NewSpringDamper(base, mass, cfg.Spring.K, cfg.Spring.C, rest)
	if err != nil {
		return nil, err
	}
	kick, err := pulse("kick", mass, vec.XY(5/cfg.Dt, 0), 0)
	if err != nil {
		return nil, err
	}

	u.AddEntity(base, mass)
	u.AddGenerators(spring, kick)
	u.AddMetric(metrics.NewBounded(10 * rest))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("x", func() float64 { return mass.Position().X() - rest }),
			probe("v", func() float64 { return mass.Velocity().X() }),
		},
		Pulses: []*forces.Pulse{kick},
		View:   View{Min: vec.XY(-0.5*rest, -rest), Max: vec.XY(2.5*rest, rest)},
	}, nil
}

func buildPendulum(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	l := cfg.Initial.Length
	a := cfg.Initial.Angle

	pin, err := anchor("pin", vec.Zero)
	if err != nil {
		return nil, err
	}
	rod, err := pendulumBar("rod", pin.Position(), l, a, cfg.Initial.Omega)
	if err != nil {
		return nil, err
	}
	pivot, err := forces.NewPivot(rod, -1, pin, pivotK, pivotC)
	if err != nil {
		return nil, err
	}

	// A point pendulum of half the bar length, hung beside it.
	hook, err := anchor("hook", vec.XY(1.5*l, 0))
	if err != nil {
		return nil, err
	}
	r := l / 2
	bob, err := physics.NewParticle(physics.ParticleSpec{
		Name:     "bob",
		Mass:     1,
		Position: hook.Position().Add(vec.XY(r*math.Sin(a), -r*math.Cos(a))),
		Velocity: vec.XY(r*cfg.Initial.Omega*math.Cos(a), r*cfg.Initial.Omega*math.Sin(a)),
	})
	if err != nil {
		return nil, err
	}
	kick, err := pulse("kick", rod, vec.XY(2/cfg.Dt, 0), 1)
	if err != nil {
		return nil, err
	}

	u.AddEntity(pin, rod, hook, bob)
	u.AddGenerators(forces.NewGravity(field(cfg)), pivot, forces.NewLink(hook, bob), kick)
	u.AddMetric(metrics.NewEnergy(field(cfg)))
	u.AddMetric(metrics.NewEnergyDrift(field(cfg)))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("angle", func() float64 { return hanging(rod) }),
			probe("omega", func() float64 { return rod.AngularVelocity() }),
			probe("bob_angle", func() float64 { return swing(bob, hook) }),
		},
		Pulses: []*forces.Pulse{kick},
		View:   View{Min: vec.XY(-1.2*l, -1.2*l), Max: vec.XY(2.2*l, 0.5*l)},
	}, nil
}

func buildCoupledPendulums(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	l := cfg.Initial.Length

	left, err := anchor("left-pin", vec.XY(30, 30))
	if err != nil {
		return nil, err
	}
	right, err := anchor("right-pin", vec.XY(30+2*l, 30))
	if err != nil {
		return nil, err
	}
	b1, err := pendulumBar("left", left.Position(), l, cfg.Initial.Angle, cfg.Initial.Omega)
	if err != nil {
		return nil, err
	}
	b2, err := pendulumBar("right", right.Position(), l, 0, 0)
	if err != nil {
		return nil, err
	}
	p1, err := forces.NewPivot(b1, -1, left, pivotK, pivotC)
	if err != nil {
		return nil, err
	}
	p2, err := forces.NewPivot(b2, -1, right, pivotK, pivotC)
	if err != nil {
		return nil, err
	}
	p2.SetName("pivot-right")
	rest := b2.PointPosition(1).Sub(b1.PointPosition(1)).Len()
	coupling, err := forces.NewSpringDamperBar(b1, 1, b2, 1, cfg.Spring.K, cfg.Spring.C, rest)
	if err != nil {
		return nil, err
	}
	k1, err := pulse("kick-left", b1, vec.XY(200, 0), 1)
	if err != nil {
		return nil, err
	}
	k2, err := pulse("kick-right", b2, vec.XY(-200, 0), 1)
	if err != nil {
		return nil, err
	}

	u.AddEntity(left, right, b1, b2)
	u.AddGenerators(forces.NewGravity(field(cfg)), p1, p2, coupling, k1, k2)
	u.AddMetric(metrics.NewEnergy(field(cfg)))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("angle1", func() float64 { return hanging(b1) }),
			probe("angle2", func() float64 { return hanging(b2) }),
		},
		Pulses: []*forces.Pulse{k1, k2},
		View:   View{Min: vec.XY(30-1.5*l, 30-1.5*l), Max: vec.XY(30+3.5*l, 30+0.5*l)},
	}, nil
}

func buildTrampoline(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	ground, err := physics.NewBar(physics.BarSpec{Name: "ground", Mass: 1, Length: 100, Position: vec.XY(0, 30), FromEnd: true, Fixed: true})
	if err != nil {
		return nil, err
	}
	low, err := physics.NewBar(physics.BarSpec{Name: "low", Mass: 1, Length: 30, Position: vec.XY(35, 35), FromEnd: true})
	if err != nil {
		return nil, err
	}
	high, err := physics.NewBar(physics.BarSpec{Name: "high", Mass: 1, Length: 30, Position: vec.XY(35, 40), FromEnd: true})
	if err != nil {
		return nil, err
	}

	pairs := []struct {
		b0 *physics.Bar
		a0 float64
		b1 *physics.Bar
		a1 float64
	}{
		{ground, -1.0 / 5, low, -2.0 / 3},
		{ground, 1.0 / 5, low, 2.0 / 3},
		{low, -2.0 / 3, high, -2.0 / 3},
		{low, 2.0 / 3, high, 2.0 / 3},
	}
	gens := []dynamo.Generator{forces.NewGravity(field(cfg))}
	for _, p := range pairs {
		rest := p.b1.PointPosition(p.a1).Sub(p.b0.PointPosition(p.a0)).Len()
		s, err := forces.NewSpringDamperBar(p.b0, p.a0, p.b1, p.a1, cfg.Spring.K, cfg.Spring.C, rest)
		if err != nil {
			return nil, err
		}
		gens = append(gens, s)
	}
	push, err := pulse("push", high, vec.XY(0, -100), 0)
	if err != nil {
		return nil, err
	}
	gens = append(gens, push)

	u.AddEntity(ground, low, high)
	u.AddGenerators(gens...)
	u.AddMetric(metrics.NewEnergy(field(cfg)))
	u.AddMetric(metrics.NewBounded(500))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("low_y", func() float64 { return low.Position().Y() }),
			probe("high_y", func() float64 { return high.Position().Y() }),
			probe("high_angle", func() float64 { return high.Angle() }),
		},
		Pulses: []*forces.Pulse{push},
		View:   View{Min: vec.XY(-5, 0), Max: vec.XY(105, 60)},
	}, nil
}

func newMotor(cfg *config.Config, mount vec.Vector) (*motor.Motor, error) {
	m, err := motor.New(motor.Spec{
		Name:  "motor",
		R:     cfg.Motor.R,
		L:     cfg.Motor.L,
		Kc:    cfg.Motor.Kc,
		Ke:    cfg.Motor.Ke,
		J:     cfg.Motor.J,
		F:     cfg.Motor.F,
		Mount: mount,
	})
	if err != nil {
		return nil, err
	}
	m.SetVoltage(cfg.Motor.Voltage)
	m.SetLoadInertia(cfg.Motor.LoadInertia)
	m.SetExternalTorque(cfg.Motor.ExternalTorque)
	m.SetViscosity(cfg.Motor.Viscosity)
	return m, nil
}

func buildMotorParticle(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	m, err := newMotor(cfg, vec.XY(50, 50))
	if err != nil {
		return nil, err
	}
	p, err := physics.NewParticle(physics.ParticleSpec{Name: "load", Mass: 1, Position: vec.XY(40, 50)})
	if err != nil {
		return nil, err
	}
	spring, err := forces.NewMotorSpring(m, p, cfg.Spring.K, cfg.Spring.C)
	if err != nil {
		return nil, err
	}

	u.AddEntity(p)
	u.AddMotor(m)
	u.AddGenerators(forces.NewMotorForce(m, p), spring)
	u.AddMetric(metrics.NewControlEffort(m))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("distance", spring.Radius),
			probe("omega", m.Speed),
			probe("particle_speed", func() float64 { return p.Velocity().Len() }),
			probe("current", m.Current),
		},
		View: View{Min: vec.XY(25, 35), Max: vec.XY(75, 65)},
	}, nil
}

// controllerOptions maps the configured limits onto law options. A zero
// limit keeps the controller's own default.
func controllerOptions(cfg *config.Config) []control.Option {
	var opts []control.Option
	if cfg.Controller.VoltageLimit > 0 {
		opts = append(opts, control.WithVoltageLimit(cfg.Controller.VoltageLimit))
	}
	if cfg.Controller.IntegralLimit > 0 {
		opts = append(opts, control.WithIntegralLimit(cfg.Controller.IntegralLimit))
	}
	return opts
}

func buildPIDSpeed(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	m, err := newMotor(cfg, vec.Zero)
	if err != nil {
		return nil, err
	}
	m.SetVoltage(0)
	c := cfg.Controller
	ctrl := control.NewSpeed(m, c.Kp, c.Ki, c.Kd, controllerOptions(cfg)...)
	ctrl.SetTarget(c.Target)

	u.AddDriver(ctrl)
	u.AddMetric(metrics.NewControlEffort(ctrl))
	u.AddMetric(metrics.NewTrackingError(ctrl))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("speed", m.Speed),
			probe("voltage", ctrl.Voltage),
			probe("current", m.Current),
			probe("integral", ctrl.Integral),
		},
		Extras: []dynamo.Drawer{m},
		View:   View{Min: vec.XY(-2, -2), Max: vec.XY(2, 2)},
	}, nil
}

func buildPIDPosition(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	m, err := newMotor(cfg, vec.Zero)
	if err != nil {
		return nil, err
	}
	m.SetVoltage(0)
	c := cfg.Controller
	ctrl := control.NewPosition(m, c.Kp, c.Ki, c.Kd, controllerOptions(cfg)...)
	ctrl.SetTarget(c.Target)

	u.AddDriver(ctrl)
	u.AddMetric(metrics.NewControlEffort(ctrl))
	u.AddMetric(metrics.NewTrackingError(ctrl))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("position", ctrl.Measured),
			probe("speed", m.Speed),
			probe("voltage", ctrl.Voltage),
		},
		Extras: []dynamo.Drawer{m},
		View:   View{Min: vec.XY(-2, -2), Max: vec.XY(2, 2)},
	}, nil
}

func buildInvertedPendulum(cfg *config.Config) (*Scenario, error) {
	u, err := sim.New(cfg.Dt)
	if err != nil {
		return nil, err
	}
	l := cfg.Initial.Length
	upright := math.Pi / 2

	rail, err := anchor("rail", vec.Zero)
	if err != nil {
		return nil, err
	}
	base, err := physics.NewBar(physics.BarSpec{Name: "base", Mass: 1, Length: 10})
	if err != nil {
		return nil, err
	}
	theta := upright - cfg.Initial.Angle
	pole, err := physics.NewBar(physics.BarSpec{
		Name:            "pole",
		Mass:            1,
		Length:          l,
		Position:        base.Position(),
		Velocity:        vec.XY(math.Cos(theta), math.Sin(theta)).Perp().Scale(cfg.Initial.Omega * l / 2),
		Angle:           theta,
		AngularVelocity: cfg.Initial.Omega,
		FromEnd:         true,
	})
	if err != nil {
		return nil, err
	}
	slider, err := forces.NewSlider(base, 0, rail, vec.XY(1, 0), sliderK, sliderC)
	if err != nil {
		return nil, err
	}
	joint, err := forces.NewBarJoint(base, 0, pole, -1)
	if err != nil {
		return nil, err
	}
	c := cfg.Controller
	stab, err := forces.NewStabilizer(pole, base, forces.StabilizerSpec{
		Kp:       c.Kp,
		Ki:       c.Ki,
		Kd:       c.Kd,
		Target:   upright - c.Target,
		MaxForce: c.MaxForce,
		Axis:     vec.XY(1, 0),
		Step:     cfg.Dt,
	})
	if err != nil {
		return nil, err
	}
	nudge, err := pulse("nudge", pole, vec.XY(20, 0), 1)
	if err != nil {
		return nil, err
	}

	u.AddEntity(rail, base, pole)
	u.AddGenerators(forces.NewGravity(field(cfg)), slider, joint, stab, nudge)
	u.AddMetric(metrics.NewBounded(10 * l))

	return &Scenario{
		Universe: u,
		Probes: []sim.Probe{
			probe("tilt", func() float64 { return upright - pole.Angle() }),
			probe("omega", pole.AngularVelocity),
			probe("base_x", func() float64 { return base.Position().X() }),
			probe("force", stab.Output),
		},
		Pulses: []*forces.Pulse{nudge},
		View:   View{Min: vec.XY(-2*l, -0.5*l), Max: vec.XY(2*l, 1.5*l)},
	}, nil
}
