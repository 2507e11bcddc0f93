package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/forces"
	"github.com/san-kum/mechsim/internal/motor"
	"github.com/san-kum/mechsim/internal/physics"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/vec"
)

// recorder notes the entities it is applied to.
type recorder struct {
	forces.Switch
	seen []string
	err  error
}

func (r *recorder) Accepts(dynamo.Kind) bool { return true }

func (r *recorder) Apply(e dynamo.Entity) error {
	r.seen = append(r.seen, e.Name())
	return r.err
}

type counter struct{ n int }

func (c *counter) OnStep(*sim.Universe) { c.n++ }

func mustParticle(spec physics.ParticleSpec) *physics.Particle {
	p, err := physics.NewParticle(spec)
	Expect(err).NotTo(HaveOccurred())
	return p
}

func mustBar(spec physics.BarSpec) *physics.Bar {
	b, err := physics.NewBar(spec)
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Universe", func() {
	var u *sim.Universe

	BeforeEach(func() {
		var err error
		u, err = sim.New(0.001)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a non-positive step", func() {
		_, err := sim.New(0)
		Expect(err).To(MatchError(dynamo.ErrInvalidStep))
		_, err = sim.New(-1)
		Expect(err).To(MatchError(dynamo.ErrInvalidStep))
	})

	Describe("SimulateFor", func() {
		It("rounds the number of steps", func() {
			coarse, _ := sim.New(0.1)
			Expect(coarse.StepsFor(0.3)).To(Equal(3))
			Expect(coarse.SimulateFor(0.3)).To(Succeed())
			Expect(coarse.Steps()).To(Equal(3))
			Expect(coarse.Time()).To(BeNumerically("~", 0.3, 1e-12))
		})

		It("rejects a negative duration", func() {
			Expect(u.SimulateFor(-1)).To(MatchError(dynamo.ErrInvalidDuration))
		})

		It("does nothing for a zero duration", func() {
			Expect(u.SimulateFor(0)).To(Succeed())
			Expect(u.Steps()).To(BeZero())
		})
	})

	Describe("SimulateAll", func() {
		It("applies generators per entity in insertion order", func() {
			a := mustParticle(physics.ParticleSpec{Name: "a", Mass: 1})
			b := mustBar(physics.BarSpec{Name: "b", Mass: 1, Length: 1})
			c := mustParticle(physics.ParticleSpec{Name: "c", Mass: 1})
			r := &recorder{}
			u.AddEntity(a, b, c)
			u.AddGenerators(r)

			Expect(u.SimulateAll()).To(Succeed())
			Expect(r.seen).To(Equal([]string{"a", "b", "c"}))
		})

		It("skips disabled generators and finds generators by name", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1})
			g := forces.NewGravity(forces.DefaultGravity)
			u.AddEntity(p)
			u.AddGenerators(g)

			found, ok := u.Generator("gravity")
			Expect(ok).To(BeTrue())
			found.(*forces.Gravity).Disable()

			Expect(u.SimulateFor(1)).To(Succeed())
			Expect(p.Position()).To(Equal(vec.Zero))

			_, ok = u.Generator("missing")
			Expect(ok).To(BeFalse())
		})

		It("clears every accumulator", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1})
			b := mustBar(physics.BarSpec{Mass: 1, Length: 1})
			u.AddEntity(p, b)
			u.AddGenerators(forces.NewGravity(forces.DefaultGravity), forces.NewConstant(vec.XY(1, 1)))

			Expect(u.SimulateAll()).To(Succeed())
			Expect(p.Force()).To(Equal(vec.Zero))
			Expect(b.Loads()).To(BeEmpty())
		})

		It("never moves fixed entities", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1, Position: vec.XY(1, 2), Fixed: true})
			b := mustBar(physics.BarSpec{Mass: 1, Length: 2, Position: vec.XY(-1, 0), Angle: 0.4, Fixed: true})
			u.AddEntity(p, b)
			u.AddGenerators(forces.NewGravity(forces.DefaultGravity), forces.NewConstant(vec.XY(50, 0)))

			Expect(u.SimulateFor(2)).To(Succeed())
			Expect(p.Position()).To(Equal(vec.XY(1, 2)))
			Expect(b.Position()).To(Equal(vec.XY(-1, 0)))
			Expect(b.Angle()).To(Equal(0.4))
		})

		It("wraps generator errors with step context", func() {
			p := mustParticle(physics.ParticleSpec{Name: "p", Mass: 1})
			u.AddEntity(p)
			u.AddGenerators(&recorder{err: dynamo.ErrInvalidArgument})

			err := u.SimulateAll()
			Expect(err).To(MatchError(dynamo.ErrInvalidArgument))

			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Entity).To(Equal("p"))
			Expect(se.Step).To(BeZero())
			Expect(u.Steps()).To(BeZero())
		})

		It("finishes one-shot pulses at the end of the step", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1})
			pulse, err := forces.NewPulse(p, vec.XY(1000, 0), 0)
			Expect(err).NotTo(HaveOccurred())
			u.AddEntity(p)
			u.AddGenerators(pulse)

			pulse.Arm()
			Expect(u.SimulateAll()).To(Succeed())
			Expect(pulse.State()).To(Equal(forces.PulseIdle))
			v := p.Velocity()
			Expect(v.X()).To(BeNumerically("~", 1, 1e-12))

			Expect(u.SimulateFor(0.1)).To(Succeed())
			Expect(p.Velocity()).To(Equal(v))
		})

		It("drives controllers before forces and integrates motors", func() {
			m, err := motor.New(motor.DefaultSpec())
			Expect(err).NotTo(HaveOccurred())
			c := control.NewSpeed(m, 10, 0, 0)
			c.SetTarget(1)
			u.AddDriver(c)

			free, _ := motor.New(motor.DefaultSpec())
			free.SetVoltage(5)
			u.AddMotor(free)

			Expect(u.SimulateFor(0.5)).To(Succeed())
			Expect(m.Speed()).To(BeNumerically(">", 0))
			Expect(free.Speed()).To(BeNumerically(">", 0))
		})

		It("notifies observers once per step", func() {
			c := &counter{}
			u.AddObserver(c)
			Expect(u.SimulateFor(0.05)).To(Succeed())
			Expect(c.n).To(Equal(50))
		})
	})

	Describe("Run", func() {
		It("records probes at t=0 and after every step", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1, Velocity: vec.XY(1, 0)})
			u.AddEntity(p)

			res, err := u.Run(context.Background(), 0.1, sim.Probe{Name: "x", Sample: func() float64 { return p.Position().X() }})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(100))
			Expect(res.Times).To(HaveLen(101))
			Expect(res.Series["x"]).To(HaveLen(101))
			Expect(res.Final("x")).To(BeNumerically("~", 0.1, 1e-9))
			Expect(res.Dt()).To(BeNumerically("~", 0.001, 1e-12))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := u.Run(ctx, 1)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Steps).To(BeZero())
		})

		It("reports divergence", func() {
			p := mustParticle(physics.ParticleSpec{Mass: 1})
			u.AddEntity(p)
			u.AddGenerators(forces.NewConstant(vec.XY(math.Inf(1), 0)))

			_, err := u.Run(context.Background(), 1, sim.Probe{Name: "x", Sample: func() float64 { return p.Position().X() }})
			Expect(err).To(MatchError(dynamo.ErrUnstable))
		})
	})
})

var _ = Describe("Mechanics", func() {
	It("rebounds a dropped particle to its release height", func() {
		dt := 0.001
		u, _ := sim.New(dt)
		p := mustParticle(physics.ParticleSpec{Mass: 1, Position: vec.XY(0, 10)})
		u.AddEntity(p)
		u.AddGenerators(forces.NewGravity(forces.DefaultGravity), forces.MustBounce(forces.AxisY, 1, dt))

		res, err := u.Run(context.Background(), 4, sim.Probe{Name: "y", Sample: func() float64 { return p.Position().Y() }})
		Expect(err).NotTo(HaveOccurred())

		ys := res.Series["y"]
		bounce := -1
		for i, y := range ys {
			if y < 0 {
				bounce = i
				break
			}
		}
		Expect(bounce).To(BeNumerically(">", 0))

		apex, _ := analysis.Peak(ys[bounce:])
		Expect(apex).To(BeNumerically("~", 10, 0.5))
	})

	It("swings a pivoted bar with the compound pendulum period", func() {
		dt := 0.0001
		L, g := 2.0, 9.8
		u, _ := sim.New(dt)

		anchor := mustParticle(physics.ParticleSpec{Name: "anchor", Mass: 1, Fixed: true})
		b := mustBar(physics.BarSpec{Name: "rod", Mass: 1, Length: L, Angle: -math.Pi/2 + 0.1, FromEnd: true})
		pivot, err := forces.NewPivot(b, -1, anchor, 2000, 100)
		Expect(err).NotTo(HaveOccurred())

		u.AddEntity(anchor, b)
		u.AddGenerators(forces.NewGravity(vec.XY(0, -g)), pivot)

		res, err := u.Run(context.Background(), 8, sim.Probe{Name: "angle", Sample: b.Angle})
		Expect(err).NotTo(HaveOccurred())

		T, ok := analysis.Period(res.Series["angle"], dt)
		Expect(ok).To(BeTrue())
		want := 2 * math.Pi * math.Sqrt(2*L/(3*g))
		Expect(T).To(BeNumerically("~", want, 0.03*want))
	})

	It("holds two particles at rest length", func() {
		u, _ := sim.New(0.001)
		p0 := mustParticle(physics.ParticleSpec{Mass: 1})
		p1 := mustParticle(physics.ParticleSpec{Mass: 1, Position: vec.XY(5, 0)})
		s, err := forces.NewSpringDamper(p0, p1, 20, 1, 5)
		Expect(err).NotTo(HaveOccurred())
		u.AddEntity(p0, p1)
		u.AddGenerators(s)

		Expect(u.SimulateFor(1)).To(Succeed())
		Expect(p0.Position()).To(Equal(vec.Zero))
		Expect(p1.Position()).To(Equal(vec.XY(5, 0)))
	})
})

var _ = Describe("RunAll", func() {
	It("runs independent universes and keeps job order", func() {
		var jobs []sim.Job
		for _, v := range []float64{1, 2, 3} {
			u, _ := sim.New(0.01)
			p := mustParticle(physics.ParticleSpec{Mass: 1, Velocity: vec.XY(v, 0)})
			u.AddEntity(p)
			jobs = append(jobs, sim.Job{Universe: u, Duration: 1, Probes: []sim.Probe{{Name: "x", Sample: func() float64 { return p.Position().X() }}}})
		}

		results, err := sim.RunAll(context.Background(), jobs, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			Expect(r.Final("x")).To(BeNumerically("~", float64(i+1), 1e-9))
		}
	})

	It("returns the first error", func() {
		u, _ := sim.New(0.01)
		_, err := sim.RunAll(context.Background(), []sim.Job{{Universe: u, Duration: -1}}, 0)
		Expect(errors.Is(err, dynamo.ErrInvalidDuration)).To(BeTrue())
	})
})
