package metrics

import "github.com/san-kum/mechsim/internal/sim"

// Bounded is the fraction of steps during which every mobile entity stayed
// within radius of the origin.
type Bounded struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBounded(radius float64) *Bounded {
	return &Bounded{
		name:   "bounded",
		radius: radius,
	}
}

func (b *Bounded) Name() string {
	return b.name
}

func (b *Bounded) OnStep(u *sim.Universe) {
	b.samples++
	for _, e := range u.Entities() {
		if e.Fixed() {
			continue
		}
		if !(e.Position().Len() <= b.radius) {
			b.violations++
			break
		}
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
