package sim

import (
	"github.com/san-kum/mechsim/internal/dynamo"
)

// Observer is notified after every completed step.
type Observer interface {
	OnStep(u *Universe)
}

// Metric is an observer that condenses a run into one number.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// Motor is anything the universe integrates after the entities.
type Motor interface {
	dynamo.Drawer
	Integrate(dt float64)
}

// Probe samples one scalar from the universe after each step.
type Probe struct {
	Name   string
	Sample func() float64
}

// Result is the trace of a Run.
type Result struct {
	Times   []float64
	Probes  []string
	Series  map[string][]float64
	Metrics map[string]float64
	Steps   int
}

func newResult(probes []Probe, capacity int) *Result {
	r := &Result{
		Times:   make([]float64, 0, capacity),
		Probes:  make([]string, 0, len(probes)),
		Series:  make(map[string][]float64, len(probes)),
		Metrics: make(map[string]float64),
	}
	for _, p := range probes {
		r.Probes = append(r.Probes, p.Name)
		r.Series[p.Name] = make([]float64, 0, capacity)
	}
	return r
}

// Final returns the last sample of a probe, or 0 when it has none.
func (r *Result) Final(name string) float64 {
	s := r.Series[name]
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Dt is the sampling interval of the trace.
func (r *Result) Dt() float64 {
	if len(r.Times) < 2 {
		return 0
	}
	return r.Times[1] - r.Times[0]
}
