package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/sim"
)

// SweepPoint is the outcome of one value of a sweep.
type SweepPoint struct {
	Value  float64
	Result *sim.Result
}

// Range returns from, from+by, ... up to and including to (within half a
// step).
func Range(from, to, by float64) ([]float64, error) {
	if !(by > 0) || math.IsInf(by, 0) {
		return nil, fmt.Errorf("range step %v: %w", by, dynamo.ErrInvalidArgument)
	}
	if to < from {
		return nil, fmt.Errorf("range [%v, %v] is empty: %w", from, to, dynamo.ErrInvalidArgument)
	}
	n := int(math.Floor((to-from)/by+0.5)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = from + float64(i)*by
	}
	return values, nil
}

// Sweep builds one scenario per value of the dotted parameter and runs them
// concurrently, at most limit at a time. Points keep the order of values.
func Sweep(ctx context.Context, r *Registry, base *config.Config, param string, values []float64, limit int) ([]SweepPoint, error) {
	jobs := make([]sim.Job, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.SetParam(param, v); err != nil {
			return nil, err
		}
		s, err := r.Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", param, v, err)
		}
		jobs[i] = sim.Job{Universe: s.Universe, Duration: cfg.Duration, Probes: s.Probes}
	}

	results, err := sim.RunAll(ctx, jobs, limit)
	if err != nil {
		return nil, err
	}
	points := make([]SweepPoint, len(values))
	for i, v := range values {
		points[i] = SweepPoint{Value: v, Result: results[i]}
	}
	return points, nil
}
