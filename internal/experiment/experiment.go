package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/sim"
)

type Experiment struct {
	cfg      *config.Config
	scenario *Scenario
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// Setup builds a fresh scenario from the registry. Calling it again resets
// the experiment.
func (e *Experiment) Setup(r *Registry) error {
	s, err := r.Build(e.cfg)
	if err != nil {
		return err
	}
	e.scenario = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.scenario == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.scenario.Universe.Run(ctx, e.cfg.Duration, e.scenario.Probes...)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Scenario returns the built scenario, or nil before Setup.
func (e *Experiment) Scenario() *Scenario { return e.scenario }
