package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/sim"
)

// Script defines a scripted sequence of runs.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is one run of a script: a scenario preset with optional
// overrides. Zero dt or duration keeps the preset's value.
type ScriptStep struct {
	Name     string             `yaml:"name"`
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps: %w", path, dynamo.ErrInvalidArgument)
	}
	return &script, nil
}

// Config resolves the configuration a step runs with.
func (s ScriptStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(s.Scenario, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %s/%s: %w", s.Scenario, preset, dynamo.ErrInvalidArgument)
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StepResult pairs a script step with its configuration and trace.
type StepResult struct {
	Step   ScriptStep
	Config *config.Config
	Result *sim.Result
}

// RunScript executes all steps in order, stopping at the first failure.
// Results of the steps that completed are returned with the error.
func RunScript(ctx context.Context, script *Script, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters. Each trial
// offsets every named parameter of Base by a uniform draw in
// [-Perturbation, Perturbation].
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
	Limit        int
}

// MonteCarloResult holds one trial.
type MonteCarloResult struct {
	TrialID int
	Values  map[string]float64
	Result  *sim.Result // partial when the run diverged
	Stable  bool        // run completed with every probe bounded
}

// stableBound is the largest final probe magnitude a stable trial may have.
const stableBound = 1e6

// RunMonteCarlo executes the trials concurrently, at most Limit at a time
// (GOMAXPROCS when Limit <= 0). Diverging trials are reported unstable;
// any other error aborts the batch.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 || len(cfg.Params) == 0 {
		return nil, fmt.Errorf("monte carlo needs trials and parameters: %w", dynamo.ErrInvalidArgument)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Draw every trial up front so results depend only on the seed.
	scenarios := make([]*experiment.Scenario, cfg.NumTrials)
	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial := range results {
		trialCfg := cfg.Base.Clone()
		values := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			base, err := trialCfg.Param(name)
			if err != nil {
				return nil, err
			}
			v := base + (rng.Float64()-0.5)*2*cfg.Perturbation
			if err := trialCfg.SetParam(name, v); err != nil {
				return nil, err
			}
			values[name] = v
		}

		s, err := registry.Build(trialCfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		scenarios[trial] = s
		results[trial] = MonteCarloResult{TrialID: trial, Values: values}
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			r, err := s.Universe.Run(ctx, cfg.Base.Duration, s.Probes...)
			if errors.Is(err, dynamo.ErrUnstable) {
				results[i].Result = r
				return nil
			}
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i].Result = r
			results[i].Stable = bounded(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func bounded(r *sim.Result) bool {
	for _, name := range r.Probes {
		if math.Abs(r.Final(name)) > stableBound {
			return false
		}
	}
	return true
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
