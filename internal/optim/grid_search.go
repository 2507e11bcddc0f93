package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	// Unstable marks a run that diverged; Value is +Inf.
	Unstable bool
}

// GridSearch evaluates every combination of the given dotted config
// parameters and keeps the one minimising a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	trials     []Trial
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trials returns every point evaluated by the last Search, in grid order.
func (g *GridSearch) Trials() []Trial { return g.trials }

// Search runs the scenario of base once per grid point. Diverging runs are
// recorded and skipped; any other error aborts the search.
func (g *GridSearch) Search(
	ctx context.Context,
	registry *experiment.Registry,
	base *config.Config,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges: %w", len(g.paramNames), len(g.ranges), dynamo.ErrInvalidArgument)
	}
	g.trials = g.trials[:0]

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), registry, base, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no stable point in grid: %w", dynamo.ErrUnstable)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	registry *experiment.Registry,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, current, registry, base, metricName)
		if errors.Is(err, dynamo.ErrUnstable) {
			g.trials = append(g.trials, Trial{Params: current, Value: math.Inf(1), Unstable: true})
			return nil
		}
		if err != nil {
			return err
		}
		g.trials = append(g.trials, Trial{Params: current, Value: val})
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, registry, base, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	params map[string]float64,
	registry *experiment.Registry,
	base *config.Config,
	metricName string,
) (float64, error) {
	cfg := base.Clone()
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			return 0, err
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("scenario %s has no metric %q", cfg.Scenario, metricName)
	}
	if math.IsNaN(val) {
		return 0, fmt.Errorf("metric %s is NaN: %w", metricName, dynamo.ErrUnstable)
	}
	return val, nil
}
