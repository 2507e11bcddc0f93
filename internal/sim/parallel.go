package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one independent run for RunAll.
type Job struct {
	Universe *Universe
	Duration float64
	Probes   []Probe
}

// RunAll runs independent universes concurrently, at most limit at a time
// (GOMAXPROCS when limit <= 0). Results keep the order of jobs. The first
// error cancels the remaining runs.
func RunAll(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r, err := job.Universe.Run(ctx, job.Duration, job.Probes...)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
