package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/automation"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/optim"
	"github.com/san-kum/mechsim/internal/sim"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/san-kum/mechsim/internal/viz"
)

// loadConfig resolves the configuration of a scenario: preset first, then the
// config file, then explicit flags.
func loadConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	if !registry.Has(scenario) {
		return nil, fmt.Errorf("unknown scenario: %s (available: %v)", scenario, registry.List())
	}
	cfg := config.GetPreset(scenario, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
	}

	if configFile != "" {
		var err error
		cfg, err = config.Overlay(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Scenario = scenario
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	return cfg, cfg.Validate()
}

func simulate(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// obtain returns a stored run, or a fresh unsaved run when arg names a
// scenario.
func obtain(cmd *cobra.Command, arg string) (*storage.RunMetadata, *sim.Result, error) {
	if registry.Has(arg) {
		cfg, err := loadConfig(cmd, arg)
		if err != nil {
			return nil, nil, err
		}
		result, err := simulate(cmd.Context(), cfg)
		if err != nil {
			return nil, nil, err
		}
		meta := &storage.RunMetadata{
			ID:       arg,
			Scenario: arg,
			Dt:       cfg.Dt,
			Duration: cfg.Duration,
			Steps:    result.Steps,
			Probes:   result.Probes,
			Metrics:  result.Metrics,
		}
		return meta, result, nil
	}

	st := storage.New(dataDir)
	meta, err := st.Load(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("no scenario or stored run named %s", arg)
	}
	result, err := st.LoadResult(arg)
	if err != nil {
		return nil, nil, err
	}
	return meta, result, nil
}

func series(result *sim.Result, name string, fallback int) (string, []float64, error) {
	if name == "" {
		if fallback >= len(result.Probes) {
			return "", nil, fmt.Errorf("run has only %d probes", len(result.Probes))
		}
		name = result.Probes[fallback]
	}
	s, ok := result.Series[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown probe: %s (available: %v)", name, result.Probes)
	}
	return name, s, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Scenario)
	start := time.Now()

	result, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("steps: %d\n", result.Steps)
	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}
	fmt.Println("\nfinal:")
	for _, name := range result.Probes {
		fmt.Printf("  %s: %.6f\n", name, result.Final(name))
	}

	if showPlot {
		fmt.Println()
		plotResult(os.Stdout, result)
	}
	return nil
}

func plotResult(w io.Writer, result *sim.Result) {
	for _, name := range result.Probes {
		data := result.Series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPRESETS\tDESCRIPTION")
	for _, name := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(config.ListPresets(name), ","), registry.Description(name))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for scenario: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		cfg := config.GetPreset(args[0], p)
		fmt.Printf("  %-14s dt=%g time=%gs\n", p, cfg.Dt, cfg.Duration)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := obtain(cmd, args[0])
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(result.Times))
	plotResult(os.Stdout, result)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := obtain(cmd, args[0])
	if err != nil {
		return err
	}
	name, data, err := series(result, yProbe, 0)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples for analysis")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("probe: %s\n\n", name)

	spectrum := analysis.PowerSpectrum(data)
	plotData := spectrum[1:]
	if len(plotData) > 80 {
		plotData = plotData[:80]
	}
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	dtRun := result.Dt()
	if freq, ok := analysis.DominantFrequency(data, dtRun); ok {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		fmt.Printf("spectral period: %.3f s\n", 1.0/freq)
	} else {
		fmt.Println("dominant frequency: none")
	}
	if period, ok := analysis.Period(data, dtRun); ok {
		fmt.Printf("crossing period: %.3f s\n", period)
	}
	peak, at := analysis.Peak(data)
	fmt.Printf("peak: %.6f at %.3f s\n", peak, result.Times[at])
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := obtain(cmd, args[0])
	if err != nil {
		return err
	}
	xName, xs, err := series(result, xProbe, 0)
	if err != nil {
		return err
	}
	yName, ys, err := series(result, yProbe, 1)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xName, yName)
	fmt.Println(analysis.NewPhasePortrait(xName, xs, yName, ys).ASCII(60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := obtain(cmd, args[0])
	if err != nil {
		return err
	}

	return withOutput(func(w io.Writer) error {
		switch format {
		case "csv":
			return storage.WriteCSV(w, result)
		case "json":
			return storage.ExportJSON(w, meta, result)
		case "svg":
			xs := result.Times
			if xProbe != "" {
				if _, xs, err = series(result, xProbe, 0); err != nil {
					return err
				}
			}
			_, ys, err := series(result, yProbe, 0)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, export.TrajectoryToSVG(xs, ys, 800, 600, "#00ffff"))
			return err
		}
		return fmt.Errorf("unknown format: %s (available: csv, json, svg)", format)
	})
}

// withOutput runs write against --output, or stdout when it is unset.
func withOutput(write func(w io.Writer) error) error {
	if output == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	s, err := registry.Build(cfg)
	if err != nil {
		return err
	}
	if err := s.Universe.SimulateFor(cfg.Duration); err != nil {
		return err
	}

	canvas := viz.NewCanvas(80, 24)
	vp := viz.Fit(canvas, s.View)
	s.Draw(vp, vp.Scale)

	if output == "" {
		fmt.Printf("%s at t=%.2fs\n", s.Name, s.Universe.Time())
		fmt.Print(canvas.String())
		return nil
	}
	return withOutput(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, export.CanvasToSVG(canvas, 4))
		return err
	})
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	values, err := experiment.Range(from, to, by)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %d values...\n", param, len(values))
	start := time.Now()
	points, err := experiment.Sweep(cmd.Context(), registry, cfg, param, values, parallel)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	first := points[0].Result
	probeName, _, err := series(first, yProbe, 0)
	if err != nil {
		return err
	}
	metricNames := sortedKeys(first.Metrics)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tfinal %s", param, probeName)
	for _, name := range metricNames {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	curve := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%g\t%.6f", p.Value, p.Result.Final(probeName))
		for _, name := range metricNames {
			fmt.Fprintf(w, "\t%.6f", p.Result.Metrics[name])
		}
		fmt.Fprintln(w)

		if metric != "" {
			curve[i] = p.Result.Metrics[metric]
		} else {
			curve[i] = p.Result.Final(probeName)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(curve) > 1 {
		caption := "final " + probeName
		if metric != "" {
			caption = metric
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(curve,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", caption, param)),
		))
	}
	return nil
}

func parseGrid(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad grid value %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, g := range []struct{ name, grid string }{
		{"controller.kp", kpGrid},
		{"controller.ki", kiGrid},
		{"controller.kd", kdGrid},
	} {
		if g.grid == "" {
			continue
		}
		values, err := parseGrid(g.grid)
		if err != nil {
			return err
		}
		names = append(names, g.name)
		ranges = append(ranges, values)
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to tune: give at least one of --kp, --ki, --kd")
	}

	search := optim.NewGridSearch(names, ranges)
	best, value, err := search.Search(cmd.Context(), registry, cfg, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), metric)
	for _, trial := range search.Trials() {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", trial.Params[name])
		}
		if trial.Unstable {
			fmt.Fprintln(w, "unstable")
		} else {
			fmt.Fprintf(w, "%.6f\n", trial.Value)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", metric, value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return viz.RunInteractive(registry)
	}
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := viz.NewModel(registry, cfg)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	if script.Name != "" {
		fmt.Printf("script: %s\n", script.Name)
	}
	if script.Description != "" {
		fmt.Printf("%s\n", script.Description)
	}

	results, runErr := automation.RunScript(cmd.Context(), script, registry)

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tSCENARIO\tSTEPS\tRUN ID")
	for i, r := range results {
		runID := "-"
		if !noSave {
			if runID, err = st.Save(r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, r.Step.Name, r.Config.Scenario, r.Result.Steps, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	var names []string
	for _, name := range strings.Split(mcParams, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	fmt.Printf("running %d perturbed %s trials...\n", numTrials, cfg.Scenario)
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Params:       names,
		Perturbation: perturb,
		NumTrials:    numTrials,
		Seed:         seed,
		Limit:        parallel,
	}, registry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\t%s\tSTABLE\n", strings.Join(names, "\t"))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t", r.TrialID)
		for _, name := range names {
			fmt.Fprintf(w, "%.6f\t", r.Values[name])
		}
		fmt.Fprintf(w, "%v\n", r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}
