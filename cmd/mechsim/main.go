package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	preset     string
	configFile string
	showPlot   bool
	noSave     bool
	// probe selection for analyze, phase, export and sweep
	xProbe string
	yProbe string
	// sweep range
	param    string
	from     float64
	to       float64
	by       float64
	parallel int
	// tune grids, comma separated
	kpGrid string
	kiGrid string
	kdGrid string
	metric string
	// export
	format string
	output string
	// monte carlo
	mcParams  string
	perturb   float64
	numTrials int
	seed      int64
)

var registry = experiment.NewRegistry()

func main() {
	rootCmd := &cobra.Command{
		Use:          "mechsim",
		Short:        "2d mechanics and motor control sandbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mechsim", "data directory")

	scenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "default", "scenario preset")
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), applied over the preset")
		cmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep (overrides preset)")
		cmd.Flags().Float64Var(&duration, "time", 10.0, "duration (overrides preset)")
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot every probe")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list scenarios",
		RunE:  listScenarios,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|scenario]",
		Short: "plot the probes of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	scenarioFlags(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id|scenario]",
		Short: "frequency analysis of a probe",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	scenarioFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&yProbe, "probe", "", "probe to analyze (default first)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id|scenario]",
		Short: "phase portrait of two probes",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	scenarioFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&xProbe, "x", "", "probe for the x-axis (default first)")
	phaseCmd.Flags().StringVar(&yProbe, "y", "", "probe for the y-axis (default second)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id|scenario]",
		Short: "export a run as csv, json or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	scenarioFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&xProbe, "x", "", "svg x-axis probe (default time)")
	exportCmd.Flags().StringVar(&yProbe, "y", "", "svg y-axis probe (default first)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "draw the final frame of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	scenarioFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&output, "output", "o", "", "write svg to file instead of printing the canvas")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario over a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParam,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "", "dotted parameter name, e.g. motor.voltage")
	sweepCmd.Flags().Float64Var(&from, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&to, "to", 1, "last value")
	sweepCmd.Flags().Float64Var(&by, "by", 0.1, "increment")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (default GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&yProbe, "probe", "", "probe whose final value is reported (default first)")
	sweepCmd.Flags().StringVar(&metric, "metric", "", "metric to plot against the parameter")
	_ = sweepCmd.MarkFlagRequired("param")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search over controller gains",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneGains,
	}
	scenarioFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&kpGrid, "kp", "", "kp values, comma separated")
	tuneCmd.Flags().StringVar(&kiGrid, "ki", "", "ki values, comma separated")
	tuneCmd.Flags().StringVar(&kdGrid, "kd", "", "kd values, comma separated")
	tuneCmd.Flags().StringVar(&metric, "metric", "tracking_error", "metric to minimize")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenario runs and store each one",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "run randomly perturbed copies of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	scenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&mcParams, "params", "initial.angle", "dotted parameters to perturb, comma separated")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "maximum absolute perturbation")
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default time based)")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (default GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, runsCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, snapshotCmd, sweepCmd, tuneCmd, liveCmd, scriptCmd, monteCarloCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
