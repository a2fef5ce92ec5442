package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/automation"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/optim"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/sweep"
)

var (
	trials       int
	perturbation float64
	mcSeed       int64
	tolerance    float64
	gridParams   []string
	metricName   string
	maximize     bool
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Description != "" {
		fmt.Printf("%s: %s\n", sc.Name, sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, func(i int, cfg *config.Config) {
		fmt.Printf("step %d/%d: %s f=%g k=%g, %d steps\n", i+1, len(sc.Steps), cfg.Name, cfg.F, cfg.K, cfg.NSteps)
	})
	for _, r := range results {
		meta := storage.NewMetadata(r.Config)
		meta.StepsTaken = r.Result.StepsTaken
		meta.Metrics = r.Result.Metrics
		runID, serr := st.Save(meta, r.Result.Series)
		if serr != nil {
			return serr
		}
		fmt.Printf("  step %d saved as %s\n", r.Index+1, runID)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d trials of %s with perturbation %g...\n", trials, cfg.Name, perturbation)
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         mcSeed,
		Workers:      workers,
		Tolerance:    tolerance,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tMEAN_V\tEXCURSION\tSTABLE")
	stable := 0
	for _, r := range results {
		if r.Stable {
			stable++
		}
		fmt.Fprintf(w, "%d\t%.5f\t%.3g\t%v\n", r.TrialID, r.MeanV, r.Excursion, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d/%d trials stable\n", stable, len(results))
	return nil
}

// parseGridParam reads name=min:max:n.
func parseGridParam(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	parts := strings.Split(spec, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q, want name=min:max:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
	}
	return name, sweep.Linspace(lo, hi, n), nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ProgressEvery = 0

	names := make([]string, 0, len(gridParams))
	ranges := make([][]float64, 0, len(gridParams))
	for _, gp := range gridParams {
		name, values, err := parseGridParam(gp)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	if maximize {
		g.Maximize()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, err := g.Search(ctx, cfg, metricName)
	if err != nil {
		return err
	}
	if best.Params == nil {
		return fmt.Errorf("no grid point produced a finite %s", metricName)
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("evaluated %d points\n", best.Evaluated)
	fmt.Printf("best %s: %.6f\n", metricName, best.Value)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, best.Params[k])
	}
	return nil
}

func addAutomationCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run perturbed copies of one initial condition",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addModelFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 8, "number of trials")
	mcCmd.Flags().Float64Var(&perturbation, "perturbation", 0.01, "uniform noise amplitude")
	mcCmd.Flags().Int64Var(&mcSeed, "trial-seed", 1, "seed for the perturbations")
	mcCmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "allowed excursion outside [0, 1]")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all CPUs)")

	optCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search rates for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	addModelFlags(optCmd)
	optCmd.Flags().StringArrayVar(&gridParams, "param", nil, fmt.Sprintf("name=min:max:n, name in %v (repeatable)", optim.ParamNames()))
	optCmd.Flags().StringVar(&metricName, "metric", "mean_v", "metric to optimize")
	optCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer larger values")

	root.AddCommand(scenarioCmd, mcCmd, optCmd)
}
