package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/sweep"
)

func runSweep(cmd *cobra.Command, args []string) error {
	spec := sweep.DefaultSpec()
	if len(args) == 1 {
		var err error
		if spec, err = sweep.LoadSpec(args[0]); err != nil {
			return err
		}
	}
	if workers > 0 {
		spec.Workers = workers
	}
	if sweepOut != "" {
		spec.OutDir = sweepOut
	}
	if sweepIndex != "" {
		spec.Index = sweepIndex
	}
	if sweepIndexPath != "" {
		spec.IndexPath = sweepIndexPath
	}
	if sweepResume {
		spec.Resume = true
	}
	if sweepSteps > 0 {
		spec.Base.NSteps = sweepSteps
	}
	if spec.IndexPath == "" {
		spec.IndexPath = filepath.Join(spec.OutDir, "index.db")
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(spec.OutDir, 0755); err != nil {
		return err
	}
	idx, err := storage.NewIndex(spec.Index, spec.IndexPath)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(idx)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := idx.Init(ctx); err != nil {
		return err
	}

	total := len(spec.Points())
	fmt.Printf("sweeping %d points on %d workers into %s\n", total, spec.Workers, spec.OutDir)
	start := time.Now()
	n := 0
	sum, err := sweep.Run(ctx, spec, idx, func(r sweep.Result) {
		n++
		switch {
		case r.Err != nil:
			fmt.Printf("[%d/%d] %s failed: %v\n", n, total, r.Point, r.Err)
		case r.Skipped:
			fmt.Printf("[%d/%d] %s skipped\n", n, total, r.Point)
		default:
			fmt.Printf("[%d/%d] %s mean_v=%.4f\n", n, total, r.Point, r.Metrics["mean_v"])
		}
	})

	fmt.Printf("\n%d done, %d skipped, %d failed in %v\n", sum.Done, sum.Skipped, sum.Failed, time.Since(start).Round(time.Millisecond))
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tF\tK\tINIT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", name, p.F, p.K, p.Init)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	fmt.Printf("\ninit modes: %s\n", strings.Join(reg.ListInitModes(), ", "))
	fmt.Printf("boundaries: %s\n", strings.Join(reg.ListBoundaries(), ", "))
	fmt.Printf("metrics:    %s\n", strings.Join(reg.ListMetrics(), ", "))
	return nil
}

func benchIntegrator(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ProgressEvery = 0

	exp := experiment.New(cfg)
	if err := exp.Setup(nil, nil); err != nil {
		return err
	}

	updates := cfg.NSteps - 1
	cells := cfg.Width * cfg.Height
	fmt.Printf("benchmarking %dx%d grid, %d updates, %d runs\n", cfg.Width, cfg.Height, updates, benchRepeats)

	var best time.Duration
	for i := 0; i < max(benchRepeats, 1); i++ {
		start := time.Now()
		if _, err := exp.Run(cmd.Context(), nil); err != nil {
			return err
		}
		elapsed := time.Since(start)
		if i == 0 || elapsed < best {
			best = elapsed
		}
		fmt.Printf("  run %d: %v\n", i+1, elapsed.Round(time.Microsecond))
	}

	secs := best.Seconds()
	if secs > 0 && updates > 0 {
		fmt.Printf("\nbest: %v (%.0f steps/s, %.2f Mcell-updates/s)\n",
			best.Round(time.Microsecond), float64(updates)/secs, float64(updates*cells)/secs/1e6)
	}
	return nil
}

func listSweep(cmd *cobra.Command, args []string) error {
	idx := storage.NewSQLiteIndex(args[0])
	defer idx.Close()
	if err := idx.Init(cmd.Context()); err != nil {
		return err
	}
	records, err := idx.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no sweep records")
		return nil
	}

	if sortMetric != "" {
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i].Metrics[sortMetric], records[j].Metrics[sortMetric]
			if maximize {
				return a > b
			}
			return a < b
		})
	}
	if topN > 0 && topN < len(records) {
		records = records[:topN]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RU\tRV\tF\tK\tMEAN_V\tEXCURSION\tCHANGE\tPATH")
	for _, r := range records {
		fmt.Fprintf(w, "%g\t%g\t%g\t%g\t%.5f\t%.3g\t%.3g\t%s\n",
			r.Ru, r.Rv, r.F, r.K, r.Metrics["mean_v"], r.Metrics["excursion"], r.Metrics["change"], r.Path)
	}
	return w.Flush()
}
