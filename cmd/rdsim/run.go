package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(nil, registry.DefaultMetrics()); err != nil {
		return err
	}
	for _, w := range exp.Params().Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %dx%d, f=%g k=%g, %d steps...\n", cfg.Name, cfg.Width, cfg.Height, cfg.F, cfg.K, cfg.NSteps)
	start := time.Now()

	result, err := exp.Run(ctx, progressPrinter())
	fmt.Fprintln(os.Stderr)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.NewMetadata(cfg)
	meta.StepsTaken = result.StepsTaken
	meta.Metrics = result.Metrics
	runID, err := st.Save(meta, result.Series)
	if err != nil {
		return err
	}

	if interrupted {
		fmt.Printf("interrupted after %d steps, partial series saved\n", result.StepsTaken)
	} else {
		fmt.Printf("completed in %v\n", elapsed)
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Series.Len())
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func progressPrinter() dynamo.ProgressFunc {
	return func(step, total int) {
		fmt.Fprintf(os.Stderr, "\r%s %d/%d", viz.ProgressBar(float64(step)/float64(total), 30), step, total)
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tF\tK\tSTEPS\tFRAMES\tBOUNDARY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%g\t%g\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.F, run.K,
			run.StepsTaken,
			run.Frames,
			run.Boundary,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rates: ru=%g rv=%g f=%g k=%g\n", meta.Ru, meta.Rv, meta.F, meta.K)
	fmt.Printf("frames: %d\n\n", len(stats))

	u := make([]float64, len(stats))
	v := make([]float64, len(stats))
	for i, s := range stats {
		u[i], v[i] = s.U.Mean, s.V.Mean
	}

	graph := asciigraph.PlotMany([][]float64{u, v},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Magenta),
		asciigraph.SeriesLegends("mean u", "mean v"),
		asciigraph.Caption("mean concentration per frame"),
	)
	fmt.Println(graph)

	if pngFile != "" {
		f, err := os.Create(pngFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := viz.WriteStatsChart(f, stats, 800, 400); err != nil {
			return err
		}
		fmt.Printf("\nchart written to %s\n", pngFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	s, err := dynamo.ParseSpecies(species)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n\n", meta.ID)

	switch mode {
	case "stats":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FRAME\tTIME\tMEAN\tSTD\tMIN\tMAX")
		for i, fs := range analysis.SeriesStats(ts) {
			sum := fs.V
			if s == dynamo.U {
				sum = fs.U
			}
			fmt.Fprintf(w, "%d\t%g\t%.5f\t%.5f\t%.5f\t%.5f\n", i, fs.Time, sum.Mean, sum.Std, sum.Min, sum.Max)
		}
		return w.Flush()

	case "wavelength":
		final := ts.Final()
		lambda := analysis.DominantWavelength(final, s)
		if lambda == 0 {
			fmt.Println("no spatial pattern in the final frame")
			return nil
		}
		fmt.Printf("dominant wavelength of %s: %.2f cells\n\n", s, lambda)
		profile := analysis.RadialProfile(analysis.Spectrum(final.Plane(s), final.W, final.H))
		if len(profile) > 2 {
			fmt.Println(asciigraph.Plot(profile[1:],
				asciigraph.Height(10),
				asciigraph.Width(60),
				asciigraph.Caption("radial power spectrum (excluding mean)"),
			))
		}
		return nil

	case "phase":
		fmt.Print(analysis.PhasePortraitToASCII(analysis.GeneratePhasePortrait(ts), 60, 20))
		fmt.Println("x: mean u, y: mean v")
		return nil

	case "divergence":
		p, err := meta.Config().Params()
		if err != nil {
			return err
		}
		rate, err := analysis.Divergence(cmd.Context(), ts.Frame(0), p, epsilon)
		if err != nil {
			return err
		}
		fmt.Printf("separation growth rate: %.6f per unit time\n", rate)
		if rate > 0 {
			fmt.Println("nearby initial conditions diverge")
		} else {
			fmt.Println("nearby initial conditions converge")
		}
		return nil

	case "feedscan":
		p, err := meta.Config().Params()
		if err != nil {
			return err
		}
		fmt.Printf("scanning f in [%g, %g] with k=%g...\n", fMin, fMax, meta.K)
		points, err := analysis.FeedScan(cmd.Context(), ts.Frame(0), p, fMin, fMax, scanSteps, workers)
		if err != nil {
			return err
		}
		fmt.Print(analysis.FeedScanToASCII(points, 60, 16))
		return nil
	}
	return fmt.Errorf("unknown mode %q (stats, wavelength, phase, divergence, feedscan)", mode)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, *meta, ts)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, *meta, ts); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outFile)
	return nil
}

func defaultOut(runID, ext string) string {
	if outFile != "" {
		return outFile
	}
	return strings.TrimSuffix(runID, "/") + "." + ext
}
