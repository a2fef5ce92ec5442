package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/initcond"
	"github.com/san-kum/rdsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	saveConfig string

	runName       string
	width         int
	height        int
	initMode      string
	seed          int64
	ru            float64
	rv            float64
	feed          float64
	kill          float64
	dt            float64
	nsteps        int
	sliceStep     int
	boundary      string
	progressEvery int

	species   string
	colormap  string
	fps       int
	scale     int
	drawScale int
	outFile   string
	labels    bool
	blend     bool
	autoRange bool
	theme     string
	frameIdx  int
	cellSize  float64
	threshold float64
	phaseSVG  bool
	pngFile   string
	mode      string
	fMin      float64
	fMax      float64
	scanSteps int
	workers   int
	epsilon   float64

	sweepOut       string
	sweepIndex     string
	sweepIndexPath string
	sweepResume    bool
	sweepSteps     int
	sortMetric     string
	topN           int
	benchRepeats   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rdsim",
		Short:         "gray-scott reaction-diffusion lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean concentrations over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngFile, "png", "", "also write the chart as PNG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics, wavelength, phase, divergence or feed scan",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&mode, "mode", "stats", "stats, wavelength, phase, divergence or feedscan")
	analyzeCmd.Flags().StringVar(&species, "species", "v", "species (u or v)")
	analyzeCmd.Flags().Float64Var(&fMin, "f-min", 0.01, "feed scan lower bound")
	analyzeCmd.Flags().Float64Var(&fMax, "f-max", 0.08, "feed scan upper bound")
	analyzeCmd.Flags().IntVar(&scanSteps, "points", 16, "feed scan points")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all CPUs)")
	analyzeCmd.Flags().Float64Var(&epsilon, "eps", 1e-6, "divergence perturbation")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and final frame as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	gifCmd := &cobra.Command{
		Use:   "gif [run_id]",
		Short: "render a run as animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  renderGIF,
	}
	addRenderFlags(gifCmd)

	aviCmd := &cobra.Command{
		Use:   "avi [run_id]",
		Short: "render a run as Motion-JPEG AVI",
		Args:  cobra.ExactArgs(1),
		RunE:  renderAVI,
	}
	addRenderFlags(aviCmd)
	aviCmd.Flags().BoolVar(&labels, "labels", true, "draw species and time on each frame")
	aviCmd.Flags().BoolVar(&blend, "blend", false, "render u and v together (u green, v magenta)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render one frame or the phase portrait as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&species, "species", "v", "species (u or v)")
	svgCmd.Flags().StringVar(&colormap, "colormap", "inferno", "colormap")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (-1 = last)")
	svgCmd.Flags().Float64Var(&cellSize, "cell", 4, "pixels per cell")
	svgCmd.Flags().BoolVar(&autoRange, "auto-range", false, "fit the colormap to the finite values of the frame instead of [0, 1]")
	svgCmd.Flags().BoolVar(&phaseSVG, "phase", false, "draw mean U against mean V instead")
	svgCmd.Flags().Float64Var(&threshold, "threshold", 0, "draw a dot per cell above this value instead of colors")
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "play a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&colormap, "colormap", "inferno", "colormap")
	viewCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("player theme %v, overrides --colormap", viz.ThemeNames()))
	viewCmd.Flags().BoolVar(&autoRange, "auto-range", false, "fit the colormap to the finite values of the run instead of [0, 1]")

	drawCmd := &cobra.Command{
		Use:   "draw",
		Short: "paint an initial condition and play the result (needs -tags ebiten)",
		Args:  cobra.NoArgs,
		RunE:  drawCanvas,
	}
	addModelFlags(drawCmd)
	drawCmd.Flags().StringVar(&colormap, "colormap", "inferno", "colormap")
	drawCmd.Flags().IntVar(&drawScale, "scale", 4, "screen pixels per cell")

	sweepCmd := &cobra.Command{
		Use:   "sweep [spec.yaml]",
		Short: "run a grid of rate combinations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = spec value)")
	sweepCmd.Flags().StringVar(&sweepOut, "out", "", "output directory (default from spec)")
	sweepCmd.Flags().StringVar(&sweepIndex, "index", "", "index backend: memory or sqlite")
	sweepCmd.Flags().StringVar(&sweepIndexPath, "index-path", "", "sqlite file (default <out>/index.db)")
	sweepCmd.Flags().BoolVar(&sweepResume, "resume", false, "skip points already on disk")
	sweepCmd.Flags().IntVar(&sweepSteps, "nsteps", 0, "override the base nsteps")

	sweepListCmd := &cobra.Command{
		Use:   "sweep-results [index.db]",
		Short: "list sweep points recorded in a sqlite index",
		Args:  cobra.ExactArgs(1),
		RunE:  listSweep,
	}
	sweepListCmd.Flags().StringVar(&sortMetric, "sort", "", "sort by metric (mean_v, excursion, change)")
	sweepListCmd.Flags().BoolVar(&maximize, "desc", false, "largest first")
	sweepListCmd.Flags().IntVar(&topN, "top", 0, "show only the first n rows")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the integrator",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrator,
	}
	addModelFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRepeats, "repeat", 3, "number of timed runs")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, gifCmd, aviCmd, svgCmd, viewCmd, drawCmd, sweepCmd, sweepListCmd, presetsCmd, benchCmd)
	addAutomationCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset (see `rdsim presets`)")
	f.StringVar(&runName, "name", def.Name, "run name")
	f.IntVar(&width, "width", def.Width, "grid width")
	f.IntVar(&height, "height", def.Height, "grid height")
	f.StringVar(&initMode, "init", def.Init, fmt.Sprintf("initial condition %v", initcond.Modes()))
	f.Int64Var(&seed, "seed", def.Seed, "random seed for noise")
	f.Float64Var(&ru, "ru", def.Ru, "diffusion rate of U")
	f.Float64Var(&rv, "rv", def.Rv, "diffusion rate of V")
	f.Float64Var(&feed, "f", def.F, "feed rate")
	f.Float64Var(&kill, "k", def.K, "kill rate")
	f.Float64Var(&dt, "dt", def.Dt, "time step")
	f.IntVar(&nsteps, "nsteps", def.NSteps, "time indices including the initial frame")
	f.IntVar(&sliceStep, "slicestep", def.SliceStep, "keep every n-th step")
	f.StringVar(&boundary, "boundary", def.Boundary, fmt.Sprintf("boundary %v", dynamo.BoundaryNames()))
	f.IntVar(&progressEvery, "progress-every", 100, "progress report interval in steps (0 = quiet)")
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&species, "species", "v", "species (u or v)")
	cmd.Flags().StringVar(&colormap, "colormap", "inferno", "colormap")
	cmd.Flags().IntVar(&fps, "fps", 10, "playback frames per second")
	cmd.Flags().IntVar(&scale, "scale", 2, "pixels per cell")
	cmd.Flags().BoolVar(&autoRange, "auto-range", false, "fit the colormap to the finite values of the run instead of [0, 1]")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.<ext>)")
}

// resolveConfig applies preset, then config file, then flags the user set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("init") {
		cfg.Init = initMode
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ru") {
		cfg.Ru = ru
	}
	if flags.Changed("rv") {
		cfg.Rv = rv
	}
	if flags.Changed("f") {
		cfg.F = feed
	}
	if flags.Changed("k") {
		cfg.K = kill
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("nsteps") {
		cfg.NSteps = nsteps
	}
	if flags.Changed("slicestep") {
		cfg.SliceStep = sliceStep
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("progress-every") || cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = progressEvery
	}
	return cfg, nil
}
