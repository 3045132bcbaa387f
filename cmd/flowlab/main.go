package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/quentik/flowlab/internal/analysis"
	"github.com/quentik/flowlab/internal/config"
	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/metrics"
	"github.com/quentik/flowlab/internal/sim"
	"github.com/quentik/flowlab/internal/source"
	"github.com/quentik/flowlab/internal/storage"
	"github.com/quentik/flowlab/internal/sweep"
	"github.com/quentik/flowlab/internal/tui"
	"github.com/quentik/flowlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	gridSize   int
	diffusion  float64
	viscosity  float64
	dt         float64
	ticks      int
	iterations int
	fade       float64
	seed       int64
	configFile string
	preset     string
	frameRate  int
	// Export options
	svgPath  string
	svgScale float64
	// Analysis options
	statColumn  string
	sweepMetric string
)

// main registers the flowlab commands and launches the interactive TUI
// when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "flowlab",
		Short: "grid fluid simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(config.DefaultConfig())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flowlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save the results",
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal rendering",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive mode with a keyboard smoke brush",
		RunE:  runPlay,
	}
	addScenarioFlags(playCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric history of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, optionally with an SVG of the final frame",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write final density frame as SVG to this path")
	exportCmd.Flags().Float64Var(&svgScale, "svg-scale", 4, "SVG pixels per sub-cell")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run's stat history",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&statColumn, "stat", "mass", "stat column to analyze (mass, mean_divergence, peak_density)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [file.yaml]",
		Short: "run a parameter sweep from a yaml spec",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "mass", "metric to chart against the parameter")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver across grid sizes and solver iterations",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&ticks, "ticks", 100, "ticks per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				c := config.Presets[name]
				fmt.Printf("  %-10s n=%d ticks=%d diffusion=%g viscosity=%g fade=%g\n",
					name, c.N, c.Ticks, c.Diffusion, c.Viscosity, c.Fade)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, playCmd, listCmd, plotCmd, exportCmd, analyzeCmd, sweepCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gridSize, "n", config.DefaultN, "interior grid size")
	cmd.Flags().Float64Var(&diffusion, "diffusion", config.DefaultDiffusion, "density diffusion rate")
	cmd.Flags().Float64Var(&viscosity, "viscosity", config.DefaultViscosity, "velocity viscosity")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "relaxation sweeps per solve")
	cmd.Flags().Float64Var(&fade, "fade", config.DefaultFade, "density fade per tick")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
}

// buildConfig resolves the scenario: preset first, then config file,
// then CLI flags override both.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("n") {
		cfg.N = gridSize
	}
	if cmd.Flags().Changed("diffusion") {
		cfg.Diffusion = diffusion
	}
	if cmd.Flags().Changed("viscosity") {
		cfg.Viscosity = viscosity
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("fade") {
		cfg.Fade = fade
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

// buildRunner assembles a runner from a scenario: solver, scripted
// sources, and the default metric set.
func buildRunner(cfg *config.Config) (*sim.Runner, error) {
	solver, err := fluid.New(cfg.SolverParams())
	if err != nil {
		return nil, err
	}

	runner := sim.New(solver)

	if cfg.Emitter.Enabled {
		runner.AddSource(&source.Emitter{
			X:      cfg.Emitter.X,
			Y:      cfg.Emitter.Y,
			Amount: cfg.Emitter.Amount,
			Vx:     cfg.Emitter.Vx,
			Vy:     cfg.Emitter.Vy,
		})
	}
	if cfg.Turbulence.Enabled {
		runner.AddSource(source.NewTurbulence(cfg.Seed, cfg.Turbulence.Strength, cfg.Turbulence.Scale))
	}

	for _, m := range metrics.Defaults() {
		runner.AddMetric(m)
	}

	return runner, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	loop := sim.Config{Ticks: cfg.Ticks, Iterations: cfg.Iterations, Fade: cfg.Fade}

	fmt.Printf("running %dx%d grid for %d ticks...\n", cfg.N, cfg.N, cfg.Ticks)
	start := time.Now()

	result, err := runner.Run(context.Background(), loop)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(preset, loop, cfg.Seed, runner.Solver(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksRun)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	renderer := tui.NewLiveRenderer(frameRate)
	runner.AddObserver(renderer)

	renderer.Start()
	defer renderer.Stop()

	loop := sim.Config{Ticks: cfg.Ticks, Iterations: cfg.Iterations, Fade: cfg.Fade}
	if _, err := runner.Run(context.Background(), loop); err != nil {
		return err
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	// Presets omit brush settings; fall back to the default feel.
	if cfg.Brush.Deposit == 0 {
		cfg.Brush = config.DefaultConfig().Brush
	}
	return tui.RunInteractive(cfg)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tN\tTICKS\tDT\tFADE")

	for _, run := range runs {
		presetName := run.Preset
		if presetName == "" {
			presetName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%.4f\n",
			run.ID,
			presetName,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Ticks,
			run.Dt,
			run.Fade,
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

	rows, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d, %d samples\n\n", meta.N, meta.N, len(rows))

	series := []struct {
		caption string
		pick    func(r storage.StatRow) float64
	}{
		{"total mass", func(r storage.StatRow) float64 { return r.Mass }},
		{"mean |divergence|", func(r storage.StatRow) float64 { return r.MeanDivergence }},
		{"peak density", func(r storage.StatRow) float64 { return r.PeakDensity }},
	}

	for _, s := range series {
		data := make([]float64, len(rows))
		for i, r := range rows {
			data[i] = s.pick(r)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	frame, err := st.LoadFrame(runID)
	if err == nil && len(frame) > 0 {
		fmt.Println("final frame:")
		fmt.Println(viz.FrameCanvas(frameValues(frame, meta.N), meta.N, 0.5).String())
	}

	return nil
}

// frameValues reorders stored cells into a row-major interior frame.
func frameValues(cells []storage.FrameCell, n int) []float64 {
	values := make([]float64, n*n)
	for _, c := range cells {
		if c.X < 1 || c.X > n || c.Y < 1 || c.Y > n {
			continue
		}
		values[(c.Y-1)*n+(c.X-1)] = c.Density
	}
	return values
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgPath != "" {
		frame, err := st.LoadFrame(runID)
		if err != nil {
			return err
		}
		canvas := viz.FrameCanvas(frameValues(frame, meta.N), meta.N, 0.5)
		svg := viz.CanvasToSVG(canvas, svgScale)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(rows) < 4 {
		return fmt.Errorf("not enough samples to analyze: %d", len(rows))
	}

	data := make([]float64, len(rows))
	for i, r := range rows {
		switch statColumn {
		case "mass":
			data[i] = r.Mass
		case "mean_divergence":
			data[i] = r.MeanDivergence
		case "peak_density":
			data[i] = r.PeakDensity
		default:
			return fmt.Errorf("unknown stat column: %s", statColumn)
		}
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("stat: %s, %d samples at dt=%.3f\n\n", statColumn, len(data), meta.Dt)

	ps := analysis.PowerSpectrum(data)

	graph := asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", statColumn)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.Dominant(ps, len(data), meta.Dt)
	fmt.Printf("dominant frequency: %.4f cycles per unit time (power %.3f)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1/freq)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sp, err := sweep.Load(args[0])
	if err != nil {
		return err
	}

	if sp.Name != "" {
		fmt.Printf("sweep: %s\n", sp.Name)
	}
	if sp.Description != "" {
		fmt.Println(sp.Description)
	}
	fmt.Printf("sweeping %s over [%g, %g] in %d steps\n\n", sp.Param, sp.Min, sp.Max, sp.Steps)

	points, err := sweep.Run(context.Background(), sp, buildRunner)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMASS\tMEAN_DIV\tPEAK\n", sp.Param)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%.4f\t%.6f\t%.4f\n",
			p.Value, p.Metrics["mass"], p.Metrics["mean_divergence"], p.Metrics["peak_density"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Metrics[sweepMetric]
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("final %s vs %s", sweepMetric, sp.Param)),
	))

	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	sizes := []int{32, 64, 128}
	sweeps := []int{4, 10, 20}

	fmt.Printf("benchmarking solver, %d ticks per configuration\n\n", ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tITERS\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range sizes {
		for _, it := range sweeps {
			solver, err := fluid.New(fluid.Params{
				N:         n,
				Diffusion: config.DefaultDiffusion,
				Viscosity: config.DefaultViscosity,
				Dt:        config.DefaultDt,
			})
			if err != nil {
				return err
			}

			runner := sim.New(solver)
			runner.AddSource(&source.Emitter{X: n / 2, Y: n / 2, Amount: 50, Vy: -1})

			start := time.Now()
			result, err := runner.Run(context.Background(), sim.Config{
				Ticks:      ticks,
				Iterations: it,
				Fade:       config.DefaultFade,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			ticksPerSec := float64(result.TicksRun) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n, it, result.TicksRun, elapsed, ticksPerSec)
		}
	}

	return w.Flush()
}
