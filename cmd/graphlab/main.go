package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/config"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/gui"
	"github.com/san-kum/graphlab/internal/logging"
	"github.com/san-kum/graphlab/internal/metrics"
	"github.com/san-kum/graphlab/internal/storage"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string

	resolution         int
	function           string
	mode               string
	functionDuration   float64
	transitionDuration float64
	seed               int64

	dt     float64
	frames int
	every  int

	useGPU bool
	theme  string

	benchResolutions string
	benchFrames      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "graphlab",
		Short:         "procedural surface lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".graphlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	addGraphFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live [function]",
		Short: "morphing surface in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addGraphFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	runCmd := &cobra.Command{
		Use:   "run [function]",
		Short: "headless run, saves a capture",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	addGraphFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "seconds per frame")
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captures",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one cell over a capture",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&cellIndex, "cell", -1, "cell index (default: center)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and frames as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the last captured frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	exportSVGCmd.Flags().StringVar(&svgStyle, "style", "points", "points or braille")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	functionsCmd := &cobra.Command{
		Use:   "functions",
		Short: "list surface functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNEXT\tDESCRIPTION")
			for _, n := range surface.Names() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", n, surface.Next(n), surface.Description(n))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [function]",
		Short: "list available presets for a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for function: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				c := config.GetPreset(args[0], p)
				fmt.Printf("  %-10s res=%d mode=%s function=%.2fs transition=%.2fs\n",
					p, c.Resolution, c.Mode, c.FunctionDuration, c.TransitionDuration)
			}
			return nil
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash",
		Short: "compute and summarize a hash grid",
		RunE:  runHash,
	}
	hashCmd.Flags().IntVar(&hashResolution, "resolution", 0, "grid resolution (4-512)")
	hashCmd.Flags().Int32Var(&hashSeed, "seed", 0, "hash seed")
	hashCmd.Flags().Float64Var(&hashOffset, "offset", 0, "vertical offset (-2 to 2)")
	hashCmd.Flags().StringVar(&outPath, "svg", "", "also write the grid as SVG")

	lineCmd := &cobra.Command{
		Use:   "line",
		Short: "plot the one-dimensional graph",
		RunE:  runLine,
	}
	lineCmd.Flags().IntVar(&lineResolution, "resolution", 50, "points (10-200)")
	lineCmd.Flags().Float64Var(&lineTime, "time", 0, "seconds to advance before plotting")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [function]",
		Short: "frequency analysis of one cell",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeFunction,
	}
	addCellFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&samples, "samples", 512, "number of samples")

	phaseCmd := &cobra.Command{
		Use:   "phase [function]",
		Short: "portrait of one cell and the upward crossings of the grid",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	addCellFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "x", "axis for x (x, y, z)")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "y", "axis for y (x, y, z)")
	phaseCmd.Flags().Float64Var(&span, "time", 4, "seconds to sample")
	phaseCmd.Flags().Float64Var(&threshold, "threshold", 0, "height for the crossing section")

	sweepCmd := &cobra.Command{
		Use:   "sweep [from] [to]",
		Short: "heights across a frozen transition",
		Args:  cobra.ExactArgs(2),
		RunE:  sweepPlot,
	}
	sweepCmd.Flags().IntVar(&sweepResolution, "resolution", 20, "grid resolution")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 60, "progress steps")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 0, "frozen time")

	benchCmd := &cobra.Command{
		Use:   "bench [function]",
		Short: "frames per second per resolution",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchGraph,
	}
	benchCmd.Flags().StringVar(&benchResolutions, "resolutions", "10,50,100,200,500", "comma separated resolutions")
	benchCmd.Flags().IntVar(&benchFrames, "frames", 120, "frames per resolution")

	guiCmd := &cobra.Command{
		Use:   "gui [function]",
		Short: "raylib window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addGraphFlags(guiCmd)
	guiCmd.Flags().BoolVar(&useGPU, "gpu", false, "sample with opengl compute shaders")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		functionsCmd, presetsCmd, hashCmd, lineCmd, analyzeCmd, phaseCmd, sweepCmd, benchCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&resolution, "resolution", graph.DefaultResolution, "grid resolution (1-1000)")
	cmd.Flags().StringVar(&function, "function", string(surface.Wave), "starting function")
	cmd.Flags().StringVar(&mode, "mode", string(graph.ModeCycle), "transition mode (cycle, random)")
	cmd.Flags().Float64Var(&functionDuration, "function-duration", graph.DefaultFunctionDuration, "seconds per function")
	cmd.Flags().Float64Var(&transitionDuration, "transition-duration", graph.DefaultTransitionDuration, "seconds per transition")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random mode seed (0: time based)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig layers defaults, preset, config file, environment and finally
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if len(args) > 0 {
		function = args[0]
	}
	cfg, err := baseConfig(cmd, len(args) > 0)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("resolution") {
		cfg.Graph.Resolution = resolution
	}
	if flags.Changed("function") || len(args) > 0 {
		cfg.Graph.Function = function
	}
	if flags.Changed("mode") {
		cfg.Graph.Mode = mode
	}
	if flags.Changed("function-duration") {
		cfg.Graph.FunctionDuration = functionDuration
	}
	if flags.Changed("transition-duration") {
		cfg.Graph.TransitionDuration = transitionDuration
	}
	if flags.Changed("seed") {
		cfg.Graph.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Graph.Dt = dt
	}
	if flags.Changed("frames") {
		cfg.Graph.Frames = frames
	}
	if flags.Changed("theme") {
		cfg.Live.Theme = theme
	}
	if flags.Changed("gpu") {
		cfg.Live.GPU = useGPU
	}
	return cfg, finishConfig(cmd, cfg)
}

// baseConfig applies everything below the command line: defaults, the
// preset, the config file and GRAPHLAB_* variables.
func baseConfig(cmd *cobra.Command, named bool) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		name := function
		if !cmd.Flags().Changed("function") && !named {
			name = cfg.Graph.Function
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg.ApplyPreset(*p)
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finishConfig(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Graph.Seed == 0 {
		cfg.Graph.Seed = time.Now().UnixNano()
	}
	return nil
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(os.Stderr, cfg.Log.Level)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	base, err := cfg.GraphConfig()
	if err != nil {
		return err
	}
	counter, err := cfg.Counter()
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Live.Theme)
	return viz.RunInteractive(base, compute.GetBackend(), counter, logging.Discard())
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	gcfg, err := cfg.GraphConfig()
	if err != nil {
		return err
	}
	counter, err := cfg.Counter()
	if err != nil {
		return err
	}

	// the view owns the terminal, so nothing is logged while it runs
	logger := logging.Discard()
	g, err := graph.New(gcfg, graph.WithBackend(compute.GetBackend()), graph.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := g.Init(); err != nil {
		return err
	}
	defer g.Shutdown()

	viz.SetTheme(cfg.Live.Theme)
	return viz.Run(viz.NewModel(g, counter, logger))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	gcfg, err := cfg.GraphConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	backend := compute.GetBackend()
	g, err := graph.New(gcfg, graph.WithBackend(backend), graph.WithLogger(logger))
	if err != nil {
		return err
	}

	rec := storage.NewRecorder(every)
	ms := metrics.Default(1.5)
	onFrame := func(int) bool {
		snap := g.Snapshot()
		metrics.ObserveAll(ms, snap, g.Points())
		rec.Record(snap, g.Points())
		return true
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "function", gcfg.Function, "resolution", gcfg.Resolution, "frames", cfg.Graph.Frames, "backend", backend.Name())
	start := time.Now()
	rc := graph.RunConfig{Dt: cfg.Graph.Dt, Frames: cfg.Graph.Frames}
	if err := graph.Run(ctx, g, rc, onFrame); err != nil {
		return err
	}
	elapsed := time.Since(start)

	capture := rec.Capture()
	lo, hi := extent(capture)
	stats := metrics.Collect(ms)
	stats["min_height"] = lo
	stats["max_height"] = hi
	stats["frames_per_ms"] = float64(rc.Frames) / max(float64(elapsed.Microseconds())/1000, 1e-3)
	meta := storage.RunMetadata{
		Function:           string(gcfg.Function),
		Mode:               string(gcfg.Mode),
		Resolution:         gcfg.Resolution,
		Seed:               gcfg.Seed,
		Dt:                 rc.Dt,
		Frames:             rc.Frames,
		FunctionDuration:   gcfg.FunctionDuration,
		TransitionDuration: gcfg.TransitionDuration,
		Backend:            backend.Name(),
		Stats:              stats,
	}
	runID, err := st.Save(meta, capture)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (recorded %d)\n", rc.Frames, len(capture.Frames))
	fmt.Println("\nstats:")
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %.6f\n", k, stats[k])
	}
	return nil
}

// extent is the height range over every recorded frame.
func extent(c *storage.Capture) (lo, hi float64) {
	first := true
	for _, f := range c.Frames {
		for _, y := range f.Heights {
			if first {
				lo, hi, first = y, y, false
				continue
			}
			lo, hi = min(lo, y), max(hi, y)
		}
	}
	return lo, hi
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
	fmt.Fprintln(w, "ID\tFUNCTION\tTIME\tRES\tFRAMES\tDT\tMODE\tBACKEND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Function,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Resolution,
			run.Frames,
			run.Dt,
			run.Mode,
			run.Backend,
		)
	}
	return w.Flush()
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	gcfg, err := cfg.GraphConfig()
	if err != nil {
		return err
	}
	hcfg, err := cfg.HashConfig()
	if err != nil {
		return err
	}
	counter, err := cfg.Counter()
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Graph:   gcfg,
		Hash:    hcfg,
		GPU:     cfg.Live.GPU,
		Counter: counter,
		Logger:  logger,
	})
}

func benchGraph(cmd *cobra.Command, args []string) error {
	name := surface.Wave
	if len(args) > 0 {
		n, err := surface.ParseName(args[0])
		if err != nil {
			return err
		}
		name = n
	}

	var resolutions []int
	for _, s := range strings.Split(benchResolutions, ",") {
		r, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("bad resolution %q: %w", s, err)
		}
		resolutions = append(resolutions, r)
	}
	if benchFrames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", benchFrames)
	}

	backend := compute.GetBackend()
	fmt.Printf("benchmarking %s on %s\n\n", name, backend.Name())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RES\tPOINTS\tFRAMES\tTIME\tFRAMES/SEC\tPOINTS/SEC")

	for _, res := range resolutions {
		cfg := graph.DefaultConfig()
		cfg.Resolution = res
		cfg.Function = name
		// short durations so transitions are part of the measurement
		cfg.FunctionDuration = 0.5
		cfg.TransitionDuration = 0.5
		g, err := graph.New(cfg, graph.WithBackend(backend), graph.WithLogger(logging.Discard()))
		if err != nil {
			return err
		}

		start := time.Now()
		if err := graph.Run(context.Background(), g, graph.RunConfig{Dt: config.DefaultDt, Frames: benchFrames}, nil); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fps := float64(benchFrames) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3g\n",
			res, res*res, benchFrames, elapsed.Round(time.Microsecond), fps, fps*float64(res*res))
	}
	return w.Flush()
}

func plotSeries(data []float64, caption string, height int) {
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()
}
