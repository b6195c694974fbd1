package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/san-kum/graphlab/internal/analysis"
	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/export"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/hashgrid"
	"github.com/san-kum/graphlab/internal/surface"
)

var (
	cellU, cellV float64
	rate         float64
	samples      int

	xAxis, yAxis string
	span         float64
	threshold    float64

	sweepResolution int
	sweepSteps      int
	sweepTime       float64

	lineResolution int
	lineTime       float64
)

func addCellFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&cellU, "u", 0.25, "cell u in [-1, 1]")
	cmd.Flags().Float64Var(&cellV, "v", 0.25, "cell v in [-1, 1]")
	cmd.Flags().Float64Var(&rate, "rate", 32, "samples per second")
}

func cellFunction(arg string) (surface.Name, surface.Function, error) {
	name, err := surface.ParseName(arg)
	if err != nil {
		return "", nil, err
	}
	if math.Abs(cellU) > 1 || math.Abs(cellV) > 1 {
		return "", nil, fmt.Errorf("cell (%g, %g) outside [-1, 1]", cellU, cellV)
	}
	if rate <= 0 {
		return "", nil, fmt.Errorf("rate must be positive, got %g", rate)
	}
	return name, surface.MustGet(name), nil
}

func analyzeFunction(cmd *cobra.Command, args []string) error {
	name, fn, err := cellFunction(args[0])
	if err != nil {
		return err
	}

	n := 2
	for n < samples {
		n *= 2
	}
	data := analysis.SampleCell(fn, cellU, cellV, rate, n)
	ps := analysis.PowerSpectrum(data)
	if len(ps) < 2 {
		return fmt.Errorf("not enough samples")
	}

	fmt.Printf("frequency analysis: %s at (%.2f, %.2f)\n", name, cellU, cellV)
	fmt.Printf("samples: %d at %.1f hz\n\n", n, rate)

	plotSeries(data[:min(len(data), 4*int(rate))], "height over the first seconds", 10)
	plotSeries(ps[:max(2, len(ps)/4)], "power spectrum (height)", 15)

	freq := analysis.DominantFrequency(ps, rate, n)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	name, fn, err := cellFunction(args[0])
	if err != nil {
		return err
	}
	xa, err := analysis.ParseAxis(xAxis)
	if err != nil {
		return err
	}
	ya, err := analysis.ParseAxis(yAxis)
	if err != nil {
		return err
	}

	portrait := analysis.CellPortrait(fn, cellU, cellV, xa, ya, rate, span)
	if portrait == nil || len(portrait.Points) == 0 {
		return fmt.Errorf("no samples, check --rate and --time")
	}

	fmt.Printf("phase portrait: %s at (%.2f, %.2f)\n", name, cellU, cellV)
	fmt.Printf("x-axis: %s, y-axis: %s, %.1fs\n\n", xa, ya, span)
	fmt.Println(analysis.PortraitToASCII(portrait.Points, 60, 20))

	crossings := analysis.CrossingSection(fn, 20, threshold, rate, span)
	fmt.Printf("\nupward crossings of y=%.2f (x against z): %d\n\n", threshold, len(crossings))
	if len(crossings) > 0 {
		fmt.Println(analysis.PortraitToASCII(crossings, 60, 20))
	}
	return nil
}

func sweepPlot(cmd *cobra.Command, args []string) error {
	from, err := surface.ParseName(args[0])
	if err != nil {
		return err
	}
	to, err := surface.ParseName(args[1])
	if err != nil {
		return err
	}
	if sweepResolution < graph.MinResolution || sweepResolution > graph.MaxResolution {
		return fmt.Errorf("resolution %d not in [%d, %d]", sweepResolution, graph.MinResolution, graph.MaxResolution)
	}

	data := analysis.MorphSweep(surface.MustGet(from), surface.MustGet(to), sweepResolution, sweepSteps, sweepTime)
	fmt.Printf("transition sweep: %s -> %s at t=%.2f\n", from, to, sweepTime)
	fmt.Printf("resolution: %d, steps: %d\n\n", sweepResolution, len(data))
	fmt.Println(analysis.SweepToASCII(data, 60, 20))
	return nil
}

func runLine(cmd *cobra.Command, args []string) error {
	line, err := graph.NewLine(lineResolution)
	if err != nil {
		return err
	}
	if err := line.Init(); err != nil {
		return err
	}
	defer line.Shutdown()

	caption := "y = x^3"
	if lineTime > 0 {
		if err := line.Tick(lineTime); err != nil {
			return err
		}
		caption = fmt.Sprintf("y = sin(pi(x + %.2f))", lineTime)
	}
	plotSeries(line.Heights(), caption, 10)
	return nil
}

func runHash(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig(cmd, false)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Hash.Resolution = hashResolution
	}
	if cmd.Flags().Changed("seed") {
		cfg.Hash.Seed = hashSeed
	}
	if cmd.Flags().Changed("offset") {
		cfg.Hash.VerticalOffset = hashOffset
	}
	if err := finishConfig(cmd, cfg); err != nil {
		return err
	}
	hcfg, err := cfg.HashConfig()
	if err != nil {
		return err
	}

	grid, err := hashgrid.New(hcfg)
	if err != nil {
		return err
	}
	backend := compute.GetBackend()
	if err := grid.Compute(backend); err != nil {
		return err
	}

	stats := grid.Stats()
	cv := grid.ConfigVector()
	fmt.Printf("hash grid: %dx%d seed=%d offset=%.2f (%s)\n", hcfg.Resolution, hcfg.Resolution, hcfg.Seed, hcfg.VerticalOffset, backend.Name())
	fmt.Printf("config vector: (%.0f, %.6f, %.6f)\n", cv[0], cv[1], cv[2])
	fmt.Printf("cells: %d, distinct hashes: %d\n", stats.Cells, stats.Distinct)
	fmt.Printf("mean high byte: %.2f (uniform: 127.50)\n\n", stats.Mean)

	buckets := make([]float64, len(stats.Buckets))
	for i, b := range stats.Buckets {
		buckets[i] = float64(b)
	}
	plotSeries(buckets, "high byte histogram (16 buckets)", 8)

	if outPath != "" {
		return writeOutput(outPath, export.HashGridToSVG(grid, 512))
	}
	return nil
}
