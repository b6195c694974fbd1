package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/graphlab/internal/export"
	"github.com/san-kum/graphlab/internal/storage"
	"github.com/san-kum/graphlab/internal/viz"
)

var (
	cellIndex int

	outPath  string
	svgStyle string
	svgSize  int

	hashResolution int
	hashSeed       int32
	hashOffset     float64
)

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	cell := cellIndex
	if cell < 0 {
		cell = (meta.Resolution/2)*meta.Resolution + meta.Resolution/2
	}
	if cell >= len(frames[0].Heights) {
		return fmt.Errorf("cell %d out of range (grid has %d cells)", cell, len(frames[0].Heights))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("function: %s (%s)\n", meta.Function, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(frames))

	heights := make([]float64, len(frames))
	progress := make([]float64, len(frames))
	for i, f := range frames {
		heights[i] = f.Heights[cell]
		progress[i] = f.Progress
	}
	plotSeries(heights, fmt.Sprintf("cell %d height", cell), 10)
	plotSeries(progress, "transition progress", 5)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}
	f, err := os.Open(st.FramesPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("run %s has no points", meta.ID)
	}

	cam := viz.NewCamera()
	var svg string
	switch svgStyle {
	case "points":
		svg = export.PointsToSVG(points, cam, svgSize, svgSize)
	case "braille":
		canvas := viz.NewCanvas(svgSize/8, svgSize/16)
		viz.Render3D(canvas, viz.GridWireframe(points, meta.Resolution), cam)
		svg = export.CanvasToSVG(canvas, 4)
	default:
		return fmt.Errorf("unknown style %q (points, braille)", svgStyle)
	}
	return writeOutput(outPath, svg)
}

// writeOutput writes s to path, or to stdout when path is empty.
func writeOutput(path, s string) error {
	if path == "" {
		_, err := fmt.Println(s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
