package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) Of(p vec.Vec3) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisZ:
		return p.Z
	}
	return p.Y
}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

type Point2D struct{ X, Y float64 }

// Portrait holds the path of one cell projected onto two axes.
type Portrait struct {
	XAxis, YAxis Axis
	Points       []Point2D
}

// CellPortrait records where the cell at (u, v) sits over duration seconds.
func CellPortrait(fn surface.Function, u, v float64, xAxis, yAxis Axis, rate, duration float64) *Portrait {
	if rate <= 0 || duration <= 0 {
		return nil
	}
	n := int(duration * rate)
	portrait := &Portrait{
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]Point2D, 0, n),
	}
	for i := 0; i < n; i++ {
		p := fn(u, v, float64(i)/rate)
		portrait.Points = append(portrait.Points, Point2D{X: xAxis.Of(p), Y: yAxis.Of(p)})
	}
	return portrait
}

// CrossingSection records the (x, z) position of every sample of the grid
// whose height crosses threshold going up between two frames.
func CrossingSection(fn surface.Function, resolution int, threshold, rate, duration float64) []Point2D {
	if resolution <= 0 || rate <= 0 || duration <= 0 {
		return nil
	}
	step := 2 / float64(resolution)
	frames := int(duration * rate)
	prev := make([]float64, resolution*resolution)
	var section []Point2D

	for f := 0; f < frames; f++ {
		t := float64(f) / rate
		for i := range prev {
			u := (float64(i%resolution)+0.5)*step - 1
			v := (float64(i/resolution)+0.5)*step - 1
			p := fn(u, v, t)
			if f > 0 && prev[i] < threshold && p.Y >= threshold {
				section = append(section, Point2D{X: p.X, Y: p.Z})
			}
			prev[i] = p.Y
		}
	}
	return section
}

// PortraitToASCII plots points on a width by height character grid with axes
// drawn where zero is visible.
func PortraitToASCII(points []Point2D, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
