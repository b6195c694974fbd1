package graph

import (
	"fmt"
	"math"

	"github.com/san-kum/graphlab/internal/vec"
)

const (
	MinLineResolution = 10
	MaxLineResolution = 200
)

// Line is the one-dimensional graph: resolution points along x in [-1, 1]
// that start on y = x^3 and then follow a travelling sine wave.
type Line struct {
	resolution int
	points     []vec.Vec3
	elapsed    float64
}

func NewLine(resolution int) (*Line, error) {
	if resolution < MinLineResolution || resolution > MaxLineResolution {
		return nil, fmt.Errorf("%w: line resolution %d not in [%d, %d]", ErrParameterBounds, resolution, MinLineResolution, MaxLineResolution)
	}
	return &Line{resolution: resolution}, nil
}

func (l *Line) Init() error {
	step := 2 / float64(l.resolution)
	l.points = make([]vec.Vec3, l.resolution)
	for i := range l.points {
		x := (float64(i)+0.5)*step - 1
		l.points[i] = vec.Vec3{X: x, Y: x * x * x}
	}
	l.elapsed = 0
	return nil
}

func (l *Line) Tick(dt float64) error {
	if l.points == nil {
		return ErrNotInitialized
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	l.elapsed += dt
	for i := range l.points {
		l.points[i].Y = math.Sin(math.Pi * (l.points[i].X + l.elapsed))
	}
	return nil
}

func (l *Line) Shutdown() error {
	l.points = nil
	return nil
}

func (l *Line) Points() []vec.Vec3 { return l.points }

func (l *Line) Heights() []float64 {
	ys := make([]float64, len(l.points))
	for i, p := range l.points {
		ys[i] = p.Y
	}
	return ys
}
