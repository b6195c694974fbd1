package analysis

import (
	"strings"

	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

// SweepPoint holds the distinct heights of the grid at one transition
// progress value.
type SweepPoint struct {
	Progress float64
	Heights  []float64
}

// MorphSweep freezes time at t and steps the transition from one function to
// another across [0, 1], recording the heights of a resolution² grid at each
// step. Heights equal to three decimals are reported once.
func MorphSweep(from, to surface.Function, resolution, steps int, t float64) []SweepPoint {
	if resolution <= 0 {
		return nil
	}
	if steps <= 1 {
		steps = 2
	}
	step := 2 / float64(resolution)
	results := make([]SweepPoint, 0, steps)

	for s := 0; s < steps; s++ {
		progress := float64(s) / float64(steps-1)
		seen := make(map[int]bool)
		heights := make([]float64, 0, resolution*resolution)

		for i := 0; i < resolution*resolution; i++ {
			u := (float64(i%resolution)+0.5)*step - 1
			v := (float64(i/resolution)+0.5)*step - 1
			y := surface.Morph(u, v, t, from, to, progress).Y
			key := int(y * 1000)
			if !seen[key] {
				seen[key] = true
				heights = append(heights, y)
			}
		}
		results = append(results, SweepPoint{Progress: progress, Heights: heights})
	}
	return results
}

// Extent is the bounding box of points.
func Extent(points []vec.Vec3) (lo, hi vec.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = vec.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = vec.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

// SweepToASCII plots progress along x and height along y.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Heights {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Heights {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
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
