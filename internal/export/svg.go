package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/graphlab/internal/analysis"
	"github.com/san-kum/graphlab/internal/hashgrid"
	"github.com/san-kum/graphlab/internal/vec"
	"github.com/san-kum/graphlab/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG draws one circle per lit Braille dot, scale units apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HeightColor blends from low to high as y goes from -1 to 1.
func HeightColor(y float64, low, high colorful.Color) string {
	t := max(0, min(1, (y+1)/2))
	return low.BlendLab(high, t).Clamped().Hex()
}

var (
	lowColor, _  = colorful.Hex("#0077be")
	highColor, _ = colorful.Hex("#ff6b6b")
)

// PointsToSVG projects surface samples through cam and draws them far to
// near, colored by height.
func PointsToSVG(points []vec.Vec3, cam *viz.Camera, width, height int) string {
	if len(points) == 0 || cam == nil {
		return ""
	}

	type dot struct {
		x, y  int
		depth float64
		fill  string
	}
	dots := make([]dot, 0, len(points))
	for _, p := range points {
		x, y, d, ok := cam.Project(p, width, height)
		if ok {
			dots = append(dots, dot{x, y, d, HeightColor(p.Y, lowColor, highColor)})
		}
	}
	sort.Slice(dots, func(i, j int) bool { return dots[i].depth < dots[j].depth })

	r := max(1.0, float64(min(width, height))/float64(4*max(1, isqrt(len(points)))))
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	for _, d := range dots {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>`+"\n", d.x, d.y, r, d.fill))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// HashGridToSVG draws the grid from above, one square per cell in its hash
// color.
func HashGridToSVG(g *hashgrid.Grid, size int) string {
	if g == nil || g.Len() == 0 || size <= 0 {
		return ""
	}
	res := g.Config().Resolution
	cell := float64(size) / float64(res)

	var sb strings.Builder
	header(&sb, float64(size), float64(size))
	for i := 0; i < g.Len(); i++ {
		p := g.Position(i)
		r, gr, b := g.Color(i)
		x := (p.X + 0.5) * float64(size)
		y := (p.Z + 0.5) * float64(size)
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#%02x%02x%02x"/>`+"\n",
			x-cell/2, y-cell/2, cell, cell, r, gr, b))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// PathToSVG draws points as one polyline scaled to fit.
func PathToSVG(points []analysis.Point2D, width, height int, strokeColor string) string {
	if len(points) < 2 {
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

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
