package export

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/graphlab/internal/analysis"
	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/hashgrid"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
	"github.com/san-kum/graphlab/internal/viz"
)

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 2)
	wellFormed(t, svg)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected svg size")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestPointsToSVG(t *testing.T) {
	points := make([]vec.Vec3, 0, 16)
	for i := 0; i < 16; i++ {
		u := (float64(i%4)+0.5)*0.5 - 1
		v := (float64(i/4)+0.5)*0.5 - 1
		points = append(points, surface.WaveFunc(u, v, 0))
	}

	cam := viz.NewCamera()
	cam.Zoom = 0.5
	svg := PointsToSVG(points, cam, 200, 200)
	wellFormed(t, svg)
	if n := strings.Count(svg, "<circle"); n != 16 {
		t.Errorf("expected 16 dots, got %d", n)
	}
	if PointsToSVG(nil, viz.NewCamera(), 10, 10) != "" {
		t.Error("no points should give empty output")
	}
}

func TestHeightColor(t *testing.T) {
	low, _ := colorful.Hex("#000000")
	high, _ := colorful.Hex("#ffffff")
	if got := HeightColor(-5, low, high); got != "#000000" {
		t.Errorf("below range = %s", got)
	}
	if got := HeightColor(1, low, high); got != "#ffffff" {
		t.Errorf("top of range = %s", got)
	}
}

func TestHashGridToSVG(t *testing.T) {
	g, err := hashgrid.New(hashgrid.Config{Resolution: 4, Seed: 1, VerticalOffset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if HashGridToSVG(g, 64) != "" {
		t.Error("uncomputed grid should give empty output")
	}
	if err := g.Compute(compute.NewCPUBackend()); err != nil {
		t.Fatal(err)
	}

	svg := HashGridToSVG(g, 64)
	wellFormed(t, svg)
	if n := strings.Count(svg, "<rect"); n != 17 {
		t.Errorf("expected background plus 16 cells, got %d rects", n)
	}
	if !strings.Contains(svg, `x="0.00" y="0.00" width="16.00"`) {
		t.Error("first cell should sit in the top-left corner")
	}
}

func TestPathToSVG(t *testing.T) {
	svg := PathToSVG([]analysis.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, 100, 50, "#ff00ff")
	wellFormed(t, svg)
	if strings.Count(svg, " L") != 2 || !strings.Contains(svg, `stroke="#ff00ff"`) {
		t.Errorf("unexpected path svg:\n%s", svg)
	}
	if PathToSVG([]analysis.Point2D{{X: 0, Y: 0}}, 10, 10, "red") != "" {
		t.Error("single point should give empty output")
	}
}
