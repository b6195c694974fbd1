package viz

import (
	"math"
	"sort"

	"github.com/san-kum/graphlab/internal/vec"
)

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position         vec.Vec3
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera looks at the origin from a few units away, tilted down so surface
// heights read as vertical offsets.
func NewCamera() *Camera {
	return &Camera{Position: vec.Vec3{Z: 4}, Near: 0.1, RotX: 0.45, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p vec.Vec3) vec.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p vec.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End vec.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe            { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e vec.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p vec.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// PointCloud holds one point per sample.
func PointCloud(points []vec.Vec3) *Wireframe {
	w := &Wireframe{Edges: make([]Edge, 0, len(points))}
	for _, p := range points {
		w.AddPoint(p)
	}
	return w
}

// GridWireframe joins each sample of a row-major resolution² grid to its
// neighbours along u and v.
func GridWireframe(points []vec.Vec3, resolution int) *Wireframe {
	w := NewWireframe()
	if resolution <= 0 || len(points) != resolution*resolution {
		return w
	}
	for i, p := range points {
		x, z := i%resolution, i/resolution
		if x+1 < resolution {
			w.AddEdge(p, points[i+1])
		}
		if z+1 < resolution {
			w.AddEdge(p, points[i+resolution])
		}
		if resolution == 1 {
			w.AddPoint(p)
		}
	}
	return w
}

func CreateAxesWireframe(l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(vec.Vec3{}, vec.Vec3{X: l})
	w.AddEdge(vec.Vec3{}, vec.Vec3{Y: l})
	w.AddEdge(vec.Vec3{}, vec.Vec3{Z: l})
	return w
}
