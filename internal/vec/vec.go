// Package vec provides the 3D vector value shared by the sampling, projection and
// rendering packages.
package vec

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares component-wise within tol.
func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

// LerpUnclamped interpolates from a to b. Weights outside [0,1] extrapolate.
func LerpUnclamped(a, b Vec3, w float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*w,
		a.Y + (b.Y-a.Y)*w,
		a.Z + (b.Z-a.Z)*w,
	}
}

// Float32s flattens points into xyz triples for GPU upload.
func Float32s(points []Vec3, dst []float32) []float32 {
	if cap(dst) < len(points)*3 {
		dst = make([]float32, len(points)*3)
	}
	dst = dst[:len(points)*3]
	for i, p := range points {
		dst[i*3] = float32(p.X)
		dst[i*3+1] = float32(p.Y)
		dst[i*3+2] = float32(p.Z)
	}
	return dst
}
