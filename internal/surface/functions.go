package surface

import (
	"math"

	"github.com/san-kum/graphlab/internal/vec"
)

type Function func(u, v, t float64) vec.Vec3

func WaveFunc(u, v, t float64) vec.Vec3 {
	return vec.Vec3{
		X: u,
		Y: math.Sin(math.Pi * (u + v + t)),
		Z: v,
	}
}

func MultiWaveFunc(u, v, t float64) vec.Vec3 {
	y := math.Sin(math.Pi * (u + 0.5*t))
	y += 0.5 * math.Sin(2*math.Pi*(v+t))
	y += 0.5 * math.Sin(math.Pi*(u+v+0.25*t))
	return vec.Vec3{X: u, Y: y * 0.4, Z: v}
}

func RippleFunc(u, v, t float64) vec.Vec3 {
	d := math.Sqrt(u*u + v*v)
	y := math.Sin(math.Pi*(4*d-t)) / (1 + 10*d)
	return vec.Vec3{X: u, Y: y, Z: v}
}

// SphereFunc bands the radius along both axes and scrolls the bands with time.
func SphereFunc(u, v, t float64) vec.Vec3 {
	r := 0.9 + 0.1*math.Sin(math.Pi*(12*u+8*v+t))
	s := r * math.Cos(0.5*math.Pi*v)
	return vec.Vec3{
		X: s * math.Sin(math.Pi*u),
		Y: r * math.Sin(0.5*math.Pi*v),
		Z: s * math.Cos(math.Pi*u),
	}
}

func TorusFunc(u, v, t float64) vec.Vec3 {
	r1 := 0.7 + 0.1*math.Sin(math.Pi*(8*u+0.5*t))
	r2 := 0.15 + 0.05*math.Sin(math.Pi*(16*u+8*v+3*t))
	s := r1 + r2*math.Cos(math.Pi*v)
	return vec.Vec3{
		X: s * math.Sin(math.Pi*u),
		Y: r2 * math.Sin(math.Pi*v),
		Z: s * math.Cos(math.Pi*u),
	}
}
