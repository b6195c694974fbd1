package surface

import "github.com/san-kum/graphlab/internal/vec"

// Morph blends from into to. Progress is eased with SmoothStep and the blend
// itself is unclamped, so eased weights past the ends overshoot.
func Morph(u, v, t float64, from, to Function, progress float64) vec.Vec3 {
	return vec.LerpUnclamped(from(u, v, t), to(u, v, t), SmoothStep(0, 1, progress))
}

// SmoothStep is the clamped Hermite ease between edge0 and edge1.
func SmoothStep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
