// Package surface provides the parametric surface functions sampled by the graph.
//
// A [Function] maps normalized grid coordinates u, v in [-1, 1] and time t in
// seconds to a point in 3D space. Every function is pure and total:
//
//   - [WaveFunc]: single travelling sine sheet
//   - [MultiWaveFunc]: sum of three waves
//   - [RippleFunc]: radial ripple decaying with distance
//   - [SphereFunc]: banded pulsing sphere
//   - [TorusFunc]: twisted star torus
//
// Functions are addressed by [Name]. The library keeps an explicit dispatch
// table and a separate cycle order, so a name never doubles as an index.
//
// # Example
//
//	fn := surface.MustGet(surface.Ripple)
//	p := fn(0.25, -0.5, time)
//	q := surface.Morph(0.25, -0.5, time, surface.WaveFunc, fn, 0.3)
package surface
