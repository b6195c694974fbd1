// Package analysis provides tools for looking at surfaces over time.
//
//   - [SampleCell]: the height of one grid cell sampled at a fixed rate
//   - [PowerSpectrum] and [DominantFrequency]: temporal spectrum of a cell
//   - [CellPortrait]: 2D trajectory of a cell in any pair of axes
//   - [MorphSweep]: heights across the grid as a transition progresses
//
// # Frequency of a cell
//
//	heights := analysis.SampleCell(surface.WaveFunc, 0, 0, 32, 256)
//	ps := analysis.PowerSpectrum(heights)
//	hz := analysis.DominantFrequency(ps, 32, len(heights))
package analysis
