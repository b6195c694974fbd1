package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/graphlab/internal/surface"
)

// SampleCell returns n heights of fn at (u, v), sampled rate times per second
// starting at t = 0.
func SampleCell(fn surface.Function, u, v, rate float64, n int) []float64 {
	if n <= 0 || rate <= 0 {
		return nil
	}
	ys := make([]float64, n)
	for i := range ys {
		ys[i] = fn(u, v, float64(i)/rate).Y
	}
	return ys
}

// PowerSpectrum returns the magnitudes of the first n/2 bins of the Hann
// windowed signal with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin.
func DominantFrequency(ps []float64, rate float64, n int) float64 {
	if len(ps) < 2 || n <= 0 {
		return 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) * rate / float64(n)
}
