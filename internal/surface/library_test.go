package surface_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

var _ = Describe("Functions", func() {
	It("returns finite points across the domain", func() {
		times := []float64{-1e3, -12.5, -1, 0, 0.33, 1, 7.25, 1e3}
		for _, name := range surface.Names() {
			fn := surface.MustGet(name)
			for u := -1.0; u <= 1.0; u += 0.125 {
				for v := -1.0; v <= 1.0; v += 0.125 {
					for _, t := range times {
						p := fn(u, v, t)
						Expect(p.IsFinite()).To(BeTrue(), "%s(%v, %v, %v) = %v", name, u, v, t, p)
					}
				}
			}
		}
	})

	It("evaluates Wave at the first cell of a 4x4 grid", func() {
		u, v := -0.75, -0.75
		p := surface.WaveFunc(u, v, 0)
		Expect(p.X).To(Equal(u))
		Expect(p.Z).To(Equal(v))
		Expect(p.Y).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("keeps the planar functions on the u/v grid", func() {
		for _, fn := range []surface.Function{surface.WaveFunc, surface.MultiWaveFunc, surface.RippleFunc} {
			p := fn(0.3, -0.6, 2.0)
			Expect(p.X).To(Equal(0.3))
			Expect(p.Z).To(Equal(-0.6))
		}
	})

	It("bounds the sphere radius", func() {
		for u := -1.0; u <= 1.0; u += 0.1 {
			for v := -1.0; v <= 1.0; v += 0.1 {
				r := surface.SphereFunc(u, v, 0.7).Length()
				Expect(r).To(BeNumerically(">=", 0.8-1e-9))
				Expect(r).To(BeNumerically("<=", 1.0+1e-9))
			}
		}
	})

	It("peaks the ripple at the center", func() {
		p := surface.RippleFunc(0, 0, -0.5)
		Expect(p.Y).To(BeNumerically("~", 1.0, 1e-12))
	})
})

var _ = Describe("Morph", func() {
	points := [][2]float64{{-1, -1}, {-0.25, 0.5}, {0, 0}, {0.75, -0.125}, {1, 1}}

	It("is the identity when blending a function with itself", func() {
		for _, name := range surface.Names() {
			fn := surface.MustGet(name)
			for _, uv := range points {
				for _, progress := range []float64{-0.5, 0, 0.2, 0.5, 0.9, 1, 1.7} {
					got := surface.Morph(uv[0], uv[1], 1.3, fn, fn, progress)
					Expect(got.ApproxEqual(fn(uv[0], uv[1], 1.3), 1e-12)).To(BeTrue())
				}
			}
		}
	})

	It("starts at from and ends at to", func() {
		from, to := surface.WaveFunc, surface.TorusFunc
		for _, uv := range points {
			start := surface.Morph(uv[0], uv[1], 0.4, from, to, 0)
			end := surface.Morph(uv[0], uv[1], 0.4, from, to, 1)
			Expect(start.ApproxEqual(from(uv[0], uv[1], 0.4), 1e-12)).To(BeTrue())
			Expect(end.ApproxEqual(to(uv[0], uv[1], 0.4), 1e-12)).To(BeTrue())
		}
	})

	It("blends halfway at progress 0.5", func() {
		from, to := surface.RippleFunc, surface.SphereFunc
		a, b := from(0.5, 0.5, 3), to(0.5, 0.5, 3)
		want := vec.LerpUnclamped(a, b, 0.5)
		Expect(surface.Morph(0.5, 0.5, 3, from, to, 0.5).ApproxEqual(want, 1e-12)).To(BeTrue())
	})
})

var _ = Describe("SmoothStep", func() {
	DescribeTable("eases between the edges",
		func(x, want float64) {
			Expect(surface.SmoothStep(0, 1, x)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("below", -1.0, 0.0),
		Entry("start", 0.0, 0.0),
		Entry("quarter", 0.25, 0.15625),
		Entry("half", 0.5, 0.5),
		Entry("end", 1.0, 1.0),
		Entry("above", 2.0, 1.0),
	)

	It("handles equal edges", func() {
		Expect(surface.SmoothStep(1, 1, 0.5)).To(Equal(0.0))
		Expect(surface.SmoothStep(1, 1, 1.5)).To(Equal(1.0))
	})
})

var _ = Describe("Library", func() {
	It("has five functions", func() {
		Expect(surface.Count()).To(Equal(5))
		Expect(surface.Names()).To(HaveLen(5))
	})

	It("rejects unknown names", func() {
		_, err := surface.Get("cube")
		Expect(errors.Is(err, surface.ErrUnknownFunction)).To(BeTrue())
		Expect(func() { surface.MustGet("cube") }).To(Panic())
	})

	DescribeTable("parses names",
		func(in string, want surface.Name) {
			got, err := surface.ParseName(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("lower", "wave", surface.Wave),
		Entry("camel", "MultiWave", surface.MultiWave),
		Entry("snake", "multi_wave", surface.MultiWave),
		Entry("padded", "  Torus ", surface.Torus),
	)

	It("cycles through every name before repeating", func() {
		names := surface.Names()
		seen := map[surface.Name]bool{}
		current := names[0]
		for i := 0; i < len(names); i++ {
			Expect(seen[current]).To(BeFalse())
			seen[current] = true
			current = surface.Next(current)
		}
		Expect(seen).To(HaveLen(len(names)))
		Expect(current).To(Equal(names[0]))
		Expect(surface.Next(surface.Torus)).To(Equal(surface.Wave))
	})

	It("never picks the current name at random", func() {
		rng := rand.New(rand.NewSource(7))
		for _, name := range surface.Names() {
			for i := 0; i < 200; i++ {
				Expect(surface.RandomOtherThan(name, rng)).NotTo(Equal(name))
			}
		}
	})

	It("covers the other names uniformly", func() {
		const trials = 40000
		rng := rand.New(rand.NewSource(42))
		counts := map[surface.Name]int{}
		for i := 0; i < trials; i++ {
			counts[surface.RandomOtherThan(surface.Ripple, rng)]++
		}
		Expect(counts).To(HaveLen(surface.Count() - 1))
		expected := float64(trials) / float64(surface.Count()-1)
		for name, c := range counts {
			Expect(math.Abs(float64(c)-expected)/expected).To(BeNumerically("<", 0.05), "name %s", name)
		}
	})
})
