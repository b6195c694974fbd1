package graph_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/surface"
)

var _ = Describe("Transition driver", func() {
	var g *graph.Graph

	start := func(cfg graph.Config) {
		var err error
		g, err = graph.New(cfg,
			graph.WithBackend(compute.NewCPUBackend()),
			graph.WithRand(rand.New(rand.NewSource(7))),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Init()).To(Succeed())
		DeferCleanup(g.Shutdown)
	}

	ticks := func(n int, dt float64) {
		for i := 0; i < n; i++ {
			Expect(g.Tick(dt)).To(Succeed())
		}
	}

	Context("with a two second transition", func() {
		BeforeEach(func() {
			start(graph.Config{
				Resolution:         4,
				Function:           surface.Ripple,
				Mode:               graph.ModeCycle,
				FunctionDuration:   1,
				TransitionDuration: 2,
			})
		})

		It("stays steady until the function duration is reached", func() {
			ticks(9, 0.1)
			s := g.Snapshot()
			Expect(s.Phase).To(Equal(graph.Steady))
			Expect(s.Current).To(Equal(surface.Ripple))
			Expect(s.Progress).To(BeZero())
		})

		It("is half way one second into the transition", func() {
			ticks(2, 0.5)
			Expect(g.Snapshot().Phase).To(Equal(graph.Transitioning))
			ticks(2, 0.5)
			s := g.Snapshot()
			Expect(s.Progress).To(BeNumerically("~", 0.5, 1e-12))
			Expect(s.Eased).To(BeNumerically("~", 0.5, 1e-12))
			Expect(s.Previous).To(Equal(surface.Ripple))
			Expect(s.Current).To(Equal(surface.Sphere))
		})

		It("returns to steady with the duration reset", func() {
			ticks(2, 0.5)
			ticks(4, 0.5)
			s := g.Snapshot()
			Expect(s.Phase).To(Equal(graph.Steady))
			Expect(s.Duration).To(BeZero())
			Expect(s.Current).To(Equal(surface.Sphere))
		})

		It("keeps every sample finite through a full cycle", func() {
			for i := 0; i < 300; i++ {
				Expect(g.Tick(1.0 / 30)).To(Succeed())
				for _, p := range g.Points() {
					Expect(p.IsFinite()).To(BeTrue())
				}
			}
		})
	})

	Context("in random mode", func() {
		BeforeEach(func() {
			start(graph.Config{
				Resolution:         2,
				Function:           surface.Torus,
				Mode:               graph.ModeRandom,
				FunctionDuration:   0.25,
				TransitionDuration: 0.25,
			})
		})

		It("never transitions to the function already shown", func() {
			seen := map[surface.Name]bool{}
			for i := 0; i < 400; i++ {
				Expect(g.Tick(0.125)).To(Succeed())
				s := g.Snapshot()
				if s.Phase == graph.Transitioning {
					Expect(s.Current).NotTo(Equal(s.Previous))
				}
				seen[s.Current] = true
			}
			Expect(seen).To(HaveLen(surface.Count()))
		})
	})

	Context("when switching modes at runtime", func() {
		BeforeEach(func() {
			start(graph.DefaultConfig())
		})

		It("uses the new mode for the next transition", func() {
			Expect(g.SetMode(graph.ModeRandom)).To(Succeed())
			Expect(g.Snapshot().Mode).To(Equal(graph.ModeRandom))
			g.Advance()
			s := g.Snapshot()
			Expect(s.Current).NotTo(Equal(surface.Wave))
		})

		It("accepts zero durations without producing NaN", func() {
			Expect(g.SetDurations(0, 0)).To(Succeed())
			ticks(10, 0.016)
			s := g.Snapshot()
			Expect(math.IsNaN(s.Progress)).To(BeFalse())
			Expect(s.Progress).To(BeNumerically("<=", 1))
		})
	})
})
