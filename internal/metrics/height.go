package metrics

import (
	"math"

	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/vec"
)

// MeanHeight is the mean |y| over every cell of every observed frame.
type MeanHeight struct {
	name    string
	sum     float64
	samples int
}

func NewMeanHeight() *MeanHeight {
	return &MeanHeight{name: "mean_height"}
}

func (m *MeanHeight) Name() string { return m.name }

func (m *MeanHeight) Observe(_ graph.Snapshot, points []vec.Vec3) {
	for _, p := range points {
		m.sum += math.Abs(p.Y)
	}
	m.samples += len(points)
}

func (m *MeanHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanHeight) Reset() {
	m.sum = 0
	m.samples = 0
}

// Bounded is the fraction of frames whose points all stay within threshold
// of the origin on every axis.
type Bounded struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{name: "bounded", threshold: threshold}
}

func (b *Bounded) Name() string { return b.name }

func (b *Bounded) Observe(_ graph.Snapshot, points []vec.Vec3) {
	b.samples++
	for _, p := range points {
		if math.Abs(p.X) > b.threshold || math.Abs(p.Y) > b.threshold || math.Abs(p.Z) > b.threshold {
			b.violations++
			break
		}
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
