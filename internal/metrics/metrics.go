// Package metrics summarizes a graph run frame by frame.
package metrics

import (
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/vec"
)

type Metric interface {
	Name() string
	Observe(s graph.Snapshot, points []vec.Vec3)
	Value() float64
	Reset()
}

// Default is the set recorded with every saved run.
func Default(threshold float64) []Metric {
	return []Metric{
		NewMeanHeight(),
		NewTransitions(),
		NewTransitionShare(),
		NewBounded(threshold),
	}
}

func ObserveAll(ms []Metric, s graph.Snapshot, points []vec.Vec3) {
	for _, m := range ms {
		m.Observe(s, points)
	}
}

func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
