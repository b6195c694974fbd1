package metrics

import (
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/vec"
)

// Transitions counts how many times the current function changed.
type Transitions struct {
	name    string
	last    string
	started bool
	count   int
}

func NewTransitions() *Transitions {
	return &Transitions{name: "transitions"}
}

func (t *Transitions) Name() string { return t.name }

func (t *Transitions) Observe(s graph.Snapshot, _ []vec.Vec3) {
	cur := string(s.Current)
	if t.started && cur != t.last {
		t.count++
	}
	t.last, t.started = cur, true
}

func (t *Transitions) Value() float64 { return float64(t.count) }

func (t *Transitions) Reset() {
	t.last, t.started, t.count = "", false, 0
}

// TransitionShare is the fraction of frames spent morphing.
type TransitionShare struct {
	name          string
	transitioning int
	samples       int
}

func NewTransitionShare() *TransitionShare {
	return &TransitionShare{name: "transition_share"}
}

func (t *TransitionShare) Name() string { return t.name }

func (t *TransitionShare) Observe(s graph.Snapshot, _ []vec.Vec3) {
	if s.Phase == graph.Transitioning {
		t.transitioning++
	}
	t.samples++
}

func (t *TransitionShare) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.transitioning) / float64(t.samples)
}

func (t *TransitionShare) Reset() {
	t.transitioning = 0
	t.samples = 0
}
