package storage

import (
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/vec"
)

// Frame is one recorded tick: the transition state and the height of every
// cell in row-major order.
type Frame struct {
	Index    int       `json:"frame"`
	Time     float64   `json:"time"`
	Phase    string    `json:"phase"`
	Function string    `json:"function"`
	Previous string    `json:"previous"`
	Progress float64   `json:"progress"`
	Heights  []float64 `json:"heights"`
}

// Capture holds the recorded frames of a run and the full positions of the
// last one.
type Capture struct {
	Frames []Frame
	Last   []vec.Vec3
}

// Recorder copies graph state every Every frames.
type Recorder struct {
	Every   int
	capture Capture
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) Record(s graph.Snapshot, points []vec.Vec3) {
	if s.Frame%r.Every != 0 {
		return
	}
	heights := make([]float64, len(points))
	for i, p := range points {
		heights[i] = p.Y
	}
	r.capture.Frames = append(r.capture.Frames, Frame{
		Index:    s.Frame,
		Time:     s.Elapsed,
		Phase:    s.Phase.String(),
		Function: string(s.Current),
		Previous: string(s.Previous),
		Progress: s.Progress,
		Heights:  heights,
	})
	r.capture.Last = append(r.capture.Last[:0], points...)
}

func (r *Recorder) Capture() *Capture { return &r.capture }
