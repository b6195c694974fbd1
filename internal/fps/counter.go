// Package fps measures frame rate over fixed sample windows.
package fps

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinSampleDuration     = 0.1
	MaxSampleDuration     = 2.0
	DefaultSampleDuration = 1.0
)

var (
	ErrUnknownMode    = errors.New("fps: unknown display mode")
	ErrSampleDuration = errors.New("fps: sample duration out of range")
)

type Mode string

const (
	ModeFPS Mode = "fps"
	ModeMS  Mode = "ms"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFPS, ModeMS:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Reading summarizes one sample window. Best, Average and Worst are frames per
// second in FPS mode and milliseconds per frame in MS mode.
type Reading struct {
	Mode    Mode
	Best    float64
	Average float64
	Worst   float64
	Frames  int
}

func (r Reading) String() string {
	if r.Mode == ModeMS {
		return fmt.Sprintf("MS\n%.1f\n%.1f\n%.1f", r.Best, r.Average, r.Worst)
	}
	return fmt.Sprintf("FPS\n%.0f\n%.0f\n%.0f", r.Best, r.Average, r.Worst)
}

// Counter accumulates frame durations and emits a Reading each time the
// window reaches SampleDuration seconds.
type Counter struct {
	mode           Mode
	sampleDuration float64

	frames   int
	duration float64
	best     float64
	worst    float64
}

func NewCounter(mode Mode, sampleDuration float64) (*Counter, error) {
	if mode != ModeFPS && mode != ModeMS {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	if sampleDuration < MinSampleDuration || sampleDuration > MaxSampleDuration || math.IsNaN(sampleDuration) {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrSampleDuration, sampleDuration, MinSampleDuration, MaxSampleDuration)
	}
	c := &Counter{mode: mode, sampleDuration: sampleDuration}
	c.Reset()
	return c, nil
}

func (c *Counter) Mode() Mode { return c.mode }

func (c *Counter) SetMode(m Mode) error {
	if m != ModeFPS && m != ModeMS {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
	c.mode = m
	return nil
}

func (c *Counter) Reset() {
	c.frames = 0
	c.duration = 0
	c.best = math.MaxFloat64
	c.worst = 0
}

// Observe records one frame. The second result is true when a sample window
// closed and the returned Reading is valid.
func (c *Counter) Observe(frame time.Duration) (Reading, bool) {
	return c.ObserveSeconds(frame.Seconds())
}

func (c *Counter) ObserveSeconds(d float64) (Reading, bool) {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Reading{}, false
	}

	c.frames++
	c.duration += d
	if d < c.best {
		c.best = d
	}
	if d > c.worst {
		c.worst = d
	}

	if c.duration < c.sampleDuration {
		return Reading{}, false
	}

	r := Reading{Mode: c.mode, Frames: c.frames}
	if c.mode == ModeMS {
		r.Best = 1000 * c.best
		r.Average = 1000 * c.duration / float64(c.frames)
		r.Worst = 1000 * c.worst
	} else {
		r.Best = 1 / c.best
		r.Average = float64(c.frames) / c.duration
		r.Worst = 1 / c.worst
	}
	c.Reset()
	return r, true
}
