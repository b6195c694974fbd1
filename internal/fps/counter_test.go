package fps

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewCounterBounds(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		sample  float64
		wantErr error
	}{
		{"fps default", ModeFPS, DefaultSampleDuration, nil},
		{"ms min", ModeMS, MinSampleDuration, nil},
		{"max", ModeFPS, MaxSampleDuration, nil},
		{"too short", ModeFPS, 0.05, ErrSampleDuration},
		{"too long", ModeFPS, 2.5, ErrSampleDuration},
		{"nan", ModeFPS, math.NaN(), ErrSampleDuration},
		{"bad mode", Mode("hz"), 1, ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCounter(tt.mode, tt.sample)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFPSReading(t *testing.T) {
	c, _ := NewCounter(ModeFPS, 1)
	frames := []float64{0.25, 0.125, 0.5, 0.125}

	var (
		r  Reading
		ok bool
	)
	for i, d := range frames {
		r, ok = c.ObserveSeconds(d)
		if i < len(frames)-1 && ok {
			t.Fatalf("window closed early at frame %d", i)
		}
	}
	if !ok {
		t.Fatal("window should close at 1s")
	}

	if r.Frames != 4 || r.Best != 8 || r.Average != 4 || r.Worst != 2 {
		t.Errorf("unexpected reading %+v", r)
	}
	if got, want := r.String(), "FPS\n8\n4\n2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMSReading(t *testing.T) {
	c, _ := NewCounter(ModeMS, 0.1)
	if _, ok := c.Observe(50 * time.Millisecond); ok {
		t.Fatal("window closed early")
	}
	r, ok := c.Observe(100 * time.Millisecond)
	if !ok {
		t.Fatal("window should close")
	}
	if math.Abs(r.Best-50) > 1e-9 || math.Abs(r.Average-75) > 1e-9 || math.Abs(r.Worst-100) > 1e-9 {
		t.Errorf("unexpected reading %+v", r)
	}
	if got, want := r.String(), "MS\n50.0\n75.0\n100.0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResetAfterReading(t *testing.T) {
	c, _ := NewCounter(ModeFPS, 0.1)
	c.ObserveSeconds(0.2)

	r, ok := c.ObserveSeconds(0.5)
	if !ok {
		t.Fatal("second window should close on its own frame")
	}
	if r.Frames != 1 || r.Best != 2 || r.Worst != 2 {
		t.Errorf("window did not reset: %+v", r)
	}
}

func TestIgnoresBadFrames(t *testing.T) {
	c, _ := NewCounter(ModeFPS, 0.1)
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, ok := c.ObserveSeconds(d); ok {
			t.Errorf("frame %v should be ignored", d)
		}
	}
	if c.frames != 0 {
		t.Errorf("bad frames were counted: %d", c.frames)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("MS"); err != nil || m != ModeMS {
		t.Errorf("ParseMode(MS) = %v, %v", m, err)
	}
	if _, err := ParseMode("hz"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}
