package graph

import (
	"context"
	"fmt"
)

// Component is the lifecycle a host drives once per frame.
type Component interface {
	Init() error
	Tick(dt float64) error
	Shutdown() error
}

var (
	_ Component = (*Graph)(nil)
	_ Component = (*Line)(nil)
)

// RunConfig describes a fixed-step headless run.
type RunConfig struct {
	Dt     float64
	Frames int
}

func (rc RunConfig) validate() error {
	if rc.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", rc.Dt)
	}
	if rc.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", rc.Frames)
	}
	return nil
}

// Run initializes c, ticks it rc.Frames times with a fixed dt and always shuts
// it down. onFrame is called after every tick with the frame number starting at
// 1; returning false stops the run early.
func Run(ctx context.Context, c Component, rc RunConfig, onFrame func(frame int) bool) (err error) {
	if err := rc.validate(); err != nil {
		return err
	}
	if err := c.Init(); err != nil {
		return err
	}
	defer func() {
		if serr := c.Shutdown(); serr != nil && err == nil {
			err = serr
		}
	}()

	for i := 1; i <= rc.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.Tick(rc.Dt); err != nil {
			return err
		}
		if onFrame != nil && !onFrame(i) {
			return nil
		}
	}
	return nil
}
