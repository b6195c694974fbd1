package graph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/graphlab/internal/surface"
)

const (
	MinResolution = 1
	MaxResolution = 1000

	DefaultResolution         = 10
	DefaultFunctionDuration   = 1.0
	DefaultTransitionDuration = 1.0
)

// Mode picks the function shown after a transition.
type Mode string

const (
	ModeCycle  Mode = "cycle"
	ModeRandom Mode = "random"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCycle, ModeRandom:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Config struct {
	Resolution         int
	Function           surface.Name
	Mode               Mode
	FunctionDuration   float64
	TransitionDuration float64
	Seed               int64
}

func DefaultConfig() Config {
	return Config{
		Resolution:         DefaultResolution,
		Function:           surface.Wave,
		Mode:               ModeCycle,
		FunctionDuration:   DefaultFunctionDuration,
		TransitionDuration: DefaultTransitionDuration,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Resolution < MinResolution || c.Resolution > MaxResolution {
		errs = append(errs, fmt.Errorf("%w: resolution %d not in [%d, %d]", ErrParameterBounds, c.Resolution, MinResolution, MaxResolution))
	}
	if !c.Function.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", surface.ErrUnknownFunction, string(c.Function)))
	}
	if c.Mode != ModeCycle && c.Mode != ModeRandom {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownMode, string(c.Mode)))
	}
	if !validDuration(c.FunctionDuration) {
		errs = append(errs, fmt.Errorf("%w: function duration %v", ErrParameterBounds, c.FunctionDuration))
	}
	if !validDuration(c.TransitionDuration) {
		errs = append(errs, fmt.Errorf("%w: transition duration %v", ErrParameterBounds, c.TransitionDuration))
	}
	return errors.Join(errs...)
}

func validDuration(d float64) bool {
	return d >= 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
