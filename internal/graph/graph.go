package graph

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/logging"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

type Phase int

const (
	Steady Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "steady"
}

// Sink receives the sampled positions at the end of every tick.
type Sink interface {
	Upload(points []vec.Vec3) error
}

// Snapshot is a read-only view of the transition state.
type Snapshot struct {
	Phase      Phase
	Current    surface.Name
	Previous   surface.Name
	Mode       Mode
	Resolution int
	// Progress is the raw transition progress in [0, 1]; Eased is what the
	// kernels blend with.
	Progress float64
	Eased    float64
	Duration float64
	Elapsed  float64
	Frame    int
}

type Option func(*Graph)

func WithBackend(b compute.Backend) Option { return func(g *Graph) { g.backend = b } }
func WithSink(s Sink) Option               { return func(g *Graph) { g.sink = s } }
func WithLogger(l *log.Logger) Option      { return func(g *Graph) { g.logger = l } }
func WithRand(r *rand.Rand) Option         { return func(g *Graph) { g.rng = r } }

type Graph struct {
	cfg     Config
	backend compute.Backend
	sink    Sink
	logger  *log.Logger
	rng     *rand.Rand
	buf     *compute.Buffer

	current, previous surface.Name
	transitioning     bool
	duration          float64
	elapsed           float64
	frame             int
}

func New(cfg Config, opts ...Option) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{
		cfg:      cfg,
		current:  cfg.Function,
		previous: cfg.Function,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.backend == nil {
		g.backend = compute.GetBackend()
	}
	if g.logger == nil {
		g.logger = logging.Discard()
	}
	if g.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed))
	}
	return g, nil
}

func (g *Graph) Config() Config { return g.cfg }

func (g *Graph) Backend() compute.Backend { return g.backend }

// Init acquires the position buffer. Calling it on a running graph is a no-op.
func (g *Graph) Init() error {
	if g.running() {
		return nil
	}
	n := g.cfg.Resolution * g.cfg.Resolution
	buf, err := g.backend.Allocate(n)
	if err != nil {
		return fmt.Errorf("allocate %d points on %s: %w", n, g.backend.Name(), err)
	}
	g.buf = buf
	g.logger.Debug("graph initialized", "resolution", g.cfg.Resolution, "backend", g.backend.Name())
	return nil
}

// Shutdown releases the position buffer. It is safe to call more than once.
func (g *Graph) Shutdown() error {
	if g.buf != nil {
		g.buf.Release()
		g.buf = nil
		g.logger.Debug("graph shut down", "frames", g.frame)
	}
	return nil
}

func (g *Graph) running() bool {
	return g.buf != nil && !g.buf.Released()
}

// Tick advances the state machine by dt seconds and resamples the grid.
func (g *Graph) Tick(dt float64) error {
	if !g.running() {
		return ErrNotInitialized
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}

	g.elapsed += dt
	g.duration += dt

	if g.transitioning {
		if g.duration >= g.cfg.TransitionDuration {
			g.duration = 0
			g.transitioning = false
			g.logger.Debug("transition complete", "function", g.current, "t", g.elapsed)
		}
	} else if g.duration >= g.cfg.FunctionDuration {
		g.duration -= g.cfg.FunctionDuration
		g.beginTransition()
	}

	g.frame++
	if err := g.sample(); err != nil {
		return &TickError{Frame: g.frame, Time: g.elapsed, Wrapped: err}
	}
	if g.sink != nil {
		if err := g.sink.Upload(g.buf.Points); err != nil {
			return &TickError{Frame: g.frame, Time: g.elapsed, Wrapped: fmt.Errorf("upload: %w", err)}
		}
	}
	return nil
}

func (g *Graph) beginTransition() {
	g.transitioning = true
	g.previous = g.current
	g.current = g.pickNext()
	g.logger.Debug("transition", "from", g.previous, "to", g.current, "mode", g.cfg.Mode, "t", g.elapsed)
}

func (g *Graph) pickNext() surface.Name {
	if g.cfg.Mode == ModeRandom {
		return surface.RandomOtherThan(g.current, g.rng)
	}
	return surface.Next(g.current)
}

// progress never divides by zero: an instant transition is complete at once.
func (g *Graph) progress() float64 {
	if !g.transitioning {
		return 0
	}
	if g.cfg.TransitionDuration <= 0 {
		return 1
	}
	return math.Min(1, g.duration/g.cfg.TransitionDuration)
}

func (g *Graph) sample() error {
	from := g.current
	if g.transitioning {
		from = g.previous
	}
	return g.backend.Surface(compute.SurfaceParams{
		Resolution: g.cfg.Resolution,
		Time:       g.elapsed,
		From:       from,
		To:         g.current,
		Progress:   g.progress(),
	}, g.buf.Points)
}

// Points returns the positions from the last tick, or nil when not running.
// The slice is reused by the next tick.
func (g *Graph) Points() []vec.Vec3 {
	if !g.running() {
		return nil
	}
	return g.buf.Points
}

func (g *Graph) Snapshot() Snapshot {
	phase := Steady
	if g.transitioning {
		phase = Transitioning
	}
	p := g.progress()
	return Snapshot{
		Phase:      phase,
		Current:    g.current,
		Previous:   g.previous,
		Mode:       g.cfg.Mode,
		Resolution: g.cfg.Resolution,
		Progress:   p,
		Eased:      surface.SmoothStep(0, 1, p),
		Duration:   g.duration,
		Elapsed:    g.elapsed,
		Frame:      g.frame,
	}
}

// Advance starts the next transition immediately. It does nothing while a
// transition is already running.
func (g *Graph) Advance() {
	if g.transitioning {
		return
	}
	g.duration = 0
	g.beginTransition()
}

// SetFunction shows name right away, cancelling any transition.
func (g *Graph) SetFunction(name surface.Name) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", surface.ErrUnknownFunction, string(name))
	}
	g.current, g.previous = name, name
	g.transitioning = false
	g.duration = 0
	g.cfg.Function = name
	return nil
}

func (g *Graph) SetMode(m Mode) error {
	if m != ModeCycle && m != ModeRandom {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
	g.cfg.Mode = m
	return nil
}

// SetDurations changes the display and transition durations.
func (g *Graph) SetDurations(function, transition float64) error {
	if !validDuration(function) || !validDuration(transition) {
		return fmt.Errorf("%w: durations %v, %v", ErrParameterBounds, function, transition)
	}
	g.cfg.FunctionDuration = function
	g.cfg.TransitionDuration = transition
	return nil
}

// Resize changes the grid resolution. A running graph gets a new buffer.
func (g *Graph) Resize(resolution int) error {
	if resolution < MinResolution || resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d not in [%d, %d]", ErrParameterBounds, resolution, MinResolution, MaxResolution)
	}
	if resolution == g.cfg.Resolution {
		return nil
	}
	wasRunning := g.running()
	if err := g.Shutdown(); err != nil {
		return err
	}
	g.cfg.Resolution = resolution
	if wasRunning {
		return g.Init()
	}
	return nil
}
