// Package gui hosts the graph in a raylib window. It owns the frame loop and
// the GL context, so it is also where the GPU backend gets installed.
package gui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/compute/glcompute"
	"github.com/san-kum/graphlab/internal/fps"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/hashgrid"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	maxDelta     = 0.1
	telemetryLen = 200
	resStep      = 5
)

type Options struct {
	Graph   graph.Config
	Hash    hashgrid.Config
	GPU     bool
	Counter *fps.Counter
	Logger  *log.Logger
}

// action is one user command, decoupled from raylib input so it can be
// applied without a window.
type action int

const (
	actNone action = iota
	actQuit
	actPause
	actAdvance
	actToggleMode
	actToggleHash
	actToggleMenu
	actFinerGrid
	actCoarserGrid
	actFPSMode
	actMenuUp
	actMenuDown
	actMenuSelect
)

type App struct {
	graph   *graph.Graph
	grid    *hashgrid.Grid
	backend compute.Backend
	counter *fps.Counter
	reading fps.Reading
	logger  *log.Logger

	Camera       rl.Camera3D
	CamPosTarget rl.Vector3
	Font         rl.Font
	hasFont      bool

	Running  bool
	InMenu   bool
	ShowHash bool
	Names    []surface.Name
	Selected int

	points    []rl.Vector3
	heights   []float32
	Telemetry []float64
	err       error
}

func initWindow() {
	rl.InitWindow(windowWidth, windowHeight, "graphlab")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// newApp builds the app around an already selected backend. It does not touch
// the window.
func newApp(opts Options, backend compute.Backend) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	counter := opts.Counter
	if counter == nil {
		c, err := fps.NewCounter(fps.ModeFPS, fps.DefaultSampleDuration)
		if err != nil {
			return nil, err
		}
		counter = c
	}
	grid, err := hashgrid.New(opts.Hash)
	if err != nil {
		return nil, err
	}

	a := &App{
		grid:      grid,
		backend:   backend,
		counter:   counter,
		logger:    logger,
		Running:   true,
		Names:     surface.Names(),
		Telemetry: make([]float64, 0, telemetryLen),
		Camera: rl.NewCamera3D(
			rl.NewVector3(2.2, 1.6, 2.2),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
	}
	a.CamPosTarget = a.Camera.Position

	g, err := graph.New(opts.Graph,
		graph.WithBackend(backend),
		graph.WithSink(a),
		graph.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.graph = g
	return a, nil
}

// selectBackend installs the GL backend when asked for and a context is
// current, falling back to the CPU.
func selectBackend(gpu bool, logger *log.Logger) compute.Backend {
	if gpu {
		gl := glcompute.New(logger)
		if err := gl.Init(); err != nil {
			logger.Warn("gpu compute unavailable, using cpu", "err", err)
		} else {
			compute.SetBackend(gl)
			return gl
		}
	}
	b := compute.GetBackend()
	if b == nil {
		b = compute.NewCPUBackend()
		compute.SetBackend(b)
	}
	return b
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(opts Options) error {
	initWindow()
	defer rl.CloseWindow()

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	backend := selectBackend(opts.GPU, logger)
	defer backend.Cleanup()

	a, err := newApp(opts, backend)
	if err != nil {
		return err
	}
	a.Font = loadFont()
	a.hasFont = true
	defer rl.UnloadFont(a.Font)

	if err := a.graph.Init(); err != nil {
		return err
	}
	defer func() {
		if err := a.graph.Shutdown(); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()
	if err := a.grid.Compute(backend); err != nil {
		return fmt.Errorf("hash grid: %w", err)
	}
	logger.Info("window open", "backend", backend.Name(), "resolution", opts.Graph.Resolution)

	return a.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if !a.Update(rl.GetFrameTime()) {
			break
		}
		a.Draw()
	}
	return a.err
}

// Upload receives every sampled frame from the graph.
func (a *App) Upload(points []vec.Vec3) error {
	if cap(a.points) < len(points) {
		a.points = make([]rl.Vector3, len(points))
		a.heights = make([]float32, len(points))
	}
	a.points = a.points[:len(points)]
	a.heights = a.heights[:len(points)]
	for i, p := range points {
		a.points[i] = rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
		a.heights[i] = float32(p.Y)
	}
	return nil
}

func (a *App) input() action {
	if a.InMenu {
		switch {
		case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
			return actMenuDown
		case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
			return actMenuUp
		case rl.IsKeyPressed(rl.KeyEnter):
			return actMenuSelect
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return actQuit
	case rl.IsKeyPressed(rl.KeyEscape):
		return actToggleMenu
	case rl.IsKeyPressed(rl.KeySpace):
		return actPause
	case rl.IsKeyPressed(rl.KeyN):
		return actAdvance
	case rl.IsKeyPressed(rl.KeyM):
		return actToggleMode
	case rl.IsKeyPressed(rl.KeyH):
		return actToggleHash
	case rl.IsKeyPressed(rl.KeyF):
		return actFPSMode
	case rl.IsKeyPressed(rl.KeyRightBracket):
		return actFinerGrid
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		return actCoarserGrid
	}
	return actNone
}

// apply runs one action and reports whether the loop should keep going.
func (a *App) apply(act action) bool {
	var err error
	switch act {
	case actQuit:
		return false
	case actPause:
		a.Running = !a.Running
	case actAdvance:
		a.graph.Advance()
	case actToggleMode:
		mode := graph.ModeRandom
		if a.graph.Config().Mode == graph.ModeRandom {
			mode = graph.ModeCycle
		}
		err = a.graph.SetMode(mode)
	case actToggleHash:
		a.ShowHash = !a.ShowHash
	case actToggleMenu:
		a.InMenu = !a.InMenu
		if a.InMenu {
			a.Selected = a.indexOf(a.graph.Snapshot().Current)
		}
	case actFPSMode:
		mode := fps.ModeMS
		if a.counter.Mode() == fps.ModeMS {
			mode = fps.ModeFPS
		}
		err = a.counter.SetMode(mode)
	case actFinerGrid, actCoarserGrid:
		res := a.graph.Config().Resolution + resStep
		if act == actCoarserGrid {
			res = a.graph.Config().Resolution - resStep
		}
		res = max(graph.MinResolution, min(graph.MaxResolution, res))
		if res != a.graph.Config().Resolution {
			if err = a.graph.Resize(res); err == nil {
				err = a.graph.Tick(0)
			}
		}
	case actMenuUp:
		a.Selected = (a.Selected - 1 + len(a.Names)) % len(a.Names)
	case actMenuDown:
		a.Selected = (a.Selected + 1) % len(a.Names)
	case actMenuSelect:
		err = a.graph.SetFunction(a.Names[a.Selected])
		a.InMenu = false
		a.Running = true
	}
	if err != nil {
		a.logger.Error("action failed", "err", err)
		a.err = err
	}
	return true
}

func (a *App) indexOf(name surface.Name) int {
	for i, n := range a.Names {
		if n == name {
			return i
		}
	}
	return 0
}

// Update handles input and advances the graph by the frame time.
func (a *App) Update(frameTime float32) bool {
	if !a.apply(a.input()) {
		return false
	}
	return a.step(float64(frameTime))
}

func (a *App) step(dt float64) bool {
	if r, ok := a.counter.ObserveSeconds(dt); ok {
		a.reading = r
	}
	if !a.Running || a.InMenu {
		return true
	}

	if err := a.graph.Tick(min(max(dt, 0), maxDelta)); err != nil {
		a.logger.Error("tick failed", "err", err)
		a.err = err
		return false
	}

	snap := a.graph.Snapshot()
	a.Telemetry = append(a.Telemetry, snap.Eased)
	if len(a.Telemetry) > telemetryLen {
		a.Telemetry = a.Telemetry[1:]
	}
	return true
}

func (a *App) updateCamera(dt float32) {
	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.05
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.05
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyD) {
		angle := float32(0.03)
		if rl.IsKeyDown(rl.KeyA) {
			angle = -angle
		}
		a.CamPosTarget = orbitY(a.CamPosTarget, angle)
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		diff := rl.Vector3Subtract(a.Camera.Target, a.CamPosTarget)
		if rl.Vector3Length(diff) > 1.0 || wheel < 0 {
			a.CamPosTarget = rl.Vector3Add(a.CamPosTarget, rl.Vector3Scale(rl.Vector3Normalize(diff), wheel*0.2))
		}
	}

	lerp := min(5*dt, 1)
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
}

// orbitY turns p about the vertical axis through the origin.
func orbitY(p rl.Vector3, angle float32) rl.Vector3 {
	c, s := float32(math.Cos(float64(angle))), float32(math.Sin(float64(angle)))
	return rl.NewVector3(p.X*c-p.Z*s, p.Y, p.X*s+p.Z*c)
}

func (a *App) Draw() {
	a.updateCamera(rl.GetFrameTime())

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawScene()
		a.DrawHUD()
	}

	rl.EndDrawing()
}
