package viz

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/graphlab/internal/fps"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/logging"
)

const (
	width           = 60
	height          = 24
	statsWidth      = 44
	historyCapacity = 240
	frameInterval   = time.Second / 60
	// maxDelta keeps a stalled terminal from skipping a whole transition.
	maxDelta       = 0.1
	resolutionStep = 5
	DefaultGIFPath = "graphlab.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of a running graph. The graph must be initialized
// by the caller, who also shuts it down after the program exits.
type Model struct {
	graph         *graph.Graph
	counter       *fps.Counter
	logger        *log.Logger
	reading       fps.Reading
	hasReading    bool
	width, height int
	canvas        *Canvas
	camera        *Camera
	running       bool
	wire          bool
	lastTick      time.Time
	progress      []float64
	recording     bool
	frames        []*image.Paletted
	GIFPath       string
	showHelp      bool
	status        string
	err           error
}

func NewModel(g *graph.Graph, counter *fps.Counter, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	return Model{
		graph:    g,
		counter:  counter,
		logger:   logger,
		width:    width,
		height:   height,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(),
		running:  true,
		progress: make([]float64, 0, historyCapacity),
		GIFPath:  DefaultGIFPath,
	}
}

// Err is the tick error that stopped the view, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if err := m.step(time.Time(msg)); err != nil {
			m.err = err
			m.logger.Error("tick failed", "err", err)
			return m, tea.Quit
		}
		m.draw()
		if m.recording {
			m.frames = append(m.frames, m.canvas.Image(8, 16))
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.saveGIF()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
		m.lastTick = time.Time{}
	case "n":
		m.graph.Advance()
	case "m":
		mode := graph.ModeRandom
		if m.graph.Config().Mode == graph.ModeRandom {
			mode = graph.ModeCycle
		}
		_ = m.graph.SetMode(mode)
	case "w":
		m.wire = !m.wire
	case "[":
		m.changeResolution(-resolutionStep)
	case "]":
		m.changeResolution(resolutionStep)
	case "f":
		if m.counter != nil {
			mode := fps.ModeMS
			if m.counter.Mode() == fps.ModeMS {
				mode = fps.ModeFPS
			}
			_ = m.counter.SetMode(mode)
		}
	case "t":
		NextTheme()
	case "g":
		if m.recording {
			m.saveGIF()
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "z":
		m.camera.RotateZ(0.1)
	case "Z":
		m.camera.RotateZ(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	m.draw()
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-6, 20)
	ch := max(h-4, 8)
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.draw()
}

func (m *Model) changeResolution(delta int) {
	res := m.graph.Config().Resolution
	next := max(graph.MinResolution, min(graph.MaxResolution, res+delta))
	if err := m.graph.Resize(next); err != nil {
		m.status = err.Error()
		return
	}
	// Resize drops the samples until the next tick.
	if err := m.graph.Tick(0); err != nil {
		m.status = err.Error()
	}
}

// step advances the graph by the wall time since the previous tick.
func (m *Model) step(now time.Time) error {
	if !m.running {
		return nil
	}
	dt := 0.0
	if !m.lastTick.IsZero() {
		elapsed := now.Sub(m.lastTick)
		if m.counter != nil {
			if r, ok := m.counter.Observe(elapsed); ok {
				m.reading, m.hasReading = r, true
			}
		}
		dt = min(elapsed.Seconds(), maxDelta)
	}
	m.lastTick = now

	if err := m.graph.Tick(dt); err != nil {
		return err
	}

	m.progress = append(m.progress, m.graph.Snapshot().Eased)
	if len(m.progress) > historyCapacity {
		m.progress = m.progress[1:]
	}
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	points := m.graph.Points()
	if len(points) == 0 {
		return
	}
	if m.wire {
		Render3D(m.canvas, GridWireframe(points, m.graph.Config().Resolution), m.camera)
	} else {
		Render3D(m.canvas, PointCloud(points), m.camera)
	}
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.GIFPath)
	if err != nil {
		m.status = err.Error()
		m.logger.Error("save gif", "err", err)
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = err.Error()
		m.logger.Error("encode gif", "err", err)
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.GIFPath)
	m.logger.Info("gif saved", "path", m.GIFPath, "frames", len(m.frames))
}

func (m Model) statusLine(s graph.Snapshot) string {
	switch {
	case m.recording:
		return StatusRecording.Render("● REC")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case s.Phase == graph.Transitioning:
		return StatusRunning.Render(AnimatedSpinner(s.Frame) + " MORPHING")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	snap := m.graph.Snapshot()
	label := func(name, value string) string {
		return MetricLabel.Render(name) + valueStyle().Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(string(snap.Current)), CurrentTheme.Primary, CurrentTheme.Secondary) + "\n")
	s.WriteString(m.statusLine(snap) + "\n\n")

	if snap.Phase == graph.Transitioning {
		s.WriteString(label("From", string(snap.Previous)))
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(snap.Progress, 20) + "\n")
	} else {
		s.WriteString(label("Next in", fmt.Sprintf("%.2fs", max(0, m.graph.Config().FunctionDuration-snap.Duration))))
	}
	s.WriteString(label("Mode", string(snap.Mode)))
	s.WriteString(label("Resolution", fmt.Sprintf("%d (%d pts)", snap.Resolution, snap.Resolution*snap.Resolution)))
	s.WriteString(label("Time", fmt.Sprintf("%.2fs", snap.Elapsed)))
	s.WriteString(label("Backend", m.graph.Backend().Name()))

	if m.hasReading {
		lines := strings.Split(m.reading.String(), "\n")
		s.WriteString(label(lines[0], strings.Join(lines[1:], " / ")))
	}

	if len(m.progress) > 1 {
		chart := asciigraph.Plot(m.progress, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Blend"))
		s.WriteString("\n" + accentStyle().Render(chart) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + Subtle.Render(m.status) + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause N:Next M:Mode Q:Quit\nW:Wire [ ]:Res T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle().Render(m.canvas.String()),
		statsStyle().Render(s.String()),
	)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Next function now        ║
║  M        - Toggle cycle/random      ║
║  W        - Toggle wireframe         ║
║  [ ]      - Lower/raise resolution   ║
║  F        - Toggle FPS/MS readout    ║
║  x y z    - Rotate (shift reverses)  ║
║  + -      - Zoom                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run drives m in the alternate screen until the user quits.
func Run(m Model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(Model); ok {
		return lm.Err()
	}
	return nil
}
