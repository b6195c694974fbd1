package viz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/fps"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

func newLive(t *testing.T, cfg graph.Config, opts ...graph.Option) Model {
	t.Helper()
	opts = append([]graph.Option{graph.WithBackend(compute.NewCPUBackend())}, opts...)
	g, err := graph.New(cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = g.Shutdown() })
	counter, _ := fps.NewCounter(fps.ModeFPS, fps.MinSampleDuration)
	return NewModel(g, counter, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestLiveTicksGraph(t *testing.T) {
	cfg := graph.DefaultConfig()
	cfg.Resolution = 6
	m := newLive(t, cfg)

	start := time.Unix(0, 0)
	for i := 0; i < 20; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, TickMsg(start.Add(time.Duration(i)*50*time.Millisecond)))
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}

	s := m.graph.Snapshot()
	if s.Frame != 20 || s.Elapsed < 0.9 || s.Elapsed > 1.0 {
		t.Errorf("unexpected snapshot %+v", s)
	}
	if !m.hasReading {
		t.Error("counter should have produced a reading")
	}
	if m.canvas.Count() == 0 {
		t.Error("canvas is empty after ticking")
	}
	if len(m.progress) != 20 {
		t.Errorf("expected 20 progress samples, got %d", len(m.progress))
	}
}

func TestLiveClampsLongFrames(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	start := time.Unix(0, 0)
	m, _ = update(t, m, TickMsg(start))
	m, _ = update(t, m, TickMsg(start.Add(10*time.Second)))
	if got := m.graph.Snapshot().Elapsed; got != maxDelta {
		t.Errorf("elapsed %v, want %v", got, maxDelta)
	}
}

func TestLivePause(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	m, _ = update(t, m, key(" "))
	if m.running {
		t.Fatal("space should pause")
	}
	m, _ = update(t, m, TickMsg(time.Unix(1, 0)))
	if m.graph.Snapshot().Frame != 0 {
		t.Error("paused view should not tick")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show the paused status")
	}
}

func TestLiveKeys(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	m, _ = update(t, m, TickMsg(time.Unix(0, 0)))

	m, _ = update(t, m, key("n"))
	if s := m.graph.Snapshot(); s.Phase != graph.Transitioning || s.Current != surface.MultiWave {
		t.Errorf("n should start the next transition: %+v", s)
	}

	m, _ = update(t, m, key("m"))
	if m.graph.Config().Mode != graph.ModeRandom {
		t.Error("m should switch to random mode")
	}

	m, _ = update(t, m, key("]"))
	if m.graph.Config().Resolution != graph.DefaultResolution+resolutionStep {
		t.Errorf("] should raise resolution, got %d", m.graph.Config().Resolution)
	}
	if len(m.graph.Points()) != 15*15 {
		t.Error("resize should resample immediately")
	}
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, key("["))
	}
	if m.graph.Config().Resolution != graph.MinResolution {
		t.Errorf("[ should stop at the minimum, got %d", m.graph.Config().Resolution)
	}

	zoom := m.camera.Zoom
	m, _ = update(t, m, key("+"))
	if m.camera.Zoom <= zoom {
		t.Error("+ should zoom in")
	}

	m, _ = update(t, m, key("f"))
	if m.counter.Mode() != fps.ModeMS {
		t.Error("f should switch the readout to milliseconds")
	}

	m, _ = update(t, m, key("w"))
	if !m.wire {
		t.Error("w should enable the wireframe")
	}

	theme := CurrentTheme.Name
	m, _ = update(t, m, key("t"))
	if CurrentTheme.Name == theme {
		t.Error("t should change the theme")
	}
	SetTheme(theme)

	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("? should show help")
	}

	if _, cmd := update(t, m, key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestLiveRecordGIF(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	m.GIFPath = filepath.Join(t.TempDir(), "out.gif")

	m, _ = update(t, m, key("g"))
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, TickMsg(time.Unix(0, int64(i)*int64(frameInterval))))
	}
	if len(m.frames) != 3 {
		t.Fatalf("expected 3 recorded frames, got %d", len(m.frames))
	}
	m, _ = update(t, m, key("g"))

	if _, err := os.Stat(m.GIFPath); err != nil {
		t.Errorf("gif not written: %v", err)
	}
	if !strings.Contains(m.status, "saved 3 frames") {
		t.Errorf("unexpected status %q", m.status)
	}
}

type failingSink struct{}

func (failingSink) Upload([]vec.Vec3) error { return errors.New("lost device") }

func TestLiveStopsOnTickError(t *testing.T) {
	m := newLive(t, graph.DefaultConfig(), graph.WithSink(failingSink{}))
	m, cmd := update(t, m, TickMsg(time.Unix(0, 0)))
	if cmd == nil || m.Err() == nil {
		t.Fatal("tick error should stop the view")
	}
	var tickErr *graph.TickError
	if !errors.As(m.Err(), &tickErr) {
		t.Errorf("expected TickError, got %v", m.Err())
	}
}

func TestLiveResize(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	if m.canvas.Width != 140-statsWidth-6 || m.canvas.Height != 36 {
		t.Errorf("canvas %dx%d after resize", m.canvas.Width, m.canvas.Height)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if m.canvas.Width != 20 || m.canvas.Height != 8 {
		t.Errorf("canvas should keep a minimum size, got %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestViewShowsTransition(t *testing.T) {
	m := newLive(t, graph.DefaultConfig())
	m, _ = update(t, m, TickMsg(time.Unix(0, 0)))
	m, _ = update(t, m, key("n"))
	out := m.View()
	for _, want := range []string{"From", "wave", "Progress", "cpu"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppFlow(t *testing.T) {
	base := graph.DefaultConfig()
	base.Function = surface.Ripple
	app := NewApp(base, compute.NewCPUBackend(), nil, nil)
	defer app.Shutdown()

	if app.functions[app.cursor] != surface.Ripple {
		t.Fatal("cursor should start on the configured function")
	}

	app.Update(key("j"))
	app.Update(key("enter"))
	if app.state != stateConfig {
		t.Fatal("enter should open the settings")
	}

	app.Update(key("l"))
	if got := app.Config().Resolution; got != base.Resolution+5 {
		t.Errorf("l should raise resolution, got %d", got)
	}

	app.Update(key("enter"))
	for _, r := range "3" {
		app.Update(key(string(r)))
	}
	app.Update(key("enter"))
	if app.Config().Resolution != 3 {
		t.Errorf("typed resolution not applied: %d", app.Config().Resolution)
	}

	_, cmd := app.Update(key("s"))
	if cmd == nil || app.state != stateLive || app.graph == nil {
		t.Fatal("s should start the live view")
	}
	if app.Config().Function != surface.Sphere {
		t.Errorf("expected sphere after moving down from ripple, got %s", app.Config().Function)
	}

	app.Update(TickMsg(time.Unix(0, 0)))
	if app.live.graph.Snapshot().Frame != 1 {
		t.Error("ticks should reach the live view")
	}

	app.Update(key("esc"))
	if app.state != stateConfig || app.graph != nil {
		t.Error("esc should stop the live view")
	}
	if !strings.Contains(app.View(), "SPHERE") {
		t.Error("settings view should name the function")
	}
}

func TestAppClampsSettings(t *testing.T) {
	app := NewApp(graph.DefaultConfig(), nil, nil, nil)
	app.state = stateConfig
	app.paramCursor = 3
	app.Update(key("l"))
	app.Update(key("l"))
	if app.values["random"] != 1 || app.Config().Mode != graph.ModeRandom {
		t.Error("random toggle should clamp at 1")
	}
	app.paramCursor = 1
	for i := 0; i < 10; i++ {
		app.Update(key("h"))
	}
	if app.values["function"] != 0 {
		t.Errorf("durations should clamp at 0, got %v", app.values["function"])
	}
}

func TestSparklineAndProgress(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline %q", got)
	}
	if !strings.Contains(SparklineChart([]float64{0, 1}, 2), "█") {
		t.Error("sparkline should reach the top block")
	}
	if !strings.Contains(ProgressBar(1, 4), "████") || !strings.Contains(ProgressBar(-1, 4), "░░░░") {
		t.Error("progress bar should clamp")
	}
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty gradient should be empty")
	}
}
