package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/fps"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/logging"
	"github.com/san-kum/graphlab/internal/surface"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	selectedValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	itemValue     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateLive
)

// setting is one editable number on the config screen.
type setting struct {
	name     string
	step     float64
	min, max float64
}

var settings = []setting{
	{"resolution", 5, graph.MinResolution, graph.MaxResolution},
	{"function", 0.25, 0, 60},
	{"transition", 0.25, 0, 60},
	{"random", 1, 0, 1},
}

// App is the function picker shown before the live view.
type App struct {
	state, cursor int
	functions     []surface.Name
	values        map[string]float64
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	backend       compute.Backend
	counter       *fps.Counter
	logger        *log.Logger
	graph         *graph.Graph
	live          Model
	width, height int
}

// NewApp starts from base, which also supplies the initial function.
func NewApp(base graph.Config, backend compute.Backend, counter *fps.Counter, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	random := 0.0
	if base.Mode == graph.ModeRandom {
		random = 1
	}
	a := &App{
		functions: surface.Names(),
		values: map[string]float64{
			"resolution": float64(base.Resolution),
			"function":   base.FunctionDuration,
			"transition": base.TransitionDuration,
			"random":     random,
		},
		backend: backend,
		counter: counter,
		logger:  logger,
	}
	for i, n := range a.functions {
		if n == base.Function {
			a.cursor = i
		}
	}
	return a
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.state == stateLive {
			return a.forward(msg)
		}
		return a, nil
	default:
		if a.state == stateLive {
			return a.forward(msg)
		}
	}
	return a, nil
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.live.Update(msg)
	a.live = next.(Model)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	case stateLive:
		if msg.String() == "esc" {
			a.Shutdown()
			a.state = stateConfig
			return a, nil
		}
		return a.forward(msg)
	}
	return a, nil
}

func (a *App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.functions)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.state, a.paramCursor = stateConfig, 0
	}
	return a, nil
}

func (a *App) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := settings[a.paramCursor]
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(a.editBuf, "%f", &val); err == nil {
				a.set(cur, val)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' {
					a.editBuf += string(c)
				}
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(settings)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		a.editing, a.editBuf = true, ""
	case "left", "h":
		a.set(cur, a.values[cur.name]-cur.step)
	case "right", "l":
		a.set(cur, a.values[cur.name]+cur.step)
	case "s":
		return a, a.start()
	}
	return a, nil
}

func (a *App) set(s setting, v float64) {
	a.values[s.name] = max(s.min, min(s.max, v))
}

// Config is the graph configuration the settings screen describes.
func (a *App) Config() graph.Config {
	mode := graph.ModeCycle
	if a.values["random"] >= 1 {
		mode = graph.ModeRandom
	}
	return graph.Config{
		Resolution:         int(a.values["resolution"]),
		Function:           a.functions[a.cursor],
		Mode:               mode,
		FunctionDuration:   a.values["function"],
		TransitionDuration: a.values["transition"],
	}
}

func (a *App) start() tea.Cmd {
	opts := []graph.Option{graph.WithLogger(a.logger)}
	if a.backend != nil {
		opts = append(opts, graph.WithBackend(a.backend))
	}
	g, err := graph.New(a.Config(), opts...)
	if err == nil {
		err = g.Init()
	}
	if err != nil {
		a.err = err.Error()
		return nil
	}
	a.err = ""
	a.graph = g
	a.live = NewModel(g, a.counter, a.logger)
	if a.width > 0 {
		a.live.resize(a.width, a.height)
	}
	a.state = stateLive
	return a.live.Init()
}

// Shutdown releases the graph of the live view, if one is running.
func (a *App) Shutdown() {
	if a.graph != nil {
		_ = a.graph.Shutdown()
		a.graph = nil
	}
}

func (a *App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateLive:
		return a.live.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + subStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (a *App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("GRAPHLAB") + "\n    " + subStyle.Render("procedural surface lab") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range a.functions {
		desc := surface.Description(name)
		if len(desc) > 32 {
			desc = desc[:29] + "..."
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), selectedValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", itemStyle.Render(fmt.Sprintf("  %-12s", name)), itemValue.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a *App) viewConfig() string {
	var b strings.Builder
	name := a.functions[a.cursor]
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(string(name))) + "\n    " + subStyle.Render(surface.Description(name)) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, s := range settings {
		valStr := fmt.Sprintf("%8.2f", a.values[s.name])
		if s.name == "random" {
			valStr = fmt.Sprintf("%8s", map[bool]string{true: "random", false: "cycle"}[a.values[s.name] >= 1])
		}
		if a.editing && i == a.paramCursor {
			valStr = fmt.Sprintf("%8s", a.editBuf+"_")
		}
		if i == a.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", s.name)), selectedValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", itemStyle.Render(fmt.Sprintf("  %-12s", s.name)), itemValue.Render(valStr)))
		}
	}
	if a.err != "" {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(a.err) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive shows the picker and the live view until the user quits.
func RunInteractive(base graph.Config, backend compute.Backend, counter *fps.Counter, logger *log.Logger) error {
	app := NewApp(base, backend, counter, logger)
	defer app.Shutdown()
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return app.live.Err()
}
