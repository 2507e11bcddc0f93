package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a scenario in real time and draws it on a braille canvas.
type Model struct {
	registry *experiment.Registry
	cfg      *config.Config
	scenario *experiment.Scenario
	canvas   *Canvas
	running  bool
	speed    int
	probe    int
	history  [][]float64
	err      error
	showHelp bool
}

// NewModel builds the scenario named by cfg. The model advances enough
// steps per frame to keep up with wall time.
func NewModel(r *experiment.Registry, cfg *config.Config) (Model, error) {
	m := Model{
		registry: r,
		cfg:      cfg.Clone(),
		canvas:   NewCanvas(width, height),
		running:  true,
		speed:    stepsPerFrame(cfg.Dt),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func stepsPerFrame(dt float64) int {
	n := int(math.Round(1 / (frameRate * dt)))
	if n < 1 {
		return 1
	}
	return n
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
			m.running = m.err == nil
		case "p":
			m.scenario.ArmPulses()
		case "tab":
			if len(m.history) > 0 {
				m.probe = (m.probe + 1) % len(m.history)
			}
		case "+", "=":
			m.speed *= 2
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps, stopping at the first failure.
func (m *Model) advance() {
	u := m.scenario.Universe
	for i := 0; i < m.speed; i++ {
		if err := u.SimulateAll(); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.record()
	}
}

func (m *Model) record() {
	for i, p := range m.scenario.Probes {
		h := append(m.history[i], p.Sample())
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[i] = h
	}
}

// reset rebuilds the scenario from the configuration.
func (m *Model) reset() error {
	s, err := m.registry.Build(m.cfg)
	if err != nil {
		return err
	}
	m.scenario = s
	m.history = make([][]float64, len(s.Probes))
	if m.probe >= len(s.Probes) {
		m.probe = 0
	}
	m.record()
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	vp := Fit(m.canvas, m.scenario.View)
	m.scenario.Draw(vp, vp.Scale)
}

func (m Model) Scenario() *experiment.Scenario { return m.scenario }
func (m Model) Running() bool                  { return m.running }
func (m Model) Err() error                     { return m.err }

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	u := m.scenario.Universe
	var s strings.Builder
	s.WriteString(title().Render(strings.ToUpper(m.scenario.Name)) + "\n")
	s.WriteString(subtle().Render(m.scenario.Description) + "\n\n")

	state := "RUNNING"
	switch {
	case m.err != nil:
		state = "FAILED: " + m.err.Error()
	case !m.running:
		state = "PAUSED"
	}
	s.WriteString(status(m.running, m.err != nil).Render(state) + "\n\n")

	s.WriteString(label().Render("Time") + value().Render(fmt.Sprintf("%.2fs", u.Time())) + "\n")
	s.WriteString(label().Render("Steps") + value().Render(fmt.Sprintf("%d (x%d)", u.Steps(), m.speed)) + "\n")
	if m.cfg.Duration > 0 {
		s.WriteString(label().Render("Progress") + value().Render(ProgressBar(u.Time()/m.cfg.Duration, 20)) + "\n")
	}

	s.WriteString("\nPROBES\n")
	for i, p := range m.scenario.Probes {
		h := m.history[i]
		line := fmt.Sprintf("%-14s %10.4f", p.Name, h[len(h)-1])
		if i == m.probe {
			s.WriteString(selected().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + value().Render(line) + "\n")
		}
	}
	if len(m.history) > 0 && len(m.history[m.probe]) > 1 {
		chart := asciigraph.Plot(m.history[m.probe], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.scenario.Probes[m.probe].Name))
		s.WriteString("\n" + chart + "\n")
	}

	if metrics := u.Metrics(); len(metrics) > 0 {
		s.WriteString("\nMETRICS\n")
		for _, mt := range metrics {
			s.WriteString(label().Render(mt.Name()) + value().Render(fmt.Sprintf("%.4f", mt.Value())) + "\n")
		}
	}
	if len(m.scenario.Pulses) > 0 {
		s.WriteString("\nPULSES\n")
		for _, p := range m.scenario.Pulses {
			s.WriteString(label().Render(p.Name()) + value().Render(p.State().String()) + "\n")
		}
	}

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(subtle().Render("SP:Pause R:Reset P:Pulse Q:Quit\nTab:Probe +/-:Speed T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rebuild the scenario     ║
║  P        - Arm the scenario pulses  ║
║  Tab      - Cycle plotted probe      ║
║  + / -    - Double/halve speed       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run shows the model full-screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
