package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/forces"
	"github.com/san-kum/mechsim/internal/vec"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	if got := c.String(); got != "⠁⠀\n" {
		t.Errorf("String() = %q", got)
	}
	c.Set(1, 3)
	if !c.IsSet(1, 3) || !c.IsSet(0, 0) || c.IsSet(1, 0) {
		t.Error("unexpected pixel state")
	}
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.IsSet(4, 0) || c.IsSet(-1, 0) {
		t.Error("off-canvas pixel reported set")
	}
	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear left pixels set")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
	c.Clear()
	c.DrawLine(5, 2, 0, 2)
	for x := 0; x <= 5; x++ {
		if !c.IsSet(x, 2) {
			t.Errorf("pixel (%d, 2) not set", x)
		}
	}
}

func TestViewportFlipsY(t *testing.T) {
	c := NewCanvas(4, 4)
	vp := &Viewport{Canvas: c, OffsetX: 2, OffsetY: 10}
	vp.Plot(1, 3)
	if !c.IsSet(3, 7) {
		t.Error("Plot(1, 3) did not land on (3, 7)")
	}
	vp.Line(0, 0, 0, 2)
	for y := 8; y <= 10; y++ {
		if !c.IsSet(2, y) {
			t.Errorf("line pixel (2, %d) not set", y)
		}
	}
}

func TestFit(t *testing.T) {
	c := NewCanvas(8, 4)
	vp := Fit(c, experiment.View{Min: vec.XY(0, 0), Max: vec.XY(3, 3)})
	if vp.Scale != 5 {
		t.Fatalf("scale %f, want 5", vp.Scale)
	}
	vp.Plot(0, 0)
	vp.Plot(15, 15)
	if !c.IsSet(0, 15) {
		t.Error("lower-left corner not at the bottom of the canvas")
	}
	if !c.IsSet(15, 0) {
		t.Error("upper-right corner not at the top of the canvas")
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		values []float64
		width  int
		want   string
	}{
		{nil, 3, "───"},
		{[]float64{1, 1}, 5, "▁▁"},
		{[]float64{0, 1}, 5, "▁█"},
		{[]float64{5, 0, 1}, 2, "▁█"},
	}
	for _, tt := range tests {
		if got := Sparkline(tt.values, tt.width); got != tt.want {
			t.Errorf("Sparkline(%v, %d) = %q, want %q", tt.values, tt.width, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(0.5, 4); got != "██░░" {
		t.Errorf("half bar %q", got)
	}
	if got := ProgressBar(2, 3); got != "███" {
		t.Errorf("overfull bar %q", got)
	}
	if got := ProgressBar(-1, 2); got != "░░" {
		t.Errorf("negative bar %q", got)
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(Themes[0].Name)
	SetTheme(Themes[0].Name)
	for i := 1; i <= len(Themes); i++ {
		NextTheme()
		if want := Themes[i%len(Themes)].Name; CurrentTheme.Name != want {
			t.Errorf("theme %s, want %s", CurrentTheme.Name, want)
		}
	}
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSpringModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(experiment.NewRegistry(), config.GetPreset("spring", "rest"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTick(t *testing.T) {
	m := newSpringModel(t)
	if !m.Running() {
		t.Fatal("model should start running")
	}
	steps := stepsPerFrame(m.cfg.Dt)
	if steps != 2 {
		t.Fatalf("steps per frame %d, want 2", steps)
	}

	m = update(m, TickMsg{})
	if got := m.Scenario().Universe.Steps(); got != steps {
		t.Errorf("steps after one frame %d, want %d", got, steps)
	}
	if got := len(m.history[0]); got != steps+1 {
		t.Errorf("history length %d", got)
	}

	m = update(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = update(m, TickMsg{})
	if got := m.Scenario().Universe.Steps(); got != steps {
		t.Errorf("paused model advanced to %d steps", got)
	}

	m = update(m, key("+"))
	if m.speed != 2*steps {
		t.Errorf("speed %d after +", m.speed)
	}
	m = update(m, key("-"))
	m = update(m, key("-"))
	m = update(m, key("-"))
	if m.speed != 1 {
		t.Errorf("speed %d, want floor of 1", m.speed)
	}
}

func TestModelPulseAndReset(t *testing.T) {
	m := newSpringModel(t)
	pulse := m.Scenario().Pulses[0]

	m = update(m, key("p"))
	if pulse.State() != forces.PulseArmed {
		t.Fatalf("pulse %s after p", pulse.State())
	}
	m = update(m, TickMsg{})
	if pulse.State() != forces.PulseIdle {
		t.Errorf("pulse %s after firing", pulse.State())
	}
	if v := m.Scenario().Universe.Entities()[1].Velocity().X(); v <= 0 {
		t.Errorf("mass not kicked, vx = %f", v)
	}

	before := m.Scenario()
	m = update(m, key("r"))
	if m.Scenario() == before || m.Scenario().Universe.Time() != 0 {
		t.Error("reset did not rebuild the scenario")
	}
	if m.Err() != nil {
		t.Fatal(m.Err())
	}
}

func TestModelProbeCycle(t *testing.T) {
	m := newSpringModel(t)
	n := len(m.Scenario().Probes)
	for i := 1; i <= n; i++ {
		m = update(m, key("tab"))
		if m.probe != i%n {
			t.Errorf("probe %d, want %d", m.probe, i%n)
		}
	}
	if view := m.View(); !strings.Contains(view, "SPRING") || !strings.Contains(view, "PROBES") {
		t.Error("view is missing the scenario header")
	}
}

func TestPicker(t *testing.T) {
	r := experiment.NewRegistry()
	var p tea.Model = NewPicker(r)
	send := func(msg tea.Msg) {
		p, _ = p.Update(msg)
	}

	send(key("j"))
	send(key("k"))
	send(key("k"))
	if got := p.(picker).cursor; got != 0 {
		t.Errorf("cursor %d, want 0", got)
	}

	send(key("enter"))
	pk := p.(picker)
	if pk.state != statePreset || pk.selected != r.List()[0] {
		t.Fatalf("state %d, selected %q", pk.state, pk.selected)
	}
	if pk.presets[pk.cursor] != "default" {
		t.Errorf("preset cursor on %q", pk.presets[pk.cursor])
	}

	send(key("esc"))
	if p.(picker).state != stateMenu {
		t.Error("esc did not return to the menu")
	}

	send(key("enter"))
	send(key("enter"))
	pk = p.(picker)
	if pk.state != stateSim || pk.err != nil {
		t.Fatalf("state %d, err %v", pk.state, pk.err)
	}
	if pk.live.Scenario().Name != r.List()[0] {
		t.Errorf("live scenario %q", pk.live.Scenario().Name)
	}
}
