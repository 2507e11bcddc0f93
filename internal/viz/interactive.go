package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
)

const (
	stateMenu = iota
	statePreset
	stateSim
)

// picker lets the user choose a scenario and one of its presets before
// handing over to the live Model.
type picker struct {
	registry  *experiment.Registry
	state     int
	cursor    int
	scenarios []string
	selected  string
	presets   []string
	err       error
	live      Model
}

func NewPicker(r *experiment.Registry) tea.Model {
	return picker{registry: r, scenarios: r.List()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.items()
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "esc":
		if m.state == statePreset {
			m.state, m.cursor = stateMenu, indexOf(m.scenarios, m.selected)
		}
	case "enter", " ":
		if len(items) == 0 {
			return m, nil
		}
		if m.state == stateMenu {
			m.selected = items[m.cursor]
			m.presets = config.ListPresets(m.selected)
			m.state, m.cursor = statePreset, indexOf(m.presets, "default")
			return m, nil
		}
		return m.start(items[m.cursor])
	}
	return m, nil
}

func (m picker) start(preset string) (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.selected, preset)
	if cfg == nil {
		m.err = fmt.Errorf("no preset %s/%s", m.selected, preset)
		return m, nil
	}
	live, err := NewModel(m.registry, cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m, m.live.Init()
}

func (m picker) items() []string {
	if m.state == statePreset {
		return m.presets
	}
	return m.scenarios
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	heading, sub := "MECHSIM", "2d mechanics sandbox"
	if m.state == statePreset {
		heading, sub = strings.ToUpper(m.selected), m.registry.Description(m.selected)
	}
	b.WriteString("\n\n    " + title().Render(heading) + "\n    " + subtle().Render(sub) + "\n    " + Separator(25) + "\n\n")

	for i, name := range m.items() {
		desc := ""
		if m.state == stateMenu {
			desc = m.registry.Description(name)
			if len(desc) > 40 {
				desc = desc[:37] + "..."
			}
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", selected().Render("▸"), value().Bold(true).Render(fmt.Sprintf("%-18s", name)), selected().Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", subtle().Render(fmt.Sprintf("  %-18s", name)), subtle().Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + status(false, true).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + subtle().Render("j/k navigate  enter select  esc back  q quit") + "\n")
	return b.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// RunInteractive opens the scenario picker full-screen.
func RunInteractive(r *experiment.Registry) error {
	_, err := tea.NewProgram(NewPicker(r), tea.WithAltScreen()).Run()
	return err
}
