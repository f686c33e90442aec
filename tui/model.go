package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"solenoid-seq/control"
	"solenoid-seq/generative"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	firedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	playheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	indicatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
)

// Model is the bubbletea model: a read-only view over controller
// snapshots plus keys that feed the user button.
type Model struct {
	Controller *control.Controller
	PortName   func() string // connected input port for the header (may be nil)

	snap       control.Snapshot
	buttonHeld bool
	quitting   bool
}

type UpdateMsg struct{}

func NewModel(c *control.Controller, portName func() string) Model {
	return Model{
		Controller: c,
		PortName:   portName,
		snap:       c.Snapshot(),
	}
}

// ListenForUpdates waits for the controller's display-rate ping.
func ListenForUpdates(c *control.Controller) tea.Cmd {
	return func() tea.Msg {
		<-c.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Controller)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "r":
			// Short press: randomize (generative mode only)
			m.Controller.TapButton()

		case "m":
			// Long press: toggle generative/MIDI mode
			m.Controller.HoldButton()

		case "b":
			// Hold/release the raw button level (goes through the
			// debouncer like a real key)
			m.buttonHeld = !m.buttonHeld
			m.Controller.SetButtonRaw(m.buttonHeld)

		case "+", "=":
			m.Controller.SetTempo(m.snap.TempoTenths + 50)

		case "-", "_":
			if m.snap.TempoTenths > 50 {
				m.Controller.SetTempo(m.snap.TempoTenths - 50)
			}
		}

	case UpdateMsg:
		m.snap = m.Controller.Snapshot()
		return m, ListenForUpdates(m.Controller)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.snap

	port := ""
	if m.PortName != nil {
		if name := m.PortName(); name != "" {
			port = "  in:" + name
		}
	}

	indicator := " "
	if s.Indicator {
		indicator = indicatorStyle.Render("●")
	}
	button := ""
	if s.ButtonDown {
		button = "  [btn]"
	}

	header := headerStyle.Render(fmt.Sprintf("solenoid-seq  %s  %d.%dbpm  step:%02d",
		s.Mode, s.TempoTenths/10, s.TempoTenths%10, s.Step)) +
		" " + indicator + dimStyle.Render(port+button)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	for i := 0; i < generative.NumChannels; i++ {
		out.WriteString(m.channelRow(i))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("r:randomize  m:toggle mode  b:hold/release key  +/-:tempo  q:quit"))
	out.WriteString("\n")

	return out.String()
}

// channelRow renders one channel: state summary, live output lamp,
// trigger row with playhead, velocity row.
func (m Model) channelRow(i int) string {
	s := m.snap
	ch := s.Channels[i]

	lamp := "·"
	if s.Outputs[i] {
		lamp = firedStyle.Render("●")
	}

	var trig strings.Builder
	for step := 0; step < generative.PatternSteps; step++ {
		c := "-"
		if s.Triggers[i][step] {
			c = "x"
		}
		if s.Mode == control.ModeGenerative && step == s.Step {
			c = playheadStyle.Render(c)
		}
		trig.WriteString(c)
	}

	var vel strings.Builder
	for step := 0; step < generative.PatternSteps; step++ {
		if ch.Velocity.At(step) {
			vel.WriteString("1")
		} else {
			vel.WriteString("0")
		}
	}

	return fmt.Sprintf("  CH%d %s x=%3d y=%3d d=%3d %s T:%s V:%s",
		i, ch.Part, ch.X, ch.Y, ch.Density, lamp, trig.String(), vel.String())
}
