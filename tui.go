package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field int

const (
	fieldWakeHour field = iota
	fieldWakeMinute
	fieldSleep
	fieldCoffee
	fieldCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	bedtimeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(0, 1)
	focusStyle   = lipgloss.NewStyle().Reverse(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	alertStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("160")).Padding(1, 2)
)

// tuiModel drives the screen from the keyboard. Every input change re-renders.
type tuiModel struct {
	screen *Screen
	focus  field
	view   View
}

func newTUIModel(s *Screen) tuiModel {
	return tuiModel{screen: s, view: s.Render()}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.screen.Alert.Showing {
		switch key.String() {
		case "enter", "esc", " ":
			m.screen.DismissAlert()
			m.view.Alert = m.screen.Alert
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "down", "j":
		m.focus = (m.focus + 1) % fieldCount
	case "shift+tab", "up", "k":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
	case "right", "l", "+", "=":
		m.adjust(1)
		m.view = m.screen.Render()
	case "left", "h", "-":
		m.adjust(-1)
		m.view = m.screen.Render()
	}
	return m, nil
}

func (m *tuiModel) adjust(d int) {
	in := &m.screen.Inputs
	switch m.focus {
	case fieldWakeHour:
		in.SetWake(in.WakeUp.Hour()+d, in.WakeUp.Minute())
	case fieldWakeMinute:
		in.SetWake(in.WakeUp.Hour(), in.WakeUp.Minute()+d)
	case fieldSleep:
		in.StepSleep(d)
	case fieldCoffee:
		in.SetCoffee(in.CoffeeAmount + d)
	}
}

func (m tuiModel) cell(f field, s string) string {
	if m.focus == f {
		return focusStyle.Render(s)
	}
	return s
}

func (m tuiModel) View() string {
	if m.view.Alert.Showing {
		return alertStyle.Render(headerStyle.Render(m.view.Alert.Title)+"\n\n"+m.view.Alert.Message+"\n\n"+hintStyle.Render("[ OK ] enter")) + "\n"
	}

	in := m.screen.Inputs
	var b strings.Builder
	b.WriteString(titleStyle.Render("BetterRest") + "\n\n")

	b.WriteString(headerStyle.Render("Your ideal bedtime is…") + "\n")
	b.WriteString(bedtimeStyle.Render(m.view.Bedtime) + "\n\n")

	b.WriteString(headerStyle.Render("When do you want to wake up?") + "\n")
	fmt.Fprintf(&b, "  %s:%s\n\n",
		m.cell(fieldWakeHour, fmt.Sprintf("%02d", in.WakeUp.Hour())),
		m.cell(fieldWakeMinute, fmt.Sprintf("%02d", in.WakeUp.Minute())))

	b.WriteString(headerStyle.Render("Desired amount of sleep") + "\n")
	fmt.Fprintf(&b, "  %s\n\n", m.cell(fieldSleep, "- "+in.SleepLabel()+" +"))

	b.WriteString(headerStyle.Render("Daily coffee intake") + "\n")
	fmt.Fprintf(&b, "  %s\n\n", m.cell(fieldCoffee, "< "+in.CoffeeLabel()+" >"))

	b.WriteString(hintStyle.Render("tab/↑↓ move · ←→ change · q quit") + "\n")
	return b.String()
}

func runTUI(s *Screen) error {
	_, err := tea.NewProgram(newTUIModel(s), tea.WithAltScreen()).Run()
	return err
}
