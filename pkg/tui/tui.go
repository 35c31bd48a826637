// Package tui provides a terminal user interface for chord2midi
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/chord2midi/pkg/converter"
	"github.com/james-see/chord2midi/pkg/progression"
	"github.com/james-see/chord2midi/pkg/timeline"
)

// Warm tube-amp color scheme
var (
	amber      = lipgloss.Color("#FFB000")
	cream      = lipgloss.Color("#F5E6C8")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(cream).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateRendering
	StateResult
)

// Action is what a menu item does
type Action int

const (
	ActionDemo Action = iota
	ActionRender
	ActionInspect
	ActionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
	Extensions  []string // accepted input files, empty if no file is needed
}

var menuItems = []MenuItem{
	{Title: "DEMO → MIDI", Description: "Render the C - G - F demo progression to output.mid", Action: ActionDemo},
	{Title: "YAML/JSON → MIDI", Description: "Render a progression document to a MIDI file", Action: ActionRender, Extensions: []string{".yml", ".yaml", ".json"}},
	{Title: "INSPECT MIDI", Description: "List the note events of a MIDI file", Action: ActionInspect, Extensions: []string{".mid", ".midi"}},
	{Title: "Exit", Description: "Exit the application", Action: ActionExit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	item         MenuItem
	events       []timeline.Event
	err          error
	width        int
	height       int
}

// actionDoneMsg signals that rendering or inspection finished
type actionDoneMsg struct {
	outputFile string
	events     []timeline.Event
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".yml", ".yaml", ".json", ".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateRendering
			return m, tea.Batch(m.spinner.Tick, m.perform())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.events = msg.events
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		m.item = menuItems[m.menuIndex]
		switch m.item.Action {
		case ActionExit:
			return m, tea.Quit
		case ActionDemo:
			m.selectedFile = ""
			m.state = StateRendering
			return m, tea.Batch(m.spinner.Tick, m.perform())
		}

		m.state = StateFilePicker
		m.filePicker.AllowedTypes = m.item.Extensions
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.events = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) perform() tea.Cmd {
	item := m.item
	selected := m.selectedFile
	return func() tea.Msg {
		return run(item.Action, selected)
	}
}

// demoOutput is where the demo progression is written
var demoOutput = "output.mid"

func run(action Action, selected string) actionDoneMsg {
	conv := converter.New()

	switch action {
	case ActionDemo:
		events, err := conv.RenderFile(progression.Demo(), demoOutput)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{outputFile: demoOutput, events: events}

	case ActionRender:
		p, err := progression.Load(os.DirFS(filepath.Dir(selected)), filepath.Base(selected))
		if err != nil {
			return actionDoneMsg{err: err}
		}
		outputFile := strings.TrimSuffix(selected, filepath.Ext(selected)) + ".mid"
		events, err := conv.RenderFile(p, outputFile)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{outputFile: outputFile, events: events}

	case ActionInspect:
		events, err := converter.NewMIDIConverter().ParseMIDIFile(selected)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{events: events}
	}
	return actionDoneMsg{err: fmt.Errorf("unknown action %d", action)}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateRendering:
		s.WriteString(m.viewRendering())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(cream).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(strings.Join(m.item.Extensions, " ")))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewRendering() string {
	var s strings.Builder

	name := "demo progression"
	if m.selectedFile != "" {
		name = filepath.Base(m.selectedFile)
	}
	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Processing %s...\n", m.spinner.View(), name))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s", m.item.Title)))

	return boxStyle.Render(s.String())
}

// maxListedEvents limits the event listing of the result view
const maxListedEvents = 8

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s failed: %s", m.item.Title, m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Done!"))
		s.WriteString("\n\n")
		if m.selectedFile != "" {
			s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		}
		if m.outputFile != "" {
			s.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(m.outputFile)))
		}
		s.WriteString(fmt.Sprintf("Events: %d, %d ticks\n", len(m.events), timeline.Duration(m.events)))
		for i, ev := range m.events {
			if i == maxListedEvents {
				s.WriteString(fmt.Sprintf("  ... %d more\n", len(m.events)-maxListedEvents))
				break
			}
			s.WriteString(fmt.Sprintf("  %s\n", ev))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
        _                   _ ____            _     _ _
   ___ | |__   ___  _ __ __| |___ \ _ __ ___ (_) __| (_)
  / __|| '_ \ / _ \| '__/ _' | __) | '_ ' _ \| |/ _' | |
 | (__ | | | | (_) | | | (_| |/ __/| | | | | | | (_| | |
  \___||_| |_|\___/|_|  \__,_|_____|_| |_| |_|_|\__,_|_|
`
	return lipgloss.NewStyle().Foreground(amber).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
