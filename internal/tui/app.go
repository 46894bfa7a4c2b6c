// Package tui is a small interactive browser for the persisted window
// state file: one list entry per tracked window, with its geometry and
// flags in the detail pane.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winstate/internal/state"
)

// windowItem is a list item for one tracked window.
type windowItem struct {
	label string
	md    state.Metadata
}

func (i windowItem) Title() string {
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	if !i.md.Visible {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")
	}
	return marker + " " + i.label
}

func (i windowItem) Description() string {
	desc := fmt.Sprintf("%dx%d at (%d,%d)", i.md.Width, i.md.Height, i.md.X, i.md.Y)
	var flags []string
	if i.md.Maximized {
		flags = append(flags, "maximized")
	}
	if i.md.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if !i.md.Decorated {
		flags = append(flags, "undecorated")
	}
	if len(flags) > 0 {
		desc += " | " + strings.Join(flags, ", ")
	}
	return desc
}

func (i windowItem) FilterValue() string { return i.label }

// model is the root bubbletea model.
type model struct {
	statePath string
	list      list.Model
	status    string
	width     int
	height    int
}

func newModel(statePath string) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tracked Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	m := model{statePath: statePath, list: l}
	m.reload()
	return m
}

// reload re-reads the state file into the list.
func (m *model) reload() {
	store, err := state.LoadFile(m.statePath)
	if err != nil {
		m.status = fmt.Sprintf("no state loaded (%v)", err)
	} else {
		m.status = fmt.Sprintf("%d windows from %s", store.Len(), m.statePath)
	}

	entries := store.Snapshot()
	items := make([]list.Item, 0, len(entries))
	for _, label := range store.Labels() {
		items = append(items, windowItem{label: label, md: entries[label]})
	}
	m.list.SetItems(items)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.reload()
			return m, nil
		case "d":
			if item, ok := m.list.SelectedItem().(windowItem); ok {
				m.forget(item.label)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// forget removes one label from the state file and reloads.
func (m *model) forget(label string) {
	store, _ := state.LoadFile(m.statePath)
	if !store.Remove(label) {
		return
	}
	if err := state.SaveFile(m.statePath, store); err != nil {
		m.status = fmt.Sprintf("forget %s failed: %v", label, err)
		return
	}
	m.reload()
	m.status = fmt.Sprintf("forgot %s", label)
}

// View implements tea.Model.
func (m model) View() string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		statusStyle.Render(m.status),
		helpStyle.Render("r reload | d forget | q quit"),
	)
}

// Run opens the state browser for the given state file path.
func Run(statePath string) error {
	if statePath == "" {
		return fmt.Errorf("no state file path resolved")
	}
	p := tea.NewProgram(newModel(statePath), tea.WithOutput(os.Stderr))
	_, err := p.Run()
	return err
}
