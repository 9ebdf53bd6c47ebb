package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/panos-tools/dpmigrate/internal/engine"
	"github.com/panos-tools/dpmigrate/models"
)

// promptingSelector resolves the scope from flags when given and falls back
// to an interactive terminal picker when a name is missing. With noInput set
// the ambiguity is surfaced as an error instead.
type promptingSelector struct {
	explicit engine.ExplicitSelector
	noInput  bool
}

func newSelector(tenant, app string, noInput bool) engine.ScopeSelector {
	return promptingSelector{
		explicit: engine.ExplicitSelector{Tenant: tenant, App: app},
		noInput:  noInput,
	}
}

func (s promptingSelector) SelectTenant(ctx context.Context, candidates []string) (string, error) {
	name, err := s.explicit.SelectTenant(ctx, candidates)
	if s.shouldPrompt(err) {
		return runPicker("Select a tenant", candidates)
	}
	return name, err
}

func (s promptingSelector) SelectApp(ctx context.Context, tenant string, candidates []string) (string, error) {
	name, err := s.explicit.SelectApp(ctx, tenant, candidates)
	if s.shouldPrompt(err) {
		return runPicker(fmt.Sprintf("Select an application profile of %s", tenant), candidates)
	}
	return name, err
}

func (s promptingSelector) shouldPrompt(err error) bool {
	var amb *models.AmbiguousSelectionError
	return !s.noInput && errors.As(err, &amb)
}

// pickerItem adapts a plain name to the bubbles list item interface.
type pickerItem string

func (i pickerItem) Title() string       { return string(i) }
func (i pickerItem) Description() string { return "" }
func (i pickerItem) FilterValue() string { return string(i) }

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// pickerModel is the bubbletea model for the scope picker.
type pickerModel struct {
	list   list.Model
	choice string
	quit   bool
}

func newPickerModel(title string, candidates []string) pickerModel {
	items := make([]list.Item, len(candidates))
	for i, name := range candidates {
		items[i] = pickerItem(name)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(items, delegate, 0, min(len(candidates)+8, 24))
	l.Title = title
	l.Styles.Title = pickerTitleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				m.choice = string(item)
			}
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// runPicker shows the terminal picker and returns the chosen name.
func runPicker(title string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("nothing to select: the store reports no candidates")
	}

	final, err := tea.NewProgram(newPickerModel(title, candidates)).Run()
	if err != nil {
		return "", fmt.Errorf("interactive selection failed: %w", err)
	}

	m := final.(pickerModel)
	if m.quit || m.choice == "" {
		return "", fmt.Errorf("selection aborted")
	}
	return m.choice, nil
}
