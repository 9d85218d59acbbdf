package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/repolens/internal/config"
)

type state int

const (
	stateMenu state = iota
	stateForm
	stateConfirm
	stateSaved
	stateError
)

// Options configures the editor
type Options struct {
	Config *config.Config
	// Path is only displayed; SaveFunc decides where the file goes
	Path       string
	SaveFunc   func(*config.Config) error
	Accessible bool
}

// Model is the bubbletea model of the config editor. The menu lists every
// category followed by a final save row.
type Model struct {
	opts   Options
	values *ConfigValues
	help   help.Model

	state  state
	cursor int
	form   *huh.Form
	dirty  bool
	err    error

	width, height int
}

func NewModel(opts Options) Model {
	return Model{
		opts:   opts,
		values: FromConfig(opts.Config),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.help.Width = size.Width
	}

	switch m.state {
	case stateMenu:
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateMenu(k)
		}
	case stateForm:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Back) {
			m.state = stateMenu
			return m, nil
		}
		return m.updateForm(msg)
	case stateConfirm:
		if k, ok := msg.(tea.KeyMsg); ok {
			return m.updateConfirm(k)
		}
	case stateSaved, stateError:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.dirty {
			m.state = stateConfirm
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, keys.Down):
		m.cursor = min(m.cursor+1, len(Categories))
	case key.Matches(msg, keys.Save):
		return m.save()
	case key.Matches(msg, keys.Select):
		if m.cursor == len(Categories) {
			return m.save()
		}
		return m.openForm(Categories[m.cursor].ID)
	}
	return m, nil
}

func (m Model) openForm(category string) (tea.Model, tea.Cmd) {
	form := GetFormForCategory(category, m.values)
	if m.opts.Accessible {
		form = form.WithAccessible(true).WithTheme(GetAccessibleTheme())
	}
	if m.width > 0 {
		form = form.WithWidth(m.width)
	}
	m.form = form
	m.state = stateForm
	return m, form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.state = stateMenu
		return m, nil
	}
	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.dirty = true
		m.state = stateMenu
		return m, nil
	case huh.StateAborted:
		m.state = stateMenu
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		return m.save()
	case "n", "esc":
		return m, tea.Quit
	case "c":
		m.state = stateMenu
	}
	return m, nil
}

// save validates the edited values before handing them to SaveFunc
func (m Model) save() (tea.Model, tea.Cmd) {
	cfg, err := m.values.ToConfig()
	if err == nil && m.opts.SaveFunc != nil {
		err = m.opts.SaveFunc(cfg)
	}
	if err != nil {
		m.state = stateError
		m.err = err
		return m, nil
	}
	m.state = stateSaved
	m.dirty = false
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("RepoLens Configuration"))
	if m.opts.Path != "" {
		b.WriteString("  " + PathStyle.Render(m.opts.Path))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		b.WriteString(m.menuView())
	case stateForm:
		if m.form != nil {
			b.WriteString(m.form.View())
		}
	case stateConfirm:
		b.WriteString(ConfirmStyle.Render("You have unsaved changes.\n\nSave before quitting?\n\n[y] Yes  [n] No  [c] Cancel"))
	case stateSaved:
		b.WriteString(SuccessStyle.Render("Configuration saved."))
		b.WriteString("\n\nPress any key to exit.")
	case stateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\nPress any key to exit.")
	}

	return b.String()
}

func (m Model) menuView() string {
	var b strings.Builder

	row := func(i int, label, description string) {
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + label))
			if description != "" {
				b.WriteString(DescriptionStyle.Render("  " + description))
			}
		} else {
			b.WriteString(UnselectedStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	for i, cat := range Categories {
		row(i, cat.Name, cat.Description)
	}
	b.WriteString("\n")
	save := "Save Configuration"
	if m.dirty {
		save += " *"
	}
	row(len(Categories), save, "")

	b.WriteString(HelpStyle.Render(m.help.ShortHelpView(keys.menuHelp())))
	return b.String()
}

// Run starts the editor on the alternate screen and blocks until it exits
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
