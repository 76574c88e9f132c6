package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

type projectsLoadedMsg struct {
	projects []model.Project
}

type projectMutatedMsg struct{}

type projectsErrorMsg struct{ err error }

// ProjectsMode represents the current input mode
type ProjectsMode int

const (
	ProjectsModeNormal ProjectsMode = iota
	ProjectsModeAdd
	ProjectsModeEdit
	ProjectsModeConfirmDelete
)

// ProjectsView lists the team's projects with their progress.
type ProjectsView struct {
	db     *db.DB
	teamID string
	width  int
	height int

	projects []model.Project
	cursor   int
	scroll   int

	mode      ProjectsMode
	textInput textinput.Model

	editProjectID   string
	deleteProjectID string
	colorIndex      int

	statusMsg string
}

// NewProjectsView creates a new projects view
func NewProjectsView(database *db.DB, teamID string) ProjectsView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 128

	return ProjectsView{
		db:        database,
		teamID:    teamID,
		textInput: ti,
	}
}

// Init initializes the projects view
func (v ProjectsView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v ProjectsView) SetSize(width, height int) ProjectsView {
	v.width = width
	v.height = height
	return v
}

func (v ProjectsView) load() tea.Cmd {
	return func() tea.Msg {
		projects, err := v.db.GetProjects(v.teamID, false)
		if err != nil {
			return projectsErrorMsg{err: err}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

// Update handles messages
func (v ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.projects = msg.projects
		if v.cursor >= len(v.projects) && v.cursor > 0 {
			v.cursor = len(v.projects) - 1
		}
		return v, nil

	case projectMutatedMsg:
		return v, v.load()

	case projectsErrorMsg:
		if errors.Is(msg.err, db.ErrProjectIncomplete) {
			v.statusMsg = "Finish every task before completing the project"
			return v, nil
		}
		v.statusMsg = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		switch v.mode {
		case ProjectsModeAdd, ProjectsModeEdit:
			return v.handleInputMode(msg)
		case ProjectsModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == ProjectsModeAdd || v.mode == ProjectsModeEdit {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v ProjectsView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "a":
		v.mode = ProjectsModeAdd
		v.colorIndex = len(v.projects) % len(model.Palette)
		v.textInput.SetValue("")
		v.textInput.Placeholder = "New project..."
		v.textInput.Focus()
		return v, nil

	case "enter":
		if p, ok := v.current(); ok {
			v.mode = ProjectsModeEdit
			v.editProjectID = p.ID
			v.textInput.SetValue(p.Name)
			v.textInput.Placeholder = ""
			v.textInput.Focus()
			v.textInput.CursorEnd()
		}
		return v, nil

	case "c":
		if p, ok := v.current(); ok {
			id := p.ID
			if p.Completed {
				return v, func() tea.Msg {
					if err := v.db.ReopenProject(id); err != nil {
						return projectsErrorMsg{err: err}
					}
					return projectMutatedMsg{}
				}
			}
			return v, func() tea.Msg {
				if err := v.db.CompleteProject(id); err != nil {
					return projectsErrorMsg{err: err}
				}
				return projectMutatedMsg{}
			}
		}
		return v, nil

	case "A":
		if p, ok := v.current(); ok {
			id := p.ID
			return v, func() tea.Msg {
				if err := v.db.SetProjectArchived(id, true); err != nil {
					return projectsErrorMsg{err: err}
				}
				return projectMutatedMsg{}
			}
		}
		return v, nil

	case "C":
		if p, ok := v.current(); ok {
			updated := *p
			updated.Color = model.Palette[(paletteIndex(p.Color)+1)%len(model.Palette)]
			return v, func() tea.Msg {
				if err := v.db.UpdateProject(&updated); err != nil {
					return projectsErrorMsg{err: err}
				}
				return projectMutatedMsg{}
			}
		}
		return v, nil

	case "d":
		if p, ok := v.current(); ok {
			v.deleteProjectID = p.ID
			v.mode = ProjectsModeConfirmDelete
		}
		return v, nil
	}

	return v, nil
}

func paletteIndex(color string) int {
	for i, c := range model.Palette {
		if c == color {
			return i
		}
	}
	return 0
}

func (v ProjectsView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(v.textInput.Value())
		if name == "" {
			return v, nil
		}
		mode := v.mode
		v.mode = ProjectsModeNormal
		v.textInput.Blur()

		if mode == ProjectsModeAdd {
			color := model.Palette[v.colorIndex]
			teamID := v.teamID
			return v, func() tea.Msg {
				project := model.Project{TeamID: teamID, Name: name, Color: color}
				if err := v.db.CreateProject(&project); err != nil {
					return projectsErrorMsg{err: err}
				}
				return projectMutatedMsg{}
			}
		}

		projectID := v.editProjectID
		v.editProjectID = ""
		for _, p := range v.projects {
			if p.ID == projectID {
				updated := p
				updated.Name = name
				return v, func() tea.Msg {
					if err := v.db.UpdateProject(&updated); err != nil {
						return projectsErrorMsg{err: err}
					}
					return projectMutatedMsg{}
				}
			}
		}
		return v, nil

	case "esc":
		v.mode = ProjectsModeNormal
		v.textInput.Blur()
		v.editProjectID = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ProjectsView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ProjectsModeNormal
		projectID := v.deleteProjectID
		v.deleteProjectID = ""
		return v, func() tea.Msg {
			if err := v.db.DeleteProject(projectID); err != nil {
				return projectsErrorMsg{err: err}
			}
			return projectMutatedMsg{}
		}
	case "n", "N", "esc":
		v.mode = ProjectsModeNormal
		v.deleteProjectID = ""
		return v, nil
	}
	return v, nil
}

func (v ProjectsView) current() (*model.Project, bool) {
	if len(v.projects) == 0 || v.cursor >= len(v.projects) {
		return nil, false
	}
	return &v.projects[v.cursor], true
}

// View renders the projects list
func (v ProjectsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("Projects"))
	b.WriteString("\n\n")

	if len(v.projects) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).
			Render("No projects yet. Press 'a' to create one."))
	}

	for i, p := range v.projects {
		style := lipgloss.NewStyle().Foreground(t.Foreground)
		if i == v.cursor {
			style = style.Background(t.Highlight)
		}

		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")

		name := p.Name
		if p.Completed {
			name = lipgloss.NewStyle().Foreground(t.Success).Render("✓ " + name)
		}

		progress := lipgloss.NewStyle().Foreground(t.Subtle).
			Render(fmt.Sprintf(" %d/%d tasks", p.CompletedCount, p.TaskCount))

		b.WriteString(style.Render(fmt.Sprintf(" %s %s%s", dot, name, progress)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

func (v ProjectsView) renderFooter() string {
	t := theme.Current.Theme

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case ProjectsModeAdd:
		return inputStyle.Render("New project: " + v.textInput.View())
	case ProjectsModeEdit:
		return inputStyle.Render("Rename: " + v.textInput.View())
	case ProjectsModeConfirmDelete:
		name := ""
		for _, p := range v.projects {
			if p.ID == v.deleteProjectID {
				name = p.Name
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s' and all its tasks? (y/n)", name))
	}

	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	hints := "j/k: nav • a: add • enter: rename • c: complete/reopen • C: color • A: archive • d: delete"
	return lipgloss.NewStyle().Foreground(t.Subtle).Render(hints)
}

// IsInputMode returns whether the view is in input mode
func (v ProjectsView) IsInputMode() bool {
	return v.mode != ProjectsModeNormal
}
