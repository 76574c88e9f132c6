package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

type archiveLoadedMsg struct {
	projects []model.Project
}

type archiveMutatedMsg struct{}

type archiveErrorMsg struct{ err error }

// ArchiveView lists archived projects and lets them be restored or
// deleted for good.
type ArchiveView struct {
	db     *db.DB
	teamID string
	width  int
	height int

	projects []model.Project
	cursor   int

	confirmingDelete bool
	deleteProjectID  string

	statusMsg string
}

// NewArchiveView creates a new archive view
func NewArchiveView(database *db.DB, teamID string) ArchiveView {
	return ArchiveView{
		db:     database,
		teamID: teamID,
	}
}

// Init initializes the archive view
func (v ArchiveView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v ArchiveView) SetSize(width, height int) ArchiveView {
	v.width = width
	v.height = height
	return v
}

func (v ArchiveView) load() tea.Cmd {
	return func() tea.Msg {
		all, err := v.db.GetProjects(v.teamID, true)
		if err != nil {
			return archiveErrorMsg{err: err}
		}
		var archived []model.Project
		for _, p := range all {
			if p.Archived {
				archived = append(archived, p)
			}
		}
		return archiveLoadedMsg{projects: archived}
	}
}

// Update handles messages
func (v ArchiveView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case archiveLoadedMsg:
		v.projects = msg.projects
		if v.cursor >= len(v.projects) && v.cursor > 0 {
			v.cursor = len(v.projects) - 1
		}
		return v, nil

	case archiveMutatedMsg:
		return v, v.load()

	case archiveErrorMsg:
		v.statusMsg = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		if v.confirmingDelete {
			return v.handleConfirmDelete(msg)
		}
		return v.handleNormalMode(msg)
	}

	return v, nil
}

func (v ArchiveView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

	case "enter":
		if len(v.projects) > 0 && v.cursor < len(v.projects) {
			id := v.projects[v.cursor].ID
			return v, func() tea.Msg {
				if err := v.db.SetProjectArchived(id, false); err != nil {
					return archiveErrorMsg{err: err}
				}
				return archiveMutatedMsg{}
			}
		}
		return v, nil

	case "d":
		if len(v.projects) > 0 && v.cursor < len(v.projects) {
			v.deleteProjectID = v.projects[v.cursor].ID
			v.confirmingDelete = true
		}
		return v, nil
	}

	return v, nil
}

func (v ArchiveView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		projectID := v.deleteProjectID
		v.deleteProjectID = ""
		return v, func() tea.Msg {
			if err := v.db.DeleteProject(projectID); err != nil {
				return archiveErrorMsg{err: err}
			}
			return archiveMutatedMsg{}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		v.deleteProjectID = ""
		return v, nil
	}
	return v, nil
}

// View renders the archive
func (v ArchiveView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("Archive"))
	b.WriteString("\n\n")

	if len(v.projects) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).
			Render("No archived projects."))
		b.WriteString("\n")
	}

	for i, p := range v.projects {
		style := lipgloss.NewStyle().Foreground(t.Subtle)
		if i == v.cursor {
			style = style.Background(t.Highlight).Foreground(t.Foreground)
		}

		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		progress := fmt.Sprintf(" %d/%d tasks", p.CompletedCount, p.TaskCount)

		b.WriteString(style.Render(fmt.Sprintf(" %s %s%s", dot, p.Name, progress)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

func (v ArchiveView) renderFooter() string {
	t := theme.Current.Theme

	if v.confirmingDelete {
		name := ""
		for _, p := range v.projects {
			if p.ID == v.deleteProjectID {
				name = p.Name
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Permanently delete '%s' and all its tasks? (y/n)", name))
	}

	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	hints := "j/k: nav • enter: restore • d: delete forever"
	return lipgloss.NewStyle().Foreground(t.Subtle).Render(hints)
}

// IsInputMode returns whether the view is in input mode
func (v ArchiveView) IsInputMode() bool {
	return v.confirmingDelete
}
