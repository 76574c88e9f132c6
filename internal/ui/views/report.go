package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

type reportLoadedMsg struct {
	tasks    []model.Task
	projects []model.Project
}

type reportMutatedMsg struct{}

type reportErrorMsg struct{ err error }

// ReportRange selects the completed-work window
type ReportRange int

const (
	RangeWeek ReportRange = iota
	RangeMonth
)

// ReportMode represents the current input mode
type ReportMode int

const (
	ReportModeNormal ReportMode = iota
	ReportModeMemo
	ReportModeConfirmDelete
)

// ReportView lists completed tasks and projects for a time window and
// lets each task carry a short retrospective note.
type ReportView struct {
	db     *db.DB
	teamID string
	width  int
	height int

	tasks    []model.Task
	projects []model.Project

	rangeKind ReportRange
	cursor    int
	scroll    int

	mode      ReportMode
	textInput textinput.Model

	memoTaskID   string
	deleteTaskID string

	statusMsg string
}

// NewReportView creates a new report view
func NewReportView(database *db.DB, teamID string) ReportView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512

	return ReportView{
		db:        database,
		teamID:    teamID,
		rangeKind: RangeMonth,
		textInput: ti,
	}
}

// Init initializes the report view
func (v ReportView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v ReportView) SetSize(width, height int) ReportView {
	v.width = width
	v.height = height
	return v
}

// rangeBounds returns the report window for the current range kind
func (v ReportView) rangeBounds() (time.Time, time.Time) {
	now := time.Now()
	switch v.rangeKind {
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	default:
		// Monday-start week
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return now.AddDate(0, 0, -(weekday - 1)), now
	}
}

func (v ReportView) load() tea.Cmd {
	from, to := v.rangeBounds()
	return func() tea.Msg {
		tasks, err := v.db.GetCompletedBetween(v.teamID, from, to)
		if err != nil {
			return reportErrorMsg{err: err}
		}
		projects, err := v.db.GetProjectsCompletedBetween(v.teamID, from, to)
		if err != nil {
			return reportErrorMsg{err: err}
		}
		return reportLoadedMsg{tasks: tasks, projects: projects}
	}
}

// Update handles messages
func (v ReportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		v.tasks = msg.tasks
		v.projects = msg.projects
		if v.cursor >= len(v.tasks) && v.cursor > 0 {
			v.cursor = len(v.tasks) - 1
		}
		return v, nil

	case reportMutatedMsg:
		return v, v.load()

	case reportErrorMsg:
		v.statusMsg = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		switch v.mode {
		case ReportModeMemo:
			return v.handleMemoMode(msg)
		case ReportModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == ReportModeMemo {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v ReportView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "w":
		v.rangeKind = RangeWeek
		v.cursor = 0
		return v, v.load()

	case "m":
		v.rangeKind = RangeMonth
		v.cursor = 0
		return v, v.load()

	case "enter":
		if task, ok := v.current(); ok {
			v.mode = ReportModeMemo
			v.memoTaskID = task.ID
			v.textInput.SetValue(task.ResultMemo)
			v.textInput.Placeholder = "How did it go?"
			v.textInput.Focus()
			v.textInput.CursorEnd()
		}
		return v, nil

	// Put a task back on the board
	case "tab":
		if task, ok := v.current(); ok {
			id := task.ID
			return v, func() tea.Msg {
				if err := v.db.SetTaskCompletion(id, false, nil); err != nil {
					return reportErrorMsg{err: err}
				}
				return reportMutatedMsg{}
			}
		}
		return v, nil

	case "d":
		if task, ok := v.current(); ok {
			v.deleteTaskID = task.ID
			v.mode = ReportModeConfirmDelete
		}
		return v, nil
	}

	return v, nil
}

func (v ReportView) handleMemoMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		memo := strings.TrimSpace(v.textInput.Value())
		v.mode = ReportModeNormal
		v.textInput.Blur()
		taskID := v.memoTaskID
		v.memoTaskID = ""
		return v, func() tea.Msg {
			if err := v.db.UpdateTaskReview(taskID, memo); err != nil {
				return reportErrorMsg{err: err}
			}
			return reportMutatedMsg{}
		}
	case "esc":
		v.mode = ReportModeNormal
		v.textInput.Blur()
		v.memoTaskID = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ReportView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ReportModeNormal
		taskID := v.deleteTaskID
		v.deleteTaskID = ""
		return v, func() tea.Msg {
			if err := v.db.DeleteTask(taskID); err != nil {
				return reportErrorMsg{err: err}
			}
			return reportMutatedMsg{}
		}
	case "n", "N", "esc":
		v.mode = ReportModeNormal
		v.deleteTaskID = ""
		return v, nil
	}
	return v, nil
}

func (v ReportView) current() (*model.Task, bool) {
	if len(v.tasks) == 0 || v.cursor >= len(v.tasks) {
		return nil, false
	}
	return &v.tasks[v.cursor], true
}

// View renders the report
func (v ReportView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	from, to := v.rangeBounds()
	rangeName := "This week"
	if v.rangeKind == RangeMonth {
		rangeName = "This month"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("Report — %s (%s to %s)",
		rangeName, from.Format("Jan 2"), to.Format("Jan 2"))))
	b.WriteString("\n\n")

	if len(v.projects) > 0 {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Completed projects"))
		b.WriteString("\n")
		for _, p := range v.projects {
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
			b.WriteString(fmt.Sprintf(" %s %s\n", dot, p.Name))
		}
		b.WriteString("\n")
	}

	if len(v.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).
			Render("Nothing completed in this window."))
		b.WriteString("\n")
	}

	// Tasks come back newest first; group them by completion day.
	var lastDay string
	for i, task := range v.tasks {
		day := ""
		if task.CompletedAt != nil {
			day = task.CompletedAt.Format("Mon Jan 2")
		}
		if day != lastDay {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render(day))
			b.WriteString("\n")
			lastDay = day
		}

		style := lipgloss.NewStyle().Foreground(t.Foreground)
		if i == v.cursor {
			style = style.Background(t.Highlight)
		}

		line := " ✓ " + task.Name
		if task.ResultMemo != "" {
			line += lipgloss.NewStyle().Foreground(t.Subtle).Render(" — " + task.ResultMemo)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

func (v ReportView) renderFooter() string {
	t := theme.Current.Theme

	switch v.mode {
	case ReportModeMemo:
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1).
			Width(v.width - 4).
			Render("Result memo: " + v.textInput.View())
	case ReportModeConfirmDelete:
		name := ""
		for _, task := range v.tasks {
			if task.ID == v.deleteTaskID {
				name = task.Name
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", name))
	}

	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	hints := "j/k: nav • w: week • m: month • enter: result memo • tab: reopen • d: delete"
	return lipgloss.NewStyle().Foreground(t.Subtle).Render(hints)
}

// IsInputMode returns whether the view is in input mode
func (v ReportView) IsInputMode() bool {
	return v.mode != ReportModeNormal
}
