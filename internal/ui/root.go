package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/app"
	"github.com/hanae/stayfocus/internal/ui/theme"
	"github.com/hanae/stayfocus/internal/ui/views"
)

// Debug logging (enable by setting STAYFOCUS_DEBUG=1)
var rootDebugLog *os.File

func init() {
	if os.Getenv("STAYFOCUS_DEBUG") == "1" {
		rootDebugLog, _ = os.OpenFile("/tmp/stayfocus-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	}
}

func rootDebugf(format string, args ...interface{}) {
	if rootDebugLog != nil {
		fmt.Fprintf(rootDebugLog, format+"\n", args...)
		rootDebugLog.Sync()
	}
}

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView  View
	boardView    views.BoardView
	projectsView views.ProjectsView
	reportView   views.ReportView
	archiveView  views.ArchiveView
	membersView  views.MembersView
	helpVisible  bool

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  ViewBoard,
		boardView:    views.NewBoardView(application.DB, application.TeamID),
		projectsView: views.NewProjectsView(application.DB, application.TeamID),
		reportView:   views.NewReportView(application.DB, application.TeamID),
		archiveView:  views.NewArchiveView(application.DB, application.TeamID),
		membersView:  views.NewMembersView(application.DB, application.TeamID),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.boardView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	rootDebugf("RootModel.Update received msg type: %T", msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header and footer
		contentHeight := m.height - 4
		m.boardView = m.boardView.SetSize(m.width, contentHeight)
		m.projectsView = m.projectsView.SetSize(m.width, contentHeight)
		m.reportView = m.reportView.SetSize(m.width, contentHeight)
		m.archiveView = m.archiveView.SetSize(m.width, contentHeight)
		m.membersView = m.membersView.SetSize(m.width, contentHeight)

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := false
		switch m.currentView {
		case ViewBoard:
			isInputMode = m.boardView.IsInputMode()
		case ViewProjects:
			isInputMode = m.projectsView.IsInputMode()
		case ViewReport:
			isInputMode = m.reportView.IsInputMode()
		case ViewArchive:
			isInputMode = m.archiveView.IsInputMode()
		case ViewMembers:
			isInputMode = m.membersView.IsInputMode()
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if isInputMode {
			break // Fall through to view delegation
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case key.Matches(msg, m.keys.BoardView):
			m.currentView = ViewBoard
			return m, m.boardView.Init()
		case key.Matches(msg, m.keys.ProjectsView):
			m.currentView = ViewProjects
			return m, m.projectsView.Init()
		case key.Matches(msg, m.keys.ReportView):
			m.currentView = ViewReport
			return m, m.reportView.Init()
		case key.Matches(msg, m.keys.ArchiveView):
			m.currentView = ViewArchive
			return m, m.archiveView.Init()
		case key.Matches(msg, m.keys.MembersView):
			m.currentView = ViewMembers
			return m, m.membersView.Init()

		case key.Matches(msg, m.keys.Refresh):
			return m, m.reloadCurrent()
		}

	case RefreshMsg:
		// The background sweep pinged us; reload whatever is showing.
		return m, m.reloadCurrent()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Delegate to current view
	switch m.currentView {
	case ViewBoard:
		newView, cmd := m.boardView.Update(msg)
		m.boardView = newView.(views.BoardView)
		cmds = append(cmds, cmd)
	case ViewProjects:
		newView, cmd := m.projectsView.Update(msg)
		m.projectsView = newView.(views.ProjectsView)
		cmds = append(cmds, cmd)
	case ViewReport:
		newView, cmd := m.reportView.Update(msg)
		m.reportView = newView.(views.ReportView)
		cmds = append(cmds, cmd)
	case ViewArchive:
		newView, cmd := m.archiveView.Update(msg)
		m.archiveView = newView.(views.ArchiveView)
		cmds = append(cmds, cmd)
	case ViewMembers:
		newView, cmd := m.membersView.Update(msg)
		m.membersView = newView.(views.MembersView)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reloadCurrent reloads the active view's data
func (m RootModel) reloadCurrent() tea.Cmd {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.Init()
	case ViewProjects:
		return m.projectsView.Init()
	case ViewReport:
		return m.reportView.Init()
	case ViewArchive:
		return m.archiveView.Init()
	case ViewMembers:
		return m.membersView.Init()
	}
	return nil
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewBoard:
			content = m.boardView.View()
		case ViewProjects:
			content = m.projectsView.View()
		case ViewReport:
			content = m.reportView.View()
		case ViewArchive:
			content = m.archiveView.View()
		case ViewMembers:
			content = m.membersView.View()
		}
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("stayfocus")

	indicatorStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := indicatorStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))
	teamIndicator := indicatorStyle.Render(fmt.Sprintf("team: %s", m.app.TeamID))
	themeIndicator := indicatorStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, teamIndicator, themeIndicator)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1 string
	switch m.currentView {
	case ViewBoard:
		if m.boardView.IsInputMode() {
			line1 = key("enter", "confirm") + sep + key("esc", "cancel")
		} else {
			line1 = key("i", "important") + sep +
				key("p", "pin") + sep +
				key("m", "assign") + sep +
				key("f", "filter") + sep +
				key("1-5", "views") + sep +
				key("?", "help")
		}
	case ViewProjects, ViewReport, ViewArchive, ViewMembers:
		line1 = key("1-5", "views") + sep +
			key("r", "refresh") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stayfocus Help"))
	b.WriteString("\n\n")

	section := func(title string, keys [][]string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, kv := range keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Navigation", [][]string{
		{"h/l", "Switch bucket"},
		{"↑/k ↓/j", "Navigate up/down"},
		{"g / G", "Go to top/bottom"},
	})

	section("Tasks", [][]string{
		{"a", "Add task to current bucket"},
		{"enter", "Edit task (tab cycles fields)"},
		{"tab", "Toggle done"},
		{"u", "Undo last toggle"},
		{"d", "Delete task"},
		{"i", "Toggle important"},
		{"p", "Toggle pin"},
		{"m", "Toggle assignee"},
		{"P", "Assign to project"},
	})

	section("Moving", [][]string{
		{"J / K", "Reorder within bucket"},
		{"H / L", "Move to earlier/later bucket"},
	})

	section("Views", [][]string{
		{"1", "Board"},
		{"2", "Projects"},
		{"3", "Report"},
		{"4", "Archive"},
		{"5", "Members"},
		{"f", "Filter board by project"},
	})

	section("System", [][]string{
		{"r", "Refresh"},
		{"ctrl+t", "Cycle theme"},
		{"q / ctrl+c", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? to close"))

	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
