package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/board"
	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

// Local message types for the board view
type boardErrorMsg struct{ err error }

type boardLoadedMsg struct {
	tasks    []model.Task
	projects []model.Project
	members  []model.Member
}

type taskMutatedMsg struct{}

type taskToggledMsg struct {
	entry board.UndoEntry
	err   error
}

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAdd
	BoardModeEdit
	BoardModeConfirmDelete
)

// Edit form fields, cycled with tab while editing
const (
	editFieldName = iota
	editFieldMemo
	editFieldDue
	editFieldTime
	editFieldCount
)

// BoardView shows the five scheduling buckets side by side.
type BoardView struct {
	db     *db.DB
	teamID string
	width  int
	height int

	// All open tasks, plus the grouped view of them
	tasks   []model.Task
	buckets map[model.TimeFrame][]model.Task

	projects []model.Project
	members  []model.Member

	// Navigation state
	currentFrame int // index into model.Frames
	cursorRow    int
	frameScroll  [5]int

	// Completion undo history
	undo board.UndoStack

	// Input mode
	mode      BoardMode
	textInput textinput.Model

	// Edit form state
	editTaskID string
	editField  int
	draft      model.Task

	// Delete confirmation
	deleteTaskID string

	// Selectors
	selectingProject  bool
	assigningProject  bool // selector assigns to the task instead of filtering
	selectingAssignee bool
	selectorCursor    int

	// Filtering
	filterProjectID string

	statusMsg string
}

// NewBoardView creates a new board view
func NewBoardView(database *db.DB, teamID string) BoardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return BoardView{
		db:        database,
		teamID:    teamID,
		buckets:   make(map[model.TimeFrame][]model.Task),
		textInput: ti,
	}
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	return v
}

// UndoCount reports how many completion toggles can be undone.
func (v BoardView) UndoCount() int {
	return v.undo.Len()
}

// load fetches tasks, projects and members from the database
func (v BoardView) load() tea.Cmd {
	return func() tea.Msg {
		var projectID *string
		if v.filterProjectID != "" {
			projectID = &v.filterProjectID
		}
		tasks, err := v.db.GetTasks(v.teamID, projectID, false)
		if err != nil {
			return boardErrorMsg{err: err}
		}
		projects, err := v.db.GetProjects(v.teamID, false)
		if err != nil {
			return boardErrorMsg{err: err}
		}
		members, err := v.db.GetMembers(v.teamID)
		if err != nil {
			return boardErrorMsg{err: err}
		}
		return boardLoadedMsg{tasks: tasks, projects: projects, members: members}
	}
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.tasks = msg.tasks
		v.buckets = board.Group(msg.tasks)
		v.projects = msg.projects
		v.members = msg.members
		v.clampCursor()
		return v, nil

	case taskMutatedMsg:
		return v, v.load()

	case taskToggledMsg:
		if msg.err != nil {
			return v, func() tea.Msg { return boardErrorMsg{err: msg.err} }
		}
		v.undo.Push(msg.entry)
		return v, v.load()

	case boardErrorMsg:
		// A stale batch means someone else won the race; reloading
		// shows the state that beat us.
		if errors.Is(msg.err, db.ErrStaleRevision) {
			v.statusMsg = "Board changed underneath you, reloaded"
			return v, v.load()
		}
		v.statusMsg = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		switch v.mode {
		case BoardModeAdd:
			return v.handleAddMode(msg)
		case BoardModeEdit:
			return v.handleEditMode(msg)
		case BoardModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			if v.selectingProject {
				return v.handleProjectSelector(msg)
			}
			if v.selectingAssignee {
				return v.handleAssigneeSelector(msg)
			}
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == BoardModeAdd || v.mode == BoardModeEdit {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleNormalMode handles keys in normal mode
func (v BoardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if v.currentFrame > 0 {
			v.currentFrame--
			v.clampCursor()
		}
		return v, nil

	case "l", "right":
		if v.currentFrame < len(model.Frames)-1 {
			v.currentFrame++
			v.clampCursor()
		}
		return v, nil

	case "j", "down":
		if v.cursorRow < len(v.currentBucket())-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.frameScroll[v.currentFrame] = 0
		return v, nil

	case "G":
		if bucket := v.currentBucket(); len(bucket) > 0 {
			v.cursorRow = len(bucket) - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Reorder within the bucket
	case "J":
		cmd := v.reorder(1)
		return v, cmd
	case "K":
		cmd := v.reorder(-1)
		return v, cmd

	// Move to an adjacent bucket
	case "H":
		return v, v.moveFrame(-1)
	case "L":
		return v, v.moveFrame(1)

	case "tab":
		return v, v.toggleCurrentTask()

	case "u":
		cmd := v.undoToggle()
		return v, cmd

	case "a":
		v.mode = BoardModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "New task..."
		v.textInput.Focus()
		return v, nil

	case "enter":
		if task, ok := v.currentTask(); ok {
			v.mode = BoardModeEdit
			v.editTaskID = task.ID
			v.editField = editFieldName
			v.draft = *task
			v.textInput.SetValue(task.Name)
			v.textInput.Placeholder = ""
			v.textInput.Focus()
			v.textInput.CursorEnd()
		}
		return v, nil

	case "d":
		if task, ok := v.currentTask(); ok {
			v.deleteTaskID = task.ID
			v.mode = BoardModeConfirmDelete
		}
		return v, nil

	case "i":
		if task, ok := v.currentTask(); ok {
			id, next := task.ID, !task.Important
			return v, func() tea.Msg {
				if err := v.db.SetTaskImportant(id, next); err != nil {
					return boardErrorMsg{err: err}
				}
				return taskMutatedMsg{}
			}
		}
		return v, nil

	case "p":
		if task, ok := v.currentTask(); ok {
			id, next := task.ID, !task.Pinned
			return v, func() tea.Msg {
				if err := v.db.SetTaskPinned(id, next); err != nil {
					return boardErrorMsg{err: err}
				}
				return taskMutatedMsg{}
			}
		}
		return v, nil

	case "m":
		if _, ok := v.currentTask(); ok && len(v.members) > 0 {
			v.selectingAssignee = true
			v.selectorCursor = 0
		}
		return v, nil

	case "f":
		if len(v.projects) > 0 {
			v.selectingProject = true
			v.assigningProject = false
			v.selectorCursor = 0
		}
		return v, nil

	case "P":
		if _, ok := v.currentTask(); ok && len(v.projects) > 0 {
			v.selectingProject = true
			v.assigningProject = true
			v.selectorCursor = 0
		}
		return v, nil

	case "esc":
		if v.filterProjectID != "" {
			v.filterProjectID = ""
			v.statusMsg = "Filter cleared"
			return v, v.load()
		}
		return v, nil
	}

	return v, nil
}

// handleAddMode handles keys in add mode
func (v BoardView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(v.textInput.Value())
		if name == "" {
			return v, nil
		}
		v.mode = BoardModeNormal
		v.textInput.Blur()
		frame := model.Frames[v.currentFrame]
		filter := v.filterProjectID
		return v, func() tea.Msg {
			task := model.Task{
				TeamID:    v.teamID,
				Name:      name,
				TimeFrame: frame,
			}
			if filter != "" {
				task.ProjectID = &filter
			}
			if err := v.db.CreateTask(&task); err != nil {
				return boardErrorMsg{err: err}
			}
			return taskMutatedMsg{}
		}
	case "esc":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleEditMode cycles through the edit form fields, saving on enter
func (v BoardView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if err := v.commitEditField(); err != nil {
			v.statusMsg = err.Error()
			return v, nil
		}
		if msg.String() == "tab" {
			v.editField = (v.editField + 1) % editFieldCount
		} else {
			v.editField = (v.editField + editFieldCount - 1) % editFieldCount
		}
		v.loadEditField()
		return v, nil

	case "enter":
		if err := v.commitEditField(); err != nil {
			v.statusMsg = err.Error()
			return v, nil
		}
		if strings.TrimSpace(v.draft.Name) == "" {
			v.statusMsg = "Task name cannot be empty"
			return v, nil
		}
		v.mode = BoardModeNormal
		v.textInput.Blur()
		draft := v.draft
		v.editTaskID = ""
		return v, func() tea.Msg {
			if err := v.db.UpdateTaskDetails(&draft); err != nil {
				return boardErrorMsg{err: err}
			}
			return taskMutatedMsg{}
		}

	case "esc":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		v.editTaskID = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// commitEditField stores the text input's value into the draft task
func (v *BoardView) commitEditField() error {
	value := strings.TrimSpace(v.textInput.Value())
	switch v.editField {
	case editFieldName:
		v.draft.Name = value
	case editFieldMemo:
		v.draft.Memo = value
	case editFieldDue:
		if value == "" {
			v.draft.DueDate = nil
			return nil
		}
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return fmt.Errorf("due date must be YYYY-MM-DD")
		}
		v.draft.DueDate = &d
	case editFieldTime:
		if value == "" {
			v.draft.DueTime = ""
			return nil
		}
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("due time must be HH:MM")
		}
		v.draft.DueTime = value
	}
	return nil
}

// loadEditField fills the text input from the draft task
func (v *BoardView) loadEditField() {
	switch v.editField {
	case editFieldName:
		v.textInput.SetValue(v.draft.Name)
		v.textInput.Placeholder = ""
	case editFieldMemo:
		v.textInput.SetValue(v.draft.Memo)
		v.textInput.Placeholder = "Memo..."
	case editFieldDue:
		if v.draft.DueDate != nil {
			v.textInput.SetValue(v.draft.DueDate.Format("2006-01-02"))
		} else {
			v.textInput.SetValue("")
		}
		v.textInput.Placeholder = "YYYY-MM-DD"
	case editFieldTime:
		v.textInput.SetValue(v.draft.DueTime)
		v.textInput.Placeholder = "HH:MM"
	}
	v.textInput.CursorEnd()
}

// handleConfirmDeleteMode handles keys in delete confirmation mode
func (v BoardView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = BoardModeNormal
		taskID := v.deleteTaskID
		v.deleteTaskID = ""
		return v, func() tea.Msg {
			if err := v.db.DeleteTask(taskID); err != nil {
				return boardErrorMsg{err: err}
			}
			return taskMutatedMsg{}
		}
	case "n", "N", "esc":
		v.mode = BoardModeNormal
		v.deleteTaskID = ""
		return v, nil
	}
	return v, nil
}

// handleProjectSelector handles the project filter popup
func (v BoardView) handleProjectSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.selectorCursor < len(v.projects)-1 {
			v.selectorCursor++
		}
	case "k", "up":
		if v.selectorCursor > 0 {
			v.selectorCursor--
		}
	case "enter":
		if v.selectorCursor < len(v.projects) {
			project := v.projects[v.selectorCursor]
			v.selectingProject = false

			if v.assigningProject {
				v.assigningProject = false
				if task, ok := v.currentTask(); ok {
					updated := *task
					// Picking the task's current project clears it.
					if task.ProjectID != nil && *task.ProjectID == project.ID {
						updated.ProjectID = nil
					} else {
						updated.ProjectID = &project.ID
					}
					return v, func() tea.Msg {
						if err := v.db.UpdateTaskDetails(&updated); err != nil {
							return boardErrorMsg{err: err}
						}
						return taskMutatedMsg{}
					}
				}
				return v, nil
			}

			v.filterProjectID = project.ID
			v.cursorRow = 0
			for i := range v.frameScroll {
				v.frameScroll[i] = 0
			}
			v.statusMsg = fmt.Sprintf("Filtering by: %s", project.Name)
			return v, v.load()
		}
	case "esc":
		v.selectingProject = false
		v.assigningProject = false
	}
	return v, nil
}

// handleAssigneeSelector toggles a member on the current task
func (v BoardView) handleAssigneeSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.selectorCursor < len(v.members)-1 {
			v.selectorCursor++
		}
	case "k", "up":
		if v.selectorCursor > 0 {
			v.selectorCursor--
		}
	case "enter":
		if v.selectorCursor < len(v.members) {
			member := v.members[v.selectorCursor]
			if task, ok := v.currentTask(); ok {
				updated := *task
				updated.Assignees = toggleMember(task.Assignees, member.ID)
				v.selectingAssignee = false
				return v, func() tea.Msg {
					if err := v.db.UpdateTaskDetails(&updated); err != nil {
						return boardErrorMsg{err: err}
					}
					return taskMutatedMsg{}
				}
			}
		}
	case "esc":
		v.selectingAssignee = false
	}
	return v, nil
}

func toggleMember(assignees []string, memberID string) []string {
	out := make([]string, 0, len(assignees)+1)
	found := false
	for _, id := range assignees {
		if id == memberID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, memberID)
	}
	return out
}

// reorder swaps the current task with its bucket neighbour
func (v *BoardView) reorder(direction int) tea.Cmd {
	bucket := v.currentBucket()
	targetRow := v.cursorRow + direction
	if len(bucket) == 0 || v.cursorRow >= len(bucket) || targetRow < 0 || targetRow >= len(bucket) {
		return nil
	}

	active := bucket[v.cursorRow]
	target := bucket[targetRow]
	tasks := v.tasks

	// Move the cursor with the task so repeated presses keep working.
	v.cursorRow = targetRow
	v.ensureCursorVisible()

	return func() tea.Msg {
		result := board.Reconcile(tasks, active.ID, target.ID)
		if err := v.db.ReorderTasks(result.Ops); err != nil {
			return boardErrorMsg{err: err}
		}
		return taskMutatedMsg{}
	}
}

// moveFrame files the current task under an adjacent bucket
func (v BoardView) moveFrame(direction int) tea.Cmd {
	bucket := v.currentBucket()
	if len(bucket) == 0 || v.cursorRow >= len(bucket) {
		return nil
	}

	newFrame := v.currentFrame + direction
	if newFrame < 0 || newFrame >= len(model.Frames) {
		return nil
	}

	active := bucket[v.cursorRow]
	target := string(model.Frames[newFrame])
	tasks := v.tasks

	return func() tea.Msg {
		result := board.Reconcile(tasks, active.ID, target)
		if err := v.db.ReorderTasks(result.Ops); err != nil {
			return boardErrorMsg{err: err}
		}
		return taskMutatedMsg{}
	}
}

// toggleCurrentTask completes the task under the cursor, recording the
// prior state so it can be undone
func (v BoardView) toggleCurrentTask() tea.Cmd {
	task, ok := v.currentTask()
	if !ok {
		return nil
	}

	entry := board.UndoEntry{
		TaskID:      task.ID,
		Completed:   task.Completed,
		CompletedAt: task.CompletedAt,
	}
	id, next := task.ID, !task.Completed

	return func() tea.Msg {
		err := v.db.SetTaskCompletion(id, next, nil)
		return taskToggledMsg{entry: entry, err: err}
	}
}

// undoToggle restores the most recent completion snapshot. A failed
// undo drops the entry rather than retrying it forever.
func (v *BoardView) undoToggle() tea.Cmd {
	entry, ok := v.undo.Pop()
	if !ok {
		v.statusMsg = "Nothing to undo"
		return nil
	}

	return func() tea.Msg {
		if err := v.db.SetTaskCompletion(entry.TaskID, entry.Completed, entry.CompletedAt); err != nil {
			return boardErrorMsg{err: err}
		}
		return taskMutatedMsg{}
	}
}

// currentBucket returns the tasks in the active frame
func (v BoardView) currentBucket() []model.Task {
	return v.buckets[model.Frames[v.currentFrame]]
}

// currentTask returns the task under the cursor
func (v BoardView) currentTask() (*model.Task, bool) {
	bucket := v.currentBucket()
	if len(bucket) == 0 || v.cursorRow >= len(bucket) {
		return nil, false
	}
	return &bucket[v.cursorRow], true
}

// clampCursor ensures cursor is valid for the current bucket
func (v *BoardView) clampCursor() {
	bucket := v.currentBucket()
	if v.cursorRow >= len(bucket) {
		if len(bucket) > 0 {
			v.cursorRow = len(bucket) - 1
		} else {
			v.cursorRow = 0
		}
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *BoardView) ensureCursorVisible() {
	visible := v.visibleItemCount()
	if visible <= 0 {
		visible = 5
	}

	if v.cursorRow >= v.frameScroll[v.currentFrame]+visible {
		v.frameScroll[v.currentFrame] = v.cursorRow - visible + 1
	}
	if v.cursorRow < v.frameScroll[v.currentFrame] {
		v.frameScroll[v.currentFrame] = v.cursorRow
	}
}

// visibleItemCount returns how many tasks fit in a column
func (v *BoardView) visibleItemCount() int {
	available := v.height - 7
	if available < 1 {
		return 1
	}
	return available
}

// getProjectByID looks up a project from the loaded list
func (v *BoardView) getProjectByID(id string) *model.Project {
	for i := range v.projects {
		if v.projects[i].ID == id {
			return &v.projects[i]
		}
	}
	return nil
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	today := board.Today()

	numVisible := len(model.Frames)
	if v.width < 150 {
		numVisible = 3
	}
	if v.width < 90 {
		numVisible = 2
	}

	// Keep the active frame in the visible window
	startFrame := 0
	if v.currentFrame >= numVisible {
		startFrame = v.currentFrame - numVisible + 1
	}
	endFrame := startFrame + numVisible
	if endFrame > len(model.Frames) {
		endFrame = len(model.Frames)
	}

	colWidth := (v.width - 4) / numVisible
	if colWidth < 24 {
		colWidth = 24
	}

	headerStyle := func(active bool) lipgloss.Style {
		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			Width(colWidth).
			Align(lipgloss.Center)
		if active {
			s = s.Background(t.Highlight)
		}
		return s
	}

	columnStyle := lipgloss.NewStyle().
		Width(colWidth).
		Height(v.height - 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	var headers []string
	for i := startFrame; i < endFrame; i++ {
		frame := model.Frames[i]
		bucket := v.buckets[frame]
		header := fmt.Sprintf("%s (%d)", frame.Label(), len(bucket))
		headers = append(headers, headerStyle(i == v.currentFrame).Render(header))
	}
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers...)

	visibleItems := v.visibleItemCount()
	var cols []string
	for i := startFrame; i < endFrame; i++ {
		frame := model.Frames[i]
		bucket := v.buckets[frame]
		isActive := i == v.currentFrame
		scroll := v.frameScroll[i]

		startIdx := scroll
		endIdx := scroll + visibleItems
		if startIdx > len(bucket) {
			startIdx = len(bucket)
		}
		if endIdx > len(bucket) {
			endIdx = len(bucket)
		}

		var items []string
		if scroll > 0 {
			items = append(items, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth-4).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↑ %d more", scroll)))
		}

		for j := startIdx; j < endIdx; j++ {
			selected := isActive && j == v.cursorRow
			items = append(items, v.renderTask(bucket[j], colWidth, selected, today))
		}

		if endIdx < len(bucket) {
			items = append(items, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth-4).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↓ %d more", len(bucket)-endIdx)))
		}

		content := strings.Join(items, "\n")
		if len(bucket) == 0 {
			content = lipgloss.NewStyle().
				Foreground(t.Subtle).
				Italic(true).
				Render("(empty)")
		}

		cs := columnStyle
		if isActive {
			cs = cs.BorderForeground(t.Primary)
		}
		cols = append(cols, cs.Render(content))
	}
	columnsRow := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	footer := v.renderFooter(colWidth)

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, columnsRow, footer)
}

// renderTask renders a single task line
func (v BoardView) renderTask(task model.Task, colWidth int, selected bool, today time.Time) string {
	t := theme.Current.Theme

	cardStyle := lipgloss.NewStyle().
		Width(colWidth - 4).
		Padding(0, 1).
		Foreground(t.Foreground)
	if selected {
		cardStyle = cardStyle.Background(t.Highlight)
	}

	var marks string
	if task.Pinned {
		marks += lipgloss.NewStyle().Foreground(t.Pinned).Render("⊙")
	}
	if task.Important {
		marks += lipgloss.NewStyle().Foreground(t.Important).Render("★")
	}

	status := board.DeriveStatus(task, today)
	if status.Overdue {
		marks += lipgloss.NewStyle().Foreground(t.Overdue).Render("!")
	} else if status.Mismatch {
		marks += lipgloss.NewStyle().Foreground(t.Mismatch).Render("▲")
	}
	if marks != "" {
		marks += " "
	}

	var projectStr string
	projectLen := 0
	if task.ProjectID != nil {
		if p := v.getProjectByID(*task.ProjectID); p != nil {
			style := lipgloss.NewStyle().Foreground(t.Secondary)
			if p.Color != "" {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
			}
			projectStr = style.Render("[" + p.Name + "] ")
			projectLen = len(p.Name) + 3
		}
	}

	var dueStr string
	dueLen := 0
	if due := task.DueString(); due != "" {
		dueStr = lipgloss.NewStyle().Foreground(t.Warning).Render(" " + due)
		dueLen = len(due) + 1
	}

	var assigneeStr string
	assigneeLen := 0
	if n := len(task.Assignees); n > 0 {
		assigneeStr = lipgloss.NewStyle().Foreground(t.Info).Render(fmt.Sprintf(" +%d", n))
		assigneeLen = 3
	}

	name := task.Name
	maxNameLen := colWidth - 8 - projectLen - dueLen - assigneeLen
	if maxNameLen < 8 {
		maxNameLen = 8
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	return cardStyle.Render(marks + projectStr + name + dueStr + assigneeStr)
}

// renderFooter renders the mode-dependent footer line
func (v BoardView) renderFooter(colWidth int) string {
	t := theme.Current.Theme

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case BoardModeAdd:
		return inputStyle.Render("Add task: " + v.textInput.View())
	case BoardModeEdit:
		labels := [editFieldCount]string{"Name", "Memo", "Due date", "Due time"}
		return inputStyle.Render(fmt.Sprintf("%s (tab: next field, enter: save): %s",
			labels[v.editField], v.textInput.View()))
	case BoardModeConfirmDelete:
		name := ""
		if task, ok := v.currentTask(); ok {
			name = task.Name
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", name))
	}

	if v.selectingProject {
		return v.renderProjectSelector()
	}
	if v.selectingAssignee {
		return v.renderAssigneeSelector()
	}

	var prefix string
	if v.filterProjectID != "" {
		if p := v.getProjectByID(v.filterProjectID); p != nil {
			prefix = lipgloss.NewStyle().Foreground(t.Info).
				Render(fmt.Sprintf("[Project: %s] ", p.Name))
		}
	}
	if n := v.undo.Len(); n > 0 {
		prefix += lipgloss.NewStyle().Foreground(t.Subtle).
			Render(fmt.Sprintf("[undo: %d] ", n))
	}
	if v.statusMsg != "" {
		return prefix + lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	hints := "h/l: bucket • j/k: nav • J/K: reorder • H/L: move • tab: done • u: undo • a: add • enter: edit"
	return prefix + lipgloss.NewStyle().Foreground(t.Subtle).Render(hints)
}

// renderProjectSelector renders the project popup for filtering or assignment
func (v BoardView) renderProjectSelector() string {
	t := theme.Current.Theme

	title := "Filter by Project:"
	if v.assigningProject {
		title = "Assign to Project:"
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(title))
	for i, p := range v.projects {
		style := lipgloss.NewStyle()
		if i == v.selectorCursor {
			style = style.Background(t.Highlight).Foreground(t.Foreground)
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		lines = append(lines, style.Render(fmt.Sprintf(" %s %s (%d/%d)", dot, p.Name, p.CompletedCount, p.TaskCount)))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render("j/k: navigate • enter: select • esc: cancel"))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// renderAssigneeSelector renders the member toggle popup
func (v BoardView) renderAssigneeSelector() string {
	t := theme.Current.Theme

	task, _ := v.currentTask()

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Toggle Assignee:"))
	for i, m := range v.members {
		style := lipgloss.NewStyle()
		if i == v.selectorCursor {
			style = style.Background(t.Highlight).Foreground(t.Foreground)
		}
		mark := " "
		if task != nil {
			for _, id := range task.Assignees {
				if id == m.ID {
					mark = "✓"
					break
				}
			}
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Render("●")
		lines = append(lines, style.Render(fmt.Sprintf(" %s %s %s", mark, dot, m.Name)))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render("j/k: navigate • enter: toggle • esc: cancel"))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// IsInputMode returns whether the view is in input mode
func (v BoardView) IsInputMode() bool {
	return v.mode == BoardModeAdd ||
		v.mode == BoardModeEdit ||
		v.mode == BoardModeConfirmDelete ||
		v.selectingProject ||
		v.selectingAssignee
}
