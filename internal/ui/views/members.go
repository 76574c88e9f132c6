package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/ui/theme"
)

type membersLoadedMsg struct {
	members []model.Member
}

type memberMutatedMsg struct{}

type membersErrorMsg struct{ err error }

// MembersMode represents the current input mode
type MembersMode int

const (
	MembersModeNormal MembersMode = iota
	MembersModeName
	MembersModeEmail
	MembersModeConfirmDelete
)

// MembersView manages the team roster.
type MembersView struct {
	db     *db.DB
	teamID string
	width  int
	height int

	members []model.Member
	cursor  int

	mode      MembersMode
	textInput textinput.Model

	// Pending add; name is captured first, then email
	pendingName string

	deleteMemberID string

	statusMsg string
}

// NewMembersView creates a new members view
func NewMembersView(database *db.DB, teamID string) MembersView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 128

	return MembersView{
		db:        database,
		teamID:    teamID,
		textInput: ti,
	}
}

// Init initializes the members view
func (v MembersView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v MembersView) SetSize(width, height int) MembersView {
	v.width = width
	v.height = height
	return v
}

func (v MembersView) load() tea.Cmd {
	return func() tea.Msg {
		members, err := v.db.GetMembers(v.teamID)
		if err != nil {
			return membersErrorMsg{err: err}
		}
		return membersLoadedMsg{members: members}
	}
}

// Update handles messages
func (v MembersView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case membersLoadedMsg:
		v.members = msg.members
		if v.cursor >= len(v.members) && v.cursor > 0 {
			v.cursor = len(v.members) - 1
		}
		return v, nil

	case memberMutatedMsg:
		return v, v.load()

	case membersErrorMsg:
		v.statusMsg = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		switch v.mode {
		case MembersModeName, MembersModeEmail:
			return v.handleInputMode(msg)
		case MembersModeConfirmDelete:
			return v.handleConfirmDelete(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode == MembersModeName || v.mode == MembersModeEmail {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v MembersView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.members)-1 {
			v.cursor++
		}
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "a":
		v.mode = MembersModeName
		v.pendingName = ""
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Name..."
		v.textInput.Focus()
		return v, nil

	case "d":
		if len(v.members) > 0 && v.cursor < len(v.members) {
			v.deleteMemberID = v.members[v.cursor].ID
			v.mode = MembersModeConfirmDelete
		}
		return v, nil
	}

	return v, nil
}

func (v MembersView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(v.textInput.Value())
		if v.mode == MembersModeName {
			if value == "" {
				return v, nil
			}
			v.pendingName = value
			v.mode = MembersModeEmail
			v.textInput.SetValue("")
			v.textInput.Placeholder = "Email..."
			return v, nil
		}

		if value == "" || !strings.Contains(value, "@") {
			v.statusMsg = "A valid email is required"
			return v, nil
		}
		v.mode = MembersModeNormal
		v.textInput.Blur()
		name, email, teamID := v.pendingName, value, v.teamID
		v.pendingName = ""
		return v, func() tea.Msg {
			member := model.Member{TeamID: teamID, Name: name, Email: email}
			if err := v.db.CreateMember(&member); err != nil {
				return membersErrorMsg{err: err}
			}
			return memberMutatedMsg{}
		}

	case "esc":
		v.mode = MembersModeNormal
		v.textInput.Blur()
		v.pendingName = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v MembersView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = MembersModeNormal
		memberID := v.deleteMemberID
		v.deleteMemberID = ""
		return v, func() tea.Msg {
			if err := v.db.DeleteMember(memberID); err != nil {
				return membersErrorMsg{err: err}
			}
			return memberMutatedMsg{}
		}
	case "n", "N", "esc":
		v.mode = MembersModeNormal
		v.deleteMemberID = ""
		return v, nil
	}
	return v, nil
}

// View renders the roster
func (v MembersView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("Members"))
	b.WriteString("\n\n")

	if len(v.members) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).
			Render("No members yet. Press 'a' to add one."))
		b.WriteString("\n")
	}

	for i, m := range v.members {
		style := lipgloss.NewStyle().Foreground(t.Foreground)
		if i == v.cursor {
			style = style.Background(t.Highlight)
		}

		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Render("●")
		email := lipgloss.NewStyle().Foreground(t.Subtle).Render(" <" + m.Email + ">")

		b.WriteString(style.Render(fmt.Sprintf(" %s %s%s", dot, m.Name, email)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

func (v MembersView) renderFooter() string {
	t := theme.Current.Theme

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Width(v.width - 4)

	switch v.mode {
	case MembersModeName:
		return inputStyle.Render("New member name: " + v.textInput.View())
	case MembersModeEmail:
		return inputStyle.Render(fmt.Sprintf("Email for %s: %s", v.pendingName, v.textInput.View()))
	case MembersModeConfirmDelete:
		name := ""
		for _, m := range v.members {
			if m.ID == v.deleteMemberID {
				name = m.Name
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Remove '%s' from the team? (y/n)", name))
	}

	if v.statusMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
	}

	hints := "j/k: nav • a: add • d: remove"
	return lipgloss.NewStyle().Foreground(t.Subtle).Render(hints)
}

// IsInputMode returns whether the view is in input mode
func (v MembersView) IsInputMode() bool {
	return v.mode != MembersModeNormal
}
