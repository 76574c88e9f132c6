package ui

// View represents the current active view
type View int

const (
	ViewBoard View = iota
	ViewProjects
	ViewReport
	ViewArchive
	ViewMembers
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewBoard:
		return "Board"
	case ViewProjects:
		return "Projects"
	case ViewReport:
		return "Report"
	case ViewArchive:
		return "Archive"
	case ViewMembers:
		return "Members"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// RefreshMsg requests a data refresh. The background sweep sends this
// after every pass; views reload from the database when they see it.
type RefreshMsg struct{}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
