package model

import (
	"fmt"
	"time"
)

// TimeFrame is the scheduling bucket a task is filed under.
type TimeFrame string

const (
	FrameToday    TimeFrame = "today"
	FrameTomorrow TimeFrame = "tomorrow"
	FrameThisWeek TimeFrame = "this_week"
	FrameNextWeek TimeFrame = "next_week"
	FrameLater    TimeFrame = "later"
)

// Frames lists all buckets in display order.
var Frames = []TimeFrame{
	FrameToday,
	FrameTomorrow,
	FrameThisWeek,
	FrameNextWeek,
	FrameLater,
}

// ParseTimeFrame validates a stored bucket value. Unknown values are
// rejected here, at the boundary, so the rest of the code only ever
// sees the five known frames.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case FrameToday, FrameTomorrow, FrameThisWeek, FrameNextWeek, FrameLater:
		return TimeFrame(s), nil
	}
	return "", fmt.Errorf("unknown time frame %q", s)
}

// LeadDays returns the minimum number of days away a due date should
// be for a task filed under this frame to be consistent with it.
func (f TimeFrame) LeadDays() int {
	switch f {
	case FrameToday:
		return 0
	case FrameTomorrow:
		return 1
	case FrameThisWeek:
		return 3
	case FrameNextWeek:
		return 5
	case FrameLater:
		return 10
	default:
		return 0
	}
}

// Index returns the frame's position in display order, or -1.
func (f TimeFrame) Index() int {
	for i, frame := range Frames {
		if frame == f {
			return i
		}
	}
	return -1
}

// Label returns the display name for a frame.
func (f TimeFrame) Label() string {
	switch f {
	case FrameToday:
		return "Today"
	case FrameTomorrow:
		return "Tomorrow"
	case FrameThisWeek:
		return "This Week"
	case FrameNextWeek:
		return "Next Week"
	case FrameLater:
		return "Later"
	default:
		return string(f)
	}
}

// Task represents a tracked task
type Task struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Name        string     `json:"name"`
	Memo        string     `json:"memo,omitempty"`
	ResultMemo  string     `json:"result_memo,omitempty"`
	TimeFrame   TimeFrame  `json:"time_frame"`
	DueDate     *time.Time `json:"due_date,omitempty"` // calendar date, no time component
	DueTime     string     `json:"due_time,omitempty"` // "15:04", independent of DueDate
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Important   bool       `json:"important"`
	Pinned      bool       `json:"pinned"`
	SortOrder   int        `json:"sort_order"`
	Revision    int64      `json:"revision"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Loaded relationship (not stored in the tasks table)
	Assignees []string `json:"assignees,omitempty"`
}

// DueString formats the due date (and time, when set) for compact
// display on the board.
func (t *Task) DueString() string {
	if t.DueDate == nil {
		return ""
	}
	s := t.DueDate.Format("01/02")
	if t.DueTime != "" {
		s += " " + t.DueTime
	}
	return s
}
