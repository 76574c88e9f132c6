package board

import (
	"time"

	"github.com/hanae/stayfocus/internal/model"
)

// Status carries the derived warning flags for a task.
type Status struct {
	Overdue  bool
	Mismatch bool
}

// HasWarning reports whether either flag is set.
func (s Status) HasWarning() bool {
	return s.Overdue || s.Mismatch
}

// DateOnly truncates t to a naive calendar date at UTC midnight.
// All due-date math works on these values so that wall-clock offsets
// and DST transitions cannot shift a comparison across a day boundary.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOnly(time.Now())
}

// DaysBetween returns the whole-day difference to - from between two
// calendar dates.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// DeriveStatus computes the warning flags for a task relative to a
// reference date. Tasks with no due date, and completed tasks, never
// warn. Overdue means the due date is strictly before today. Mismatch
// means the due date is closer than the minimum lead time of the
// frame the task is filed under; it is only evaluated when the task
// is not overdue.
func DeriveStatus(t model.Task, today time.Time) Status {
	if t.DueDate == nil || t.Completed {
		return Status{}
	}

	due := DateOnly(*t.DueDate)
	today = DateOnly(today)

	if due.Before(today) {
		return Status{Overdue: true}
	}

	daysDiff := DaysBetween(today, due)
	if daysDiff >= 0 && daysDiff < t.TimeFrame.LeadDays() {
		return Status{Mismatch: true}
	}

	return Status{}
}
