// Package reconcile runs the periodic background sweep: it compacts
// bucket sort orders, checks for tasks that have slipped past their
// due date or are filed in a bucket too late for their due date, and
// asks the UI to refresh.
package reconcile

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hanae/stayfocus/internal/board"
	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/notify"
)

// Runner schedules the sweep on a fixed interval.
type Runner struct {
	db       *db.DB
	notifier *notify.Notifier
	teamID   string
	onUpdate func()

	cron *cron.Cron

	mu           sync.Mutex
	overdueSeen  map[string]bool // task IDs already reported as overdue
	mismatchSeen map[string]bool // task IDs already reminded about a bucket mismatch
}

// NewRunner creates a sweep runner. onUpdate is called after every
// sweep that changed or observed anything worth redrawing; pass nil if
// no UI is attached.
func NewRunner(database *db.DB, notifier *notify.Notifier, teamID string, onUpdate func()) *Runner {
	return &Runner{
		db:           database,
		notifier:     notifier,
		teamID:       teamID,
		onUpdate:     onUpdate,
		overdueSeen:  make(map[string]bool),
		mismatchSeen: make(map[string]bool),
	}
}

// Start begins sweeping every interval. The first sweep runs after one
// full interval, not immediately.
func (r *Runner) Start(interval time.Duration) error {
	if r.cron != nil {
		return fmt.Errorf("runner already started")
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := c.AddFunc(spec, func() { r.Sweep() }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Runner) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.cron = nil
}

// Sweep runs one reconciliation pass. It is safe to call directly,
// outside the schedule.
func (r *Runner) Sweep() error {
	if err := r.db.CompactSortOrders(r.teamID); err != nil {
		return fmt.Errorf("failed to compact sort orders: %w", err)
	}

	tasks, err := r.db.GetTasks(r.teamID, nil, false)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	today := board.Today()
	overdue := 0
	var mismatched []model.Task
	r.mu.Lock()
	for _, task := range tasks {
		status := board.DeriveStatus(task, today)

		if status.Overdue {
			if !r.overdueSeen[task.ID] {
				r.overdueSeen[task.ID] = true
				overdue++
			}
		} else {
			// A pushed-out due date makes the task eligible again.
			delete(r.overdueSeen, task.ID)
		}

		if status.Mismatch {
			if !r.mismatchSeen[task.ID] {
				r.mismatchSeen[task.ID] = true
				mismatched = append(mismatched, task)
			}
		} else {
			// Refiled or rescheduled; the next mismatch warns anew.
			delete(r.mismatchSeen, task.ID)
		}
	}
	r.mu.Unlock()

	if r.notifier != nil {
		if overdue > 0 {
			r.notifier.SendOverdue(overdue)
		}
		for _, task := range mismatched {
			r.notifier.SendDueReminder(task.Name, dueIn(task))
		}
	}

	if r.onUpdate != nil {
		r.onUpdate()
	}
	return nil
}

// dueIn reports how far away a task's deadline is. Dates without a
// time of day count as due at midnight.
func dueIn(task model.Task) time.Duration {
	if task.DueDate == nil {
		return 0
	}
	due := *task.DueDate
	if task.DueTime != "" {
		if at, err := time.Parse("15:04", task.DueTime); err == nil {
			due = due.Add(time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute)
		}
	}
	return time.Until(due)
}
