package reconcile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hanae/stayfocus/internal/db"
	"github.com/hanae/stayfocus/internal/model"
	"github.com/hanae/stayfocus/internal/notify"
)

func testSetup(t *testing.T) (*db.DB, *notify.Notifier) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	notifier := notify.NewNotifier()
	notifier.SetEnabled(false)
	return database, notifier
}

func TestSweepCompactsAndSignals(t *testing.T) {
	database, notifier := testSetup(t)

	tasks := []*model.Task{
		{Name: "a", TimeFrame: model.FrameToday},
		{Name: "b", TimeFrame: model.FrameToday},
		{Name: "c", TimeFrame: model.FrameToday},
	}
	for _, task := range tasks {
		if err := database.CreateTask(task); err != nil {
			t.Fatal(err)
		}
	}
	// Completing the middle task leaves a sort order gap.
	if err := database.SetTaskCompletion(tasks[1].ID, true, nil); err != nil {
		t.Fatal(err)
	}

	updated := false
	r := NewRunner(database, notifier, model.DefaultTeamID, func() { updated = true })

	if err := r.Sweep(); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !updated {
		t.Error("sweep did not signal an update")
	}

	got, err := database.GetTask(tasks[2].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SortOrder != 1 {
		t.Errorf("gap not compacted: sort order = %d, want 1", got.SortOrder)
	}
}

func TestSweepReportsOverdueOnce(t *testing.T) {
	database, notifier := testSetup(t)

	past := time.Now().AddDate(0, 0, -2)
	task := &model.Task{Name: "late", TimeFrame: model.FrameToday, DueDate: &past}
	if err := database.CreateTask(task); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(database, notifier, model.DefaultTeamID, nil)

	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if !r.overdueSeen[task.ID] {
		t.Fatal("overdue task not recorded")
	}

	// A second sweep must not report the same task again.
	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if !r.overdueSeen[task.ID] {
		t.Error("dedup record lost between sweeps")
	}

	// Pushing the due date out clears the record.
	got, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	future := time.Now().AddDate(0, 0, 14)
	got.DueDate = &future
	got.TimeFrame = model.FrameLater
	if err := database.UpdateTaskDetails(got); err != nil {
		t.Fatal(err)
	}
	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if r.overdueSeen[task.ID] {
		t.Error("rescheduled task should be eligible to warn again")
	}
}

func TestSweepRemindsAboutMismatchedTasksOnce(t *testing.T) {
	database, notifier := testSetup(t)

	// Due tomorrow but filed under LATER (10-day lead): the bucket
	// promises far more runway than the deadline allows.
	soon := time.Now().AddDate(0, 0, 1)
	task := &model.Task{Name: "misfiled", TimeFrame: model.FrameLater, DueDate: &soon}
	if err := database.CreateTask(task); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(database, notifier, model.DefaultTeamID, nil)

	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if !r.mismatchSeen[task.ID] {
		t.Fatal("mismatched task not recorded")
	}
	if r.overdueSeen[task.ID] {
		t.Error("task due tomorrow is not overdue")
	}

	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if !r.mismatchSeen[task.ID] {
		t.Error("dedup record lost between sweeps")
	}

	// Refiling into a bucket whose lead covers the deadline clears
	// the record.
	got, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.TimeFrame = model.FrameTomorrow
	if err := database.UpdateTaskDetails(got); err != nil {
		t.Fatal(err)
	}
	if err := r.Sweep(); err != nil {
		t.Fatal(err)
	}
	if r.mismatchSeen[task.ID] {
		t.Error("refiled task should be eligible to warn again")
	}
}

func TestRunnerStartStop(t *testing.T) {
	database, notifier := testSetup(t)

	r := NewRunner(database, notifier, model.DefaultTeamID, nil)
	if err := r.Start(time.Minute); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := r.Start(time.Minute); err == nil {
		t.Error("double start should fail")
	}
	r.Stop()
	r.Stop() // idempotent
}
