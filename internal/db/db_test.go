package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hanae/stayfocus/internal/board"
	"github.com/hanae/stayfocus/internal/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, db *DB, task *model.Task) *model.Task {
	t.Helper()
	if task.TimeFrame == "" {
		task.TimeFrame = model.FrameToday
	}
	if err := db.CreateTask(task); err != nil {
		t.Fatalf("failed to create task %q: %v", task.Name, err)
	}
	return task
}

func TestOpenSeedsDefaultTeam(t *testing.T) {
	db := testDB(t)

	team, err := db.GetTeam(model.DefaultTeamID)
	if err != nil {
		t.Fatalf("failed to get default team: %v", err)
	}
	if team.ID != model.DefaultTeamID {
		t.Errorf("team ID = %q", team.ID)
	}
}

func TestCreateTaskAppendsToBucket(t *testing.T) {
	db := testDB(t)

	a := mustCreate(t, db, &model.Task{Name: "first"})
	b := mustCreate(t, db, &model.Task{Name: "second"})
	c := mustCreate(t, db, &model.Task{Name: "other bucket", TimeFrame: model.FrameLater})

	if a.SortOrder != 0 || b.SortOrder != 1 {
		t.Errorf("same-bucket orders = %d, %d, want 0, 1", a.SortOrder, b.SortOrder)
	}
	if c.SortOrder != 0 {
		t.Errorf("new bucket should start at 0, got %d", c.SortOrder)
	}
}

func TestCreateTaskRejectsUnknownFrame(t *testing.T) {
	db := testDB(t)
	err := db.CreateTask(&model.Task{Name: "bad", TimeFrame: "someday"})
	if err == nil {
		t.Fatal("unknown time frame must be rejected")
	}
}

func TestSchemaRejectsUnknownFrame(t *testing.T) {
	db := testDB(t)
	_, err := db.Exec(
		`INSERT INTO tasks (id, team_id, name, time_frame, created_at, updated_at)
		 VALUES ('x', 'default', 'bad', 'someday', datetime('now'), datetime('now'))`)
	if err == nil {
		t.Fatal("schema should refuse an unknown time frame")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	db := testDB(t)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	created := mustCreate(t, db, &model.Task{
		Name:      "write report",
		Memo:      "quarterly numbers",
		TimeFrame: model.FrameThisWeek,
		DueDate:   &due,
		DueTime:   "17:00",
		Important: true,
	})

	got, err := db.GetTask(created.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.Name != "write report" || got.Memo != "quarterly numbers" {
		t.Errorf("text fields lost: %+v", got)
	}
	if got.TimeFrame != model.FrameThisWeek || !got.Important || got.Pinned {
		t.Errorf("flags lost: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) || got.DueTime != "17:00" {
		t.Errorf("due fields lost: date=%v time=%q", got.DueDate, got.DueTime)
	}
	if got.Revision != 0 {
		t.Errorf("fresh task revision = %d, want 0", got.Revision)
	}
}

func TestCompletionTogglesAndBumpsRevision(t *testing.T) {
	db := testDB(t)
	task := mustCreate(t, db, &model.Task{Name: "toggle me"})

	if err := db.SetTaskCompletion(task.ID, true, nil); err != nil {
		t.Fatalf("failed to complete: %v", err)
	}
	got, err := db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Errorf("completion not recorded: %+v", got)
	}
	if got.Revision != 1 {
		t.Errorf("revision = %d, want 1", got.Revision)
	}

	// Undo restores the snapshot, including a nil timestamp.
	if err := db.SetTaskCompletion(task.ID, false, nil); err != nil {
		t.Fatalf("failed to undo: %v", err)
	}
	got, err = db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed || got.CompletedAt != nil {
		t.Errorf("undo left completion state: %+v", got)
	}
}

func TestGetTasksFilters(t *testing.T) {
	db := testDB(t)

	project := &model.Project{Name: "launch"}
	if err := db.CreateProject(project); err != nil {
		t.Fatal(err)
	}

	inProject := mustCreate(t, db, &model.Task{Name: "in project", ProjectID: &project.ID})
	loose := mustCreate(t, db, &model.Task{Name: "loose"})
	done := mustCreate(t, db, &model.Task{Name: "done"})
	if err := db.SetTaskCompletion(done.ID, true, nil); err != nil {
		t.Fatal(err)
	}

	open, err := db.GetTasks(model.DefaultTeamID, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("open tasks = %d, want 2", len(open))
	}

	all, err := db.GetTasks(model.DefaultTeamID, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all tasks = %d, want 3", len(all))
	}

	scoped, err := db.GetTasks(model.DefaultTeamID, &project.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || scoped[0].ID != inProject.ID {
		t.Fatalf("project filter returned %d tasks", len(scoped))
	}
	_ = loose
}

func TestReorderTasksAppliesBatch(t *testing.T) {
	db := testDB(t)

	a := mustCreate(t, db, &model.Task{Name: "a"})
	b := mustCreate(t, db, &model.Task{Name: "b"})
	c := mustCreate(t, db, &model.Task{Name: "c"})

	tasks, err := db.GetTasks(model.DefaultTeamID, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	// Drag c to the top of its bucket.
	result := board.Reconcile(tasks, c.ID, a.ID)
	if err := db.ReorderTasks(result.Ops); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	tasks, err = db.GetTasks(model.DefaultTeamID, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]model.Task{}
	for _, task := range tasks {
		byID[task.ID] = task
	}
	if byID[c.ID].SortOrder != 0 || byID[a.ID].SortOrder != 1 || byID[b.ID].SortOrder != 2 {
		t.Errorf("orders after move: c=%d a=%d b=%d",
			byID[c.ID].SortOrder, byID[a.ID].SortOrder, byID[b.ID].SortOrder)
	}
}

func TestReorderTasksRejectsStaleBatch(t *testing.T) {
	db := testDB(t)

	a := mustCreate(t, db, &model.Task{Name: "a"})
	b := mustCreate(t, db, &model.Task{Name: "b"})

	tasks, err := db.GetTasks(model.DefaultTeamID, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	result := board.Reconcile(tasks, b.ID, a.ID)

	// A concurrent edit bumps a's revision before the batch lands.
	if err := db.SetTaskImportant(a.ID, true); err != nil {
		t.Fatal(err)
	}

	err = db.ReorderTasks(result.Ops)
	if !errors.Is(err, ErrStaleRevision) {
		t.Fatalf("err = %v, want ErrStaleRevision", err)
	}

	// The whole batch must roll back: b keeps its original order.
	got, err := db.GetTask(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SortOrder != 1 {
		t.Errorf("partial batch applied: b.SortOrder = %d", got.SortOrder)
	}
}

func TestReorderTasksCrossBucket(t *testing.T) {
	db := testDB(t)

	a := mustCreate(t, db, &model.Task{Name: "a"})
	later := mustCreate(t, db, &model.Task{Name: "later", TimeFrame: model.FrameLater})

	tasks, err := db.GetTasks(model.DefaultTeamID, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	result := board.Reconcile(tasks, a.ID, string(model.FrameLater))
	if err := db.ReorderTasks(result.Ops); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTask(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TimeFrame != model.FrameLater {
		t.Errorf("frame = %s, want later", got.TimeFrame)
	}
	if got.SortOrder != 1 {
		t.Errorf("sort order = %d, want 1 (after %q)", got.SortOrder, later.Name)
	}
}

func TestCompactSortOrdersClosesGaps(t *testing.T) {
	db := testDB(t)

	a := mustCreate(t, db, &model.Task{Name: "a"})
	b := mustCreate(t, db, &model.Task{Name: "b"})
	c := mustCreate(t, db, &model.Task{Name: "c"})

	// Completing the middle task leaves a gap at order 1.
	if err := db.SetTaskCompletion(b.ID, true, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.CompactSortOrders(model.DefaultTeamID); err != nil {
		t.Fatalf("compact failed: %v", err)
	}

	gotA, _ := db.GetTask(a.ID)
	gotC, _ := db.GetTask(c.ID)
	if gotA.SortOrder != 0 || gotC.SortOrder != 1 {
		t.Errorf("orders after compaction: a=%d c=%d", gotA.SortOrder, gotC.SortOrder)
	}
}

func TestAssigneesRoundTrip(t *testing.T) {
	db := testDB(t)

	m1 := &model.Member{Name: "Aiko", Email: "aiko@example.com"}
	m2 := &model.Member{Name: "Ben", Email: "ben@example.com"}
	if err := db.CreateMember(m1); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateMember(m2); err != nil {
		t.Fatal(err)
	}

	task := mustCreate(t, db, &model.Task{Name: "shared", Assignees: []string{m1.ID, m2.ID}})

	got, err := db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Assignees) != 2 {
		t.Fatalf("assignees = %v", got.Assignees)
	}

	// Replacing the set drops the removed member.
	got.Assignees = []string{m2.ID}
	if err := db.UpdateTaskDetails(got); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Assignees) != 1 || got.Assignees[0] != m2.ID {
		t.Errorf("assignees after update = %v", got.Assignees)
	}

	// Deleting a member cascades out of the join table.
	if err := db.DeleteMember(m2.ID); err != nil {
		t.Fatal(err)
	}
	got, err = db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Assignees) != 0 {
		t.Errorf("assignees after member delete = %v", got.Assignees)
	}
}

func TestCompletedReportRangeIsInclusive(t *testing.T) {
	db := testDB(t)

	edge := mustCreate(t, db, &model.Task{Name: "late finish"})
	at := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	if err := db.SetTaskCompletion(edge.ID, true, &at); err != nil {
		t.Fatal(err)
	}

	outside := mustCreate(t, db, &model.Task{Name: "next day"})
	next := at.Add(2 * time.Hour)
	if err := db.SetTaskCompletion(outside.ID, true, &next); err != nil {
		t.Fatal(err)
	}

	day := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	got, err := db.GetCompletedBetween(model.DefaultTeamID, day, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != edge.ID {
		t.Fatalf("report returned %d tasks", len(got))
	}
}

func TestUpdateTaskReview(t *testing.T) {
	db := testDB(t)
	task := mustCreate(t, db, &model.Task{Name: "retro"})

	if err := db.UpdateTaskReview(task.ID, "went fine"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ResultMemo != "went fine" {
		t.Errorf("result memo = %q", got.ResultMemo)
	}
}

func TestDeleteTask(t *testing.T) {
	db := testDB(t)
	task := mustCreate(t, db, &model.Task{Name: "doomed"})

	if err := db.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetTask(task.ID); err == nil {
		t.Error("deleted task still readable")
	}
	if err := db.DeleteTask(task.ID); err == nil {
		t.Error("double delete should fail")
	}
}
