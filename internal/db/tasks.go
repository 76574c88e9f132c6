package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hanae/stayfocus/internal/board"
	"github.com/hanae/stayfocus/internal/model"
)

// ErrStaleRevision is returned by ReorderTasks when another writer has
// touched one of the rows since the batch was computed. The caller
// should reload and retry rather than overwrite the newer state.
var ErrStaleRevision = errors.New("task was modified concurrently")

const dateFormat = "2006-01-02"

const taskColumns = `id, team_id, project_id, name, memo, result_memo, time_frame,
	due_date, due_time, completed, completed_at, important, pinned,
	sort_order, revision, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var projectID, memo, resultMemo, dueDate, dueTime, completedAt sql.NullString
	var frame string

	err := s.Scan(&t.ID, &t.TeamID, &projectID, &t.Name, &memo, &resultMemo, &frame,
		&dueDate, &dueTime, &t.Completed, &completedAt, &t.Important, &t.Pinned,
		&t.SortOrder, &t.Revision, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}

	t.TimeFrame, err = model.ParseTimeFrame(frame)
	if err != nil {
		return t, fmt.Errorf("task %s: %w", t.ID, err)
	}

	if projectID.Valid {
		t.ProjectID = &projectID.String
	}
	t.Memo = memo.String
	t.ResultMemo = resultMemo.String
	t.DueTime = dueTime.String

	if dueDate.Valid && dueDate.String != "" {
		d, err := time.Parse(dateFormat, dueDate.String)
		if err != nil {
			return t, fmt.Errorf("task %s: bad due date %q: %w", t.ID, dueDate.String, err)
		}
		t.DueDate = &d
	}
	if completedAt.Valid && completedAt.String != "" {
		at, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return t, fmt.Errorf("task %s: bad completed_at %q: %w", t.ID, completedAt.String, err)
		}
		t.CompletedAt = &at
	}

	return t, nil
}

// GetTasks returns a team's tasks ordered for the board. Pass a
// project ID to narrow to one project; completed tasks are excluded
// unless includeCompleted is set.
func (db *DB) GetTasks(teamID string, projectID *string, includeCompleted bool) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE team_id = ?`
	args := []any{teamID}

	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	if !includeCompleted {
		query += ` AND completed = 0`
	}
	query += ` ORDER BY pinned DESC, important DESC, sort_order ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before the assignee queries: with a single connection a
	// nested query would deadlock against the open cursor.
	rows.Close()

	if err := db.loadAssignees(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (db *DB) GetTask(id string) (*model.Task, error) {
	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	tasks := []model.Task{t}
	if err := db.loadAssignees(tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// loadAssignees fills in the Assignees member IDs for a batch of tasks.
func (db *DB) loadAssignees(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	placeholders := make([]string, len(tasks))
	args := make([]any, len(tasks))
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		placeholders[i] = "?"
		args[i] = tasks[i].ID
		index[tasks[i].ID] = i
	}

	query := `SELECT task_id, member_id FROM task_assignees WHERE task_id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY member_id`
	rows, err := db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to query assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, memberID string
		if err := rows.Scan(&taskID, &memberID); err != nil {
			return err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Assignees = append(tasks[i].Assignees, memberID)
		}
	}
	return rows.Err()
}

// CreateTask inserts a new task at the end of its bucket.
func (db *DB) CreateTask(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.TeamID == "" {
		task.TeamID = model.DefaultTeamID
	}
	if _, err := model.ParseTimeFrame(string(task.TimeFrame)); err != nil {
		return err
	}

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	return db.Transaction(func(tx *sql.Tx) error {
		// New tasks go after the bucket's current incomplete tasks.
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM tasks WHERE team_id = ? AND time_frame = ? AND completed = 0`,
			task.TeamID, task.TimeFrame,
		).Scan(&task.SortOrder)
		if err != nil {
			return err
		}

		_, err = tx.Exec(
			`INSERT INTO tasks (id, team_id, project_id, name, memo, time_frame,
				due_date, due_time, sort_order, important, pinned, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.TeamID, task.ProjectID, task.Name, task.Memo, task.TimeFrame,
			nullDate(task.DueDate), nullString(task.DueTime), task.SortOrder,
			task.Important, task.Pinned, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		return setAssigneesTx(tx, task.ID, task.Assignees)
	})
}

// SetTaskCompletion marks a task done or not done. completedAt lets an
// undo restore the original completion timestamp; pass nil to use the
// current time when completing.
func (db *DB) SetTaskCompletion(id string, completed bool, completedAt *time.Time) error {
	var at any
	if completed {
		ts := time.Now()
		if completedAt != nil {
			ts = *completedAt
		}
		at = ts.Format(time.RFC3339)
	}

	res, err := db.Exec(
		`UPDATE tasks SET completed = ?, completed_at = ?, revision = revision + 1, updated_at = ? WHERE id = ?`,
		completed, at, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task completion: %w", err)
	}
	return requireRow(res, id)
}

// SetTaskImportant toggles the important flag.
func (db *DB) SetTaskImportant(id string, important bool) error {
	res, err := db.Exec(
		`UPDATE tasks SET important = ?, revision = revision + 1, updated_at = ? WHERE id = ?`,
		important, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res, id)
}

// SetTaskPinned toggles the pinned flag.
func (db *DB) SetTaskPinned(id string, pinned bool) error {
	res, err := db.Exec(
		`UPDATE tasks SET pinned = ?, revision = revision + 1, updated_at = ? WHERE id = ?`,
		pinned, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res, id)
}

// UpdateTaskDetails saves the editable fields of a task, including its
// assignee set.
func (db *DB) UpdateTaskDetails(task *model.Task) error {
	if _, err := model.ParseTimeFrame(string(task.TimeFrame)); err != nil {
		return err
	}

	return db.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE tasks SET name = ?, memo = ?, project_id = ?, time_frame = ?,
				due_date = ?, due_time = ?, revision = revision + 1, updated_at = ?
			 WHERE id = ?`,
			task.Name, task.Memo, task.ProjectID, task.TimeFrame,
			nullDate(task.DueDate), nullString(task.DueTime), time.Now(), task.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if err := requireRow(res, task.ID); err != nil {
			return err
		}
		return setAssigneesTx(tx, task.ID, task.Assignees)
	})
}

// UpdateTaskReview saves the retrospective note written from the report.
func (db *DB) UpdateTaskReview(id, resultMemo string) error {
	res, err := db.Exec(
		`UPDATE tasks SET result_memo = ?, updated_at = ? WHERE id = ?`,
		resultMemo, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res, id)
}

// DeleteTask removes a task. Assignee rows go with it via the cascade.
func (db *DB) DeleteTask(id string) error {
	res, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(res, id)
}

// ReorderTasks applies a reconciliation batch atomically. Every update
// is guarded by the revision the batch was computed against; if any
// row has been modified since, the whole batch rolls back with
// ErrStaleRevision and nothing is written.
func (db *DB) ReorderTasks(ops []board.Op) error {
	if len(ops) == 0 {
		return nil
	}

	now := time.Now()
	return db.Transaction(func(tx *sql.Tx) error {
		for _, op := range ops {
			var res sql.Result
			var err error
			if op.SetFrame {
				res, err = tx.Exec(
					`UPDATE tasks SET sort_order = ?, time_frame = ?, revision = revision + 1, updated_at = ?
					 WHERE id = ? AND revision = ?`,
					op.SortOrder, op.TimeFrame, now, op.TaskID, op.BaseRevision,
				)
			} else {
				res, err = tx.Exec(
					`UPDATE tasks SET sort_order = ?, revision = revision + 1, updated_at = ?
					 WHERE id = ? AND revision = ?`,
					op.SortOrder, now, op.TaskID, op.BaseRevision,
				)
			}
			if err != nil {
				return fmt.Errorf("failed to reorder task %s: %w", op.TaskID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("reorder task %s: %w", op.TaskID, ErrStaleRevision)
			}
		}
		return nil
	})
}

// CompactSortOrders rewrites each bucket's incomplete tasks to dense
// 0..n-1 sort orders. Cross-bucket moves and completions leave gaps;
// the periodic sweep calls this to close them.
func (db *DB) CompactSortOrders(teamID string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		for _, frame := range model.Frames {
			rows, err := tx.Query(
				`SELECT id, sort_order FROM tasks
				 WHERE team_id = ? AND time_frame = ? AND completed = 0
				 ORDER BY sort_order ASC, created_at ASC`,
				teamID, frame,
			)
			if err != nil {
				return err
			}

			type slot struct {
				id    string
				order int
			}
			var slots []slot
			for rows.Next() {
				var s slot
				if err := rows.Scan(&s.id, &s.order); err != nil {
					rows.Close()
					return err
				}
				slots = append(slots, s)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()

			for i, s := range slots {
				if s.order == i {
					continue
				}
				if _, err := tx.Exec(`UPDATE tasks SET sort_order = ? WHERE id = ?`, i, s.id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// setAssigneesTx replaces a task's assignee set.
func setAssigneesTx(tx *sql.Tx, taskID string, memberIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	for _, memberID := range memberIDs {
		_, err := tx.Exec(
			`INSERT INTO task_assignees (task_id, member_id) VALUES (?, ?)`,
			taskID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to assign member %s: %w", memberID, err)
		}
	}
	return nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

func nullDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dateFormat)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
