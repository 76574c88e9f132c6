package board

import (
	"github.com/hanae/stayfocus/internal/model"
)

// Op is a single persistence update produced by a reconciliation.
// BaseRevision is the revision the in-memory task had when the op was
// computed; the store rejects the whole batch if any row has moved on
// since (see db.ReorderTasks).
type Op struct {
	TaskID       string
	SortOrder    int
	TimeFrame    model.TimeFrame
	SetFrame     bool
	BaseRevision int64
}

// Result is the outcome of a reconciliation: the full task set with
// the move applied, plus the minimal op batch needed to make storage
// match. An empty Ops slice means the move was a no-op.
type Result struct {
	Tasks []model.Task
	Ops   []Op
}

// Reconcile applies a drop of the task activeID onto targetID and
// computes the updates needed to persist it. targetID is either
// another task's ID or a frame name ("today", "later", ...), the
// latter meaning the task was dropped on a bucket itself.
//
// Within a bucket the active task is moved to the target's position
// and the whole bucket is re-indexed densely (one op per task in the
// bucket). Across buckets the task is appended to the end of the
// target bucket (a single op); a drop on the task's own bucket moves
// it to that bucket's end. Dropping a task on itself, or an
// unresolvable active or target, leaves everything unchanged.
func Reconcile(tasks []model.Task, activeID, targetID string) Result {
	noop := Result{Tasks: copyTasks(tasks)}

	active, ok := findTask(tasks, activeID)
	if !ok {
		return noop
	}

	targetFrame, droppedOnBucket := resolveTarget(tasks, targetID)
	if targetFrame == "" {
		return noop
	}

	if targetFrame == active.TimeFrame {
		if droppedOnBucket {
			// Dropped on its own bucket: move to the end, keeping the
			// bucket densely indexed.
			bucket := Group(tasks)[targetFrame]
			last := bucket[len(bucket)-1]
			if last.ID == active.ID {
				return noop
			}
			return reorderWithin(tasks, activeID, last.ID, targetFrame)
		}
		return reorderWithin(tasks, activeID, targetID, targetFrame)
	}
	return moveAcross(tasks, active, targetFrame)
}

// resolveTarget maps a drop target to a frame. The bool reports
// whether the drop landed on a bucket container rather than a task.
func resolveTarget(tasks []model.Task, targetID string) (model.TimeFrame, bool) {
	if frame, err := model.ParseTimeFrame(targetID); err == nil {
		return frame, true
	}
	if target, ok := findTask(tasks, targetID); ok {
		return target.TimeFrame, false
	}
	return "", false
}

// reorderWithin handles the intra-bucket case: remove the active task
// from its old index, insert at the target's index, re-index 0..n-1.
func reorderWithin(tasks []model.Task, activeID, targetID string, frame model.TimeFrame) Result {
	bucket := Group(tasks)[frame]

	oldIndex := indexOf(bucket, activeID)
	newIndex := indexOf(bucket, targetID)
	if oldIndex == -1 || newIndex == -1 || oldIndex == newIndex {
		return Result{Tasks: copyTasks(tasks)}
	}

	reordered := arrayMove(bucket, oldIndex, newIndex)

	orders := make(map[string]int, len(reordered))
	ops := make([]Op, 0, len(reordered))
	for i, t := range reordered {
		orders[t.ID] = i
		ops = append(ops, Op{
			TaskID:       t.ID,
			SortOrder:    i,
			BaseRevision: t.Revision,
		})
	}

	updated := copyTasks(tasks)
	for i := range updated {
		if order, ok := orders[updated[i].ID]; ok {
			updated[i].SortOrder = order
		}
	}

	return Result{Tasks: updated, Ops: ops}
}

// moveAcross handles the cross-bucket case: the task is filed under
// the target frame and appended after the bucket's current tasks. No
// fine-grained insertion position is attempted, and the source bucket
// is left with a gap rather than compacted (the periodic reconcile
// pass closes gaps).
func moveAcross(tasks []model.Task, active model.Task, frame model.TimeFrame) Result {
	newOrder := len(Group(tasks)[frame])

	updated := copyTasks(tasks)
	for i := range updated {
		if updated[i].ID == active.ID {
			updated[i].TimeFrame = frame
			updated[i].SortOrder = newOrder
		}
	}

	return Result{
		Tasks: updated,
		Ops: []Op{{
			TaskID:       active.ID,
			SortOrder:    newOrder,
			TimeFrame:    frame,
			SetFrame:     true,
			BaseRevision: active.Revision,
		}},
	}
}

// arrayMove returns a copy of tasks with the element at from moved to
// index to, displacing neighbours without gaps.
func arrayMove(tasks []model.Task, from, to int) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)

	moved := tasks[from]
	out = append(out[:to], append([]model.Task{moved}, out[to:]...)...)
	return out
}

func findTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func copyTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
