package board

import (
	"reflect"
	"testing"

	"github.com/hanae/stayfocus/internal/model"
)

func bucketOf(tasks []model.Task, frame model.TimeFrame) []model.Task {
	return Group(tasks)[frame]
}

func fiveToday() []model.Task {
	return []model.Task{
		task("t0", model.FrameToday, 0),
		task("t1", model.FrameToday, 1),
		task("t2", model.FrameToday, 2),
		task("t3", model.FrameToday, 3),
		task("t4", model.FrameToday, 4),
	}
}

func TestReconcileIntraBucketMoveToFront(t *testing.T) {
	tasks := fiveToday()

	res := Reconcile(tasks, "t2", "t0")

	got := ids(bucketOf(res.Tasks, model.FrameToday))
	want := []string{"t2", "t0", "t1", "t3", "t4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bucket after move = %v, want %v", got, want)
	}

	// Dense 0..n-1 re-index with one op per task in the bucket.
	if len(res.Ops) != 5 {
		t.Fatalf("got %d ops, want 5", len(res.Ops))
	}
	orders := make(map[string]int)
	for _, op := range res.Ops {
		if op.SetFrame {
			t.Errorf("intra-bucket op for %s must not set the frame", op.TaskID)
		}
		orders[op.TaskID] = op.SortOrder
	}
	for i, id := range want {
		if orders[id] != i {
			t.Errorf("op order for %s = %d, want %d", id, orders[id], i)
		}
	}
}

func TestReconcileIntraBucketMoveDown(t *testing.T) {
	tasks := fiveToday()

	res := Reconcile(tasks, "t1", "t3")

	got := ids(bucketOf(res.Tasks, model.FrameToday))
	want := []string{"t0", "t2", "t3", "t1", "t4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bucket after move = %v, want %v", got, want)
	}
}

func TestReconcileCrossBucketAppends(t *testing.T) {
	tasks := append(fiveToday(),
		task("w0", model.FrameThisWeek, 0),
		task("w1", model.FrameThisWeek, 1),
	)

	res := Reconcile(tasks, "t1", "w0")

	if len(res.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(res.Ops))
	}
	op := res.Ops[0]
	if op.TaskID != "t1" || !op.SetFrame || op.TimeFrame != model.FrameThisWeek {
		t.Fatalf("unexpected op %+v", op)
	}
	if op.SortOrder != 2 {
		t.Errorf("sort order = %d, want pre-move target length 2", op.SortOrder)
	}

	week := bucketOf(res.Tasks, model.FrameThisWeek)
	if got := ids(week); !reflect.DeepEqual(got, []string{"w0", "w1", "t1"}) {
		t.Errorf("target bucket = %v, want moved task appended", got)
	}

	// Source keeps relative order; no duplicate sort orders introduced.
	today := bucketOf(res.Tasks, model.FrameToday)
	if got := ids(today); !reflect.DeepEqual(got, []string{"t0", "t2", "t3", "t4"}) {
		t.Errorf("source bucket = %v", got)
	}
	seen := make(map[int]bool)
	for _, task := range today {
		if seen[task.SortOrder] {
			t.Errorf("duplicate sort order %d in source bucket", task.SortOrder)
		}
		seen[task.SortOrder] = true
	}
}

func TestReconcileDropOnBucketName(t *testing.T) {
	tasks := append(fiveToday(), task("l0", model.FrameLater, 0))

	res := Reconcile(tasks, "t0", string(model.FrameLater))

	if len(res.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(res.Ops))
	}
	later := bucketOf(res.Tasks, model.FrameLater)
	if got := ids(later); !reflect.DeepEqual(got, []string{"l0", "t0"}) {
		t.Errorf("later bucket = %v", got)
	}
}

func TestReconcileDropOnOwnBucketStaysDense(t *testing.T) {
	tasks := fiveToday()

	// Dropping a task on its own bucket moves it to the end and
	// re-indexes the bucket, so orders stay 0..n-1 without collisions.
	res := Reconcile(tasks, "t1", string(model.FrameToday))

	got := ids(bucketOf(res.Tasks, model.FrameToday))
	want := []string{"t0", "t2", "t3", "t4", "t1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bucket after drop = %v, want %v", got, want)
	}

	orders := make(map[int]string)
	for _, op := range res.Ops {
		if op.SetFrame {
			t.Errorf("op for %s must not set the frame", op.TaskID)
		}
		if prev, dup := orders[op.SortOrder]; dup {
			t.Errorf("order %d assigned to both %s and %s", op.SortOrder, prev, op.TaskID)
		}
		orders[op.SortOrder] = op.TaskID
	}
	if orders[4] != "t1" {
		t.Errorf("dense end holds %s, want t1", orders[4])
	}

	// Dropping the last task on its own bucket changes nothing.
	if res := Reconcile(tasks, "t4", string(model.FrameToday)); len(res.Ops) != 0 {
		t.Errorf("last task got %d ops, want 0", len(res.Ops))
	}
}

func TestReconcileNoOps(t *testing.T) {
	tasks := fiveToday()

	cases := []struct {
		name     string
		activeID string
		targetID string
	}{
		{"drop on itself", "t2", "t2"},
		{"unknown active", "nope", "t0"},
		{"unknown target", "t0", "nope"},
	}

	for _, tc := range cases {
		res := Reconcile(tasks, tc.activeID, tc.targetID)
		if len(res.Ops) != 0 {
			t.Errorf("%s: got %d ops, want 0", tc.name, len(res.Ops))
		}
		if !reflect.DeepEqual(ids(res.Tasks), ids(tasks)) {
			t.Errorf("%s: task set changed", tc.name)
		}
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	tasks := fiveToday()
	Reconcile(tasks, "t2", "t0")
	for i, task := range tasks {
		if task.SortOrder != i {
			t.Fatalf("input tasks mutated: %s has order %d", task.ID, task.SortOrder)
		}
	}
}

func TestReconcileCarriesBaseRevisions(t *testing.T) {
	tasks := fiveToday()
	for i := range tasks {
		tasks[i].Revision = int64(10 + i)
	}

	res := Reconcile(tasks, "t2", "t0")
	for _, op := range res.Ops {
		orig, _ := findTask(tasks, op.TaskID)
		if op.BaseRevision != orig.Revision {
			t.Errorf("op for %s carries revision %d, want %d",
				op.TaskID, op.BaseRevision, orig.Revision)
		}
	}
}

func TestReconcileRespectsPinnedOrdering(t *testing.T) {
	// The visible order within a bucket puts pinned tasks first; a
	// move targets positions in that visible order.
	tasks := []model.Task{
		{ID: "p", TimeFrame: model.FrameToday, SortOrder: 2, Pinned: true},
		task("a", model.FrameToday, 0),
		task("b", model.FrameToday, 1),
	}

	res := Reconcile(tasks, "b", "a")

	got := ids(bucketOf(res.Tasks, model.FrameToday))
	if !reflect.DeepEqual(got, []string{"p", "b", "a"}) {
		t.Errorf("bucket = %v, want pinned first then swapped pair", got)
	}
}
