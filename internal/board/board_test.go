package board

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/hanae/stayfocus/internal/model"
)

func task(id string, frame model.TimeFrame, order int) model.Task {
	return model.Task{ID: id, TimeFrame: frame, SortOrder: order}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestGroupPartitionsWithoutLoss(t *testing.T) {
	var tasks []model.Task
	for i, frame := range model.Frames {
		for j := 0; j < i+1; j++ {
			tasks = append(tasks, task(fmt.Sprintf("%s-%d", frame, j), frame, j))
		}
	}

	buckets := Group(tasks)

	if len(buckets) != len(model.Frames) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(model.Frames))
	}

	total := 0
	seen := make(map[string]bool)
	for frame, bucket := range buckets {
		total += len(bucket)
		for _, bt := range bucket {
			if bt.TimeFrame != frame {
				t.Errorf("task %s in bucket %s has frame %s", bt.ID, frame, bt.TimeFrame)
			}
			if seen[bt.ID] {
				t.Errorf("task %s appears in more than one bucket", bt.ID)
			}
			seen[bt.ID] = true
		}
	}
	if total != len(tasks) {
		t.Errorf("bucket sizes sum to %d, want %d", total, len(tasks))
	}
}

func TestGroupOrderingInvariant(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", TimeFrame: model.FrameToday, SortOrder: 3},
		{ID: "b", TimeFrame: model.FrameToday, SortOrder: 0, Important: true},
		{ID: "c", TimeFrame: model.FrameToday, SortOrder: 1},
		{ID: "d", TimeFrame: model.FrameToday, SortOrder: 2, Pinned: true},
		{ID: "e", TimeFrame: model.FrameToday, SortOrder: 0, Pinned: true, Important: true},
	}

	bucket := Group(tasks)[model.FrameToday]

	for i := 0; i < len(bucket)-1; i++ {
		a, b := bucket[i], bucket[i+1]
		switch {
		case !a.Pinned && b.Pinned:
			t.Errorf("pinned task %s sorted after unpinned %s", b.ID, a.ID)
		case a.Pinned == b.Pinned && !a.Important && b.Important:
			t.Errorf("important task %s sorted after %s", b.ID, a.ID)
		case a.Pinned == b.Pinned && a.Important == b.Important && a.SortOrder > b.SortOrder:
			t.Errorf("sort order inverted between %s and %s", a.ID, b.ID)
		}
	}

	// pinned+important, pinned, important, then plain by sort order
	got := ids(bucket)
	if !reflect.DeepEqual(got, []string{"e", "d", "b", "c", "a"}) {
		t.Errorf("bucket order = %v", got)
	}
}

func TestGroupEmptyBucketsPresent(t *testing.T) {
	buckets := Group(nil)
	for _, frame := range model.Frames {
		if _, ok := buckets[frame]; !ok {
			t.Errorf("frame %s missing from empty grouping", frame)
		}
	}
}

func TestGroupIdempotent(t *testing.T) {
	tasks := []model.Task{
		task("a", model.FrameToday, 1),
		task("b", model.FrameToday, 0),
		task("c", model.FrameLater, 0),
	}

	first := Group(tasks)
	second := Group(tasks)

	for _, frame := range model.Frames {
		if !reflect.DeepEqual(ids(first[frame]), ids(second[frame])) {
			t.Errorf("frame %s: %v != %v", frame, ids(first[frame]), ids(second[frame]))
		}
	}
}

func TestGroupDoesNotAliasInput(t *testing.T) {
	tasks := []model.Task{
		task("a", model.FrameToday, 0),
		task("b", model.FrameToday, 1),
	}
	bucket := Group(tasks)[model.FrameToday]
	bucket[0].Name = "mutated"
	if tasks[0].Name == "mutated" || tasks[1].Name == "mutated" {
		t.Error("grouping aliases the caller's tasks")
	}
}

func TestGroupSortIsStable(t *testing.T) {
	// Equal keys keep their incoming relative order.
	tasks := []model.Task{
		task("x", model.FrameToday, 1),
		task("y", model.FrameToday, 1),
		task("z", model.FrameToday, 0),
	}
	got := ids(Group(tasks)[model.FrameToday])
	if !reflect.DeepEqual(got, []string{"z", "x", "y"}) {
		t.Errorf("bucket order = %v, want [z x y]", got)
	}
}
