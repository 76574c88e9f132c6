// Package board implements the task scheduling and ordering engine:
// warning-status derivation, per-frame grouping with the pinned >
// important > sort-order invariant, reorder reconciliation, and the
// bounded undo stack for completion toggles. Everything here is pure;
// persistence is the caller's problem.
package board

import (
	"sort"

	"github.com/hanae/stayfocus/internal/model"
)

// Group partitions tasks into the five time-frame buckets and sorts
// each bucket by pinned first, then important, then sort order. The
// returned map always contains all five frames, and holds fresh
// slices that do not alias the input.
func Group(tasks []model.Task) map[model.TimeFrame][]model.Task {
	buckets := make(map[model.TimeFrame][]model.Task, len(model.Frames))
	for _, frame := range model.Frames {
		buckets[frame] = []model.Task{}
	}

	for _, t := range tasks {
		if _, ok := buckets[t.TimeFrame]; !ok {
			// Frames are validated at the storage boundary, so this
			// only trips on hand-built tasks with a zero frame.
			continue
		}
		buckets[t.TimeFrame] = append(buckets[t.TimeFrame], t)
	}

	for frame := range buckets {
		sortBucket(buckets[frame])
	}

	return buckets
}

// sortBucket orders a bucket in place: pinned first, then important,
// then ascending sort order. The sort is stable so equal keys keep
// their incoming relative order.
func sortBucket(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Important != b.Important {
			return a.Important
		}
		return a.SortOrder < b.SortOrder
	})
}
