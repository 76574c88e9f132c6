package model

import (
	"testing"
	"time"
)

func TestParseTimeFrame(t *testing.T) {
	for _, frame := range Frames {
		got, err := ParseTimeFrame(string(frame))
		if err != nil {
			t.Errorf("ParseTimeFrame(%q) failed: %v", frame, err)
		}
		if got != frame {
			t.Errorf("ParseTimeFrame(%q) = %q", frame, got)
		}
	}

	for _, bad := range []string{"", "someday", "TODAY", "next week"} {
		if _, err := ParseTimeFrame(bad); err == nil {
			t.Errorf("ParseTimeFrame(%q) should be rejected", bad)
		}
	}
}

func TestLeadDays(t *testing.T) {
	want := map[TimeFrame]int{
		FrameToday:    0,
		FrameTomorrow: 1,
		FrameThisWeek: 3,
		FrameNextWeek: 5,
		FrameLater:    10,
	}
	for frame, lead := range want {
		if got := frame.LeadDays(); got != lead {
			t.Errorf("%s.LeadDays() = %d, want %d", frame, got, lead)
		}
	}
}

func TestFrameIndexOrder(t *testing.T) {
	for i, frame := range Frames {
		if frame.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", frame, frame.Index(), i)
		}
	}
	if TimeFrame("bogus").Index() != -1 {
		t.Error("unknown frame should index to -1")
	}
}

func TestDueString(t *testing.T) {
	task := Task{}
	if s := task.DueString(); s != "" {
		t.Errorf("no due date: got %q", s)
	}

	d := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	task.DueDate = &d
	if s := task.DueString(); s != "06/15" {
		t.Errorf("date only: got %q", s)
	}

	task.DueTime = "17:00"
	if s := task.DueString(); s != "06/15 17:00" {
		t.Errorf("date and time: got %q", s)
	}
}
