package progress

import "testing"

func TestColorLetter(t *testing.T) {
	if ColorLetter(0) != 'A' || ColorLetter(2) != 'C' {
		t.Fatalf("ColorLetter(0)=%c, ColorLetter(2)=%c", ColorLetter(0), ColorLetter(2))
	}
}

func TestDeriveDirection(t *testing.T) {
	if DeriveDirection(10, 20, DirectionUnknown) != DirectionLeftToRight {
		t.Fatal("increasing position should be left-to-right")
	}
	if DeriveDirection(20, 10, DirectionUnknown) != DirectionRightToLeft {
		t.Fatal("decreasing position should be right-to-left")
	}
	if DeriveDirection(10, 10, DirectionLeftToRight) != DirectionLeftToRight {
		t.Fatal("unchanged position should keep the prior direction")
	}
}

func TestBoundedSinkProgressIsLastWriterWins(t *testing.T) {
	s := NewBoundedSink()
	s.UpdateProgress(Update{Line: 1})
	s.UpdateProgress(Update{Line: 2})
	s.UpdateProgress(Update{Line: 3})

	events := s.Drain()
	var progressEvents []Update
	for _, e := range events {
		if e.Progress != nil {
			progressEvents = append(progressEvents, *e.Progress)
		}
	}
	if len(progressEvents) != 1 {
		t.Fatalf("expected exactly one surviving progress update, got %d", len(progressEvents))
	}
	if progressEvents[0].Line != 3 {
		t.Fatalf("surviving update has Line %d, want 3 (most recent)", progressEvents[0].Line)
	}
}

func TestBoundedSinkNotificationsAreNeverDropped(t *testing.T) {
	s := NewBoundedSink()
	s.Notify("first")
	s.Notify("second")
	s.Notify("third")

	events := s.Drain()
	var notices []string
	for _, e := range events {
		if e.Notice != nil {
			notices = append(notices, *e.Notice)
		}
	}
	if len(notices) != 3 {
		t.Fatalf("expected 3 notices, got %d: %v", len(notices), notices)
	}
}

func TestBoundedSinkFinishedIsTerminal(t *testing.T) {
	s := NewBoundedSink()
	s.UpdateStatus("working")
	s.Finished(true, "all rows knit")

	events := s.Drain()
	var done *DoneEvent
	for _, e := range events {
		if e.Done != nil {
			done = e.Done
		}
	}
	if done == nil {
		t.Fatal("expected a done event after Finished")
	}
	if !done.Ok || done.Reason != "all rows knit" {
		t.Fatalf("unexpected done event: %+v", done)
	}
}

func TestBoundedSinkDrainIsIdempotentWhenEmpty(t *testing.T) {
	s := NewBoundedSink()
	s.Notify("only")
	_ = s.Drain()
	events := s.Drain()
	if len(events) != 0 {
		t.Fatalf("second Drain() should be empty, got %v", events)
	}
}
