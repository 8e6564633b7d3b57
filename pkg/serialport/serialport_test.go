package serialport

import "testing"

func TestOpenSimulation(t *testing.T) {
	link, err := Open("Simulation")
	if err != nil {
		t.Fatalf("Open(Simulation): %v", err)
	}
	defer link.Close()
	if _, ok := link.(*Simulation); !ok {
		t.Fatalf("Open(Simulation) returned %T, want *Simulation", link)
	}
}

func TestSimulationWriteRecordsFrames(t *testing.T) {
	s := NewSimulation()
	if _, err := s.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	written := s.Written()
	if len(written) != 1 || len(written[0]) != 3 {
		t.Fatalf("Written() = %v", written)
	}
}

func TestSimulationFeedAndReadMessage(t *testing.T) {
	s := NewSimulation()
	s.Feed([]byte{0xAA, 0xBB})
	msg, err := s.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if len(msg) != 2 || msg[0] != 0xAA || msg[1] != 0xBB {
		t.Fatalf("ReadMessage() = %v", msg)
	}
}

func TestSimulationReadMessageEmptyIsNilNil(t *testing.T) {
	s := NewSimulation()
	msg, err := s.ReadMessage()
	if err != nil || msg != nil {
		t.Fatalf("ReadMessage() on empty queue = (%v, %v), want (nil, nil)", msg, err)
	}
}

func TestSimulationFeedIsFIFO(t *testing.T) {
	s := NewSimulation()
	s.Feed([]byte{1})
	s.Feed([]byte{2})
	first, _ := s.ReadMessage()
	second, _ := s.ReadMessage()
	if first[0] != 1 || second[0] != 2 {
		t.Fatalf("expected FIFO order, got %v then %v", first, second)
	}
}
