// Package progress implements ProgressSink (spec.md §6): the
// one-way channel KnitFSM uses to tell a UI what's happening, without
// ever blocking on a slow or absent listener.
//
// Progress events (row/pass counters) are allowed to drop under
// backpressure — only the newest one matters to a human watching a
// number climb. Notifications and the final completion event are
// never dropped (spec.md §5): a UI that misses "out of yarn" or never
// learns the job finished has failed at its one job.
package progress

import "sync"

// SoundEvent names the audible cues the original AYAB host plays;
// supplemented from original_source/ since spec.md's distillation
// dropped them, but they cost nothing to carry through the sink.
type SoundEvent int

const (
	SoundNone SoundEvent = iota
	SoundStart
	SoundFinished
	SoundAlert
)

// Direction mirrors the carriage's direction of travel, derived from
// successive indState carriage_pos deltas (an original_source/
// supplement: spec.md itself never names carriage direction).
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionLeftToRight
	DirectionRightToLeft
)

// Update is one progress snapshot: current pass, total image rows (0
// if unknown, e.g. infinite repeat), current image row, and the
// carriage's last-known direction.
type Update struct {
	Line      uint64
	TotalRows int
	ImgRow    uint32
	Color     uint8
	Direction Direction
}

// Sink is the interface KnitFSM drives. Implementations must never
// block the caller.
type Sink interface {
	UpdateProgress(u Update)
	UpdateColor(letter rune, color uint8)
	UpdateStatus(text string)
	Notify(text string)
	PlaySound(ev SoundEvent)
	Finished(ok bool, reason string)
}

// ColorLetter maps a 0-based color index to the A, B, C, ... labels
// the original host prints next to each color's swatch (an
// original_source/ supplement).
func ColorLetter(color uint8) rune {
	return rune('A' + int(color))
}

// BoundedSink is a Sink with a bounded progress-update queue: the
// newest Update always wins over a slow consumer, while color/status/
// notify/sound events queue without limit and are never dropped. The
// finished event is held in a single slot until the next Drain.
//
// Drain hands the events over; call it from exactly one goroutine.
type BoundedSink struct {
	mu       sync.Mutex
	cond     *sync.Cond
	progress *Update // last-writer-wins slot; nil when empty
	colors   []colorEvent
	statuses []string
	notices  []string
	sounds   []SoundEvent
	done     *doneEvent
	closed   bool
}

type colorEvent struct {
	letter rune
	color  uint8
}

type doneEvent struct {
	ok     bool
	reason string
}

// NewBoundedSink constructs an empty sink.
func NewBoundedSink() *BoundedSink {
	s := &BoundedSink{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *BoundedSink) UpdateProgress(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.progress = &cp
	s.cond.Broadcast()
}

func (s *BoundedSink) UpdateColor(letter rune, color uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors = append(s.colors, colorEvent{letter: letter, color: color})
	s.cond.Broadcast()
}

func (s *BoundedSink) UpdateStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, text)
	s.cond.Broadcast()
}

func (s *BoundedSink) Notify(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, text)
	s.cond.Broadcast()
}

func (s *BoundedSink) PlaySound(ev SoundEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, ev)
	s.cond.Broadcast()
}

func (s *BoundedSink) Finished(ok bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = &doneEvent{ok: ok, reason: reason}
	s.closed = true
	s.cond.Broadcast()
}

// Event is one item yielded by Drain, with exactly one field set.
type Event struct {
	Progress *Update
	Color    *colorEventPublic
	Status   *string
	Notice   *string
	Sound    *SoundEvent
	Done     *DoneEvent
}

// colorEventPublic mirrors colorEvent for exported consumption.
type colorEventPublic struct {
	Letter rune
	Color  uint8
}

// DoneEvent mirrors doneEvent for exported consumption.
type DoneEvent struct {
	Ok     bool
	Reason string
}

// Drain pops every pending event category by category, in FIFO order
// within each (colors, then statuses, notices, sounds; events are not
// interleaved across categories), then the progress snapshot (if
// any changed since the last Drain), then the done event if the sink
// has been closed. It never blocks.
func (s *BoundedSink) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for _, c := range s.colors {
		cc := c
		out = append(out, Event{Color: &colorEventPublic{Letter: cc.letter, Color: cc.color}})
	}
	s.colors = nil

	for _, st := range s.statuses {
		stc := st
		out = append(out, Event{Status: &stc})
	}
	s.statuses = nil

	for _, n := range s.notices {
		nc := n
		out = append(out, Event{Notice: &nc})
	}
	s.notices = nil

	for _, sd := range s.sounds {
		sdc := sd
		out = append(out, Event{Sound: &sdc})
	}
	s.sounds = nil

	if s.progress != nil {
		p := *s.progress
		out = append(out, Event{Progress: &p})
		s.progress = nil
	}

	if s.done != nil {
		out = append(out, Event{Done: &DoneEvent{Ok: s.done.ok, Reason: s.done.reason}})
		s.done = nil
	}

	return out
}

// DeriveDirection computes carriage travel direction from two
// successive carriage_pos readings. A zero delta keeps the prior
// direction rather than claiming
// "unknown", since a stalled carriage still has a last heading.
func DeriveDirection(prev, cur uint8, fallback Direction) Direction {
	switch {
	case cur > prev:
		return DirectionLeftToRight
	case cur < prev:
		return DirectionRightToLeft
	default:
		return fallback
	}
}
