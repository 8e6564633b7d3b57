// Package serialport wraps the serial transport named in spec.md §6:
// 115200 baud, 8N1, substituting an in-memory mock when the
// configured port is "Simulation".
package serialport

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// ReadTimeout is the typical 1000ms bound named in spec.md §5 for the
// non-blocking-from-the-FSM's-perspective serial read.
const ReadTimeout = 1000 * time.Millisecond

// Link is the minimal serial contract KnitFSM needs: write a frame,
// read the next one. Write sends the bytes it is given as they are;
// ReadMessage hands back one already-delimited inbound message.
type Link interface {
	Write(p []byte) (int, error)
	// ReadMessage blocks up to ReadTimeout for the next
	// newline-delimited frame, returning its bytes without the
	// delimiter. A timeout returns (nil, nil): not an error, just
	// "nothing yet".
	ReadMessage() ([]byte, error)
	Close() error
}

// hardwareLink is a Link backed by github.com/tarm/serial, the only
// serial-port library in the reference pack (grounded on
// seedhammer-seedhammer's stepper driver).
type hardwareLink struct {
	port   *serial.Port
	reader *lineReader
}

// Open connects to name at 115200 8N1. The caller owns the returned
// Link for the lifetime of one knit job (spec.md §5).
func Open(name string) (Link, error) {
	if name == "Simulation" {
		return NewSimulation(), nil
	}
	cfg := &serial.Config{
		Name:        name,
		Baud:        115200,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: ReadTimeout,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &hardwareLink{port: port, reader: newLineReader(port)}, nil
}

func (h *hardwareLink) Write(p []byte) (int, error) {
	return h.port.Write(p)
}

func (h *hardwareLink) ReadMessage() ([]byte, error) {
	return h.reader.ReadMessage()
}

func (h *hardwareLink) Close() error {
	return h.port.Close()
}

// lineReader accumulates bytes from an io.Reader and splits them on
// '\n', mirroring the "newline-terminated SLIP-like frames" spec.md
// §4.5 says the reference implementation uses.
type lineReader struct {
	r   interface{ Read([]byte) (int, error) }
	buf bytes.Buffer
	tmp [256]byte
}

func newLineReader(r interface{ Read([]byte) (int, error) }) *lineReader {
	return &lineReader{r: r}
}

func (l *lineReader) ReadMessage() ([]byte, error) {
	if idx := bytes.IndexByte(l.buf.Bytes(), '\n'); idx >= 0 {
		data := make([]byte, idx)
		copy(data, l.buf.Bytes()[:idx])
		l.buf.Next(idx + 1)
		return data, nil
	}
	n, err := l.r.Read(l.tmp[:])
	if n > 0 {
		l.buf.Write(l.tmp[:n])
	}
	if err != nil {
		if errors.Is(err, errTimeout) {
			return nil, nil
		}
		return nil, err
	}
	if idx := bytes.IndexByte(l.buf.Bytes(), '\n'); idx >= 0 {
		data := make([]byte, idx)
		copy(data, l.buf.Bytes()[:idx])
		l.buf.Next(idx + 1)
		return data, nil
	}
	return nil, nil
}

var errTimeout = errors.New("serialport: read timeout")

// Simulation is the in-memory mock link of spec.md §6, substituted
// whenever the configured port name is "Simulation". It lets tests
// drive the full protocol/FSM without real hardware by feeding it
// controller messages. Nothing answers on its own: a link that is
// never fed (as in the CLI, which only opens it) delivers no messages.
type Simulation struct {
	mu       sync.Mutex
	inbound  [][]byte
	outbound [][]byte
}

func NewSimulation() *Simulation {
	return &Simulation{}
}

func (s *Simulation) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	s.outbound = append(s.outbound, cp)
	return len(p), nil
}

func (s *Simulation) ReadMessage() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inbound) == 0 {
		return nil, nil
	}
	msg := s.inbound[0]
	s.inbound = s.inbound[1:]
	return msg, nil
}

func (s *Simulation) Close() error {
	return nil
}

// Feed queues a message for the next ReadMessage call, simulating a
// controller response. Only tests call it; the CLI does not.
func (s *Simulation) Feed(msg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbound = append(s.inbound, msg)
}

// Written returns every frame written so far, for test assertions.
func (s *Simulation) Written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.outbound))
	copy(out, s.outbound)
	return out
}
