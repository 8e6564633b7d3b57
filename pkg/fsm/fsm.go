// Package fsm implements KnitFSM (spec.md §4.6, §5): the single
// polling loop that drives one knit job from initial handshake to
// completion, turning inbound protocol messages into outbound
// confirmations and ProgressSink updates.
package fsm

import (
	"context"
	"fmt"

	"github.com/blang/semver"

	"github.com/Fepozopo/ayabknit/pkg/ayab"
	"github.com/Fepozopo/ayabknit/pkg/encoder"
	"github.com/Fepozopo/ayabknit/pkg/geometry"
	"github.com/Fepozopo/ayabknit/pkg/knitmode"
	"github.com/Fepozopo/ayabknit/pkg/pattern"
	"github.com/Fepozopo/ayabknit/pkg/planner"
	"github.com/Fepozopo/ayabknit/pkg/progress"
	"github.com/Fepozopo/ayabknit/pkg/protocol"
	"github.com/Fepozopo/ayabknit/pkg/serialport"
)

// State is one of the six states spec.md §4.6 names.
type State int

const (
	StateSetup State = iota
	StateInit
	StateWaitForInit
	StateStart
	StateOperate
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "Setup"
	case StateInit:
		return "Init"
	case StateWaitForInit:
		return "WaitForInit"
	case StateStart:
		return "Start"
	case StateOperate:
		return "Operate"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// MaxInitRetries bounds how many reqInfo attempts the FSM makes before
// giving up on a controller that never answers. Not named in spec.md's
// distillation; carried over from the original host's retry budget
// (an original_source/ supplement) since a single unanswered probe is
// too easily a timing fluke to fail the whole job on.
const MaxInitRetries = 5

// SupportedAPI is the exact controller API version this engine knows
// how to drive. spec.md §4.6 requires an exact match, not a minimum
// bound: any other value is WrongApi regardless of firmware.
const SupportedAPI = 5

// FSM drives one knit job end to end. Construct one per job; it is
// not reusable across jobs.
type FSM struct {
	machine ayab.Machine
	config  ayab.Config
	mode    knitmode.KnittingMode
	pat     *pattern.PatternBuffer
	geo     geometry.Geometry
	link    serialport.Link
	sink    progress.Sink

	state       State
	lineBlock   uint64
	lastWire    uint8
	haveWire    bool
	initRetries int
	lastDir     progress.Direction
	lastPos     uint8
	havePos     bool
}

// New builds an FSM ready to run. pat and geo must already reflect
// cfg's num_colors, alignment, and knit window (spec.md §9: rebuild
// rather than mutate when those change).
func New(m ayab.Machine, cfg ayab.Config, mode knitmode.KnittingMode, pat *pattern.PatternBuffer, geo geometry.Geometry, link serialport.Link, sink progress.Sink) *FSM {
	return &FSM{
		machine: m,
		config:  cfg,
		mode:    mode,
		pat:     pat,
		geo:     geo,
		link:    link,
		sink:    sink,
		state:   StateSetup,
	}
}

// State reports the FSM's current state, for tests and diagnostics.
func (f *FSM) State() State {
	return f.state
}

// Run polls the link until the job reaches StateFinished or ctx is
// cancelled. It is the single goroutine spec.md §5 says owns the
// whole job; nothing else may write to link or sink concurrently.
func (f *FSM) Run(ctx context.Context) error {
	f.state = StateSetup
	for f.state != StateFinished {
		select {
		case <-ctx.Done():
			f.sink.Finished(false, "cancelled")
			return ctx.Err()
		default:
		}

		var err error
		switch f.state {
		case StateSetup:
			err = f.stepSetup()
		case StateInit:
			err = f.stepInit()
		case StateWaitForInit:
			err = f.stepWaitForInit()
		case StateStart:
			err = f.stepStart()
		case StateOperate:
			err = f.stepOperate()
		}
		if err != nil {
			f.sink.Notify(err.Error())
			f.sink.PlaySound(progress.SoundAlert)
			f.sink.Finished(false, err.Error())
			return err
		}
	}
	f.sink.Finished(true, "knit job complete")
	return nil
}

func (f *FSM) stepSetup() error {
	f.sink.UpdateStatus("connecting")
	f.state = StateInit
	return nil
}

func (f *FSM) stepInit() error {
	if f.initRetries >= MaxInitRetries {
		return ayab.NewError(ayab.SerialIO, nil, "fsm: no response to reqInfo after %d attempts", MaxInitRetries)
	}
	f.initRetries++
	if _, err := f.link.Write(protocol.ReqInfo()); err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: write reqInfo")
	}

	raw, err := f.readWithin()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil // retry on next Run iteration
	}
	in, err := protocol.Decode(raw)
	if err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: decode reqInfo reply")
	}
	if in.CnfInfo == nil {
		return nil
	}
	fw := semver.Version{Major: uint64(in.CnfInfo.FwMajor), Minor: uint64(in.CnfInfo.FwMinor)}
	f.sink.UpdateStatus(fmt.Sprintf("firmware %s, api %d", fw.String(), in.CnfInfo.Api))
	if in.CnfInfo.Api != SupportedAPI {
		return ayab.NewError(ayab.WrongApi, nil, "fsm: controller api %d does not match supported api %d", in.CnfInfo.Api, SupportedAPI)
	}
	f.state = StateWaitForInit
	return nil
}

func (f *FSM) stepWaitForInit() error {
	raw, err := f.readWithin()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	in, err := protocol.Decode(raw)
	if err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: decode during WaitForInit")
	}
	if in.IndState != nil {
		f.observeIndState(*in.IndState)
		if in.IndState.Ready {
			f.state = StateStart
		}
	}
	return nil
}

func (f *FSM) stepStart() error {
	msg := protocol.ReqStart(uint8(f.config.KnitStartNeedle), uint8(f.config.KnitStopNeedle), f.config.ContinuousReporting)
	if _, err := f.link.Write(msg); err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: write reqStart")
	}
	raw, err := f.readWithin()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	in, err := protocol.Decode(raw)
	if err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: decode cnfStart")
	}
	if in.CnfStart == nil {
		return nil
	}
	if !in.CnfStart.Ok {
		return ayab.NewError(ayab.DeviceNotReady, nil, "fsm: controller rejected reqStart")
	}
	f.sink.UpdateStatus("operating")
	f.sink.PlaySound(progress.SoundStart)
	f.state = StateOperate
	return nil
}

func (f *FSM) stepOperate() error {
	raw, err := f.readWithin()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	in, err := protocol.Decode(raw)
	if err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: decode during Operate")
	}

	switch {
	case in.IndState != nil:
		f.observeIndState(*in.IndState)
	case in.ReqLine != nil:
		return f.serveLine(*in.ReqLine)
	}
	return nil
}

// serveLine answers one reqLine: resolve the wire line number to a
// logical line via lineBlock, plan it, encode it, and send cnfLine.
func (f *FSM) serveLine(req protocol.ReqLine) error {
	logical := f.resolveLineNumber(req.LineNumber)

	plan, err := planner.Plan(f.mode, planner.Params{
		LineNumber:  logical,
		NumColors:   f.config.NumColors,
		StartRow:    f.config.StartRow,
		ImgHeight:   f.pat.Height,
		ExpandedLen: f.pat.ExpandedLen(),
		InfRepeat:   f.config.InfRepeat,
	})
	if err != nil {
		return err
	}

	frame, err := encoder.Encode(f.machine, f.mode, f.pat, f.geo, plan)
	if err != nil {
		return err
	}

	flags := protocol.CnfLineFlags{
		LastLine: plan.Last && !f.config.InfRepeat,
		Blank:    plan.Blank,
		Color:    plan.Color,
	}
	out := protocol.CnfLine(req.LineNumber, [encoder.FrameBytes]byte(frame), flags)
	if _, err := f.link.Write(out); err != nil {
		return ayab.NewError(ayab.SerialIO, err, "fsm: write cnfLine")
	}

	f.sink.UpdateColor(progress.ColorLetter(plan.Color), plan.Color)
	total := 0
	if !f.config.InfRepeat {
		total = f.pat.Height
	}
	f.sink.UpdateProgress(progress.Update{
		Line:      logical,
		TotalRows: total,
		ImgRow:    plan.ImgRow,
		Color:     plan.Color,
		Direction: f.lastDir,
	})

	if flags.LastLine {
		f.sink.PlaySound(progress.SoundFinished)
		f.state = StateFinished
	}
	return nil
}

// resolveLineNumber turns the 8-bit wire line number into a monotonic
// logical line count, incrementing lineBlock exactly on the wrap spec.md
// §4.6 names: former_request == 255 and the new request == 0.
func (f *FSM) resolveLineNumber(wire uint8) uint64 {
	if f.haveWire && f.lastWire == 255 && wire == 0 {
		f.lineBlock++
	}
	f.lastWire = wire
	f.haveWire = true
	return f.lineBlock*256 + uint64(wire)
}

func (f *FSM) observeIndState(s protocol.IndState) {
	if f.havePos {
		f.lastDir = progress.DeriveDirection(f.lastPos, s.CarriagePos, f.lastDir)
	}
	f.lastPos = s.CarriagePos
	f.havePos = true
}

// readWithin reads one message, translating a transport error into a
// KnitError. A nil, nil result means "nothing arrived yet" and is not
// an error. The read deadline itself lives in the serial port config.
func (f *FSM) readWithin() ([]byte, error) {
	raw, err := f.link.ReadMessage()
	if err != nil {
		return nil, ayab.NewError(ayab.SerialIO, err, "fsm: read")
	}
	return raw, nil
}
