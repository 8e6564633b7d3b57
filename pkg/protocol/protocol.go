// Package protocol frames and parses the AYAB controller messages of
// spec.md §4.5. The wire is framing-agnostic from the engine's point
// of view (spec.md says so explicitly): this package only deals with
// already-delimited `[msg_id, payload...]` byte slices, the way a
// SLIP-like or length-prefixed transport would hand them over.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// Message IDs, spec.md §4.5.
const (
	MsgReqInfo  byte = 0x03
	MsgCnfInfo  byte = 0xC3
	MsgReqStart byte = 0x01
	MsgCnfStart byte = 0xC1
	MsgReqLine  byte = 0x82
	MsgCnfLine  byte = 0x42
	MsgIndState byte = 0x84
	MsgCnfTest  byte = 0xC4
)

// CarriageType is the carriage_type field of indState.
type CarriageType byte

const (
	CarriageUnknown CarriageType = 0
	CarriageK       CarriageType = 1
	CarriageL       CarriageType = 2
	CarriageG       CarriageType = 3
)

// CnfInfo is the cnfInfo payload: api, fw_major, fw_minor.
type CnfInfo struct {
	Api     uint8
	FwMajor uint8
	FwMinor uint8
}

// CnfStart is the cnfStart payload.
type CnfStart struct {
	Ok bool
}

// ReqLine is the reqLine payload: the 8-bit wire line number.
type ReqLine struct {
	LineNumber uint8
}

// IndState is the indState payload.
type IndState struct {
	Ready        bool
	HallL        uint16
	HallR        uint16
	CarriageType CarriageType
	CarriagePos  uint8
}

// CnfTest is the cnfTest payload.
type CnfTest struct {
	Ok bool
}

// CnfLineFlags packs the flags byte of cnfLine: bit0=last_line,
// bit1=blank, bits3..5=color.
type CnfLineFlags struct {
	LastLine bool
	Blank    bool
	Color    uint8
}

func (f CnfLineFlags) Pack() byte {
	var b byte
	if f.LastLine {
		b |= 1 << 0
	}
	if f.Blank {
		b |= 1 << 1
	}
	b |= (f.Color & 0x7) << 3
	return b
}

func UnpackCnfLineFlags(b byte) CnfLineFlags {
	return CnfLineFlags{
		LastLine: b&(1<<0) != 0,
		Blank:    b&(1<<1) != 0,
		Color:    (b >> 3) & 0x7,
	}
}

// ReqInfo encodes the reqInfo message. It carries no payload.
func ReqInfo() []byte {
	return []byte{MsgReqInfo}
}

// ParseCnfInfo decodes a cnfInfo payload (msg id already stripped).
func ParseCnfInfo(payload []byte) (CnfInfo, error) {
	if len(payload) != 3 {
		return CnfInfo{}, fmt.Errorf("protocol: cnfInfo wants 3 bytes, got %d", len(payload))
	}
	return CnfInfo{Api: payload[0], FwMajor: payload[1], FwMinor: payload[2]}, nil
}

// ReqStart encodes the reqStart message.
func ReqStart(knitStart, knitStop uint8, continuousReporting bool) []byte {
	cr := byte(0)
	if continuousReporting {
		cr = 1
	}
	return []byte{MsgReqStart, knitStart, knitStop, cr}
}

// ParseCnfStart decodes a cnfStart payload.
func ParseCnfStart(payload []byte) (CnfStart, error) {
	if len(payload) != 1 {
		return CnfStart{}, fmt.Errorf("protocol: cnfStart wants 1 byte, got %d", len(payload))
	}
	return CnfStart{Ok: payload[0] != 0}, nil
}

// ParseReqLine decodes a reqLine payload.
func ParseReqLine(payload []byte) (ReqLine, error) {
	if len(payload) != 1 {
		return ReqLine{}, fmt.Errorf("protocol: reqLine wants 1 byte, got %d", len(payload))
	}
	return ReqLine{LineNumber: payload[0]}, nil
}

// CRC8 is reserved and always 0x00 for now (spec.md §9): the wire
// format keeps the byte so a future revision can fill it in without a
// protocol break.
func CRC8(frame []byte) byte {
	return 0x00
}

// CnfLine encodes the cnfLine message: line number, 25-byte frame,
// flags, crc8.
func CnfLine(lineNumber uint8, frame [25]byte, flags CnfLineFlags) []byte {
	buf := make([]byte, 0, 1+1+25+1+1)
	buf = append(buf, MsgCnfLine, lineNumber)
	buf = append(buf, frame[:]...)
	buf = append(buf, flags.Pack())
	buf = append(buf, CRC8(frame[:]))
	return buf
}

// ParseIndState decodes an indState payload: ready, hall_l (BE),
// hall_r (BE), carriage_type, carriage_pos — 7 bytes total.
func ParseIndState(payload []byte) (IndState, error) {
	if len(payload) != 7 {
		return IndState{}, fmt.Errorf("protocol: indState wants 7 bytes, got %d", len(payload))
	}
	return IndState{
		Ready:        payload[0] != 0,
		HallL:        binary.BigEndian.Uint16(payload[1:3]),
		HallR:        binary.BigEndian.Uint16(payload[3:5]),
		CarriageType: CarriageType(payload[5]),
		CarriagePos:  payload[6],
	}, nil
}

// ParseCnfTest decodes a cnfTest payload.
func ParseCnfTest(payload []byte) (CnfTest, error) {
	if len(payload) != 1 {
		return CnfTest{}, fmt.Errorf("protocol: cnfTest wants 1 byte, got %d", len(payload))
	}
	return CnfTest{Ok: payload[0] != 0}, nil
}

// Inbound is a decoded message received from the controller, tagged
// by ID so KnitFSM can switch on it without re-parsing payloads.
type Inbound struct {
	ID       byte
	CnfInfo  *CnfInfo
	CnfStart *CnfStart
	ReqLine  *ReqLine
	IndState *IndState
	CnfTest  *CnfTest
}

// Decode parses a raw [msg_id, payload...] frame into an Inbound.
func Decode(raw []byte) (Inbound, error) {
	if len(raw) == 0 {
		return Inbound{}, fmt.Errorf("protocol: empty frame")
	}
	id := raw[0]
	payload := raw[1:]
	switch id {
	case MsgCnfInfo:
		v, err := ParseCnfInfo(payload)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{ID: id, CnfInfo: &v}, nil
	case MsgCnfStart:
		v, err := ParseCnfStart(payload)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{ID: id, CnfStart: &v}, nil
	case MsgReqLine:
		v, err := ParseReqLine(payload)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{ID: id, ReqLine: &v}, nil
	case MsgIndState:
		v, err := ParseIndState(payload)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{ID: id, IndState: &v}, nil
	case MsgCnfTest:
		v, err := ParseCnfTest(payload)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{ID: id, CnfTest: &v}, nil
	default:
		return Inbound{}, fmt.Errorf("protocol: unknown message id 0x%02X", id)
	}
}
