package ayab

import "fmt"

// ErrorKind is one of the non-overlapping failure categories from
// spec.md §7. Config, pattern, planner and encoder failures, and every
// error KnitFSM returns, are a *KnitError carrying one of these.
// pkg/protocol and pkg/serialport return plain errors, which KnitFSM
// wraps into a *KnitError before returning them.
type ErrorKind int

const (
	InvalidSettings ErrorKind = iota
	SerialOpen
	SerialIO
	WrongApi
	DeviceNotReady
	LineOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidSettings:
		return "InvalidSettings"
	case SerialOpen:
		return "SerialOpen"
	case SerialIO:
		return "SerialIO"
	case WrongApi:
		return "WrongApi"
	case DeviceNotReady:
		return "DeviceNotReady"
	case LineOutOfRange:
		return "LineOutOfRange"
	default:
		return "Unknown"
	}
}

// KnitError wraps one ErrorKind plus an optional underlying cause, so
// callers can switch on Kind() without parsing error strings while
// still getting %w-compatible wrapping.
type KnitError struct {
	Kind ErrorKind
	Err  error
	msg  string
}

func NewError(kind ErrorKind, cause error, format string, args ...any) *KnitError {
	return &KnitError{Kind: kind, Err: cause, msg: fmt.Sprintf(format, args...)}
}

func (e *KnitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *KnitError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, defaulting to SerialIO for
// errors the engine didn't originate itself (e.g. raw I/O failures),
// since an unexpected failure mid-run is, from the FSM's point of
// view, indistinguishable from a lost link.
func KindOf(err error) ErrorKind {
	var ke *KnitError
	if e, ok := err.(*KnitError); ok {
		ke = e
	} else if err != nil {
		return SerialIO
	}
	if ke == nil {
		return SerialIO
	}
	return ke.Kind
}
