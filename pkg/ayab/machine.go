// Package ayab holds the data model shared by the knit engine: the
// physical machine description, per-job configuration, and the
// non-overlapping error kinds the engine returns.
package ayab

// Machine describes the physical flat-bed. It never changes at
// runtime; the only machine this engine drives is a 200-needle bed
// with an optional ribber.
type Machine struct {
	Width int
}

// DefaultMachine is the 200-needle flat bed named in spec.md's scope.
var DefaultMachine = Machine{Width: 200}

// NeedleCount is an alias for Width, spelled out at call sites that
// care about needles rather than raster width.
func (m Machine) NeedleCount() int {
	return m.Width
}

// Alignment controls where a narrower pattern sits inside the knit
// window.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return 0, NewError(InvalidSettings, nil, "unknown alignment %q", s)
	}
}
