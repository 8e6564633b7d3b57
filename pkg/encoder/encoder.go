// Package encoder implements LineEncoder (spec.md §4.4): composing the
// 25-byte needle bitmap for one physical pass.
package encoder

import (
	"github.com/Fepozopo/ayabknit/pkg/ayab"
	"github.com/Fepozopo/ayabknit/pkg/geometry"
	"github.com/Fepozopo/ayabknit/pkg/knitmode"
	"github.com/Fepozopo/ayabknit/pkg/pattern"
	"github.com/Fepozopo/ayabknit/pkg/planner"
)

// FrameBytes is the wire length of a LineFrame: ceil(machine.Width/8).
const FrameBytes = 25

// LineFrame is the 200-bit needle-selection bitmap of spec.md §4.4.
// Needle 0 is the lowest bit of byte 0 (little-endian per needle).
type LineFrame [FrameBytes]byte

func (f *LineFrame) set(needle int) {
	f[needle/8] |= 1 << uint(needle%8)
}

// Bit reports whether needle i is selected.
func (f *LineFrame) Bit(i int) bool {
	return f[i/8]&(1<<uint(i%8)) != 0
}

// Encode implements spec.md §4.4's three steps. pb supplies the
// expanded bit-plane; geo is the precomputed needle/pixel window.
func Encode(m ayab.Machine, mode knitmode.KnittingMode, pb *pattern.PatternBuffer, geo geometry.Geometry, plan planner.LinePlan) (LineFrame, error) {
	var frame LineFrame

	if mode.FlankingNeedles(plan.Color, pb.NumColors) {
		for n := 0; n < geo.StartNeedle; n++ {
			frame.set(n)
		}
		for n := geo.EndNeedle; n < m.Width; n++ {
			frame.set(n)
		}
	}

	if !plan.Blank {
		if int(plan.ExpandedIndex) >= len(pb.Expanded) {
			return frame, ayab.NewError(ayab.InvalidSettings, nil, "encoder: expanded index %d out of range (have %d planes)", plan.ExpandedIndex, len(pb.Expanded))
		}
		row := pb.Expanded[plan.ExpandedIndex]
		for px := geo.StartPixel; px < geo.EndPixel; px++ {
			if px < 0 || px >= len(row) {
				continue
			}
			if row[px] {
				needle := geo.StartNeedle + (px - geo.StartPixel)
				frame.set(needle)
			}
		}
	}

	return frame, nil
}
