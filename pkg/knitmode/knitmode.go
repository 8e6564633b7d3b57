// Package knitmode defines the knitting modes of spec.md §3 as one Go
// type per variant, each implementing KnittingMode. This replaces the
// source's runtime function-name lookup (spec.md §9): dispatch is a
// switch over the closed set of concrete mode values, not a string key.
package knitmode

import "github.com/Fepozopo/ayabknit/pkg/ayab"

// KnittingMode is the per-variant behavior spec.md §3 attaches to
// each knitting mode.
type KnittingMode interface {
	// Name is the configuration string this mode is selected by.
	Name() ayab.ModeName
	// ValidColorCount reports whether n is an acceptable palette size
	// for this mode.
	ValidColorCount(n int) bool
	// FlankingNeedles reports whether, for this color on this pass,
	// out-of-window needles must be forced to 1 (the ribber "solid"
	// pass).
	FlankingNeedles(color uint8, numColors int) bool
}

type singlebed struct{}
type classicRibber struct{}
type middleColorsTwiceRibber struct{}
type heartOfPlutoRibber struct{}
type circularRibber struct{}

var (
	Singlebed               KnittingMode = singlebed{}
	ClassicRibber           KnittingMode = classicRibber{}
	MiddleColorsTwiceRibber KnittingMode = middleColorsTwiceRibber{}
	HeartOfPlutoRibber      KnittingMode = heartOfPlutoRibber{}
	CircularRibber          KnittingMode = circularRibber{}
)

// All is the registry of known modes, the same "authoritative slice"
// role pkg/stdimg/commands.go's Commands slice played for the
// teacher's image commands.
var All = []KnittingMode{
	Singlebed, ClassicRibber, MiddleColorsTwiceRibber, HeartOfPlutoRibber, CircularRibber,
}

// ByName resolves a configuration string to a KnittingMode.
func ByName(name ayab.ModeName) (KnittingMode, bool) {
	for _, m := range All {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

func (singlebed) Name() ayab.ModeName { return ayab.ModeSinglebed }
func (singlebed) ValidColorCount(n int) bool {
	return n == 2
}
func (singlebed) FlankingNeedles(color uint8, numColors int) bool { return false }

func (classicRibber) Name() ayab.ModeName { return ayab.ModeClassicRibber }
func (classicRibber) ValidColorCount(n int) bool {
	return n >= 2 && n <= 6
}

// FlankingNeedles: in ClassicRibber the solid "background" pass is
// color 0 (the pass that isn't a true image color in the 2-color
// wire-and-heddle layout, and the even-indexed alternation in the
// multicolor case) — see pkg/planner for the exact pass/color
// relationship this mirrors.
func (classicRibber) FlankingNeedles(color uint8, numColors int) bool {
	return color == 0
}

func (middleColorsTwiceRibber) Name() ayab.ModeName { return ayab.ModeMiddleColorsTwiceRibber }
func (middleColorsTwiceRibber) ValidColorCount(n int) bool {
	return n >= 2 && n <= 6
}
// FlankingNeedles: like HeartOfPlutoRibber, the solid background pass
// in MiddleColorsTwiceRibber is the highest color index, not color 0.
func (middleColorsTwiceRibber) FlankingNeedles(color uint8, numColors int) bool {
	return color == uint8(numColors-1)
}

func (heartOfPlutoRibber) Name() ayab.ModeName { return ayab.ModeHeartOfPlutoRibber }
func (heartOfPlutoRibber) ValidColorCount(n int) bool {
	return n >= 2 && n <= 6
}
func (heartOfPlutoRibber) FlankingNeedles(color uint8, numColors int) bool {
	return color == uint8(numColors-1)
}

func (circularRibber) Name() ayab.ModeName { return ayab.ModeCircularRibber }
func (circularRibber) ValidColorCount(n int) bool {
	return n == 2
}
func (circularRibber) FlankingNeedles(color uint8, numColors int) bool { return false }
