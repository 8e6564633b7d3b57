// Package planner implements LinePlanner (spec.md §4.3): for a given
// physical pass number, decide which image row, color, and expanded
// plane index to knit, whether the pass is blank, and whether it is
// the last pass of the job.
//
// Each mode gets its own Plan function instead of a shared one keyed
// by a mode string, per spec.md §9's explicit instruction to dispatch
// on the mode's type rather than reflection.
package planner

import (
	"github.com/Fepozopo/ayabknit/pkg/ayab"
	"github.com/Fepozopo/ayabknit/pkg/knitmode"
)

// LinePlan is the record LinePlanner emits per physical pass
// (spec.md §3).
type LinePlan struct {
	Color         uint8
	ExpandedIndex uint32
	ImgRow        uint32
	Blank         bool
	Last          bool
}

// Params bundles the inputs every mode's Plan function needs. Passing
// a struct instead of a long positional parameter list keeps the
// five Plan functions below readable against spec.md §4.3's dense
// formulas.
type Params struct {
	LineNumber  uint64
	NumColors   int
	StartRow    int
	ImgHeight   int
	ExpandedLen int
	InfRepeat   bool
}

// Plan dispatches to the mode's formula. mode must be one of the
// values in pkg/knitmode; the switch over those concrete mode values
// is the Go expression of spec.md §9's "one method per variant"
// instruction.
func Plan(mode knitmode.KnittingMode, p Params) (LinePlan, error) {
	if p.NumColors < 2 {
		return LinePlan{}, ayab.NewError(ayab.InvalidSettings, nil, "planner: num_colors must be >= 2, got %d", p.NumColors)
	}
	if !mode.ValidColorCount(p.NumColors) {
		return LinePlan{}, ayab.NewError(ayab.InvalidSettings, nil, "planner: %s rejects num_colors=%d", mode.Name(), p.NumColors)
	}

	switch mode {
	case knitmode.Singlebed:
		return planSinglebed(p), nil
	case knitmode.ClassicRibber:
		return planClassicRibber(p), nil
	case knitmode.MiddleColorsTwiceRibber:
		return planMiddleColorsTwiceRibber(p), nil
	case knitmode.HeartOfPlutoRibber:
		return planHeartOfPlutoRibber(p), nil
	case knitmode.CircularRibber:
		return planCircularRibber(p), nil
	}
	return LinePlan{}, ayab.NewError(ayab.InvalidSettings, nil, "planner: unknown mode %s", mode.Name())
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// planSinglebed implements spec.md §4.3 Singlebed.
func planSinglebed(p Params) LinePlan {
	line := int64(p.LineNumber)
	if p.InfRepeat {
		line = mod(line, int64(p.ImgHeight))
	}
	imgRow := mod(int64(p.StartRow)+line, int64(p.ImgHeight))
	return LinePlan{
		Color:         0,
		ExpandedIndex: uint32(2 * imgRow),
		ImgRow:        uint32(imgRow),
		Blank:         false,
		Last:          imgRow == int64(p.ImgHeight)-1,
	}
}

// planClassicRibber implements spec.md §4.3 ClassicRibber, both the
// 2-color and multicolor formulas (the source's dual formulas,
// normatively distinguished by NumColors == 2).
func planClassicRibber(p Params) LinePlan {
	if p.NumColors == 2 {
		return planClassicRibber2Color(p)
	}
	return planClassicRibberMulticolor(p)
}

func planClassicRibber2Color(p Params) LinePlan {
	line := int64(p.LineNumber)
	i := mod(line, 4)
	if p.InfRepeat {
		line = mod(line, int64(p.ExpandedLen))
	}
	imgRow := mod(int64(p.StartRow)+line/2, int64(p.ImgHeight))

	colorTable := [4]uint8{0, 1, 1, 0}
	idxDelta := [4]int64{0, 0, 1, -1}

	color := colorTable[i]
	expandedIndex := mod(2*int64(p.StartRow)+line+idxDelta[i], int64(p.ExpandedLen))
	last := imgRow == int64(p.ImgHeight)-1 && (i == 1 || i == 3)

	return LinePlan{
		Color:         color,
		ExpandedIndex: uint32(expandedIndex),
		ImgRow:        uint32(imgRow),
		Blank:         false,
		Last:          last,
	}
}

func planClassicRibberMulticolor(p Params) LinePlan {
	line := int64(p.LineNumber)
	if p.InfRepeat {
		line = mod(line, 2*int64(p.ExpandedLen))
	}
	imgRow := mod(int64(p.StartRow)+line/(2*int64(p.NumColors)), int64(p.ImgHeight))
	color := mod(line/2, int64(p.NumColors))
	expandedIndex := mod(color+imgRow*int64(p.NumColors), int64(p.ExpandedLen))
	blank := line%2 != 0

	return LinePlan{
		Color:         uint8(color),
		ExpandedIndex: uint32(expandedIndex),
		ImgRow:        uint32(imgRow),
		Blank:         blank,
		Last:          expandedIndex == int64(p.ExpandedLen)-1 && blank,
	}
}

// planMiddleColorsTwiceRibber implements spec.md §4.3
// MiddleColorsTwiceRibber.
func planMiddleColorsTwiceRibber(p Params) LinePlan {
	line := int64(p.LineNumber)
	passPerRow := int64(2*p.NumColors - 2)
	q, r := line/passPerRow, line%passPerRow

	first := r == 0
	lastCol := r == passPerRow-1

	imgRow := int64(p.StartRow) + q
	if p.InfRepeat {
		imgRow = mod(imgRow, int64(p.ImgHeight))
	}

	var color int64
	if first || lastCol {
		lc := int64(0)
		if lastCol {
			lc = 1
		}
		color = mod(lc+q, 2)
	} else {
		color = (r + 3) / 2
	}

	expandedIndex := imgRow*int64(p.NumColors) + color
	blank := !first && !lastCol && line%2 != 0
	last := imgRow == int64(p.ImgHeight)-1 && lastCol

	return LinePlan{
		Color:         uint8(color),
		ExpandedIndex: uint32(expandedIndex),
		ImgRow:        uint32(imgRow),
		Blank:         blank,
		Last:          last,
	}
}

// planHeartOfPlutoRibber implements spec.md §4.3 HeartOfPlutoRibber.
func planHeartOfPlutoRibber(p Params) LinePlan {
	line := int64(p.LineNumber)
	passPerRow := int64(2*p.NumColors - 2)
	q, r := line/passPerRow, line%passPerRow

	first := r == 0
	lastCol := r == passPerRow-1

	imgRow := int64(p.StartRow) + q
	if p.InfRepeat {
		imgRow = mod(imgRow, int64(p.ImgHeight))
	}

	color := int64(p.NumColors) - 1 - mod(line+1, 2*int64(p.NumColors))/2
	expandedIndex := imgRow*int64(p.NumColors) + color
	blank := !first && !lastCol && line%2 == 0
	last := imgRow == int64(p.ImgHeight)-1 && lastCol

	return LinePlan{
		Color:         uint8(color),
		ExpandedIndex: uint32(expandedIndex),
		ImgRow:        uint32(imgRow),
		Blank:         blank,
		Last:          last,
	}
}

// planCircularRibber implements spec.md §4.3 CircularRibber.
func planCircularRibber(p Params) LinePlan {
	line := int64(p.LineNumber)
	blank := line%2 != 0
	h := line / 2
	if p.InfRepeat {
		h = mod(h, int64(p.ExpandedLen))
	}
	q, color := h/int64(p.NumColors), h%int64(p.NumColors)
	imgRow := mod(int64(p.StartRow)+q, int64(p.ImgHeight))
	expandedIndex := mod(imgRow*int64(p.NumColors)+color, int64(p.ExpandedLen))

	return LinePlan{
		Color:         uint8(color),
		ExpandedIndex: uint32(expandedIndex),
		ImgRow:        uint32(imgRow),
		Blank:         blank,
		Last:          expandedIndex == int64(p.ExpandedLen)-1 && blank,
	}
}
