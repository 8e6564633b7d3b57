// Package geometry implements the needle-window placement math of
// spec.md §4.2: mapping an image width, an alignment, and a knit
// window onto the four numbers pkg/encoder needs.
package geometry

import "github.com/Fepozopo/ayabknit/pkg/ayab"

// Geometry is the placement window spec.md §4.2 says is the only
// thing LineEncoder needs: two needle bounds and the corresponding
// pixel bounds within the pattern.
type Geometry struct {
	StartNeedle int
	EndNeedle   int
	StartPixel  int
	EndPixel    int
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Compute implements spec.md §4.2 exactly: patStartNeedle per
// alignment, then clamp to the machine's needle range.
func Compute(m ayab.Machine, alignment ayab.Alignment, knitStart, knitStop, patWidth int) Geometry {
	needleWidth := knitStop - knitStart + 1

	var patStartNeedle int
	switch alignment {
	case ayab.AlignCenter:
		patStartNeedle = knitStart + (needleWidth-patWidth+1)/2
	case ayab.AlignLeft:
		patStartNeedle = knitStart
	case ayab.AlignRight:
		patStartNeedle = knitStop - patWidth + 1
	}

	startNeedle := clampInt(patStartNeedle, 0, m.Width)
	endNeedle := clampInt(patStartNeedle+patWidth, 0, m.Width)
	if endNeedle < startNeedle {
		endNeedle = startNeedle
	}
	startPixel := startNeedle - patStartNeedle
	endPixel := endNeedle - patStartNeedle

	return Geometry{
		StartNeedle: startNeedle,
		EndNeedle:   endNeedle,
		StartPixel:  startPixel,
		EndPixel:    endPixel,
	}
}
