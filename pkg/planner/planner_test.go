package planner

import (
	"testing"

	"github.com/Fepozopo/ayabknit/pkg/knitmode"
)

func TestPlanRejectsTooFewColors(t *testing.T) {
	if _, err := Plan(knitmode.Singlebed, Params{NumColors: 1, ImgHeight: 2}); err == nil {
		t.Fatal("expected error for num_colors < 2")
	}
}

func TestPlanRejectsModeColorMismatch(t *testing.T) {
	if _, err := Plan(knitmode.Singlebed, Params{NumColors: 3, ImgHeight: 2}); err == nil {
		t.Fatal("singlebed should reject 3 colors")
	}
}

func TestPlanSinglebedCyclesThroughRows(t *testing.T) {
	p := Params{NumColors: 2, StartRow: 0, ImgHeight: 3, ExpandedLen: 6}
	for line := uint64(0); line < 3; line++ {
		p.LineNumber = line
		plan, err := Plan(knitmode.Singlebed, p)
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if plan.ImgRow != uint32(line) {
			t.Fatalf("line %d: ImgRow = %d, want %d", line, plan.ImgRow, line)
		}
		if plan.Blank {
			t.Fatalf("line %d: singlebed pass should never be blank", line)
		}
	}
	last, _ := Plan(knitmode.Singlebed, Params{NumColors: 2, StartRow: 0, ImgHeight: 3, ExpandedLen: 6, LineNumber: 2})
	if !last.Last {
		t.Fatal("final image row should be marked Last")
	}
}

func TestPlanSinglebedStartRowOffset(t *testing.T) {
	p := Params{NumColors: 2, StartRow: 2, ImgHeight: 4, ExpandedLen: 8, LineNumber: 0}
	plan, err := Plan(knitmode.Singlebed, p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.ImgRow != 2 {
		t.Fatalf("ImgRow = %d, want 2 (start_row offset)", plan.ImgRow)
	}
}

func TestPlanCircularRibberAlternatesBlank(t *testing.T) {
	p := Params{NumColors: 2, StartRow: 0, ImgHeight: 2, ExpandedLen: 4}
	for line := uint64(0); line < 4; line++ {
		p.LineNumber = line
		plan, err := Plan(knitmode.CircularRibber, p)
		if err != nil {
			t.Fatalf("Plan line %d: %v", line, err)
		}
		wantBlank := line%2 != 0
		if plan.Blank != wantBlank {
			t.Fatalf("line %d: Blank = %v, want %v", line, plan.Blank, wantBlank)
		}
	}
}

func TestPlanClassicRibberMulticolorCyclesColors(t *testing.T) {
	p := Params{NumColors: 3, StartRow: 0, ImgHeight: 2, ExpandedLen: 6}
	seenColors := map[uint8]bool{}
	for line := uint64(0); line < 12; line++ {
		p.LineNumber = line
		plan, err := Plan(knitmode.ClassicRibber, p)
		if err != nil {
			t.Fatalf("Plan line %d: %v", line, err)
		}
		if int(plan.Color) >= p.NumColors {
			t.Fatalf("line %d: color %d out of range", line, plan.Color)
		}
		seenColors[plan.Color] = true
	}
	if len(seenColors) != 3 {
		t.Fatalf("expected all 3 colors to appear, saw %v", seenColors)
	}
}

func TestPlanMiddleColorsTwiceRibberFirstAndLastPassAreEnds(t *testing.T) {
	p := Params{NumColors: 3, StartRow: 0, ImgHeight: 2, ExpandedLen: 6, LineNumber: 0}
	first, err := Plan(knitmode.MiddleColorsTwiceRibber, p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if first.Color != 0 {
		t.Fatalf("first pass of a row should be color 0, got %d", first.Color)
	}

	// 3 colors: 2*3-2 = 4 passes per row, so line 3 is the row's last pass.
	p.LineNumber = 3
	lastPass, err := Plan(knitmode.MiddleColorsTwiceRibber, p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if lastPass.Color != 1 {
		t.Fatalf("last pass of row 0 should be color 1, got %d", lastPass.Color)
	}
}

func TestPlanHeartOfPlutoRibberLastColorIsHighestIndex(t *testing.T) {
	p := Params{NumColors: 3, StartRow: 0, ImgHeight: 2, ExpandedLen: 6, LineNumber: 0}
	plan, err := Plan(knitmode.HeartOfPlutoRibber, p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Color != uint8(p.NumColors-1) {
		t.Fatalf("first pass color = %d, want %d", plan.Color, p.NumColors-1)
	}
}

func TestPlanInfiniteRepeatWrapsLineNumber(t *testing.T) {
	p := Params{NumColors: 2, StartRow: 0, ImgHeight: 2, ExpandedLen: 4, InfRepeat: true, LineNumber: 2}
	plan, err := Plan(knitmode.Singlebed, p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.ImgRow != 0 {
		t.Fatalf("infinite repeat should wrap line 2 back to row 0, got %d", plan.ImgRow)
	}
}

func TestModFloorsNegatives(t *testing.T) {
	if mod(-1, 4) != 3 {
		t.Fatalf("mod(-1,4) = %d, want 3", mod(-1, 4))
	}
	if mod(5, 4) != 1 {
		t.Fatalf("mod(5,4) = %d, want 1", mod(5, 4))
	}
}
