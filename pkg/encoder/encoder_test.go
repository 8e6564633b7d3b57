package encoder

import (
	"testing"

	"github.com/Fepozopo/ayabknit/pkg/ayab"
	"github.com/Fepozopo/ayabknit/pkg/geometry"
	"github.com/Fepozopo/ayabknit/pkg/knitmode"
	"github.com/Fepozopo/ayabknit/pkg/pattern"
	"github.com/Fepozopo/ayabknit/pkg/planner"
)

func buildPatternBuffer(t *testing.T, rows [][]bool) *pattern.PatternBuffer {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	pb := &pattern.PatternBuffer{
		Width: w, Height: h, NumColors: 1,
		Intern:   make([][]int, h),
		Expanded: rows,
	}
	return pb
}

func TestEncodeSinglebedPlacesSelectedNeedles(t *testing.T) {
	m := ayab.DefaultMachine
	pb := buildPatternBuffer(t, [][]bool{
		{true, false, true, false},
	})
	geo := geometry.Compute(m, ayab.AlignCenter, 0, 199, 4)
	plan := planner.LinePlan{Color: 0, ExpandedIndex: 0, ImgRow: 0, Blank: false, Last: true}

	frame, err := Encode(m, knitmode.Singlebed, pb, geo, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !frame.Bit(98) {
		t.Fatal("needle 98 should be selected (pixel 0 = true)")
	}
	if frame.Bit(99) {
		t.Fatal("needle 99 should not be selected (pixel 1 = false)")
	}
	if !frame.Bit(100) {
		t.Fatal("needle 100 should be selected (pixel 2 = true)")
	}
	if frame.Bit(0) {
		t.Fatal("needles outside the window should stay unselected for singlebed")
	}
}

func TestEncodeBlankPassSkipsPixels(t *testing.T) {
	m := ayab.DefaultMachine
	pb := buildPatternBuffer(t, [][]bool{{true, true, true, true}})
	geo := geometry.Compute(m, ayab.AlignCenter, 0, 199, 4)
	plan := planner.LinePlan{Color: 0, ExpandedIndex: 0, ImgRow: 0, Blank: true, Last: false}

	frame, err := Encode(m, knitmode.Singlebed, pb, geo, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < m.Width; i++ {
		if frame.Bit(i) {
			t.Fatalf("needle %d selected on a blank pass", i)
		}
	}
}

func TestEncodeFlankingNeedlesOnRibberBackgroundPass(t *testing.T) {
	m := ayab.DefaultMachine
	pb := buildPatternBuffer(t, [][]bool{{true, true}, {false, false}})
	pb.NumColors = 2
	geo := geometry.Compute(m, ayab.AlignCenter, 0, 199, 2)
	plan := planner.LinePlan{Color: 0, ExpandedIndex: 1, ImgRow: 0, Blank: false, Last: false}

	frame, err := Encode(m, knitmode.ClassicRibber, pb, geo, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !frame.Bit(0) || !frame.Bit(m.Width-1) {
		t.Fatal("classic ribber color-0 pass should force flanking needles to 1")
	}
}

func TestEncodeExpandedIndexOutOfRange(t *testing.T) {
	m := ayab.DefaultMachine
	pb := buildPatternBuffer(t, [][]bool{{true}})
	geo := geometry.Compute(m, ayab.AlignCenter, 0, 199, 1)
	plan := planner.LinePlan{Color: 0, ExpandedIndex: 99, ImgRow: 0, Blank: false, Last: false}

	if _, err := Encode(m, knitmode.Singlebed, pb, geo, plan); err == nil {
		t.Fatal("expected error for out-of-range expanded index")
	}
}
