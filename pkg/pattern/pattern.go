// Package pattern implements PatternBuffer (spec.md §3, §4.1): it
// quantises an ImageSource to num_colors and turns it into the
// per-color bit-plane buffer the rest of the engine plans and encodes
// lines from.
package pattern

import (
	"sort"

	"github.com/Fepozopo/ayabknit/pkg/ayab"
)

// ImageSource is the subset of rasterimg.ImageSource that PatternBuffer
// needs. Declared locally so pkg/pattern doesn't import the concrete
// adapter package — it only depends on the capability, per spec.md §6.
type ImageSource interface {
	Width() int
	Height() int
	GetPixel(x, y int) (int, error)
	Quantise(n int) error
	Histogram() []int
	Palette() int
}

// PatternBuffer is the read-only, per-(row,color) bit-plane buffer of
// spec.md §3. It is rebuilt atomically (never mutated in place) when
// num_colors, alignment, or the knit window changes, per spec.md §9 —
// callers simply construct a new one.
type PatternBuffer struct {
	Width     int
	Height    int
	NumColors int

	// Intern[row][col] is the observed-palette index of pixel (col,row)
	// after the frequency remap (spec.md §4.1 step 2).
	Intern [][]int

	// Expanded[numColors*row+color][col] is 1 iff pixel (col,row) is
	// color `color`. One row per (image row, color) pair.
	Expanded [][]bool

	// Warning is non-empty when fewer distinct colors were observed
	// than NumColors (spec.md §4.1 step 3): not a failure, just a
	// fact the caller may want to surface via ProgressSink.Notify.
	Warning string
}

// Build implements spec.md §4.1's algorithm. An empty image is a
// hard failure (InvalidInput in spec.md terms, InvalidSettings here
// since the engine has no separate InvalidInput kind — both mean
// "the job as configured cannot run").
func Build(img ImageSource, numColors int) (*PatternBuffer, error) {
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return nil, ayab.NewError(ayab.InvalidSettings, nil, "pattern: empty image (%dx%d)", w, h)
	}
	if err := img.Quantise(numColors); err != nil {
		return nil, ayab.NewError(ayab.InvalidSettings, err, "pattern: quantise to %d colors", numColors)
	}

	observed := img.Palette()
	hist := img.Histogram()

	// Step 2: rank observed palette entries by descending frequency.
	// sort.Slice over an index permutation mirrors the teacher's
	// sort.Float64s use in pkg/stdimg/histogram.go, generalized from
	// sorting values directly to sorting indices by a derived key.
	rank := make([]int, observed)
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool {
		return hist[rank[a]] > hist[rank[b]]
	})
	remap := make([]int, observed)
	for newIdx, oldIdx := range rank {
		remap[oldIdx] = newIdx
	}

	pb := &PatternBuffer{
		Width:     w,
		Height:    h,
		NumColors: numColors,
		Intern:    make([][]int, h),
		Expanded:  make([][]bool, numColors*h),
	}
	if observed < numColors {
		pb.Warning = "fewer distinct colors observed than num_colors; lower indices kept filled"
	}

	for r := 0; r < h; r++ {
		pb.Intern[r] = make([]int, w)
	}
	for i := range pb.Expanded {
		pb.Expanded[i] = make([]bool, w)
	}

	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			raw, err := img.GetPixel(c, r)
			if err != nil {
				return nil, ayab.NewError(ayab.InvalidSettings, err, "pattern: read pixel (%d,%d)", c, r)
			}
			idx := remap[raw]
			pb.Intern[r][c] = idx
			pb.Expanded[numColors*r+idx][c] = true
		}
	}
	return pb, nil
}

// ExpandedLen is the number of expanded planes, i.e. numColors*height —
// the planner's modular arithmetic operates on this length directly.
func (pb *PatternBuffer) ExpandedLen() int {
	return pb.NumColors * pb.Height
}
