package pattern

import "testing"

// fakeImage is a minimal ImageSource for testing Build without
// pulling in the ImageMagick-backed adapter: Quantise is a no-op and
// raw pixel values are already palette indices.
type fakeImage struct {
	w, h   int
	pixels [][]int // [row][col], raw index before remap
	hist   []int
	pal    int
}

func (f *fakeImage) Width() int  { return f.w }
func (f *fakeImage) Height() int { return f.h }
func (f *fakeImage) GetPixel(x, y int) (int, error) {
	return f.pixels[y][x], nil
}
func (f *fakeImage) Quantise(n int) error { return nil }
func (f *fakeImage) Histogram() []int     { return f.hist }
func (f *fakeImage) Palette() int         { return f.pal }

func TestBuildRemapsByFrequency(t *testing.T) {
	// raw index 0 appears once, raw index 1 appears three times.
	// After the frequency remap, raw index 1 (most common) becomes
	// observed-palette index 0.
	img := &fakeImage{
		w: 2, h: 2,
		pixels: [][]int{
			{0, 1},
			{1, 1},
		},
		hist: []int{1, 3},
		pal:  2,
	}

	pb, err := Build(img, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pb.Intern[0][0] != 1 {
		t.Fatalf("rare color should remap to index 1, got %d", pb.Intern[0][0])
	}
	if pb.Intern[0][1] != 0 || pb.Intern[1][0] != 0 || pb.Intern[1][1] != 0 {
		t.Fatal("common color should remap to index 0")
	}
	if pb.ExpandedLen() != 4 {
		t.Fatalf("ExpandedLen() = %d, want 4", pb.ExpandedLen())
	}
	// plane[numColors*row+color][col]
	if !pb.Expanded[0][1] || !pb.Expanded[2][0] || !pb.Expanded[2][1] {
		t.Fatal("expanded plane for color 0 missing an expected pixel")
	}
	if !pb.Expanded[1][0] {
		t.Fatal("expanded plane for color 1 missing the rare pixel")
	}
}

func TestBuildWarnsOnFewerObservedColors(t *testing.T) {
	img := &fakeImage{
		w: 1, h: 1,
		pixels: [][]int{{0}},
		hist:   []int{1},
		pal:    1,
	}
	pb, err := Build(img, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pb.Warning == "" {
		t.Fatal("expected a warning when fewer colors observed than requested")
	}
}

func TestBuildRejectsEmptyImage(t *testing.T) {
	img := &fakeImage{w: 0, h: 0}
	if _, err := Build(img, 2); err == nil {
		t.Fatal("expected error for empty image")
	}
}
