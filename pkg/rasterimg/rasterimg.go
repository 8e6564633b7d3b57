// Package rasterimg is the concrete adapter for the abstract Image
// capability of spec.md §6. Image loading and quantisation are named
// as external-collaborator concerns in spec.md §1, so this package
// sits outside the engine core (pkg/pattern): it is the thing a host
// program wires in to satisfy pattern.ImageSource.
package rasterimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
	"gopkg.in/gographics/imagick.v3/imagick"
)

// ImageSource is the abstract Image capability of spec.md §6: width,
// height, per-pixel palette index after quantisation, histogram, and
// palette.
type ImageSource interface {
	Width() int
	Height() int
	// GetPixel returns the palette index of pixel (x, y). Only valid
	// after Quantise has been called.
	GetPixel(x, y int) (int, error)
	// Quantise reduces the image to at most n palette entries,
	// ordered arbitrarily (pkg/pattern does the frequency-based
	// remap described in spec.md §4.1).
	Quantise(n int) error
	// Histogram returns the pixel count observed for each palette
	// entry, indexed the same way GetPixel's return values are.
	Histogram() []int
	// Palette returns the number of distinct colors currently active
	// (<= the n passed to Quantise, per spec.md §4.1 step 3).
	Palette() int
}

var imagickInitOnce = initImagick()

func initImagick() struct{} {
	imagick.Initialize()
	return struct{}{}
}

// MagickImage is an ImageSource backed by ImageMagick's quantizer.
// It normalizes arbitrary Go images to NRGBA (mirroring the teacher's
// pkg/stdimg/imgutils.go ToNRGBA step) before handing a PNG blob to
// libmagickwand, which does the real quantisation work the teacher's
// go.mod depended on but never exercised.
type MagickImage struct {
	wand       *imagick.MagickWand
	width      int
	height     int
	numColors  int
	histogram  []int
	indexCache map[[2]int]int
}

// NewMagickImage decodes src, normalizes it to NRGBA, and loads it
// into a fresh MagickWand ready for Quantise.
func NewMagickImage(src image.Image) (*MagickImage, error) {
	_ = imagickInitOnce
	if src == nil {
		return nil, fmt.Errorf("rasterimg: source image is nil")
	}
	n := toNRGBA(src)
	b := n.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("rasterimg: empty image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, n); err != nil {
		return nil, fmt.Errorf("rasterimg: encode normalized image: %w", err)
	}

	wand := imagick.NewMagickWand()
	if err := wand.ReadImageBlob(buf.Bytes()); err != nil {
		wand.Destroy()
		return nil, fmt.Errorf("rasterimg: load image into magick wand: %w", err)
	}

	return &MagickImage{
		wand:   wand,
		width:  b.Dx(),
		height: b.Dy(),
	}, nil
}

func (m *MagickImage) Width() int  { return m.width }
func (m *MagickImage) Height() int { return m.height }

// Quantise reduces the palette to at most n colors via ImageMagick's
// QuantizeImage, then caches per-pixel indices and per-index counts
// so GetPixel/Histogram are cheap to call per row.
func (m *MagickImage) Quantise(n int) error {
	if n < 1 {
		return fmt.Errorf("rasterimg: quantise requires n >= 1, got %d", n)
	}
	if err := m.wand.QuantizeImage(uint(n), imagick.COLORSPACE_RGB, 0, imagick.DITHER_METHOD_NO, false); err != nil {
		return fmt.Errorf("rasterimg: quantize image: %w", err)
	}

	hist, err := m.wand.GetImageHistogram()
	if err != nil {
		return fmt.Errorf("rasterimg: read quantized histogram: %w", err)
	}

	type entry struct {
		r, g, b uint8
	}
	entries := make([]entry, 0, len(hist))
	for _, pw := range hist {
		c := pw.GetColor()
		entries = append(entries, entry{
			r: uint8(c.GetRed() * 255.0),
			g: uint8(c.GetGreen() * 255.0),
			b: uint8(c.GetBlue() * 255.0),
		})
	}

	pixels, err := m.wand.ExportImagePixels(0, 0, uint(m.width), uint(m.height), "RGB", imagick.PIXEL_CHAR)
	if err != nil {
		return fmt.Errorf("rasterimg: export quantized pixels: %w", err)
	}
	raw, ok := pixels.([]uint8)
	if !ok {
		return fmt.Errorf("rasterimg: unexpected pixel buffer type %T", pixels)
	}

	closest := func(r, g, b uint8) int {
		best, bestDist := 0, -1
		for i, e := range entries {
			dr := int(r) - int(e.r)
			dg := int(g) - int(e.g)
			db := int(b) - int(e.b)
			d := dr*dr + dg*dg + db*db
			if bestDist < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		return best
	}

	m.indexCache = make(map[[2]int]int, m.width*m.height)
	counts := make([]int, len(entries))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			off := (y*m.width + x) * 3
			idx := closest(raw[off], raw[off+1], raw[off+2])
			m.indexCache[[2]int{x, y}] = idx
			counts[idx]++
		}
	}

	m.numColors = len(entries)
	m.histogram = counts
	return nil
}

func (m *MagickImage) GetPixel(x, y int) (int, error) {
	if m.indexCache == nil {
		return 0, fmt.Errorf("rasterimg: GetPixel called before Quantise")
	}
	idx, ok := m.indexCache[[2]int{x, y}]
	if !ok {
		return 0, fmt.Errorf("rasterimg: pixel (%d,%d) out of bounds", x, y)
	}
	return idx, nil
}

func (m *MagickImage) Histogram() []int { return m.histogram }
func (m *MagickImage) Palette() int     { return m.numColors }

// Close releases the underlying MagickWand. Callers should defer it
// once done with the image.
func (m *MagickImage) Close() {
	if m.wand != nil {
		m.wand.Destroy()
		m.wand = nil
	}
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}
