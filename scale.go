package sbit

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// ScaleFilter selects the resampling kernel used by ScaleBitmap.
type ScaleFilter int

const (
	// FilterNearest is nearest-neighbor sampling. Fastest, blocky.
	FilterNearest ScaleFilter = iota

	// FilterBilinear is approximate bilinear interpolation. Good default
	// for downscaling emoji strikes.
	FilterBilinear

	// FilterCatmullRom is Catmull-Rom cubic interpolation. Sharpest
	// results, slowest.
	FilterCatmullRom
)

// String returns the string name of the filter.
func (f ScaleFilter) String() string {
	switch f {
	case FilterNearest:
		return "Nearest"
	case FilterBilinear:
		return "Bilinear"
	case FilterCatmullRom:
		return "CatmullRom"
	default:
		return "Unknown"
	}
}

// scaler returns the x/image scaler for the filter.
func (f ScaleFilter) scaler() xdraw.Scaler {
	switch f {
	case FilterBilinear:
		return xdraw.ApproxBiLinear
	case FilterCatmullRom:
		return xdraw.CatmullRom
	default:
		return xdraw.NearestNeighbor
	}
}

// ScaleBitmap resamples a premultiplied BGRA32 bitmap to the given size
// and returns the result as a new bitmap with pitch = width*4.
//
// Bitmap strikes come in a handful of fixed ppem sizes, so rendering at
// an arbitrary size means scaling the nearest strike. Scaling operates on
// premultiplied pixels, which is the correct space for linear filters.
func ScaleBitmap(src *Bitmap, width, rows int, filter ScaleFilter) (*Bitmap, error) {
	if src == nil || src.Mode != ModeBGRA || src.Buffer == nil {
		return nil, ErrInvalidArgument
	}
	if width <= 0 || rows <= 0 {
		return nil, ErrInvalidArgument
	}
	if width > MaxBitmapDim || rows > MaxBitmapDim {
		return nil, ErrBitmapTooLarge
	}

	// x/image/draw works on image.RGBA, which is premultiplied like our
	// pixels but with the R and B bytes swapped.
	srcImg := image.NewRGBA(image.Rect(0, 0, src.Width, src.Rows))
	for y := 0; y < src.Rows; y++ {
		row := src.Row(y)
		dstStart := y * srcImg.Stride
		for x := 0; x < src.Width; x++ {
			s := x * 4
			d := dstStart + x*4
			srcImg.Pix[d] = row[s+2]
			srcImg.Pix[d+1] = row[s+1]
			srcImg.Pix[d+2] = row[s]
			srcImg.Pix[d+3] = row[s+3]
		}
	}

	dstImg := image.NewRGBA(image.Rect(0, 0, width, rows))
	filter.scaler().Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)

	out := &Bitmap{
		Width:  width,
		Rows:   rows,
		Pitch:  width * 4,
		Mode:   ModeBGRA,
		Buffer: make([]byte, rows*width*4),
	}
	for y := 0; y < rows; y++ {
		srcStart := y * dstImg.Stride
		dstRow := out.Buffer[y*out.Pitch : y*out.Pitch+width*4]
		for x := 0; x < width; x++ {
			s := srcStart + x*4
			d := x * 4
			dstRow[d] = dstImg.Pix[s+2]
			dstRow[d+1] = dstImg.Pix[s+1]
			dstRow[d+2] = dstImg.Pix[s]
			dstRow[d+3] = dstImg.Pix[s+3]
		}
	}
	return out, nil
}

// ScaleToPPEM resamples a loaded glyph to the target ppem, preserving the
// bitmap's aspect ratio, and returns a new glyph. The source glyph is not
// modified.
func ScaleToPPEM(g *Glyph, ppem uint16, filter ScaleFilter) (*Glyph, error) {
	if g == nil || g.PPEM == 0 || ppem == 0 {
		return nil, ErrInvalidArgument
	}
	if ppem == g.PPEM {
		// Still a fresh glyph: callers may mutate the result without
		// touching a cached source.
		out := *g
		out.Bitmap.Buffer = append([]byte(nil), g.Bitmap.Buffer...)
		return &out, nil
	}

	width := (g.Bitmap.Width*int(ppem) + int(g.PPEM)/2) / int(g.PPEM)
	rows := (g.Bitmap.Rows*int(ppem) + int(g.PPEM)/2) / int(g.PPEM)
	if width < 1 {
		width = 1
	}
	if rows < 1 {
		rows = 1
	}

	bm, err := ScaleBitmap(&g.Bitmap, width, rows, filter)
	if err != nil {
		return nil, err
	}

	out := &Glyph{
		Bitmap:  *bm,
		OriginX: fixed.Int26_6(int64(g.OriginX) * int64(ppem) / int64(g.PPEM)),
		OriginY: fixed.Int26_6(int64(g.OriginY) * int64(ppem) / int64(g.PPEM)),
		PPEM:    ppem,
	}
	if err := out.Metrics.Resolve(width, rows); err != nil {
		return nil, err
	}
	return out, nil
}
