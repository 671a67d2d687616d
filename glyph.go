package sbit

import "golang.org/x/image/math/fixed"

// Glyph is one loaded bitmap glyph slot: the pixel surface, its resolved
// metrics, and its placement relative to the glyph origin.
type Glyph struct {
	// Bitmap is the premultiplied BGRA32 pixel surface.
	Bitmap Bitmap

	// Metrics is the resolved width/height footprint.
	Metrics Metrics

	// OriginX and OriginY offset the bitmap from the glyph origin, in
	// 26.6 fixed-point pixels.
	OriginX fixed.Int26_6
	OriginY fixed.Int26_6

	// PPEM is the pixels-per-em of the strike this bitmap came from.
	PPEM uint16
}

// LoadGlyph decodes data into a fresh glyph slot. The declared dimensions
// in opts pre-size the decode buffer; the decoded dimensions become the
// glyph's metrics. Offsets and MetricsOnly in opts apply as in Load.
func (l *Loader) LoadGlyph(data []byte, opts LoadOptions) (*Glyph, error) {
	g := &Glyph{}
	if err := l.Load(&g.Bitmap, &g.Metrics, data, opts); err != nil {
		return nil, err
	}
	return g, nil
}
