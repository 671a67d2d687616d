package table

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/sbit"
)

// Table tags of interest in the sfnt directory.
var (
	tagSbix = opentype.MustNewTag("sbix")
	tagCBDT = opentype.MustNewTag("CBDT")
	tagCBLC = opentype.MustNewTag("CBLC")
	tagMaxp = opentype.MustNewTag("maxp")
)

// Source locates embedded bitmap glyphs in a font binary.
//
// It pulls the raw sbix and CBDT/CBLC tables out of the sfnt container
// and exposes a single lookup across whichever of the two the font
// carries. When a font has both, CBDT wins; it is the more widely
// supported of the two formats.
type Source struct {
	sbix *Sbix
	cbdt *CBDT
}

// NewSource parses the font binary and indexes its bitmap tables.
// Fonts without any bitmap table yield a Source whose HasBitmaps reports
// false; that is not an error.
func NewSource(fontData []byte) (*Source, error) {
	ld, err := opentype.NewLoader(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("table: parse font: %w", err)
	}

	src := &Source{}

	cbdtData, cbdtErr := ld.RawTable(tagCBDT)
	cblcData, cblcErr := ld.RawTable(tagCBLC)
	if cbdtErr == nil && cblcErr == nil {
		cbdt, err := NewCBDT(cbdtData, cblcData)
		if err != nil {
			return nil, err
		}
		src.cbdt = cbdt
	}

	if sbixData, err := ld.RawTable(tagSbix); err == nil {
		numGlyphs, err := numGlyphsFromMaxp(ld)
		if err != nil {
			return nil, err
		}
		sbix, err := NewSbix(sbixData, numGlyphs)
		if err != nil {
			return nil, err
		}
		src.sbix = sbix
	}

	if !src.HasBitmaps() {
		sbit.Logger().Debug("table: font carries no bitmap tables")
	}
	return src, nil
}

// numGlyphsFromMaxp reads numGlyphs from the raw maxp table; it sits at
// offset 4, after the version field, in every maxp version.
func numGlyphsFromMaxp(ld *opentype.Loader) (uint16, error) {
	maxp, err := ld.RawTable(tagMaxp)
	if err != nil {
		return 0, fmt.Errorf("table: read maxp: %w", err)
	}
	if len(maxp) < 6 {
		return 0, fmt.Errorf("table: maxp too short: %d bytes", len(maxp))
	}
	return binary.BigEndian.Uint16(maxp[4:6]), nil
}

// HasBitmaps reports whether the font has any supported bitmap table.
func (s *Source) HasBitmaps() bool {
	return s.cbdt != nil || s.sbix != nil
}

// Sbix returns the sbix reader, or nil if the font has no sbix table.
func (s *Source) Sbix() *Sbix {
	return s.sbix
}

// CBDT returns the CBDT reader, or nil if the font has no CBDT/CBLC
// tables.
func (s *Source) CBDT() *CBDT {
	return s.cbdt
}

// Glyph extracts the bitmap for a glyph at the requested ppem from the
// preferred table.
func (s *Source) Glyph(glyphID, ppem uint16) (*Glyph, error) {
	if s.cbdt != nil {
		g, err := s.cbdt.GlyphForPPEM(glyphID, ppem)
		if err == nil {
			return g, nil
		}
		if s.sbix == nil {
			return nil, err
		}
	}
	if s.sbix != nil {
		return s.sbix.GlyphForPPEM(glyphID, ppem)
	}
	return nil, ErrGlyphNotFound
}

// AvailablePPEMs lists the strike sizes of the preferred table.
func (s *Source) AvailablePPEMs() []uint16 {
	if s.cbdt != nil {
		return s.cbdt.AvailablePPEMs()
	}
	if s.sbix != nil {
		return s.sbix.AvailablePPEMs()
	}
	return nil
}
