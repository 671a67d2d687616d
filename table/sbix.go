package table

import (
	"encoding/binary"

	"golang.org/x/image/math/fixed"
)

// Sbix reads the sbix (Standard Bitmap Graphics) table, Apple's format
// for embedded bitmap graphics.
type Sbix struct {
	data      []byte
	numGlyphs uint16
	strikes   []sbixStrike
}

// sbixStrike is one bitmap strike (size) in sbix.
type sbixStrike struct {
	ppem   uint16
	ppi    uint16
	offset uint32

	// glyphOffsets holds numGlyphs+1 offsets into the strike; the extra
	// entry closes the last glyph's range.
	glyphOffsets []uint32
}

// NewSbix parses an sbix table. numGlyphs must come from the font's maxp
// table; sbix glyph ranges are only decodable against it.
func NewSbix(data []byte, numGlyphs uint16) (*Sbix, error) {
	if len(data) == 0 {
		return nil, ErrNoSbixTable
	}
	if len(data) < 8 {
		return nil, ErrInvalidSbix
	}

	s := &Sbix{
		data:      data,
		numGlyphs: numGlyphs,
	}
	if err := s.parse(); err != nil {
		return nil, err
	}
	return s, nil
}

// parse reads the sbix header and every strike.
func (s *Sbix) parse() error {
	data := s.data

	if version := binary.BigEndian.Uint16(data[0:2]); version != 1 {
		return ErrInvalidSbix
	}
	// flags at 2:4 are unused here.
	numStrikes := binary.BigEndian.Uint32(data[4:8])

	// The bound is checked in int64 so a huge strike count from a
	// crafted table cannot wrap the arithmetic. This also caps
	// numStrikes by the table length before the slice allocation.
	if int64(len(data)) < 8+int64(numStrikes)*4 {
		return ErrInvalidSbix
	}

	s.strikes = make([]sbixStrike, numStrikes)
	for i := uint32(0); i < numStrikes; i++ {
		offset := binary.BigEndian.Uint32(data[8+i*4 : 12+i*4])
		if err := s.parseStrike(i, offset); err != nil {
			return err
		}
	}
	return nil
}

// parseStrike reads one strike header and its glyph offset array.
func (s *Sbix) parseStrike(index, offset uint32) error {
	data := s.data
	if int(offset)+4 > len(data) {
		return ErrInvalidSbix
	}

	strike := &s.strikes[index]
	strike.offset = offset
	strike.ppem = binary.BigEndian.Uint16(data[offset : offset+2])
	strike.ppi = binary.BigEndian.Uint16(data[offset+2 : offset+4])

	offsetsStart := offset + 4
	numOffsets := int(s.numGlyphs) + 1
	if int(offsetsStart)+numOffsets*4 > len(data) {
		return ErrInvalidSbix
	}

	strike.glyphOffsets = make([]uint32, numOffsets)
	for i := 0; i < numOffsets; i++ {
		pos := int(offsetsStart) + i*4
		strike.glyphOffsets[i] = binary.BigEndian.Uint32(data[pos : pos+4])
	}
	return nil
}

// NumStrikes returns the number of bitmap strikes (sizes).
func (s *Sbix) NumStrikes() int {
	return len(s.strikes)
}

// StrikePPEM returns the ppem of the strike at index, or 0 if the index
// is out of range.
func (s *Sbix) StrikePPEM(index int) uint16 {
	if index < 0 || index >= len(s.strikes) {
		return 0
	}
	return s.strikes[index].ppem
}

// AvailablePPEMs lists the ppem of every strike.
func (s *Sbix) AvailablePPEMs() []uint16 {
	ppems := make([]uint16, len(s.strikes))
	for i := range s.strikes {
		ppems[i] = s.strikes[i].ppem
	}
	return ppems
}

// HasGlyph reports whether the glyph has bitmap data at the given strike.
func (s *Sbix) HasGlyph(glyphID uint16, strikeIndex int) bool {
	if strikeIndex < 0 || strikeIndex >= len(s.strikes) {
		return false
	}
	if glyphID >= s.numGlyphs {
		return false
	}
	strike := &s.strikes[strikeIndex]
	return strike.glyphOffsets[glyphID+1] > strike.glyphOffsets[glyphID]
}

// BestStrike returns the index of the strike closest to the requested
// ppem, preferring the larger strike on ties. Returns -1 when the table
// has no strikes.
func (s *Sbix) BestStrike(ppem uint16) int {
	if len(s.strikes) == 0 {
		return -1
	}

	best := 0
	bestDiff := absDiff(s.strikes[0].ppem, ppem)
	for i := 1; i < len(s.strikes); i++ {
		diff := absDiff(s.strikes[i].ppem, ppem)
		if diff < bestDiff || (diff == bestDiff && s.strikes[i].ppem > s.strikes[best].ppem) {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// GlyphAtStrike extracts the bitmap for a glyph at the given strike.
//
// The glyph record layout is: originOffsetX int16, originOffsetY int16,
// graphicType 4-byte tag, then the payload bytes.
func (s *Sbix) GlyphAtStrike(glyphID uint16, strikeIndex int) (*Glyph, error) {
	if strikeIndex < 0 || strikeIndex >= len(s.strikes) {
		return nil, ErrGlyphNotFound
	}
	if glyphID >= s.numGlyphs {
		return nil, ErrGlyphNotFound
	}

	strike := &s.strikes[strikeIndex]
	start := strike.glyphOffsets[glyphID]
	end := strike.glyphOffsets[glyphID+1]
	if end <= start {
		return nil, ErrGlyphNotFound
	}

	recordStart := strike.offset + start
	if int(recordStart)+8 > len(s.data) {
		return nil, ErrInvalidSbix
	}
	recordEnd := strike.offset + end
	if int(recordEnd) > len(s.data) {
		return nil, ErrInvalidSbix
	}

	originX := int16(binary.BigEndian.Uint16(s.data[recordStart : recordStart+2]))
	originY := int16(binary.BigEndian.Uint16(s.data[recordStart+2 : recordStart+4]))
	tag := string(s.data[recordStart+4 : recordStart+8])

	format, err := parseGraphicType(tag)
	if err != nil {
		return nil, err
	}

	return &Glyph{
		GlyphID: glyphID,
		Data:    s.data[recordStart+8 : recordEnd],
		Format:  format,
		OriginX: fixed.I(int(originX)),
		OriginY: fixed.I(int(originY)),
		PPEM:    strike.ppem,
	}, nil
}

// GlyphForPPEM extracts the bitmap for a glyph from the strike closest to
// the requested ppem.
func (s *Sbix) GlyphForPPEM(glyphID, ppem uint16) (*Glyph, error) {
	strikeIndex := s.BestStrike(ppem)
	if strikeIndex < 0 {
		return nil, ErrNoStrike
	}
	return s.GlyphAtStrike(glyphID, strikeIndex)
}

// parseGraphicType converts a 4-byte sbix graphic type tag to a Format.
func parseGraphicType(tag string) (Format, error) {
	switch tag {
	case "png ":
		return FormatPNG, nil
	case "jpg ":
		return FormatJPEG, nil
	case "tiff":
		return FormatTIFF, nil
	case "dupe":
		return FormatDupe, nil
	default:
		return FormatRaw, ErrUnsupportedFormat
	}
}

// absDiff returns the absolute difference between two uint16 values.
func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
