package table

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/image/math/fixed"
)

// CBLC/CBDT major version both readers accept.
const cbdtMajorVersion = 3

// CBLC index subtable formats.
const (
	indexFormat1 = 1 // variable metrics, 32-bit offsets
	indexFormat2 = 2 // constant metrics, no offset array
	indexFormat3 = 3 // variable metrics, 16-bit offsets
	indexFormat4 = 4 // variable metrics, sparse glyph IDs
	indexFormat5 = 5 // constant metrics, sparse glyph IDs
)

// CBDT image data formats. All three carry PNG payloads.
const (
	imageFormat17 = 17 // small metrics + PNG
	imageFormat18 = 18 // big metrics + PNG
	imageFormat19 = 19 // metrics in CBLC, PNG data only
)

// StrikeStrategy determines how a bitmap strike is selected for a
// requested ppem.
type StrikeStrategy int

const (
	// StrikeBestFit selects the smallest strike >= the requested size,
	// or the largest strike if none is big enough.
	StrikeBestFit StrikeStrategy = iota

	// StrikeExact selects only an exact match.
	StrikeExact

	// StrikeLargest always selects the largest available strike.
	StrikeLargest
)

// String returns the string representation of the strategy.
func (s StrikeStrategy) String() string {
	switch s {
	case StrikeBestFit:
		return "BestFit"
	case StrikeExact:
		return "Exact"
	case StrikeLargest:
		return "Largest"
	default:
		return unknownStr
	}
}

// CBDT reads the CBDT (Color Bitmap Data) table together with its CBLC
// (Color Bitmap Location) index, Google's format for embedded bitmaps.
type CBDT struct {
	cbdtData []byte
	cblcData []byte

	majorVersion uint16
	minorVersion uint16
	strikes      []cbdtStrike
}

// cbdtStrike is one BitmapSize record from CBLC.
type cbdtStrike struct {
	indexSubtableListOffset uint32
	indexSubtableListSize   uint32
	numberOfIndexSubtables  uint32

	startGlyphIndex uint16
	endGlyphIndex   uint16

	ppemX    uint8
	ppemY    uint8
	bitDepth uint8
	flags    int8

	// Index subtables are parsed lazily on first glyph lookup.
	indexSubtables []indexSubtable
}

// indexSubtable is one parsed CBLC index subtable.
type indexSubtable struct {
	firstGlyphIndex uint16
	lastGlyphIndex  uint16
	indexFormat     uint16
	imageFormat     uint16
	imageDataOffset uint32

	// Format-specific payload.
	offsets32  []uint32            // format 1
	offsets16  []uint16            // format 3
	imageSize  uint32              // formats 2, 5
	bigMetrics *bigGlyphMetrics    // formats 2, 5
	glyphPairs []glyphIDOffsetPair // format 4
	glyphIDs   []uint16            // format 5
}

// glyphIDOffsetPair is one sparse entry in a format 4 subtable.
type glyphIDOffsetPair struct {
	glyphID    uint16
	sbitOffset uint16
}

// smallGlyphMetrics is the 5-byte metrics record in CBDT format 17.
type smallGlyphMetrics struct {
	height   uint8
	width    uint8
	bearingX int8
	bearingY int8
	advance  uint8
}

// bigGlyphMetrics is the 8-byte horizontal+vertical metrics record.
type bigGlyphMetrics struct {
	height       uint8
	width        uint8
	horiBearingX int8
	horiBearingY int8
	horiAdvance  uint8
	vertBearingX int8
	vertBearingY int8
	vertAdvance  uint8
}

// NewCBDT parses a CBDT/CBLC table pair.
func NewCBDT(cbdtData, cblcData []byte) (*CBDT, error) {
	if len(cbdtData) == 0 {
		return nil, ErrNoCBDTTable
	}
	if len(cblcData) == 0 {
		return nil, ErrNoCBLCTable
	}

	c := &CBDT{
		cbdtData: cbdtData,
		cblcData: cblcData,
	}
	if err := c.parseCBLC(); err != nil {
		return nil, err
	}
	return c, nil
}

// parseCBLC reads the CBLC header and every BitmapSize record.
func (c *CBDT) parseCBLC() error {
	data := c.cblcData
	if len(data) < 8 {
		return ErrInvalidCBLC
	}

	c.majorVersion = binary.BigEndian.Uint16(data[0:2])
	c.minorVersion = binary.BigEndian.Uint16(data[2:4])
	if c.majorVersion != cbdtMajorVersion {
		return fmt.Errorf("table: unsupported CBLC version %d.%d", c.majorVersion, c.minorVersion)
	}

	numSizes := binary.BigEndian.Uint32(data[4:8])

	// Each BitmapSize record is 48 bytes, directly after the header.
	const bitmapSizeRecordSize = 48
	if 8+int(numSizes)*bitmapSizeRecordSize > len(data) {
		return ErrInvalidCBLC
	}

	c.strikes = make([]cbdtStrike, numSizes)
	for i := uint32(0); i < numSizes; i++ {
		offset := 8 + int(i)*bitmapSizeRecordSize
		c.parseBitmapSizeRecord(data[offset:offset+bitmapSizeRecordSize], &c.strikes[i])
	}
	return nil
}

// parseBitmapSizeRecord reads one 48-byte BitmapSize record. The line
// metrics at offsets 16..40 are not needed by the extractor and are
// skipped.
func (c *CBDT) parseBitmapSizeRecord(data []byte, strike *cbdtStrike) {
	strike.indexSubtableListOffset = binary.BigEndian.Uint32(data[0:4])
	strike.indexSubtableListSize = binary.BigEndian.Uint32(data[4:8])
	strike.numberOfIndexSubtables = binary.BigEndian.Uint32(data[8:12])
	// colorRef at 12:16 is unused.
	strike.startGlyphIndex = binary.BigEndian.Uint16(data[40:42])
	strike.endGlyphIndex = binary.BigEndian.Uint16(data[42:44])
	strike.ppemX = data[44]
	strike.ppemY = data[45]
	strike.bitDepth = data[46]
	strike.flags = int8(data[47])
}

// NumStrikes returns the number of available bitmap strikes.
func (c *CBDT) NumStrikes() int {
	return len(c.strikes)
}

// StrikePPEM returns the ppem of the strike at index, or 0 if the index
// is out of range.
func (c *CBDT) StrikePPEM(index int) uint16 {
	if index < 0 || index >= len(c.strikes) {
		return 0
	}
	return uint16(c.strikes[index].ppemX)
}

// StrikeBitDepth returns the bit depth of the strike at index. Color
// strikes report 32.
func (c *CBDT) StrikeBitDepth(index int) uint8 {
	if index < 0 || index >= len(c.strikes) {
		return 0
	}
	return c.strikes[index].bitDepth
}

// AvailablePPEMs lists the ppem of every strike.
func (c *CBDT) AvailablePPEMs() []uint16 {
	ppems := make([]uint16, len(c.strikes))
	for i := range c.strikes {
		ppems[i] = uint16(c.strikes[i].ppemX)
	}
	return ppems
}

// SelectStrike picks a strike for the requested ppem using the given
// strategy. Returns -1 when no strike qualifies.
func (c *CBDT) SelectStrike(ppem uint16, strategy StrikeStrategy) int {
	if len(c.strikes) == 0 {
		return -1
	}

	switch strategy {
	case StrikeExact:
		for i := range c.strikes {
			if uint16(c.strikes[i].ppemX) == ppem {
				return i
			}
		}
		return -1

	case StrikeLargest:
		best := 0
		for i := 1; i < len(c.strikes); i++ {
			if c.strikes[i].ppemX > c.strikes[best].ppemX {
				best = i
			}
		}
		return best

	default:
		// Smallest strike >= requested, or the largest one if none.
		bestLarger := -1
		bestLargerPPEM := uint8(255)

		largest := 0
		largestPPEM := c.strikes[0].ppemX

		ppemClamped := uint8(min(int(ppem), 255))

		for i := range c.strikes {
			strikePPEM := c.strikes[i].ppemX

			if strikePPEM > largestPPEM {
				largest = i
				largestPPEM = strikePPEM
			}
			if strikePPEM >= ppemClamped && strikePPEM < bestLargerPPEM {
				bestLarger = i
				bestLargerPPEM = strikePPEM
			}
		}

		if bestLarger >= 0 {
			return bestLarger
		}
		return largest
	}
}

// HasGlyph reports whether any strike carries bitmap data for the glyph.
func (c *CBDT) HasGlyph(glyphID uint16) bool {
	for i := range c.strikes {
		if c.hasGlyphInStrike(glyphID, i) {
			return true
		}
	}
	return false
}

// HasGlyphInStrike reports whether the glyph has bitmap data at the
// given strike.
func (c *CBDT) HasGlyphInStrike(glyphID uint16, strikeIndex int) bool {
	if strikeIndex < 0 || strikeIndex >= len(c.strikes) {
		return false
	}
	return c.hasGlyphInStrike(glyphID, strikeIndex)
}

func (c *CBDT) hasGlyphInStrike(glyphID uint16, strikeIndex int) bool {
	strike := &c.strikes[strikeIndex]

	if glyphID < strike.startGlyphIndex || glyphID > strike.endGlyphIndex {
		return false
	}
	if err := c.parseIndexSubtables(strikeIndex); err != nil {
		return false
	}

	for i := range strike.indexSubtables {
		ist := &strike.indexSubtables[i]
		if glyphID >= ist.firstGlyphIndex && glyphID <= ist.lastGlyphIndex {
			return true
		}
	}
	return false
}

// parseIndexSubtables parses the index subtables for a strike, once.
func (c *CBDT) parseIndexSubtables(strikeIndex int) error {
	strike := &c.strikes[strikeIndex]
	if strike.indexSubtables != nil {
		return nil
	}

	data := c.cblcData
	listOffset := int(strike.indexSubtableListOffset)
	if listOffset+int(strike.numberOfIndexSubtables)*8 > len(data) {
		return ErrInvalidCBLC
	}

	strike.indexSubtables = make([]indexSubtable, strike.numberOfIndexSubtables)

	// The IndexSubtableArray records point at the actual subtables,
	// relative to the start of the list.
	for i := uint32(0); i < strike.numberOfIndexSubtables; i++ {
		recordOffset := listOffset + int(i)*8

		ist := &strike.indexSubtables[i]
		ist.firstGlyphIndex = binary.BigEndian.Uint16(data[recordOffset : recordOffset+2])
		ist.lastGlyphIndex = binary.BigEndian.Uint16(data[recordOffset+2 : recordOffset+4])
		additionalOffset := binary.BigEndian.Uint32(data[recordOffset+4 : recordOffset+8])

		if err := c.parseIndexSubtable(listOffset+int(additionalOffset), ist); err != nil {
			return err
		}
	}
	return nil
}

// parseIndexSubtable parses one index subtable at offset.
func (c *CBDT) parseIndexSubtable(offset int, ist *indexSubtable) error {
	data := c.cblcData
	if offset+8 > len(data) {
		return ErrInvalidCBLC
	}

	// IndexSubHeader, common to all formats.
	ist.indexFormat = binary.BigEndian.Uint16(data[offset : offset+2])
	ist.imageFormat = binary.BigEndian.Uint16(data[offset+2 : offset+4])
	ist.imageDataOffset = binary.BigEndian.Uint32(data[offset+4 : offset+8])

	headerEnd := offset + 8
	numGlyphs := int(ist.lastGlyphIndex) - int(ist.firstGlyphIndex) + 1

	switch ist.indexFormat {
	case indexFormat1:
		numOffsets := numGlyphs + 1
		if headerEnd+numOffsets*4 > len(data) {
			return ErrInvalidCBLC
		}
		ist.offsets32 = make([]uint32, numOffsets)
		for i := 0; i < numOffsets; i++ {
			pos := headerEnd + i*4
			ist.offsets32[i] = binary.BigEndian.Uint32(data[pos : pos+4])
		}

	case indexFormat2:
		if headerEnd+4+8 > len(data) {
			return ErrInvalidCBLC
		}
		ist.imageSize = binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])
		ist.bigMetrics = &bigGlyphMetrics{}
		parseBigGlyphMetrics(data[headerEnd+4:headerEnd+12], ist.bigMetrics)

	case indexFormat3:
		numOffsets := numGlyphs + 1
		if headerEnd+numOffsets*2 > len(data) {
			return ErrInvalidCBLC
		}
		ist.offsets16 = make([]uint16, numOffsets)
		for i := 0; i < numOffsets; i++ {
			pos := headerEnd + i*2
			ist.offsets16[i] = binary.BigEndian.Uint16(data[pos : pos+2])
		}

	case indexFormat4:
		if headerEnd+4 > len(data) {
			return ErrInvalidCBLC
		}
		numGlyphsInTable := binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])
		numPairs := int(numGlyphsInTable) + 1 // extra end marker

		pairsOffset := headerEnd + 4
		if pairsOffset+numPairs*4 > len(data) {
			return ErrInvalidCBLC
		}
		ist.glyphPairs = make([]glyphIDOffsetPair, numPairs)
		for i := 0; i < numPairs; i++ {
			pos := pairsOffset + i*4
			ist.glyphPairs[i].glyphID = binary.BigEndian.Uint16(data[pos : pos+2])
			ist.glyphPairs[i].sbitOffset = binary.BigEndian.Uint16(data[pos+2 : pos+4])
		}

	case indexFormat5:
		if headerEnd+4+8+4 > len(data) {
			return ErrInvalidCBLC
		}
		ist.imageSize = binary.BigEndian.Uint32(data[headerEnd : headerEnd+4])
		ist.bigMetrics = &bigGlyphMetrics{}
		parseBigGlyphMetrics(data[headerEnd+4:headerEnd+12], ist.bigMetrics)

		numGlyphsInTable := binary.BigEndian.Uint32(data[headerEnd+12 : headerEnd+16])
		glyphIDsOffset := headerEnd + 16
		if glyphIDsOffset+int(numGlyphsInTable)*2 > len(data) {
			return ErrInvalidCBLC
		}
		ist.glyphIDs = make([]uint16, numGlyphsInTable)
		for i := uint32(0); i < numGlyphsInTable; i++ {
			pos := glyphIDsOffset + int(i)*2
			ist.glyphIDs[i] = binary.BigEndian.Uint16(data[pos : pos+2])
		}

	default:
		return ErrUnsupportedIndexFormat
	}

	return nil
}

// parseBigGlyphMetrics reads BigGlyphMetrics from 8 bytes.
func parseBigGlyphMetrics(data []byte, m *bigGlyphMetrics) {
	m.height = data[0]
	m.width = data[1]
	m.horiBearingX = int8(data[2])
	m.horiBearingY = int8(data[3])
	m.horiAdvance = data[4]
	m.vertBearingX = int8(data[5])
	m.vertBearingY = int8(data[6])
	m.vertAdvance = data[7]
}

// parseSmallGlyphMetrics reads SmallGlyphMetrics from 5 bytes.
func parseSmallGlyphMetrics(data []byte, m *smallGlyphMetrics) {
	m.height = data[0]
	m.width = data[1]
	m.bearingX = int8(data[2])
	m.bearingY = int8(data[3])
	m.advance = data[4]
}

// GlyphForPPEM extracts a bitmap glyph at the requested ppem using the
// StrikeBestFit strategy.
func (c *CBDT) GlyphForPPEM(glyphID, ppem uint16) (*Glyph, error) {
	return c.GlyphWithStrategy(glyphID, ppem, StrikeBestFit)
}

// GlyphWithStrategy extracts a bitmap glyph using the given strike
// selection strategy.
func (c *CBDT) GlyphWithStrategy(glyphID, ppem uint16, strategy StrikeStrategy) (*Glyph, error) {
	strikeIndex := c.SelectStrike(ppem, strategy)
	if strikeIndex < 0 {
		return nil, ErrNoStrike
	}
	return c.GlyphAtStrike(glyphID, strikeIndex)
}

// GlyphAtStrike extracts a bitmap glyph at the given strike index.
func (c *CBDT) GlyphAtStrike(glyphID uint16, strikeIndex int) (*Glyph, error) {
	if strikeIndex < 0 || strikeIndex >= len(c.strikes) {
		return nil, ErrNoStrike
	}

	strike := &c.strikes[strikeIndex]
	if glyphID < strike.startGlyphIndex || glyphID > strike.endGlyphIndex {
		return nil, ErrGlyphNotFound
	}
	if err := c.parseIndexSubtables(strikeIndex); err != nil {
		return nil, err
	}

	for i := range strike.indexSubtables {
		ist := &strike.indexSubtables[i]
		if glyphID >= ist.firstGlyphIndex && glyphID <= ist.lastGlyphIndex {
			return c.extractGlyph(glyphID, ist, strike)
		}
	}
	return nil, ErrGlyphNotFound
}

// extractGlyph resolves the glyph's data range and decodes its record.
func (c *CBDT) extractGlyph(glyphID uint16, ist *indexSubtable, strike *cbdtStrike) (*Glyph, error) {
	offset, size, shared, err := c.glyphLocation(glyphID, ist)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrGlyphNotFound
	}
	return c.extractImageData(glyphID, offset, size, ist.imageFormat, shared, strike)
}

// glyphLocation computes the offset and size of glyph data in CBDT based
// on the index format. For constant-metrics formats the shared big
// metrics record is returned alongside.
func (c *CBDT) glyphLocation(glyphID uint16, ist *indexSubtable) (offset, size uint32, metrics *bigGlyphMetrics, err error) {
	glyphIndex := int(glyphID) - int(ist.firstGlyphIndex)

	switch ist.indexFormat {
	case indexFormat1:
		if glyphIndex < 0 || glyphIndex >= len(ist.offsets32)-1 {
			return 0, 0, nil, ErrGlyphNotFound
		}
		offset = ist.imageDataOffset + ist.offsets32[glyphIndex]
		size = ist.offsets32[glyphIndex+1] - ist.offsets32[glyphIndex]

	case indexFormat2:
		if glyphIndex < 0 || glyphIndex > int(ist.lastGlyphIndex)-int(ist.firstGlyphIndex) {
			return 0, 0, nil, ErrGlyphNotFound
		}
		offset = ist.imageDataOffset + uint32(glyphIndex)*ist.imageSize
		size = ist.imageSize
		metrics = ist.bigMetrics

	case indexFormat3:
		if glyphIndex < 0 || glyphIndex >= len(ist.offsets16)-1 {
			return 0, 0, nil, ErrGlyphNotFound
		}
		offset = ist.imageDataOffset + uint32(ist.offsets16[glyphIndex])
		size = uint32(ist.offsets16[glyphIndex+1] - ist.offsets16[glyphIndex])

	case indexFormat4:
		found := false
		for i := 0; i < len(ist.glyphPairs)-1; i++ {
			if ist.glyphPairs[i].glyphID == glyphID {
				offset = ist.imageDataOffset + uint32(ist.glyphPairs[i].sbitOffset)
				size = uint32(ist.glyphPairs[i+1].sbitOffset - ist.glyphPairs[i].sbitOffset)
				found = true
				break
			}
		}
		if !found {
			return 0, 0, nil, ErrGlyphNotFound
		}

	case indexFormat5:
		found := false
		for i, gid := range ist.glyphIDs {
			if gid != glyphID {
				continue
			}
			offset = ist.imageDataOffset + uint32(i)*ist.imageSize
			size = ist.imageSize
			metrics = ist.bigMetrics
			found = true
			break
		}
		if !found {
			return 0, 0, nil, ErrGlyphNotFound
		}

	default:
		return 0, 0, nil, ErrUnsupportedIndexFormat
	}

	return offset, size, metrics, nil
}

// extractImageData reads the glyph record from CBDT.
func (c *CBDT) extractImageData(glyphID uint16, offset, size uint32, imageFormat uint16, shared *bigGlyphMetrics, strike *cbdtStrike) (*Glyph, error) {
	data := c.cbdtData
	if int(offset)+int(size) > len(data) {
		return nil, ErrInvalidCBDT
	}
	record := data[offset : offset+size]

	glyph := &Glyph{
		GlyphID: glyphID,
		Format:  FormatPNG,
		PPEM:    uint16(strike.ppemX),
	}

	switch imageFormat {
	case imageFormat17:
		// SmallGlyphMetrics (5) + dataLen (4) + PNG data.
		if len(record) < 9 {
			return nil, ErrInvalidCBDT
		}
		var sm smallGlyphMetrics
		parseSmallGlyphMetrics(record[0:5], &sm)

		dataLen := binary.BigEndian.Uint32(record[5:9])
		if 9+int(dataLen) > len(record) {
			return nil, ErrInvalidCBDT
		}

		glyph.DeclaredWidth = int(sm.width)
		glyph.DeclaredHeight = int(sm.height)
		glyph.OriginX = fixed.I(int(sm.bearingX))
		glyph.OriginY = fixed.I(int(sm.bearingY))
		glyph.Data = record[9 : 9+dataLen]

	case imageFormat18:
		// BigGlyphMetrics (8) + dataLen (4) + PNG data.
		if len(record) < 12 {
			return nil, ErrInvalidCBDT
		}
		var bm bigGlyphMetrics
		parseBigGlyphMetrics(record[0:8], &bm)

		dataLen := binary.BigEndian.Uint32(record[8:12])
		if 12+int(dataLen) > len(record) {
			return nil, ErrInvalidCBDT
		}

		glyph.DeclaredWidth = int(bm.width)
		glyph.DeclaredHeight = int(bm.height)
		glyph.OriginX = fixed.I(int(bm.horiBearingX))
		glyph.OriginY = fixed.I(int(bm.horiBearingY))
		glyph.Data = record[12 : 12+dataLen]

	case imageFormat19:
		// Metrics live in CBLC; only dataLen (4) + PNG data here.
		if len(record) < 4 {
			return nil, ErrInvalidCBDT
		}
		dataLen := binary.BigEndian.Uint32(record[0:4])
		if 4+int(dataLen) > len(record) {
			return nil, ErrInvalidCBDT
		}

		if shared != nil {
			glyph.DeclaredWidth = int(shared.width)
			glyph.DeclaredHeight = int(shared.height)
			glyph.OriginX = fixed.I(int(shared.horiBearingX))
			glyph.OriginY = fixed.I(int(shared.horiBearingY))
		}
		glyph.Data = record[4 : 4+dataLen]

	default:
		return nil, ErrUnsupportedFormat
	}

	return glyph, nil
}
