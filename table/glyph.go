package table

import (
	"errors"

	"golang.org/x/image/math/fixed"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Bitmap table errors.
var (
	// ErrNoSbixTable indicates the font has no sbix table.
	ErrNoSbixTable = errors.New("table: font has no sbix table")

	// ErrNoCBDTTable indicates the font has no CBDT table.
	ErrNoCBDTTable = errors.New("table: font has no CBDT table")

	// ErrNoCBLCTable indicates the font has no CBLC table.
	ErrNoCBLCTable = errors.New("table: font has no CBLC table")

	// ErrInvalidSbix indicates the sbix table data is malformed.
	ErrInvalidSbix = errors.New("table: invalid sbix data")

	// ErrInvalidCBLC indicates the CBLC table data is malformed.
	ErrInvalidCBLC = errors.New("table: invalid CBLC data")

	// ErrInvalidCBDT indicates the CBDT table data is malformed.
	ErrInvalidCBDT = errors.New("table: invalid CBDT data")

	// ErrGlyphNotFound indicates the glyph has no bitmap data.
	ErrGlyphNotFound = errors.New("table: glyph not in bitmap table")

	// ErrNoStrike indicates no bitmap strike satisfies the request.
	ErrNoStrike = errors.New("table: no bitmap strike available")

	// ErrUnsupportedFormat indicates an unsupported payload encoding.
	ErrUnsupportedFormat = errors.New("table: unsupported bitmap format")

	// ErrUnsupportedIndexFormat indicates an unsupported CBLC index
	// subtable format.
	ErrUnsupportedIndexFormat = errors.New("table: unsupported index subtable format")
)

// Format indicates the encoding of an embedded bitmap payload.
type Format int

const (
	// FormatPNG is PNG-compressed bitmap data.
	FormatPNG Format = iota

	// FormatJPEG is JPEG-compressed bitmap data.
	FormatJPEG

	// FormatTIFF is TIFF-compressed bitmap data.
	FormatTIFF

	// FormatDupe indicates the glyph reuses another glyph's bitmap.
	FormatDupe

	// FormatRaw is uncompressed bitmap data.
	FormatRaw
)

// formatNames maps Format to string names.
var formatNames = [...]string{
	FormatPNG:  "PNG",
	FormatJPEG: "JPEG",
	FormatTIFF: "TIFF",
	FormatDupe: "Dupe",
	FormatRaw:  "Raw",
}

// String returns the string name of the format.
func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return unknownStr
}

// Glyph is one embedded bitmap located in a font table: the encoded byte
// range plus the metrics the table declares for it.
//
// DeclaredWidth and DeclaredHeight are the table's claim about the image
// size, used to pre-size decode buffers; sbix carries no such metrics and
// leaves them zero. The decoded image is authoritative either way.
type Glyph struct {
	// GlyphID is the glyph this bitmap represents.
	GlyphID uint16

	// Data is the raw encoded payload (PNG, JPEG, ...).
	Data []byte

	// Format indicates how Data is encoded.
	Format Format

	// DeclaredWidth is the width the table declares, or 0.
	DeclaredWidth int

	// DeclaredHeight is the height the table declares, or 0.
	DeclaredHeight int

	// OriginX is the horizontal bearing from the glyph origin, in 26.6
	// fixed-point pixels.
	OriginX fixed.Int26_6

	// OriginY is the vertical bearing from the glyph origin, in 26.6
	// fixed-point pixels.
	OriginY fixed.Int26_6

	// PPEM is the pixels-per-em of the strike this bitmap belongs to.
	PPEM uint16
}
