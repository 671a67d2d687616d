package sbit

// PixelMode tags the storage format of a Bitmap.
type PixelMode uint8

const (
	// ModeNone marks a bitmap whose format has not been decided yet.
	ModeNone PixelMode = iota

	// ModeGray is 8-bit coverage (1 byte per pixel).
	ModeGray

	// ModeBGRA is 32-bit premultiplied alpha, byte order blue, green,
	// red, alpha. This is the only mode the PNG loader produces.
	ModeBGRA

	// modeCount is the number of modes (for internal use).
	modeCount
)

// PixelModeInfo contains metadata about a pixel mode.
type PixelModeInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// HasAlpha indicates if the mode carries an alpha channel.
	HasAlpha bool

	// IsPremultiplied indicates if alpha is premultiplied.
	IsPremultiplied bool
}

// modeInfoTable contains metadata for each pixel mode.
var modeInfoTable = [modeCount]PixelModeInfo{
	ModeNone: {},
	ModeGray: {
		BytesPerPixel: 1,
	},
	ModeBGRA: {
		BytesPerPixel:   4,
		HasAlpha:        true,
		IsPremultiplied: true,
	},
}

// Info returns the PixelModeInfo for this mode.
func (m PixelMode) Info() PixelModeInfo {
	if m >= modeCount {
		return PixelModeInfo{}
	}
	return modeInfoTable[m]
}

// BytesPerPixel returns the number of bytes per pixel for this mode.
func (m PixelMode) BytesPerPixel() int {
	return m.Info().BytesPerPixel
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (m PixelMode) RowBytes(width int) int {
	return width * m.BytesPerPixel()
}

// String returns a string representation of the mode.
func (m PixelMode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeGray:
		return "Gray"
	case ModeBGRA:
		return "BGRA"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the mode is a known pixel mode.
func (m PixelMode) IsValid() bool {
	return m < modeCount
}

// Bitmap is a rectangular pixel surface owned by a glyph slot.
//
// Pitch is the byte stride between the start of consecutive rows; it may
// exceed Mode.RowBytes(Width) due to alignment. Buffer holds Rows*Pitch
// bytes once allocated. The PNG loader installs a Buffer when it resolves
// a glyph's metrics for the first time; afterwards it only writes into the
// existing allocation.
type Bitmap struct {
	// Width is the surface width in pixels.
	Width int

	// Rows is the number of pixel rows.
	Rows int

	// Pitch is the byte stride between consecutive rows.
	Pitch int

	// Mode tags the pixel storage format.
	Mode PixelMode

	// Buffer is the backing pixel storage, Rows*Pitch bytes.
	Buffer []byte
}

// Row returns the pixel bytes of row y, without any pitch padding.
// Returns nil if y is out of bounds or the bitmap has no buffer.
func (b *Bitmap) Row(y int) []byte {
	if y < 0 || y >= b.Rows || b.Buffer == nil {
		return nil
	}
	start := y * b.Pitch
	end := start + b.Mode.RowBytes(b.Width)
	if end > len(b.Buffer) {
		return nil
	}
	return b.Buffer[start:end]
}

// PixelOffset returns the byte offset of pixel (x, y) in Buffer.
// Returns -1 if the coordinates are out of bounds.
func (b *Bitmap) PixelOffset(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Rows {
		return -1
	}
	return y*b.Pitch + x*b.Mode.BytesPerPixel()
}

// ByteSize returns the size of the backing buffer in bytes.
func (b *Bitmap) ByteSize() int {
	return len(b.Buffer)
}

// IsEmpty returns true if the bitmap has zero dimensions.
func (b *Bitmap) IsEmpty() bool {
	return b.Width == 0 || b.Rows == 0
}
