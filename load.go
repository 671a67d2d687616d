package sbit

import (
	"errors"
	"fmt"
)

// Load error kinds. Load returns these wrapped or bare; use errors.Is.
var (
	// ErrInvalidArgument indicates bad offsets, or a verify-mode request
	// whose rectangle, depth, or destination format does not match.
	ErrInvalidArgument = errors.New("sbit: invalid argument")

	// ErrOutOfMemory indicates the allocator could not satisfy a scratch
	// or destination allocation.
	ErrOutOfMemory = errors.New("sbit: out of memory")

	// ErrUnknownFileFormat indicates the decoder rejected the input
	// (corrupt stream, truncated data, unsupported PNG feature).
	ErrUnknownFileFormat = errors.New("sbit: unknown file format")

	// ErrBitmapTooLarge indicates the decoded dimensions exceed
	// MaxBitmapDim.
	ErrBitmapTooLarge = errors.New("sbit: bitmap too large")
)

// LoadOptions controls one Load call.
type LoadOptions struct {
	// X, Y place the decoded glyph inside the destination bitmap, in
	// pixels from the top-left corner. Both must be non-negative, and
	// both must be zero while the metrics are unresolved: the first load
	// shapes the destination to the decoded size, leaving no room for an
	// offset.
	X int
	Y int

	// Depth is the requested pixel depth in bits. The loader produces
	// 32-bit BGRA only; in verify mode any other value is rejected.
	Depth int

	// DeclaredWidth and DeclaredHeight are the dimensions the font table
	// declared for the glyph. They size the decode scratch buffer before
	// the real dimensions are known; the decoder's reported size is
	// authoritative afterward. Ignored once the metrics are resolved.
	DeclaredWidth  int
	DeclaredHeight int

	// MetricsOnly requests a size-only probe: metrics are resolved but
	// no pixel data is written.
	MetricsOnly bool
}

// DefaultLoadOptions returns options for a full 32-bit load at (0, 0).
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Depth: 32}
}

// Loader decodes PNG glyph bitmaps into destination surfaces.
//
// Loader itself holds no per-glyph state and is safe for concurrent use
// as long as concurrent calls target distinct Bitmap/Metrics pairs; the
// destination objects are the caller's to serialize.
type Loader struct {
	alloc Allocator
	dec   Decoder
}

// NewLoader creates a Loader. A nil alloc selects the Go heap; a nil dec
// selects the standard library PNG decoder.
func NewLoader(alloc Allocator, dec Decoder) *Loader {
	if alloc == nil {
		alloc = heapAllocator{}
	}
	if dec == nil {
		dec = pngDecoder{}
	}
	return &Loader{alloc: alloc, dec: dec}
}

// Load decodes the PNG byte span in data and composites it into dst at
// (opts.X, opts.Y) as premultiplied BGRA32.
//
// Behavior is dispatched from the state of m:
//
//   - Unresolved metrics (populate mode): the decoded dimensions become
//     the glyph's metrics, dst is shaped to them (pitch = width*4, mode
//     BGRA) and a fresh backing buffer is installed. Both offsets must be
//     zero in this mode.
//   - Resolved metrics (verify mode): the decode must match the resolved
//     dimensions exactly. A mismatch is a defined skip: Load returns nil
//     and dst keeps its prior contents byte for byte.
//
// With opts.MetricsOnly set, Load stops after the metrics are resolved
// and writes nothing into dst.
//
// Errors: ErrInvalidArgument, ErrOutOfMemory, ErrUnknownFileFormat,
// ErrBitmapTooLarge. The decode scratch buffer is released exactly once
// on every path.
func (l *Loader) Load(dst *Bitmap, m *Metrics, data []byte, opts LoadOptions) error {
	if dst == nil || m == nil {
		return ErrInvalidArgument
	}
	if opts.X < 0 || opts.Y < 0 {
		return ErrInvalidArgument
	}

	populate := !m.Resolved()
	declWidth, declHeight := opts.DeclaredWidth, opts.DeclaredHeight
	if populate {
		// The destination is shaped to the decoded size, leaving no room
		// for a placement offset.
		if opts.X != 0 || opts.Y != 0 {
			return ErrInvalidArgument
		}
	} else {
		if opts.X+m.Width() > dst.Width ||
			opts.Y+m.Height() > dst.Rows ||
			opts.Depth != 32 ||
			dst.Mode != ModeBGRA {
			return ErrInvalidArgument
		}
		declWidth, declHeight = m.Width(), m.Height()
	}
	if declWidth < 0 || declHeight < 0 {
		return ErrInvalidArgument
	}

	// Scratch sized from the declared metrics. The decoder bounds its own
	// writes, so a successful decode reporting a different size is not an
	// overflow; the reported size simply wins from here on.
	scratch := l.alloc.Alloc(declWidth * declHeight * 4)
	if scratch == nil {
		return ErrOutOfMemory
	}
	defer l.alloc.Free(scratch)

	pix, width, height, err := l.dec.Decode(data, scratch)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownFileFormat, err)
	}

	if populate {
		if err := m.Resolve(width, height); err != nil {
			return err
		}
		dst.Width = width
		dst.Rows = height
		dst.Mode = ModeBGRA
		dst.Pitch = width * 4
	} else if width != m.Width() || height != m.Height() {
		// Defined skip: only overwrite when the decode matches exactly.
		// The glyph's already-painted state is left untouched.
		Logger().Debug("sbit: decoded size differs from resolved metrics, skipping",
			"decoded_w", width, "decoded_h", height,
			"metrics_w", m.Width(), "metrics_h", m.Height())
		return nil
	}

	if opts.MetricsOnly {
		return nil
	}

	premultiplyPixels(pix[:width*height*4])

	if populate {
		// Backing storage is sized only now that the final dimensions
		// are known. This allocation outlives the call: it is installed
		// into the caller's bitmap.
		buf := l.alloc.Alloc(dst.Rows * dst.Pitch)
		if buf == nil {
			return ErrOutOfMemory
		}
		dst.Buffer = buf
	}

	rowBytes := width * 4
	xOffset := opts.X * 4
	for row := 0; row < height; row++ {
		dstOff := (opts.Y+row)*dst.Pitch + xOffset
		copy(dst.Buffer[dstOff:dstOff+rowBytes], pix[row*rowBytes:(row+1)*rowBytes])
	}

	return nil
}
