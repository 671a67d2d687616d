package sbit

import "errors"

// MaxBitmapDim is the largest width or height a glyph bitmap may resolve
// to. The bound keeps pitch and area arithmetic comfortably inside int32
// range (0x7FFF * 0x7FFF * 4 < 2^32) and rejects pathological allocations.
const MaxBitmapDim = 0x7FFF

// ErrMetricsResolved is returned by Metrics.Resolve when the metrics have
// already been resolved. Resolution is a one-way transition.
var ErrMetricsResolved = errors.New("sbit: metrics already resolved")

// metricsState tags whether a glyph's bitmap metrics have been fixed.
type metricsState uint8

const (
	metricsUnresolved metricsState = iota
	metricsResolved
)

// Metrics is the width/height footprint of one glyph's rendered bitmap.
//
// A zero Metrics is unresolved. The first successful load resolves it from
// the decoded image; from then on the dimensions are immutable and later
// loads only verify against them. Dispatching load behavior from this state
// tag (rather than a caller-supplied flag) makes it impossible to re-enter
// the populate path once the metrics are fixed.
type Metrics struct {
	state  metricsState
	width  uint16
	height uint16
}

// Resolved reports whether the metrics have been fixed.
func (m *Metrics) Resolved() bool {
	return m.state == metricsResolved
}

// Width returns the resolved width in pixels, or 0 if unresolved.
func (m *Metrics) Width() int {
	return int(m.width)
}

// Height returns the resolved height in pixels, or 0 if unresolved.
func (m *Metrics) Height() int {
	return int(m.height)
}

// Resolve fixes the metrics to the given dimensions.
//
// Returns ErrMetricsResolved if the metrics are already resolved, and
// ErrBitmapTooLarge if either dimension is negative or above MaxBitmapDim.
// On error the metrics stay unresolved, so a failed resolution does not
// consume the one-way transition.
func (m *Metrics) Resolve(width, height int) error {
	if m.state == metricsResolved {
		return ErrMetricsResolved
	}
	if width < 0 || height < 0 || width > MaxBitmapDim || height > MaxBitmapDim {
		return ErrBitmapTooLarge
	}
	m.width = uint16(width)
	m.height = uint16(height)
	m.state = metricsResolved
	return nil
}

// Reset returns the metrics to the unresolved state. Intended for reusing
// a glyph slot for a different glyph; the caller owns that lifecycle.
func (m *Metrics) Reset() {
	*m = Metrics{}
}
