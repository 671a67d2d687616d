package sbit

// multiplyAlpha premultiplies one 8-bit channel by an 8-bit alpha using
// the fixed-point rounding (t + t>>8) >> 8 with t = alpha*c + 0x80. The
// result stays within one step of the exact c*alpha/255 and is the form
// reference renderers use, so it must be reproduced bit for bit.
func multiplyAlpha(alpha, c uint32) uint32 {
	t := alpha*c + 0x80
	return (t + (t >> 8)) >> 8
}

// PackBGRA packs four 8-bit channels into a 32-bit pixel with byte order
// blue, green, red, alpha from least to most significant byte.
func PackBGRA(r, g, b, a uint8) uint32 {
	return uint32(b) | uint32(g)<<8 | uint32(r)<<16 | uint32(a)<<24
}

// UnpackBGRA splits a packed BGRA32 pixel into its 8-bit channels.
func UnpackBGRA(p uint32) (r, g, b, a uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p), uint8(p >> 24)
}

// PremultiplyBGRA converts one straight-alpha RGBA pixel into a packed
// premultiplied BGRA32 value.
//
// Fully transparent pixels collapse to zero, discarding any color noise
// hiding under alpha 0; downstream compositing relies on that. Fully
// opaque pixels pass their channels through unchanged.
func PremultiplyBGRA(r, g, b, a uint8) uint32 {
	if a == 0 {
		return 0
	}
	if a == 0xFF {
		return PackBGRA(r, g, b, a)
	}
	alpha := uint32(a)
	return multiplyAlpha(alpha, uint32(b)) |
		multiplyAlpha(alpha, uint32(g))<<8 |
		multiplyAlpha(alpha, uint32(r))<<16 |
		alpha<<24
}

// premultiplyPixels converts straight-alpha RGBA bytes in place to
// premultiplied BGRA bytes. len(pix) must be a multiple of 4.
func premultiplyPixels(pix []byte) {
	for i := 0; i+4 <= len(pix); i += 4 {
		p := PremultiplyBGRA(pix[i], pix[i+1], pix[i+2], pix[i+3])
		pix[i] = uint8(p)
		pix[i+1] = uint8(p >> 8)
		pix[i+2] = uint8(p >> 16)
		pix[i+3] = uint8(p >> 24)
	}
}
