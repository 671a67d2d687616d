package sbit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Decoder decodes an encoded glyph image into straight-alpha RGBA pixels.
//
// Decode is handed the input byte span exactly as found in the font table;
// the input is untrusted and must never be read past its length. scratch
// is a caller-provided buffer the implementation may use as the pixel
// destination when it is large enough; otherwise the implementation
// returns its own allocation. On success the returned slice holds exactly
// width*height*4 bytes in row-major R, G, B, A order with straight
// (non-premultiplied) alpha. On failure no usable output is returned.
type Decoder interface {
	Decode(data []byte, scratch []byte) (pix []byte, width, height int, err error)
}

// pngDecoder is the default Decoder, backed by the standard library PNG
// decoder.
type pngDecoder struct{}

func (pngDecoder) Decode(data []byte, scratch []byte) ([]byte, int, int, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("sbit: decode PNG: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	need := width * height * 4
	pix := scratch
	if len(pix) < need {
		pix = make([]byte, need)
	} else {
		pix = pix[:need]
	}

	// Fast path for NRGBA, the common decode result for color PNGs with
	// an alpha channel. NRGBA is already straight-alpha RGBA.
	if nrgba, ok := img.(*image.NRGBA); ok {
		rowBytes := width * 4
		for y := 0; y < height; y++ {
			srcStart := y * nrgba.Stride
			copy(pix[y*rowBytes:(y+1)*rowBytes], nrgba.Pix[srcStart:srcStart+rowBytes])
		}
		return pix, width, height, nil
	}

	// Generic path for grayscale, paletted, and 16-bit decodes.
	// NRGBAModel conversion yields straight alpha for every source type.
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
			i += 4
		}
	}
	return pix, width, height, nil
}
