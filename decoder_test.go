package sbit

import (
	"image"
	"image/color"
	"testing"
)

func TestPNGDecoder_NRGBA(t *testing.T) {
	data := solidPNG(t, 3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	var dec pngDecoder
	pix, width, height, err := dec.Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if width != 3 || height != 2 {
		t.Fatalf("Decode() size = %dx%d, want 3x2", width, height)
	}
	if len(pix) != 3*2*4 {
		t.Fatalf("pix length = %d, want %d", len(pix), 3*2*4)
	}
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 10 || pix[i+1] != 20 || pix[i+2] != 30 || pix[i+3] != 40 {
			t.Fatalf("pixel %d = %v, want [10 20 30 40] (straight alpha)", i/4, pix[i:i+4])
		}
	}
}

func TestPNGDecoder_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	data := encodePNG(t, img)

	var dec pngDecoder
	pix, width, height, err := dec.Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if width != 2 || height != 2 {
		t.Fatalf("Decode() size = %dx%d, want 2x2", width, height)
	}
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 0x80 || pix[i+1] != 0x80 || pix[i+2] != 0x80 || pix[i+3] != 0xFF {
			t.Fatalf("pixel %d = %v, want [128 128 128 255]", i/4, pix[i:i+4])
		}
	}
}

func TestPNGDecoder_Paletted(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 0xFF, A: 0xFF},
		color.NRGBA{B: 0xFF, A: 0xFF},
	}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	img.SetColorIndex(0, 0, 0)
	img.SetColorIndex(1, 0, 1)
	data := encodePNG(t, img)

	var dec pngDecoder
	pix, width, height, err := dec.Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if width != 2 || height != 1 {
		t.Fatalf("Decode() size = %dx%d, want 2x1", width, height)
	}
	if pix[0] != 0xFF || pix[3] != 0xFF {
		t.Errorf("pixel 0 = %v, want red opaque", pix[0:4])
	}
	if pix[6] != 0xFF || pix[7] != 0xFF {
		t.Errorf("pixel 1 = %v, want blue opaque", pix[4:8])
	}
}

func TestPNGDecoder_ScratchReuse(t *testing.T) {
	data := solidPNG(t, 4, 4, color.NRGBA{R: 1, A: 0xFF})

	scratch := make([]byte, 4*4*4)
	var dec pngDecoder
	pix, _, _, err := dec.Decode(data, scratch)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if &pix[0] != &scratch[0] {
		t.Error("Decode() allocated a new buffer despite sufficient scratch")
	}
}

func TestPNGDecoder_ScratchTooSmall(t *testing.T) {
	data := solidPNG(t, 4, 4, color.NRGBA{R: 1, A: 0xFF})

	scratch := make([]byte, 8)
	var dec pngDecoder
	pix, _, _, err := dec.Decode(data, scratch)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(pix) != 4*4*4 {
		t.Errorf("pix length = %d, want %d", len(pix), 4*4*4)
	}
	if len(scratch) > 0 && &pix[0] == &scratch[0] {
		t.Error("Decode() reused an undersized scratch buffer")
	}
}

func TestPNGDecoder_Invalid(t *testing.T) {
	var dec pngDecoder
	for _, data := range [][]byte{nil, []byte("JFIF not png")} {
		if _, _, _, err := dec.Decode(data, nil); err == nil {
			t.Errorf("Decode(%q) error = nil, want non-nil", data)
		}
	}
}
