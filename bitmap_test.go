package sbit

import "testing"

func TestPixelModeInfo(t *testing.T) {
	tests := []struct {
		mode     PixelMode
		bpp      int
		alpha    bool
		premul   bool
		str      string
		rowBytes int // for width 10
	}{
		{ModeNone, 0, false, false, "None", 0},
		{ModeGray, 1, false, false, "Gray", 10},
		{ModeBGRA, 4, true, true, "BGRA", 40},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			info := tt.mode.Info()
			if info.BytesPerPixel != tt.bpp {
				t.Errorf("BytesPerPixel = %d, want %d", info.BytesPerPixel, tt.bpp)
			}
			if info.HasAlpha != tt.alpha {
				t.Errorf("HasAlpha = %v, want %v", info.HasAlpha, tt.alpha)
			}
			if info.IsPremultiplied != tt.premul {
				t.Errorf("IsPremultiplied = %v, want %v", info.IsPremultiplied, tt.premul)
			}
			if got := tt.mode.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.mode.RowBytes(10); got != tt.rowBytes {
				t.Errorf("RowBytes(10) = %d, want %d", got, tt.rowBytes)
			}
			if !tt.mode.IsValid() {
				t.Error("IsValid() = false for known mode")
			}
		})
	}
}

func TestPixelMode_Invalid(t *testing.T) {
	bad := PixelMode(200)
	if bad.IsValid() {
		t.Error("IsValid() = true for out-of-range mode")
	}
	if got := bad.String(); got != "Unknown" {
		t.Errorf("String() = %q, want %q", got, "Unknown")
	}
	if info := bad.Info(); info != (PixelModeInfo{}) {
		t.Errorf("Info() = %+v, want zero value", info)
	}
}

func TestBitmap_Row(t *testing.T) {
	// 2x3 BGRA bitmap with 4 bytes of pitch padding per row.
	b := Bitmap{
		Width:  2,
		Rows:   3,
		Pitch:  12,
		Mode:   ModeBGRA,
		Buffer: make([]byte, 36),
	}
	for i := range b.Buffer {
		b.Buffer[i] = byte(i)
	}

	row := b.Row(1)
	if len(row) != 8 {
		t.Fatalf("Row(1) length = %d, want 8", len(row))
	}
	if row[0] != 12 {
		t.Errorf("Row(1)[0] = %d, want 12", row[0])
	}

	if b.Row(-1) != nil {
		t.Error("Row(-1) != nil")
	}
	if b.Row(3) != nil {
		t.Error("Row(3) != nil")
	}

	var empty Bitmap
	if empty.Row(0) != nil {
		t.Error("Row(0) on empty bitmap != nil")
	}
}

func TestBitmap_PixelOffset(t *testing.T) {
	b := Bitmap{Width: 4, Rows: 4, Pitch: 16, Mode: ModeBGRA}

	if got := b.PixelOffset(2, 3); got != 3*16+2*4 {
		t.Errorf("PixelOffset(2, 3) = %d, want %d", got, 3*16+2*4)
	}
	for _, xy := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if got := b.PixelOffset(xy[0], xy[1]); got != -1 {
			t.Errorf("PixelOffset(%d, %d) = %d, want -1", xy[0], xy[1], got)
		}
	}
}

func TestBitmap_IsEmpty(t *testing.T) {
	tests := []struct {
		name        string
		width, rows int
		want        bool
	}{
		{"both zero", 0, 0, true},
		{"zero width", 0, 5, true},
		{"zero rows", 5, 0, true},
		{"non-empty", 5, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bitmap{Width: tt.width, Rows: tt.rows}
			if got := b.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBitmap_ByteSize(t *testing.T) {
	b := Bitmap{Buffer: make([]byte, 64)}
	if got := b.ByteSize(); got != 64 {
		t.Errorf("ByteSize() = %d, want 64", got)
	}
	var empty Bitmap
	if got := empty.ByteSize(); got != 0 {
		t.Errorf("ByteSize() = %d, want 0", got)
	}
}
