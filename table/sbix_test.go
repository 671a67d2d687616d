package table

import (
	"encoding/binary"
	"errors"
	"testing"

	"golang.org/x/image/math/fixed"
)

// be16 and be32 append big-endian integers, the byte order of every sfnt
// table.
func be16(b []byte, v uint16) []byte { return append(b, byte(v>>8), byte(v)) }
func be32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// sbixRec describes one glyph record in a synthetic strike; nil means the
// glyph has no bitmap data.
type sbixRec struct {
	originX, originY int16
	tag              string
	payload          []byte
}

// sbixStrikeSpec describes one synthetic strike.
type sbixStrikeSpec struct {
	ppem    uint16
	records []*sbixRec // one entry per glyph
}

// buildSbixTable assembles a complete sbix table from strike specs.
func buildSbixTable(numGlyphs int, strikes []sbixStrikeSpec) []byte {
	var b []byte
	b = be16(b, 1) // version
	b = be16(b, 1) // flags: draw outlines flag, ignored
	b = be32(b, uint32(len(strikes)))

	offsetPos := len(b)
	for range strikes {
		b = be32(b, 0) // patched below
	}

	for si, st := range strikes {
		strikeStart := len(b)
		binary.BigEndian.PutUint32(b[offsetPos+si*4:], uint32(strikeStart))

		b = be16(b, st.ppem)
		b = be16(b, 72) // ppi

		glyphOffsetPos := len(b)
		for i := 0; i <= numGlyphs; i++ {
			b = be32(b, 0) // patched below
		}

		rel := uint32(len(b) - strikeStart)
		for gi := 0; gi < numGlyphs; gi++ {
			binary.BigEndian.PutUint32(b[glyphOffsetPos+gi*4:], rel)
			rec := st.records[gi]
			if rec == nil {
				continue
			}
			b = be16(b, uint16(rec.originX))
			b = be16(b, uint16(rec.originY))
			b = append(b, rec.tag...)
			b = append(b, rec.payload...)
			rel = uint32(len(b) - strikeStart)
		}
		binary.BigEndian.PutUint32(b[glyphOffsetPos+numGlyphs*4:], rel)
	}
	return b
}

func TestNewSbix_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNoSbixTable},
		{"too short", []byte{0, 1, 0, 0}, ErrInvalidSbix},
		{"bad version", be32(be16(be16(nil, 2), 0), 0), ErrInvalidSbix},
		{"truncated strike offsets", be32(be16(be16(nil, 1), 0), 50), ErrInvalidSbix},
		{"huge strike count", be32(be16(be16(nil, 1), 0), 0x3FFFFFFE), ErrInvalidSbix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSbix(tt.data, 4)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewSbix() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSbix_Strikes(t *testing.T) {
	data := buildSbixTable(1, []sbixStrikeSpec{
		{ppem: 16, records: []*sbixRec{nil}},
		{ppem: 32, records: []*sbixRec{nil}},
		{ppem: 64, records: []*sbixRec{nil}},
	})

	s, err := NewSbix(data, 1)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	if got := s.NumStrikes(); got != 3 {
		t.Errorf("NumStrikes() = %d, want 3", got)
	}
	if got := s.StrikePPEM(1); got != 32 {
		t.Errorf("StrikePPEM(1) = %d, want 32", got)
	}
	if got := s.StrikePPEM(-1); got != 0 {
		t.Errorf("StrikePPEM(-1) = %d, want 0", got)
	}
	if got := s.StrikePPEM(3); got != 0 {
		t.Errorf("StrikePPEM(3) = %d, want 0", got)
	}

	ppems := s.AvailablePPEMs()
	want := []uint16{16, 32, 64}
	if len(ppems) != len(want) {
		t.Fatalf("AvailablePPEMs() = %v, want %v", ppems, want)
	}
	for i := range want {
		if ppems[i] != want[i] {
			t.Errorf("AvailablePPEMs()[%d] = %d, want %d", i, ppems[i], want[i])
		}
	}
}

func TestSbix_GlyphAtStrike(t *testing.T) {
	payload := []byte("not a real png, but the table does not care")
	data := buildSbixTable(3, []sbixStrikeSpec{
		{ppem: 32, records: []*sbixRec{
			{originX: 1, originY: -2, tag: "png ", payload: payload},
			nil, // glyph 1 has no data
			{tag: "jpg ", payload: []byte{0xFF, 0xD8}},
		}},
	})

	s, err := NewSbix(data, 3)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	g, err := s.GlyphAtStrike(0, 0)
	if err != nil {
		t.Fatalf("GlyphAtStrike(0, 0) error = %v", err)
	}
	if g.Format != FormatPNG {
		t.Errorf("Format = %v, want PNG", g.Format)
	}
	if string(g.Data) != string(payload) {
		t.Errorf("Data = %q, want %q", g.Data, payload)
	}
	if g.OriginX != fixed.I(1) || g.OriginY != fixed.I(-2) {
		t.Errorf("origin = (%v, %v), want (1, -2)", g.OriginX, g.OriginY)
	}
	if g.PPEM != 32 {
		t.Errorf("PPEM = %d, want 32", g.PPEM)
	}
	if g.DeclaredWidth != 0 || g.DeclaredHeight != 0 {
		t.Errorf("declared size = %dx%d, want 0x0 (sbix has no size metrics)",
			g.DeclaredWidth, g.DeclaredHeight)
	}

	jg, err := s.GlyphAtStrike(2, 0)
	if err != nil {
		t.Fatalf("GlyphAtStrike(2, 0) error = %v", err)
	}
	if jg.Format != FormatJPEG {
		t.Errorf("Format = %v, want JPEG", jg.Format)
	}
}

func TestSbix_GlyphNotFound(t *testing.T) {
	data := buildSbixTable(2, []sbixStrikeSpec{
		{ppem: 32, records: []*sbixRec{
			{tag: "png ", payload: []byte("x")},
			nil,
		}},
	})

	s, err := NewSbix(data, 2)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	tests := []struct {
		name    string
		glyphID uint16
		strike  int
	}{
		{"empty glyph range", 1, 0},
		{"glyph beyond numGlyphs", 5, 0},
		{"negative strike", 0, -1},
		{"strike out of range", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.GlyphAtStrike(tt.glyphID, tt.strike)
			if !errors.Is(err, ErrGlyphNotFound) {
				t.Errorf("GlyphAtStrike() error = %v, want ErrGlyphNotFound", err)
			}
		})
	}
}

func TestSbix_HasGlyph(t *testing.T) {
	data := buildSbixTable(2, []sbixStrikeSpec{
		{ppem: 32, records: []*sbixRec{
			{tag: "png ", payload: []byte("x")},
			nil,
		}},
	})

	s, err := NewSbix(data, 2)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	if !s.HasGlyph(0, 0) {
		t.Error("HasGlyph(0, 0) = false, want true")
	}
	if s.HasGlyph(1, 0) {
		t.Error("HasGlyph(1, 0) = true, want false (empty range)")
	}
	if s.HasGlyph(0, 1) {
		t.Error("HasGlyph(0, 1) = true, want false (no such strike)")
	}
	if s.HasGlyph(9, 0) {
		t.Error("HasGlyph(9, 0) = true, want false (glyph out of range)")
	}
}

func TestSbix_UnsupportedGraphicType(t *testing.T) {
	data := buildSbixTable(1, []sbixStrikeSpec{
		{ppem: 32, records: []*sbixRec{
			{tag: "mask", payload: []byte("x")},
		}},
	})

	s, err := NewSbix(data, 1)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}
	_, err = s.GlyphAtStrike(0, 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("GlyphAtStrike() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSbix_BestStrike(t *testing.T) {
	data := buildSbixTable(1, []sbixStrikeSpec{
		{ppem: 16, records: []*sbixRec{nil}},
		{ppem: 32, records: []*sbixRec{nil}},
		{ppem: 64, records: []*sbixRec{nil}},
	})

	s, err := NewSbix(data, 1)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	tests := []struct {
		ppem uint16
		want int
	}{
		{16, 0},
		{32, 1},
		{64, 2},
		{20, 0},
		{24, 1},  // equidistant to 16 and 32, larger wins
		{48, 2},  // equidistant to 32 and 64, larger wins
		{200, 2}, // beyond the largest strike
		{1, 0},
	}
	for _, tt := range tests {
		if got := s.BestStrike(tt.ppem); got != tt.want {
			t.Errorf("BestStrike(%d) = %d, want %d", tt.ppem, got, tt.want)
		}
	}
}

func TestSbix_GlyphForPPEM(t *testing.T) {
	data := buildSbixTable(1, []sbixStrikeSpec{
		{ppem: 16, records: []*sbixRec{{tag: "png ", payload: []byte("small")}}},
		{ppem: 64, records: []*sbixRec{{tag: "png ", payload: []byte("large")}}},
	})

	s, err := NewSbix(data, 1)
	if err != nil {
		t.Fatalf("NewSbix() error = %v", err)
	}

	g, err := s.GlyphForPPEM(0, 60)
	if err != nil {
		t.Fatalf("GlyphForPPEM() error = %v", err)
	}
	if string(g.Data) != "large" {
		t.Errorf("Data = %q, want %q", g.Data, "large")
	}
	if g.PPEM != 64 {
		t.Errorf("PPEM = %d, want 64", g.PPEM)
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPNG, "PNG"},
		{FormatJPEG, "JPEG"},
		{FormatTIFF, "TIFF"},
		{FormatDupe, "Dupe"},
		{FormatRaw, "Raw"},
		{Format(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}
