// Package table locates embedded bitmap glyphs in font tables.
//
// Two table families carry pre-rendered glyph images in OpenType fonts:
//
//   - sbix (Apple): strikes of PNG/JPEG/TIFF payloads per glyph
//   - CBDT/CBLC (Google): PNG payloads indexed by the CBLC location table
//
// The readers in this package parse the raw table bytes and hand out
// [Glyph] values holding the encoded byte range plus the metrics the
// table declares for it. Decoding and compositing of the payload is the
// parent sbit package's job.
//
// [Source] ties both readers to a real font binary: it pulls the raw
// tables out of the sfnt container and picks the preferred format
// (CBDT over sbix, matching the wider platform compatibility of CBDT).
package table
