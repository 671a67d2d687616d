// Package cache provides a sharded LRU cache for loaded glyph bitmaps.
//
// Decoding a PNG glyph and premultiplying its pixels is far more
// expensive than a map lookup, and text rendering asks for the same few
// glyphs over and over. Cache keeps the decoded [sbit.Glyph] values
// around, keyed by font, glyph ID, and strike size, with both
// capacity-based and frame-based eviction.
package cache
