// Package sbit loads embedded bitmap ("sbit") glyphs from color fonts.
//
// Color emoji fonts carry pre-rendered glyph images inside font tables:
// sbix (Apple) and CBDT/CBLC (Google), both of which store PNG payloads.
// This package decodes those PNG byte ranges and composites them, as
// premultiplied-alpha BGRA32 pixels, into a caller-owned bitmap surface.
//
// The core entry point is [Loader.Load], which runs a fixed four-stage
// pipeline: validate the request, decode the PNG through a pluggable
// [Decoder], reconcile the decoded dimensions against the glyph's
// [Metrics], and premultiply + blit the pixels into the destination
// [Bitmap] at the requested offset.
//
// Glyph metrics follow a one-way state machine: a fresh [Metrics] value is
// unresolved, and the first successful load resolves it from the decoded
// image. Once resolved, later loads only overwrite pixels when the decode
// matches the resolved size exactly; a mismatched decode is a defined
// no-op, not an error, so re-rendering a cached glyph at another nominal
// size leaves the existing pixels alone.
//
// Subpackages:
//
//   - table: locates PNG glyph ranges in sbix and CBDT/CBLC tables
//   - cache: sharded LRU cache for loaded glyph bitmaps
//
// # Usage
//
//	loader := sbit.NewLoader(nil, nil) // heap allocator, stdlib PNG decoder
//	var bm sbit.Bitmap
//	var m sbit.Metrics
//	err := loader.Load(&bm, &m, pngBytes, sbit.LoadOptions{Depth: 32})
//
// By default the package produces no log output. Call [SetLogger] to
// enable diagnostics.
package sbit
