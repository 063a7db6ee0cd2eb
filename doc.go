// Package png is a streaming PNG decoder. It consumes a byte stream
// carrying the PNG container format and, row by row, reverses filtering,
// Adam7 interlacing, and all five color types at their supported bit
// depths, pushing 8-bit RGBA pixels into a caller-supplied sink.
//
// It deliberately stops short of being a general-purpose image library:
// there is no public Image type, no pixel-format conversion, and no
// encoder. Callers own the destination pixel grid and implement
// PixelSink; this package owns only the PNG-specific parsing and
// reconstruction.
package png
