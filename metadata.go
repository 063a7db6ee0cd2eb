package png

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

// palette holds the decoded PLTE (and, if present, tRNS) entries for a
// ColorPalette image. Missing alpha entries default to fully opaque
// (255), per §4.7 and the common PNG convention poolqa's ipaPNG.go
// follows for CgBI-flavored palettes.
type palette struct {
	entries [256][3]uint8
	alpha   [256]uint8
	size    int
}

func parsePLTE(data []byte) (*palette, error) {
	if len(data) == 0 || len(data)%3 != 0 {
		return nil, newError(CorruptData, "PLTE length %d not a multiple of 3", len(data))
	}
	n := len(data) / 3
	if n > 256 {
		return nil, newError(CorruptData, "PLTE has more than 256 entries")
	}
	p := &palette{size: n}
	for i := 0; i < n; i++ {
		p.entries[i] = [3]uint8{data[i*3], data[i*3+1], data[i*3+2]}
		p.alpha[i] = 255
	}
	return p, nil
}

// applyTRNS overlays a tRNS chunk's alpha values onto an existing
// palette. It must run after PLTE and before any IDAT (§6's chunk-order
// rules).
func (p *palette) applyTRNS(data []byte) error {
	if len(data) > p.size {
		return newError(CorruptData, "tRNS has more entries than PLTE")
	}
	for i, a := range data {
		p.alpha[i] = a
	}
	return nil
}

func (p *palette) lookup(index uint8) (r, g, b, a uint8, err error) {
	if int(index) >= p.size {
		return 0, 0, 0, 0, newError(CorruptData, "palette index %d out of range (size %d)", index, p.size)
	}
	e := p.entries[index]
	return e[0], e[1], e[2], p.alpha[index], nil
}

// PhysicalDimensions is the decoded pHYs chunk (§4.7): pixel density
// along each axis, plus whether that density is specified in meters
// (as opposed to an unspecified/unitless aspect ratio).
type PhysicalDimensions struct {
	PixelsPerUnitX, PixelsPerUnitY uint32
	UnitIsMeter                    bool
}

// DPI converts a pHYs density to dots per inch by dividing by 39.3700787
// (inches per metre), per §4.7. The unit-specifier byte is ignored, as
// §4.7 states, so callers needing to distinguish an unspecified-unit
// pHYs (aspect ratio only, not an absolute density) should check
// UnitIsMeter themselves before trusting this as a physical density.
func (d PhysicalDimensions) DPI() (x, y float64) {
	const inchesPerMeter = 39.3700787
	return float64(d.PixelsPerUnitX) / inchesPerMeter, float64(d.PixelsPerUnitY) / inchesPerMeter
}

func parsePHYS(data []byte) (PhysicalDimensions, error) {
	if len(data) != 9 {
		return PhysicalDimensions{}, newError(CorruptData, "pHYs length must be 9, got %d", len(data))
	}
	return PhysicalDimensions{
		PixelsPerUnitX: binary.BigEndian.Uint32(data[0:4]),
		PixelsPerUnitY: binary.BigEndian.Uint32(data[4:8]),
		UnitIsMeter:    data[8] == 1,
	}, nil
}

// TextEntry is one decoded tEXt chunk (§4.7): a keyword and its
// associated text, both already converted from PNG's Latin-1 encoding to
// a Go string.
type TextEntry struct {
	Keyword string
	Text    string
}

// TextDecoder converts a tEXt chunk's raw text bytes (Latin-1 per the
// PNG spec) into a Go string. The default implementation uses
// golang.org/x/text's ISO8859_1 charmap; callers needing other ancillary
// encodings can supply their own.
type TextDecoder interface {
	Decode(raw []byte) (string, error)
}

type latin1Decoder struct{}

func (latin1Decoder) Decode(raw []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", newError(CorruptData, "latin-1 decode failed: %v", err)
	}
	return string(out), nil
}

// parseTEXT splits a tEXt chunk into keyword and text at the first NUL
// byte and decodes both halves. Grounded on XC-Zero's TEXT chunk
// handling, but uses bytes.IndexByte instead of strings.Split on "\x00"
// so a NUL inside the text portion (which must not occur, but which a
// corrupt file might contain) can't silently truncate the keyword scan.
func parseTEXT(data []byte, dec TextDecoder) (TextEntry, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return TextEntry{}, newError(CorruptData, "tEXt missing keyword terminator")
	}
	if i == 0 || i > 79 {
		return TextEntry{}, newError(CorruptData, "tEXt keyword length %d invalid", i)
	}
	keyword, err := dec.Decode(data[:i])
	if err != nil {
		return TextEntry{}, err
	}
	text, err := dec.Decode(data[i+1:])
	if err != nil {
		return TextEntry{}, err
	}
	return TextEntry{Keyword: keyword, Text: text}, nil
}

// Metadata collects the ancillary information gathered alongside pixel
// data (§4.7). It is populated incrementally as chunks are encountered
// and returned to the caller once decoding finishes.
type Metadata struct {
	Physical *PhysicalDimensions
	Text     []TextEntry
}
