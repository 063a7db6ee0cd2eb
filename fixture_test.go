package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// fixtureChunk builds one complete chunk record (length, type, data,
// CRC) the way a real encoder would, for assembling synthetic PNG byte
// streams in tests without checked-in binary fixtures.
func fixtureChunk(typ string, data []byte) []byte {
	buf := make([]byte, 0, 12+len(data))
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(data)))
	buf = append(buf, lenField[:]...)
	buf = append(buf, typ...)
	buf = append(buf, data...)

	sum := crc32.ChecksumIEEE(buf[4:])
	var crcField [4]byte
	binary.BigEndian.PutUint32(crcField[:], sum)
	buf = append(buf, crcField[:]...)
	return buf
}

func fixtureIHDR(w, h int, bitDepth, colorType, interlace byte) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], uint32(w))
	binary.BigEndian.PutUint32(data[4:8], uint32(h))
	data[8] = bitDepth
	data[9] = colorType
	data[10] = 0
	data[11] = 0
	data[12] = interlace
	return fixtureChunk("IHDR", data)
}

// fixtureDeflate runs raw (already filter-byte-prefixed scanline data)
// through zlib, the inverse of what this package's Decode does to IDAT
// payloads.
func fixtureDeflate(raw []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func fixtureIDAT(raw []byte) []byte {
	return fixtureChunk("IDAT", fixtureDeflate(raw))
}

func fixtureIEND() []byte {
	return fixtureChunk("IEND", nil)
}

func assemblePNG(chunks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature[:])
	for _, c := range chunks {
		buf.Write(c)
	}
	return buf.Bytes()
}

// memSink is a PixelSink that records every write into a dense grid, for
// tests to assert against.
type memSink struct {
	w, h int
	pix  [][4]uint8 // row-major, r,g,b,a packed per cell via helper
}

func newMemSink(w, h int) *memSink {
	return &memSink{w: w, h: h, pix: make([][4]uint8, w*h)}
}

func (s *memSink) SetRGBA(x, y int, r, g, b, a uint8) {
	s.pix[y*s.w+x] = [4]uint8{r, g, b, a}
}

func (s *memSink) at(x, y int) [4]uint8 {
	return s.pix[y*s.w+x]
}

// fixedSink adapts a pre-built PixelSink to Decode's newSink callback,
// for tests that already know the image dimensions up front.
func fixedSink(sink PixelSink) func(Header) (PixelSink, error) {
	return func(Header) (PixelSink, error) { return sink, nil }
}
