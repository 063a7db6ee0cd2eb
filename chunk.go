package png

import (
	"encoding/binary"
	"io"

	"github.com/snksoft/crc"
)

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// maxChunkPayload bounds how large a non-IDAT chunk's declared length
// readPayload is willing to allocate for up front. IDAT bypasses this
// entirely (idatReader streams it without ever buffering a whole
// chunk); every other chunk this package understands — PLTE (<=768),
// tRNS (<=256), pHYs (9), tEXt (conventionally small) — fits comfortably
// within it. Without this bound, a chunk header alone (8 bytes) could
// claim a length near the 31-bit maximum and force a multi-gigabyte
// allocation before a single byte of payload is confirmed to exist.
const maxChunkPayload = 1 << 26

// chunkHeader is the length+type prefix common to every PNG record. The
// data and trailing CRC are read separately: readPayload for ordinary
// chunks, or streamed through idatReader for IDAT.
type chunkHeader struct {
	length uint32
	typ    [4]byte
}

func (h chunkHeader) name() string { return string(h.typ[:]) }

// isCritical reports whether a decoder must understand a chunk type to
// process the file correctly. PNG encodes this in the case of the first
// letter of the chunk name (IHDR, PLTE, IDAT, IEND are critical; every
// ancillary type — bKGD, cHRM, gAMA, hIST, sBIT, tRNS, pHYs, tEXt,
// zTXt, tIME — starts lowercase).
func (h chunkHeader) isCritical() bool {
	return h.typ[0] >= 'A' && h.typ[0] <= 'Z'
}

// chunkReader drives the sequential, CRC-checked record stream that
// makes up a PNG file after the 8-byte signature. It special-cases
// IDAT: readHeader alone is enough to hand streaming control to
// idatReader, which pulls the payload directly without ever buffering a
// whole IDAT chunk.
type chunkReader struct {
	r    io.Reader
	hash *crc.Hash
	buf  [8]byte
}

func newChunkReader(r io.Reader) *chunkReader {
	return &chunkReader{r: r, hash: crc.NewHash(crc.CRC32)}
}

// checkSignature consumes the 8-byte PNG magic. In non-strict mode
// (the default) it is consumed unchecked; Options.Strict enables
// verifying it against pngSignature.
func (cr *chunkReader) checkSignature(strict bool) error {
	var sig [8]byte
	n, err := io.ReadFull(cr.r, sig[:])
	if err != nil {
		return classifyFieldRead(n, err, "png signature")
	}
	if strict && sig != pngSignature {
		return newError(CorruptData, "bad PNG signature")
	}
	return nil
}

// classifyFieldRead turns a failed io.ReadFull result into a decode
// error: input that ends before a field or payload is complete, even
// before its first byte, is always TruncatedStream.
func classifyFieldRead(n int, err error, field string) error {
	if err == nil {
		return nil
	}
	return newError(TruncatedStream, "truncated %s (%d bytes read)", field, n)
}

// readHeader reads the next chunk's length and type fields and resets
// the running CRC for it. It returns unwrapped io.EOF only for a clean,
// zero-byte end of input — the caller decides whether that is expected.
func (cr *chunkReader) readHeader() (chunkHeader, error) {
	n, err := io.ReadFull(cr.r, cr.buf[:8])
	if err != nil {
		if n == 0 && err == io.EOF {
			return chunkHeader{}, io.EOF
		}
		return chunkHeader{}, classifyFieldRead(n, err, "chunk header")
	}
	var h chunkHeader
	h.length = binary.BigEndian.Uint32(cr.buf[0:4])
	copy(h.typ[:], cr.buf[4:8])
	if h.length&0x80000000 != 0 {
		return chunkHeader{}, newError(CorruptData, "chunk length has high bit set: %s", h.name())
	}
	cr.hash.Reset()
	cr.hash.Update(cr.buf[4:8])
	return h, nil
}

// readPayload reads an ordinary (non-IDAT) chunk's data and validates
// its trailing CRC.
func (cr *chunkReader) readPayload(h chunkHeader) ([]byte, error) {
	if h.length > maxChunkPayload {
		return nil, newError(CorruptData, "%s length %d exceeds %d-byte sanity bound", h.name(), h.length, maxChunkPayload)
	}
	data := make([]byte, h.length)
	if h.length > 0 {
		if n, err := io.ReadFull(cr.r, data); err != nil {
			return nil, classifyFieldRead(n, err, h.name()+" data")
		}
	}
	cr.hash.Update(data)
	if err := cr.verifyCRC(h); err != nil {
		return nil, err
	}
	return data, nil
}

// verifyCRC reads the 4-byte trailing CRC and compares it against the
// hash accumulated so far for this chunk (type followed by data).
func (cr *chunkReader) verifyCRC(h chunkHeader) error {
	var buf [4]byte
	n, err := io.ReadFull(cr.r, buf[:])
	if err != nil {
		return classifyFieldRead(n, err, h.name()+" crc")
	}
	want := binary.BigEndian.Uint32(buf[:])
	got := uint32(cr.hash.CRC32())
	if want != got {
		return newError(CorruptData, "crc mismatch in %s chunk: have %08x want %08x", h.name(), got, want)
	}
	return nil
}

// skip discards an unknown or uninteresting chunk's payload, still
// feeding every byte to the running CRC, then validates the checksum.
func (cr *chunkReader) skip(h chunkHeader) error {
	var scratch [4096]byte
	remaining := h.length
	for remaining > 0 {
		n := len(scratch)
		if uint32(n) > remaining {
			n = int(remaining)
		}
		read, err := io.ReadFull(cr.r, scratch[:n])
		if err != nil {
			return classifyFieldRead(read, err, h.name()+" data")
		}
		cr.hash.Update(scratch[:read])
		remaining -= uint32(read)
	}
	return cr.verifyCRC(h)
}
