package png

import "io"

var idatType = [4]byte{'I', 'D', 'A', 'T'}

// idatReader presents the concatenation of every IDAT chunk's payload as
// a single continuous byte stream, hiding chunk boundaries from the
// zlib inflater and, above that, from the row decoder. It is itself an
// io.Reader so compress/zlib can wrap it directly.
//
// Reads on the underlying source are assumed blocking, so crossing an
// IDAT boundary needs no coroutine or callback: Read validates the
// exhausted chunk's CRC and pulls the next IDAT's header directly off
// the same stream in-line, the same way fumin/png's decoder.Read does.
type idatReader struct {
	cr        *chunkReader
	remaining uint32 // remainingInThisIdat
}

func newIdatReader(cr *chunkReader, first chunkHeader) *idatReader {
	return &idatReader{cr: cr, remaining: first.length}
}

func (r *idatReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for r.remaining == 0 {
		if err := r.cr.verifyCRC(chunkHeader{typ: idatType}); err != nil {
			return 0, err
		}
		h, err := r.cr.readHeader()
		if err != nil {
			if err == io.EOF {
				return 0, newError(TruncatedStream, "stream ended mid image data")
			}
			return 0, err
		}
		if h.name() != "IDAT" {
			return 0, newError(CorruptData, "expected another IDAT chunk, found %s", h.name())
		}
		r.remaining = h.length
	}
	n := len(p)
	if uint32(n) > r.remaining {
		n = int(r.remaining)
	}
	read, err := r.cr.r.Read(p[:n])
	r.cr.hash.Update(p[:read])
	r.remaining -= uint32(read)
	return read, err
}

// drainAndVerify consumes any bytes of the current IDAT chunk the zlib
// reader never asked for (normal once it has seen the final deflate
// block and its Adler-32 trailer) and validates that chunk's CRC. This
// closes a gap a naive port of the read-loop above would otherwise
// have: without it, the final IDAT's CRC is never checked, since
// nothing calls Read again once the zlib reader is satisfied.
func (r *idatReader) drainAndVerify() error {
	var scratch [4096]byte
	for r.remaining > 0 {
		n := len(scratch)
		if uint32(n) > r.remaining {
			n = int(r.remaining)
		}
		read, err := io.ReadFull(r.cr.r, scratch[:n])
		if err != nil {
			return classifyFieldRead(read, err, "IDAT data")
		}
		r.cr.hash.Update(scratch[:read])
		r.remaining -= uint32(read)
	}
	return r.cr.verifyCRC(chunkHeader{typ: idatType})
}
