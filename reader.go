package png

import (
	"compress/zlib"
	"io"

	"github.com/pkg/errors"
)

// Decoder drives a single streaming decode of one PNG image (§4). It is
// not reusable across images; construct a fresh Decoder per Decode call.
type Decoder struct {
	cr   *chunkReader
	opts Options

	header  Header
	pal     *palette
	meta    Metadata
	sawIHDR bool
	sawPLTE bool
	sawTRNS bool
	sawPHYs bool

	// bufs rents the current/previous scanline buffers decodeProgressive
	// swaps between, reused across every row of a pass and, for Adam7,
	// by a later pass whenever a returned buffer is large enough for its
	// scanlines (§5, §9).
	bufs bufferPool
}

// NewDecoder prepares a Decoder reading from r. No bytes are consumed
// until Decode is called.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	return &Decoder{cr: newChunkReader(r), opts: opts.withDefaults()}
}

// Decode runs the full decode: container parsing, zlib inflation,
// unfiltering, and (if interlaced) Adam7 reassembly, pushing every pixel
// into the sink newSink builds. It returns the validated header and
// whatever metadata chunks were encountered.
//
// newSink is called with the validated Header once the first IDAT chunk
// is reached, before any pixel data is read, so the caller can size its destination
// buffer — this package never buffers the whole image itself and so
// never learns Width/Height any earlier than its caller needs to.
func (d *Decoder) Decode(newSink func(Header) (PixelSink, error)) (Header, Metadata, error) {
	if err := d.cr.checkSignature(d.opts.Strict); err != nil {
		return Header{}, Metadata{}, err
	}

	idat, err := d.readUntilIDAT()
	if err != nil {
		return Header{}, Metadata{}, err
	}

	sink, err := newSink(d.header)
	if err != nil {
		return Header{}, Metadata{}, err
	}

	zr, err := zlib.NewReader(idat)
	if err != nil {
		return Header{}, Metadata{}, errors.Wrap(newError(CorruptData, "bad zlib stream: %v", err), "opening IDAT stream")
	}

	if d.header.Interlace == InterlaceAdam7 {
		if err := d.decodeInterlaced(zr, sink); err != nil {
			return Header{}, Metadata{}, err
		}
	} else {
		g := rowGeometry{colStride: 1}
		if err := d.decodeProgressive(zr, sink, d.header.Width, d.header.Height, g, pass{}); err != nil {
			return Header{}, Metadata{}, err
		}
	}
	if err := zr.Close(); err != nil {
		return Header{}, Metadata{}, newError(CorruptData, "zlib stream close: %v", err)
	}

	if err := idat.drainAndVerify(); err != nil {
		return Header{}, Metadata{}, err
	}

	if err := d.readTrailer(); err != nil {
		return Header{}, Metadata{}, err
	}

	return d.header, d.meta, nil
}

// readUntilIDAT consumes IHDR and every chunk preceding the image data,
// dispatching ancillary chunks as it goes, and returns an idatReader
// primed with the first IDAT chunk's header already read.
func (d *Decoder) readUntilIDAT() (*idatReader, error) {
	for {
		h, err := d.cr.readHeader()
		if err != nil {
			if err == io.EOF {
				return nil, newError(TruncatedStream, "stream ended before any image data")
			}
			return nil, err
		}

		switch h.name() {
		case "IHDR":
			if d.sawIHDR {
				return nil, newError(CorruptData, "duplicate IHDR")
			}
			data, err := d.cr.readPayload(h)
			if err != nil {
				return nil, err
			}
			hdr, err := parseIHDR(data, d.opts.MaxDimension)
			if err != nil {
				return nil, err
			}
			d.header = hdr
			d.sawIHDR = true
		case "IDAT":
			if !d.sawIHDR {
				return nil, newError(CorruptData, "IDAT before IHDR")
			}
			if d.header.ColorType == ColorPalette && d.pal == nil {
				return nil, newError(CorruptData, "IDAT before required PLTE")
			}
			return newIdatReader(d.cr, h), nil
		default:
			if !d.sawIHDR {
				return nil, newError(CorruptData, "%s before IHDR", h.name())
			}
			if err := d.dispatchAncillary(h, true); err != nil {
				return nil, err
			}
		}
	}
}

// dispatchAncillary handles every chunk type that isn't IHDR/IDAT/IEND,
// both before and after the image data sequence. beforeIDAT governs the
// chunks (PLTE, tRNS, pHYs) that strict mode restricts to appearing only
// ahead of pixel data.
func (d *Decoder) dispatchAncillary(h chunkHeader, beforeIDAT bool) error {
	switch h.name() {
	case "PLTE":
		if d.opts.Strict {
			if !beforeIDAT {
				return newError(CorruptData, "PLTE after IDAT")
			}
			if d.sawPLTE {
				return newError(CorruptData, "duplicate PLTE")
			}
		}
		data, err := d.cr.readPayload(h)
		if err != nil {
			return err
		}
		pal, err := parsePLTE(data)
		if err != nil {
			return err
		}
		d.pal = pal
		d.sawPLTE = true
		return nil
	case "tRNS":
		if d.opts.Strict {
			if !beforeIDAT {
				return newError(CorruptData, "tRNS after IDAT")
			}
			if d.sawTRNS {
				return newError(CorruptData, "duplicate tRNS")
			}
		}
		data, err := d.cr.readPayload(h)
		if err != nil {
			return err
		}
		d.sawTRNS = true
		if d.header.ColorType == ColorPalette {
			if d.pal == nil {
				return newError(CorruptData, "tRNS before PLTE")
			}
			return d.pal.applyTRNS(data)
		}
		return nil // accepted but unused for non-palette images
	case "pHYs":
		if d.opts.Strict {
			if !beforeIDAT {
				return newError(CorruptData, "pHYs after IDAT")
			}
			if d.sawPHYs {
				return newError(CorruptData, "duplicate pHYs")
			}
		}
		d.sawPHYs = true
		if d.opts.IgnoreMetadata {
			return d.cr.skip(h)
		}
		data, err := d.cr.readPayload(h)
		if err != nil {
			return err
		}
		phys, err := parsePHYS(data)
		if err != nil {
			return err
		}
		d.meta.Physical = &phys
		return nil
	case "tEXt":
		if d.opts.IgnoreMetadata {
			return d.cr.skip(h)
		}
		data, err := d.cr.readPayload(h)
		if err != nil {
			return err
		}
		entry, err := parseTEXT(data, d.opts.TextEncoding)
		if err != nil {
			return err
		}
		d.meta.Text = append(d.meta.Text, entry)
		return nil
	default:
		if h.isCritical() {
			return newError(UnsupportedFormat, "unrecognized critical chunk %s", h.name())
		}
		return d.cr.skip(h)
	}
}

// readTrailer consumes every chunk after the IDAT sequence, up to and
// including IEND.
func (d *Decoder) readTrailer() error {
	for {
		h, err := d.cr.readHeader()
		if err != nil {
			if err == io.EOF {
				return newError(MissingEnd, "stream ended without IEND")
			}
			return err
		}
		switch h.name() {
		case "IEND":
			if h.length != 0 {
				return newError(CorruptData, "IEND length must be 0, got %d", h.length)
			}
			return d.cr.verifyCRC(h)
		case "IDAT":
			return newError(CorruptData, "IDAT chunks are not contiguous")
		default:
			if err := d.dispatchAncillary(h, false); err != nil {
				return err
			}
		}
	}
}

// decodeProgressive reads h rows of w pixels each from zr and expands
// them into sink via g (whose y field is overwritten per row). p's
// firstRow/rowStride map row index to true image y when decoding one
// Adam7 pass; pass{} (both zero) gives identity mapping for a
// non-interlaced image.
func (d *Decoder) decodeProgressive(zr io.Reader, sink PixelSink, w, h int, g rowGeometry, p pass) error {
	if w == 0 || h == 0 {
		return nil
	}
	bpp := filterByteDistance(d.header.BitDepth, d.header.ColorType)
	rowLen := scanlineLen(w, d.header.BitDepth, d.header.ColorType)
	cur := d.bufs.get(rowLen - 1)
	prev := d.bufs.get(rowLen - 1)
	defer d.bufs.put(cur)
	defer d.bufs.put(prev)
	var filterByte [1]byte

	// previous must be treated as all-zero at the start of every pass
	// (§4.5); a rented buffer may carry a prior pass's bytes, so it
	// cannot be assumed zero the way a fresh make() is.
	for i := range prev {
		prev[i] = 0
	}

	g.width = w
	rowStride := p.rowStride
	if rowStride == 0 {
		rowStride = 1
	}
	for row := 0; row < h; row++ {
		if _, err := io.ReadFull(zr, filterByte[:]); err != nil {
			return classifyRowRead(err)
		}
		if _, err := io.ReadFull(zr, cur); err != nil {
			return classifyRowRead(err)
		}
		if err := unfilter(filterByte[0], cur, prev, bpp); err != nil {
			return err
		}
		g.y = p.firstRow + row*rowStride
		if err := expandRow(sink, cur, d.header, d.pal, g); err != nil {
			return err
		}
		cur, prev = prev, cur
	}
	return nil
}

// decodeInterlaced walks the seven Adam7 passes in order, decoding each
// one's sub-image (possibly empty) against the true pixel coordinates
// its geometry implies.
func (d *Decoder) decodeInterlaced(zr io.Reader, sink PixelSink) error {
	for _, p := range adam7Passes {
		subW := subWidth(p, d.header.Width)
		subH := subHeight(p, d.header.Height)
		g := rowGeometry{firstCol: p.firstCol, colStride: p.colStride}
		if err := d.decodeProgressive(zr, sink, subW, subH, g, p); err != nil {
			return err
		}
	}
	return nil
}

// classifyRowRead maps a failed read of inflated pixel data onto §7:
// the stream ran out before every row the header promised arrived.
func classifyRowRead(err error) error {
	if _, ok := KindOf(err); ok {
		return err // already classified, e.g. by idatReader
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return newError(TruncatedStream, "image data ended before all scanlines were read: %v", err)
	}
	return newError(CorruptData, "inflating image data: %v", err)
}
