package png

import "sync"

// bufferPool hands out scanline-sized byte slices for the current and
// previous rows (§9: "scanline buffers are pool-returned, not
// reallocated per row"). Decoder.decodeProgressive rents both buffers
// from its Decoder's bufferPool and returns them when it's done with a
// pass, so a later Adam7 pass can reuse them. A pooled buffer whose
// capacity is smaller than the requested length is dropped and a fresh
// one allocated. The pool belongs to a single-use Decoder, so buffers
// are not shared between images.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) get(n int) []byte {
	if v := p.pool.Get(); v != nil {
		buf := v.([]byte)
		if cap(buf) >= n {
			return buf[:n]
		}
	}
	return make([]byte, n)
}

func (p *bufferPool) put(buf []byte) {
	p.pool.Put(buf[:0:cap(buf)]) //nolint:staticcheck // reset length, keep capacity
}
