package png

import "testing"

func TestUnfilterSub(t *testing.T) {
	// bpp=3 (e.g. one RGB pixel's worth of distance); first pixel passes
	// through unchanged, later pixels accumulate the left neighbor.
	cdat := []byte{10, 20, 30, 5, 5, 5}
	pdat := make([]byte, len(cdat))
	if err := unfilter(ftSub, cdat, pdat, 3); err != nil {
		t.Fatalf("%+v", err)
	}
	want := []byte{10, 20, 30, 15, 25, 35}
	for i := range want {
		if cdat[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, cdat[i], want[i])
		}
	}
}

func TestUnfilterPaethFirstRow(t *testing.T) {
	// On the first row, the "previous" scanline is all zero, so Paeth's
	// predictor degenerates to the left neighbor (c and b both zero).
	cdat := []byte{1, 2, 3, 4, 6, 8, 8, 9, 10}
	pdat := make([]byte, len(cdat))
	bpp := 3
	if err := unfilter(ftPaeth, cdat, pdat, bpp); err != nil {
		t.Fatalf("%+v", err)
	}
	want := []byte{1, 2, 3, 5, 8, 11, 13, 17, 21}
	for i := range want {
		if cdat[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, cdat[i], want[i])
		}
	}
}

func TestUnfilterUp(t *testing.T) {
	cdat := []byte{1, 2, 3}
	pdat := []byte{10, 10, 10}
	if err := unfilter(ftUp, cdat, pdat, 1); err != nil {
		t.Fatalf("%+v", err)
	}
	want := []byte{11, 12, 13}
	for i := range want {
		if cdat[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, cdat[i], want[i])
		}
	}
}

func TestUnfilterNone(t *testing.T) {
	cdat := []byte{1, 2, 3}
	orig := append([]byte(nil), cdat...)
	if err := unfilter(ftNone, cdat, make([]byte, 3), 1); err != nil {
		t.Fatalf("%+v", err)
	}
	for i := range orig {
		if cdat[i] != orig[i] {
			t.Fatalf("ftNone modified byte %d", i)
		}
	}
}

func TestUnfilterUnknownType(t *testing.T) {
	cdat := make([]byte, 3)
	if err := unfilter(5, cdat, cdat, 1); err == nil {
		t.Fatal("expected an error for unknown filter type")
	} else if kind, ok := KindOf(err); !ok || kind != CorruptData {
		t.Fatalf("got %v, want CorruptData", err)
	}
}

func TestPaethTieBreaksLeft(t *testing.T) {
	// a=b=c all equal: estimate equals all three, so the left neighbor
	// wins the tie.
	if got := paeth(5, 5, 5); got != 5 {
		t.Fatalf("got %d", got)
	}
}
