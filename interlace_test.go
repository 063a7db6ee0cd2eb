package png

import "testing"

func TestAdam7SubExtentCoversWholeImage(t *testing.T) {
	const w, h = 8, 8
	covered := make([][]bool, h)
	for i := range covered {
		covered[i] = make([]bool, w)
	}
	for _, p := range adam7Passes {
		subW := subWidth(p, w)
		subH := subHeight(p, h)
		for row := 0; row < subH; row++ {
			y := p.firstRow + row*p.rowStride
			for col := 0; col < subW; col++ {
				x := p.firstCol + col*p.colStride
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one pass", x, y)
				}
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) never covered by any pass", x, y)
			}
		}
	}
}

func TestSubExtentSmallImage(t *testing.T) {
	// A 1x1 image: only the very first Adam7 pass (firstCol=0,firstRow=0)
	// touches the single pixel; every other pass must see a zero extent in
	// at least one dimension, which leaves it empty.
	p0 := adam7Passes[0]
	if subWidth(p0, 1) != 1 || subHeight(p0, 1) != 1 {
		t.Fatalf("pass 0 should cover the single pixel of a 1x1 image")
	}
	for i, p := range adam7Passes[1:] {
		if subWidth(p, 1) != 0 && subHeight(p, 1) != 0 {
			t.Fatalf("pass %d should be empty for a 1x1 image", i+1)
		}
	}
}

func TestSubExtentZeroAtOffsetBeyondDimension(t *testing.T) {
	p := pass{firstCol: 4, firstRow: 0, colStride: 8, rowStride: 8}
	if got := subWidth(p, 3); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
