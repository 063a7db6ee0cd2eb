package png

// pass describes one Adam7 interlacing pass's sampling geometry over the
// full image: it begins at (firstCol, firstRow) and then samples every
// colStride/rowStride'th pixel.
type pass struct {
	firstCol, firstRow   int
	colStride, rowStride int
}

// adam7Passes is the standard 7-pass Adam7 table, grounded on the
// interlaceScan table in ipaPNG.go, generalized from its xFactor/
// yFactor/xOffset/yOffset naming to this package's firstCol/firstRow/
// colStride/rowStride naming.
var adam7Passes = [7]pass{
	{firstCol: 0, firstRow: 0, colStride: 8, rowStride: 8},
	{firstCol: 4, firstRow: 0, colStride: 8, rowStride: 8},
	{firstCol: 0, firstRow: 4, colStride: 4, rowStride: 8},
	{firstCol: 2, firstRow: 0, colStride: 4, rowStride: 4},
	{firstCol: 0, firstRow: 2, colStride: 2, rowStride: 4},
	{firstCol: 1, firstRow: 0, colStride: 2, rowStride: 2},
	{firstCol: 0, firstRow: 1, colStride: 1, rowStride: 2},
}

// subExtent is the shared ceiling-division formula behind both subWidth
// and subHeight: how many samples of stride `stride` starting at offset
// `first` fit within `dim`. It is algebraically the same computation as
// ipaPNG's per-pass (dim-offset+factor-1)/factor, just not duplicated
// seven times.
func subExtent(dim, first, stride int) int {
	if dim <= first {
		return 0
	}
	return (dim - first + stride - 1) / stride
}

func subWidth(p pass, width int) int  { return subExtent(width, p.firstCol, p.colStride) }
func subHeight(p pass, height int) int { return subExtent(height, p.firstRow, p.rowStride) }
