package universe

//DenseCounts sums the alive neighbors of every cell of the field
//the result is indexed the same way as Dense cells
func DenseCounts(p Population, d Dimensions) []uint8 {
	dp := denseView(p, d)
	counts := make([]uint8, d.Area())
	countRows(dp, counts, 0, d.Height)
	return counts
}

//countRows fills counts for rows [y1, y2), counts[0] is the cell (0, y1)
func countRows(p *Dense, counts []uint8, y1 int, y2 int) {
	d := p.dims
	for y := y1; y < y2; y++ {
		for x := 0; x < d.Width; x++ {
			var n uint8
			for _, c := range NeighborsOf(x, y, d) {
				n += p.cells[d.Index(c)]
			}
			counts[(y-y1)*d.Width+x] = n
		}
	}
}

//SparseCounts increments a counter for each neighbor of every alive cell
//cells missing from the result have no alive neighbors
func SparseCounts(p Population, d Dimensions) map[Coord]int {
	counts := make(map[Coord]int, p.AliveCount()*8)
	p.ForEachAlive(func(c Coord) {
		for _, n := range NeighborsOf(c.X, c.Y, d) {
			counts[n]++
		}
	})
	return counts
}

//denseView returns p itself when it is already dense of size d, a dense copy otherwise
//the result must not be modified
func denseView(p Population, d Dimensions) *Dense {
	if dp, ok := p.(*Dense); ok && dp.dims == d {
		return dp
	}
	return ToDense(p, d)
}
