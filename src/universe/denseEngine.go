package universe

/*
	Dense engine
	neighbors are counted for every cell of the field and every cell is evaluated
	O(width*height*8) regardless of how many cells are alive
*/
type DenseEngine struct{}

func (DenseEngine) Name() string { return "dense" }

func (DenseEngine) Advance(req Request) Generation {
	dp := denseView(req.Population, req.Dimensions)
	born, died := evalRows(dp, req.Rules, 0, req.Dimensions.Height)
	return newGeneration(req, born, died)
}

//evalRows evaluates rows [y1, y2) and returns the transitions in row-major order
func evalRows(dp *Dense, r Rules, y1 int, y2 int) (born []Coord, died []Coord) {
	d := dp.dims
	counts := make([]uint8, (y2-y1)*d.Width)
	countRows(dp, counts, y1, y2)
	offset := y1 * d.Width
	for j, n := range counts {
		i := offset + j
		cur := CellState(dp.cells[i])
		next := NextState(cur, int(n), r)
		if next == cur {
			continue
		}
		if next == Alive {
			born = append(born, d.Coord(i))
		} else {
			died = append(died, d.Coord(i))
		}
	}
	return
}
