package universe

/*
	Sparse engine
	only the neighborhoods of alive cells are visited, O(alive*8)
	alive cells which never show up in the counts have no alive neighbors and always die
*/
type SparseEngine struct{}

func (SparseEngine) Name() string { return "sparse" }

func (SparseEngine) Advance(req Request) Generation {
	p := req.Population
	counts := SparseCounts(p, req.Dimensions)
	var born, died []Coord
	for c, n := range counts {
		cur := Dead
		if p.IsAlive(c) {
			cur = Alive
		}
		next := NextState(cur, n, req.Rules)
		switch {
		case cur == Dead && next == Alive:
			born = append(born, c)
		case cur == Alive && next == Dead:
			died = append(died, c)
		}
	}
	//isolated cells
	p.ForEachAlive(func(c Coord) {
		if _, ok := counts[c]; !ok && NextState(Alive, 0, req.Rules) == Dead {
			died = append(died, c)
		}
	})
	sortRowMajor(born)
	sortRowMajor(died)
	return newGeneration(req, born, died)
}
