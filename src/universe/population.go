package universe

import "sort"

//CellState is the state of the single cell
type CellState uint8

const (
	Dead  CellState = 0
	Alive CellState = 1
)

//CellChange is one entry of the changed-cell diff
type CellChange struct {
	X     int
	Y     int
	State CellState
}

//Population is the set of currently alive cells
//Dense and Sparse are two interchangeable encodings of it
type Population interface {
	IsAlive(c Coord) bool
	Set(c Coord, s CellState)
	Toggle(c Coord) CellState
	AliveCount() int
	//ForEachAlive walks the alive cells, the order depends on the encoding
	ForEachAlive(fn func(c Coord))
	Clone() Population
}

//Dense is the flat byte grid, one byte per cell indexed by y*width+x
type Dense struct {
	dims  Dimensions
	cells []uint8
}

//NewDense allocates the all-dead dense population
func NewDense(d Dimensions) *Dense {
	return &Dense{dims: d, cells: make([]uint8, d.Area())}
}

//Dimensions returns the grid size the population was allocated for
func (p *Dense) Dimensions() Dimensions { return p.dims }

//Cells exposes the backing slice
func (p *Dense) Cells() []uint8 { return p.cells }

func (p *Dense) IsAlive(c Coord) bool {
	return p.cells[p.dims.Index(c)] == uint8(Alive)
}

func (p *Dense) Set(c Coord, s CellState) {
	p.cells[p.dims.Index(c)] = uint8(s)
}

func (p *Dense) Toggle(c Coord) CellState {
	i := p.dims.Index(c)
	p.cells[i] ^= 1
	return CellState(p.cells[i])
}

func (p *Dense) AliveCount() int {
	n := 0
	for _, c := range p.cells {
		n += int(c)
	}
	return n
}

//ForEachAlive walks the alive cells in row-major order
func (p *Dense) ForEachAlive(fn func(c Coord)) {
	for i, c := range p.cells {
		if c == uint8(Alive) {
			fn(p.dims.Coord(i))
		}
	}
}

func (p *Dense) Clone() Population {
	cells := make([]uint8, len(p.cells))
	copy(cells, p.cells)
	return &Dense{dims: p.dims, cells: cells}
}

//Sparse keeps only the coordinates of alive cells, absence means dead
type Sparse struct {
	alive map[Coord]struct{}
}

//NewSparse creates the sparse population with the given alive cells
func NewSparse(alive ...Coord) *Sparse {
	s := &Sparse{alive: make(map[Coord]struct{}, len(alive))}
	for _, c := range alive {
		s.alive[c] = struct{}{}
	}
	return s
}

func (p *Sparse) IsAlive(c Coord) bool {
	_, ok := p.alive[c]
	return ok
}

func (p *Sparse) Set(c Coord, s CellState) {
	if s == Alive {
		p.alive[c] = struct{}{}
		return
	}
	delete(p.alive, c)
}

func (p *Sparse) Toggle(c Coord) CellState {
	if p.IsAlive(c) {
		delete(p.alive, c)
		return Dead
	}
	p.alive[c] = struct{}{}
	return Alive
}

func (p *Sparse) AliveCount() int { return len(p.alive) }

//ForEachAlive walks the alive cells in unspecified order
func (p *Sparse) ForEachAlive(fn func(c Coord)) {
	for c := range p.alive {
		fn(c)
	}
}

func (p *Sparse) Clone() Population {
	s := &Sparse{alive: make(map[Coord]struct{}, len(p.alive))}
	for c := range p.alive {
		s.alive[c] = struct{}{}
	}
	return s
}

//Coords returns the alive coordinates sorted by row, then column
func (p *Sparse) Coords() []Coord {
	cs := make([]Coord, 0, len(p.alive))
	for c := range p.alive {
		cs = append(cs, c)
	}
	sortRowMajor(cs)
	return cs
}

//ToSparse converts any population to the sparse encoding
func ToSparse(p Population) *Sparse {
	if s, ok := p.(*Sparse); ok {
		return s.Clone().(*Sparse)
	}
	s := NewSparse()
	p.ForEachAlive(func(c Coord) {
		s.alive[c] = struct{}{}
	})
	return s
}

//ToDense converts any population to the dense encoding of size d
//cells outside d are dropped
func ToDense(p Population, d Dimensions) *Dense {
	if dp, ok := p.(*Dense); ok && dp.dims == d {
		return dp.Clone().(*Dense)
	}
	dp := NewDense(d)
	p.ForEachAlive(func(c Coord) {
		if d.Contains(c.X, c.Y) {
			dp.Set(c, Alive)
		}
	})
	return dp
}

//NewLike returns an empty population with the same encoding as p
func NewLike(p Population, d Dimensions) Population {
	if _, ok := p.(*Dense); ok {
		return NewDense(d)
	}
	return NewSparse()
}

//Apply replays the diff against p in place
func Apply(p Population, changes []CellChange) {
	for _, ch := range changes {
		p.Set(Coord{X: ch.X, Y: ch.Y}, ch.State)
	}
}

//Equal reports whether both populations have the same alive cells
func Equal(a Population, b Population) bool {
	if a.AliveCount() != b.AliveCount() {
		return false
	}
	eq := true
	a.ForEachAlive(func(c Coord) {
		if eq && !b.IsAlive(c) {
			eq = false
		}
	})
	return eq
}

func sortRowMajor(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Y != cs[j].Y {
			return cs[i].Y < cs[j].Y
		}
		return cs[i].X < cs[j].X
	})
}
