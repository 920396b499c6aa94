package universe

//Coord is the cell position on the field, X is a column and Y is a row
type Coord struct {
	X int
	Y int
}

//Dimensions describes the field size, the field wraps in both axes
type Dimensions struct {
	Width  int
	Height int
}

//Area returns the number of cells on the field
func (d Dimensions) Area() int {
	return d.Width * d.Height
}

//Contains reports whether x, y lies inside the field without wrapping
func (d Dimensions) Contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < d.Width && y < d.Height
}

//Index returns the linear index of the coordinate in row-major order
func (d Dimensions) Index(c Coord) int {
	return c.Y*d.Width + c.X
}

//Coord is the inverse of Index
func (d Dimensions) Coord(i int) Coord {
	return Coord{X: i % d.Width, Y: i / d.Width}
}

//Wrap maps coord onto [0, dimension) using the mathematical modulo
func Wrap(coord int, dimension int) int {
	return (coord%dimension + dimension) % dimension
}

//neighborOffsets is the fixed iteration order of the 8 neighbors
var neighborOffsets = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

//NeighborsOf returns the 8 toroidally wrapped neighbors of x, y
func NeighborsOf(x int, y int, d Dimensions) [8]Coord {
	var n [8]Coord
	for i, o := range neighborOffsets {
		n[i] = Coord{X: Wrap(x+o.X, d.Width), Y: Wrap(y+o.Y, d.Height)}
	}
	return n
}
