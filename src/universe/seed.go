package universe

import (
	"errors"
	"math/rand/v2"
	"time"
)

//DefAliveProbability is the chance of a cell to be alive after random seeding
const DefAliveProbability = 0.4

//ErrUnknownTemplate is returned when settling with a template that was never added
var ErrUnknownTemplate = errors.New("unknown template")

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//BuiltinTemplates are registered in every universe
var BuiltinTemplates = []Template{
	{"block", "2x2 still life", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}},
	{"blinker", "period 2 oscillator", [][]int{{1, 0}, {1, 1}, {1, 2}}},
	{"glider", "the smallest spaceship", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"sample", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//NewRand creates the PCG source, zero seed means time based
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

//RandomPopulation makes every cell alive independently with the given probability
func RandomPopulation(d Dimensions, probability float64, rng *rand.Rand, dense bool) Population {
	var p Population = NewSparse()
	if dense {
		p = NewDense(d)
	}
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			if rng.Float64() < probability {
				p.Set(Coord{X: x, Y: y}, Alive)
			}
		}
	}
	return p
}

//settle places the alive cells at the listed x,y coordinates, pairs outside d are skipped
func settle(p Population, d Dimensions, vc [][]int) {
	for _, v := range vc {
		if len(v) < 2 || !d.Contains(v[0], v[1]) {
			continue
		}
		p.Set(Coord{X: v[0], Y: v[1]}, Alive)
	}
}
