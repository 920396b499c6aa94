package universe

import (
	"fmt"
	"sort"
)

//Request is the immutable input of one generation step
type Request struct {
	Population Population
	Dimensions Dimensions
	Rules      Rules
}

//Generation is the result of one step
//Changed lists the born cells followed by the died cells, each group in row-major order
type Generation struct {
	Population Population
	Changed    []CellChange
}

//Finished reports whether nothing is alive any more
func (g Generation) Finished() bool {
	return g.Population.AliveCount() == 0
}

//Engine computes the next generation
//implementations must not modify the request population
type Engine interface {
	Name() string
	Advance(req Request) Generation
}

//Engines is the registry of available engine constructors
var Engines = map[string]func() Engine{
	"dense":    func() Engine { return DenseEngine{} },
	"sparse":   func() Engine { return SparseEngine{} },
	"parallel": func() Engine { return NewParallelEngine(DefWorkers) },
}

//DefEngine is used when nothing else is configured
const DefEngine = "sparse"

//EngineNames returns the registered engine names sorted
func EngineNames() (names []string) {
	names = make([]string, 0, len(Engines))
	for k := range Engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

//NewEngine creates the engine registered under name
func NewEngine(name string) (Engine, error) {
	f, ok := Engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	return f(), nil
}

//newGeneration builds the next population from the previous one and the transitions
func newGeneration(req Request, born []Coord, died []Coord) Generation {
	next := req.Population.Clone()
	changed := make([]CellChange, 0, len(born)+len(died))
	for _, c := range born {
		next.Set(c, Alive)
		changed = append(changed, CellChange{X: c.X, Y: c.Y, State: Alive})
	}
	for _, c := range died {
		next.Set(c, Dead)
		changed = append(changed, CellChange{X: c.X, Y: c.Y, State: Dead})
	}
	return Generation{Population: next, Changed: changed}
}
