package universe

import (
	"reflect"
	"testing"
)

//encodings builds the same population in both encodings
func encodings(d Dimensions, alive ...Coord) map[string]Population {
	return map[string]Population{
		"sparse": NewSparse(alive...),
		"dense":  ToDense(NewSparse(alive...), d),
	}
}

func forEachEngine(t *testing.T, fn func(t *testing.T, e Engine)) {
	for _, name := range EngineNames() {
		e, err := NewEngine(name)
		if err != nil {
			t.Fatal(err)
		}
		t.Run(name, func(t *testing.T) { fn(t, e) })
	}
}

func assertAlive(t *testing.T, p Population, d Dimensions, expects ...Coord) {
	t.Helper()
	set := map[Coord]bool{}
	for _, c := range expects {
		set[c] = true
	}
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			c := Coord{X: x, Y: y}
			if p.IsAlive(c) != set[c] {
				t.Fatalf("cell (%d,%d) alive=%v, expected %v", x, y, p.IsAlive(c), set[c])
			}
		}
	}
}

func TestStillLife(t *testing.T) {
	d := Dimensions{Width: 6, Height: 6}
	block := []Coord{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for enc, p := range encodings(d, block...) {
			g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
			if len(g.Changed) != 0 {
				t.Fatalf("%s: block changed: %v", enc, g.Changed)
			}
			if !Equal(g.Population, p) {
				t.Fatalf("%s: block population changed", enc)
			}
		}
	})
}

func TestBlinker(t *testing.T) {
	d := Dimensions{Width: 5, Height: 5}
	vertical := []Coord{{1, 0}, {1, 1}, {1, 2}}
	horizontal := []Coord{{0, 1}, {1, 1}, {2, 1}}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for enc, p := range encodings(d, vertical...) {
			g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
			assertAlive(t, g.Population, d, horizontal...)
			g = e.Advance(Request{Population: g.Population, Dimensions: d, Rules: DefaultRules})
			assertAlive(t, g.Population, d, vertical...)
			if reflect.TypeOf(g.Population) != reflect.TypeOf(p) {
				t.Fatalf("%s: encoding changed to %T", enc, g.Population)
			}
		}
	})
}

func TestExtinction(t *testing.T) {
	d := Dimensions{Width: 4, Height: 3}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for enc, p := range encodings(d) {
			g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
			if len(g.Changed) != 0 || g.Population.AliveCount() != 0 || !g.Finished() {
				t.Fatalf("%s: empty population advanced to %d alive, %d changes", enc, g.Population.AliveCount(), len(g.Changed))
			}
		}
	})
}

func TestIsolatedCellDies(t *testing.T) {
	d := Dimensions{Width: 8, Height: 8}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for enc, p := range encodings(d, Coord{X: 4, Y: 4}) {
			g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
			expects := []CellChange{{X: 4, Y: 4, State: Dead}}
			if !reflect.DeepEqual(g.Changed, expects) {
				t.Fatalf("%s: changes %v, expected %v", enc, g.Changed, expects)
			}
		}
	})
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	d := Dimensions{Width: 10, Height: 10}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for enc, p := range encodings(d, Coord{1, 0}, Coord{2, 1}, Coord{0, 2}, Coord{1, 2}, Coord{2, 2}) {
			before := p.Clone()
			g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
			if !Equal(before, p) {
				t.Fatalf("%s: input population was modified", enc)
			}
			if g.Population == p {
				t.Fatalf("%s: result shares the input population", enc)
			}
		}
	})
}

func TestDiffCompleteness(t *testing.T) {
	d := Dimensions{Width: 23, Height: 17}
	forEachEngine(t, func(t *testing.T, e Engine) {
		for seed := int64(1); seed <= 4; seed++ {
			for _, dense := range []bool{false, true} {
				p := RandomPopulation(d, 0.35, NewRand(seed), dense)
				for i := 0; i < 5; i++ {
					g := e.Advance(Request{Population: p, Dimensions: d, Rules: DefaultRules})
					replay := p.Clone()
					Apply(replay, g.Changed)
					if !Equal(replay, g.Population) {
						t.Fatalf("seed %d dense %v gen %d: replayed diff differs from the next population", seed, dense, i)
					}
					assertGrouped(t, g.Changed)
					p = g.Population
				}
			}
		}
	})
}

//assertGrouped checks that all births come before all deaths
func assertGrouped(t *testing.T, changes []CellChange) {
	t.Helper()
	seenDead := false
	for _, ch := range changes {
		if ch.State == Dead {
			seenDead = true
		} else if seenDead {
			t.Fatalf("birth after death in %v", changes)
		}
	}
}

func TestEnginesAgree(t *testing.T) {
	shapes := []Dimensions{{1, 1}, {2, 3}, {5, 5}, {31, 7}, {40, 41}}
	for _, d := range shapes {
		for seed := int64(1); seed <= 3; seed++ {
			p := RandomPopulation(d, 0.4, NewRand(seed), false)
			for _, r := range []Rules{DefaultRules, {Birth: 3, SurviveMin: 0, SurviveMax: 8}, {Birth: 2, SurviveMin: 4, SurviveMax: 5}} {
				req := Request{Population: p, Dimensions: d, Rules: r}
				reference := SparseEngine{}.Advance(req)
				for _, name := range EngineNames() {
					e, _ := NewEngine(name)
					g := e.Advance(req)
					if !reflect.DeepEqual(g.Changed, reference.Changed) {
						t.Fatalf("%s on %v rules %v: diff differs from the sparse engine", name, d, r)
					}
				}
			}
		}
	}
}

func TestNeighborCountsAgree(t *testing.T) {
	for _, d := range []Dimensions{{1, 1}, {2, 2}, {3, 7}, {16, 16}} {
		p := RandomPopulation(d, 0.3, NewRand(7), false)
		dense := DenseCounts(p, d)
		sparse := SparseCounts(p, d)
		for i, n := range dense {
			c := d.Coord(i)
			if got := sparse[c]; got != int(n) {
				t.Fatalf("%v cell %v: sparse count %d, dense count %d", d, c, got, n)
			}
		}
		for c, n := range sparse {
			if n == 0 {
				t.Fatalf("%v: sparse result holds %v with zero neighbors", d, c)
			}
		}
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		height, workers int
	}{{1, 10}, {7, 10}, {30, 10}, {31, 10}, {200, 10}, {5, 1}}
	for _, tt := range tests {
		areas := splitRows(tt.height, tt.workers)
		if len(areas) > tt.workers {
			t.Fatalf("height %d: %d areas for %d workers", tt.height, len(areas), tt.workers)
		}
		next := 0
		for _, wa := range areas {
			if wa.y1 != next || wa.y2 <= wa.y1 {
				t.Fatalf("height %d: broken area %+v", tt.height, wa)
			}
			next = wa.y2
		}
		if next != tt.height {
			t.Fatalf("height %d: areas end at %d", tt.height, next)
		}
	}
}
