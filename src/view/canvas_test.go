package view

import (
	"reflect"
	"testing"

	"toruslife/src/universe"
)

func TestCanvasFullFrame(t *testing.T) {
	c := NewCanvas("#", ".")
	c.Apply(universe.FrameEvent{
		Dimensions: universe.Dimensions{Width: 3, Height: 2},
		Full:       universe.NewSparse(universe.Coord{X: 0, Y: 0}, universe.Coord{X: 2, Y: 1}),
	})
	expected := []string{"#..", "..#"}
	if l := c.Lines(10); !reflect.DeepEqual(l, expected) {
		t.Fatalf("lines %v, expected %v", l, expected)
	}
}

func TestCanvasDiff(t *testing.T) {
	d := universe.Dimensions{Width: 3, Height: 3}
	c := NewCanvas("#", ".")
	c.Apply(universe.FrameEvent{Dimensions: d, Full: universe.NewSparse(universe.Coord{X: 1, Y: 0}, universe.Coord{X: 1, Y: 1}, universe.Coord{X: 1, Y: 2})})
	_ = c.Lines(3)

	//blinker turns horizontal
	c.Apply(universe.FrameEvent{Dimensions: d, Changes: []universe.CellChange{
		{X: 0, Y: 1, State: universe.Alive},
		{X: 2, Y: 1, State: universe.Alive},
		{X: 1, Y: 0, State: universe.Dead},
		{X: 1, Y: 2, State: universe.Dead},
	}})
	expected := []string{"...", "###", "..."}
	if l := c.Lines(3); !reflect.DeepEqual(l, expected) {
		t.Fatalf("lines %v, expected %v", l, expected)
	}
	if !c.Alive(0, 1) || c.Alive(1, 0) {
		t.Fatal("cell states do not follow the diff")
	}
	if c.Alive(-1, 5) {
		t.Fatal("cells outside the field must be dead")
	}
}

func TestCanvasCrop(t *testing.T) {
	c := NewCanvas("#", ".")
	c.Apply(universe.FrameEvent{
		Dimensions: universe.Dimensions{Width: 4, Height: 1},
		Full:       universe.NewSparse(universe.Coord{X: 3, Y: 0}),
	})
	if l := c.Lines(2); l[0] != ".." {
		t.Fatalf("cropped line %q, expected \"..\"", l[0])
	}
	if l := c.Lines(-1); l[0] != "" {
		t.Fatalf("line %q, expected empty", l[0])
	}
	if l := c.Lines(4); l[0] != "...#" {
		t.Fatalf("line %q, expected \"...#\"", l[0])
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas("#", ".")
	c.Apply(universe.FrameEvent{Dimensions: universe.Dimensions{Width: 5, Height: 5}, Full: universe.NewSparse(universe.Coord{X: 4, Y: 4})})
	_ = c.Lines(5)
	//the diff for a different size redraws the field from scratch
	c.Apply(universe.FrameEvent{Dimensions: universe.Dimensions{Width: 2, Height: 2}, Changes: []universe.CellChange{{X: 1, Y: 1, State: universe.Alive}, {X: 4, Y: 4, State: universe.Alive}}})
	expected := []string{"..", ".#"}
	if l := c.Lines(5); !reflect.DeepEqual(l, expected) {
		t.Fatalf("lines %v, expected %v", l, expected)
	}
	if c.Dimensions() != (universe.Dimensions{Width: 2, Height: 2}) {
		t.Fatalf("dimensions %v", c.Dimensions())
	}
}
