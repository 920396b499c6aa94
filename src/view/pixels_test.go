package view

import (
	"image/color"
	"testing"

	"toruslife/src/universe"
)

var (
	on  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	off = color.RGBA{A: 255}
)

func TestPixelBuffer(t *testing.T) {
	d := universe.Dimensions{Width: 4, Height: 3}
	pb := NewPixelBuffer(color.White, color.Black)
	pb.Apply(universe.FrameEvent{Dimensions: d, Full: universe.NewSparse(universe.Coord{X: 3, Y: 2})})

	buf, gotDims := pb.Pixels(nil)
	if gotDims != d || len(buf) != 4*d.Area() {
		t.Fatalf("buffer %d bytes for %v", len(buf), gotDims)
	}
	if pb.At(3, 2) != on || pb.At(0, 0) != off {
		t.Fatalf("unexpected colors %v %v", pb.At(3, 2), pb.At(0, 0))
	}

	pb.Apply(universe.FrameEvent{Dimensions: d, Changes: []universe.CellChange{
		{X: 0, Y: 0, State: universe.Alive},
		{X: 3, Y: 2, State: universe.Dead},
		{X: 9, Y: 9, State: universe.Alive},
	}})
	if pb.At(3, 2) != off || pb.At(0, 0) != on {
		t.Fatal("diff is not applied")
	}

	reused, _ := pb.Pixels(buf)
	if &reused[0] != &buf[0] {
		t.Fatal("buffer of the right size must be reused")
	}
	if reused[0] != 255 || reused[(2*4+3)*4] != 0 {
		t.Fatal("copied pixels do not match the buffer")
	}
}

func TestPixelBufferResize(t *testing.T) {
	pb := NewPixelBuffer(color.White, color.Black)
	pb.Apply(universe.FrameEvent{Dimensions: universe.Dimensions{Width: 2, Height: 2}, Full: universe.NewSparse(universe.Coord{X: 1, Y: 1})})
	pb.Apply(universe.FrameEvent{Dimensions: universe.Dimensions{Width: 3, Height: 1}})
	buf, d := pb.Pixels(nil)
	if d.Area() != 3 || len(buf) != 12 {
		t.Fatalf("buffer %d bytes for %v", len(buf), d)
	}
	for x := 0; x < 3; x++ {
		if pb.At(x, 0) != off {
			t.Fatalf("cell %d is not cleared", x)
		}
	}
}
