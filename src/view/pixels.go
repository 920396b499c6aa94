package view

import (
	"image/color"
	"sync"

	"toruslife/src/universe"
)

//PixelBuffer keeps the field as RGBA pixels, one pixel per cell
type PixelBuffer struct {
	mu       sync.Mutex
	dims     universe.Dimensions
	buf      []byte
	onColor  color.RGBA
	offColor color.RGBA
}

func NewPixelBuffer(on, off color.Color) *PixelBuffer {
	return &PixelBuffer{onColor: toRGBA(on), offColor: toRGBA(off)}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

//Apply paints the frame, a full frame or a resized field refills the whole buffer
func (pb *PixelBuffer) Apply(f universe.FrameEvent) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if f.Full != nil || f.Dimensions != pb.dims {
		pb.dims = f.Dimensions
		pb.buf = make([]byte, 4*f.Dimensions.Area())
		for i := 0; i < f.Dimensions.Area(); i++ {
			pb.fill(i, pb.offColor)
		}
		if f.Full != nil {
			f.Full.ForEachAlive(func(p universe.Coord) {
				if pb.dims.Contains(p.X, p.Y) {
					pb.fill(pb.dims.Index(p), pb.onColor)
				}
			})
			return
		}
	}
	for _, ch := range f.Changes {
		if !pb.dims.Contains(ch.X, ch.Y) {
			continue
		}
		c := pb.offColor
		if ch.State == universe.Alive {
			c = pb.onColor
		}
		pb.fill(ch.Y*pb.dims.Width+ch.X, c)
	}
}

func (pb *PixelBuffer) fill(i int, c color.RGBA) {
	base := i * 4
	pb.buf[base+0] = c.R
	pb.buf[base+1] = c.G
	pb.buf[base+2] = c.B
	pb.buf[base+3] = c.A
}

//Pixels copies the buffer into dst, dst is reallocated if it has the wrong size
func (pb *PixelBuffer) Pixels(dst []byte) ([]byte, universe.Dimensions) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if len(dst) != len(pb.buf) {
		dst = make([]byte, len(pb.buf))
	}
	copy(dst, pb.buf)
	return dst, pb.dims
}

//At returns the color of the cell pixel
func (pb *PixelBuffer) At(x int, y int) color.RGBA {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if !pb.dims.Contains(x, y) {
		return color.RGBA{}
	}
	base := (y*pb.dims.Width + x) * 4
	return color.RGBA{R: pb.buf[base], G: pb.buf[base+1], B: pb.buf[base+2], A: pb.buf[base+3]}
}
