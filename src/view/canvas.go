package view

import (
	"strings"
	"sync"

	"toruslife/src/universe"
)

//Canvas is the character frame buffer of the field
//it is updated from the frame diffs and rebuilds only the rows touched by them
type Canvas struct {
	mu         sync.Mutex
	dims       universe.Dimensions
	cells      []bool
	rows       []string
	dirty      map[int]struct{}
	cropWidth  int
	liveFiller string
	deadFiller string
}

func NewCanvas(liveFiller string, deadFiller string) *Canvas {
	return &Canvas{liveFiller: liveFiller, deadFiller: deadFiller, dirty: map[int]struct{}{}}
}

//Apply draws the frame, a frame without diff redraws the whole field
func (c *Canvas) Apply(f universe.FrameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Full != nil || f.Dimensions != c.dims {
		c.redraw(f)
		return
	}
	for _, ch := range f.Changes {
		c.paint(ch.X, ch.Y, ch.State == universe.Alive)
	}
}

func (c *Canvas) redraw(f universe.FrameEvent) {
	c.dims = f.Dimensions
	c.cells = make([]bool, f.Dimensions.Area())
	c.rows = make([]string, f.Dimensions.Height)
	c.dirty = make(map[int]struct{}, len(c.rows))
	for y := range c.rows {
		c.dirty[y] = struct{}{}
	}
	if f.Full != nil {
		f.Full.ForEachAlive(func(p universe.Coord) {
			if c.dims.Contains(p.X, p.Y) {
				c.cells[c.dims.Index(p)] = true
			}
		})
		return
	}
	//no snapshot for the new size, draw the diff over an empty field
	for _, ch := range f.Changes {
		c.paint(ch.X, ch.Y, ch.State == universe.Alive)
	}
}

func (c *Canvas) paint(x int, y int, alive bool) {
	if !c.dims.Contains(x, y) {
		return
	}
	c.cells[y*c.dims.Width+x] = alive
	c.dirty[y] = struct{}{}
}

//Alive reports whether the cell is drawn as alive
func (c *Canvas) Alive(x int, y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dims.Contains(x, y) {
		return false
	}
	return c.cells[y*c.dims.Width+x]
}

//Dimensions returns the size of the drawn field
func (c *Canvas) Dimensions() universe.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

//Lines returns the rows of the field cropped to maxWidth cells, rebuilding the dirty ones
func (c *Canvas) Lines(maxWidth int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.dims.Width
	if maxWidth < w {
		w = maxWidth
	}
	if w < 0 {
		w = 0
	}
	if w != c.cropWidth {
		c.cropWidth = w
		for y := range c.rows {
			c.dirty[y] = struct{}{}
		}
	}
	for y := range c.dirty {
		var b strings.Builder
		start := y * c.dims.Width
		for _, alive := range c.cells[start : start+w] {
			if alive {
				b.WriteString(c.liveFiller)
			} else {
				b.WriteString(c.deadFiller)
			}
		}
		c.rows[y] = b.String()
		delete(c.dirty, y)
	}
	lines := make([]string, len(c.rows))
	copy(lines, c.rows)
	return lines
}
