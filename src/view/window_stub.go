//go:build !ebiten

package view

import (
	"errors"

	"toruslife/src/universe"
)

//ErrNoWindow is returned when the binary is built without the ebiten tag
var ErrNoWindow = errors.New("the window view requires the ebiten build tag, rebuild with -tags ebiten")

//Window is not available without the ebiten build tag
type Window struct{}

func NewWindow(scale int, probability float64) (*Window, error) {
	return nil, ErrNoWindow
}

func (w *Window) Register(u universe.Universe) {}

func (w *Window) Handle(ev universe.Event) {}

func (w *Window) Start() error {
	return ErrNoWindow
}
