//go:build ebiten

package view

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"toruslife/src/universe"
)

//Window shows the field in the ebiten window, every cell is a scale x scale square
type Window struct {
	u       universe.Universe
	pixels  *PixelBuffer
	scale   int
	buf     []byte
	img     *ebiten.Image
	imgDims universe.Dimensions

	mu          sync.Mutex
	status      universe.Status
	message     string
	probability float64
	showOverlay bool
}

//NewWindow creates the window viewer, probability is the alive chance used by the random settle command
func NewWindow(scale int, probability float64) (*Window, error) {
	if scale <= 0 {
		scale = 1
	}
	return &Window{
		pixels:      NewPixelBuffer(color.White, color.Black),
		scale:       scale,
		probability: probability,
		showOverlay: true,
	}, nil
}

func (w *Window) Register(u universe.Universe) {
	w.u = u
}

func (w *Window) Handle(ev universe.Event) {
	switch e := ev.(type) {
	case universe.FrameEvent:
		w.pixels.Apply(e)
	case universe.StatusEvent:
		w.mu.Lock()
		w.status = e.Status
		w.mu.Unlock()
	case universe.FinishEvent:
		w.mu.Lock()
		w.status = e.Status
		w.message = "no more changes"
		w.mu.Unlock()
	}
}

//Start opens the window and blocks until it is closed, must be called from the main goroutine
func (w *Window) Start() error {
	o := w.u.Options()
	ebiten.SetWindowTitle("toruslife " + o.Rules.String())
	ebiten.SetWindowSize(o.Width*w.scale, o.Height*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

//Update handles the keys, the simulation itself runs in the universe main loop
func (w *Window) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if w.currentStatus().RunningMode == universe.RunningStatePlay ||
			w.currentStatus().RunningMode == universe.RunningStateCalculating {
			w.u.Pause()
		} else {
			w.u.Start()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		w.u.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		w.u.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		w.u.Generate(w.probability)
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		w.showOverlay = !w.showOverlay
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		w.changeInterval(0.5)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		w.changeInterval(2)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if err := w.u.Toggle(x/w.scale, y/w.scale); err != nil {
			w.flash(err.Error())
		}
	}
	return nil
}

func (w *Window) changeInterval(factor float64) {
	iv := time.Duration(float64(w.u.Options().Interval) * factor)
	if iv < time.Millisecond {
		iv = time.Millisecond
	}
	if err := w.u.SetInterval(iv); err != nil {
		w.flash(err.Error())
	}
}

func (w *Window) flash(msg string) {
	log.WithField("view", "window").Debug(msg)
	w.mu.Lock()
	w.message = msg
	w.mu.Unlock()
}

func (w *Window) currentStatus() universe.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

//Draw uploads the pixel buffer and scales it to the screen
func (w *Window) Draw(screen *ebiten.Image) {
	var d universe.Dimensions
	w.buf, d = w.pixels.Pixels(w.buf)
	if d.Area() == 0 {
		return
	}
	if w.img == nil || d != w.imgDims {
		w.img = ebiten.NewImage(d.Width, d.Height)
		w.imgDims = d
	}
	w.img.WritePixels(w.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)

	if w.showOverlay {
		w.mu.Lock()
		s, msg := w.status, w.message
		w.mu.Unlock()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("gen %d  live %d  %v  eval %v  skipped %d\n%s",
			s.Generation, s.LiveCells, s.RunningMode, s.GenerationTime.Round(time.Microsecond), s.SkippedTicks, msg))
	}
}

//Layout returns the logical screen size
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	o := w.u.Options()
	return o.Width * w.scale, o.Height * w.scale
}
