package view

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"toruslife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u      universe.Universe
	g      *gocui.Gui
	k      []keyBindings
	canvas *Canvas

	mu          sync.Mutex
	status      universe.Status
	message     string
	probability float64
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateInit:            aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateRenderGenerated: aurora.Colorize("generated", aurora.BlueFg).String(),
		universe.RunningStatePlay:            aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStatePause:           aurora.Colorize("paused", aurora.YellowFg).String(),
		universe.RunningStateCalculating:     "calculating",
		universe.RunningStateFinished:        aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the interactive terminal view
//probability is the alive chance used by the random settle command
func NewViewTerminal(probability float64) *ConsoleUI {

	var err error
	t := ConsoleUI{
		canvas:      NewCanvas(aurora.Green("█").BgBrightGreen().String(), "░"),
		probability: probability,
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.WithError(err).Fatal("terminal init failed")
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Settle with random",
			t.cmdSettleWithRandom,
			""},
		{'+',
			"+",
			"Faster",
			t.cmdFaster,
			""},
		{'-',
			"-",
			"Slower",
			t.cmdSlower,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Toggle the cell",
			t.cmdMouseClick,
			"battlefield"},
		{'h',
			"H",
			"Redraw",
			t.cmdRedraw,
			""},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.WithError(err).WithField("key", kb.name).Fatal("key binding failed")
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

//Handle is called by the universe, the screen is updated on the gui goroutine
func (t *ConsoleUI) Handle(ev universe.Event) {
	switch e := ev.(type) {
	case universe.FrameEvent:
		t.canvas.Apply(e)
		t.renderField()
	case universe.StatusEvent:
		t.setStatus(e.Status, "")
		t.renderStatus()
	case universe.FinishEvent:
		t.setStatus(e.Status, aurora.Red("no more changes").String())
		t.renderStatus()
	}
}

func (t *ConsoleUI) setStatus(st universe.Status, message string) {
	t.mu.Lock()
	t.status = st
	if message != "" || st.RunningMode != universe.RunningStateFinished {
		t.message = message
	}
	t.mu.Unlock()
}

func (t *ConsoleUI) renderField() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		v.Clear()

		maxW, maxH := v.Size()
		d := t.canvas.Dimensions()
		crop := d.Width > maxW || d.Height > maxH

		var b bytes.Buffer
		for i, l := range t.canvas.Lines(maxW) {
			//discard the data outside the view area
			if i >= maxH {
				break
			}
			//line feed char
			if i != 0 {
				b.WriteByte(10)
			}
			if crop && i == (maxH-1) {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
				break
			}
			b.WriteString(l)
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	t.mu.Lock()
	s, msg := t.status, t.message
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.GenerationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Render time", "%v", s.RenderTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Skipped ticks", "%v", s.SkippedTicks))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			if msg != "" {
				_, _ = fmt.Fprintln(v, " "+msg)
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Rules", "%v", c.Rules))
			_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
			_, _ = fmt.Fprintln(v, t.renderProp("Host", "%v", c.Host))
			if c.MaxSteps > 0 {
				_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

const (
	sideWidth      = 28 //width of the configuration and status panes
	helpHeight     = 2
	minFieldWidth  = 10
	minFieldHeight = 8
)

//pane is a framed view with its position and the renderer called when it is created
type pane struct {
	name           string
	title          string
	x0, y0, x1, y1 int
	render         func()
}

func (t *ConsoleUI) panes(maxX int, maxY int) []pane {
	bottom := maxY - helpHeight - 1
	split := bottom / 2
	return []pane{
		{"configuration", "toruslife: " + t.u.Options().Rules.String(), 0, 0, sideWidth, split, t.renderConfiguration},
		{"status", "Status", 0, split + 1, sideWidth, bottom, t.renderStatus},
		{"battlefield", "Field", sideWidth + 1, 0, maxX - 1, bottom, t.renderField},
	}
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if maxX < sideWidth+minFieldWidth || maxY < minFieldHeight+helpHeight {
		return t.tooSmallLayout(g, maxX, maxY)
	}
	_ = g.DeleteView("tooSmall")

	for _, p := range t.panes(maxX, maxY) {
		v, err := g.SetView(p.name, p.x0, p.y0, p.x1, p.y1)
		if err == nil {
			continue
		}
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = p.title
		v.Frame = true
		p.render()
	}

	if v, err := g.SetView("help", -1, maxY-helpHeight-1, maxX, maxY); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		_, _ = fmt.Fprintln(v, t.keyHelp())
	}
	return nil
}

//tooSmallLayout replaces the panes with the notice until the terminal grows
func (t *ConsoleUI) tooSmallLayout(g *gocui.Gui, maxX int, maxY int) error {
	for _, name := range []string{"configuration", "status", "battlefield", "help"} {
		_ = g.DeleteView(name)
	}
	if maxX < 2 || maxY < 2 {
		return nil
	}
	v, err := g.SetView("tooSmall", 0, 0, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Frame = false
	v.Clear()
	_, _ = fmt.Fprintf(v, "terminal %dx%d is too small, %dx%d needed", maxX, maxY, sideWidth+minFieldWidth, minFieldHeight+helpHeight)
	return nil
}

func (t *ConsoleUI) keyHelp() string {
	var b strings.Builder
	for i, k := range t.k {
		if i != 0 {
			b.WriteString("  ")
		}
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(" ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func (t *ConsoleUI) cmdRedraw(_ *gocui.View) error {
	t.renderConfiguration()
	t.renderStatus()
	t.renderField()
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Start()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Pause()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Reset()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.Generate(t.probability)
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	return t.changeInterval(0.5)
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	return t.changeInterval(2)
}

func (t *ConsoleUI) changeInterval(factor float64) error {
	iv := time.Duration(float64(t.u.Options().Interval) * factor)
	if iv < time.Millisecond {
		iv = time.Millisecond
	}
	if err := t.u.SetInterval(iv); err != nil {
		t.flash(err.Error())
		return nil
	}
	t.renderConfiguration()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	if err := t.u.Toggle(cx, cy); err != nil {
		t.flash(err.Error())
	}
	return nil
}

//flash shows the message in the status view until the next status update
func (t *ConsoleUI) flash(msg string) {
	t.mu.Lock()
	t.message = aurora.Yellow(msg).String()
	t.mu.Unlock()
	t.renderStatus()
}
