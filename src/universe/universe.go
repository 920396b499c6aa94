package universe

import (
	"errors"
	"time"

	"github.com/apex/log"
)

var (
	//ErrBusy is returned for edits while a generation is being calculated
	ErrBusy = errors.New("universe is calculating the next generation")
	//ErrOutOfRange is returned for coordinates outside the field
	ErrOutOfRange = errors.New("coordinates are outside the field")
	//ErrInvalidDimensions is returned for non positive width or height
	ErrInvalidDimensions = errors.New("invalid dimensions")
	//ErrClosed is returned once the universe main loop has stopped
	ErrClosed = errors.New("universe is closed")
)

type Universe interface {
	Status() Status
	Options() Options
	Snapshot() (Population, Dimensions, error)
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string) error
	Settle(vc [][]int) error
	Generate(probability float64)
	Toggle(x int, y int) error
	RegisterViewer(v Viewer)
	Start()
	Pause()
	Step()
	Reset()
	Resize(d Dimensions) error
	SetRules(r Rules) error
	SetInterval(d time.Duration) error
	Close()
}

//Options represents the Universe's configurable options
type Options struct {
	Width            int
	Height           int
	Interval         time.Duration //0 means the next generation starts right after the previous one
	MaxSteps         int           //0 means unlimited
	Rules            Rules
	AliveProbability float64
	Seed             int64 //0 means time based
	Dense            bool  //keep the population as a dense grid instead of a sparse set
	StopWhenStable   bool  //finish when a generation changes nothing
	Engine           string
	Host             string
	Logger           log.Interface
}

//Dimensions returns the configured field size
func (o Options) Dimensions() Dimensions {
	return Dimensions{Width: o.Width, Height: o.Height}
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	Generation     int
	RunningMode    RunningState
	LiveCells      int
	GenerationTime time.Duration //time spent by the engine on the last generation
	RenderTime     time.Duration //time spent by the viewers on the last frame
	SkippedTicks   int           //ticks fired while the previous generation was still calculated
	Engine         string
	Host           string
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
//Handle is called from the universe main loop and must not call the universe synchronously
type Viewer interface {
	Register(u Universe)
	Handle(ev Event)
	Start() error
}

//The universe running status at the concrete moment
type RunningState int

const (
	RunningStateInit RunningState = iota
	RunningStateRenderGenerated
	RunningStatePlay
	RunningStatePause
	RunningStateCalculating
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateInit:
		return "init"
	case RunningStateRenderGenerated:
		return "generated"
	case RunningStatePlay:
		return "play"
	case RunningStatePause:
		return "pause"
	case RunningStateCalculating:
		return "calculating"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 125
	DefMaxSteps           = 0
	DefWidth              = 40
	DefHeight             = 15
)

var DefaultUniverseOptions = Options{
	Width:            DefWidth,
	Height:           DefHeight,
	Interval:         DefSimulationInterval,
	MaxSteps:         DefMaxSteps,
	Rules:            DefaultRules,
	AliveProbability: DefAliveProbability,
	Engine:           DefEngine,
	Host:             DefHost,
}
