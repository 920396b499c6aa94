package universe

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/apex/log"
)

//BaseUniverse is the universe orchestrator
//implements Universe interface
//all the mutations are executed by the single main loop goroutine, the public methods only enqueue them
type BaseUniverse struct {
	state struct {
		Status
		options Options
		sync.Mutex
	}
	templates struct {
		byName map[string]Template
		sync.Mutex
	}
	log       log.Interface
	engine    Engine
	host      Host
	rng       *rand.Rand
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once

	//owned by the main loop
	dims       Dimensions
	population Population
	ticker     *time.Ticker
	pending    <-chan Result
	seq        uint64
	inFlight   uint64 //seq of the job whose result will be applied, 0 if none
	resumeMode RunningState
	stepQueued bool //a step requested while a discarded job was still running
}

//NewBaseUniverse creates the universe with the engine and the host named in the options
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		def := DefaultUniverseOptions
		o = &def
	}
	e, err := NewEngine(o.Engine)
	if err != nil {
		return nil, err
	}
	h, err := NewHost(o.Host, e)
	if err != nil {
		return nil, err
	}
	return NewUniverse(o, stateCh, e, h)
}

//NewUniverse creates the universe around the given engine and host and starts its main loop
//the universe owns the host and closes it on Close
func NewUniverse(o *Options, stateCh chan Status, e Engine, h Host) (*BaseUniverse, error) {
	if o == nil {
		def := DefaultUniverseOptions
		o = &def
	}
	opts := *o
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, opts.Width, opts.Height)
	}
	if opts.Rules == (Rules{}) {
		opts.Rules = DefaultRules
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("negative interval %v", opts.Interval)
	}
	if opts.Logger == nil {
		opts.Logger = log.Log
	}
	opts.Engine = e.Name()
	opts.Host = h.Name()

	u := &BaseUniverse{
		log:       opts.Logger,
		engine:    e,
		host:      h,
		rng:       NewRand(opts.Seed),
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		dims:      opts.Dimensions(),
	}
	u.state.options = opts
	u.state.Engine = e.Name()
	u.state.Host = h.Name()
	u.templates.byName = make(map[string]Template, len(BuiltinTemplates))
	for _, t := range BuiltinTemplates {
		u.templates.byName[t.Name] = t
	}
	u.population = u.emptyPopulation()

	go u.mainLoop()
	return u, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates.Lock()
	u.templates.byName[tmpl.Name] = tmpl
	u.templates.Unlock()
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) error {
	u.templates.Lock()
	tmpl, ok := u.templates.byName[name]
	u.templates.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return u.Settle(tmpl.Coordinates)
}

//Settle settles the universe with data
//vc - array of x,y coordinates
func (u *BaseUniverse) Settle(vc [][]int) error {
	return u.call(func() error {
		if u.mode() == RunningStateCalculating {
			return ErrBusy
		}
		settle(u.population, u.dims, vc)
		u.setCounters(func(s *Status) { s.LiveCells = u.population.AliveCount() })
		u.notify(u.fullFrame())
		if u.mode() == RunningStateInit {
			u.switchRunningState(RunningStateRenderGenerated)
		} else {
			u.switchRunningState(u.mode())
		}
		return nil
	})
}

//Generate replaces the population with random data, ignored while the simulation is playing
func (u *BaseUniverse) Generate(probability float64) {
	u.send(func() {
		switch u.mode() {
		case RunningStatePlay, RunningStateCalculating:
			u.log.WithField("mode", u.mode()).Debug("generate ignored")
			return
		}
		u.inFlight = 0
		u.population = RandomPopulation(u.dims, probability, u.rng, u.options().Dense)
		u.setCounters(func(s *Status) {
			*s = Status{Engine: s.Engine, Host: s.Host, LiveCells: u.population.AliveCount()}
		})
		u.notify(u.fullFrame())
		u.switchRunningState(RunningStateRenderGenerated)
	})
}

//Toggle inverses the cell state at point x, y
//returns ErrBusy while the next generation is being calculated
func (u *BaseUniverse) Toggle(x int, y int) error {
	return u.call(func() error {
		if !u.dims.Contains(x, y) {
			return fmt.Errorf("%w: %d,%d", ErrOutOfRange, x, y)
		}
		if u.mode() == RunningStateCalculating {
			return ErrBusy
		}
		st := u.population.Toggle(Coord{X: x, Y: y})
		u.setCounters(func(s *Status) { s.LiveCells = u.population.AliveCount() })
		u.notify(FrameEvent{Dimensions: u.dims, Changes: []CellChange{{X: x, Y: y, State: st}}})
		u.switchRunningState(u.mode())
		return nil
	})
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	v.Register(u)
	u.send(func() {
		u.views = append(u.views, v)
		v.Handle(u.fullFrame())
		v.Handle(StatusEvent{Status: u.Status()})
	})
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options()
}

//Snapshot returns a copy of the current population and the field size
func (u *BaseUniverse) Snapshot() (p Population, d Dimensions, err error) {
	err = u.call(func() error {
		p = u.population.Clone()
		d = u.dims
		return nil
	})
	return
}

//Start starts the universe simulation, returns immediately
func (u *BaseUniverse) Start() {
	u.send(u.run)
}

//Pause stops the universe simulation, returns immediately
//a generation being calculated at this moment is discarded
func (u *BaseUniverse) Pause() {
	u.send(u.pause)
}

//Step do one simulation step, returns immediately
func (u *BaseUniverse) Step() {
	u.send(u.step)
}

//Reset kills all cells and resets all counters, returns immediately
func (u *BaseUniverse) Reset() {
	u.send(u.clear)
}

//Resize replaces the field with an empty one of the new size
func (u *BaseUniverse) Resize(d Dimensions) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	}
	return u.call(func() error {
		u.state.Lock()
		u.state.options.Width = d.Width
		u.state.options.Height = d.Height
		u.state.Unlock()
		u.dims = d
		u.clear()
		return nil
	})
}

//SetRules sets the rules used from the next generation on
func (u *BaseUniverse) SetRules(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return u.call(func() error {
		u.state.Lock()
		u.state.options.Rules = r
		u.state.Unlock()
		return nil
	})
}

//SetInterval sets the interval between the generations
func (u *BaseUniverse) SetInterval(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("negative interval %v", d)
	}
	return u.call(func() error {
		u.state.Lock()
		u.state.options.Interval = d
		u.state.Unlock()
		if u.ticker != nil || u.playing() {
			u.stopTicker()
			u.startTicker()
			if d == 0 && u.mode() == RunningStatePlay {
				u.dispatch(RunningStatePlay)
			}
		}
		return nil
	})
}

//Close stops the main loop and the host, then returns
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
	<-u.doneCh
}

//send enqueues cmd to the main loop, false if the universe is closed
func (u *BaseUniverse) send(cmd func()) bool {
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.doneCh:
		return false
	}
}

//call executes cmd on the main loop and waits for its result
func (u *BaseUniverse) call(cmd func() error) error {
	errCh := make(chan error, 1)
	if !u.send(func() { errCh <- cmd() }) {
		return ErrClosed
	}
	return <-errCh
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command, tick or generation result and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.doneCh)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.tickCh():
			u.tick()
		case res := <-u.pending:
			u.accept(res)
		case <-u.closeCh:
			u.stopTicker()
			u.host.Close()
			return
		}
	}
}

func (u *BaseUniverse) mode() RunningState {
	return u.state.RunningMode
}

func (u *BaseUniverse) options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.options
}

func (u *BaseUniverse) setCounters(fn func(s *Status)) {
	u.state.Lock()
	fn(&u.state.Status)
	u.state.Unlock()
}

func (u *BaseUniverse) emptyPopulation() Population {
	if u.options().Dense {
		return NewDense(u.dims)
	}
	return NewSparse()
}

func (u *BaseUniverse) fullFrame() FrameEvent {
	return FrameEvent{Dimensions: u.dims, Full: u.population.Clone()}
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		select {
		case u.stateCh <- st:
		case <-u.closeCh:
		}
	}
	u.notify(StatusEvent{Status: st})
}

//notify sends the event to all registered views
func (u *BaseUniverse) notify(ev Event) {
	for _, v := range u.views {
		v.Handle(ev)
	}
}

func (u *BaseUniverse) tickCh() <-chan time.Time {
	if u.ticker == nil {
		return nil
	}
	return u.ticker.C
}

func (u *BaseUniverse) startTicker() {
	if iv := u.options().Interval; iv > 0 {
		u.ticker = time.NewTicker(iv)
	}
}

func (u *BaseUniverse) stopTicker() {
	if u.ticker != nil {
		u.ticker.Stop()
		u.ticker = nil
	}
}

//run starts the universe simulation
//simulation will stop on Pause() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	switch u.mode() {
	case RunningStatePlay, RunningStateCalculating:
		return
	}
	u.stepQueued = false
	u.switchRunningState(RunningStatePlay)
	u.startTicker()
	if u.ticker == nil {
		u.dispatch(RunningStatePlay)
	}
}

//pause stops the universe running cycle
func (u *BaseUniverse) pause() {
	switch u.mode() {
	case RunningStatePlay, RunningStateCalculating:
		u.stopTicker()
		u.inFlight = 0
		u.switchRunningState(RunningStatePause)
	}
}

//step calculates one generation and gets back to the current mode
func (u *BaseUniverse) step() {
	switch u.mode() {
	case RunningStatePlay, RunningStateCalculating:
		return
	}
	if u.pending != nil {
		//dispatched once the discarded job returns
		u.stepQueued = true
		return
	}
	u.dispatch(u.mode())
}

//playing reports whether the universe is in Play or calculates a generation for Play
func (u *BaseUniverse) playing() bool {
	switch u.mode() {
	case RunningStatePlay:
		return true
	case RunningStateCalculating:
		return u.resumeMode == RunningStatePlay
	}
	return false
}

//tick skips the tick if the universe is still in the calculation mode
func (u *BaseUniverse) tick() {
	switch u.mode() {
	case RunningStatePlay:
		if u.pending == nil {
			u.dispatch(RunningStatePlay)
			return
		}
		//a discarded job is still running
		fallthrough
	case RunningStateCalculating:
		u.setCounters(func(s *Status) { s.SkippedTicks++ })
		u.log.Debug("tick skipped, generation is still calculated")
	}
}

//dispatch sends the current population to the host
//resume is the mode to switch to after the result is accepted
func (u *BaseUniverse) dispatch(resume RunningState) {
	if u.pending != nil {
		//only one job may be in flight, the stale result handler dispatches again
		u.log.Debug("dispatch deferred, a discarded job is still running")
		return
	}
	o := u.options()
	if o.MaxSteps != 0 && u.Status().Generation >= o.MaxSteps {
		u.finish()
		return
	}
	u.seq++
	job := Job{Seq: u.seq, Request: Request{Population: u.population, Dimensions: u.dims, Rules: o.Rules}}
	ch, err := u.host.Dispatch(job)
	if errors.Is(err, ErrHostUnavailable) {
		u.log.WithError(err).WithField("host", u.host.Name()).Warn("falling back to inline execution")
		u.host.Close()
		u.host = NewInlineHost(u.engine)
		u.setCounters(func(s *Status) { s.Host = u.host.Name() })
		ch, err = u.host.Dispatch(job)
	}
	if err != nil {
		u.log.WithError(err).Error("generation dispatch failed")
		u.stopTicker()
		u.switchRunningState(RunningStatePause)
		return
	}
	u.pending = ch
	u.inFlight = job.Seq
	u.resumeMode = resume
	u.switchRunningState(RunningStateCalculating)
}

//accept applies the generation unless it was requested before a reset, resize or pause
func (u *BaseUniverse) accept(res Result) {
	u.pending = nil
	if res.Seq != u.inFlight || u.mode() != RunningStateCalculating {
		u.log.WithFields(log.Fields{"seq": res.Seq, "expected": u.inFlight}).Debug("stale generation discarded")
		switch {
		case u.mode() == RunningStatePlay && u.ticker == nil:
			u.dispatch(RunningStatePlay)
		case u.stepQueued:
			u.stepQueued = false
			u.step()
		}
		return
	}
	u.inFlight = 0
	g := res.Generation
	u.population = g.Population
	u.setCounters(func(s *Status) {
		s.Generation++
		s.LiveCells = g.Population.AliveCount()
		s.GenerationTime = res.Elapsed
	})

	start := time.Now()
	u.notify(FrameEvent{Dimensions: u.dims, Changes: g.Changed})
	u.setCounters(func(s *Status) { s.RenderTime = time.Since(start) })

	o := u.options()
	switch {
	case g.Finished():
		u.finish()
	case o.StopWhenStable && len(g.Changed) == 0:
		u.finish()
	case o.MaxSteps != 0 && u.Status().Generation >= o.MaxSteps:
		u.finish()
	default:
		u.switchRunningState(u.resumeMode)
		if u.resumeMode == RunningStatePlay && u.ticker == nil {
			u.startTicker()
			if u.ticker == nil {
				u.dispatch(RunningStatePlay)
			}
		}
	}
}

func (u *BaseUniverse) finish() {
	u.stopTicker()
	u.switchRunningState(RunningStateFinished)
	st := u.Status()
	u.log.WithFields(log.Fields{
		"generation": st.Generation,
		"live":       st.LiveCells,
	}).Info("simulation finished")
	u.notify(FinishEvent{Status: st})
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.stopTicker()
	u.inFlight = 0
	u.stepQueued = false
	u.population = u.emptyPopulation()
	u.setCounters(func(s *Status) {
		*s = Status{Engine: s.Engine, Host: s.Host}
	})
	u.notify(u.fullFrame())
	u.switchRunningState(RunningStateInit)
}
