package view

import (
	"sync"
	"time"

	"github.com/apex/log"

	"toruslife/src/universe"
)

//DefReportEvery is the number of generations between the progress records
const DefReportEvery = 10

//ConsoleOut is the headless viewer, it writes the simulation progress to the log
type ConsoleOut struct {
	u           universe.Universe
	log         log.Interface
	reportEvery int

	mu        sync.Mutex
	startTime time.Time
	reported  int
	finished  bool
}

func NewConsoleOut(l log.Interface) *ConsoleOut {
	if l == nil {
		l = log.Log
	}
	return &ConsoleOut{log: l, reportEvery: DefReportEvery}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := u.Options()
	c.log.WithFields(log.Fields{
		"width":     o.Width,
		"height":    o.Height,
		"interval":  o.Interval,
		"max_steps": o.MaxSteps,
		"rules":     o.Rules.String(),
		"engine":    o.Engine,
		"host":      o.Host,
		"dense":     o.Dense,
	}).Info("running configuration")
}

func (c *ConsoleOut) Start() error {
	c.mu.Lock()
	c.startTime = time.Now()
	c.mu.Unlock()
	c.log.Info("simulation started")
	return nil
}

func (c *ConsoleOut) Handle(ev universe.Event) {
	switch e := ev.(type) {
	case universe.StatusEvent:
		c.progress(e.Status)
	case universe.FinishEvent:
		c.summary(e.Status)
	}
}

func (c *ConsoleOut) progress(st universe.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.RunningMode == universe.RunningStateInit {
		c.reported, c.finished = 0, false
	}
	if st.Generation == 0 || st.Generation%c.reportEvery != 0 || st.Generation == c.reported {
		return
	}
	c.reported = st.Generation
	c.log.WithFields(log.Fields{
		"generation": st.Generation,
		"live":       st.LiveCells,
		"eval":       st.GenerationTime,
	}).Info("generations done")
}

func (c *ConsoleOut) summary(st universe.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.finished = true
	var total time.Duration
	if !c.startTime.IsZero() {
		total = time.Since(c.startTime).Round(time.Millisecond)
	}
	c.log.WithFields(log.Fields{
		"last_generation": st.Generation,
		"total_time":      total,
		"live":            st.LiveCells,
		"skipped_ticks":   st.SkippedTicks,
	}).Info("finished")
}
