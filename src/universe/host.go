package universe

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

//ErrHostUnavailable is returned by Dispatch when the host can not take jobs
var ErrHostUnavailable = errors.New("execution host unavailable")

//Job is the message sent to a host, the population is owned by the host until the result is delivered
type Job struct {
	Seq     uint64
	Request Request
}

//Result is the host reply for a Job
type Result struct {
	Seq        uint64
	Generation Generation
	Elapsed    time.Duration
}

//Host runs the engine for one job at a time
//the result is delivered on the returned channel exactly once
type Host interface {
	Name() string
	Dispatch(job Job) (<-chan Result, error)
	Close()
}

//Hosts is the registry of available host constructors
var Hosts = map[string]func(e Engine) Host{
	"inline": func(e Engine) Host { return NewInlineHost(e) },
	"worker": func(e Engine) Host { return NewWorkerHost(e) },
}

//DefHost is used when nothing else is configured
const DefHost = "worker"

//HostNames returns the registered host names sorted
func HostNames() (names []string) {
	names = make([]string, 0, len(Hosts))
	for k := range Hosts {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

//NewHost creates the host registered under name
func NewHost(name string, e Engine) (Host, error) {
	f, ok := Hosts[name]
	if !ok {
		return nil, fmt.Errorf("unknown host %q", name)
	}
	return f(e), nil
}

func run(e Engine, job Job) Result {
	start := time.Now()
	g := e.Advance(job.Request)
	return Result{Seq: job.Seq, Generation: g, Elapsed: time.Since(start)}
}

//InlineHost computes on the caller goroutine, the returned channel is ready immediately
type InlineHost struct {
	engine Engine
}

func NewInlineHost(e Engine) *InlineHost {
	return &InlineHost{engine: e}
}

func (h *InlineHost) Name() string { return "inline" }

func (h *InlineHost) Dispatch(job Job) (<-chan Result, error) {
	ch := make(chan Result, 1)
	ch <- run(h.engine, job)
	return ch, nil
}

func (h *InlineHost) Close() {}

//WorkerHost computes in its own goroutine, jobs and results are passed as messages
type WorkerHost struct {
	engine Engine
	jobCh  chan workerJob
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

type workerJob struct {
	Job
	replyCh chan Result
}

//NewWorkerHost starts the worker goroutine
func NewWorkerHost(e Engine) *WorkerHost {
	h := &WorkerHost{
		engine: e,
		jobCh:  make(chan workerJob, 1),
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *WorkerHost) Name() string { return "worker" }

//Dispatch copies the population into the message and hands it to the worker
func (h *WorkerHost) Dispatch(job Job) (<-chan Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHostUnavailable
	}
	job.Request.Population = job.Request.Population.Clone()
	wj := workerJob{Job: job, replyCh: make(chan Result, 1)}
	h.jobCh <- wj
	return wj.replyCh, nil
}

//Close stops the worker after the jobs already dispatched are completed
func (h *WorkerHost) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.jobCh)
	h.mu.Unlock()
	<-h.done
}

func (h *WorkerHost) loop() {
	defer close(h.done)
	for wj := range h.jobCh {
		wj.replyCh <- run(h.engine, wj.Job)
	}
}
