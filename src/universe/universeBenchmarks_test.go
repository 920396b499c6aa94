package universe

import (
	"fmt"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
)

var (
	testTemplate = Template{"ts1", "", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}}}
)

const (
	width  = 200
	height = 200
)

func newUniverseOptions(engine string, host string) *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	o.MaxSteps = 100
	o.Engine = engine
	o.Host = host
	o.Logger = &log.Logger{Handler: discard.New(), Level: log.ErrorLevel}
	return &o
}

func universeRun(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Reset()
		for st := <-stateCh; st.RunningMode != RunningStateInit; st = <-stateCh {
		}
		_ = u.SettleTemplate("ts1")
		b.StartTimer()
		u.Start()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func Benchmark_Advance(b *testing.B) {
	for _, density := range []float64{0.05, 0.4} {
		p := RandomPopulation(Dimensions{width, height}, density, NewRand(1), false)
		for _, e := range EngineNames() {
			engine, _ := NewEngine(e)
			req := Request{Population: p, Dimensions: Dimensions{width, height}, Rules: DefaultRules}
			if e != "sparse" {
				req.Population = ToDense(p, req.Dimensions)
			}
			b.Run(fmt.Sprintf("%s/%.2f", e, density), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					engine.Advance(req)
				}
			})
		}
	}
}

func Benchmark_Universe(b *testing.B) {
	for _, e := range EngineNames() {
		for _, h := range HostNames() {
			b.Run(e+"/"+h, func(b *testing.B) {
				u, err := NewBaseUniverse(newUniverseOptions(e, h), make(chan Status, 10))
				if err != nil {
					b.Fatal(err)
				}
				universeRun(u, b)
			})
		}
	}
}
