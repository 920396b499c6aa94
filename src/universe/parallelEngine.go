package universe

import "golang.org/x/sync/errgroup"

/*
	Engine implementation with multithreaded computation algorithm
	the field is splitted into row bands each of which is computed by individual goroutine
	band results are merged in band order, so the diff keeps the row-major order of the dense engine
*/

const (
	DefWorkers          = 10 //default workers
	DefMinRowsPerWorker = 3  //minimum rows for one worker
)

type ParallelEngine struct {
	workers int
}

//workArea describes the rows [y1, y2) computed by one worker
type workArea struct {
	y1   int
	y2   int
	born []Coord
	died []Coord
}

func NewParallelEngine(workers int) *ParallelEngine {
	if workers <= 0 {
		workers = DefWorkers
	}
	return &ParallelEngine{workers: workers}
}

func (pe *ParallelEngine) Name() string { return "parallel" }

//Workers returns the configured upper bound of goroutines per step
func (pe *ParallelEngine) Workers() int { return pe.workers }

func (pe *ParallelEngine) Advance(req Request) Generation {
	dp := denseView(req.Population, req.Dimensions)
	areas := splitRows(req.Dimensions.Height, pe.workers)

	var eg errgroup.Group
	for i := range areas {
		wa := &areas[i]
		eg.Go(func() error {
			wa.born, wa.died = evalRows(dp, req.Rules, wa.y1, wa.y2)
			return nil
		})
	}
	//workers never fail
	_ = eg.Wait()

	var born, died []Coord
	for _, wa := range areas {
		born = append(born, wa.born...)
		died = append(died, wa.died...)
	}
	return newGeneration(req, born, died)
}

//splitRows splits height rows into at most workers bands of at least DefMinRowsPerWorker rows
func splitRows(height int, workers int) []workArea {
	linesPerWorker := height / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < height {
		linesPerWorker++
	}
	areas := make([]workArea, 0, workers)
	for y1 := 0; y1 < height; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker
		if y2 > height {
			y2 = height
		}
		areas = append(areas, workArea{y1: y1, y2: y2})
	}
	return areas
}
