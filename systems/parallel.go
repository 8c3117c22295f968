package systems

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
)

// parallelThreshold is the minimum creature count to fan the gait pass out to
// workers. Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// gaitJob is one creature's gait input, plus the emergency count it produced.
// Component pointers stay valid for the whole pass since the gait phase never
// adds or removes entities.
type gaitJob struct {
	Pos, Vel    r2.Vec
	Body        *components.Body
	Beh         *components.Behavior
	Legs        *components.LegSet
	Emergencies int
}

// workChunk represents a range of jobs for a worker to process.
type workChunk struct {
	start, end int
	dt         float64
}

// workerPool runs chunks of the gait pass on a fixed set of goroutines.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newWorkerPool() *workerPool {
	return &workerPool{numWorkers: runtime.GOMAXPROCS(0)}
}

func (p *workerPool) start(run func(chunk workChunk)) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(run)
	}
}

func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker(run func(chunk workChunk)) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			run(chunk)
			p.doneChan <- struct{}{}
		}
	}
}

// dispatch splits n jobs into one chunk per worker and waits for all of them.
func (p *workerPool) dispatch(n int, dt float64) {
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, dt: dt}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
