package shoal

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/shoal/systems"
)

// workChunk is a range of snapshot indices for one worker.
type workChunk struct {
	start, end int
	t          float64
}

// parallelState holds the intent buffer and the persistent worker pool.
type parallelState struct {
	intents    []systems.Agent
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		intents:    make([]systems.Agent, 0, 512),
	}
}

// prepare sizes the intent buffer for n agents.
func (p *parallelState) prepare(n int) []systems.Agent {
	if cap(p.intents) < n {
		p.intents = make([]systems.Agent, n)
	}
	p.intents = p.intents[:n]
	return p.intents
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Shoal) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(s *Shoal) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, chunk.t)
			p.doneChan <- struct{}{}
		}
	}
}

// compute splits [0, n) across the pool and blocks until every chunk is done.
func (p *parallelState) compute(s *Shoal, n int, t float64) {
	if !p.running {
		p.startWorkers(s)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, t: t}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
