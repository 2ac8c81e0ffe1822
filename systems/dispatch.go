package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum dot count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 4096

// workChunk represents a range of dot indices for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds the persistent worker pool for the dot dispatch.
type parallelState struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{numWorkers: runtime.GOMAXPROCS(0)}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(f *Field) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(f)
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

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(f *Field) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			f.stepChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// stepContext holds the per-step inputs and output shared by all workers.
// It is written once before the dispatch and read-only while workers run.
type stepContext struct {
	uniforms SimUniforms
	touches  []Vec2
	out      []Vec2
}

// Field owns the lattice rest positions and the per-dot simulation state.
// Each dot is identified by its index; no dot reads another dot's state,
// so the per-frame step is dispatched as independent chunks over the
// state arrays with zero per-dot allocation.
//
// Field is not itself synchronized: a single frame producer calls Rebuild
// and Step; touch positions arrive through a snapshot taken before Step.
type Field struct {
	rest     []Vec2
	offset   []Vec2
	velocity []Vec2
	spacing  float32

	ctx      stepContext
	parallel *parallelState
}

// NewField creates an empty field. Build the lattice with Rebuild.
func NewField() *Field {
	return &Field{parallel: newParallelState()}
}

// Rebuild replaces the lattice and discards all simulation state. The rest
// positions and state arrays are swapped together, so their lengths always
// match. New state starts at zero offset and velocity; nothing is
// reprojected from the old lattice.
func (f *Field) Rebuild(grid Grid) {
	n := len(grid.Rest)
	f.rest = grid.Rest
	f.offset = make([]Vec2, n)
	f.velocity = make([]Vec2, n)
	f.spacing = grid.Spacing
}

// Count returns the number of dots.
func (f *Field) Count() int {
	return len(f.rest)
}

// Spacing returns the realized lattice spacing.
func (f *Field) Spacing() float32 {
	return f.spacing
}

// RestPosition returns the rest position of dot i.
func (f *Field) RestPosition(i int) Vec2 {
	return f.rest[i]
}

// Offset returns the current displacement of dot i.
func (f *Field) Offset(i int) Vec2 {
	return f.offset[i]
}

// Velocity returns the current velocity of dot i.
func (f *Field) Velocity(i int) Vec2 {
	return f.velocity[i]
}

// Step advances every dot one timestep and writes pixel-space instance
// positions into out, which must hold at least Count() entries. The
// dispatch is skipped entirely when the field is empty; given valid inputs
// it cannot fail.
func (f *Field) Step(u SimUniforms, touches []Vec2, out []Vec2) {
	n := len(f.rest)
	if n == 0 {
		return
	}

	u.DotCount = int32(n)
	f.ctx = stepContext{uniforms: u, touches: touches, out: out}

	if n < parallelThreshold {
		f.stepChunk(0, n)
		return
	}
	f.stepParallel(n)
}

// stepParallel dispatches chunks of the field to the worker pool and waits
// for all of them, so the instance positions are complete before the draw
// that consumes them is issued.
func (f *Field) stepParallel(n int) {
	if !f.parallel.running {
		f.parallel.startWorkers(f)
	}

	numWorkers := f.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	dispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		f.parallel.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-f.parallel.doneChan
	}
}

// stepChunk processes a contiguous range of dots for a single worker.
// Pure math over disjoint state; no shared mutable data between chunks.
func (f *Field) stepChunk(i0, i1 int) {
	u := &f.ctx.uniforms
	touches := f.ctx.touches
	out := f.ctx.out

	for i := i0; i < i1; i++ {
		target := TargetOffset(f.rest[i], touches, u)
		off, vel := IntegrateSpring(f.offset[i], f.velocity[i], target, u)
		f.offset[i] = off
		f.velocity[i] = vel
		out[i] = Vec2{
			X: (f.rest[i].X + off.X) * u.PixelScale,
			Y: (f.rest[i].Y + off.Y) * u.PixelScale,
		}
	}
}

// Close stops the worker pool. The field is unusable afterwards.
func (f *Field) Close() {
	if f.parallel != nil {
		f.parallel.stopWorkers()
	}
}
