package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gbuffer-denoise/internal/logging"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Dispatcher runs fn once for every tile of a w×h grid and returns when all
// tiles are done. Tiles may run in any order and concurrently; fn must only
// write pixels inside its tile.
type Dispatcher interface {
	Dispatch(ctx context.Context, w, h int, fn func(Tile)) error
}

// Serial runs every tile on the calling goroutine in row-major order.
type Serial struct {
	GroupSize int
}

func (s Serial) Dispatch(ctx context.Context, w, h int, fn func(Tile)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	for _, t := range Tiles(w, h, s.GroupSize) {
		fn(t)
	}
	return nil
}

// Pool dispatches tiles onto a bounded set of reusable goroutines.
// Workers are kept across dispatches so per-frame passes do not pay goroutine
// spawn cost. A per-dispatch WaitGroup is the barrier between passes.
type Pool struct {
	groupSize int
	workers   int
	pool      worker.DynamicWorkerPool
	nextID    atomic.Int64
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count and tile size.
func NewPool(workers, groupSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	return &Pool{
		groupSize: groupSize,
		workers:   workers,
		pool:      worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the pool's workers. Dispatch must not be called afterwards.
func (p *Pool) Close() {
	p.closeOnce.Do(p.pool.Stop)
}

// GroupSize returns the tile edge length.
func (p *Pool) GroupSize() int {
	return p.groupSize
}

// Dispatch runs fn over every tile. The context is checked once before the
// dispatch starts; a started dispatch always runs to completion.
func (p *Pool) Dispatch(ctx context.Context, w, h int, fn func(Tile)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	tiles := Tiles(w, h, p.groupSize)
	if len(tiles) == 0 {
		return nil
	}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(len(tiles))
	for _, t := range tiles {
		tile := t // capture for closure
		id := int(p.nextID.Add(1))
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(tile)
				return nil, nil
			},
		})
	}
	wg.Wait()

	logging.Logger().Debug("dispatch complete",
		"width", w, "height", h, "tiles", len(tiles), "elapsed", time.Since(start))
	return nil
}
