package thumbnail

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/semaphore"

	"booru-bridge/internal/metrics"
)

// job is one in-flight generation. The registry exclusively owns it;
// awaiters only read path/err after done is closed.
type job struct {
	done chan struct{}
	path string
	err  error
}

// governor enforces the two shared-state invariants: at most one
// in-flight generation per file id, and bounded concurrency per
// admission class. All registry mutation happens under mu; slot
// acquisition happens inside the job goroutine so that registration
// (and therefore deduplication) is never delayed by a full class.
type governor struct {
	baseCtx context.Context
	slots   map[Class]*semaphore.Weighted

	mu   sync.Mutex
	jobs map[int64]*job
}

func newGovernor(baseCtx context.Context, cheapSlots, expensiveSlots int64) *governor {
	return &governor{
		baseCtx: baseCtx,
		slots: map[Class]*semaphore.Weighted{
			ClassCheap:     semaphore.NewWeighted(cheapSlots),
			ClassExpensive: semaphore.NewWeighted(expensiveSlots),
		},
		jobs: make(map[int64]*job),
	}
}

// do returns the artifact path for fileID, producing it with work if
// needed. An artifact already on disk short-circuits without consuming
// a slot; an already-registered job is awaited instead of duplicated.
func (g *governor) do(ctx context.Context, fileID int64, class Class, target string, work func(context.Context) error) (string, error) {
	if _, err := os.Stat(target); err == nil {
		metrics.ThumbnailDiskHits.Inc()
		return target, nil
	}

	g.mu.Lock()
	if j, ok := g.jobs[fileID]; ok {
		g.mu.Unlock()
		metrics.ThumbnailJobsDeduplicated.Inc()
		return g.await(ctx, j)
	}

	// Register before any work starts; this closes the race between
	// the registry check and the insert.
	j := &job{done: make(chan struct{})}
	g.jobs[fileID] = j
	g.mu.Unlock()

	go g.run(fileID, j, class, target, work)
	return g.await(ctx, j)
}

// run executes one generation under its class slot. The registry entry
// is removed unconditionally on completion, success or failure, so a
// later request can attempt a fresh generation.
func (g *governor) run(fileID int64, j *job, class Class, target string, work func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			j.err = fmt.Errorf("thumbnail job for file %d panicked: %v: %w", fileID, r, ErrUnavailable)
		}
		g.mu.Lock()
		delete(g.jobs, fileID)
		g.mu.Unlock()
		close(j.done)
	}()

	sem := g.slots[class]
	if err := sem.Acquire(g.baseCtx, 1); err != nil {
		j.err = fmt.Errorf("admission aborted for file %d: %w", fileID, err)
		return
	}
	defer sem.Release(1)

	metrics.ThumbnailJobsInFlight.WithLabelValues(string(class)).Inc()
	defer metrics.ThumbnailJobsInFlight.WithLabelValues(string(class)).Dec()

	// the wait for a slot may have outlasted a concurrent writer
	if _, err := os.Stat(target); err == nil {
		j.path = target
		return
	}

	if err := work(g.baseCtx); err != nil {
		j.err = err
		return
	}
	j.path = target
}

// await blocks until the job completes or the caller's context ends.
// Abandoning the wait does not cancel the job: other awaiters, and
// future requests, still observe its result.
func (g *governor) await(ctx context.Context, j *job) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-j.done:
		if j.err != nil {
			return "", j.err
		}
		return j.path, nil
	}
}
