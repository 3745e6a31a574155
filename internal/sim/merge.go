package sim

import (
	"sync"

	"github.com/vovakirdan/rope-survival/internal/generator"
)

type intentKind int

const (
	intentSpawn intentKind = iota
	intentRepattern
	intentCommentary
)

// mergeIntent is a generator result waiting to be applied by the tick.
// generation is the session generation at request time.
type mergeIntent struct {
	kind       intentKind
	generation uint64
	edge       Edge
	level      int
	event      generator.EventKind
	pattern    generator.PatternResponse
	commentary string
	err        error
}

// mergeQueue is the only state shared with generator goroutines.
type mergeQueue struct {
	mu    sync.Mutex
	items []mergeIntent
}

func (q *mergeQueue) push(it mergeIntent) {
	q.mu.Lock()
	q.items = append(q.items, it)
	q.mu.Unlock()
}

// drain returns queued intents in arrival order and empties the queue.
func (q *mergeQueue) drain() []mergeIntent {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

func (q *mergeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dispatcher runs generator calls off the tick.
type Dispatcher interface {
	Dispatch(fn func())
}

// GoDispatcher runs each call on its own goroutine.
type GoDispatcher struct {
	wg sync.WaitGroup
}

// Dispatch starts fn in a new goroutine.
func (d *GoDispatcher) Dispatch(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}

// Wait blocks until all dispatched calls have returned.
func (d *GoDispatcher) Wait() {
	d.wg.Wait()
}

// InlineDispatcher runs calls synchronously. Results still wait in the
// merge queue for the next tick, which makes seeded runs reproducible.
type InlineDispatcher struct{}

// Dispatch runs fn immediately.
func (InlineDispatcher) Dispatch(fn func()) { fn() }

// HeldDispatcher queues calls until Release. Tests use it to let a
// request resolve after the session has moved on.
type HeldDispatcher struct {
	mu    sync.Mutex
	calls []func()
}

// Dispatch holds fn.
func (d *HeldDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	d.calls = append(d.calls, fn)
	d.mu.Unlock()
}

// Release runs every held call in order and returns how many ran.
func (d *HeldDispatcher) Release() int {
	d.mu.Lock()
	calls := d.calls
	d.calls = nil
	d.mu.Unlock()
	for _, fn := range calls {
		fn()
	}
	return len(calls)
}

// Held returns the number of calls waiting.
func (d *HeldDispatcher) Held() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}
