package logger

import (
	"context"
	"sync"

	"github.com/philipp01105/logproxy/core"
)

// task is a sink call with its already captured entry.
type task struct {
	sink  core.Sink
	entry core.Entry
}

// worker runs tasks on a single goroutine in FIFO order. The queue is
// unbounded and the goroutine lives for the rest of the process.
type worker struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []task
	busy  bool // a batch taken from queue is still running
}

func newWorker() *worker {
	w := &worker{}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// enqueue appends t and returns without waiting for it to run.
func (w *worker) enqueue(t task) {
	w.mu.Lock()
	w.queue = append(w.queue, t)
	w.mu.Unlock()
	w.cond.Broadcast()
}

// run drains the queue in batches. A panicking sink is not recovered.
func (w *worker) run() {
	var batch []task
	for {
		w.mu.Lock()
		for len(w.queue) == 0 {
			w.busy = false
			w.cond.Broadcast()
			w.cond.Wait()
		}
		batch, w.queue = w.queue, batch[:0]
		w.busy = true
		w.mu.Unlock()

		for i := range batch {
			batch[i].sink(batch[i].entry)
			batch[i] = task{}
		}
	}
}

// wait blocks until the queue is empty and no batch is running.
func (w *worker) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.mu.Lock()
		for len(w.queue) > 0 || w.busy {
			w.cond.Wait()
		}
		w.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// depth returns the number of tasks waiting to run.
func (w *worker) depth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}
