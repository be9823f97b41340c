package calc

import (
	"context"
	"runtime"
	"sync"
)

// Pool fans indexed jobs out to a fixed number of workers.
type Pool struct {
	numWorker int
}

// NewPool returns a Pool with n workers; n <= 0 uses runtime.NumCPU().
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{numWorker: n}
}

// Workers reports the worker count.
func (p *Pool) Workers() int { return p.numWorker }

func work(ctx context.Context, fn func(int), order <-chan int, wg *sync.WaitGroup) {
	for {
		index, ok := <-order
		if !ok {
			return
		}
		if ctx.Err() == nil {
			fn(index)
		}
		wg.Done()
	}
}

// Run calls fn(i) for every i in [0, jobs) and blocks until all have
// finished. Jobs not yet started when ctx is cancelled are skipped and
// ctx.Err() is returned.
func (p *Pool) Run(ctx context.Context, jobs int, fn func(i int)) error {
	order := make(chan int, p.numWorker)
	var wg sync.WaitGroup

	wg.Add(jobs)

	for i := 0; i < p.numWorker; i++ {
		go work(ctx, fn, order, &wg)
	}

	for i := 0; i < jobs; i++ {
		order <- i
	}

	wg.Wait()
	close(order)

	return ctx.Err()
}
