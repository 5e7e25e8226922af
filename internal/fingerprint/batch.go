package fingerprint

import (
	"context"
	"runtime"
	"sync"
)

// BatchOptions controls Batch.
type BatchOptions struct {
	Workers int  // defaults to GOMAXPROCS
	Text    bool // fingerprint files as text
	Logf    func(format string, args ...any)
}

func (o *BatchOptions) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Batch fingerprints paths concurrently and calls fn once per path, never
// concurrently, in completion order. A failing path is reported to fn and
// does not stop the batch. Once ctx is done no new path is started and
// Batch returns ctx.Err() after the running ones finish.
func (f *Fingerprinter) Batch(ctx context.Context, paths []string, opts BatchOptions, fn func(path string, res *Result, err error)) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)

loop:
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}: // acquire slot
		}
		wg.Go(func() {
			defer func() { <-sem }() // release slot

			opts.logf("fingerprinting %s", path)
			res, err := f.File(path, opts.Text)

			mu.Lock()
			fn(path, res, err)
			mu.Unlock()
		})
	}

	wg.Wait()
	return ctx.Err()
}
