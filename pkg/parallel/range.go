package parallel

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrTaskPanic wraps a panic recovered from a chunk function.
var ErrTaskPanic = errors.New("parallel task panicked")

// MaxWorkers is the maximum number of workers allowed for one Range call.
const MaxWorkers = math.MaxInt / 2

// MinParallelItems is the smallest item count that is split across workers.
// Smaller ranges run inline on the calling goroutine.
const MinParallelItems = 2048

// Workers normalises a requested worker count: values <= 0 mean one worker per CPU.
func Workers(requested int) (int, error) {
	if requested <= 0 {
		return runtime.NumCPU(), nil
	}
	if requested > MaxWorkers {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, requested, MaxWorkers)
	}
	return requested, nil
}

// ChunkSize returns the chunk length that splits n items over workers.
func ChunkSize(n, workers int) int {
	if n <= 0 || workers <= 0 {
		return 1
	}
	// ceiling division without the n+workers-1 overflow
	size := n / workers
	if n%workers != 0 {
		size++
	}
	return size
}

// Range splits [0, n) into contiguous chunks and calls fn(lo, hi) for each one,
// at most `workers` at a time. Chunks are disjoint, so fn may write to its own
// slots of a shared slice without locking. The first error (or recovered panic)
// is returned after every chunk has finished.
func Range(n, requestedWorkers int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	workers, err := Workers(requestedWorkers)
	if err != nil {
		return err
	}
	if workers == 1 || n < MinParallelItems {
		return guard(fn, 0, n)
	}

	size := ChunkSize(n, workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			return guard(fn, lo, hi)
		})
	}
	return g.Wait()
}

func guard(fn func(lo, hi int) error, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: chunk [%d,%d): %v", ErrTaskPanic, lo, hi, r)
		}
	}()
	return fn(lo, hi)
}
