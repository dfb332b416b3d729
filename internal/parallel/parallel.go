// Package parallel provides the worker helpers used when differentiating
// independent computations concurrently. Tapes are not safe for shared
// writes, so the unit of parallelism is one tape per goroutine.
package parallel

import (
	"runtime"
	"sync"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/num"
	"github.com/spool-ml/spool/internal/tape"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is
// too small. f must not touch a tape shared with another i.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// EachTape runs fn once per worker, each call on its own fresh active
// tape, and returns the tapes afterwards so callers can combine their
// statistics or read gradients. Workers below 1 are clamped to 1.
func EachTape[T num.Scalar[T]](workers int, opts config.Options, fn func(worker int, t *tape.Tape[T])) []*tape.Tape[T] {
	if workers < 1 {
		workers = 1
	}
	tapes := make([]*tape.Tape[T], workers)
	for i := range tapes {
		tapes[i] = tape.New[T](opts)
		tapes[i].SetActive()
	}

	// One index per worker, so chunking must not merge them.
	cfg := Config{Enabled: workers > 1, NumWorkers: workers, MinChunkSize: 1}
	For(workers, func(i int) { fn(i, tapes[i]) }, cfg)
	return tapes
}
