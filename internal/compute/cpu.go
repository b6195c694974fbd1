package compute

import (
	"runtime"
	"sync"

	"github.com/san-kum/graphlab/internal/hash"
	"github.com/san-kum/graphlab/internal/vec"
)

type CPUBackend struct {
	workers int
	kernels KernelTable
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
		kernels: NewKernelTable(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Allocate(n int) (*Buffer, error) {
	return NewBuffer(n, nil), nil
}

func (c *CPUBackend) Surface(p SurfaceParams, dst []vec.Vec3) error {
	if err := checkSize(p.Resolution, len(dst)); err != nil {
		return err
	}
	kernel, ok := c.kernels[p.Key()]
	if !ok {
		return unknownKernel(p.Key())
	}

	res := p.Resolution
	step := p.Step()
	ParallelFor(res, 16, c.workers, func(start, end int) {
		for z := start; z < end; z++ {
			v := (float64(z)+0.5)*step - 1
			row := dst[z*res : (z+1)*res]
			for x := range row {
				u := (float64(x)+0.5)*step - 1
				row[x] = kernel(u, v, p.Time, p.Progress)
			}
		}
	})
	return nil
}

// Hash fills dst with one SmallXXHash per cell, batched one row per job.
func (c *CPUBackend) Hash(p HashParams, dst []uint32) error {
	if err := checkSize(p.Resolution, len(dst)); err != nil {
		return err
	}
	seed := hash.Seed(p.Seed)
	res := p.Resolution
	inv := 1 / float64(res)
	ParallelFor(len(dst), res, c.workers, func(start, end int) {
		for i := start; i < end; i++ {
			u, v := hash.Cell(i, res, inv)
			dst[i] = seed.Eat(int32(u)).Eat(int32(v)).Value()
		}
	})
	return nil
}

// ParallelFor runs fn over [0, n) split into contiguous chunks of at least
// minChunk items, one goroutine per chunk, and waits for all of them.
func ParallelFor(n, minChunk, maxWorkers int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || maxWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := maxWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
