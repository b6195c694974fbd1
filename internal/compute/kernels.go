package compute

import (
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

// KernelKey selects the kernel for a transition from one function to another.
type KernelKey struct {
	From, To surface.Name
}

// Kernel evaluates one cell. Progress is ignored by identity kernels.
type Kernel func(u, v, t, progress float64) vec.Vec3

// KernelTable holds one kernel per ordered pair of library names.
type KernelTable map[KernelKey]Kernel

// NewKernelTable builds the N*N kernels of the surface library.
func NewKernelTable() KernelTable {
	names := surface.Names()
	table := make(KernelTable, len(names)*len(names))
	for _, from := range names {
		fromFn := surface.MustGet(from)
		for _, to := range names {
			toFn := surface.MustGet(to)
			key := KernelKey{From: from, To: to}
			if from == to {
				table[key] = func(u, v, t, _ float64) vec.Vec3 { return toFn(u, v, t) }
				continue
			}
			table[key] = func(u, v, t, progress float64) vec.Vec3 {
				return surface.Morph(u, v, t, fromFn, toFn, progress)
			}
		}
	}
	return table
}
