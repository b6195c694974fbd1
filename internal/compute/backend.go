package compute

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

var (
	// ErrBufferSize indicates a destination that does not match the grid.
	ErrBufferSize = errors.New("compute: buffer size does not match resolution")

	// ErrUnavailable indicates a backend that cannot run on this machine.
	ErrUnavailable = errors.New("compute: backend not available")
)

// SurfaceParams describes one sampling pass.
type SurfaceParams struct {
	Resolution int
	Time       float64
	From, To   surface.Name
	// Progress is the raw transition progress; kernels ease it themselves.
	Progress float64
}

// Step is the cell width in normalized coordinates.
func (p SurfaceParams) Step() float64 { return 2 / float64(p.Resolution) }

func (p SurfaceParams) Key() KernelKey { return KernelKey{From: p.From, To: p.To} }

// HashParams describes one hashing pass.
type HashParams struct {
	Resolution int
	Seed       int32
}

// Groups is the number of 8-wide work groups covering one axis.
func Groups(resolution int) int {
	return int(math.Ceil(float64(resolution) / 8))
}

type Backend interface {
	Name() string
	Available() bool
	Allocate(n int) (*Buffer, error)
	Surface(p SurfaceParams, dst []vec.Vec3) error
	Hash(p HashParams, dst []uint32) error
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil && activeBackend != b {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend returns the CPU backend; GPU backends need a GL context and
// are installed with SetBackend by the host that owns it.
func AutoSelectBackend() Backend {
	return NewCPUBackend()
}

func checkSize(resolution, n int) error {
	if resolution <= 0 || resolution*resolution != n {
		return fmt.Errorf("%w: resolution %d, buffer %d", ErrBufferSize, resolution, n)
	}
	return nil
}

// ErrUnknownKernel indicates a kernel pair outside the surface library.
var ErrUnknownKernel = errors.New("compute: unknown kernel")

func unknownKernel(k KernelKey) error {
	return fmt.Errorf("%w: %s -> %s", ErrUnknownKernel, k.From, k.To)
}
