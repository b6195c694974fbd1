package compute

import "github.com/san-kum/graphlab/internal/vec"

// Buffer is a contiguous block of grid positions owned by one graph. Backends
// attach a release hook for any device-side mirror.
type Buffer struct {
	Points   []vec.Vec3
	release  func()
	released bool
}

func NewBuffer(n int, release func()) *Buffer {
	return &Buffer{Points: make([]vec.Vec3, n), release: release}
}

func (b *Buffer) Len() int { return len(b.Points) }

// Release frees the buffer. Calling it more than once is a no-op.
func (b *Buffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	if b.release != nil {
		b.release()
	}
	b.Points = nil
}

func (b *Buffer) Released() bool { return b == nil || b.released }
