// Package glcompute evaluates surface and hash kernels with OpenGL 4.3
// compute shaders. Every call must happen on the thread that owns a current GL
// context; the raylib host provides one.
package glcompute

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/surface"
	"github.com/san-kum/graphlab/internal/vec"
)

type Backend struct {
	logger      *log.Logger
	programs    map[compute.KernelKey]uint32
	hashProgram uint32

	positions    uint32
	positionsCap int
	hashes       uint32
	hashesCap    int
	scratch      []float32
	live         int

	initialized bool
}

func New(logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Backend{logger: logger, programs: make(map[compute.KernelKey]uint32)}
}

// Init loads the GL entry points. Kernel programs are compiled lazily, one per
// pair, on first use.
func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %w", err)
	}

	var groupCount, groupSize [3]int32
	gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, 0, &groupCount[0])
	gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_SIZE, 0, &groupSize[0])
	b.logger.Info("opengl compute initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)),
		"max_groups", groupCount[0], "max_group_size", groupSize[0])

	b.initialized = true
	return nil
}

func (b *Backend) Name() string    { return "opengl" }
func (b *Backend) Available() bool { return b.initialized }

// Allocate returns a host buffer mirrored by the shared position SSBO. The
// SSBO grows to the largest live buffer and is deleted with the last one.
func (b *Backend) Allocate(n int) (*compute.Buffer, error) {
	if !b.initialized {
		return nil, compute.ErrUnavailable
	}
	if n > b.positionsCap {
		b.positions = resize(b.positions, n*3*4)
		b.positionsCap = n
	}
	b.live++
	return compute.NewBuffer(n, b.releasePositions), nil
}

func (b *Backend) releasePositions() {
	b.live--
	if b.live > 0 || b.positions == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.positions)
	b.positions = 0
	b.positionsCap = 0
	b.scratch = nil
}

func (b *Backend) Surface(p compute.SurfaceParams, dst []vec.Vec3) error {
	if !b.initialized {
		return compute.ErrUnavailable
	}
	if p.Resolution <= 0 || p.Resolution*p.Resolution != len(dst) {
		return fmt.Errorf("%w: resolution %d, buffer %d", compute.ErrBufferSize, p.Resolution, len(dst))
	}
	program, err := b.program(p.Key())
	if err != nil {
		return err
	}
	n := len(dst)
	if n > b.positionsCap {
		b.positions = resize(b.positions, n*3*4)
		b.positionsCap = n
	}

	gl.UseProgram(program)
	gl.Uniform1ui(uniform(program, "_Resolution"), uint32(p.Resolution))
	gl.Uniform1f(uniform(program, "_Step"), float32(p.Step()))
	gl.Uniform1f(uniform(program, "_Time"), float32(p.Time))
	gl.Uniform1f(uniform(program, "_TransitionProgress"), float32(surface.SmoothStep(0, 1, p.Progress)))
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.positions)

	groups := uint32(compute.Groups(p.Resolution))
	gl.DispatchCompute(groups, groups, 1)
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)

	if cap(b.scratch) < n*3 {
		b.scratch = make([]float32, n*3)
	}
	scratch := b.scratch[:n*3]
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.positions)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*3*4, gl.Ptr(&scratch[0]))
	for i := range dst {
		dst[i] = vec.Vec3{X: float64(scratch[3*i]), Y: float64(scratch[3*i+1]), Z: float64(scratch[3*i+2])}
	}
	return nil
}

func (b *Backend) Hash(p compute.HashParams, dst []uint32) error {
	if !b.initialized {
		return compute.ErrUnavailable
	}
	if p.Resolution <= 0 || p.Resolution*p.Resolution != len(dst) {
		return fmt.Errorf("%w: resolution %d, buffer %d", compute.ErrBufferSize, p.Resolution, len(dst))
	}
	if b.hashProgram == 0 {
		program, err := compileCompute(HashSource)
		if err != nil {
			return fmt.Errorf("hash kernel: %w", err)
		}
		b.hashProgram = program
	}
	if len(dst) > b.hashesCap {
		b.hashes = resize(b.hashes, len(dst)*4)
		b.hashesCap = len(dst)
	}

	gl.UseProgram(b.hashProgram)
	gl.Uniform1ui(uniform(b.hashProgram, "_Resolution"), uint32(p.Resolution))
	gl.Uniform1i(uniform(b.hashProgram, "_Seed"), p.Seed)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, b.hashes)

	groups := uint32(compute.Groups(p.Resolution))
	gl.DispatchCompute(groups, groups, 1)
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.hashes)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(dst)*4, gl.Ptr(&dst[0]))
	return nil
}

// Cleanup deletes every program and buffer. Live host buffers stay usable as
// plain memory.
func (b *Backend) Cleanup() {
	if !b.initialized {
		return
	}
	for k, program := range b.programs {
		gl.DeleteProgram(program)
		delete(b.programs, k)
	}
	if b.hashProgram != 0 {
		gl.DeleteProgram(b.hashProgram)
		b.hashProgram = 0
	}
	for _, buf := range []*uint32{&b.positions, &b.hashes} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
	b.positionsCap, b.hashesCap = 0, 0
	b.live = 0
	b.initialized = false
}

func (b *Backend) program(k compute.KernelKey) (uint32, error) {
	if program, ok := b.programs[k]; ok {
		return program, nil
	}
	src, err := SurfaceSource(k)
	if err != nil {
		return 0, err
	}
	program, err := compileCompute(src)
	if err != nil {
		return 0, fmt.Errorf("kernel %s -> %s: %w", k.From, k.To, err)
	}
	b.logger.Debug("compiled kernel", "from", k.From, "to", k.To)
	b.programs[k] = program
	return program, nil
}

func resize(buf uint32, size int) uint32 {
	if buf != 0 {
		gl.DeleteBuffers(1, &buf)
	}
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, buf)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_READ)
	return buf
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func compileCompute(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile compute shader: %s", strings.TrimRight(msg, "\x00"))
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link compute program")
	}
	return program, nil
}
