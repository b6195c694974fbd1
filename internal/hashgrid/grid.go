// Package hashgrid fills a square grid with per-cell SmallXXHash values and
// derives the display data used to visualize them.
package hashgrid

import (
	"errors"
	"fmt"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/hash"
	"github.com/san-kum/graphlab/internal/vec"
)

const (
	MinResolution = 4
	MaxResolution = 512
	MinOffset     = -2.0
	MaxOffset     = 2.0
)

var ErrParameterBounds = errors.New("hashgrid: parameter out of valid bounds")

type Config struct {
	Resolution     int
	Seed           int32
	VerticalOffset float64
}

func DefaultConfig() Config {
	return Config{Resolution: 32, VerticalOffset: 1}
}

func (c Config) Validate() error {
	if c.Resolution < MinResolution || c.Resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d not in [%d, %d]", ErrParameterBounds, c.Resolution, MinResolution, MaxResolution)
	}
	if c.VerticalOffset < MinOffset || c.VerticalOffset > MaxOffset {
		return fmt.Errorf("%w: vertical offset %.2f not in [%.0f, %.0f]", ErrParameterBounds, c.VerticalOffset, MinOffset, MaxOffset)
	}
	return nil
}

type Grid struct {
	cfg    Config
	hashes []uint32
}

func New(cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Grid{cfg: cfg}, nil
}

func (g *Grid) Config() Config { return g.cfg }

// Compute allocates the hash buffer and fills it on the backend.
func (g *Grid) Compute(b compute.Backend) error {
	n := g.cfg.Resolution * g.cfg.Resolution
	if len(g.hashes) != n {
		g.hashes = make([]uint32, n)
	}
	return b.Hash(compute.HashParams{Resolution: g.cfg.Resolution, Seed: g.cfg.Seed}, g.hashes)
}

// Reconfigure swaps the config and drops the computed hashes.
func (g *Grid) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	g.hashes = nil
	return nil
}

func (g *Grid) Hashes() []uint32 { return g.hashes }

func (g *Grid) Len() int { return len(g.hashes) }

// ConfigVector packs resolution, its inverse and the scaled vertical offset.
func (g *Grid) ConfigVector() [3]float64 {
	inv := 1 / float64(g.cfg.Resolution)
	return [3]float64{float64(g.cfg.Resolution), inv, g.cfg.VerticalOffset * inv}
}

// Position places cell i on the unit square centered at the origin, lifted
// by the high byte of its hash.
func (g *Grid) Position(i int) vec.Vec3 {
	cv := g.ConfigVector()
	u, v := hash.Cell(i, g.cfg.Resolution, cv[1])
	h := g.hashes[i]
	return vec.Vec3{
		X: cv[1]*(float64(u)+0.5) - 0.5,
		Y: cv[2] * (float64(h>>24)/255 - 0.5),
		Z: cv[1]*(float64(v)+0.5) - 0.5,
	}
}

// Color maps the low three hash bytes to RGB.
func (g *Grid) Color(i int) (r, gr, b uint8) {
	h := g.hashes[i]
	return uint8(h), uint8(h >> 8), uint8(h >> 16)
}

// Stats summarizes the distribution of the high byte over the grid.
type Stats struct {
	Cells    int
	Distinct int
	Mean     float64
	Buckets  [16]int
}

func (g *Grid) Stats() Stats {
	s := Stats{Cells: len(g.hashes)}
	seen := make(map[uint32]struct{}, len(g.hashes))
	sum := 0.0
	for _, h := range g.hashes {
		seen[h] = struct{}{}
		hi := h >> 24
		sum += float64(hi)
		s.Buckets[hi>>4]++
	}
	s.Distinct = len(seen)
	if s.Cells > 0 {
		s.Mean = sum / float64(s.Cells)
	}
	return s
}
