package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source yields uniform values in [0, 1). The engine draws once per match.
type Source interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a goroutine-safe seeded source.
func NewSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// FixedSource always returns the same draw.
type FixedSource float64

func (f FixedSource) Float64() float64 {
	return float64(f)
}

// CountingSource wraps a Source and counts draws.
type CountingSource struct {
	Source
	mu    sync.Mutex
	draws int
}

func (c *CountingSource) Float64() float64 {
	c.mu.Lock()
	c.draws++
	c.mu.Unlock()
	return c.Source.Float64()
}

func (c *CountingSource) Draws() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}
