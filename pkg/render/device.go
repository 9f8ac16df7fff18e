// Package render is the contract between the stadium builder and whatever
// draws it: resource allocation on a device, an explicit material cache,
// a registry for light emitters and the flat buffers meshes upload as.
package render

import (
	"errors"
	"fmt"
	"sync"
)

// Kind classifies a device resource.
type Kind string

const (
	KindNode     Kind = "node"
	KindGeometry Kind = "geometry"
	KindMaterial Kind = "material"
	KindTexture  Kind = "texture"
	KindEmitter  Kind = "emitter"
	KindTarget   Kind = "target"
)

// Handle identifies one allocated resource.
type Handle struct {
	ID    uint64 `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

// Device allocates and releases renderer resources.
type Device interface {
	Allocate(kind Kind, label string) Handle
	Release(h Handle) error
}

// ErrUnknownHandle is returned when releasing a handle that is not live.
var ErrUnknownHandle = errors.New("unknown or already released handle")

// Stats summarises device usage.
type Stats struct {
	Live      map[Kind]int `json:"live"`
	LiveTotal int          `json:"live_total"`
	Allocated int          `json:"allocated"`
	Released  int          `json:"released"`
}

// Memory is an in-process Device that only tracks handles. It stands in
// for a GPU when building headless and lets tests count live resources.
type Memory struct {
	mu        sync.Mutex
	next      uint64
	live      map[uint64]Handle
	allocated int
	released  int
}

// NewMemory creates an empty Memory device.
func NewMemory() *Memory {
	return &Memory{live: make(map[uint64]Handle)}
}

func (m *Memory) Allocate(kind Kind, label string) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	h := Handle{ID: m.next, Kind: kind, Label: label}
	m.live[h.ID] = h
	m.allocated++
	return h
}

func (m *Memory) Release(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[h.ID]; !ok {
		return fmt.Errorf("release %s %q (%d): %w", h.Kind, h.Label, h.ID, ErrUnknownHandle)
	}
	delete(m.live, h.ID)
	m.released++
	return nil
}

// LiveCount returns the number of live handles of kind.
func (m *Memory) LiveCount(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.live {
		if h.Kind == kind {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the device counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{
		Live:      make(map[Kind]int),
		LiveTotal: len(m.live),
		Allocated: m.allocated,
		Released:  m.released,
	}
	for _, h := range m.live {
		s.Live[h.Kind]++
	}
	return s
}
