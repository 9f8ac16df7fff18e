package render

import (
	"errors"
	"fmt"
)

type cacheEntry struct {
	material Handle
	texture  Handle
	textured bool
	pass     uint64
}

// MaterialCache shares one device material per distinct Appearance. Each
// build is a pass: entries not requested during the latest pass are
// released by Sweep, so a parameter change that alters an appearance
// drops the stale material.
type MaterialCache struct {
	dev     Device
	entries map[Appearance]*cacheEntry
	pass    uint64
	hits    int
	misses  int
}

// NewMaterialCache creates an empty cache allocating from dev.
func NewMaterialCache(dev Device) *MaterialCache {
	return &MaterialCache{dev: dev, entries: make(map[Appearance]*cacheEntry)}
}

// BeginPass starts a new build pass.
func (c *MaterialCache) BeginPass() {
	c.pass++
}

// Get returns the material for a, allocating it (and its texture) on
// first use.
func (c *MaterialCache) Get(a Appearance) Handle {
	if e, ok := c.entries[a]; ok {
		e.pass = c.pass
		c.hits++
		return e.material
	}
	c.misses++
	e := &cacheEntry{pass: c.pass}
	label := a.Color
	if a.HasTexture() {
		e.texture = c.dev.Allocate(KindTexture, a.Texture)
		e.textured = true
		label = fmt.Sprintf("%s/%s@%gx%g", a.Color, a.Texture, a.RepeatU, a.RepeatV)
	}
	e.material = c.dev.Allocate(KindMaterial, label)
	c.entries[a] = e
	return e.material
}

// Sweep releases every entry not used in the current pass and returns how
// many were dropped.
func (c *MaterialCache) Sweep() (int, error) {
	var errs []error
	n := 0
	for a, e := range c.entries {
		if e.pass == c.pass {
			continue
		}
		errs = append(errs, c.release(e))
		delete(c.entries, a)
		n++
	}
	return n, errors.Join(errs...)
}

// Purge releases every entry.
func (c *MaterialCache) Purge() error {
	var errs []error
	for a, e := range c.entries {
		errs = append(errs, c.release(e))
		delete(c.entries, a)
	}
	return errors.Join(errs...)
}

func (c *MaterialCache) release(e *cacheEntry) error {
	err := c.dev.Release(e.material)
	if e.textured {
		err = errors.Join(err, c.dev.Release(e.texture))
	}
	return err
}

// Len returns the number of cached materials.
func (c *MaterialCache) Len() int {
	return len(c.entries)
}

// HitRate returns hits and misses since the cache was created.
func (c *MaterialCache) HitRate() (hits, misses int) {
	return c.hits, c.misses
}
