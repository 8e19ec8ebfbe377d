// Package arena stores simulation entities behind generation-checked
// handles. Removing an entity bumps its slot generation, so handles held
// across a removal stop resolving instead of aliasing the slot's next tenant.
package arena

import "fmt"

// Handle addresses one entity. The zero Handle never resolves.
type Handle struct {
	Index uint32
	Gen   uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.Index, h.Gen)
}

type slot[T any] struct {
	val  T
	gen  uint32
	used bool
}

// Arena is a slot map. It is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle, reusing freed slots first.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.val = v
	s.used = true
	a.live++
	return Handle{Index: idx, Gen: s.gen}
}

// Get resolves h. ok is false for removed or foreign handles.
func (a *Arena[T]) Get(h Handle) (v T, ok bool) {
	if int(h.Index) >= len(a.slots) {
		return v, false
	}
	s := &a.slots[h.Index]
	if !s.used || s.gen != h.Gen {
		return v, false
	}
	return s.val, true
}

// Contains reports whether h still resolves.
func (a *Arena[T]) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Remove deletes the entity behind h. It reports false when h was already stale.
func (a *Arena[T]) Remove(h Handle) bool {
	if !a.Contains(h) {
		return false
	}
	s := &a.slots[h.Index]
	var zero T
	s.val = zero
	s.used = false
	a.free = append(a.free, h.Index)
	a.live--
	return true
}

// Len returns the number of live entities.
func (a *Arena[T]) Len() int {
	return a.live
}

// Handles returns a snapshot of the live handles in slot order. The snapshot
// stays safe to iterate while entities are inserted or removed.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.live)
	for i := range a.slots {
		if a.slots[i].used {
			out = append(out, Handle{Index: uint32(i), Gen: a.slots[i].gen})
		}
	}
	return out
}

// Each calls fn for every live entity in slot order until fn returns false.
func (a *Arena[T]) Each(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.used {
			continue
		}
		if !fn(Handle{Index: uint32(i), Gen: s.gen}, s.val) {
			return
		}
	}
}

// Retain removes every entity for which keep returns false and returns how many were removed.
func (a *Arena[T]) Retain(keep func(Handle, T) bool) int {
	removed := 0
	for _, h := range a.Handles() {
		v, _ := a.Get(h)
		if !keep(h, v) {
			a.Remove(h)
			removed++
		}
	}
	return removed
}

// Clear removes everything. Outstanding handles stop resolving.
func (a *Arena[T]) Clear() {
	a.Retain(func(Handle, T) bool { return false })
}
