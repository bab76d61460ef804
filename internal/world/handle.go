package world

import "fmt"

// Handle is a weak reference into an Arena. A handle whose slot was freed
// or reused no longer resolves.
type Handle struct {
	Index uint32
	Gen   uint32
}

// NoHandle never resolves.
var NoHandle Handle

// IsValid reports whether h was ever issued. It says nothing about liveness.
func (h Handle) IsValid() bool { return h.Gen != 0 }

func (h Handle) String() string {
	if !h.IsValid() {
		return "none"
	}
	return fmt.Sprintf("%d#%d", h.Index, h.Gen)
}

type arenaSlot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// Arena stores values behind generation-checked handles.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.live = true
	s.val = v
	a.live++
	return Handle{Index: idx, Gen: s.gen}
}

// Get resolves h. The bool is false when the referent is gone.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if !h.IsValid() || int(h.Index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.Index]
	if !s.live || s.gen != h.Gen {
		return zero, false
	}
	return s.val, true
}

// Set replaces the value behind a live handle.
func (a *Arena[T]) Set(h Handle, v T) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	a.slots[h.Index].val = v
	return true
}

// Remove frees the slot. Outstanding handles stop resolving.
func (a *Arena[T]) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	s := &a.slots[h.Index]
	var zero T
	s.live = false
	s.val = zero
	a.free = append(a.free, h.Index)
	a.live--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

// Each visits live values in slot order.
func (a *Arena[T]) Each(fn func(Handle, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(Handle{Index: uint32(i), Gen: s.gen}, s.val)
		}
	}
}
