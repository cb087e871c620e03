package builtin

import "github.com/hackcore-emu/hackcore/internal/emu"

// heapBase and heapLimit bound the region Memory.alloc draws from,
// per spec.md §4.5 ("the heap (addresses 2048..16383)").
const (
	heapBase  = 2048
	heapLimit = 16384
)

type freeBlock struct {
	base, size int
}

// Heap is the free-list allocator backing Memory.alloc/deAlloc and
// Array.new/dispose. It is owned by the interpreter instance (reachable
// through VMStack.Heap()), not a package-level global, so resetting or
// discarding a VM leaves no process-wide state behind (spec.md §9).
type Heap struct {
	free      []freeBlock
	allocated map[int]int // base -> size, for deAlloc's coalescing
}

// NewHeap returns a heap with the entire heap range (heapBase..heapLimit-1)
// free.
func NewHeap() *Heap {
	return &Heap{
		free:      []freeBlock{{base: heapBase, size: heapLimit - heapBase}},
		allocated: map[int]int{},
	}
}

// Alloc returns the base address of a free block of at least size words,
// first-fit with splitting, or an error if none is large enough.
func (h *Heap) Alloc(size int) (int, error) {
	if size <= 0 {
		size = 1
	}
	for i, b := range h.free {
		if b.size < size {
			continue
		}
		base := b.base
		if b.size == size {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			h.free[i] = freeBlock{base: b.base + size, size: b.size - size}
		}
		h.allocated[base] = size
		return base, nil
	}
	return 0, &emu.OutOfBoundsError{Address: size, Instruction: "Memory.alloc: heap exhausted"}
}

// Dealloc returns ptr's block to the free list, coalescing with
// address-adjacent neighbors (spec.md §9's open-question decision).
func (h *Heap) Dealloc(ptr int) {
	size, ok := h.allocated[ptr]
	if !ok {
		return
	}
	delete(h.allocated, ptr)
	h.insertFree(freeBlock{base: ptr, size: size})
}

func (h *Heap) insertFree(nb freeBlock) {
	merged := []freeBlock{}
	inserted := false
	for _, b := range h.free {
		if !inserted && nb.base < b.base {
			merged = append(merged, nb)
			inserted = true
		}
		merged = append(merged, b)
	}
	if !inserted {
		merged = append(merged, nb)
	}

	// coalesce adjacent blocks in address order
	out := merged[:0]
	for _, b := range merged {
		if n := len(out); n > 0 && out[n-1].base+out[n-1].size == b.base {
			out[n-1].size += b.size
		} else {
			out = append(out, b)
		}
	}
	h.free = out
}
