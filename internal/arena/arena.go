// Package arena implements a fixed-size, first-fit static byte allocator: a
// single pre-allocated buffer that the core's secure-WDG handler stages its
// ticket copy in, instead of the Go heap. The ECDSA verification itself
// (crypto/ecdsa) does not draw from the arena; its working memory comes from
// the Go heap.
//
// The allocator keeps a container/list of free blocks, splits on Alloc, and
// coalesces adjacent blocks on Free.
package arena

import (
	"container/list"
	"errors"
	"sort"
	"sync"
)

// ErrOutOfMemory is returned by Alloc when no free block is large enough.
var ErrOutOfMemory = errors.New("arena: out of memory")

// ErrNotOwned is returned by Free when the slice was not returned by Alloc
// on this arena.
var ErrNotOwned = errors.New("arena: block not owned by this arena")

type block struct {
	offset int
	size   int
}

// Arena is a fixed-size first-fit allocator over one static buffer.
type Arena struct {
	mu    sync.Mutex
	buf   []byte
	free  *list.List
	inUse map[int]*block
}

// New builds an arena over a buffer of the given size.
func New(size int) *Arena {
	a := &Arena{
		buf:   make([]byte, size),
		free:  list.New(),
		inUse: make(map[int]*block),
	}
	a.free.PushBack(&block{offset: 0, size: size})
	return a
}

// Size returns the arena's total capacity.
func (a *Arena) Size() int {
	return len(a.buf)
}

// Alloc returns a zeroed slice of n bytes backed by the arena, taken from
// the first free block large enough to hold it (splitting off the
// remainder), or ErrOutOfMemory if none is.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var e *list.Element
	for e = a.free.Front(); e != nil; e = e.Next() {
		if e.Value.(*block).size >= n {
			break
		}
	}
	if e == nil {
		return nil, ErrOutOfMemory
	}

	b := e.Value.(*block)
	a.free.Remove(e)

	if b.size > n {
		a.free.PushBack(&block{offset: b.offset + n, size: b.size - n})
	}

	taken := &block{offset: b.offset, size: n}
	a.inUse[taken.offset] = taken

	out := a.buf[taken.offset : taken.offset+n : taken.offset+n]
	for i := range out {
		out[i] = 0
	}

	return out, nil
}

// Free returns a previously allocated slice to the arena and coalesces it
// with any adjacent free blocks.
func (a *Arena) Free(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	offset := -1
	for o, b := range a.inUse {
		if b.size == len(buf) && o+b.size <= len(a.buf) && &a.buf[o] == &buf[0] {
			offset = o
			break
		}
	}
	if offset < 0 {
		return ErrNotOwned
	}

	b := a.inUse[offset]
	delete(a.inUse, offset)
	a.free.PushBack(b)
	a.defrag()

	return nil
}

// defrag merges adjacent free blocks: sort by offset, then fold each block
// into its predecessor when they touch.
func (a *Arena) defrag() {
	blocks := make([]*block, 0, a.free.Len())
	for e := a.free.Front(); e != nil; e = e.Next() {
		blocks = append(blocks, e.Value.(*block))
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].offset < blocks[j].offset })

	merged := blocks[:0]
	for _, b := range blocks {
		if n := len(merged); n > 0 && merged[n-1].offset+merged[n-1].size == b.offset {
			merged[n-1].size += b.size
			continue
		}
		merged = append(merged, b)
	}

	a.free.Init()
	for _, b := range merged {
		a.free.PushBack(b)
	}
}
