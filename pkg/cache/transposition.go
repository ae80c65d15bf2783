// Package cache implements the lock-free perft transposition table: a fixed, power-of-two
// array of atomically-swapped node-count records, keyed by a depth-salted Zobrist hash.
package cache

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/seekerror/logw"
)

// MinSize is the smallest table the cache will allocate, regardless of the requested byte
// budget: below this a table stops being useful and just thrashes.
const MinSize = 1 << 20 // 1MiB

// bytesPerEntry accounts for the slot pointer plus the heap-allocated node it points to.
const bytesPerEntry = 32

// node is a single cached perft subtree result. 24 bytes.
type node struct {
	hash  board.ZobristHash // the position's true hash, for collision verification
	count uint64
	depth uint8
}

// Table is a lock-free, fixed-capacity cache from (position hash, remaining depth) to the perft
// node count of that subtree. Every slot is a single atomically-swapped pointer: readers never
// block writers and writers never block each other, at the cost of writes simply racing (the
// last one to land wins, which is fine since any valid entry for the same key carries the same
// count).
//
// Callers are expected to index by a depth-salted hash (pos.Hash XOR zk.DepthSalt(depth)) so
// that the same position at different depths lands in different slots; Get still verifies the
// plain hash and depth on the stored node to reject the rare cross-slot collision, while Put
// overwrites the slot without checking what it held.
type Table struct {
	slots []unsafe.Pointer // *node
	mask  uint64
	used  uint64
}

// New allocates a table sized to fit within bytes, rounded down to a power of two no smaller
// than MinSize. If even that floor cannot be allocated, New does not return: it reports the
// failure with logw.Exitf, which ends the process with a non-zero exit.
func New(ctx context.Context, bytes uint64) *Table {
	t, err := TryNew(ctx, bytes)
	if err != nil {
		logw.Exitf(ctx, "Cannot allocate perft cache: %v", err)
	}
	return t
}

// TryNew is New, but halves the request on allocation failure instead of letting the runtime
// panic propagate, down to MinSize; it returns an error only if even MinSize cannot be
// allocated.
func TryNew(ctx context.Context, bytes uint64) (t *Table, err error) {
	if bytes < MinSize {
		bytes = MinSize
	}

	for size := bytes; ; size /= 2 {
		if size < MinSize {
			return nil, fmt.Errorf("cannot allocate even the %vB cache floor", MinSize)
		}

		n := uint64(1) << (63 - bits.LeadingZeros64(size/bytesPerEntry))
		if table, ok := tryAllocate(n); ok {
			logw.Infof(ctx, "Allocated %vMB perft cache with %v entries", (n*bytesPerEntry)>>20, n)
			return &Table{slots: table, mask: n - 1}, nil
		}
		logw.Errorf(ctx, "Failed to allocate %vB perft cache, retrying at half size", size)
	}
}

// tryAllocate recovers from the out-of-memory panic a too-large make() triggers, so the caller
// can retry at half the size instead of crashing the process.
func tryAllocate(n uint64) (slots []unsafe.Pointer, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return make([]unsafe.Pointer, n), true
}

// Size returns the table's footprint in bytes.
func (t *Table) Size() uint64 {
	return uint64(len(t.slots)) * bytesPerEntry
}

// Used returns the fraction of slots that have ever been written.
func (t *Table) Used() float64 {
	return float64(atomic.LoadUint64(&t.used)) / float64(len(t.slots))
}

// Get looks up the node count stored under key (a depth-salted hash), verifying that the entry
// actually belongs to hash at depth before returning it.
func (t *Table) Get(key, hash board.ZobristHash, depth int) (uint64, bool) {
	addr := &t.slots[uint64(key)&t.mask]

	n := (*node)(atomic.LoadPointer(addr))
	if n != nil && n.hash == hash && int(n.depth) == depth {
		return n.count, true
	}
	return 0, false
}

// Put stores count under key, unconditionally overwriting whatever was there. Unlike a search
// transposition table, there is no replacement policy to apply: a perft subtree count is exact
// and depth-qualified, so two writes to the same key always agree or one is a stale collision
// that is about to be corrected anyway.
func (t *Table) Put(key, hash board.ZobristHash, depth int, count uint64) {
	addr := &t.slots[uint64(key)&t.mask]

	fresh := &node{hash: hash, count: count, depth: uint8(depth)}
	for {
		old := atomic.LoadPointer(addr)
		if atomic.CompareAndSwapPointer(addr, old, unsafe.Pointer(fresh)) {
			if old == nil {
				atomic.AddUint64(&t.used, 1)
			}
			return
		}
	}
}

func (t *Table) String() string {
	return fmt.Sprintf("cache[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}
