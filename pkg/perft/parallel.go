package perft

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/cache"
)

// MaxThreads bounds the worker pool regardless of how many cores are requested or detected.
const MaxThreads = 64

// workers returns the number of goroutines to fork: the smaller of the caller's requested core
// count, the runtime's own CPU count, and MaxThreads. A non-positive cores means "no limit
// beyond the other two".
func workers(cores int) int {
	n := runtime.NumCPU()
	if cores > 0 && cores < n {
		n = cores
	}
	if n > MaxThreads {
		n = MaxThreads
	}
	if n < 1 {
		n = 1
	}
	return n
}

// queue is the shared root-move work list every parallel walk forks from: a single-level split
// where each worker repeatedly claims one root move at a time under mu, so the faster workers
// naturally pick up more of the remaining moves than a static pre-partition would give them.
type queue struct {
	mu    sync.Mutex
	moves []board.Move
	next  int
}

func (q *queue) take() (board.Move, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.moves) {
		return board.Move{}, false
	}
	m := q.moves[q.next]
	q.next++
	return m, true
}

// ParallelFast is Fast, forked across cores workers at the root: the root's legal moves are
// generated once on the calling goroutine, then handed out one at a time to a pool of workers,
// each of which walks its share of the subtree with a plain single-threaded Fast call against
// the shared cache. There is exactly one blocking point in the whole walk: a worker waiting on
// the queue's mutex to claim its next root move.
func ParallelFast(pos *board.Position, zk *board.ZobristKeys, depth, cores int, tbl *cache.Table) uint64 {
	if depth == 0 {
		return 1
	}

	var ml board.MoveList
	board.Generate(pos, zk, &ml)

	if depth == 1 {
		return uint64(ml.Len())
	}

	q := &queue{moves: ml.Slice()}
	var total uint64

	var wg sync.WaitGroup
	for i := 0; i < workers(cores); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				m, ok := q.take()
				if !ok {
					return
				}
				child := pos.Apply(m, zk).SwitchSides(zk)
				atomic.AddUint64(&total, Fast(&child, zk, depth-1, tbl))
			}
		}()
	}
	wg.Wait()

	return total
}

// ParallelDetailed is Detailed, forked the same way as ParallelFast. Detailed never uses a
// cache, so there is nothing for the workers to share beyond the root queue.
func ParallelDetailed(pos *board.Position, zk *board.ZobristKeys, depth, cores int) Info {
	if depth == 0 {
		return Info{}
	}

	var ml board.MoveList
	board.Generate(pos, zk, &ml)

	if depth == 1 {
		var info Info
		for i := 0; i < ml.Len(); i++ {
			tallyLeaf(pos, zk, ml.At(i), &info)
		}
		return info
	}

	q := &queue{moves: ml.Slice()}
	var mu sync.Mutex
	var total Info

	var wg sync.WaitGroup
	for i := 0; i < workers(cores); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				m, ok := q.take()
				if !ok {
					return
				}
				child := pos.Apply(m, zk).SwitchSides(zk)
				partial := Detailed(&child, zk, depth-1)

				mu.Lock()
				total.add(partial)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return total
}
