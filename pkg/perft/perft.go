// Package perft implements the node-counting perft driver: a detailed per-leaf statistics walk
// and a cached total-node-count walk, each single-threaded. See parallel.go for the multi-core
// variant that forks work at the root.
package perft

import (
	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/cache"
)

// Info accumulates the leaf statistics of a detailed perft walk: the total move count at the
// target depth, broken down by the kind of move it was. A single move can contribute to more
// than one counter (a capturing promotion bumps both Captures and Promotions).
type Info struct {
	Moves      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Checkmates uint64
}

func (i *Info) add(o Info) {
	i.Moves += o.Moves
	i.Captures += o.Captures
	i.EnPassant += o.EnPassant
	i.Castles += o.Castles
	i.Promotions += o.Promotions
	i.Checks += o.Checks
	i.Checkmates += o.Checkmates
}

// Detailed walks the legal move tree rooted at pos to exactly depth half-moves and returns the
// per-kind leaf statistics. Unlike Fast, it never consults a cache: the detailed counters differ
// per root-to-leaf path, so a cached total would not tell you how it breaks down.
//
// perft(P, 0) = 1 by convention, but that single zero-ply path is the empty one: there is no move
// to tally, so the counters all stay zero. At the terminal level (depth == 1) each generated move
// is itself a leaf: its flags are read directly, and checkmate is the one counter that needs a
// further, lazy move generation on the resulting position (only paid for on moves already flagged
// as giving check). Above the terminal level, every move is applied and the walk recurses with
// depth-1.
func Detailed(pos *board.Position, zk *board.ZobristKeys, depth int) Info {
	if depth == 0 {
		return Info{}
	}

	var ml board.MoveList
	board.Generate(pos, zk, &ml)

	var info Info
	if depth == 1 {
		for i := 0; i < ml.Len(); i++ {
			tallyLeaf(pos, zk, ml.At(i), &info)
		}
		return info
	}

	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		child := pos.Apply(m, zk).SwitchSides(zk)
		info.add(Detailed(&child, zk, depth-1))
	}
	return info
}

func tallyLeaf(pos *board.Position, zk *board.ZobristKeys, m board.Move, info *Info) {
	info.Moves++
	if m.Is(board.FlagCapture) || m.Is(board.FlagEnPassantCapture) {
		info.Captures++
	}
	if m.Is(board.FlagEnPassantCapture) {
		info.EnPassant++
	}
	if m.Is(board.FlagCastleShort) || m.Is(board.FlagCastleLong) {
		info.Castles++
	}
	if m.IsPromotion() {
		info.Promotions++
	}
	if !m.Is(board.FlagCheck) {
		return
	}
	info.Checks++

	child := pos.Apply(m, zk).SwitchSides(zk)
	var reply board.MoveList
	board.Generate(&child, zk, &reply)
	if reply.Len() == 0 {
		info.Checkmates++
	}
}

// Fast walks the legal move tree rooted at pos to exactly depth half-moves and returns only the
// total leaf count, consulting tbl for subtrees it has already computed.
//
// perft(P, 0) = 1 by convention: there is exactly one zero-ply path, the empty one. At
// depth == 1, move generation has already filtered to exactly the legal moves, so the leaf
// count is simply the number of moves generated: no further recursion or application is needed.
// Above that, the position's depth-salted hash is looked up in tbl; on a miss the walk recurses
// over children and the result is written back before returning. tbl may be nil, in which case
// every call misses and the walk degrades to an uncached count.
func Fast(pos *board.Position, zk *board.ZobristKeys, depth int, tbl *cache.Table) uint64 {
	if depth == 0 {
		return 1
	}

	var ml board.MoveList
	board.Generate(pos, zk, &ml)

	if depth == 1 {
		return uint64(ml.Len())
	}

	var key board.ZobristHash
	if tbl != nil {
		key = pos.Hash ^ zk.DepthSalt(depth)
		if n, ok := tbl.Get(key, pos.Hash, depth); ok {
			return n
		}
	}

	var total uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		child := pos.Apply(m, zk).SwitchSides(zk)
		total += Fast(&child, zk, depth-1, tbl)
	}

	if tbl != nil {
		tbl.Put(key, pos.Hash, depth, total)
	}
	return total
}

// Divide returns, for each legal root move, the subtree node count Fast would compute for the
// position after that move at depth-1. The moves are returned alongside their counts in
// generation order; summing the counts must equal Fast(pos, zk, depth, tbl).
func Divide(pos *board.Position, zk *board.ZobristKeys, depth int, tbl *cache.Table) ([]board.Move, []uint64) {
	var ml board.MoveList
	board.Generate(pos, zk, &ml)

	moves := make([]board.Move, ml.Len())
	counts := make([]uint64, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		moves[i] = m

		if depth <= 1 {
			counts[i] = 1
			continue
		}
		child := pos.Apply(m, zk).SwitchSides(zk)
		counts[i] = Fast(&child, zk, depth-1, tbl)
	}
	return moves, counts
}
