package board

import "fmt"

// MoveListSize is the fixed capacity of a MoveList buffer. 218 is the known maximum number of
// legal moves in any reachable chess position; 256 leaves headroom without ever allocating.
const MoveListSize = 256

// MoveList is a caller-provided, stack-lived buffer the move generator writes into. It
// deliberately avoids the heap: the generator runs on the hot recursive path of perft and a
// fresh slice per node would add allocator traffic for no benefit, since the buffer is small
// and bounded.
type MoveList struct {
	moves [MoveListSize]Move
	count int
}

// Add appends a legal move to the list. Panics if the list would exceed its fixed capacity,
// which can only happen if the generator or MoveListSize invariant is broken (218 is the known
// maximum number of legal moves in any reachable chess position; 256 leaves headroom).
func (ml *MoveList) Add(m Move) {
	if ml.count >= MoveListSize {
		panic(fmt.Sprintf("move list overflow: capacity %v exceeded", MoveListSize))
	}
	ml.moves[ml.count] = m
	ml.count++
	ml.moves[0].Count = ml.count
}

// Len returns the number of moves currently in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// At returns the i'th move. i must be in [0, Len()).
func (ml *MoveList) At(i int) Move {
	return ml.moves[i]
}

// Slice returns the moves as a plain slice, aliasing the list's backing array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

func (ml *MoveList) String() string {
	return fmt.Sprintf("moves[count=%v]", ml.count)
}
