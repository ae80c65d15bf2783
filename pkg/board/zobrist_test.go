package board_test

import (
	"testing"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestDepthSaltDistinctPerDepth(t *testing.T) {
	zk := board.NewZobristKeys(1)

	seen := make(map[board.ZobristHash]bool)
	for d := 0; d < board.MaxPerftDepth; d++ {
		salt := zk.DepthSalt(d)
		assert.False(t, seen[salt], "depth %v salt collided with an earlier depth", d)
		seen[salt] = true
	}
}

// CastleHashDelta bundles only the matching castling right (here, the short one for a short
// castle): the other right's key is a separate, conditional XOR Apply applies itself, since that
// right may already have been forfeited (and its key already hashed out) by an earlier rook move.
func TestCastleHashDeltaMatchesIndividualPieceSquareKeys(t *testing.T) {
	zk := board.NewZobristKeys(2)

	want := zk.PieceSquare(board.NewPiece(board.White, board.King), board.E1) ^
		zk.PieceSquare(board.NewPiece(board.White, board.King), board.G1) ^
		zk.PieceSquare(board.NewPiece(board.White, board.Rook), board.H1) ^
		zk.PieceSquare(board.NewPiece(board.White, board.Rook), board.F1) ^
		zk.CastleRight(board.WhiteKingSideCastle)

	assert.Equal(t, want, zk.CastleHashDelta(board.White, true))
}

func TestTwoTablesFromDifferentSeedsDisagreeOnKeys(t *testing.T) {
	a := board.NewZobristKeys(1)
	b := board.NewZobristKeys(2)

	assert.NotEqual(t, a.Turn(), b.Turn())
	assert.NotEqual(t,
		a.PieceSquare(board.NewPiece(board.White, board.Pawn), board.E2),
		b.PieceSquare(board.NewPiece(board.White, board.Pawn), board.E2))
}
