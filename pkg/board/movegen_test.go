package board_test

import (
	"testing"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These FENs and depth-1 legal move counts are the standard community reference positions used
// to validate a move generator (sometimes called "Perft Results" / Chess Programming Wiki's
// positions 2-6); kiwipete in particular exercises castling, en-passant and promotions in one
// position.
func TestGenerateReferencePositions(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected int
	}{
		{"start position", fen.Initial, 20},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 48},
		{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 14},
		{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 6},
		{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 44},
		{"position 6", "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/1PB1P1b1/P1NP1N2/2P1QPPP/R4RK1 w - - 0 10", 46},
	}

	zk := board.NewZobristKeys(42)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := fen.Decode(tt.fen, zk)
			require.NoError(t, err)

			var ml board.MoveList
			board.Generate(&pos, zk, &ml)
			assert.Equal(t, tt.expected, ml.Len())
		})
	}
}

func TestGenerateNeverLeavesMoverInCheck(t *testing.T) {
	zk := board.NewZobristKeys(7)
	pos, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", zk)
	require.NoError(t, err)

	var ml board.MoveList
	board.Generate(&pos, zk, &ml)

	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		next := pos.Apply(m, zk)
		assert.False(t, next.InCheck(m.Turn), "move %v leaves mover in check", m)
	}
}

func TestGenerateCastlingRequiresEmptyAndUnattackedPath(t *testing.T) {
	zk := board.NewZobristKeys(8)

	pos := board.EmptyPosition()
	pos.SetPiece(board.E1, board.NewPiece(board.White, board.King), zk)
	pos.SetPiece(board.H1, board.NewPiece(board.White, board.Rook), zk)
	pos.SetPiece(board.A1, board.NewPiece(board.White, board.Rook), zk)
	pos.SetPiece(board.E8, board.NewPiece(board.Black, board.King), zk)
	pos.SetPiece(board.F8, board.NewPiece(board.Black, board.Rook), zk) // attacks f1, the short-castle transit square
	pos.Castling = board.FullCastlingRights
	pos.Hash = pos.RecomputeHash(zk)

	var ml board.MoveList
	board.Generate(&pos, zk, &ml)

	var sawShort, sawLong bool
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		sawShort = sawShort || m.Is(board.FlagCastleShort)
		sawLong = sawLong || m.Is(board.FlagCastleLong)
	}
	assert.False(t, sawShort, "short castle must be blocked: f1 is attacked")
	assert.True(t, sawLong, "long castle should remain available")
}

func TestGeneratePromotionsEmitAllFourKinds(t *testing.T) {
	zk := board.NewZobristKeys(9)
	pos := board.EmptyPosition()
	pos.SetPiece(board.D7, board.NewPiece(board.White, board.Pawn), zk)
	pos.SetPiece(board.E1, board.NewPiece(board.White, board.King), zk)
	pos.SetPiece(board.A8, board.NewPiece(board.Black, board.King), zk)
	pos.Hash = pos.RecomputeHash(zk)

	var ml board.MoveList
	board.Generate(&pos, zk, &ml)

	var kinds []board.Piece
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if m.From == board.D7 {
			kinds = append(kinds, m.PromotionKind())
		}
	}
	assert.ElementsMatch(t, []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen}, kinds)
}
