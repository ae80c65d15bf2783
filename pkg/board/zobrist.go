package board

import "math/rand"

// ZobristHash is a position hash based on piece-squares, side to move and castling rights.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// MaxPerftDepth bounds the depth-salt array: DepthSalt accepts depths in [0, MaxPerftDepth).
const MaxPerftDepth = 24

// ZobristKeys is the immutable table of random keys used to compute and incrementally
// maintain a Position's hash. Construct once per process (or per test, with a fixed seed for
// reproducibility) and share read-only across all positions and threads.
type ZobristKeys struct {
	pieceOnSquare [NumPieces][NumSquares]ZobristHash
	turn          ZobristHash
	castleRight   [4]ZobristHash // indexed by bit position of WhiteKingSideCastle..BlackQueenSideCastle
	depthSalt     [MaxPerftDepth]ZobristHash

	// Pre-fabricated combinations bundling the king+rook piece-square deltas of a castling
	// move plus the matching castling right's key, so apply() need not XOR four piece-square
	// keys individually.
	doWhiteCastleShort, doWhiteCastleLong ZobristHash
	doBlackCastleShort, doBlackCastleLong ZobristHash
}

// NewZobristKeys generates a fresh table of random keys from the given seed. Any two tables
// built from different seeds are equally valid: testable property 6 requires totals to be
// independent of the Zobrist seed.
func NewZobristKeys(seed int64) *ZobristKeys {
	r := rand.New(rand.NewSource(seed))

	z := &ZobristKeys{}
	for p := ZeroPiece; p < NumPieces; p++ {
		if p == blackEmpty {
			continue
		}
		for sq := ZeroSquare; sq < NumSquares; sq++ {
			z.pieceOnSquare[p][sq] = ZobristHash(r.Uint64())
		}
	}
	z.turn = ZobristHash(r.Uint64())
	for i := range z.castleRight {
		z.castleRight[i] = ZobristHash(r.Uint64())
	}
	for d := range z.depthSalt {
		z.depthSalt[d] = ZobristHash(r.Uint64())
	}

	z.doWhiteCastleShort = z.castleKey(White, true)
	z.doWhiteCastleLong = z.castleKey(White, false)
	z.doBlackCastleShort = z.castleKey(Black, true)
	z.doBlackCastleLong = z.castleKey(Black, false)

	return z
}

// PieceSquare returns the key for the given piece code on the given square.
func (z *ZobristKeys) PieceSquare(p Piece, sq Square) ZobristHash {
	return z.pieceOnSquare[p][sq]
}

// Turn returns the side-to-move key.
func (z *ZobristKeys) Turn() ZobristHash {
	return z.turn
}

// CastleRight returns the key for a single castling right (one of the four Castling bit
// values, not a combination).
func (z *ZobristKeys) CastleRight(right Castling) ZobristHash {
	switch right {
	case WhiteKingSideCastle:
		return z.castleRight[0]
	case WhiteQueenSideCastle:
		return z.castleRight[1]
	case BlackKingSideCastle:
		return z.castleRight[2]
	case BlackQueenSideCastle:
		return z.castleRight[3]
	default:
		panic("not a single castling right")
	}
}

// DepthSalt returns the per-depth salt XORed into a cache lookup key, keeping cache entries
// for the same position at different depths distinct.
func (z *ZobristKeys) DepthSalt(depth int) ZobristHash {
	return z.depthSalt[depth]
}

// CastleHashDelta returns the pre-fabricated key for the given castling move, bundling the
// king and rook piece-square XORs plus the single matching castling right's key (short's for a
// short castle, long's for a long one). The mover's other right, if still held, is a separate,
// conditional XOR the caller applies itself — it may already have been cleared (and its key
// already XORed out of the hash) by an earlier rook move, so it cannot be bundled here.
func (z *ZobristKeys) CastleHashDelta(c Color, short bool) ZobristHash {
	switch {
	case c == White && short:
		return z.doWhiteCastleShort
	case c == White && !short:
		return z.doWhiteCastleLong
	case c == Black && short:
		return z.doBlackCastleShort
	default:
		return z.doBlackCastleLong
	}
}

func (z *ZobristKeys) castleKey(c Color, short bool) ZobristHash {
	king := NewPiece(c, King)
	rook := NewPiece(c, Rook)

	kingFrom, kingTo, rookFrom, rookTo := castlingSquares(c, short)
	short1, long1 := rightsOf(c)

	right := long1
	if short {
		right = short1
	}

	delta := z.pieceOnSquare[king][kingFrom] ^ z.pieceOnSquare[king][kingTo] ^
		z.pieceOnSquare[rook][rookFrom] ^ z.pieceOnSquare[rook][rookTo] ^
		z.CastleRight(right)
	return delta
}

// castlingSquares returns the origin/destination squares of the king and rook for the given
// color's castling move.
func castlingSquares(c Color, short bool) (kingFrom, kingTo, rookFrom, rookTo Square) {
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	kingFrom = NewSquare(FileE, rank)
	if short {
		return kingFrom, NewSquare(FileG, rank), NewSquare(FileH, rank), NewSquare(FileF, rank)
	}
	return kingFrom, NewSquare(FileC, rank), NewSquare(FileA, rank), NewSquare(FileD, rank)
}
