package board

// Generate writes the complete list of legal moves for pos.Turn into ml, which is reset
// first. A move is legal iff, after applying it, the mover's own king is not in check; each
// candidate is speculatively applied (the resulting position's Hash is simply discarded) and
// dropped if that leaves the king in check.
//
// Squares are scanned LSB to MSB over the side's occupancy; within a square, pawns emit
// pushes before captures, knights and sliders emit their destinations LSB to MSB, and the king
// emits step moves (LSB to MSB) before castling. This fixed order is required only so that tests can compare move lists verbatim;
// it is not otherwise semantically significant.
func Generate(pos *Position, zk *ZobristKeys, ml *MoveList) {
	*ml = MoveList{}

	side := pos.Turn
	own := pos.RealOccupiedBy(side)

	for bb := own; bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= BitMask(sq)

		switch pos.PieceAt(sq).Kind() {
		case Pawn.Kind():
			generatePawnMoves(pos, zk, ml, sq)
		case Knight.Kind():
			generateKnightMoves(pos, zk, ml, sq)
		case Bishop.Kind():
			generateSlidingMoves(pos, zk, ml, sq, NewPiece(side, Bishop), BishopAttackboard)
		case Rook.Kind():
			generateSlidingMoves(pos, zk, ml, sq, NewPiece(side, Rook), RookAttackboard)
		case Queen.Kind():
			generateSlidingMoves(pos, zk, ml, sq, NewPiece(side, Queen), QueenAttackboard)
		case King.Kind():
			generateKingMoves(pos, zk, ml, sq)
		}
	}
}

// tryAdd speculatively applies m and appends it to ml iff legal, dropping it otherwise. A legal
// move is also tagged FlagCheck if it leaves the opponent in check, reusing the same speculative
// Apply the legality test already paid for; detecting checkmate needs a further move generation
// on the resulting position and is left to the perft package, which only bothers at the leaves
// where the detailed counters are consulted.
func tryAdd(pos *Position, zk *ZobristKeys, ml *MoveList, m Move) {
	next := pos.Apply(m, zk)
	if next.InCheck(m.Turn) {
		return
	}
	if next.InCheck(m.Turn.Opponent()) {
		m.Flags |= FlagCheck
	}
	ml.Add(m)
}

// wouldBeLegal reports whether m would be legal, without touching ml. Used for the castling
// precondition, which needs to know whether the king's transit square is attacked without
// polluting the move list with a duplicate of a move already considered (or about to be
// considered) by the normal king-move loop.
func wouldBeLegal(pos *Position, zk *ZobristKeys, m Move) bool {
	next := pos.Apply(m, zk)
	return !next.InCheck(m.Turn)
}

func generatePawnMoves(pos *Position, zk *ZobristKeys, ml *MoveList, sq Square) {
	side := pos.Turn
	piece := NewPiece(side, Pawn)
	promRank := PawnPromotionRank(side)
	empty := ^pos.RealOccupied()

	if push := PawnPushboard(side, BitMask(sq), empty); push != 0 {
		to := push.LastPopSquare()
		emitPawnMove(pos, zk, ml, sq, to, piece, 0, promRank)

		if BitMask(sq)&PawnStartRank(side) != 0 {
			if jump := PawnPushboard(side, push, empty); jump != 0 {
				to2 := jump.LastPopSquare()
				tryAdd(pos, zk, ml, Move{From: sq, To: to2, Piece: piece, Turn: side, Flags: FlagDoublePawnMove})
			}
		}
	}

	ep := pos.EnPassantMask()
	oppReal := pos.RealOccupiedBy(side.Opponent())

	for bb := PawnCaptureboard(side, BitMask(sq)) & (oppReal | ep); bb != 0; {
		to := bb.LastPopSquare()
		bb &^= BitMask(to)

		if ep.IsSet(to) {
			tryAdd(pos, zk, ml, Move{From: sq, To: to, Piece: piece, Turn: side, Flags: FlagEnPassantCapture})
			continue
		}
		emitPawnMove(pos, zk, ml, sq, to, piece, FlagCapture, promRank)
	}
}

func emitPawnMove(pos *Position, zk *ZobristKeys, ml *MoveList, from, to Square, piece Piece, base MoveFlag, promRank Bitboard) {
	side := pos.Turn
	if BitMask(to)&promRank == 0 {
		tryAdd(pos, zk, ml, Move{From: from, To: to, Piece: piece, Turn: side, Flags: base})
		return
	}
	for _, pf := range [4]MoveFlag{FlagPromoteKnight, FlagPromoteBishop, FlagPromoteRook, FlagPromoteQueen} {
		tryAdd(pos, zk, ml, Move{From: from, To: to, Piece: piece, Turn: side, Flags: base | pf})
	}
}

func generateKnightMoves(pos *Position, zk *ZobristKeys, ml *MoveList, sq Square) {
	side := pos.Turn
	piece := NewPiece(side, Knight)
	own := pos.RealOccupiedBy(side)
	oppReal := pos.RealOccupiedBy(side.Opponent())
	oppKing := BitMask(pos.kingSquare(side.Opponent()))

	for bb := KnightAttackboard(sq) &^ own &^ oppKing; bb != 0; {
		to := bb.LastPopSquare()
		bb &^= BitMask(to)

		var flags MoveFlag
		if oppReal.IsSet(to) {
			flags = FlagCapture
		}
		tryAdd(pos, zk, ml, Move{From: sq, To: to, Piece: piece, Turn: side, Flags: flags})
	}
}

type attackFn func(sq Square, occupied, allowed Bitboard) Bitboard

func generateSlidingMoves(pos *Position, zk *ZobristKeys, ml *MoveList, sq Square, piece Piece, attacks attackFn) {
	side := pos.Turn
	occupied := pos.RealOccupied()
	oppReal := pos.RealOccupiedBy(side.Opponent())
	oppKing := BitMask(pos.kingSquare(side.Opponent()))

	allowed := (^occupied | oppReal) &^ oppKing

	for bb := attacks(sq, occupied, allowed); bb != 0; {
		to := bb.LastPopSquare()
		bb &^= BitMask(to)

		var flags MoveFlag
		if oppReal.IsSet(to) {
			flags = FlagCapture
		}
		tryAdd(pos, zk, ml, Move{From: sq, To: to, Piece: piece, Turn: side, Flags: flags})
	}
}

func generateKingMoves(pos *Position, zk *ZobristKeys, ml *MoveList, sq Square) {
	side := pos.Turn
	piece := NewPiece(side, King)
	own := pos.RealOccupiedBy(side)
	oppReal := pos.RealOccupiedBy(side.Opponent())
	oppKing := BitMask(pos.kingSquare(side.Opponent()))

	for bb := KingAttackboard(sq) &^ own &^ oppKing; bb != 0; {
		to := bb.LastPopSquare()
		bb &^= BitMask(to)

		var flags MoveFlag
		if oppReal.IsSet(to) {
			flags = FlagCapture
		}
		tryAdd(pos, zk, ml, Move{From: sq, To: to, Piece: piece, Turn: side, Flags: flags})
	}

	generateCastling(pos, zk, ml, sq)
}

// generateCastling emits castle-short/castle-long moves for the king on sq, iff: the right is
// still held, the king is on its original square, the rook is on the home corner, every square
// between them is empty, the king is not currently in check, and the square the king passes
// over is not itself attacked.
func generateCastling(pos *Position, zk *ZobristKeys, ml *MoveList, sq Square) {
	side := pos.Turn
	rank := Rank1
	if side == Black {
		rank = Rank8
	}
	home := NewSquare(FileE, rank)
	if sq != home || pos.InCheck(side) {
		return
	}

	piece := NewPiece(side, King)
	occupied := pos.RealOccupied()
	shortRight, longRight := rightsOf(side)

	if pos.Castling.IsAllowed(shortRight) {
		rookSq := NewSquare(FileH, rank)
		through := NewSquare(FileG, rank)
		step := NewSquare(FileF, rank)

		if pos.PieceAt(rookSq) == NewPiece(side, Rook) &&
			occupied&squaresBetween(home, rookSq) == 0 &&
			wouldBeLegal(pos, zk, Move{From: sq, To: step, Piece: piece, Turn: side}) {
			tryAdd(pos, zk, ml, Move{From: sq, To: through, Piece: piece, Turn: side, Flags: FlagCastleShort})
		}
	}
	if pos.Castling.IsAllowed(longRight) {
		rookSq := NewSquare(FileA, rank)
		through := NewSquare(FileC, rank)
		step := NewSquare(FileD, rank)

		if pos.PieceAt(rookSq) == NewPiece(side, Rook) &&
			occupied&squaresBetween(home, rookSq) == 0 &&
			wouldBeLegal(pos, zk, Move{From: sq, To: step, Piece: piece, Turn: side}) {
			tryAdd(pos, zk, ml, Move{From: sq, To: through, Piece: piece, Turn: side, Flags: FlagCastleLong})
		}
	}
}

// squaresBetween returns the squares strictly between a and b, which must be on the same rank.
func squaresBetween(a, b Square) Bitboard {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	var bb Bitboard
	for s := lo + 1; s < hi; s++ {
		bb |= BitMask(s)
	}
	return bb
}
