// Package board contains the four-plane bitboard position representation, move generation and
// move application used by the perft engine.
package board

import (
	"fmt"
	"strings"
)

// Position aggregates the four occupancy planes (A, B, C, D), whose nibble at a given square
// decodes to one of 16 Piece codes, plus the metadata needed to apply moves and detect
// check/legality: side to move, castling rights (and informational forfeited/did-castle
// bits), the incrementally maintained Zobrist hash, and move counters. Positions are value
// types: Apply and SwitchSides return a new Position rather than mutating in place, so
// recursive search/perft needs no explicit unmake.
type Position struct {
	A, B, C, D Bitboard

	Turn     Color
	Castling Castling

	// WhiteForfeitedShort/Long and BlackForfeitedShort/Long record that a side gave up a
	// castling right via an ordinary king or rook move (as opposed to never having had it, or
	// having exercised it). DidCastle records that a side actually castled. All four are
	// informational only; they never influence legality.
	WhiteForfeitedShort, WhiteForfeitedLong bool
	BlackForfeitedShort, BlackForfeitedLong bool
	WhiteDidCastle, BlackDidCastle          bool

	Hash ZobristHash

	FullMoveNumber int
	HalfMoveClock  int // 50-move rule counter; maintained but never consulted by perft
}

// StartPosition returns the standard chess starting position. The plane values below
// reproduce the published perft reference totals bit-for-bit.
func StartPosition(zk *ZobristKeys) Position {
	p := Position{
		A:              0x4Aff00000000ff4A,
		B:              0x3C0000000000003C,
		C:              0xDB000000000000DB,
		D:              0xffff000000000000,
		Turn:           White,
		Castling:       FullCastlingRights,
		FullMoveNumber: 1,
	}
	p.Hash = p.RecomputeHash(zk)
	return p
}

// EmptyPosition returns a position with no pieces placed, side to move White, no castling
// rights and move number 1. Callers (notably FEN decoding) place pieces with SetPiece and set
// Turn/Castling/HalfMoveClock/FullMoveNumber directly, then call RecomputeHash once more so the
// hash reflects those fields too.
func EmptyPosition() Position {
	return Position{Turn: White, FullMoveNumber: 1}
}

// SetPiece clears all four planes at sq, writes the given piece's nibble, and recomputes the
// hash from scratch. Used by position loaders/editors that place one piece at a time outside
// the hot apply() path, FEN decoding included: a FEN load therefore recomputes the hash once
// per occupied square.
func (p *Position) SetPiece(sq Square, piece Piece, zk *ZobristKeys) {
	p.placePiece(sq, piece)
	p.Hash = p.RecomputeHash(zk)
}

// placePiece clears all four planes at sq and writes piece's nibble, without touching Hash.
func (p *Position) placePiece(sq Square, piece Piece) {
	p.clearSquare(sq)
	p.setSquareBits(sq, piece)
}

func (p *Position) clearSquare(sq Square) {
	mask := ^BitMask(sq)
	p.A &= mask
	p.B &= mask
	p.C &= mask
	p.D &= mask
}

func (p *Position) setSquareBits(sq Square, piece Piece) {
	if piece&1 != 0 {
		p.A |= BitMask(sq)
	}
	if piece&2 != 0 {
		p.B |= BitMask(sq)
	}
	if piece&4 != 0 {
		p.C |= BitMask(sq)
	}
	if piece&8 != 0 {
		p.D |= BitMask(sq)
	}
}

// PieceAt decodes the nibble at sq by reading the four planes directly at that bit position.
func (p *Position) PieceAt(sq Square) Piece {
	var code Piece
	if p.A.IsSet(sq) {
		code |= 1
	}
	if p.B.IsSet(sq) {
		code |= 2
	}
	if p.C.IsSet(sq) {
		code |= 4
	}
	if p.D.IsSet(sq) {
		code |= 8
	}
	return code
}

// IsEmpty returns true iff no piece occupies sq.
func (p *Position) IsEmpty(sq Square) bool {
	return !(p.A|p.B|p.C).IsSet(sq)
}

// Occupied returns the set of all non-empty squares, including en-passant markers.
func (p *Position) Occupied() Bitboard {
	return p.A | p.B | p.C
}

// OccupiedBy returns the set of squares occupied by the given color's pieces, including that
// color's en-passant marker if present.
func (p *Position) OccupiedBy(c Color) Bitboard {
	if c == Black {
		return p.Occupied() & p.D
	}
	return p.Occupied() &^ p.D
}

// EnPassantMask returns the (at most one) square currently carrying an en-passant marker.
func (p *Position) EnPassantMask() Bitboard {
	return p.A & p.B &^ p.C
}

// RealOccupied returns the set of squares occupied by an actual piece, excluding any
// en-passant marker: the marker blocks no ray and is not a landing-square obstruction for any
// piece but the pawn capturing it.
func (p *Position) RealOccupied() Bitboard {
	return p.Occupied() &^ p.EnPassantMask()
}

// RealOccupiedBy is OccupiedBy with the en-passant marker excluded; see RealOccupied.
func (p *Position) RealOccupiedBy(c Color) Bitboard {
	return p.OccupiedBy(c) &^ p.EnPassantMask()
}

func (p *Position) kingSquare(c Color) Square {
	kings := p.A & p.B & p.C
	if c == Black {
		return (kings & p.D).LastPopSquare()
	}
	return (kings &^ p.D).LastPopSquare()
}

// Validate checks the invariants a legal position must satisfy before it can be used for move
// generation: exactly one king per side, and the kings not mutually adjacent (since that would
// mean one side's king is always in an unavoidable, unreachable check).
func (p *Position) Validate() error {
	kings := p.A & p.B & p.C
	white, black := kings&^p.D, kings&p.D

	if white.PopCount() != 1 || black.PopCount() != 1 {
		return fmt.Errorf("invalid number of kings")
	}
	if KingAttackboard(white.LastPopSquare())&black != 0 {
		return fmt.Errorf("kings cannot be adjacent")
	}
	return nil
}

// RecomputeHash recomputes the Zobrist hash from scratch: XOR of all piece-on-square keys for
// non-empty squares (en-passant markers always hashed under the white en-passant code, per the
// documented hashing asymmetry), the side-to-move key if Black is to move, and each currently
// held castling-right key. Used to populate Hash after a bulk load and to verify invariant 1
// (showhash, and the position_test.go / fen_test.go suites).
func (p *Position) RecomputeHash(zk *ZobristKeys) ZobristHash {
	var h ZobristHash

	ep := p.EnPassantMask()
	for bb := p.Occupied(); bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= BitMask(sq)

		if ep.IsSet(sq) {
			h ^= zk.PieceSquare(WhiteEnPassant, sq)
			continue
		}
		h ^= zk.PieceSquare(p.PieceAt(sq), sq)
	}

	if p.Turn == Black {
		h ^= zk.Turn()
	}
	for _, right := range [4]Castling{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle} {
		if p.Castling.IsAllowed(right) {
			h ^= zk.CastleRight(right)
		}
	}
	return h
}

// SwitchSides toggles the side to move and XORs the side-to-move key into Hash. Exactly one
// call must follow every Apply during recursion. FullMoveNumber advances when Black hands the
// move back to White, matching standard FEN bookkeeping.
func (p Position) SwitchSides(zk *ZobristKeys) Position {
	next := p
	next.Turn = p.Turn.Opponent()
	next.Hash ^= zk.Turn()
	if p.Turn == Black {
		next.FullMoveNumber++
	}
	return next
}

// pawnStepBack returns the square one rank behind sq from c's perspective: the square a double
// pawn push passes over, and (applied to the destination of an en-passant capture) the square
// the captured pawn actually sits on.
func pawnStepBack(sq Square, c Color) Square {
	if c == White {
		return Square(int(sq) - 8)
	}
	return Square(int(sq) + 8)
}

// Apply returns the position after playing move m, with Hash incrementally maintained. m must
// be one of the moves the generator produced for this position (Apply performs no legality
// check of its own). The steps below are mandatory and must run in this order; see
// position_test.go for the per-step hash-continuity checks.
func (p Position) Apply(m Move, zk *ZobristKeys) Position {
	next := p

	// 0. 50-move rule bookkeeping: a pawn move or a capture resets the clock, anything else
	// advances it. Never consulted by perft itself, but kept accurate for FEN round-tripping.
	if m.Piece.Kind() == Pawn.Kind() || m.Is(FlagCapture) || m.Is(FlagEnPassantCapture) {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}

	// 1. Clear any existing en-passant marker, hashing it out under the white en-passant code
	// regardless of its actual color (the documented EP hashing asymmetry).
	if ep := next.EnPassantMask(); ep != 0 {
		for bb := ep; bb != 0; {
			sq := bb.LastPopSquare()
			bb &^= BitMask(sq)
			next.Hash ^= zk.PieceSquare(WhiteEnPassant, sq)
		}
		next.A &^= ep
		next.B &^= ep
		next.C &^= ep
		next.D &^= ep
	}

	color := m.Turn
	isKing := m.Piece.Kind() == King.Kind()
	isCastle := isKing && (m.Is(FlagCastleShort) || m.Is(FlagCastleLong))

	// 2. Castling, or an ordinary king move forfeiting both rights.
	if isCastle {
		short := m.Is(FlagCastleShort)
		kingFrom, kingTo, rookFrom, rookTo := castlingSquares(color, short)

		next.clearSquare(kingFrom)
		next.clearSquare(rookFrom)
		next.setSquareBits(kingTo, m.Piece)
		next.setSquareBits(rookTo, NewPiece(color, Rook))
		next.Hash ^= zk.CastleHashDelta(color, short)

		shortRight, longRight := rightsOf(color)
		other := longRight
		if !short {
			other = shortRight
		}
		// CastleHashDelta already bundles the matching right's key (generateCastling only emits
		// this move while that right is still held); the other right is hashed out here, and only
		// if still held, since an earlier rook move may already have cleared it (and its key).
		if next.Castling.IsAllowed(other) {
			next.Hash ^= zk.CastleRight(other)
		}
		next.Castling &^= shortRight | longRight
		if color == White {
			next.WhiteDidCastle = true
		} else {
			next.BlackDidCastle = true
		}
		return next
	}
	if isKing {
		shortRight, longRight := rightsOf(color)
		if next.Castling.IsAllowed(shortRight) {
			next.Hash ^= zk.CastleRight(shortRight)
			next.Castling &^= shortRight
			setForfeited(&next, color, true)
		}
		if next.Castling.IsAllowed(longRight) {
			next.Hash ^= zk.CastleRight(longRight)
			next.Castling &^= longRight
			setForfeited(&next, color, false)
		}
	}

	// 3. A rook move away from its home corner forfeits the matching right, if still held.
	if m.Piece.Kind() == Rook.Kind() {
		forfeitCornerRook(&next, zk, color, m.From)
	}

	// 4. Ordinary capture: decode the captured piece before clearing it.
	if m.Is(FlagCapture) && !m.Is(FlagEnPassantCapture) {
		captured := next.PieceAt(m.To)
		next.Hash ^= zk.PieceSquare(captured, m.To)
		if captured.Kind() == Rook.Kind() {
			forfeitCornerRook(&next, zk, captured.Color(), m.To)
		}
		next.clearSquare(m.To)
	}

	// 5. Clear origin and destination, write the mover onto the destination.
	next.clearSquare(m.From)
	next.clearSquare(m.To)
	next.setSquareBits(m.To, m.Piece)
	next.Hash ^= zk.PieceSquare(m.Piece, m.From)
	next.Hash ^= zk.PieceSquare(m.Piece, m.To)

	// 6. Pawn specifics. At most one applies; the function returns immediately after.
	if m.Piece.Kind() == Pawn.Kind() {
		switch {
		case m.Is(FlagDoublePawnMove):
			epSquare := pawnStepBack(m.To, color)
			epPiece := NewPiece(color, WhiteEnPassant.Kind())
			next.setSquareBits(epSquare, epPiece)
			next.Hash ^= zk.PieceSquare(WhiteEnPassant, epSquare)
			return next

		case m.Is(FlagEnPassantCapture):
			capturedSq := pawnStepBack(m.To, color)
			captured := next.PieceAt(capturedSq)
			next.Hash ^= zk.PieceSquare(captured, capturedSq)
			next.clearSquare(capturedSq)
			return next

		case m.IsPromotion():
			promoted := NewPiece(color, m.PromotionKind())
			next.clearSquare(m.To)
			next.setSquareBits(m.To, promoted)
			next.Hash ^= zk.PieceSquare(m.Piece, m.To)
			next.Hash ^= zk.PieceSquare(promoted, m.To)
			return next
		}
	}
	return next
}

func setForfeited(p *Position, c Color, short bool) {
	switch {
	case c == White && short:
		p.WhiteForfeitedShort = true
	case c == White && !short:
		p.WhiteForfeitedLong = true
	case c == Black && short:
		p.BlackForfeitedShort = true
	default:
		p.BlackForfeitedLong = true
	}
}

// forfeitCornerRook clears c's castling right matching corner sq, if c still holds it. Used
// both when c's own rook leaves its corner and when an opponent captures a rook sitting there.
func forfeitCornerRook(p *Position, zk *ZobristKeys, c Color, sq Square) {
	shortRight, longRight := rightsOf(c)
	_, _, rookFromShort, _ := castlingSquares(c, true)
	_, _, rookFromLong, _ := castlingSquares(c, false)

	if sq == rookFromShort && p.Castling.IsAllowed(shortRight) {
		p.Hash ^= zk.CastleRight(shortRight)
		p.Castling &^= shortRight
		setForfeited(p, c, true)
	}
	if sq == rookFromLong && p.Castling.IsAllowed(longRight) {
		p.Hash ^= zk.CastleRight(longRight)
		p.Castling &^= longRight
		setForfeited(p, c, false)
	}
}

// InCheck reports whether side's king is attacked. Sliding attacks are computed via occluded
// fills from the opponent's sliders; en-passant markers are treated as empty for attack
// purposes (they block no ray).
func (p *Position) InCheck(side Color) bool {
	opp := side.Opponent()
	kingSq := p.kingSquare(side)

	ep := p.EnPassantMask()
	occupied := p.Occupied() &^ ep
	allowed := ^occupied | BitMask(kingSq)

	oppOcc := p.OccupiedBy(opp) &^ ep

	pawnsAll := p.A &^ p.B &^ p.C
	bishopsAll := p.B &^ p.A &^ p.C
	rooksAll := p.C &^ p.A &^ p.B
	knightsAll := p.A & p.C &^ p.B
	queensAll := p.B & p.C &^ p.A
	kingsAll := p.A & p.B & p.C

	if knights := knightsAll & oppOcc; knights != 0 && KnightAttackboard(kingSq)&knights != 0 {
		return true
	}
	if kings := kingsAll & oppOcc; kings != 0 && KingAttackboard(kingSq)&kings != 0 {
		return true
	}
	if pawns := pawnsAll & oppOcc; pawns != 0 && PawnCaptureboard(opp, pawns)&BitMask(kingSq) != 0 {
		return true
	}
	for bb := (bishopsAll | queensAll) & oppOcc; bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= BitMask(sq)
		if BishopAttackboard(sq, occupied, allowed)&BitMask(kingSq) != 0 {
			return true
		}
	}
	for bb := (rooksAll | queensAll) & oppOcc; bb != 0; {
		sq := bb.LastPopSquare()
		bb &^= BitMask(sq)
		if RookAttackboard(sq, occupied, allowed)&BitMask(kingSq) != 0 {
			return true
		}
	}
	return false
}

func (p *Position) String() string {
	var sb strings.Builder
	for i := ZeroSquare; i < NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			sb.WriteRune('/')
		}
		sq := NumSquares - 1 - i
		if code := p.PieceAt(sq); code != Empty {
			sb.WriteString(code.String())
		} else {
			sb.WriteRune('-')
		}
	}
	return fmt.Sprintf("%v %v %v", sb.String(), p.Turn, p.Castling)
}
