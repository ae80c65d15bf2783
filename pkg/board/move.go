package board

import "fmt"

// MoveFlag is a bit in a Move's flag set. At most one of {capture, en passant capture,
// castle-short, castle-long} is set; a promotion flag is set alone, or together with
// FlagCapture for a capturing promotion.
type MoveFlag uint16

const (
	// FlagCapture marks an ordinary capture (including a capturing promotion).
	FlagCapture MoveFlag = 1 << iota
	// FlagEnPassantCapture marks a pawn capturing the phantom en-passant marker.
	FlagEnPassantCapture
	// FlagDoublePawnMove marks a two-square pawn push, the only move that leaves behind an
	// en-passant marker.
	FlagDoublePawnMove
	// FlagCastleShort and FlagCastleLong mark the two castling moves.
	FlagCastleShort
	FlagCastleLong
	// FlagPromoteKnight..FlagPromoteQueen mark the desired promotion piece. Exactly one is set
	// when the move is a promotion.
	FlagPromoteKnight
	FlagPromoteBishop
	FlagPromoteRook
	FlagPromoteQueen
	// FlagCheck marks that the move leaves the opponent in check. Perft itself does not require
	// it, but the detailed counters' Checks/Checkmates tallies do; checkmate is detected
	// structurally (a further move generation finding no reply) rather than with its own flag.
	FlagCheck
)

const promotionFlags = FlagPromoteKnight | FlagPromoteBishop | FlagPromoteRook | FlagPromoteQueen

// Move is a single move, legal or speculative, against a particular Position. The first entry
// of a MoveList overloads the Count field to carry the number of moves in the list; for every
// other entry Count is zero and unused.
type Move struct {
	From, To Square
	Piece    Piece // the mover's piece code (includes color)
	Turn     Color // side to move for this Move, redundant with Piece.Color() but carried explicitly
	Flags    MoveFlag
	Count    int
}

// Equals reports whether two moves are the same move: origin, destination and piece match.
// Flags need not.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Piece == o.Piece
}

func (m Move) Is(f MoveFlag) bool {
	return m.Flags&f != 0
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flags&promotionFlags != 0
}

// PromotionKind returns the promoted-to kind (Knight, Bishop, Rook or Queen). Only valid if
// IsPromotion is true.
func (m Move) PromotionKind() Piece {
	switch {
	case m.Is(FlagPromoteKnight):
		return Knight
	case m.Is(FlagPromoteBishop):
		return Bishop
	case m.Is(FlagPromoteRook):
		return Rook
	case m.Is(FlagPromoteQueen):
		return Queen
	default:
		return NoPiece
	}
}

// NoPiece aliases Empty for readability at call sites that treat the absence of a piece as a
// sentinel rather than a board occupant.
const NoPiece = Empty

func promotionFlag(kind Piece) MoveFlag {
	switch kind {
	case Knight:
		return FlagPromoteKnight
	case Bishop:
		return FlagPromoteBishop
	case Rook:
		return FlagPromoteRook
	case Queen:
		return FlagPromoteQueen
	default:
		panic(fmt.Sprintf("invalid promotion kind: %v", kind))
	}
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move carries only From, To and any promotion flag: its Piece is left unset and it
// has no contextual flags (capture, castle, en passant).
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: %q: %w", str, err)
	}

	m := Move{From: from, To: to}
	if len(runes) == 5 {
		kind, ok := ParsePiece(runes[4])
		if !ok || kind.Kind() == Pawn.Kind() || kind.Kind() == King.Kind() {
			return Move{}, fmt.Errorf("invalid promotion: %q", str)
		}
		m.Flags |= promotionFlag(kind.Kind())
	}
	return m, nil
}

func (m Move) String() string {
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.PromotionKind())
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}
