// Package fen reads and writes chess positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jniemann-labs/perftgo/pkg/board"
)

// Initial is the FEN for the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN record into a Position. The position's hash is computed from scratch via
// zk, so the caller need not call RecomputeHash itself.
//
// An en-passant target square, if present, is stored as a marker of the color of the side that
// just moved -- the opponent of the active color: the marker's plane-D bit always belongs to the
// pawn that advanced, not the side now to move. Like every en-passant marker, it is hashed under
// the white en-passant code regardless of that color (the documented en-passant hashing
// asymmetry).
func Decode(s string, zk *board.ZobristKeys) (board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 6 {
		return board.Position{}, fmt.Errorf("invalid number of fields in FEN: %q", s)
	}

	pos := board.EmptyPosition()

	sq := board.A8
	for _, r := range parts[0] {
		switch {
		case r == '/':
			// Cosmetic rank separator.

		case unicode.IsDigit(r):
			sq -= board.Square(r - '0')

		case unicode.IsLetter(r):
			piece, ok := board.ParsePiece(r)
			if !ok {
				return board.Position{}, fmt.Errorf("invalid piece %q in FEN: %q", r, s)
			}
			pos.SetPiece(sq, piece, zk)
			sq--

		default:
			return board.Position{}, fmt.Errorf("invalid character %q in FEN: %q", r, s)
		}
	}
	if sq+1 != board.H1 {
		return board.Position{}, fmt.Errorf("invalid number of squares in FEN: %q", s)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return board.Position{}, fmt.Errorf("invalid active color in FEN: %q", s)
	}
	pos.Turn = turn

	castling, ok := parseCastling(parts[2])
	if !ok {
		return board.Position{}, fmt.Errorf("invalid castling availability in FEN: %q", s)
	}
	pos.Castling = castling

	if parts[3] != "-" {
		epSq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return board.Position{}, fmt.Errorf("invalid en passant target in FEN: %q: %w", s, err)
		}
		pos.SetPiece(epSq, board.NewPiece(turn.Opponent(), board.WhiteEnPassant.Kind()), zk)
	}

	clock, err := strconv.Atoi(parts[4])
	if err != nil || clock < 0 {
		return board.Position{}, fmt.Errorf("invalid halfmove clock in FEN: %q", s)
	}
	pos.HalfMoveClock = clock

	fullMoves, err := strconv.Atoi(parts[5])
	if err != nil || fullMoves < 1 {
		return board.Position{}, fmt.Errorf("invalid fullmove number in FEN: %q", s)
	}
	pos.FullMoveNumber = fullMoves

	if err := pos.Validate(); err != nil {
		return board.Position{}, fmt.Errorf("invalid position in FEN: %q: %w", s, err)
	}

	pos.Hash = pos.RecomputeHash(zk)
	return pos, nil
}

// Encode renders pos as a FEN record.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for r := board.NumRanks; r > 0; r-- {
		rank := r - 1
		blanks := 0
		for f := board.NumFiles; f > 0; f-- {
			file := f - 1
			piece := pos.PieceAt(board.NewSquare(file, rank))
			if piece.IsEmpty() || piece.IsEnPassant() {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank > 0 {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if mask := pos.EnPassantMask(); mask != 0 {
		ep = mask.LastPopSquare().String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), printColor(pos.Turn), pos.Castling, ep, pos.HalfMoveClock, pos.FullMoveNumber)
}

func parseCastling(s string) (board.Castling, bool) {
	if s == "-" {
		return board.NoCastlingRights, true
	}
	var c board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingSideCastle
		case 'Q':
			c |= board.WhiteQueenSideCastle
		case 'k':
			c |= board.BlackKingSideCastle
		case 'q':
			c |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return c, true
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func printPiece(p board.Piece) rune {
	return []rune(p.String())[0]
}
