package board

// Piece is one of the 16 codes a square's four planes (A, B, C, D) decode to: the low three
// bits distinguish the kind, the high bit (equivalently, plane D) distinguishes color. Code 8
// is reserved and never appears on a valid board.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	WhiteBishop
	WhiteEnPassant // phantom marker left by a white double pawn push
	WhiteRook
	WhiteKnight
	WhiteQueen
	WhiteKing
	blackEmpty // reserved, code 8; never set on a reachable position
	BlackPawn
	BlackBishop
	BlackEnPassant
	BlackRook
	BlackKnight
	BlackQueen
	BlackKing
)

const (
	ZeroPiece Piece = 0
	NumPieces Piece = 16
)

// Kind strips color, returning a value in [0;7] comparable across colors (e.g. WhiteRook&Kind
// == BlackRook&Kind). It is not itself a valid Piece code for black pieces.
const kindMask = Piece(0x7)

// Kind returns the piece's kind, stripped of color.
func (p Piece) Kind() Piece {
	return p & kindMask
}

// Color returns the piece's color. Only meaningful for non-empty pieces.
func (p Piece) Color() Color {
	if p >= blackEmpty {
		return Black
	}
	return White
}

// IsEmpty returns true iff the code is the empty-square code.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// IsEnPassant returns true iff the code is an en-passant marker of either color.
func (p Piece) IsEnPassant() bool {
	return p.Kind() == WhiteEnPassant
}

// NewPiece builds the piece code for the given color and kind (Pawn, Bishop, Knight, Rook,
// Queen or King, as defined below).
func NewPiece(c Color, kind Piece) Piece {
	if c == Black {
		return blackEmpty | kind
	}
	return kind
}

// Kind aliases, color-agnostic, for use with NewPiece and Piece.Kind.
const (
	Pawn   = WhitePawn
	Bishop = WhiteBishop
	Knight = WhiteKnight
	Rook   = WhiteRook
	Queen  = WhiteQueen
	King   = WhiteKing
)

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'P':
		return WhitePawn, true
	case 'B':
		return WhiteBishop, true
	case 'N':
		return WhiteKnight, true
	case 'R':
		return WhiteRook, true
	case 'Q':
		return WhiteQueen, true
	case 'K':
		return WhiteKing, true
	case 'p':
		return BlackPawn, true
	case 'b':
		return BlackBishop, true
	case 'n':
		return BlackKnight, true
	case 'r':
		return BlackRook, true
	case 'q':
		return BlackQueen, true
	case 'k':
		return BlackKing, true
	default:
		return Empty, false
	}
}

func (p Piece) IsValid() bool {
	return p != blackEmpty
}

func (p Piece) String() string {
	switch p {
	case Empty:
		return " "
	case WhitePawn:
		return "P"
	case WhiteBishop:
		return "B"
	case WhiteEnPassant:
		return "3"
	case WhiteRook:
		return "R"
	case WhiteKnight:
		return "N"
	case WhiteQueen:
		return "Q"
	case WhiteKing:
		return "K"
	case BlackPawn:
		return "p"
	case BlackBishop:
		return "b"
	case BlackEnPassant:
		return "11"
	case BlackRook:
		return "r"
	case BlackKnight:
		return "n"
	case BlackQueen:
		return "q"
	case BlackKing:
		return "k"
	default:
		return "?"
	}
}
