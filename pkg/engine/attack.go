package engine

import (
	"github.com/notnil/chess"
)

// The rules library owns move legality but does not export an attack query,
// so the evaluator carries its own board scan for "how many pieces of this
// color hit that square". Offsets are (file, rank) deltas.

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func squareAt(file, rank int) chess.Square {
	return chess.Square(rank*8 + file)
}

// Attackers counts the pieces of the given color that attack sq.
func Attackers(board *chess.Board, color chess.Color, sq chess.Square) int {
	count := 0
	f, r := int(sq.File()), int(sq.Rank())

	// Pawns attack diagonally toward the enemy side, so an attacking white
	// pawn sits one rank below sq and a black one one rank above.
	pawnRank := r - 1
	if color == chess.Black {
		pawnRank = r + 1
	}
	for _, df := range [2]int{-1, 1} {
		if !onBoard(f+df, pawnRank) {
			continue
		}
		p := board.Piece(squareAt(f+df, pawnRank))
		if p.Type() == chess.Pawn && p.Color() == color {
			count++
		}
	}

	for _, off := range knightOffsets {
		if !onBoard(f+off[0], r+off[1]) {
			continue
		}
		p := board.Piece(squareAt(f+off[0], r+off[1]))
		if p.Type() == chess.Knight && p.Color() == color {
			count++
		}
	}

	for _, off := range kingOffsets {
		if !onBoard(f+off[0], r+off[1]) {
			continue
		}
		p := board.Piece(squareAt(f+off[0], r+off[1]))
		if p.Type() == chess.King && p.Color() == color {
			count++
		}
	}

	count += rayAttackers(board, color, f, r, bishopDirs, chess.Bishop)
	count += rayAttackers(board, color, f, r, rookDirs, chess.Rook)
	return count
}

// rayAttackers walks each direction until a piece blocks the ray and counts
// sliders (or queens) of the wanted color sitting on the first occupied square.
func rayAttackers(board *chess.Board, color chess.Color, f, r int, dirs [4][2]int, slider chess.PieceType) int {
	count := 0
	for _, d := range dirs {
		for step := 1; ; step++ {
			nf, nr := f+d[0]*step, r+d[1]*step
			if !onBoard(nf, nr) {
				break
			}
			p := board.Piece(squareAt(nf, nr))
			if p == chess.NoPiece {
				continue
			}
			if p.Color() == color && (p.Type() == slider || p.Type() == chess.Queen) {
				count++
			}
			break
		}
	}
	return count
}

// InCheck reports whether the side to move is currently in check.
func InCheck(pos *chess.Position) bool {
	board := pos.Board()
	king := kingSquare(board, pos.Turn())
	if king == chess.NoSquare {
		return false
	}
	return Attackers(board, pos.Turn().Other(), king) > 0
}

func kingSquare(board *chess.Board, color chess.Color) chess.Square {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p.Type() == chess.King && p.Color() == color {
			return sq
		}
	}
	return chess.NoSquare
}

// Mobility counts the pseudo-legal destination squares of the piece on sq:
// empty squares it may step to plus enemy pieces it may capture. Pins and
// checks are ignored, which is fine for an activity estimate.
func Mobility(board *chess.Board, sq chess.Square) int {
	p := board.Piece(sq)
	if p == chess.NoPiece {
		return 0
	}
	f, r := int(sq.File()), int(sq.Rank())

	switch p.Type() {
	case chess.Pawn:
		return pawnMobility(board, p.Color(), f, r)
	case chess.Knight:
		return offsetMobility(board, p.Color(), f, r, knightOffsets)
	case chess.King:
		return offsetMobility(board, p.Color(), f, r, kingOffsets)
	case chess.Bishop:
		return rayMobility(board, p.Color(), f, r, bishopDirs)
	case chess.Rook:
		return rayMobility(board, p.Color(), f, r, rookDirs)
	case chess.Queen:
		return rayMobility(board, p.Color(), f, r, bishopDirs) +
			rayMobility(board, p.Color(), f, r, rookDirs)
	}
	return 0
}

func pawnMobility(board *chess.Board, color chess.Color, f, r int) int {
	dir, home := 1, 1
	if color == chess.Black {
		dir, home = -1, 6
	}
	count := 0
	if onBoard(f, r+dir) && board.Piece(squareAt(f, r+dir)) == chess.NoPiece {
		count++
		if r == home && board.Piece(squareAt(f, r+2*dir)) == chess.NoPiece {
			count++
		}
	}
	for _, df := range [2]int{-1, 1} {
		if !onBoard(f+df, r+dir) {
			continue
		}
		p := board.Piece(squareAt(f+df, r+dir))
		if p != chess.NoPiece && p.Color() == color.Other() {
			count++
		}
	}
	return count
}

func offsetMobility(board *chess.Board, color chess.Color, f, r int, offsets [8][2]int) int {
	count := 0
	for _, off := range offsets {
		if !onBoard(f+off[0], r+off[1]) {
			continue
		}
		p := board.Piece(squareAt(f+off[0], r+off[1]))
		if p == chess.NoPiece || p.Color() == color.Other() {
			count++
		}
	}
	return count
}

func rayMobility(board *chess.Board, color chess.Color, f, r int, dirs [4][2]int) int {
	count := 0
	for _, d := range dirs {
		for step := 1; ; step++ {
			nf, nr := f+d[0]*step, r+d[1]*step
			if !onBoard(nf, nr) {
				break
			}
			p := board.Piece(squareAt(nf, nr))
			if p == chess.NoPiece {
				count++
				continue
			}
			if p.Color() == color.Other() {
				count++
			}
			break
		}
	}
	return count
}
