package engine

import (
	"testing"

	"github.com/notnil/chess"
)

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("bad fen %q: %v", fen, err)
	}
	return chess.NewGame(opt).Position()
}

func TestAttackersStartPosition(t *testing.T) {
	board := chess.NewGame().Position().Board()

	// f3 is hit by the e2 and g2 pawns and the g1 knight.
	if got := Attackers(board, chess.White, chess.F3); got != 3 {
		t.Fatalf("Attackers(White, f3) = %d, want 3", got)
	}
	// Nothing reaches e4 from the back ranks yet.
	if got := Attackers(board, chess.White, chess.E4); got != 0 {
		t.Fatalf("Attackers(White, e4) = %d, want 0", got)
	}
	if got := Attackers(board, chess.Black, chess.F6); got != 3 {
		t.Fatalf("Attackers(Black, f6) = %d, want 3", got)
	}
}

func TestAttackersSliders(t *testing.T) {
	// Queen d5 and rook d2 both sit on the d-file; the rook's ray to d8 is
	// blocked by the queen.
	pos := positionFromFEN(t, "3k4/8/8/3q4/8/8/3R4/3K4 w - - 0 1")
	board := pos.Board()

	if got := Attackers(board, chess.Black, chess.D2); got != 1 {
		t.Fatalf("Attackers(Black, d2) = %d, want 1", got)
	}
	if got := Attackers(board, chess.White, chess.D5); got != 1 {
		t.Fatalf("Attackers(White, d5) = %d, want 1", got)
	}
	if got := Attackers(board, chess.White, chess.D8); got != 0 {
		t.Fatalf("Attackers(White, d8) = %d, want 0 (ray blocked)", got)
	}
}

func TestInCheck(t *testing.T) {
	if InCheck(chess.NewGame().Position()) {
		t.Fatal("start position reported as check")
	}
	// Scholar's-mate style queen on f7.
	pos := positionFromFEN(t, "rnbqkbnr/ppppp1pp/8/5p1Q/8/4P3/PPPP1PPP/RNB1KBNR b KQkq - 0 1")
	if !InCheck(pos) {
		t.Fatal("queen check not detected")
	}
}

func TestMobilityStartPosition(t *testing.T) {
	board := chess.NewGame().Position().Board()

	if got := Mobility(board, chess.B1); got != 2 {
		t.Fatalf("knight b1 mobility = %d, want 2", got)
	}
	if got := Mobility(board, chess.E2); got != 2 {
		t.Fatalf("pawn e2 mobility = %d, want 2", got)
	}
	if got := Mobility(board, chess.A1); got != 0 {
		t.Fatalf("rook a1 mobility = %d, want 0", got)
	}
	if got := Mobility(board, chess.D1); got != 0 {
		t.Fatalf("queen d1 mobility = %d, want 0", got)
	}
}

func TestMobilityOpenBoard(t *testing.T) {
	pos := positionFromFEN(t, "7k/8/8/8/3R4/8/8/K7 w - - 0 1")
	if got := Mobility(pos.Board(), chess.D4); got != 14 {
		t.Fatalf("rook d4 mobility = %d, want 14", got)
	}
}
