package engine

import (
	"testing"

	"github.com/notnil/chess"
)

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())
	if got := ev.Evaluate(chess.NewGame().Position()); got != 0 {
		t.Fatalf("start position evaluates to %d, want 0", got)
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())

	// White is up a whole queen.
	pos := positionFromFEN(t, "k7/8/8/8/8/8/8/1QK5 w - - 0 1")
	if got := ev.Evaluate(pos); got < 800 {
		t.Fatalf("queen-up position evaluates to %d, want >= 800", got)
	}

	// Mirror it and the sign flips.
	pos = positionFromFEN(t, "1qk5/8/8/8/8/8/8/K7 w - - 0 1")
	if got := ev.Evaluate(pos); got > -800 {
		t.Fatalf("queen-down position evaluates to %d, want <= -800", got)
	}
}

func TestEvaluateCheckmate(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())

	// Fool's mate, White to move and mated.
	pos := positionFromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := ev.Evaluate(pos); got != -MateScore {
		t.Fatalf("mated White evaluates to %d, want %d", got, -MateScore)
	}
}

func TestEvaluateStalemate(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())

	// Black king cornered by the queen but not in check.
	pos := positionFromFEN(t, "k7/8/1Q6/8/8/8/8/K7 b - - 0 1")
	if pos.Status() != chess.Stalemate {
		t.Fatalf("fixture is not stalemate, status = %v", pos.Status())
	}
	if got := ev.Evaluate(pos); got != 0 {
		t.Fatalf("stalemate evaluates to %d, want 0", got)
	}
}

func TestEvaluateCheckBonus(t *testing.T) {
	ev := NewEvaluator(DefaultWeights())

	// Rook check against the bare black king. Only the check bonus and king
	// safety separate this from the same position shifted off the file.
	checked := ev.Evaluate(positionFromFEN(t, "4k3/8/8/8/8/8/8/K3R3 b - - 0 1"))
	quiet := ev.Evaluate(positionFromFEN(t, "4k3/8/8/8/8/8/8/K2R4 b - - 0 1"))
	if checked <= quiet {
		t.Fatalf("check position scores %d, quiet scores %d; want check higher", checked, quiet)
	}
}

func TestPawnAdvancement(t *testing.T) {
	if got := pawnAdvancement(chess.E2, chess.White); got != 0 {
		t.Fatalf("white e2 advancement = %d, want 0", got)
	}
	if got := pawnAdvancement(chess.E6, chess.White); got != 4 {
		t.Fatalf("white e6 advancement = %d, want 4", got)
	}
	if got := pawnAdvancement(chess.E7, chess.Black); got != 0 {
		t.Fatalf("black e7 advancement = %d, want 0", got)
	}
	if got := pawnAdvancement(chess.E3, chess.Black); got != 4 {
		t.Fatalf("black e3 advancement = %d, want 4", got)
	}
}
