package engine

import (
	"testing"

	"github.com/notnil/chess"
)

func TestBestMoveTakesHangingQueen(t *testing.T) {
	s := NewSearcher(DefaultWeights())
	pos := positionFromFEN(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")

	move := s.BestMove(pos, 1)
	if move == nil {
		t.Fatal("no move returned")
	}
	if move.String() != "d2d5" {
		t.Fatalf("best move = %s, want d2d5", move)
	}
}

func TestBestMoveFindsBackRankMate(t *testing.T) {
	s := NewSearcher(DefaultWeights())
	pos := positionFromFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	move := s.BestMove(pos, 2)
	if move == nil {
		t.Fatal("no move returned")
	}
	if move.String() != "a1a8" {
		t.Fatalf("best move = %s, want a1a8", move)
	}
}

func TestBestMoveDeliversFoolsMate(t *testing.T) {
	g := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	for _, m := range []string{"f2f3", "e7e5", "g2g4"} {
		if err := g.MoveStr(m); err != nil {
			t.Fatalf("setup move %s: %v", m, err)
		}
	}

	s := NewSearcher(DefaultWeights())
	move := s.BestMove(g.Position(), 2)
	if move == nil {
		t.Fatal("no move returned")
	}
	if move.String() != "d8h4" {
		t.Fatalf("best move = %s, want d8h4", move)
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	s := NewSearcher(DefaultWeights())
	pos := positionFromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	if move := s.BestMove(pos, 2); move != nil {
		t.Fatalf("got move %s from a mated position, want nil", move)
	}
}

func TestRankedMoves(t *testing.T) {
	s := NewSearcher(DefaultWeights())
	pos := chess.NewGame().Position()

	ranked := s.RankedMoves(pos, 1, 3)
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked moves, want 3", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranked moves out of order: %d before %d", ranked[i-1].Score, ranked[i].Score)
		}
	}

	all := s.RankedMoves(pos, 1, 0)
	if len(all) != len(pos.ValidMoves()) {
		t.Fatalf("got %d ranked moves, want all %d", len(all), len(pos.ValidMoves()))
	}
}

func TestFallbackBestMove(t *testing.T) {
	fb := NewFallback(1)
	pos := positionFromFEN(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")

	move, err := fb.BestMove(pos)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if move.String() != "d2d5" {
		t.Fatalf("best move = %s, want d2d5", move)
	}
}

func TestFallbackNoMove(t *testing.T) {
	fb := NewFallback(1)
	pos := positionFromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	if _, err := fb.BestMove(pos); err != ErrNoMove {
		t.Fatalf("BestMove error = %v, want ErrNoMove", err)
	}
}

func TestFallbackAnalyze(t *testing.T) {
	fb := NewFallback(1)
	analysis, err := fb.Analyze(chess.NewGame().Position(), 3)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analysis.TopMoves) != 3 {
		t.Fatalf("got %d top moves, want 3", len(analysis.TopMoves))
	}
}
