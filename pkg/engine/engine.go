package engine

import (
	"errors"

	"github.com/notnil/chess"
)

// ErrNoMove is returned when a move source finishes without producing a move.
// Callers treat it as "no move produced", not as a fault.
var ErrNoMove = errors.New("engine: no move produced")

// Score is a position evaluation. Mate is the number of moves to a forced
// mate when nonzero, otherwise CP holds centipawns from White's perspective.
type Score struct {
	CP   int `json:"cp"`
	Mate int `json:"mate,omitempty"`
}

// MoveScore pairs a move in coordinate notation with its evaluation.
type MoveScore struct {
	Move string `json:"move"`
	CP   int    `json:"cp"`
	Mate int    `json:"mate,omitempty"`
}

// Analysis is the report behind the eval/analysis surfaces.
type Analysis struct {
	Score    Score       `json:"evaluation"`
	TopMoves []MoveScore `json:"top_moves"`
}

// Analyzer produces an evaluation and the n best moves for a position.
type Analyzer interface {
	Analyze(pos *chess.Position, n int) (*Analysis, error)
}

// Fallback selects moves with the built-in search. It is the sole move
// source when no external engine binary is around.
type Fallback struct {
	search *Searcher
	depth  int
}

func NewFallback(depth int) *Fallback {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Fallback{search: NewSearcher(DefaultWeights()), depth: depth}
}

// BestMove runs the search at the configured depth.
func (f *Fallback) BestMove(pos *chess.Position) (*chess.Move, error) {
	m := f.search.BestMove(pos, f.depth)
	if m == nil {
		return nil, ErrNoMove
	}
	return m, nil
}

// SetSkill maps the 0-20 difficulty scale onto search depth. The search gets
// slow past three plies without move ordering, so that is the ceiling.
func (f *Fallback) SetSkill(level int) error {
	switch {
	case level < 5:
		f.depth = 1
	case level < 15:
		f.depth = 2
	default:
		f.depth = 3
	}
	return nil
}

// Analyze evaluates the position and ranks the root moves with the search.
func (f *Fallback) Analyze(pos *chess.Position, n int) (*Analysis, error) {
	score := f.search.eval.Evaluate(pos)
	ranked := f.search.RankedMoves(pos, f.depth, n)
	top := make([]MoveScore, 0, len(ranked))
	for _, sm := range ranked {
		top = append(top, MoveScore{Move: sm.Move.String(), CP: sm.Score})
	}
	return &Analysis{Score: Score{CP: score}, TopMoves: top}, nil
}
