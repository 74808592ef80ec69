package engine

import (
	"sort"

	"github.com/notnil/chess"
)

const (
	// DefaultDepth keeps the interactive fallback responsive while still
	// looking one reply ahead.
	DefaultDepth = 2

	// infinity bounds the alpha-beta window; mate scores never reach it.
	infinity = MateScore + 1000
)

// Searcher finds moves with plain negamax and alpha-beta pruning. Positions
// are passed by value through the recursion (Update returns a fresh
// position), so a pruned branch can never leak a mutation into its siblings.
type Searcher struct {
	eval *Evaluator
}

func NewSearcher(w Weights) *Searcher {
	return &Searcher{eval: NewEvaluator(w)}
}

// BestMove returns the strongest move found at the given depth, or nil when
// the position has no legal moves. Ties go to the first move in the rules
// library's enumeration order.
func (s *Searcher) BestMove(pos *chess.Position, depth int) *chess.Move {
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil
	}
	if depth < 1 {
		depth = 1
	}

	var best *chess.Move
	bestScore := -infinity
	alpha, beta := -infinity, infinity
	for _, m := range moves {
		score := -s.negamax(pos.Update(m), depth-1, 1, -beta, -alpha)
		if score > bestScore {
			bestScore, best = score, m
		}
		if score > alpha {
			alpha = score
		}
	}
	return best
}

// negamax returns the position's value from the side to move's perspective.
// Mate scores are shrunk by the ply so that a faster mate always ranks above
// a slower one.
func (s *Searcher) negamax(pos *chess.Position, depth, ply, alpha, beta int) int {
	switch pos.Status() {
	case chess.Checkmate:
		return -(MateScore - ply)
	case chess.Stalemate:
		return 0
	}
	if depth <= 0 {
		score := s.eval.Evaluate(pos)
		if pos.Turn() == chess.Black {
			return -score
		}
		return score
	}

	best := -infinity
	for _, m := range pos.ValidMoves() {
		score := -s.negamax(pos.Update(m), depth-1, ply+1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

// ScoredMove is a root move with its search score, from the mover's
// perspective.
type ScoredMove struct {
	Move  *chess.Move
	Score int
}

// RankedMoves scores every root move at the given depth and returns the best
// n (all of them when n <= 0), strongest first. The sort is stable, so equal
// scores keep the enumeration order.
func (s *Searcher) RankedMoves(pos *chess.Position, depth, n int) []ScoredMove {
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil
	}
	if depth < 1 {
		depth = 1
	}

	scored := make([]ScoredMove, 0, len(moves))
	for _, m := range moves {
		score := -s.negamax(pos.Update(m), depth-1, 1, -infinity, infinity)
		scored = append(scored, ScoredMove{Move: m, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
