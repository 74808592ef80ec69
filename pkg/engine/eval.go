package engine

import (
	"github.com/notnil/chess"
)

// MateScore is reserved for checkmate and dominates any heuristic sum.
const MateScore = 100000

// Weights holds the evaluation constants in centipawns. Call sites that want
// a different flavor of play tweak these instead of forking the evaluator.
type Weights struct {
	Pawn   int
	Knight int
	Bishop int
	Rook   int
	Queen  int

	CheckBonus    int // side delivering check
	PawnAdvance   int // per rank a pawn has advanced
	KingSafety    int // per enemy attacker of the king's square
	Mobility      int // per pseudo-legal destination square
	CenterControl int // per friendly piece on a central square
}

// DefaultWeights returns the standard tuning: classic 1/3/3.5/5/9 material
// scaled to centipawns plus small positional nudges.
func DefaultWeights() Weights {
	return Weights{
		Pawn:   100,
		Knight: 300,
		Bishop: 350,
		Rook:   500,
		Queen:  900,

		CheckBonus:    50,
		PawnAdvance:   10,
		KingSafety:    30,
		Mobility:      5,
		CenterControl: 25,
	}
}

// The extended center: c4-f4 and c5-f5.
var centerSquares = map[chess.Square]bool{
	chess.C4: true, chess.D4: true, chess.E4: true, chess.F4: true,
	chess.C5: true, chess.D5: true, chess.E5: true, chess.F5: true,
}

// Evaluator scores positions from White's perspective.
type Evaluator struct {
	weights Weights
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

// Evaluate returns the position's score in centipawns, positive favoring
// White. Checkmate and stalemate short-circuit every heuristic term. The
// board is scanned A1..H8 so equal inputs always produce equal sums.
func (e *Evaluator) Evaluate(pos *chess.Position) int {
	switch pos.Status() {
	case chess.Checkmate:
		// The side to move is the one that got mated.
		if pos.Turn() == chess.White {
			return -MateScore
		}
		return MateScore
	case chess.Stalemate:
		return 0
	}

	board := pos.Board()
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		sign := 1
		if p.Color() == chess.Black {
			sign = -1
		}

		score += sign * e.pieceValue(p.Type())
		score += sign * e.weights.Mobility * Mobility(board, sq)
		if centerSquares[sq] {
			score += sign * e.weights.CenterControl
		}

		switch p.Type() {
		case chess.Pawn:
			score += sign * e.weights.PawnAdvance * pawnAdvancement(sq, p.Color())
		case chess.King:
			score -= sign * e.weights.KingSafety * Attackers(board, p.Color().Other(), sq)
		}
	}

	if InCheck(pos) {
		if pos.Turn() == chess.White {
			score -= e.weights.CheckBonus
		} else {
			score += e.weights.CheckBonus
		}
	}
	return score
}

func (e *Evaluator) pieceValue(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return e.weights.Pawn
	case chess.Knight:
		return e.weights.Knight
	case chess.Bishop:
		return e.weights.Bishop
	case chess.Rook:
		return e.weights.Rook
	case chess.Queen:
		return e.weights.Queen
	}
	return 0
}

// pawnAdvancement counts the ranks a pawn has moved from its starting rank.
func pawnAdvancement(sq chess.Square, color chess.Color) int {
	if color == chess.White {
		return int(sq.Rank()) - 1
	}
	return 6 - int(sq.Rank())
}
