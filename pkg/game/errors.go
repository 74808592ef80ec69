package game

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned by registry lookups with unknown ids.
	ErrSessionNotFound = errors.New("game: session not found")

	// ErrGameOver rejects any mutating request on a finished session.
	ErrGameOver = errors.New("game: the game is over")

	// ErrEngineBusy rejects player input while an engine computation is in
	// flight for the session.
	ErrEngineBusy = errors.New("game: engine is thinking")

	// ErrNoMoves means an engine move was requested with zero legal moves,
	// which only happens when the caller skipped the terminal check.
	ErrNoMoves = errors.New("game: no legal moves in position")
)

// MoveErrorKind separates "could not read that" from "not legal here";
// front ends word the two differently.
type MoveErrorKind int

const (
	InvalidFormat MoveErrorKind = iota
	IllegalInPosition
)

// MoveError is the rejection for a bad player move. The session state is
// untouched when it is returned.
type MoveError struct {
	Move string
	Kind MoveErrorKind
}

func (e *MoveError) Error() string {
	if e.Kind == InvalidFormat {
		return fmt.Sprintf("game: cannot parse move %q", e.Move)
	}
	return fmt.Sprintf("game: move %q is not legal in this position", e.Move)
}

// HintError reports a spent hint budget along with the current usage.
type HintError struct {
	Used int
	Max  int
}

func (e *HintError) Error() string {
	return fmt.Sprintf("game: no hints remaining (used %d/%d)", e.Used, e.Max)
}
