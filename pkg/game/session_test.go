package game

import (
	"errors"
	"testing"
	"time"

	"github.com/notnil/chess"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// firstMoveSource plays the first legal move. Deterministic and fast, which
// is all the session tests need from an engine.
type firstMoveSource struct {
	err   error
	skill int
}

func (s *firstMoveSource) BestMove(pos *chess.Position) (*chess.Move, error) {
	if s.err != nil {
		return nil, s.err
	}
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil, errors.New("no moves")
	}
	return moves[0], nil
}

func (s *firstMoveSource) SetSkill(level int) error {
	s.skill = level
	return nil
}

// blockingSource parks inside BestMove until released, so tests can observe
// the session's busy state.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSource) BestMove(pos *chess.Position) (*chess.Move, error) {
	close(b.started)
	<-b.release
	return pos.ValidMoves()[0], nil
}

func newTestSession() *Session {
	return NewSession("test", DefaultDifficulty, 0, &firstMoveSource{})
}

func playMoves(t *testing.T, sess *Session, moves ...string) State {
	t.Helper()
	var st State
	for _, m := range moves {
		var err error
		st, err = sess.ApplyMove(m)
		if err != nil {
			t.Fatalf("ApplyMove(%s): %v", m, err)
		}
	}
	return st
}

func TestApplyMove(t *testing.T) {
	sess := newTestSession()

	st := playMoves(t, sess, "e2e4")
	if st.MoveCount != 1 {
		t.Fatalf("move count = %d, want 1", st.MoveCount)
	}
	if st.Turn != "Black" {
		t.Fatalf("turn = %q, want Black", st.Turn)
	}
	if st.LastMove != "e2e4" {
		t.Fatalf("last move = %q, want e2e4", st.LastMove)
	}
	if st.GameOver {
		t.Fatal("game over after one move")
	}
}

func TestApplyMoveAcceptsAlgebraic(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "e4", "e5")

	st := playMoves(t, sess, "Nf3")
	if st.LastMove != "g1f3" {
		t.Fatalf("last move = %q, want g1f3", st.LastMove)
	}
}

func TestApplyMoveRejections(t *testing.T) {
	sess := newTestSession()

	_, err := sess.ApplyMove("not-a-move")
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Kind != InvalidFormat {
		t.Fatalf("gibberish move: got %v, want InvalidFormat", err)
	}

	_, err = sess.ApplyMove("e2e5")
	if !errors.As(err, &moveErr) || moveErr.Kind != IllegalInPosition {
		t.Fatalf("illegal move: got %v, want IllegalInPosition", err)
	}

	if st := sess.State(); st.MoveCount != 0 {
		t.Fatalf("rejected moves changed the session: move count %d", st.MoveCount)
	}
}

func TestFoolsMateEndsGame(t *testing.T) {
	sess := newTestSession()
	st := playMoves(t, sess, "f2f3", "e7e5", "g2g4", "d8h4")

	if !st.GameOver {
		t.Fatal("game not over after fool's mate")
	}
	if st.Winner != WinnerBlack {
		t.Fatalf("winner = %q, want Black", st.Winner)
	}
	if st.Reason != ReasonCheckmate {
		t.Fatalf("reason = %q, want Checkmate", st.Reason)
	}

	// Every mutation bounces off a finished game.
	if _, err := sess.ApplyMove("a2a3"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("ApplyMove after mate: %v, want ErrGameOver", err)
	}
	if _, err := sess.EngineMove(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("EngineMove after mate: %v, want ErrGameOver", err)
	}
	if _, err := sess.Hint(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Hint after mate: %v, want ErrGameOver", err)
	}
	if _, err := sess.Undo(2); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Undo after mate: %v, want ErrGameOver", err)
	}
}

func TestEngineMove(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "e2e4")

	st, err := sess.EngineMove()
	if err != nil {
		t.Fatalf("EngineMove: %v", err)
	}
	if st.MoveCount != 2 {
		t.Fatalf("move count = %d, want 2", st.MoveCount)
	}
	if st.Turn != "White" {
		t.Fatalf("turn = %q, want White", st.Turn)
	}
}

func TestHintBudget(t *testing.T) {
	sess := newTestSession()

	for i := 0; i < MaxHints; i++ {
		hint, err := sess.Hint()
		if err != nil {
			t.Fatalf("hint %d: %v", i+1, err)
		}
		if hint == "" {
			t.Fatalf("hint %d is empty", i+1)
		}
	}

	_, err := sess.Hint()
	var hintErr *HintError
	if !errors.As(err, &hintErr) {
		t.Fatalf("hint past the budget: got %v, want HintError", err)
	}
	if hintErr.Used != MaxHints || hintErr.Max != MaxHints {
		t.Fatalf("hint error reports %d/%d, want %d/%d", hintErr.Used, hintErr.Max, MaxHints, MaxHints)
	}
}

func TestHintFailureKeepsBudget(t *testing.T) {
	src := &firstMoveSource{err: errors.New("engine crashed")}
	sess := NewSession("test", DefaultDifficulty, 0, src)

	if _, err := sess.Hint(); err == nil {
		t.Fatal("hint succeeded with a broken source")
	}
	if st := sess.State(); st.HintsUsed != 0 {
		t.Fatalf("failed hint burned the budget: used %d", st.HintsUsed)
	}

	src.err = nil
	if _, err := sess.Hint(); err != nil {
		t.Fatalf("hint after recovery: %v", err)
	}
	if st := sess.State(); st.HintsUsed != 1 {
		t.Fatalf("hints used = %d, want 1", st.HintsUsed)
	}
}

func TestBusyRejectsInput(t *testing.T) {
	src := &blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := NewSession("test", DefaultDifficulty, 0, src)

	done := make(chan error, 1)
	go func() {
		_, err := sess.EngineMove()
		done <- err
	}()

	select {
	case <-src.started:
	case <-time.After(2 * time.Second):
		t.Fatal("engine move never started")
	}

	if _, err := sess.ApplyMove("e2e4"); !errors.Is(err, ErrEngineBusy) {
		t.Fatalf("ApplyMove while busy: %v, want ErrEngineBusy", err)
	}
	if _, err := sess.Hint(); !errors.Is(err, ErrEngineBusy) {
		t.Fatalf("Hint while busy: %v, want ErrEngineBusy", err)
	}
	if _, err := sess.Undo(1); !errors.Is(err, ErrEngineBusy) {
		t.Fatalf("Undo while busy: %v, want ErrEngineBusy", err)
	}

	close(src.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("EngineMove: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine move never finished")
	}

	if sess.Busy() {
		t.Fatal("session still busy after the move landed")
	}
	if st := sess.State(); st.MoveCount != 1 {
		t.Fatalf("move count = %d, want 1", st.MoveCount)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "e2e4", "e7e5")

	st, err := sess.Undo(2)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.FEN != startFEN {
		t.Fatalf("fen after undo = %q, want start position", st.FEN)
	}
	if st.MoveCount != 0 {
		t.Fatalf("move count after undo = %d, want 0", st.MoveCount)
	}

	// The position is live again.
	playMoves(t, sess, "d2d4")
}

func TestUndoPartial(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "e2e4", "e7e5", "g1f3")

	st, err := sess.Undo(2)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.MoveCount != 1 {
		t.Fatalf("move count = %d, want 1", st.MoveCount)
	}
	if st.LastMove != "e2e4" {
		t.Fatalf("last move = %q, want e2e4", st.LastMove)
	}
}

func TestUndoEmptyGame(t *testing.T) {
	sess := newTestSession()
	if _, err := sess.Undo(2); err == nil {
		t.Fatal("undo on a fresh game succeeded")
	}
}

func TestReset(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "e2e4", "e7e5")
	if _, err := sess.Hint(); err != nil {
		t.Fatalf("Hint: %v", err)
	}

	st := sess.Reset()
	if st.FEN != startFEN {
		t.Fatalf("fen after reset = %q, want start position", st.FEN)
	}
	if st.MoveCount != 0 || st.HintsUsed != 0 {
		t.Fatalf("counters after reset = %d moves, %d hints; want 0, 0", st.MoveCount, st.HintsUsed)
	}
	if st.GameOver {
		t.Fatal("reset session still reports game over")
	}
}

func TestResetRevivesFinishedGame(t *testing.T) {
	sess := newTestSession()
	playMoves(t, sess, "f2f3", "e7e5", "g2g4", "d8h4")

	st := sess.Reset()
	if st.GameOver {
		t.Fatal("reset did not clear the outcome")
	}
	if st.Winner != WinnerNone || st.Reason != ReasonNone {
		t.Fatalf("outcome after reset = %q/%q, want empty", st.Winner, st.Reason)
	}
	playMoves(t, sess, "e2e4")
}

func TestSetDifficulty(t *testing.T) {
	src := &firstMoveSource{}
	sess := NewSession("test", DefaultDifficulty, 0, src)

	if got := sess.SetDifficulty(40); got != 20 {
		t.Fatalf("SetDifficulty(40) = %d, want 20", got)
	}
	if got := sess.SetDifficulty(-3); got != 0 {
		t.Fatalf("SetDifficulty(-3) = %d, want 0", got)
	}
	if src.skill != 0 {
		t.Fatalf("source skill = %d, want 0", src.skill)
	}

	sess.SetDifficulty(12)
	if src.skill != 12 {
		t.Fatalf("source skill = %d, want 12", src.skill)
	}
}

func TestStateVersionAdvances(t *testing.T) {
	sess := newTestSession()
	before := sess.State().Version

	playMoves(t, sess, "e2e4")
	after := sess.State().Version
	if after <= before {
		t.Fatalf("version did not advance: %d -> %d", before, after)
	}

	if _, err := sess.Hint(); err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if v := sess.State().Version; v <= after {
		t.Fatalf("version did not advance on hint: %d -> %d", after, v)
	}
}
