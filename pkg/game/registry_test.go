package game

import (
	"errors"
	"testing"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	a := r.Create(DefaultDifficulty, 0, &firstMoveSource{})
	b := r.Create(DefaultDifficulty, 0, &firstMoveSource{})
	if a.ID() == b.ID() {
		t.Fatalf("duplicate session id %q", a.ID())
	}
	if r.Len() != 2 {
		t.Fatalf("registry has %d sessions, want 2", r.Len())
	}

	got, err := r.Get(a.ID())
	if err != nil {
		t.Fatalf("Get(%s): %v", a.ID(), err)
	}
	if got != a {
		t.Fatal("Get returned a different session")
	}

	r.Remove(a.ID())
	if _, err := r.Get(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get after Remove: %v, want ErrSessionNotFound", err)
	}
	if r.Len() != 1 {
		t.Fatalf("registry has %d sessions after Remove, want 1", r.Len())
	}

	// Removing an unknown id is a no-op.
	r.Remove("no-such-game")
	if r.Len() != 1 {
		t.Fatalf("registry has %d sessions, want 1", r.Len())
	}
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	r := NewRegistry()
	a := r.Create(DefaultDifficulty, 0, &firstMoveSource{})
	b := r.Create(DefaultDifficulty, 0, &firstMoveSource{})

	if _, err := a.ApplyMove("e2e4"); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if st := b.State(); st.MoveCount != 0 {
		t.Fatalf("move in one session leaked into another: count %d", st.MoveCount)
	}
}
