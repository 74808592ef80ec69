package game

import (
	"fmt"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

// Registry owns the live sessions. It is built once at process start and
// handed to the front ends; there is no ambient global map.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	counter  int
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session with a fresh id and registers it. Ids are
// friendly petnames with a counter suffix to keep them unique.
func (r *Registry) Create(difficulty, timeLimit int, source MoveSource) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	id := fmt.Sprintf("%s-%d", petname.Generate(2, "-"), r.counter)
	s := NewSession(id, difficulty, timeLimit, source)
	r.sessions[id] = s
	return s
}

// Get looks a session up by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session from the registry. Unknown ids are a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
