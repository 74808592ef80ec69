package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Lethinkj/chess-bot/pkg/engine"
	"github.com/Lethinkj/chess-bot/pkg/game"
)

// Config wires the HTTP front end to the core.
type Config struct {
	Addr       string
	Difficulty int
	// NewSource builds the move source for a fresh session; the serve
	// command hands out the shared Stockfish process or a fallback search.
	NewSource func(difficulty int) game.MoveSource
	// Analyzer backs the analysis endpoint. The built-in search fills in
	// when no external engine is available.
	Analyzer engine.Analyzer
}

// Server exposes the session API over HTTP. All state lives in the registry;
// handlers only translate between the wire and the core.
type Server struct {
	cfg      Config
	registry *game.Registry
	router   chi.Router
}

func New(cfg Config, registry *game.Registry) *Server {
	if cfg.Difficulty == 0 {
		cfg.Difficulty = game.DefaultDifficulty
	}
	s := &Server{cfg: cfg, registry: registry}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Chess Arena API is running"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/new-game", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/move/{id}", s.handleMove)
		r.Post("/engine-move/{id}", s.handleEngineMove)
		r.Get("/hint/{id}", s.handleHint)
		r.Get("/analysis/{id}", s.handleAnalysis)
	})
	r.Get("/ws/game/{id}", s.handleWatch)

	s.router = r
	return s
}

// Router exposes the handler, mostly for tests.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.router}
	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http: listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Difficulty *int `json:"difficulty"`
		TimeLimit  int  `json:"time_limit"`
	}
	// An empty body means "all defaults".
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	difficulty := s.cfg.Difficulty
	if payload.Difficulty != nil {
		difficulty = *payload.Difficulty
	}
	sess := s.registry.Create(difficulty, payload.TimeLimit, s.cfg.NewSource(difficulty))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"game_id": sess.ID(),
		"game":    sess.State(),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "game": sess.State()})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var payload struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Move == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	var (
		st  game.State
		err error
	)
	if payload.Move == "auto" {
		st, err = sess.EngineMove()
	} else {
		st, err = sess.ApplyMove(payload.Move)
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "game": st})
}

func (s *Server) handleEngineMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st, err := sess.EngineMove()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "game": st})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	hint, err := sess.Hint()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	st := sess.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"hint":       hint,
		"hints_used": st.HintsUsed,
		"max_hints":  st.MaxHints,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if s.cfg.Analyzer == nil {
		writeError(w, http.StatusNotFound, "engine unavailable")
		return
	}
	analysis, err := s.cfg.Analyzer.Analyze(sess.Position(), 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return sess, true
}

// statusFor maps the core's rejections onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrEngineBusy),
		errors.Is(err, game.ErrNoMoves):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Debugf("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
