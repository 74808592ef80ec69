package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"github.com/sirupsen/logrus"
)

// ErrEngineNotFound means no Stockfish binary could be located.
var ErrEngineNotFound = errors.New("engine: stockfish binary not found")

// DefaultThinkTime bounds a single external-engine search.
const DefaultThinkTime = time.Second

// FindStockfish looks for a Stockfish binary on PATH, in the usual install
// locations and under our data directory. Returns "" when nothing is found.
func FindStockfish() string {
	if path, err := exec.LookPath("stockfish"); err == nil {
		return path
	}
	candidates := []string{
		"/usr/bin/stockfish",
		"/usr/local/bin/stockfish",
		"/usr/games/stockfish",
		filepath.Join(xdg.DataHome, "chessarena", "stockfish"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Stockfish drives an external UCI engine process. All methods serialize on
// one mutex; the process holds a single position at a time.
type Stockfish struct {
	mu        sync.Mutex
	eng       *uci.Engine
	thinkTime time.Duration
}

// NewStockfish starts the engine at path (discovered when empty) and applies
// the skill level. The process is initialized with the standard UCI
// handshake before the first search.
func NewStockfish(path string, skill int, thinkTime time.Duration) (*Stockfish, error) {
	if path == "" {
		path = FindStockfish()
	}
	if path == "" {
		return nil, ErrEngineNotFound
	}
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("engine: starting %s: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("engine: uci handshake: %w", err)
	}
	if thinkTime <= 0 {
		thinkTime = DefaultThinkTime
	}
	s := &Stockfish{eng: eng, thinkTime: thinkTime}
	if err := s.SetSkill(skill); err != nil {
		eng.Close()
		return nil, err
	}
	logrus.Debugf("stockfish ready: %s (skill %d)", path, skill)
	return s, nil
}

// SetSkill clamps level to the engine's 0-20 scale and applies it.
func (s *Stockfish) SetSkill(level int) error {
	if level < 0 {
		level = 0
	} else if level > 20 {
		level = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Run(uci.CmdSetOption{Name: "Skill Level", Value: strconv.Itoa(level)})
}

// SetThinkTime adjusts the per-move time budget.
func (s *Stockfish) SetThinkTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.thinkTime = d
	}
}

// BestMove searches the position for the configured think time.
func (s *Stockfish) BestMove(pos *chess.Position) (*chess.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmds := []uci.Cmd{
		uci.CmdPosition{Position: pos},
		uci.CmdGo{MoveTime: s.thinkTime},
	}
	if err := s.eng.Run(cmds...); err != nil {
		return nil, fmt.Errorf("engine: search: %w", err)
	}
	best := s.eng.SearchResults().BestMove
	if best == nil {
		return nil, ErrNoMove
	}
	logrus.Debugf("stockfish> bestmove %s", best)
	return best, nil
}

// Evaluate scores the position, normalized to White's perspective.
func (s *Stockfish) Evaluate(pos *chess.Position) (Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, err := s.searchScore(pos, nil)
	if err != nil {
		return Score{}, err
	}
	if pos.Turn() == chess.Black {
		score.CP, score.Mate = -score.CP, -score.Mate
	}
	return score, nil
}

// TopMoves ranks the position's legal moves by searching each root move on
// its own (go searchmoves) and ordering the results, strongest first.
func (s *Stockfish) TopMoves(pos *chess.Position, n int) ([]MoveScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves := pos.ValidMoves()
	scored := make([]MoveScore, 0, len(moves))
	for _, m := range moves {
		score, err := s.searchScore(pos, m)
		if err != nil {
			return nil, err
		}
		scored = append(scored, MoveScore{Move: m.String(), CP: score.CP, Mate: score.Mate})
	}
	// Highest score first; mates rank by distance.
	sort.SliceStable(scored, func(i, j int) bool {
		return betterMoveScore(scored[i], scored[j])
	})
	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// Analyze satisfies Analyzer with the external engine's numbers.
func (s *Stockfish) Analyze(pos *chess.Position, n int) (*Analysis, error) {
	score, err := s.Evaluate(pos)
	if err != nil {
		return nil, err
	}
	top, err := s.TopMoves(pos, n)
	if err != nil {
		return nil, err
	}
	return &Analysis{Score: score, TopMoves: top}, nil
}

// Close shuts the engine process down.
func (s *Stockfish) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng != nil {
		s.eng.Close()
		s.eng = nil
	}
}

// searchScore runs a time-bounded search, optionally restricted to a single
// root move, and reads the score off the final info line. Caller holds the mutex.
func (s *Stockfish) searchScore(pos *chess.Position, only *chess.Move) (Score, error) {
	goCmd := uci.CmdGo{MoveTime: s.thinkTime}
	if only != nil {
		goCmd.SearchMoves = []*chess.Move{only}
	}
	if err := s.eng.Run(uci.CmdPosition{Position: pos}, goCmd); err != nil {
		return Score{}, fmt.Errorf("engine: search: %w", err)
	}
	info := s.eng.SearchResults().Info
	return Score{CP: info.Score.CP, Mate: info.Score.Mate}, nil
}

func betterMoveScore(a, b MoveScore) bool {
	// A mate for the mover beats any centipawn score, shorter mates first.
	// Mates against the mover rank below everything.
	switch {
	case a.Mate > 0 && b.Mate > 0:
		return a.Mate < b.Mate
	case a.Mate > 0:
		return true
	case b.Mate > 0:
		return false
	case a.Mate < 0 && b.Mate < 0:
		return a.Mate < b.Mate
	case a.Mate < 0:
		return false
	case b.Mate < 0:
		return true
	default:
		return a.CP > b.CP
	}
}
