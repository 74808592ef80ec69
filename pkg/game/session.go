package game

import (
	"fmt"
	"sync"

	"github.com/notnil/chess"

	"github.com/Lethinkj/chess-bot/pkg/engine"
)

const (
	// MaxHints is the per-game hint budget.
	MaxHints = 5

	// DefaultDifficulty is the strongest setting on the 0-20 scale.
	DefaultDifficulty = 20
)

// MoveSource produces the engine's reply for a position. The external engine
// and the built-in search both satisfy it.
type MoveSource interface {
	BestMove(pos *chess.Position) (*chess.Move, error)
}

// SkillSetter is implemented by move sources whose strength can be adjusted.
type SkillSetter interface {
	SetSkill(level int) error
}

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerWhite Winner = "White"
	WinnerBlack Winner = "Black"
	WinnerDraw  Winner = "Draw"
)

type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonCheckmate            Reason = "Checkmate"
	ReasonStalemate            Reason = "Stalemate"
	ReasonInsufficientMaterial Reason = "Insufficient material"
	ReasonOther                Reason = "Game ended"
)

// State is the session snapshot every front end renders from.
type State struct {
	ID         string   `json:"game_id"`
	FEN        string   `json:"fen"`
	PGN        string   `json:"pgn"`
	Turn       string   `json:"turn"`
	InCheck    bool     `json:"is_check"`
	LegalMoves []string `json:"legal_moves"`
	MoveCount  int      `json:"move_count"`
	HintsUsed  int      `json:"hints_used"`
	MaxHints   int      `json:"max_hints"`
	GameOver   bool     `json:"game_over"`
	Winner     Winner   `json:"winner"`
	Reason     Reason   `json:"reason"`
	Difficulty int      `json:"difficulty"`
	TimeLimit  int      `json:"time_limit"`
	LastMove   string   `json:"last_move,omitempty"`
	Version    uint64   `json:"version"`
}

// Session owns one game's lifecycle: the position, the move and hint
// counters and the outcome. A session is Active until the rules library
// reports a terminal position, after which every mutating request bounces.
// One mutex guards everything; sessions never touch each other.
type Session struct {
	mu sync.Mutex

	id         string
	game       *chess.Game
	source     MoveSource
	difficulty int
	timeLimit  int // minutes, 0 = untimed

	moveCount int
	hintsUsed int
	busy      bool

	over    bool
	winner  Winner
	reason  Reason
	version uint64
}

// NewSession starts a game from the standard position. Moves are exchanged
// in coordinate (UCI) notation.
func NewSession(id string, difficulty, timeLimit int, source MoveSource) *Session {
	if difficulty < 0 || difficulty > 20 {
		difficulty = DefaultDifficulty
	}
	return &Session{
		id:         id,
		game:       chess.NewGame(chess.UseNotation(chess.UCINotation{})),
		source:     source,
		difficulty: difficulty,
		timeLimit:  timeLimit,
	}
}

func (s *Session) ID() string { return s.id }

// Position returns the current position. Positions are immutable values in
// the rules library, so handing one out is safe.
func (s *Session) Position() *chess.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Position()
}

// PGN exports the game record.
func (s *Session) PGN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.String()
}

// Busy reports whether an engine computation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// ApplyMove plays a player move given in coordinate or algebraic notation.
// It rejects without touching anything when the game is over, the engine is
// busy, the string does not parse, or the move is not legal here.
func (s *Session) ApplyMove(raw string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return s.stateLocked(), ErrGameOver
	}
	if s.busy {
		return s.stateLocked(), ErrEngineBusy
	}
	move, err := s.parseLocked(raw)
	if err != nil {
		return s.stateLocked(), err
	}
	s.pushLocked(move)
	return s.stateLocked(), nil
}

// EngineMove asks the session's move source for a reply and applies it like
// a player move. The session is flagged busy for the duration so player
// moves and hints cannot interleave with the computation.
func (s *Session) EngineMove() (State, error) {
	s.mu.Lock()
	if s.over {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, ErrGameOver
	}
	if s.busy {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, ErrEngineBusy
	}
	pos := s.game.Position()
	if len(pos.ValidMoves()) == 0 {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, ErrNoMoves
	}
	s.busy = true
	source := s.source
	s.mu.Unlock()

	// The busy flag keeps the position frozen while the lock is released.
	move, err := source.BestMove(pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return s.stateLocked(), fmt.Errorf("game: engine move: %w", err)
	}
	s.pushLocked(move)
	return s.stateLocked(), nil
}

// Hint returns a suggested move without applying it. The budget only burns
// on success.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return "", ErrGameOver
	}
	if s.busy {
		s.mu.Unlock()
		return "", ErrEngineBusy
	}
	if s.hintsUsed >= MaxHints {
		err := &HintError{Used: s.hintsUsed, Max: MaxHints}
		s.mu.Unlock()
		return "", err
	}
	pos := s.game.Position()
	s.busy = true
	source := s.source
	s.mu.Unlock()

	move, err := source.BestMove(pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return "", fmt.Errorf("game: hint: %w", err)
	}
	s.hintsUsed++
	s.version++
	return move.String(), nil
}

// Undo takes back up to plies half-moves by replaying the shortened move
// list into a fresh game. Finished games stay finished.
func (s *Session) Undo(plies int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return s.stateLocked(), ErrGameOver
	}
	if s.busy {
		return s.stateLocked(), ErrEngineBusy
	}
	moves := s.game.Moves()
	if len(moves) == 0 || plies < 1 {
		return s.stateLocked(), &MoveError{Move: "undo", Kind: IllegalInPosition}
	}
	keep := len(moves) - plies
	if keep < 0 {
		keep = 0
	}
	replayed := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	for _, m := range moves[:keep] {
		if err := replayed.Move(m); err != nil {
			return s.stateLocked(), fmt.Errorf("game: replaying history: %w", err)
		}
	}
	s.game = replayed
	s.moveCount = keep
	s.version++
	return s.stateLocked(), nil
}

// Reset starts the session over: fresh position, counters and outcome. The
// hint budget refills with the new game.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return s.stateLocked()
	}
	s.game = chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	s.moveCount = 0
	s.hintsUsed = 0
	s.over = false
	s.winner = WinnerNone
	s.reason = ReasonNone
	s.version++
	return s.stateLocked()
}

// SetDifficulty clamps level to 0-20 and forwards it to the move source
// when the source supports strength adjustment.
func (s *Session) SetDifficulty(level int) int {
	if level < 0 {
		level = 0
	} else if level > 20 {
		level = 20
	}
	s.mu.Lock()
	s.difficulty = level
	source := s.source
	s.mu.Unlock()
	if ss, ok := source.(SkillSetter); ok {
		_ = ss.SetSkill(level)
	}
	return level
}

func (s *Session) parseLocked(raw string) (*chess.Move, error) {
	pos := s.game.Position()
	move, err := chess.UCINotation{}.Decode(pos, raw)
	if err != nil {
		move, err = chess.AlgebraicNotation{}.Decode(pos, raw)
		if err != nil {
			return nil, &MoveError{Move: raw, Kind: InvalidFormat}
		}
	}
	for _, legal := range pos.ValidMoves() {
		if legal.String() == move.String() {
			return legal, nil
		}
	}
	return nil, &MoveError{Move: raw, Kind: IllegalInPosition}
}

func (s *Session) pushLocked(move *chess.Move) {
	// The move comes out of the legal set, so this cannot fail; bail
	// without corrupting the session if it somehow does.
	if err := s.game.Move(move); err != nil {
		return
	}
	s.moveCount++
	s.version++
	s.refreshOutcomeLocked()
}

func (s *Session) refreshOutcomeLocked() {
	if s.game.Outcome() == chess.NoOutcome {
		return
	}
	s.over = true
	switch s.game.Outcome() {
	case chess.WhiteWon:
		s.winner = WinnerWhite
	case chess.BlackWon:
		s.winner = WinnerBlack
	default:
		s.winner = WinnerDraw
	}
	switch s.game.Method() {
	case chess.Checkmate:
		s.reason = ReasonCheckmate
	case chess.Stalemate:
		s.reason = ReasonStalemate
	case chess.InsufficientMaterial:
		s.reason = ReasonInsufficientMaterial
	default:
		s.reason = ReasonOther
	}
}

func (s *Session) stateLocked() State {
	pos := s.game.Position()
	valid := pos.ValidMoves()
	legal := make([]string, 0, len(valid))
	for _, m := range valid {
		legal = append(legal, m.String())
	}
	lastMove := ""
	if moves := s.game.Moves(); len(moves) > 0 {
		lastMove = moves[len(moves)-1].String()
	}
	return State{
		ID:         s.id,
		FEN:        pos.String(),
		PGN:        s.game.String(),
		Turn:       pos.Turn().Name(),
		InCheck:    engine.InCheck(pos),
		LegalMoves: legal,
		MoveCount:  s.moveCount,
		HintsUsed:  s.hintsUsed,
		MaxHints:   MaxHints,
		GameOver:   s.over,
		Winner:     s.winner,
		Reason:     s.reason,
		Difficulty: s.difficulty,
		TimeLimit:  s.timeLimit,
		LastMove:   lastMove,
		Version:    s.version,
	}
}
