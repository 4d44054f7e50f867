// internal/game/engine.go
//
// Core game engine for a single Mastermind session.
// Responsibilities:
//   - Create new games with validated dimensions (pegs x turns).
//   - Validate and apply guesses (length, palette membership).
//   - Score guesses with the frequency-consumption algorithm (score.go).
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - The answer is drawn once from an injected Source and never exposed
//     before the game is terminal.
//   - History is append-only; ApplyGuess is its only mutation point.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MinPegs      = 3
	MaxPegs      = 6
	DefaultPegs  = 4
	MinTurns     = 8
	MaxTurns     = 12
	DefaultTurns = 10
)

// Config fixes the dimensions of a game for its whole lifetime.
type Config struct {
	Pegs  int `json:"pegs"`
	Turns int `json:"turns"`
}

// DefaultConfig is 4 pegs over 10 turns.
func DefaultConfig() Config { return Config{Pegs: DefaultPegs, Turns: DefaultTurns} }

// Validate checks the peg and turn bounds.
func (c Config) Validate() error {
	if c.Pegs < MinPegs || c.Pegs > MaxPegs {
		return fmt.Errorf("%w: pegs must be %d–%d, got %d", ErrInvalidConfig, MinPegs, MaxPegs, c.Pegs)
	}
	if c.Turns < MinTurns || c.Turns > MaxTurns {
		return fmt.Errorf("%w: turns must be %d–%d, got %d", ErrInvalidConfig, MinTurns, MaxTurns, c.Turns)
	}
	return nil
}

// Game holds the state of a single game session.
type Game struct {
	ID      string    // Unique game identifier (UUID).
	Pegs    int       // Pegs per code.
	Turns   int       // Maximum number of guesses.
	Started time.Time // Creation time, UTC.

	answer  Code
	history []Turn
}

// New constructs a game whose answer is drawn from src.
func New(cfg Config, src Source) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGame(cfg, RandomCode(src, cfg.Pegs)), nil
}

// NewWithAnswer constructs a game with a fixed answer.
func NewWithAnswer(cfg Config, answer Code) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(answer) != cfg.Pegs {
		return nil, fmt.Errorf("%w: answer has %d pegs, want %d", ErrInvalidInput, len(answer), cfg.Pegs)
	}
	if err := checkPalette(answer); err != nil {
		return nil, err
	}
	return newGame(cfg, answer.Clone()), nil
}

func newGame(cfg Config, answer Code) *Game {
	return &Game{
		ID:      uuid.NewString(),
		Pegs:    cfg.Pegs,
		Turns:   cfg.Turns,
		Started: time.Now().UTC(),
		answer:  answer,
		history: make([]Turn, 0, cfg.Turns),
	}
}

// ApplyGuess scores a guess and records it.
// Returns: the feedback, the new state, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly g.Pegs pegs from the palette.
//
// State transitions:
//   - Exact == Pegs → won.
//   - Else if this was the Turns-th guess → lost.
//
// On error the history is left untouched.
func (g *Game) ApplyGuess(guess Code) (Feedback, State, error) {
	if st := g.State(); st.Terminal() {
		return Feedback{}, st, ErrFinished
	}
	if err := checkPalette(guess); err != nil {
		return Feedback{}, StatePlaying, err
	}
	fb, err := Score(guess, g.answer)
	if err != nil {
		return Feedback{}, StatePlaying, err
	}
	g.history = append(g.history, Turn{Guess: guess.Clone(), Feedback: fb})
	return fb, g.State(), nil
}

// State derives the lifecycle state from the history.
func (g *Game) State() State {
	n := len(g.history)
	if n > 0 && g.history[n-1].Feedback.Exact == g.Pegs {
		return StateWon
	}
	if n >= g.Turns {
		return StateLost
	}
	return StatePlaying
}

// TurnIndex is the number of committed guesses.
func (g *Game) TurnIndex() int { return len(g.history) }

// History returns a copy of the committed turns.
func (g *Game) History() []Turn {
	out := make([]Turn, len(g.history))
	for i, t := range g.history {
		out[i] = Turn{Guess: t.Guess.Clone(), Feedback: t.Feedback}
	}
	return out
}

// Answer reveals the code once the game is over.
func (g *Game) Answer() (Code, bool) {
	if !g.State().Terminal() {
		return nil, false
	}
	return g.answer.Clone(), true
}

// Config reports the game's dimensions.
func (g *Game) Config() Config { return Config{Pegs: g.Pegs, Turns: g.Turns} }

// View snapshots the game for renderers.
func (g *Game) View() View {
	v := View{
		ID:      g.ID,
		Pegs:    g.Pegs,
		Turns:   g.Turns,
		History: g.History(),
		State:   g.State(),
	}
	if ans, ok := g.Answer(); ok {
		v.Answer = ans
	}
	return v
}

// checkPalette rejects colors outside the enumeration.
func checkPalette(c Code) error {
	for i, p := range c {
		if !p.Valid() {
			return fmt.Errorf("%w: peg %d has color %d", ErrInvalidInput, i, uint8(p))
		}
	}
	return nil
}
