package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a malformed guess or answer (empty, length
	// mismatch, or a color outside the palette).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfig marks peg/turn counts outside the supported bounds.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrFinished is returned when guessing on a won or lost game.
	ErrFinished = errors.New("game finished")
	// ErrQuit is the cancel signal an Input returns to abort the session.
	ErrQuit = errors.New("quit")
)

// Score compares guess against answer and returns the key pegs.
//
// The frequency map is seeded with every answer peg. The first pass over the
// guess consumes one answer peg per matching color, which yields the total
// color overlap without double counting repeated guess colors. The second,
// pairwise pass moves every positional match from the overlap tally into
// Exact, so a peg never counts as both exact and color-only.
func Score(guess, answer Code) (Feedback, error) {
	if len(guess) == 0 || len(answer) == 0 {
		return Feedback{}, fmt.Errorf("%w: empty code", ErrInvalidInput)
	}
	if len(guess) != len(answer) {
		return Feedback{}, fmt.Errorf("%w: guess has %d pegs, answer has %d", ErrInvalidInput, len(guess), len(answer))
	}

	remaining := make(map[Color]int, len(answer))
	for _, c := range answer {
		remaining[c]++
	}

	candidates := 0
	for _, c := range guess {
		if remaining[c] > 0 {
			remaining[c]--
			candidates++
		}
	}

	var fb Feedback
	for i := range guess {
		if guess[i] == answer[i] {
			fb.Exact++
			candidates--
		}
	}
	fb.ColorOnly = candidates
	return fb, nil
}
