package game

import (
	"context"
	"errors"
	"fmt"
)

// Input produces one completed guess per call, or ErrQuit.
// The loop blocks on NextGuess and services nothing else meanwhile.
type Input interface {
	NextGuess(ctx context.Context, v View) (Code, error)
}

// Renderer receives a snapshot after every history mutation.
type Renderer interface {
	Render(v View)
}

// Play runs g to completion: render, wait for a guess, score, record,
// repeat until won or lost.
//
// ErrQuit from in ends the loop without touching the history and is returned
// as is. ErrInvalidInput means the input broke the fixed-length guarantee;
// it is returned wrapped and the game is not resumed.
func Play(ctx context.Context, g *Game, in Input, out Renderer) (State, error) {
	out.Render(g.View())
	for {
		if st := g.State(); st.Terminal() {
			return st, nil
		}
		guess, err := in.NextGuess(ctx, g.View())
		if err != nil {
			return g.State(), err
		}
		if _, _, err := g.ApplyGuess(guess); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				return g.State(), fmt.Errorf("input produced a malformed guess on turn %d: %w", g.TurnIndex()+1, err)
			}
			return g.State(), err
		}
		out.Render(g.View())
	}
}
