package terminal

import (
	"strings"
	"testing"

	"github.com/TwiN/go-color"

	"github.com/robalobadob/mastermind/internal/game"
)

func init() { color.Toggle(false) }

func TestKeyPegs(t *testing.T) {
	tests := []struct {
		fb   game.Feedback
		n    int
		want string
	}{
		{game.Feedback{}, 4, "····"},
		{game.Feedback{Exact: 1, ColorOnly: 2}, 4, "◦●●·"},
		{game.Feedback{Exact: 4}, 4, "◦◦◦◦"},
	}
	for _, tc := range tests {
		if got := keyPegs(tc.fb, tc.n); got != tc.want {
			t.Errorf("keyPegs(%+v, %d) = %q, want %q", tc.fb, tc.n, got, tc.want)
		}
	}
}

func TestRenderAppendsNewTurns(t *testing.T) {
	var b strings.Builder
	r := NewRenderer(&b, false)
	g, _ := game.NewWithAnswer(game.Config{Pegs: 4, Turns: 10}, game.Code{game.Red, game.Green, game.Blue, game.Yellow})

	r.Render(g.View())
	if !strings.Contains(b.String(), "4 pegs, 10 turns") {
		t.Fatalf("missing header: %q", b.String())
	}

	_, _, _ = g.ApplyGuess(game.Code{game.Red, game.Blue, game.White, game.White})
	b.Reset()
	r.Render(g.View())
	if strings.Contains(b.String(), "Mastermind") {
		t.Fatal("header repeated in append mode")
	}
	if !strings.Contains(b.String(), " 1. ⬤⬤⬤⬤  ◦●··") {
		t.Fatalf("turn row = %q", b.String())
	}

	_, _, _ = g.ApplyGuess(game.Code{game.Red, game.Green, game.Blue, game.Yellow})
	b.Reset()
	r.Render(g.View())
	out := b.String()
	if strings.Contains(out, " 1. ") {
		t.Fatal("turn 1 repainted in append mode")
	}
	if !strings.Contains(out, "cracked the code in 2 turns") {
		t.Fatalf("missing win message: %q", out)
	}
}

func TestRenderRedrawShowsDraftAndAnswer(t *testing.T) {
	var b strings.Builder
	r := NewRenderer(&b, true)
	g, _ := game.NewWithAnswer(game.Config{Pegs: 3, Turns: 8}, game.Code{game.Cyan, game.Cyan, game.Cyan})

	v := g.View()
	v.Draft, v.Cursor = game.Code{game.Red, game.Red, game.Red}, 2
	r.Render(v)
	out := b.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Fatal("redraw mode should clear the screen")
	}
	if !strings.Contains(out, "      ^") {
		t.Fatalf("cursor caret missing: %q", out)
	}

	for i := 0; i < 8; i++ {
		_, _, _ = g.ApplyGuess(game.Code{game.Red, game.Red, game.Red})
	}
	b.Reset()
	r.Render(g.View())
	out = b.String()
	if !strings.Contains(out, "Out of turns. The code was:") {
		t.Fatalf("missing loss message: %q", out)
	}
	if got := strings.Count(out, " 8. "); got != 1 {
		t.Fatalf("expected full repaint with turn 8 once, got %d", got)
	}
}
