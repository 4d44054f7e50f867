package terminal

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestLineInputPlaysToWin(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, false)
	in := NewLineInput(strings.NewReader("rrrr\nnope\nR, G, B, Y\n"), r)
	g, _ := game.NewWithAnswer(game.Config{Pegs: 4, Turns: 10}, game.Code{game.Red, game.Green, game.Blue, game.Yellow})

	st, err := game.Play(context.Background(), g, in, r)
	if err != nil {
		t.Fatal(err)
	}
	if st != game.StateWon || g.TurnIndex() != 2 {
		t.Fatalf("state = %v after %d turns, want won after 2", st, g.TurnIndex())
	}
	if !strings.Contains(out.String(), "Turn 02/10: ") {
		t.Fatalf("missing second prompt: %q", out.String())
	}
	if !strings.Contains(out.String(), "enter 4 pegs") {
		t.Fatal("malformed line should print a hint")
	}
}

func TestLineInputQuit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"q", "gggg\nq\n"},
		{"quit", "gggg\nQUIT\n"},
		{"eof", "gggg\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRenderer(&strings.Builder{}, false)
			in := NewLineInput(strings.NewReader(tc.input), r)
			g, _ := game.NewWithAnswer(game.Config{Pegs: 4, Turns: 10}, game.Code{game.Red, game.Red, game.Red, game.Red})

			_, err := game.Play(context.Background(), g, in, r)
			if !errors.Is(err, game.ErrQuit) {
				t.Fatalf("err = %v, want ErrQuit", err)
			}
			if g.TurnIndex() != 1 {
				t.Fatalf("turns = %d, want 1", g.TurnIndex())
			}
		})
	}
}

func TestLineInputLastLineWithoutNewline(t *testing.T) {
	r := NewRenderer(&strings.Builder{}, false)
	in := NewLineInput(strings.NewReader("cmy"), r)
	code, err := in.NextGuess(context.Background(), game.View{Pegs: 3, Turns: 8})
	if err != nil {
		t.Fatal(err)
	}
	if code.String() != "CMY" {
		t.Fatalf("code = %v, want CMY", code)
	}
}

func TestRawGuessEditing(t *testing.T) {
	var out strings.Builder
	r := NewRenderer(&out, true)
	// Set R, skip peg 2, cycle peg 3 to Yellow, overwrite it with B, submit.
	keys := "r\x1b[C\x1b[A\x1b[Ab\r"
	in := NewLineInput(strings.NewReader(keys), r)

	code, err := in.rawGuess(context.Background(), game.View{Pegs: 4, Turns: 10, State: game.StatePlaying})
	if err != nil {
		t.Fatal(err)
	}
	want := game.Code{game.Red, game.Red, game.Blue, game.Red}
	if code.String() != want.String() {
		t.Fatalf("code = %v, want %v", code, want)
	}
}

func TestRawGuessQuit(t *testing.T) {
	for _, keys := range []string{"q", "\x03", "\x1b"} {
		in := NewLineInput(strings.NewReader(keys), NewRenderer(&strings.Builder{}, true))
		if _, err := in.rawGuess(context.Background(), game.View{Pegs: 4, Turns: 10}); !errors.Is(err, game.ErrQuit) {
			t.Fatalf("keys %q: err = %v, want ErrQuit", keys, err)
		}
	}
}

func TestNewInputFallsBackToLines(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()

	for _, redraw := range []bool{false, true} {
		in := NewInput(pr, NewRenderer(&strings.Builder{}, redraw))
		if in.Raw() {
			t.Fatalf("redraw=%v: raw mode on a pipe", redraw)
		}
	}

	var out strings.Builder
	in := NewInput(pr, NewRenderer(&out, false))
	go func() {
		_, _ = pw.WriteString("RGBY\n")
		_ = pw.Close()
	}()
	code, err := in.NextGuess(context.Background(), game.View{Pegs: 4, Turns: 10})
	if err != nil {
		t.Fatal(err)
	}
	if code.String() != "RGBY" || !strings.Contains(out.String(), "Turn 01/10: ") {
		t.Fatalf("code = %v, output = %q", code, out.String())
	}
}
