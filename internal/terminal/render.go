package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/TwiN/go-color"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	codePeg      = "⬤"
	exactPeg     = "◦" // right color, right position
	colorOnlyPeg = "●" // right color, wrong position
	emptyPeg     = "·"

	clearScreen = "\033[H\033[2J"
	eol         = "\r\n" // raw mode does not translate \n
)

var ansiByColor = map[game.Color]string{
	game.Red:     color.Red,
	game.Green:   color.Green,
	game.Yellow:  color.Yellow,
	game.Blue:    color.Blue,
	game.Magenta: color.Purple,
	game.Cyan:    color.Cyan,
	game.White:   color.White,
}

// Renderer draws the board to w.
//
// In redraw mode every call clears the screen and paints the whole board,
// including the guess being edited. Otherwise it appends only the turns it
// has not printed yet, which suits pipes and line-mode input.
type Renderer struct {
	w      io.Writer
	redraw bool
	shown  int
	header bool
}

func NewRenderer(w io.Writer, redraw bool) *Renderer {
	return &Renderer{w: w, redraw: redraw}
}

// Render implements game.Renderer.
func (r *Renderer) Render(v game.View) {
	var b strings.Builder
	if r.redraw {
		b.WriteString(clearScreen)
		r.header, r.shown = false, 0
	}
	if !r.header {
		fmt.Fprintf(&b, "Mastermind: %d pegs, %d turns. Colors: %s%s", v.Pegs, v.Turns, legend(), eol)
		r.header = true
	}
	for i := r.shown; i < len(v.History); i++ {
		t := v.History[i]
		fmt.Fprintf(&b, "%2d. %s  %s%s", i+1, pegs(t.Guess), keyPegs(t.Feedback, v.Pegs), eol)
	}
	r.shown = len(v.History)

	switch {
	case v.State == game.StateWon:
		fmt.Fprintf(&b, "You cracked the code in %d turns!%s", len(v.History), eol)
	case v.State == game.StateLost:
		fmt.Fprintf(&b, "Out of turns. The code was: %s%s", pegs(v.Answer), eol)
	case r.redraw && v.Draft != nil:
		fmt.Fprintf(&b, "%2d. %s%s", len(v.History)+1, pegs(v.Draft), eol)
		fmt.Fprintf(&b, "    %s^%s", strings.Repeat(" ", v.Cursor), eol)
		b.WriteString("←/→ move  ↑/↓ color  letter set  Enter submit  q quit" + eol)
	}
	_, _ = io.WriteString(r.w, b.String())
}

// Prompt writes an input prompt without a line break.
func (r *Renderer) Prompt(s string) {
	_, _ = io.WriteString(r.w, s)
}

func legend() string {
	parts := make([]string, 0, game.NumColors)
	for _, c := range game.Palette() {
		parts = append(parts, color.Ize(ansiByColor[c], string(c.Initial())))
	}
	return strings.Join(parts, " ")
}

func pegs(code game.Code) string {
	var b strings.Builder
	for _, c := range code {
		b.WriteString(color.Ize(ansiByColor[c], codePeg))
	}
	return b.String()
}

func keyPegs(fb game.Feedback, n int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(exactPeg, fb.Exact))
	b.WriteString(strings.Repeat(colorOnlyPeg, fb.ColorOnly))
	if rest := n - fb.Exact - fb.ColorOnly; rest > 0 {
		b.WriteString(strings.Repeat(emptyPeg, rest))
	}
	return b.String()
}
