package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/robalobadob/mastermind/internal/game"
)

// Input implements game.Input on a terminal.
//
// On a TTY it switches to raw mode for each guess and edits a
// game.GuessBuilder key by key. Otherwise it reads one line of color
// initials per turn.
type Input struct {
	r   *bufio.Reader
	fd  int
	tty bool
	out *Renderer
}

// NewInput reads from f. Raw mode requires f to be a terminal and out to be
// in redraw mode; otherwise guesses are read line by line.
func NewInput(f *os.File, out *Renderer) *Input {
	fd := int(f.Fd())
	return &Input{r: bufio.NewReader(f), fd: fd, tty: out.redraw && term.IsTerminal(fd), out: out}
}

// Raw reports whether guesses are edited key by key.
func (in *Input) Raw() bool { return in.tty }

// NewLineInput reads guesses line by line from r.
func NewLineInput(r io.Reader, out *Renderer) *Input {
	return &Input{r: bufio.NewReader(r), fd: -1, out: out}
}

// NextGuess implements game.Input.
func (in *Input) NextGuess(ctx context.Context, v game.View) (game.Code, error) {
	if in.tty {
		st, err := term.MakeRaw(in.fd)
		if err == nil {
			defer func() { _ = term.Restore(in.fd, st) }()
			return in.rawGuess(ctx, v)
		}
	}
	return in.lineGuess(ctx, v)
}

func (in *Input) rawGuess(ctx context.Context, v game.View) (game.Code, error) {
	b := game.NewGuessBuilder(v.Pegs)
	draw := func() {
		v.Draft, v.Cursor = b.Code(), b.Cursor()
		in.out.Render(v)
	}
	draw()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		k, r, err := ReadKey(in.r)
		if err != nil {
			return nil, quitOn(err)
		}
		switch k {
		case KeyEnter:
			return b.Code(), nil
		case KeyEsc, KeyCtrlC:
			return nil, game.ErrQuit
		case KeyLeft, KeyBackspace:
			b.MoveCursor(game.Backward)
		case KeyRight:
			b.MoveCursor(game.Forward)
		case KeyUp:
			b.CycleColor(game.Forward)
		case KeyDown:
			b.CycleColor(game.Backward)
		case KeyRune:
			if r == 'q' || r == 'Q' {
				return nil, game.ErrQuit
			}
			c, err := game.ParseColor(string(r))
			if err != nil {
				continue
			}
			b.Set(c)
		default:
			continue
		}
		draw()
	}
}

func (in *Input) lineGuess(ctx context.Context, v game.View) (game.Code, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in.out.Prompt(fmt.Sprintf("Turn %02d/%d: ", len(v.History)+1, v.Turns))
		line, err := in.r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return nil, quitOn(err)
		}
		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
			return nil, game.ErrQuit
		}
		code, perr := game.ParseCode(strings.Map(dropSeparators, line))
		if perr == nil && len(code) == v.Pegs {
			return code, nil
		}
		if err != nil {
			return nil, quitOn(err)
		}
		in.out.Prompt(fmt.Sprintf("  (enter %d pegs from R G Y B M C W, or q to quit)%s", v.Pegs, eol))
	}
}

// dropSeparators removes spaces and commas between color initials.
func dropSeparators(r rune) rune {
	if r == ' ' || r == ',' || r == '\t' {
		return -1
	}
	return r
}

// quitOn treats a closed input as the quit signal.
func quitOn(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: input closed", game.ErrQuit)
	}
	return err
}
