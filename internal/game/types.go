// internal/game/types.go
//
// Core type definitions for the Mastermind game engine.
// Defines:
//   - Color: one code peg color from a closed, cyclic palette.
//   - Code: an ordered sequence of colors (guess or answer).
//   - Feedback: key pegs for a scored guess (exact / color-only).
//   - Turn, State, View: history entries and read-only snapshots.

package game

import (
	"fmt"
	"strings"
)

// Color is a code peg color. The zero value is Red.
type Color uint8

const (
	Red Color = iota
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// palette is the cyclic ordering used by Next/Prev.
var palette = [...]Color{Red, Green, Yellow, Blue, Magenta, Cyan, White}

var colorNames = [...]string{"red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// NumColors is the size of the palette.
const NumColors = len(palette)

// Palette returns the colors in cycle order.
func Palette() []Color {
	out := make([]Color, NumColors)
	copy(out, palette[:])
	return out
}

// Valid reports whether c is a member of the palette.
func (c Color) Valid() bool { return int(c) < NumColors }

// Next returns the successor of c, wrapping from White back to Red.
func (c Color) Next() Color { return palette[(int(c)+1)%NumColors] }

// Prev returns the predecessor of c, wrapping from Red back to White.
func (c Color) Prev() Color { return palette[(int(c)+NumColors-1)%NumColors] }

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Initial is the single uppercase letter used for keyboard entry.
func (c Color) Initial() rune {
	if !c.Valid() {
		return '?'
	}
	return rune(strings.ToUpper(colorNames[c])[0])
}

// ParseColor accepts a full color name or its initial, case-insensitive.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidInput, s)
}

// MarshalText encodes a color as its name.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: color %d out of range", ErrInvalidInput, uint8(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText decodes a color name or initial.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Code is an ordered sequence of pegs. Guesses and answers share this type.
type Code []Color

// ParseCode decodes a run of color initials such as "RGBY".
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	out := make(Code, 0, len(s))
	for _, r := range s {
		c, err := ParseColor(string(r))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Clone returns an independent copy.
func (c Code) Clone() Code {
	if c == nil {
		return nil
	}
	out := make(Code, len(c))
	copy(out, c)
	return out
}

func (c Code) String() string {
	var b strings.Builder
	for _, p := range c {
		b.WriteRune(p.Initial())
	}
	return b.String()
}

// Feedback holds the key pegs for a single scored guess.
//   - Exact:     pegs matching both color and position.
//   - ColorOnly: pegs matching color but not position.
type Feedback struct {
	Exact     int `json:"exact"`
	ColorOnly int `json:"colorOnly"`
}

// Turn is one committed history entry.
type Turn struct {
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// State is the coarse lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// View is a read-only snapshot handed to renderers.
// Answer is only populated once the game is terminal.
type View struct {
	ID      string `json:"gameId"`
	Pegs    int    `json:"pegs"`
	Turns   int    `json:"turns"`
	History []Turn `json:"history"`
	State   State  `json:"state"`
	Answer  Code   `json:"answer,omitempty"`

	// Draft and Cursor carry the in-progress guess owned by the input
	// collaborator. They are empty outside of an edit.
	Draft  Code `json:"-"`
	Cursor int  `json:"-"`
}
