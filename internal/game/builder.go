package game

// Direction steps the cursor or a color one place.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// GuessBuilder is the mutable, cursor-addressed guess under construction.
// It belongs to the input side; the game loop only ever sees Code().
type GuessBuilder struct {
	pegs   Code
	cursor int
}

// NewGuessBuilder starts with every peg at the first palette color.
func NewGuessBuilder(pegs int) *GuessBuilder {
	return &GuessBuilder{pegs: make(Code, pegs)}
}

// MoveCursor moves the cursor one peg, wrapping at both ends.
func (b *GuessBuilder) MoveCursor(dir Direction) {
	n := len(b.pegs)
	if n == 0 {
		return
	}
	b.cursor = ((b.cursor+int(dir))%n + n) % n
}

// CycleColor steps the peg under the cursor through the palette.
func (b *GuessBuilder) CycleColor(dir Direction) {
	if len(b.pegs) == 0 {
		return
	}
	if dir < 0 {
		b.pegs[b.cursor] = b.pegs[b.cursor].Prev()
		return
	}
	b.pegs[b.cursor] = b.pegs[b.cursor].Next()
}

// Set sets the peg under the cursor and advances it.
func (b *GuessBuilder) Set(c Color) {
	if len(b.pegs) == 0 || !c.Valid() {
		return
	}
	b.pegs[b.cursor] = c
	b.MoveCursor(Forward)
}

// Cursor is the index of the peg being edited.
func (b *GuessBuilder) Cursor() int { return b.cursor }

// Code returns an immutable copy for submission.
func (b *GuessBuilder) Code() Code { return b.pegs.Clone() }
