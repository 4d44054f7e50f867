package terminal

import "bufio"

// Key is a decoded keystroke.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyEsc
	KeyCtrlC
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// ReadKey reads one keystroke from a raw-mode terminal.
// The rune is only meaningful for KeyRune.
func ReadKey(r *bufio.Reader) (Key, rune, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return KeyUnknown, 0, err
	}
	switch c {
	case '\r', '\n':
		return KeyEnter, c, nil
	case 127, '\b':
		return KeyBackspace, c, nil
	case 3:
		return KeyCtrlC, c, nil
	case 27:
		return readEscape(r)
	}
	return KeyRune, c, nil
}

// readEscape decodes CSI/SS3 arrow sequences. A lone ESC with nothing
// buffered behind it is the Esc key itself.
func readEscape(r *bufio.Reader) (Key, rune, error) {
	if r.Buffered() == 0 {
		return KeyEsc, 27, nil
	}
	intro, _, err := r.ReadRune()
	if err != nil {
		return KeyUnknown, 0, err
	}
	if intro != '[' && intro != 'O' {
		return KeyEsc, 27, r.UnreadRune()
	}
	final, _, err := r.ReadRune()
	if err != nil {
		return KeyUnknown, 0, err
	}
	switch final {
	case 'A':
		return KeyUp, 0, nil
	case 'B':
		return KeyDown, 0, nil
	case 'C':
		return KeyRight, 0, nil
	case 'D':
		return KeyLeft, 0, nil
	}
	return KeyUnknown, final, nil
}
