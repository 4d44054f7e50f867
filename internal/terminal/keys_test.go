package terminal

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  Key
		r    rune
	}{
		{"enter", "\r", KeyEnter, '\r'},
		{"newline", "\n", KeyEnter, '\n'},
		{"backspace", "\x7f", KeyBackspace, 127},
		{"ctrl-c", "\x03", KeyCtrlC, 3},
		{"lone esc", "\x1b", KeyEsc, 27},
		{"csi up", "\x1b[A", KeyUp, 0},
		{"csi down", "\x1b[B", KeyDown, 0},
		{"csi right", "\x1b[C", KeyRight, 0},
		{"csi left", "\x1b[D", KeyLeft, 0},
		{"ss3 up", "\x1bOA", KeyUp, 0},
		{"unknown csi", "\x1b[Z", KeyUnknown, 'Z'},
		{"rune", "g", KeyRune, 'g'},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k, r, err := ReadKey(bufio.NewReader(strings.NewReader(tc.in)))
			if err != nil {
				t.Fatal(err)
			}
			if k != tc.key || r != tc.r {
				t.Fatalf("ReadKey(%q) = (%v, %q), want (%v, %q)", tc.in, k, r, tc.key, tc.r)
			}
		})
	}
}

func TestReadKeySequence(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("r\x1b[Cb\r"))
	want := []Key{KeyRune, KeyRight, KeyRune, KeyEnter}
	for i, w := range want {
		k, _, err := ReadKey(br)
		if err != nil {
			t.Fatalf("key %d: %v", i, err)
		}
		if k != w {
			t.Fatalf("key %d = %v, want %v", i, k, w)
		}
	}
	if _, _, err := ReadKey(br); err == nil {
		t.Fatal("expected EOF after last key")
	}
}
