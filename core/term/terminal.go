// Package term decodes raw keystrokes from a terminal and provides the
// handful of cursor/line control escape sequences the line editor needs to
// emit. See spec.md §4.1.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Terminal owns the raw/cooked lifecycle of a single input file descriptor
// and the low-level byte decoding and escape-sequence writing around it.
type Terminal struct {
	in  io.Reader
	out io.Writer

	isTTY bool
	raw   bool
	orig  *term.State

	// fd is the underlying file descriptor for termios operations, or -1
	// when in isn't backed by a real os.File (see NewTTY).
	fd int

	// nonTTYReader buffers stdin when it's not a terminal (piped/batch
	// input), since we can no longer rely on VMIN=1,VTIME=0 one-byte reads.
	nonTTYReader *bufio.Reader
}

// New captures the original terminal attributes of in and installs raw
// mode iff in is a terminal. Non-tty input is left untouched.
func New(in *os.File, out io.Writer) (*Terminal, error) {
	t := &Terminal{in: in, out: out, fd: int(in.Fd())}

	if !term.IsTerminal(t.fd) {
		t.nonTTYReader = bufio.NewReader(in)
		return t, nil
	}

	t.isTTY = true
	if err := t.EnterRaw(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTTY builds a Terminal that behaves as if attached to an interactive
// terminal, decoding keys from in and writing to out, without touching any
// real termios state. It exists so other packages' tests can exercise
// tty-mode editing behavior without a real terminal attached.
func NewTTY(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, isTTY: true, fd: -1}
}

// EnterRaw puts the terminal into raw mode. It is a no-op when already raw,
// when the terminal isn't a tty, or when there's no real file descriptor
// backing it.
func (t *Terminal) EnterRaw() error {
	if !t.isTTY || t.raw || t.fd < 0 {
		return nil
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	if t.orig == nil {
		t.orig = state
	}
	t.raw = true
	return nil
}

// RestoreCooked restores the terminal's original attributes. It is a no-op
// when already cooked, when the terminal isn't a tty, or when there's no
// real file descriptor backing it. Used around external command execution
// so children inherit a sane terminal.
func (t *Terminal) RestoreCooked() error {
	if !t.isTTY || !t.raw || t.fd < 0 {
		return nil
	}

	if err := term.Restore(t.fd, t.orig); err != nil {
		return err
	}
	t.raw = false
	return nil
}

// Close restores the original terminal attributes, if they were changed.
func (t *Terminal) Close() error {
	return t.RestoreCooked()
}

// IsTTY reports whether the terminal is interactive.
func (t *Terminal) IsTTY() bool {
	return t.isTTY
}

// ReadKey reads and decodes the next input event.
func (t *Terminal) ReadKey() (Key, error) {
	if !t.isTTY {
		return t.readKeyNonTTY()
	}

	b, err := t.readByte()
	if err != nil {
		return Key{}, err
	}

	switch b {
	case 0x03:
		return Key{Kind: KindCtrlC}, nil
	case 0x04:
		return Key{Kind: KindCtrlD}, nil
	case 0x09:
		return Key{Kind: KindTab}, nil
	case 0x0A, 0x0D:
		return Key{Kind: KindEnter}, nil
	case 0x08, 0x7F:
		return Key{Kind: KindBackspace}, nil
	case 0x1B:
		return t.readEscape()
	default:
		return Key{Kind: KindChar, Char: b}, nil
	}
}

func (t *Terminal) readEscape() (Key, error) {
	second, err := t.readByte()
	if err != nil {
		return Key{}, err
	}
	if second != '[' {
		return Key{Kind: KindUnknown}, nil
	}

	third, err := t.readByte()
	if err != nil {
		return Key{}, err
	}

	switch third {
	case 'A':
		return Key{Kind: KindArrowUp}, nil
	case 'B':
		return Key{Kind: KindArrowDown}, nil
	case 'C':
		return Key{Kind: KindArrowRight}, nil
	case 'D':
		return Key{Kind: KindArrowLeft}, nil
	case 'H':
		return Key{Kind: KindHome}, nil
	case 'F':
		return Key{Kind: KindEnd}, nil
	case '3':
		// ESC [ 3 ~ : discard the trailing '~'.
		if _, err := t.readByte(); err != nil {
			return Key{}, err
		}
		return Key{Kind: KindDelete}, nil
	default:
		return Key{Kind: KindUnknown}, nil
	}
}

func (t *Terminal) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(t.in, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *Terminal) readKeyNonTTY() (Key, error) {
	b, err := t.nonTTYReader.ReadByte()
	if err == io.EOF {
		return Key{Kind: KindCtrlD}, nil
	}
	if err != nil {
		return Key{}, err
	}

	if b == 0x0A {
		return Key{Kind: KindEnter}, nil
	}
	return Key{Kind: KindChar, Char: b}, nil
}

// Write writes bytes to the terminal's output.
func (t *Terminal) Write(b []byte) (int, error) {
	return t.out.Write(b)
}

// Bell emits the terminal bell.
func (t *Terminal) Bell() {
	t.Write([]byte{0x07})
}

// ClearLine erases from the start of the line to the end of the line,
// after returning the cursor to column 0.
func (t *Terminal) ClearLine() {
	t.Write([]byte("\r\x1B[K"))
}

// MoveCursorLeft moves the cursor left n columns. A no-op when n is 0.
func (t *Terminal) MoveCursorLeft(n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(t.out, "\x1B[%dD", n)
}

// MoveCursorRight moves the cursor right n columns. A no-op when n is 0.
func (t *Terminal) MoveCursorRight(n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(t.out, "\x1B[%dC", n)
}
