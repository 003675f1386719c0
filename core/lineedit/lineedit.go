// Package lineedit maintains an editable command-line buffer, drives
// history navigation and TAB completion, and exposes a handle_key → Action
// contract to the REPL. See spec.md §4.4.
package lineedit

import (
	"bytes"
	"sort"
	"strings"

	"github.com/adriant/poshell/core/pathresolver"
	"github.com/adriant/poshell/core/term"
)

// Action is the outcome of handling one key.
type Action int

const (
	ContinueEditing Action = iota
	Submit
	Eof
)

// LineEditor owns the in-progress line buffer and cursor, and drives the
// Terminal's low-level writes to keep the screen in sync with them.
type LineEditor struct {
	term     *term.Terminal
	resolver *pathresolver.Resolver
	builtins []string

	buffer []byte
	cursor int

	history      *History
	historyIndex *int
	savedLine    []byte

	lastKeyWasTab bool
}

// New builds a LineEditor. builtinNames feeds the completion candidate set
// alongside resolver's PATH executables. history is shared with whatever
// else needs the running session's command history (e.g. the `history`
// builtin) rather than owned exclusively by the editor.
func New(t *term.Terminal, resolver *pathresolver.Resolver, builtinNames []string, history *History) *LineEditor {
	return &LineEditor{
		term:     t,
		resolver: resolver,
		builtins: builtinNames,
		history:  history,
	}
}

// Buffer returns the current line buffer's contents.
func (e *LineEditor) Buffer() string {
	return string(e.buffer)
}

// Cursor returns the current cursor index.
func (e *LineEditor) Cursor() int {
	return e.cursor
}

// History returns the editor's history list.
func (e *LineEditor) History() *History {
	return e.history
}

// Reset clears the buffer and cursor so the editor is ready for the next
// line, e.g. right after Submit.
func (e *LineEditor) Reset() {
	e.buffer = nil
	e.cursor = 0
	e.historyIndex = nil
	e.savedLine = nil
}

// HandleKey applies one decoded key to the editor state.
func (e *LineEditor) HandleKey(k term.Key) (Action, error) {
	if k.Kind != term.KindTab {
		e.lastKeyWasTab = false
	}

	switch k.Kind {
	case term.KindChar:
		e.insertChar(k.Char)
		return ContinueEditing, nil

	case term.KindBackspace:
		e.backspace()
		return ContinueEditing, nil

	case term.KindDelete:
		e.delete()
		return ContinueEditing, nil

	case term.KindArrowLeft:
		e.moveLeft()
		return ContinueEditing, nil

	case term.KindArrowRight:
		e.moveRight()
		return ContinueEditing, nil

	case term.KindHome:
		e.moveHome()
		return ContinueEditing, nil

	case term.KindEnd:
		e.moveEnd()
		return ContinueEditing, nil

	case term.KindArrowUp:
		e.historyUp()
		return ContinueEditing, nil

	case term.KindArrowDown:
		e.historyDown()
		return ContinueEditing, nil

	case term.KindEnter:
		if e.term.IsTTY() {
			e.term.Write([]byte("\n"))
		}
		return Submit, nil

	case term.KindCtrlD:
		if len(e.buffer) == 0 {
			return Eof, nil
		}
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return ContinueEditing, nil

	case term.KindCtrlC:
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return ContinueEditing, nil

	case term.KindTab:
		e.handleTab()
		return ContinueEditing, nil

	default:
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return ContinueEditing, nil
	}
}

func (e *LineEditor) insertChar(b byte) {
	if e.cursor == len(e.buffer) {
		e.buffer = append(e.buffer, b)
		e.cursor++
		if e.term.IsTTY() {
			e.term.Write([]byte{b})
		}
		return
	}

	e.buffer = append(e.buffer, 0)
	copy(e.buffer[e.cursor+1:], e.buffer[e.cursor:])
	e.buffer[e.cursor] = b
	e.cursor++

	if e.term.IsTTY() {
		e.term.Write(e.buffer[e.cursor-1:])
		e.term.MoveCursorLeft(len(e.buffer) - e.cursor)
	}
}

func (e *LineEditor) backspace() {
	if e.cursor == 0 {
		return
	}
	copy(e.buffer[e.cursor-1:], e.buffer[e.cursor:])
	e.buffer = e.buffer[:len(e.buffer)-1]
	e.cursor--

	if e.term.IsTTY() {
		e.term.Write([]byte("\b"))
		e.term.Write(e.buffer[e.cursor:])
		e.term.Write([]byte(" \b"))
		e.term.MoveCursorLeft(len(e.buffer) - e.cursor)
	}
}

func (e *LineEditor) delete() {
	if e.cursor >= len(e.buffer) {
		return
	}
	copy(e.buffer[e.cursor:], e.buffer[e.cursor+1:])
	e.buffer = e.buffer[:len(e.buffer)-1]

	if e.term.IsTTY() {
		e.term.Write(e.buffer[e.cursor:])
		e.term.Write([]byte(" \b"))
		e.term.MoveCursorLeft(len(e.buffer) - e.cursor)
	}
}

func (e *LineEditor) moveLeft() {
	if e.cursor == 0 {
		return
	}
	e.cursor--
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(1)
	}
}

func (e *LineEditor) moveRight() {
	if e.cursor == len(e.buffer) {
		return
	}
	e.cursor++
	if e.term.IsTTY() {
		e.term.MoveCursorRight(1)
	}
}

func (e *LineEditor) moveHome() {
	if e.cursor == 0 {
		return
	}
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(e.cursor)
	}
	e.cursor = 0
}

func (e *LineEditor) moveEnd() {
	if e.cursor == len(e.buffer) {
		return
	}
	if e.term.IsTTY() {
		e.term.MoveCursorRight(len(e.buffer) - e.cursor)
	}
	e.cursor = len(e.buffer)
}

// historyUp implements ArrowUp per spec.md §4.4.2.
func (e *LineEditor) historyUp() {
	h := e.history
	if h.Len() == 0 {
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return
	}

	if e.historyIndex == nil {
		e.savedLine = append([]byte(nil), e.buffer...)
		idx := 0
		e.historyIndex = &idx
		e.replaceBuffer(h.At(h.Len() - 1 - idx))
		return
	}

	if *e.historyIndex+1 < h.Len() {
		*e.historyIndex++
		e.replaceBuffer(h.At(h.Len() - 1 - *e.historyIndex))
		return
	}

	if e.term.IsTTY() {
		e.term.Bell()
	}
}

// historyDown implements ArrowDown per spec.md §4.4.2.
func (e *LineEditor) historyDown() {
	if e.historyIndex == nil {
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return
	}

	if *e.historyIndex > 0 {
		*e.historyIndex--
		e.replaceBuffer(e.history.At(e.history.Len() - 1 - *e.historyIndex))
		return
	}

	e.historyIndex = nil
	e.replaceBuffer(string(e.savedLine))
}

// replaceBuffer implements the history replacement procedure: move cursor
// left by the old cursor position, clear to end of line, overwrite the
// buffer, and redraw it with the cursor at its end.
func (e *LineEditor) replaceBuffer(s string) {
	if e.term.IsTTY() {
		e.term.MoveCursorLeft(e.cursor)
		e.term.Write([]byte("\x1B[K"))
	}

	e.buffer = []byte(s)
	e.cursor = len(e.buffer)

	if e.term.IsTTY() {
		e.term.Write(e.buffer)
	}
}

// handleTab implements two-stage TAB completion per spec.md §4.4.1.
func (e *LineEditor) handleTab() {
	wasTab := e.lastKeyWasTab
	e.lastKeyWasTab = false

	if bytes.ContainsAny(e.buffer[:e.cursor], " \t") {
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return
	}

	prefix := string(e.buffer[:e.cursor])
	if prefix == "" {
		if e.term.IsTTY() {
			e.term.Bell()
		}
		return
	}

	candidates := e.candidates(prefix)

	switch len(candidates) {
	case 0:
		if e.term.IsTTY() {
			e.term.Bell()
		}

	case 1:
		e.insertTextAtCursor(candidates[0][len(prefix):] + " ")

	default:
		lcp := longestCommonPrefix(candidates)
		if len(lcp) > len(prefix) {
			e.insertTextAtCursor(lcp[len(prefix):])
		}

		if wasTab {
			e.showCandidates(candidates)
		} else if e.term.IsTTY() {
			e.term.Bell()
			e.lastKeyWasTab = true
		} else {
			e.lastKeyWasTab = true
		}
	}
}

// insertTextAtCursor splices text into the buffer at the cursor and, in tty
// mode, redraws the shifted tail.
func (e *LineEditor) insertTextAtCursor(text string) {
	if text == "" {
		return
	}

	tail := append([]byte(nil), e.buffer[e.cursor:]...)
	e.buffer = append(e.buffer[:e.cursor:e.cursor], append([]byte(text), tail...)...)
	e.cursor += len(text)

	if e.term.IsTTY() {
		e.term.Write([]byte(text))
		e.term.Write(tail)
		e.term.MoveCursorLeft(len(tail))
	}
}

// candidates returns the deduplicated, sorted completion candidate set for
// prefix: builtin names union PathResolver executables.
func (e *LineEditor) candidates(prefix string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, name := range e.builtins {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	if e.resolver != nil {
		for _, name := range e.resolver.Completions(prefix) {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}

	sort.Strings(out)
	return out
}

func (e *LineEditor) showCandidates(candidates []string) {
	if !e.term.IsTTY() {
		return
	}
	e.term.Write([]byte("\n"))
	e.term.Write([]byte(strings.Join(candidates, "  ")))
	e.term.Write([]byte("\n$ "))
	e.term.Write(e.buffer)
}

func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	lcp := strs[0]
	for _, s := range strs[1:] {
		lcp = commonPrefix(lcp, s)
		if lcp == "" {
			break
		}
	}
	return lcp
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
