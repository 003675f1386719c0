package lineedit

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// History is the append-only list of submitted lines the LineEditor
// navigates with the arrow keys and that survives across sessions via
// HISTFILE. See spec.md §3, §4.4.3.
type History struct {
	entries []string

	// appended tracks how many of entries have already been written out by
	// AppendToFile, so a later "history -a" only writes what's new.
	appended int
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{}
}

// Len reports the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the entries oldest-first. Callers must not mutate it.
func (h *History) Entries() []string {
	return h.entries
}

// At returns the i-th oldest entry.
func (h *History) At(i int) string {
	return h.entries[i]
}

// Add appends line to the history, trimming trailing whitespace, skipping
// empty lines, and skipping exact duplicates of the immediately previous
// entry.
func (h *History) Add(line string) {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == trimmed {
		return
	}
	h.entries = append(h.entries, trimmed)
}

// LoadFromFile reads path and appends each non-empty line as an entry. A
// missing file is not an error.
func (h *History) LoadFromFile(fs afero.Fs, path string) error {
	return h.mergeFromFile(fs, path)
}

// ReadFromFileIntoHistory implements `history -r`: merges path's contents
// into the running session, identically to LoadFromFile.
func (h *History) ReadFromFileIntoHistory(fs afero.Fs, path string) error {
	return h.mergeFromFile(fs, path)
}

func (h *History) mergeFromFile(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		h.entries = append(h.entries, line)
	}
	return nil
}

// WriteToFile creates or truncates path and writes every entry followed by
// a newline.
func (h *History) WriteToFile(fs afero.Fs, path string) error {
	var buf bytes.Buffer
	for _, e := range h.entries {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	return afero.WriteFile(fs, path, buf.Bytes(), 0644)
}

// AppendToFile implements `history -a`: writes the entries accumulated
// since the previous AppendToFile call and advances the append cursor.
func (h *History) AppendToFile(fs afero.Fs, path string) error {
	pending := h.entries[h.appended:]
	if len(pending) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, e := range pending {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	h.appended = len(h.entries)
	return nil
}
