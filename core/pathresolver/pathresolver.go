// Package pathresolver resolves command names against PATH the way a
// POSIX shell does, and enumerates executable names for TAB completion.
// See spec.md §4.2.
package pathresolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Resolver resolves command names to absolute executable paths. The
// underlying filesystem is an afero.Fs so tests can swap in a MemMapFs
// instead of touching the real disk.
type Resolver struct {
	fs   afero.Fs
	dirs []string
}

// New builds a Resolver over fs, searching dirs in order. Empty entries in
// dirs are ignored, matching PATH's "empty element means skip it" rule.
func New(fs afero.Fs, dirs []string) *Resolver {
	return &Resolver{fs: fs, dirs: dirs}
}

// Resolve finds the absolute path of cmd. If cmd contains a '/' it is
// treated as a direct path rather than searched for in PATH.
func (r *Resolver) Resolve(cmd string) (string, bool) {
	if strings.Contains(cmd, "/") {
		if isExecutableFile(r.fs, cmd) {
			return cmd, true
		}
		return "", false
	}

	for _, dir := range r.dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, cmd)
		if isExecutableFile(r.fs, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Completions returns the names of executables under any PATH directory
// whose name starts with prefix, deduplicated by name (first occurrence
// wins) and sorted lexicographically for stable display.
func (r *Resolver) Completions(prefix string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, dir := range r.dirs {
		if dir == "" {
			continue
		}

		entries, err := afero.ReadDir(r.fs, dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if seen[name] {
				continue
			}

			mode := entry.Mode()
			isCandidate := mode.IsRegular() || mode&os.ModeSymlink != 0
			if !isCandidate || mode.Perm()&0111 == 0 {
				continue
			}

			seen[name] = true
			out = append(out, name)
		}
	}

	sort.Strings(out)
	return out
}

func isExecutableFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
