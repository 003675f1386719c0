// Package builtins implements the in-process commands the Executor may
// dispatch to instead of forking an external program. See spec.md §4.6.
package builtins

import (
	"io"
	"sort"

	"github.com/spf13/afero"

	"github.com/adriant/poshell/core/config"
	"github.com/adriant/poshell/core/lineedit"
	"github.com/adriant/poshell/core/pathresolver"
)

// ExitRequest is returned by Run when argv[0] is "exit"; it is the
// distinguished error kind the REPL checks for to know when to stop.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return "exit requested"
}

type builtinFunc func(r *Registry, argv []string, stdout, stderr io.Writer) (int, error)

// Registry dispatches recognized builtin names. It is the concrete
// implementation of the run(argv, stdout_writer, stderr_writer) →
// Option<exit_code> contract: Run's bool return communicates "None" by
// being false, independent of any error.
type Registry struct {
	fs       afero.Fs
	cfg      *config.Config
	history  *lineedit.History
	resolver *pathresolver.Resolver

	lastStatus int

	funcs map[string]builtinFunc
}

// New builds a Registry backed by fs (for history file I/O; cd and pwd use
// the process's real working directory), cfg (for $HOME), history (the running
// session's command history) and resolver (so `type` can report external
// commands).
func New(fs afero.Fs, cfg *config.Config, history *lineedit.History, resolver *pathresolver.Resolver) *Registry {
	r := &Registry{
		fs:       fs,
		cfg:      cfg,
		history:  history,
		resolver: resolver,
	}
	r.funcs = map[string]builtinFunc{
		"cd":      cdBuiltin,
		"echo":    echoBuiltin,
		"exit":    exitBuiltin,
		"history": historyBuiltin,
		"pwd":     pwdBuiltin,
		"type":    typeBuiltin,
	}
	return r
}

// Names returns the recognized builtin names, for TAB completion.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is a recognized builtin.
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// SetLastStatus records the exit status of the most recently completed
// pipeline, consulted by `exit` with no argument.
func (r *Registry) SetLastStatus(code int) {
	r.lastStatus = code
}

// Run dispatches argv[0] to its builtin implementation. The second return
// value is false iff argv[0] is not a recognized builtin name, matching
// the None case of the contract.
func (r *Registry) Run(argv []string, stdout, stderr io.Writer) (int, bool, error) {
	if len(argv) == 0 {
		return 0, false, nil
	}

	fn, ok := r.funcs[argv[0]]
	if !ok {
		return 0, false, nil
	}

	code, err := fn(r, argv, stdout, stderr)
	return code, true, err
}
