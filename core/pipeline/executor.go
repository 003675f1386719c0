package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/adriant/poshell/core/builtins"
	"github.com/adriant/poshell/core/pathresolver"
	"github.com/adriant/poshell/core/shellerr"
	"github.com/adriant/poshell/core/term"
)

// Executor runs a Pipeline: it owns the fork/exec and fd-plumbing
// discipline of spec.md §4.5.2.
type Executor struct {
	Resolver *pathresolver.Resolver
	Builtins *builtins.Registry
	Terminal *term.Terminal

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	mu         sync.Mutex
	pendingExit *builtins.ExitRequest
}

// Execute runs p and returns the exit status of its final stage, plus a
// non-nil ExitRequest if any stage ran `exit`.
func (x *Executor) Execute(p *Pipeline) (int, *builtins.ExitRequest) {
	x.pendingExit = nil
	stages := p.Stages

	if len(stages) == 1 && len(stages[0].Argv) > 0 && x.Builtins.IsBuiltin(stages[0].Argv[0]) {
		return x.runBuiltinInline(stages[0]), x.pendingExit
	}

	hasExternal := false
	for _, s := range stages {
		if len(s.Argv) > 0 && !x.Builtins.IsBuiltin(s.Argv[0]) {
			hasExternal = true
			break
		}
	}

	if hasExternal {
		x.Terminal.RestoreCooked()
	}

	code := x.runForked(stages)

	if hasExternal {
		x.Terminal.EnterRaw()
	}

	return code, x.pendingExit
}

// runBuiltinInline covers the two no-pipe-neighbour cases of spec.md
// §4.5.2's "Builtin stages" rule: with or without explicit redirects, the
// builtin runs directly in this process.
func (x *Executor) runBuiltinInline(stage Command) int {
	stdoutDst, stderrDst, cleanup, err := x.openStageWriters(stage, nil)
	if err != nil {
		return 1
	}
	defer cleanup()

	code, _, runErr := x.Builtins.Run(stage.Argv, stdoutDst, stderrDst)
	x.recordExitRequest(runErr)
	return code
}

// runForked executes every stage with fork discipline: external stages
// via os/exec, builtin stages with pipe neighbours via a goroutine that
// stands in for the forked child (Go offers no safe raw fork of itself).
func (x *Executor) runForked(stages []Command) int {
	n := len(stages)
	var waiters []func() int
	var stdin io.Reader = x.Stdin

	for i, stage := range stages {
		isLast := i == n-1

		var pipeW *os.File
		var nextStdin io.Reader
		if !isLast {
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintf(x.Stderr, "pipe: %s\n", err)
				waiters = append(waiters, constCode(1))
				closeIfFile(stdin)
				stdin = nil
				continue
			}
			pipeW = w
			nextStdin = r
		}

		waiters = append(waiters, x.spawnStage(stage, stdin, pipeW))
		stdin = nextStdin
	}

	code := 0
	for _, w := range waiters {
		code = w()
	}
	return code
}

// spawnStage runs one stage and returns a function that blocks until it
// finishes and yields its exit code. It consumes (closes) stdin exactly
// once along every path.
func (x *Executor) spawnStage(stage Command, stdin io.Reader, pipeW *os.File) func() int {
	stdoutDst, stderrDst, cleanup, err := x.openStageWriters(stage, pipeW)
	if err != nil {
		closeIfFile(stdin)
		return constCode(1)
	}

	if len(stage.Argv) == 0 {
		cleanup()
		closeIfFile(stdin)
		return constCode(0)
	}

	name := stage.Argv[0]

	if x.Builtins.IsBuiltin(name) {
		closeIfFile(stdin) // none of the builtins read stdin
		done := make(chan int, 1)
		go func() {
			defer cleanup()
			code, _, runErr := x.Builtins.Run(stage.Argv, stdoutDst, stderrDst)
			x.recordExitRequest(runErr)
			done <- code
		}()
		return func() int { return <-done }
	}

	return x.spawnExternal(stage.Argv, stdin, stdoutDst, stderrDst, cleanup)
}

// spawnExternal resolves argv[0] against PATH and forks/execs it via
// os/exec, the idiomatic stand-in for fork+dup2+exec in a garbage
// collected runtime.
func (x *Executor) spawnExternal(argv []string, stdin io.Reader, stdout, stderr io.Writer, cleanup func()) func() int {
	path, ok := x.Resolver.Resolve(argv[0])
	if !ok {
		fmt.Fprintf(x.Stderr, "%s: command not found\n", argv[0])
		cleanup()
		closeIfFile(stdin)
		return constCode(127)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(x.Stderr, "%s: fork failed: %s\n", argv[0], err)
		cleanup()
		closeIfFile(stdin)
		return constCode(126)
	}

	// The child has its own dup of every fd we handed it; our copies must
	// close now so EOF propagates and the pipe doesn't leak open.
	cleanup()
	closeIfFile(stdin)

	return func() int {
		return exitCodeFromWaitErr(cmd.Wait())
	}
}

// openStageWriters opens stage's redirect targets (if any) and resolves
// its stdout destination among: redirect file, next stage's pipe, or the
// shell's own stdout.
func (x *Executor) openStageWriters(stage Command, pipeW *os.File) (io.Writer, io.Writer, func(), error) {
	var stdoutDst io.Writer = x.Stdout
	var stdoutFile *os.File

	if stage.StdoutFile != "" {
		f, err := openRedirect(stage.StdoutFile, stage.StdoutAppend)
		if err != nil {
			fmt.Fprintf(x.Stderr, "%s: %s\n", stage.StdoutFile, shellerr.Message(err))
			if pipeW != nil {
				pipeW.Close()
			}
			return nil, nil, nil, err
		}
		stdoutFile = f
		stdoutDst = f
	} else if pipeW != nil {
		stdoutDst = pipeW
	}

	var stderrDst io.Writer = x.Stderr
	var stderrFile *os.File

	if stage.StderrFile != "" {
		f, err := openRedirect(stage.StderrFile, stage.StderrAppend)
		if err != nil {
			fmt.Fprintf(x.Stderr, "%s: %s\n", stage.StderrFile, shellerr.Message(err))
			if stdoutFile != nil {
				stdoutFile.Close()
			}
			if pipeW != nil {
				pipeW.Close()
			}
			return nil, nil, nil, err
		}
		stderrFile = f
		stderrDst = f
	}

	cleanup := func() {
		if stdoutFile != nil {
			stdoutFile.Close()
		}
		if stderrFile != nil {
			stderrFile.Close()
		}
		if pipeW != nil {
			pipeW.Close()
		}
	}
	return stdoutDst, stderrDst, cleanup, nil
}

func openRedirect(path string, append bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0644)
}

func (x *Executor) recordExitRequest(err error) {
	var req *builtins.ExitRequest
	if errors.As(err, &req) {
		x.mu.Lock()
		x.pendingExit = req
		x.mu.Unlock()
	}
}

func exitCodeFromWaitErr(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 126
}

func closeIfFile(r io.Reader) {
	if f, ok := r.(*os.File); ok {
		f.Close()
	}
}

func constCode(code int) func() int {
	return func() int { return code }
}
