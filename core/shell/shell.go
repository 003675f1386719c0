// Package shell is the Glue layer: it wires Terminal, LineEditor,
// Tokenizer, Pipeline/Executor and Builtins together into the interactive
// read-eval-print loop described in spec.md §2 and §6.
package shell

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/adriant/poshell/core/builtins"
	"github.com/adriant/poshell/core/config"
	"github.com/adriant/poshell/core/lineedit"
	"github.com/adriant/poshell/core/pathresolver"
	"github.com/adriant/poshell/core/pipeline"
	"github.com/adriant/poshell/core/term"
	"github.com/adriant/poshell/core/token"
)

const prompt = "$ "

// Shell owns the REPL's lifetime: HISTFILE load on startup, one read/parse/
// execute cycle per submitted line, HISTFILE save on shutdown.
type Shell struct {
	fs     afero.Fs
	cfg    *config.Config
	term   *term.Terminal
	editor *lineedit.LineEditor
	reg    *builtins.Registry
	exec   *pipeline.Executor

	promptColor *color.Color
	log         *log.Logger
}

// New wires a Shell reading keystrokes from t and executing commands
// against fs. cfg supplies PATH/HOME/HISTFILE.
func New(fs afero.Fs, cfg *config.Config, t *term.Terminal) *Shell {
	resolver := pathresolver.New(fs, cfg.Path)
	history := lineedit.NewHistory()
	reg := builtins.New(fs, cfg, history, resolver)
	editor := lineedit.New(t, resolver, reg.Names(), history)

	x := &pipeline.Executor{
		Resolver: resolver,
		Builtins: reg,
		Terminal: t,
		Stdin:    os.Stdin,
		Stdout:   t,
		Stderr:   os.Stderr,
	}

	return &Shell{
		fs:          fs,
		cfg:         cfg,
		term:        t,
		editor:      editor,
		reg:         reg,
		exec:        x,
		promptColor: color.New(color.FgGreen, color.Bold),
		log:         log.New(os.Stderr, "", 0),
	}
}

// Run drives the loop until CtrlD on an empty line or an `exit` builtin, and
// returns the process exit status.
func (s *Shell) Run() int {
	if s.cfg.HistFile != "" {
		if err := s.editor.History().LoadFromFile(s.fs, s.cfg.HistFile); err != nil {
			s.log.Printf("couldn't load history from %s: %s", s.cfg.HistFile, err)
		}
	}

	status := 0
	for {
		s.writePrompt()

		line, action := s.readLine()
		if action == lineedit.Eof {
			s.term.Write([]byte("\n"))
			break
		}

		s.editor.Reset()
		if line == "" {
			continue
		}
		s.editor.History().Add(line)

		code, exitReq := s.runLine(line)
		status = code
		s.reg.SetLastStatus(status)

		if exitReq != nil {
			status = exitReq.Code
			break
		}
	}

	if s.cfg.HistFile != "" {
		if err := s.editor.History().WriteToFile(s.fs, s.cfg.HistFile); err != nil {
			s.log.Printf("couldn't write history to %s: %s", s.cfg.HistFile, err)
		}
	}

	return status
}

// readLine drives the editor one key at a time until Submit or Eof.
func (s *Shell) readLine() (string, lineedit.Action) {
	for {
		key, err := s.term.ReadKey()
		if err != nil {
			return "", lineedit.Eof
		}

		// A non-tty CtrlD (piped/batch input hitting EOF) never arrives
		// twice with progress in between, so HandleKey's "bell and keep
		// editing" behavior for a non-empty buffer would spin forever here.
		// Submit whatever was buffered instead.
		if !s.term.IsTTY() && key.Kind == term.KindCtrlD && s.editor.Buffer() != "" {
			return s.editor.Buffer(), lineedit.Submit
		}

		action, err := s.editor.HandleKey(key)
		if err != nil {
			s.log.Printf("key handling error: %s", err)
			continue
		}

		switch action {
		case lineedit.Submit:
			return s.editor.Buffer(), lineedit.Submit
		case lineedit.Eof:
			return "", lineedit.Eof
		}
	}
}

// runLine tokenizes, parses and executes one submitted line, translating
// Tokenize/Parse failures to the one-line stderr messages of spec.md §7.
func (s *Shell) runLine(line string) (int, *builtins.ExitRequest) {
	toks, err := token.Tokenize(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poshell: %s\n", err)
		return 1, nil
	}

	p, err := pipeline.Parse(toks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poshell: %s\n", err)
		return 1, nil
	}

	return s.exec.Execute(p)
}

func (s *Shell) writePrompt() {
	if s.term.IsTTY() {
		s.promptColor.Fprint(s.term, prompt)
		return
	}
	s.term.Write([]byte(prompt))
}
