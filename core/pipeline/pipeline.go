// Package pipeline parses a token stream into a Pipeline of Commands and
// executes it: pipes between stages, per-stage redirection, fork/exec for
// external programs, in-process dispatch for builtins. See spec.md §4.5.
package pipeline

import (
	"errors"

	"github.com/adriant/poshell/core/token"
)

// ErrMissingRedirectTarget is returned when a redirect operator is the
// last token, or isn't immediately followed by a Word.
var ErrMissingRedirectTarget = errors.New("missing redirect target")

// Command is a single pipeline stage.
type Command struct {
	Argv []string

	StdoutFile   string
	StdoutAppend bool

	StderrFile   string
	StderrAppend bool
}

// Pipeline is an ordered sequence of one or more Commands, consecutive
// ones joined by the shell's implicit stdout-to-stdin connection.
type Pipeline struct {
	Stages []Command
}

// Parse scans tokens left to right, accumulating Words into the current
// Command's Argv, attaching redirect targets, and splitting stages on
// Pipe. An empty Argv for any stage is valid: it becomes a no-op stage.
func Parse(tokens []token.Token) (*Pipeline, error) {
	var stages []Command
	cur := Command{}

	i := 0
	n := len(tokens)
	for i < n {
		tok := tokens[i]

		switch tok.Kind {
		case token.Word:
			cur.Argv = append(cur.Argv, tok.Value)
			i++

		case token.Pipe:
			stages = append(stages, cur)
			cur = Command{}
			i++

		case token.RedirectOut, token.RedirectAppend, token.RedirectErr, token.RedirectErrAppend:
			if i+1 >= n || tokens[i+1].Kind != token.Word {
				return nil, ErrMissingRedirectTarget
			}
			target := tokens[i+1].Value
			switch tok.Kind {
			case token.RedirectOut:
				cur.StdoutFile, cur.StdoutAppend = target, false
			case token.RedirectAppend:
				cur.StdoutFile, cur.StdoutAppend = target, true
			case token.RedirectErr:
				cur.StderrFile, cur.StderrAppend = target, false
			case token.RedirectErrAppend:
				cur.StderrFile, cur.StderrAppend = target, true
			}
			i += 2
		}
	}

	stages = append(stages, cur)
	return &Pipeline{Stages: stages}, nil
}
