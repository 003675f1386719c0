package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adriant/poshell/core/token"
)

func word(v string) token.Token     { return token.Token{Kind: token.Word, Value: v} }
func op(k token.Kind) token.Token   { return token.Token{Kind: k} }

func TestParse_singleCommand(t *testing.T) {
	p, err := Parse([]token.Token{word("echo"), word("hi")})
	require.Nil(t, err)
	require.Len(t, p.Stages, 1)
	assert.Equal(t, []string{"echo", "hi"}, p.Stages[0].Argv)
}

func TestParse_pipeSplitsStages(t *testing.T) {
	p, err := Parse([]token.Token{word("ls"), op(token.Pipe), word("grep"), word("foo")})
	require.Nil(t, err)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, []string{"ls"}, p.Stages[0].Argv)
	assert.Equal(t, []string{"grep", "foo"}, p.Stages[1].Argv)
}

func TestParse_redirectOperators(t *testing.T) {
	cases := []struct {
		kind  token.Kind
		check func(t *testing.T, c Command)
	}{
		{token.RedirectOut, func(t *testing.T, c Command) {
			assert.Equal(t, "out", c.StdoutFile)
			assert.False(t, c.StdoutAppend)
		}},
		{token.RedirectAppend, func(t *testing.T, c Command) {
			assert.Equal(t, "out", c.StdoutFile)
			assert.True(t, c.StdoutAppend)
		}},
		{token.RedirectErr, func(t *testing.T, c Command) {
			assert.Equal(t, "out", c.StderrFile)
			assert.False(t, c.StderrAppend)
		}},
		{token.RedirectErrAppend, func(t *testing.T, c Command) {
			assert.Equal(t, "out", c.StderrFile)
			assert.True(t, c.StderrAppend)
		}},
	}

	for _, c := range cases {
		p, err := Parse([]token.Token{word("cmd"), op(c.kind), word("out")})
		require.Nil(t, err)
		require.Len(t, p.Stages, 1)
		c.check(t, p.Stages[0])
	}
}

func TestParse_missingRedirectTarget(t *testing.T) {
	_, err := Parse([]token.Token{word("cmd"), op(token.RedirectOut)})
	assert.Equal(t, ErrMissingRedirectTarget, err)
}

func TestParse_missingRedirectTargetBeforePipe(t *testing.T) {
	_, err := Parse([]token.Token{word("cmd"), op(token.RedirectOut), op(token.Pipe), word("next")})
	assert.Equal(t, ErrMissingRedirectTarget, err)
}

func TestParse_emptyStageIsNoOp(t *testing.T) {
	p, err := Parse([]token.Token{word("a"), op(token.Pipe), op(token.Pipe), word("b")})
	require.Nil(t, err)
	require.Len(t, p.Stages, 3)
	assert.Empty(t, p.Stages[1].Argv)
}

func TestParse_emptyTokenStream(t *testing.T) {
	p, err := Parse(nil)
	require.Nil(t, err)
	require.Len(t, p.Stages, 1)
	assert.Empty(t, p.Stages[0].Argv)
}
