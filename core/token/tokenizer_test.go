package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_wordsAndOperators(t *testing.T) {
	toks, err := Tokenize("ls -la | grep foo > out.txt")
	require.Nil(t, err)

	want := []Token{
		{Kind: Word, Value: "ls"},
		{Kind: Word, Value: "-la"},
		{Kind: Pipe},
		{Kind: Word, Value: "grep"},
		{Kind: Word, Value: "foo"},
		{Kind: RedirectOut},
		{Kind: Word, Value: "out.txt"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_operatorAdjacencyNoWhitespace(t *testing.T) {
	cases := []struct {
		line string
		want []Token
	}{
		{"echo hi>out", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectOut}, {Kind: Word, Value: "out"},
		}},
		{"echo hi>>out", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectAppend}, {Kind: Word, Value: "out"},
		}},
		{"echo hi1>out", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectOut}, {Kind: Word, Value: "out"},
		}},
		{"echo hi1>>out", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectAppend}, {Kind: Word, Value: "out"},
		}},
		{"echo hi2>err", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectErr}, {Kind: Word, Value: "err"},
		}},
		{"echo hi2>>err", []Token{
			{Kind: Word, Value: "echo"}, {Kind: Word, Value: "hi"},
			{Kind: RedirectErrAppend}, {Kind: Word, Value: "err"},
		}},
		{"a|b", []Token{
			{Kind: Word, Value: "a"}, {Kind: Pipe}, {Kind: Word, Value: "b"},
		}},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.line)
		require.Nil(t, err, c.line)
		assert.Equal(t, c.want, toks, c.line)
	}
}

func TestTokenize_digitPrefixIsOrdinaryWithoutRedirect(t *testing.T) {
	toks, err := Tokenize("echo 1 2")
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: "1"},
		{Kind: Word, Value: "2"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_singleQuoteExactness(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"  spaces  ",
		`has "double" quotes`,
		`has \backslash`,
		"trailing$dollar",
	}
	for _, s := range cases {
		toks, err := Tokenize("'" + s + "'")
		require.Nil(t, err, s)
		if s == "" {
			assert.Empty(t, toks, s)
			continue
		}
		assert.Equal(t, []Token{{Kind: Word, Value: s}}, toks, s)
	}
}

func TestTokenize_singleQuoteUnterminated(t *testing.T) {
	_, err := Tokenize("echo 'unterminated")
	assert.Equal(t, ErrUnterminatedSingleQuote, err)
}

func TestTokenize_doubleQuoteEscapeSet(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{`"\$HOME"`, "$HOME"},
		{"\"\\`cmd\\`\"", "`cmd`"},
		{`"say \"hi\""`, `say "hi"`},
		{`"a\\b"`, `a\b`},
		{"\"line\\\ncontinued\"", "linecontinued"},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.line)
		require.Nil(t, err, c.line)
		assert.Equal(t, []Token{{Kind: Word, Value: c.want}}, toks, c.line)
	}
}

func TestTokenize_doubleQuoteNonEscapableKeepsBackslash(t *testing.T) {
	toks, err := Tokenize(`"a\nb"`)
	require.Nil(t, err)
	assert.Equal(t, []Token{{Kind: Word, Value: `a\nb`}}, toks)
}

func TestTokenize_doubleQuoteUnterminated(t *testing.T) {
	_, err := Tokenize(`echo "unterminated`)
	assert.Equal(t, ErrUnterminatedDoubleQuote, err)
}

func TestTokenize_unquotedBackslashEscapesNextByte(t *testing.T) {
	toks, err := Tokenize(`echo a\ b`)
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: "a b"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_unquotedTrailingBackslashIsNoOp(t *testing.T) {
	toks, err := Tokenize(`echo foo\`)
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: "foo"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_unquotedLineContinuation(t *testing.T) {
	toks, err := Tokenize("echo foo\\\nbar")
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: "foobar"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_concatenationAcrossQuoteStyles(t *testing.T) {
	toks, err := Tokenize(`echo foo'bar'"baz"`)
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: "foobarbaz"},
	}
	assert.Equal(t, want, toks)
}

func TestTokenize_empty(t *testing.T) {
	toks, err := Tokenize("")
	require.Nil(t, err)
	assert.Empty(t, toks)
}

func TestTokenize_whitespaceOnly(t *testing.T) {
	toks, err := Tokenize("   \t  ")
	require.Nil(t, err)
	assert.Empty(t, toks)
}

func TestTokenize_highBytesPassThrough(t *testing.T) {
	toks, err := Tokenize("echo " + string([]byte{0xC3, 0xA9}))
	require.Nil(t, err)
	want := []Token{
		{Kind: Word, Value: "echo"},
		{Kind: Word, Value: string([]byte{0xC3, 0xA9})},
	}
	assert.Equal(t, want, toks)
}
