package shell

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adriant/poshell/core/config"
	"github.com/adriant/poshell/core/term"
)

// newSession feeds script as the terminal's input over a real os.Pipe, so
// the Terminal is genuinely non-tty (matching piped/batch input), and
// returns the Shell plus the buffer its output lands in.
func newSession(t *testing.T, fs afero.Fs, cfg *config.Config, script string) (*Shell, *bytes.Buffer) {
	t.Helper()

	r, w, err := os.Pipe()
	require.Nil(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = w.Write([]byte(script))
	require.Nil(t, err)
	require.Nil(t, w.Close())

	var out bytes.Buffer
	tt, err := term.New(r, &out)
	require.Nil(t, err)
	require.False(t, tt.IsTTY())

	return New(fs, cfg, tt), &out
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Home: t.TempDir(), Path: []string{"/usr/bin"}}
}

func TestRun_echoBuiltinThenExit(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, out := newSession(t, fs, newConfig(t), "echo hello world\nexit 3\n")

	status := s.Run()
	assert.Equal(t, 3, status)
	assert.Contains(t, out.String(), "hello world\n")
}

func TestRun_emptyInputIsGracefulShutdown(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, newConfig(t), "")

	status := s.Run()
	assert.Zero(t, status)
}

func TestRun_unterminatedQuoteContinuesLoop(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, newConfig(t), "echo 'unterminated\nexit 0\n")

	status := s.Run()
	assert.Zero(t, status)
}

func TestRun_historyListingUsesAbsoluteNumbering(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, out := newSession(t, fs, newConfig(t), "echo a\necho b\nhistory\nexit 0\n")

	s.Run()
	assert.Contains(t, out.String(), "    1  echo a\n    2  echo b\n    3  history\n")
}

func TestRun_lastStatusFeedsExitWithNoArgument(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, _ := newSession(t, fs, newConfig(t), "nosuchcommandatall\nexit\n")

	status := s.Run()
	assert.Equal(t, 127, status)
}

func TestRun_histfilePersistedAcrossSessions(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := newConfig(t)
	cfg.HistFile = "/home/test/.poshell_history"

	s1, _ := newSession(t, fs, cfg, "echo first\nexit 0\n")
	s1.Run()

	data, err := afero.ReadFile(fs, cfg.HistFile)
	require.Nil(t, err)
	assert.Contains(t, string(data), "echo first\n")

	s2, out := newSession(t, fs, cfg, "history\nexit 0\n")
	s2.Run()
	// s1's session history carries both its submitted lines ("echo first"
	// and "exit 0") into the persisted file; s2's own "history" invocation
	// becomes entry 3.
	assert.Contains(t, out.String(), "    1  echo first\n    2  exit 0\n    3  history\n")
}
