package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/mashgo/internal/cli"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, &bytes.Buffer{}, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_PipedScript(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A non-terminal stdin is a script: quiet, no banner, no prompt.
	script := "# comment\nseq n 1 2\nforeach i in n\nprint line {{ i }}\nendforeach\nexit\nprint never\n"
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(script), out, errOut, []string{"--log-format", "json"})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "line 1\nline 2\n", out.String())
	require.Empty(t, errOut.String())
}

func TestRun_ScriptFileWithFatalConnect(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "fail.mash")
	require.NoError(t, os.WriteFile(path, []byte("connect http://127.0.0.1:1/\nprint never\n"), 0o600))
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, errOut, []string{path})

	// --- Assert ---
	require.ErrorIs(t, err, shellerr.ErrConnectFailed)
	require.Empty(t, out.String())
	require.Contains(t, errOut.String(), "Error:")
}
