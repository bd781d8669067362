package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/mashgo/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "no arguments",
			args: nil,
			want: app.Config{LogFormat: "auto", LogLevel: "warn"},
		},
		{
			name: "script with options",
			args: []string{"-c", "/tmp/mash.yaml", "--log-level", "DEBUG", "--log-format=json", "-q", "--timeout", "30s", "setup.mash"},
			want: app.Config{
				ScriptPath: "setup.mash",
				ConfigPath: "/tmp/mash.yaml",
				LogFormat:  "json",
				LogLevel:   "debug",
				Quiet:      true,
				Timeout:    30 * time.Second,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.NoError(t, err)
			assert.False(t, shouldExit)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"--help"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--log-format")
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, wantMsg: "unknown flag: --bogus"},
		{name: "bad level", args: []string{"--log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "bad format", args: []string{"--log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "bad timeout", args: []string{"--timeout", "soon"}, wantMsg: "invalid argument"},
		{name: "two scripts", args: []string{"a.mash", "b.mash"}, wantMsg: "at most one script"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
