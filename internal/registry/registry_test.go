package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModule struct{}

func (echoModule) Register(r *Registry) {
	r.Register("echo", func(host Host) Handler {
		return HandlerFunc(func(ctx context.Context, line string) error {
			return errors.New(line)
		})
	})
}

func TestRegistry(t *testing.T) {
	r := New()
	echoModule{}.Register(r)
	r.Register("bmc", func(Host) Handler { return nil })

	assert.Equal(t, []string{"bmc", "echo"}, r.Names())

	factory, ok := r.Lookup("echo")
	require.True(t, ok)
	err := factory(nil).Dispatch(context.Background(), "hello")
	assert.EqualError(t, err, "hello")

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	echoModule{}.Register(r)

	assert.Panics(t, func() { echoModule{}.Register(r) })
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry

	_, ok := r.Lookup("bmc")
	assert.False(t, ok)
	assert.Empty(t, r.Names())
}

func TestCommandSet(t *testing.T) {
	var out strings.Builder
	printf := func(format string, args ...any) { fmt.Fprintf(&out, format, args...) }

	var gotArgs string
	set := NewCommandSet("bmc", printf).
		Add(Command{
			Name:    "power",
			Usage:   "power ACTION NODES",
			Summary: "Change the power state of nodes.",
			Run: func(ctx context.Context, args string) error {
				gotArgs = args
				return nil
			},
		})

	testCases := []struct {
		name       string
		line       string
		wantErr    error
		wantArgs   string
		wantOutput string
	}{
		{name: "runs sub-command", line: "power  on n[1-2] ", wantArgs: "on n[1-2]"},
		{name: "empty line lists", line: "", wantOutput: "bmc sub-commands:"},
		{name: "help lists", line: "help", wantOutput: "power ACTION NODES"},
		{name: "help topic", line: "help power", wantOutput: "Change the power state"},
		{name: "unknown", line: "pwer on n1", wantErr: shellerr.ErrUnknownCommand},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out.Reset()
			gotArgs = ""

			err := set.Dispatch(context.Background(), tc.line)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Contains(t, err.Error(), "did you mean 'power'")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantArgs, gotArgs)
			assert.Contains(t, out.String(), tc.wantOutput)
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"connect", "create", "retrieve", "update", "delete", "models"}

	testCases := []struct {
		word string
		want string
	}{
		{word: "retreive", want: "retrieve"},
		{word: "conect", want: "connect"},
		{word: "mod", want: "models"},
		{word: "xyzzyplugh", want: ""},
		{word: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.want, Suggest(tc.word, candidates))
		})
	}
}

func TestSplitKeyword(t *testing.T) {
	kw, rest := SplitKeyword("  let  x = 1 ")
	assert.Equal(t, "let", kw)
	assert.Equal(t, "x = 1", rest)

	kw, rest = SplitKeyword("exit")
	assert.Equal(t, "exit", kw)
	assert.Empty(t, rest)
}
