package env

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/specialistvlad/mashgo/internal/varstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type testHost struct {
	vars *varstore.Store
	out  strings.Builder
}

func (h *testHost) Client() *controlclient.Client { return nil }
func (h *testHost) Vars() *varstore.Store         { return h.vars }
func (h *testHost) Printf(format string, args ...any) {
	fmt.Fprintf(&h.out, format, args...)
}
func (h *testHost) Errorf(string, ...any) {}

func setup(t *testing.T, environ ...string) (*testHost, registry.Handler) {
	t.Helper()
	reg := registry.New()
	(&Module{Environ: func() []string { return environ }}).Register(reg)
	factory, ok := reg.Lookup("env")
	require.True(t, ok)

	host := &testHost{vars: varstore.New()}
	return host, factory(host)
}

func TestLoad(t *testing.T) {
	host, handler := setup(t, "MPROV_URL=http://x/", "MPROV_KEY=abc", "HOME=/root", "MPROV-BAD=1", "broken")

	require.NoError(t, handler.Dispatch(context.Background(), "load MPROV"))

	assert.Equal(t, []string{AllVariable, "MPROV_KEY", "MPROV_URL"}, host.vars.Names())
	v, err := host.vars.Lookup(`ENV["MPROV-BAD"]`)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("1"), v)
	assert.Equal(t, "Loaded 2 environment variables.\n", host.out.String())
}

func TestLoad_NothingMatches(t *testing.T) {
	host, handler := setup(t, "HOME=/root")

	require.NoError(t, handler.Dispatch(context.Background(), "load NOPE_"))

	all, err := host.vars.Get(AllVariable)
	require.NoError(t, err)
	assert.Zero(t, all.LengthInt())
}

func TestGet(t *testing.T) {
	host, handler := setup(t, "SITE=lab=1")

	require.NoError(t, handler.Dispatch(context.Background(), "get SITE"))
	require.NoError(t, handler.Dispatch(context.Background(), "get SITE where"))

	for _, name := range []string{"SITE", "where"} {
		v, err := host.vars.Get(name)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("lab=1"), v)
	}

	assert.ErrorIs(t, handler.Dispatch(context.Background(), "get MISSING"), shellerr.ErrUndefinedVariable)
	assert.ErrorIs(t, handler.Dispatch(context.Background(), "get"), shellerr.ErrSyntax)
	assert.ErrorIs(t, handler.Dispatch(context.Background(), "get SITE bad-name"), shellerr.ErrSyntax)
}
