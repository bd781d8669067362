package shell

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/mashgo/internal/config"
	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/testutil"
	"github.com/specialistvlad/mashgo/internal/varstore"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// echoModule registers a plugin that prints its line and the value of `who`.
type echoModule struct{}

func (echoModule) Register(r *registry.Registry) {
	r.Register("echo", func(host registry.Host) registry.Handler {
		return registry.HandlerFunc(func(ctx context.Context, line string) error {
			who, err := host.Vars().Get("who")
			if err != nil {
				who = cty.StringVal("nobody")
			}
			host.Printf("echo[%s]: %s\n", varstore.Format(who), line)
			return nil
		})
	})
}

// stubLoader serves a fixed config file.
type stubLoader struct {
	file *config.File
	err  error
}

func (l stubLoader) Load(context.Context) (*config.File, error) {
	return l.file, l.err
}

type fixture struct {
	shell  *Shell
	svc    *testutil.FakeService
	out    *testutil.SafeBuffer
	errOut *testutil.SafeBuffer
}

func newFixture(t *testing.T, configure ...func(*Config)) *fixture {
	t.Helper()

	svc := testutil.NewFakeService(t)
	svc.AddModel("node", testutil.NodeModel)
	svc.AddModel("systemimage", testutil.ImageModel)

	reg := registry.New()
	echoModule{}.Register(reg)

	f := &fixture{svc: svc, out: &testutil.SafeBuffer{}, errOut: &testutil.SafeBuffer{}}
	cfg := Config{
		Client:   controlclient.New(controlclient.NewHTTPTransport(5 * time.Second)),
		Registry: reg,
		Out:      f.out,
		Err:      f.errOut,
		Quiet:    true,
	}
	for _, fn := range configure {
		fn(&cfg)
	}
	f.shell = New(cfg)
	return f
}

func verbose(cfg *Config) { cfg.Quiet = false }

// feed sends lines one by one and fails the test on the first error.
func (f *fixture) feed(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, f.shell.Feed(context.Background(), line), "line %q", line)
	}
}

// connect points the session at the fake service.
func (f *fixture) connect(t *testing.T) {
	t.Helper()
	f.feed(t, "connect "+f.svc.URL()+" apikey secret")
}

func (f *fixture) result(t *testing.T) cty.Value {
	t.Helper()
	v, err := f.shell.Vars().Get(varstore.ResultVariable)
	require.NoError(t, err)
	return v
}

func lines(text ...string) string {
	return strings.Join(text, "\n") + "\n"
}
