package app

import (
	"os"
	"strings"
	"testing"

	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The session
// reads input as a script; output and logs are captured separately.
func SetupAppTest(t *testing.T, appConfig *Config, input string, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	errBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	if appConfig.LogFormat == "" {
		appConfig.LogFormat = "text"
	}
	testApp := NewApp(strings.NewReader(input), outBuffer, errBuffer, appConfig, modules...)

	t.Cleanup(func() {
		if os.Getenv("MASH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), errBuffer.String())
		}
	})

	return testApp, outBuffer, errBuffer
}
