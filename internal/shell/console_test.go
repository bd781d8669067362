package shell

import (
	"errors"
	"testing"

	"github.com/specialistvlad/mashgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Capture(t *testing.T) {
	out := &testutil.SafeBuffer{}
	errOut := &testutil.SafeBuffer{}
	c := NewConsole(out, errOut)

	captured, err := c.Capture(func() error {
		c.Printf("inside %d\n", 1)
		c.Errorf("still visible")
		return errors.New("failed")
	})
	c.Printf("outside\n")

	require.EqualError(t, err, "failed")
	assert.Equal(t, "inside 1\n", captured)
	assert.Equal(t, "outside\n", out.String())
	assert.Equal(t, "Error: still visible\n", errOut.String())
}
