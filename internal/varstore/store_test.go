package varstore

import (
	"errors"
	"testing"

	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// resultValue decodes a JSON document the way the control client does.
func resultValue(t *testing.T, doc string) cty.Value {
	t.Helper()
	ty, err := ctyjson.ImpliedType([]byte(doc))
	require.NoError(t, err)
	value, err := ctyjson.Unmarshal([]byte(doc), ty)
	require.NoError(t, err)
	return value
}

func TestStore_SetAndGet(t *testing.T) {
	s := New()

	_, err := s.Get("x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shellerr.ErrUndefinedVariable))

	s.SetString("x", "foo")
	value, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "foo", value.AsString())

	s.SetString("x", "bar")
	value, err = s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "bar", value.AsString(), "later assignment overwrites")
}

func TestStore_CopyIsNotAlias(t *testing.T) {
	s := New()
	s.SetString("x", "foo")

	original, err := s.Get("x")
	require.NoError(t, err)
	s.Set("y", original)
	s.SetString("x", "changed")

	y, err := s.Get("y")
	require.NoError(t, err)
	assert.Equal(t, "foo", y.AsString())
}

func TestStore_Names(t *testing.T) {
	s := New()
	s.SetString("b", "2")
	s.SetString("a", "1")
	s.Set(ResultVariable, cty.NullVal(cty.DynamicPseudoType))

	assert.Equal(t, []string{"MPROV_RESULT", "a", "b"}, s.Names())
}

func TestStore_Lookup(t *testing.T) {
	s := New()
	s.Set(ResultVariable, resultValue(t, `{"hostname":"compute0001","nics":[{"mac":"aa:bb"}]}`))

	value, err := s.Lookup("MPROV_RESULT.hostname")
	require.NoError(t, err)
	assert.Equal(t, "compute0001", value.AsString())

	value, err = s.Lookup("MPROV_RESULT.nics[0].mac")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb", value.AsString())

	_, err = s.Lookup("missing.field")
	assert.True(t, errors.Is(err, shellerr.ErrUndefinedVariable))

	_, err = s.Lookup("MPROV_RESULT.nope")
	assert.True(t, errors.Is(err, shellerr.ErrUndefinedVariable))

	_, err = s.Lookup("not a path")
	assert.True(t, errors.Is(err, shellerr.ErrSyntax))
}
