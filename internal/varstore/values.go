package varstore

import (
	"fmt"

	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Format renders a value the way it appears when interpolated into text.
// Strings are verbatim, null is empty, and collections become compact JSON.
func Format(value cty.Value) string {
	if value.IsNull() {
		return ""
	}
	if !value.IsKnown() {
		return "(unknown)"
	}

	if value.Type().IsPrimitiveType() {
		if str, err := convert.Convert(value, cty.String); err == nil {
			return str.AsString()
		}
	}

	buf, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return value.GoString()
	}
	return string(buf)
}

// IsList reports whether value can drive a foreach loop.
func IsList(value cty.Value) bool {
	if value.IsNull() || !value.IsKnown() {
		return false
	}
	ty := value.Type()
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

// Elements returns the items of a list-like value in order.
func Elements(value cty.Value) ([]cty.Value, error) {
	if !IsList(value) {
		return nil, shellerr.ErrNotAList
	}
	return value.AsValueSlice(), nil
}

// StringList builds a list value from plain strings.
func StringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	values := make([]cty.Value, len(items))
	for i, item := range items {
		values[i] = cty.StringVal(item)
	}
	return cty.ListVal(values)
}

// MaxRangeLen caps the number of items a single range may produce.
const MaxRangeLen = 1 << 20

// NumberRange builds the inclusive list [start..end]. It is empty when start
// is greater than end.
func NumberRange(start, end int) (cty.Value, error) {
	if start > end {
		return cty.ListValEmpty(cty.Number), nil
	}
	if span := uint64(end) - uint64(start); span >= MaxRangeLen {
		return cty.NilVal, fmt.Errorf("%w: range %d..%d has more than %d items", shellerr.ErrSyntax, start, end, MaxRangeLen)
	}
	values := make([]cty.Value, 0, end-start+1)
	for n := start; ; n++ {
		values = append(values, cty.NumberIntVal(int64(n)))
		if n == end {
			break
		}
	}
	return cty.ListVal(values), nil
}

// Describe is used in error messages about non-list values.
func Describe(value cty.Value) string {
	if value.IsNull() {
		return "null"
	}
	return fmt.Sprintf("type %s", value.Type().FriendlyName())
}
