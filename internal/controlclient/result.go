package controlclient

import (
	"bytes"
	"context"
	"fmt"

	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Execute sends req and decodes the JSON body into a cty value. An empty
// body decodes to null.
func (c *Client) Execute(ctx context.Context, req *Request) (cty.Value, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return cty.NilVal, err
	}
	return DecodeResult(resp.Body)
}

// DecodeResult converts a JSON document of any shape into a cty value.
func DecodeResult(body []byte) (cty.Value, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}

	ty, err := ctyjson.ImpliedType(body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %v", shellerr.ErrResultParse, err)
	}
	value, err := ctyjson.Unmarshal(body, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %v", shellerr.ErrResultParse, err)
	}
	return value, nil
}
