package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed datamodel.schema.json
	modelSchemaJSON string
	//go:embed datamodels.schema.json
	modelListSchemaJSON string

	modelSchema     = jsonschema.MustCompileString("datamodel.schema.json", modelSchemaJSON)
	modelListSchema = jsonschema.MustCompileString("datamodels.schema.json", modelListSchemaJSON)
)

// validateDocument checks a raw JSON document against one of the embedded
// schemas before it is decoded into Go types.
func validateDocument(sch *jsonschema.Schema, doc []byte) error {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("document does not match %s: %w", sch.Location, err)
	}
	return nil
}
