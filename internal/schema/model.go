package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Field is one attribute of a model as declared by the control service.
type Field struct {
	Name     string
	Required bool
	Type     string
	// Extra keeps every attribute of the field definition, including the
	// ones above, for display.
	Extra map[string]any
}

// Model describes one object type exposed by the control service.
type Model struct {
	Name     string
	Endpoint string
	Fields   []Field

	index map[string]int
}

// NewModel builds a model from already decoded parts.
func NewModel(name, endpoint string, fields ...Field) *Model {
	m := &Model{
		Name:     name,
		Endpoint: endpoint,
		Fields:   fields,
		index:    make(map[string]int, len(fields)),
	}
	for i, field := range fields {
		m.index[field.Name] = i
	}
	return m
}

// modelDocument is the wire shape of `datamodel/?model=NAME`.
type modelDocument struct {
	Endpoint string          `json:"endpoint"`
	Fields   json.RawMessage `json:"fields"`
}

// ParseModel decodes the description the service returns for a model.
func ParseModel(name string, doc []byte) (*Model, error) {
	if err := validateDocument(modelSchema, doc); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}

	var raw modelDocument
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}

	fields, err := decodeFields(raw.Fields)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return NewModel(name, raw.Endpoint, fields...), nil
}

// decodeFields walks the fields object token by token so the service's
// declaration order survives decoding.
func decodeFields(raw json.RawMessage) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("fields must be an object")
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in fields", tok)
		}

		var def map[string]any
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		field := Field{Name: name, Extra: def}
		if required, ok := def["required"].(bool); ok {
			field.Required = required
		}
		if typ, ok := def["type"].(string); ok {
			field.Type = typ
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// Field returns the named field.
func (m *Model) Field(name string) (Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.Fields[i], true
}

// FieldNames returns field names in declaration order.
func (m *Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, field := range m.Fields {
		names[i] = field.Name
	}
	return names
}

// CheckFields verifies that every supplied key is a field of the model and,
// when checkRequired is set, that every required field was supplied.
func (m *Model) CheckFields(keys []string, checkRequired bool) error {
	supplied := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := m.index[key]; !ok {
			return fmt.Errorf("%w: model %s does not have field %s", shellerr.ErrUnknownField, m.Name, key)
		}
		supplied[key] = struct{}{}
	}

	if !checkRequired {
		return nil
	}
	for _, field := range m.Fields {
		if !field.Required {
			continue
		}
		if _, ok := supplied[field.Name]; !ok {
			return fmt.Errorf("%w %s for model %s", shellerr.ErrMissingRequiredField, field.Name, m.Name)
		}
	}
	return nil
}

// Describe writes a human-readable summary of the model.
func (m *Model) Describe(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Model:\t%s\n", m.Name)
	fmt.Fprintf(tw, "Endpoint:\t%s\n", m.Endpoint)
	fmt.Fprintln(tw, "Fields:")
	for _, field := range m.Fields {
		var notes []string
		if field.Required {
			notes = append(notes, "required")
		}
		if field.Type != "" {
			notes = append(notes, field.Type)
		}
		fmt.Fprintf(tw, "  %s\t%s\n", field.Name, strings.Join(notes, ", "))
	}
	return tw.Flush()
}
