package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Catalog is the set of models known after a successful connect.
type Catalog struct {
	models map[string]*Model
}

// NewCatalog creates a catalog from the given models.
func NewCatalog(models ...*Model) *Catalog {
	c := &Catalog{models: make(map[string]*Model, len(models))}
	for _, m := range models {
		c.models[m.Name] = m
	}
	return c
}

// Model returns the named model or an ErrUnknownModel error.
func (c *Catalog) Model(name string) (*Model, error) {
	if c != nil {
		if m, ok := c.models[name]; ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w %s", shellerr.ErrUnknownModel, name)
}

// Names returns the model names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many models the catalog holds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.models)
}

// ParseModelList decodes the `datamodel/` listing.
func ParseModelList(doc []byte) ([]string, error) {
	if err := validateDocument(modelListSchema, doc); err != nil {
		return nil, fmt.Errorf("model list: %w", err)
	}
	var listing struct {
		Datamodels []string `json:"datamodels"`
	}
	if err := json.Unmarshal(doc, &listing); err != nil {
		return nil, fmt.Errorf("model list: %w", err)
	}
	return listing.Datamodels, nil
}
