package config

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"gopkg.in/yaml.v3"
)

// GlobalSection is the section holding connection settings.
const GlobalSection = "global"

// ErrNoURL is returned when the global section names no service URL.
var ErrNoURL = errors.New("no mprovURL configured")

// Global holds the connection settings of the `global` section.
type Global struct {
	URL      string `yaml:"mprovURL"`
	APIKey   string `yaml:"apikey"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// AuthHeader returns the Authorization header value the settings select.
// An API key takes precedence over user and password.
func (g Global) AuthHeader() string {
	switch {
	case g.APIKey != "":
		return controlclient.APIKeyAuth(g.APIKey)
	case g.User != "":
		return controlclient.BasicAuth(g.User, g.Password)
	}
	return ""
}

// File is a parsed connection file.
type File struct {
	Path     string
	Sections map[string]yaml.Node
}

// Parse decodes data, flattening a list of sections into one mapping.
func Parse(path string, data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	f := &File{Path: path, Sections: make(map[string]yaml.Node)}
	if len(root.Content) == 0 {
		return f, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.MappingNode:
		f.merge(doc)
	case yaml.SequenceNode:
		for _, entry := range doc.Content {
			if entry.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%s:%d: expected a mapping in the section list", path, entry.Line)
			}
			f.merge(entry)
		}
	default:
		return nil, fmt.Errorf("%s:%d: expected a mapping or a list of mappings", path, doc.Line)
	}
	return f, nil
}

func (f *File) merge(mapping *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		f.Sections[mapping.Content[i].Value] = *mapping.Content[i+1]
	}
}

// Section decodes the named section into out. A missing section leaves out
// untouched and reports false.
func (f *File) Section(name string, out any) (bool, error) {
	node, ok := f.Sections[name]
	if !ok {
		return false, nil
	}
	if err := node.Decode(out); err != nil {
		return true, fmt.Errorf("%s: section %s: %w", f.Path, name, err)
	}
	return true, nil
}

// Global returns the validated connection settings.
func (f *File) Global() (Global, error) {
	var g Global
	if _, err := f.Section(GlobalSection, &g); err != nil {
		return Global{}, err
	}
	if g.URL == "" {
		return Global{}, fmt.Errorf("%s: %w", f.Path, ErrNoURL)
	}
	return g, nil
}
