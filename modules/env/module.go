// Package env imports process environment variables into the session's
// variable store.
package env

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/zclconf/go-cty/cty"
)

// AllVariable holds the map of everything `env load` imported.
const AllVariable = "ENV"

// Module implements the registry.Module interface for this package.
type Module struct {
	// Environ defaults to os.Environ.
	Environ func() []string
}

// Register adds the `env` plugin.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env", func(host registry.Host) registry.Handler {
		p := &plugin{host: host, environ: m.Environ}
		if p.environ == nil {
			p.environ = os.Environ
		}
		return registry.NewCommandSet("env", host.Printf).
			Add(registry.Command{
				Name:    "load",
				Usage:   "load [PREFIX]",
				Summary: "Store every environment variable starting with PREFIX under its own name, and all of them in ENV.",
				Run:     p.load,
			}).
			Add(registry.Command{
				Name:    "get",
				Usage:   "get NAME [VAR]",
				Summary: "Store environment variable NAME in VAR (default NAME).",
				Run:     p.get,
			})
	})
}

type plugin struct {
	host    registry.Host
	environ func() []string
}

// lookup parses the environment into a map.
func (p *plugin) lookup() map[string]string {
	envMap := make(map[string]string)
	for _, e := range p.environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

func (p *plugin) load(_ context.Context, args string) error {
	prefix := strings.TrimSpace(args)
	vars := p.host.Vars()

	all := make(map[string]cty.Value)
	names := make([]string, 0)
	for name, value := range p.lookup() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		all[name] = cty.StringVal(value)
		if hclsyntax.ValidIdentifier(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		vars.Set(name, all[name])
	}
	if len(all) == 0 {
		vars.Set(AllVariable, cty.MapValEmpty(cty.String))
	} else {
		vars.Set(AllVariable, cty.MapVal(all))
	}
	p.host.Printf("Loaded %d environment variables.\n", len(names))
	return nil
}

func (p *plugin) get(_ context.Context, args string) error {
	words := strings.Fields(args)
	if len(words) == 0 || len(words) > 2 {
		return fmt.Errorf("%w: usage: env get NAME [VAR]", shellerr.ErrSyntax)
	}
	name, target := words[0], words[0]
	if len(words) == 2 {
		target = words[1]
	}
	if !hclsyntax.ValidIdentifier(target) {
		return fmt.Errorf("%w: %q is not a valid variable name", shellerr.ErrSyntax, target)
	}

	value, ok := p.lookup()[name]
	if !ok {
		return fmt.Errorf("%w: environment variable %s is not set", shellerr.ErrUndefinedVariable, name)
	}
	p.host.Vars().SetString(target, value)
	return nil
}
