// Package bmc is the power management plugin. It asks the control service to
// drive node BMCs, one request per node.
package bmc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/noderange"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the `bmc` plugin.
func (m *Module) Register(r *registry.Registry) {
	r.Register("bmc", New)
}

// actions are the power operations the service understands.
var actions = map[string]bool{
	"on":    true,
	"off":   true,
	"cycle": true,
	"reset": true,
}

type plugin struct {
	host registry.Host
}

// New binds the plugin to a session.
func New(host registry.Host) registry.Handler {
	p := &plugin{host: host}
	return registry.NewCommandSet("bmc", host.Printf).
		Add(registry.Command{
			Name:    "power",
			Usage:   "power ACTION NODES",
			Summary: "Power nodes on, off, cycle or reset them. NODES may be a range such as compute00[01-20,23].",
			Run:     p.power,
		})
}

// power runs one action against every node of a node spec. It keeps going
// past failed nodes and reports how many failed at the end.
func (p *plugin) power(ctx context.Context, args string) error {
	args = strings.TrimSuffix(strings.TrimSpace(args), "&")
	action, spec := registry.SplitKeyword(args)
	if action == "" || spec == "" || strings.ContainsAny(spec, " \t") {
		return fmt.Errorf("%w: usage: bmc power ACTION NODES", shellerr.ErrSyntax)
	}
	if !actions[action] {
		return fmt.Errorf("%w: unknown power action %q, expected one of on, off, cycle, reset", shellerr.ErrSyntax, action)
	}

	nodes, err := noderange.Expand(spec)
	if err != nil {
		return err
	}
	client := p.host.Client()
	if _, err := client.Conn(); err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running power action.", "action", action, "nodes", len(nodes))

	var (
		failed   int
		firstErr error
	)
	for _, node := range nodes {
		path := "power/" + action + "/?hostname=" + url.QueryEscape(node)
		if _, err := client.Call(ctx, http.MethodGet, path, nil); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			p.host.Errorf("%s: %v", node, err)
			continue
		}
		p.host.Printf("%s: %s\n", node, action)
	}

	if failed > 0 {
		return fmt.Errorf("bmc power %s: %d of %d nodes failed: %w", action, failed, len(nodes), firstErr)
	}
	return nil
}
