package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/varstore"
)

// Module is the interface that all plugin modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Host is the part of a shell session a plugin may use.
type Host interface {
	// Client is the live control service client.
	Client() *controlclient.Client
	// Vars is the session's variable store.
	Vars() *varstore.Store
	// Printf writes to the console.
	Printf(format string, args ...any)
	// Errorf writes to the error sink.
	Errorf(format string, args ...any)
}

// Handler runs one plugin invocation. line is everything after the plugin
// name, already rendered.
type Handler interface {
	Dispatch(ctx context.Context, line string) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, line string) error

// Dispatch implements Handler.
func (f HandlerFunc) Dispatch(ctx context.Context, line string) error {
	return f(ctx, line)
}

// Factory binds a plugin to a session.
type Factory func(host Host) Handler

// Registry holds the registered plugin factories for one application instance.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin. Registering the same name twice is a programming
// error and panics.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("plugin with name '%s' already registered", name))
	}
	slog.Debug("Registering plugin.", "name", name)
	r.factories[name] = factory
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
