package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	in       io.Reader
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	client   *controlclient.Client
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Logs go to errW; outW only ever carries shell output.
func NewApp(in io.Reader, outW, errW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	ctxlog.FromContext(ctx).Debug("All plugin modules registered.", "count", len(modules), "plugins", reg.Names())

	return &App{
		in:       in,
		outW:     outW,
		errW:     errW,
		logger:   logger,
		registry: reg,
		client:   controlclient.New(controlclient.NewHTTPTransport(appConfig.Timeout)),
		config:   appConfig,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
