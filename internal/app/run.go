package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/mashgo/internal/config"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/shell"
)

// Run executes one shell session over the script file or the input stream.
// Input that is neither a script file nor a terminal is treated as a script.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	input := a.in
	interactive := false
	if a.config.ScriptPath != "" {
		f, err := os.Open(a.config.ScriptPath)
		if err != nil {
			return fmt.Errorf("unable to open %s: %w", a.config.ScriptPath, err)
		}
		defer f.Close()
		input = f
	} else {
		interactive = isTerminal(a.in)
	}

	if interactive {
		// Interrupts must not kill a session with jobs in flight.
		signal.Ignore(os.Interrupt, syscall.SIGTERM)
		defer signal.Reset(os.Interrupt, syscall.SIGTERM)
	}

	session := shell.New(shell.Config{
		Client:      a.client,
		Registry:    a.registry,
		Loader:      config.NewFileLoader(a.config.ConfigPath),
		Out:         a.outW,
		Err:         a.errW,
		Interactive: interactive,
		Quiet:       a.config.Quiet || !interactive,
	})
	a.logger.Debug("Session created.", "interactive", interactive, "script", a.config.ScriptPath)

	err := session.Run(ctx, input)
	if closeErr := a.client.Close(); closeErr != nil {
		a.logger.Warn("Failed to release transport.", "error", closeErr)
	}
	if err != nil {
		return fmt.Errorf("script aborted: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
