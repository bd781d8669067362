package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/mashgo/internal/config"
	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/jobs"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/specialistvlad/mashgo/internal/varstore"
)

const (
	// Banner greets interactive users.
	Banner = "Welcome to the mProv shell.  Type help or ? to list commands.\n"

	prompt     = "<mProv> # "
	loopPrompt = "<mProv> -for-> "
)

// Config holds everything a session is built from.
type Config struct {
	Client   *controlclient.Client
	Registry *registry.Registry
	// Loader serves an argument-less connect. Nil disables it.
	Loader config.Loader

	Out io.Writer
	Err io.Writer

	// Interactive sessions print a banner and prompts.
	Interactive bool
	// Quiet suppresses confirmations such as OK and job completions.
	Quiet bool
}

// Shell is one mash session.
type Shell struct {
	client   *controlclient.Client
	registry *registry.Registry
	loader   config.Loader
	vars     *varstore.Store
	console  *Console
	jobs     *jobs.Group
	loop     *loopState

	interactive bool
	quiet       bool
}

// New creates a session with an empty variable store.
func New(cfg Config) *Shell {
	client := cfg.Client
	if client == nil {
		client = controlclient.New(controlclient.NewHTTPTransport(0))
	}
	return &Shell{
		client:      client,
		registry:    cfg.Registry,
		loader:      cfg.Loader,
		vars:        varstore.New(),
		console:     NewConsole(cfg.Out, cfg.Err),
		interactive: cfg.Interactive,
		quiet:       cfg.Quiet,
	}
}

// Client implements registry.Host.
func (s *Shell) Client() *controlclient.Client { return s.client }

// Vars implements registry.Host.
func (s *Shell) Vars() *varstore.Store { return s.vars }

// Printf implements registry.Host.
func (s *Shell) Printf(format string, args ...any) { s.console.Printf(format, args...) }

// Errorf implements registry.Host.
func (s *Shell) Errorf(format string, args ...any) { s.console.Errorf(format, args...) }

// notef prints confirmations that quiet sessions suppress.
func (s *Shell) notef(format string, args ...any) {
	if !s.quiet {
		s.console.Printf(format, args...)
	}
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	if s.loop != nil {
		return loopPrompt
	}
	return prompt
}

// Run reads lines from r until end of input or exit. Command errors are
// reported and the loop goes on; the only error returned is a failed
// connect while running a script, or a read failure.
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Shell started.", "interactive", s.interactive, "quiet", s.quiet)

	if s.interactive {
		s.console.Printf("%s", Banner)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if s.interactive {
			s.console.Printf("%s", s.Prompt())
		}
		if !scanner.Scan() {
			break
		}

		err := s.Feed(ctx, scanner.Text())
		if err == nil {
			continue
		}
		if errors.Is(err, shellerr.ErrExit) {
			logger.Debug("Shell exiting on request.")
			return nil
		}
		s.console.Error(err)
		if !s.interactive && errors.Is(err, shellerr.ErrConnectFailed) {
			s.drain(ctx)
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		s.drain(ctx)
		return fmt.Errorf("failed to read input: %w", err)
	}

	if s.loop != nil {
		s.console.Errorf("%v: foreach block was never closed, discarded", shellerr.ErrSyntax)
		s.loop = nil
	}
	if s.interactive {
		s.console.Printf("\n")
	}
	s.drain(ctx)
	logger.Debug("Shell reached end of input.")
	return nil
}

// jobGroup returns the session's job group, creating it on first use.
func (s *Shell) jobGroup(ctx context.Context) *jobs.Group {
	if s.jobs == nil {
		s.jobs = jobs.NewGroup(ctx)
	}
	return s.jobs
}

// drain waits for every background job and reports each completion.
func (s *Shell) drain(ctx context.Context) {
	if s.jobs == nil || s.jobs.Outstanding() == 0 {
		return
	}
	ctxlog.FromContext(ctx).Debug("Waiting for background jobs.", "count", s.jobs.Outstanding())
	s.notef("Waiting for background jobs\n")
	s.jobs.Drain(func(res jobs.Result) {
		if res.Err != nil {
			s.console.Errorf("Job %d (%s) failed: %v", res.ID, res.Name, res.Err)
			return
		}
		s.notef("Job %d finished.\n", res.ID)
	})
}
