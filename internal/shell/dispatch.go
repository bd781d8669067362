package shell

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// builtin is a command implemented by the shell itself.
type builtin struct {
	usage   string
	summary string
	// background commands accept a trailing & and strip it themselves.
	background bool
	// freeText commands take arbitrary text, so a trailing & is theirs.
	freeText bool
	run      func(s *Shell, ctx context.Context, args string) error
}

var builtins map[string]*builtin

// aliases map alternative keywords to their builtin.
var aliases = map[string]string{
	"post":  "create",
	"get":   "retrieve",
	"patch": "update",
	"p":     "pvar",
	"quit":  "exit",
	"?":     "help",
}

func init() {
	crud := func(verb controlclient.Verb) func(*Shell, context.Context, string) error {
		return func(s *Shell, ctx context.Context, args string) error {
			return s.crud(ctx, verb, args)
		}
	}

	builtins = map[string]*builtin{
		"connect": {
			usage:   "connect [URL [apikey KEY | user USER password PASSWORD]]",
			summary: "Connect to an mProv Control Center. Without arguments the config file is used.",
			run:     (*Shell).connect,
		},
		"disconnect": {
			usage:   "disconnect",
			summary: "Wait for background jobs and drop the connection.",
			run:     (*Shell).disconnect,
		},
		"create": {
			usage:      "create MODEL key=value... [&]",
			summary:    "Create an object. Every required field must be given.",
			background: true,
			run:        crud(controlclient.Create),
		},
		"retrieve": {
			usage:      "retrieve MODEL [key=value...] [&]",
			summary:    "Retrieve objects and store them in MPROV_RESULT.",
			background: true,
			run:        crud(controlclient.Retrieve),
		},
		"update": {
			usage:      "update MODEL id=ID key=value... [&]",
			summary:    "Update fields of an object.",
			background: true,
			run:        crud(controlclient.Update),
		},
		"delete": {
			usage:      "delete MODEL id=ID [&]",
			summary:    "Delete an object.",
			background: true,
			run:        crud(controlclient.Delete),
		},
		"models": {
			usage:   "models",
			summary: "List the data models of the connected mPCC.",
			run:     (*Shell).models,
		},
		"model": {
			usage:   "model NAME",
			summary: "Describe the fields of a data model.",
			run:     (*Shell).model,
		},
		"let": {
			usage:    "let NAME=VALUE | NAME=`COMMAND | NAME=$VARIABLE",
			summary:  "Assign a session variable.",
			freeText: true,
			run:      (*Shell).let,
		},
		"pvar": {
			usage:   "pvar NAME[,NAME...]",
			summary: "Print variables. Names may be paths such as MPROV_RESULT.hostname.",
			run:     (*Shell).pvar,
		},
		"print": {
			usage:    "print TEXT",
			summary:  "Print text.",
			freeText: true,
			run:      (*Shell).print,
		},
		"seq": {
			usage:   "seq NAME START END",
			summary: "Store the list of integers START..END in NAME.",
			run:     (*Shell).seq,
		},
		"foreach": {
			usage:   "foreach VAR in LIST|VARNAME",
			summary: "Repeat the following lines, up to endforeach, for every item.",
			run: func(s *Shell, _ context.Context, args string) error {
				return s.startLoop(args)
			},
		},
		"endforeach": {
			usage:   "endforeach",
			summary: "Close a foreach block and run it.",
			run: func(*Shell, context.Context, string) error {
				return fmt.Errorf("%w: endforeach without foreach", shellerr.ErrSyntax)
			},
		},
		"wait": {
			usage:   "wait",
			summary: "Wait for all background jobs to finish.",
			run: func(s *Shell, ctx context.Context, _ string) error {
				s.drain(ctx)
				return nil
			},
		},
		"exit": {
			usage:   "exit",
			summary: "Wait for background jobs and leave the shell.",
			run: func(s *Shell, ctx context.Context, _ string) error {
				s.drain(ctx)
				return shellerr.ErrExit
			},
		},
		"help": {
			usage:   "help [COMMAND]",
			summary: "List commands, or describe one.",
			run:     (*Shell).help,
		},
	}
}

// Dispatch runs one rendered command line. A panicking command is reported
// as its error and the session carries on.
func (s *Shell) Dispatch(ctx context.Context, line string) (err error) {
	keyword, args := registry.SplitKeyword(line)
	if keyword == "" {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Dispatching command.", "keyword", keyword)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Command panicked.", "keyword", keyword, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("command %s panicked: %v", keyword, r)
		}
	}()

	if b, ok := lookupBuiltin(keyword); ok {
		if !b.background && !b.freeText {
			if _, bg := splitBackground(args); bg {
				return fmt.Errorf("%w: %s cannot run in the background", shellerr.ErrSyntax, keyword)
			}
		}
		return b.run(s, ctx, args)
	}

	if factory, ok := s.registry.Lookup(keyword); ok {
		handler := factory(s)
		if handler == nil {
			return fmt.Errorf("unable to instantiate plugin %s", keyword)
		}
		return handler.Dispatch(ctx, args)
	}

	return fmt.Errorf("%w %s%s", shellerr.ErrUnknownCommand, keyword, registry.DidYouMean(keyword, s.commandNames()))
}

func lookupBuiltin(keyword string) (*builtin, bool) {
	if target, ok := aliases[keyword]; ok {
		keyword = target
	}
	b, ok := builtins[keyword]
	return b, ok
}

// commandNames lists built-ins, aliases and plugins.
func (s *Shell) commandNames() []string {
	names := make([]string, 0, len(builtins)+len(aliases))
	for name := range builtins {
		names = append(names, name)
	}
	for alias := range aliases {
		names = append(names, alias)
	}
	names = append(names, s.registry.Names()...)
	sort.Strings(names)
	return names
}

// splitBackground strips a trailing & that is outside quotes.
func splitBackground(args string) (string, bool) {
	trimmed := strings.TrimRightFunc(args, isSpace)
	if !strings.HasSuffix(trimmed, "&") {
		return args, false
	}

	var quote rune
	escaped := false
	for _, r := range trimmed[:len(trimmed)-1] {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		}
	}
	if quote != 0 || escaped {
		return args, false
	}
	return strings.TrimRightFunc(trimmed[:len(trimmed)-1], isSpace), true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// help prints the command listing or the usage of one command.
func (s *Shell) help(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		s.console.Printf("Commands:\n")
		names := make([]string, 0, len(builtins))
		for name := range builtins {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.console.Printf("  %-12s %s\n", name, builtins[name].summary)
		}
		if plugins := s.registry.Names(); len(plugins) > 0 {
			s.console.Printf("Plugins (try 'help PLUGIN'):\n  %s\n", strings.Join(plugins, " "))
		}
		return nil
	}

	if b, ok := lookupBuiltin(topic); ok {
		s.console.Printf("%s\n    %s\n", b.usage, b.summary)
		return nil
	}
	if factory, ok := s.registry.Lookup(topic); ok {
		return factory(s).Dispatch(ctx, "help")
	}
	return fmt.Errorf("%w %s%s", shellerr.ErrUnknownCommand, topic, registry.DidYouMean(topic, s.commandNames()))
}
