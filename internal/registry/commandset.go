package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Command is one sub-command of a CommandSet.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     func(ctx context.Context, args string) error
}

// CommandSet is a nested interpreter for plugin sub-commands.
type CommandSet struct {
	name     string
	printf   func(format string, args ...any)
	commands map[string]Command
	order    []string
}

// NewCommandSet creates an empty set. printf receives help output.
func NewCommandSet(name string, printf func(format string, args ...any)) *CommandSet {
	return &CommandSet{
		name:     name,
		printf:   printf,
		commands: make(map[string]Command),
	}
}

// Add registers a sub-command. Adding a duplicate name panics.
func (s *CommandSet) Add(cmd Command) *CommandSet {
	if _, exists := s.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("%s: sub-command '%s' already added", s.name, cmd.Name))
	}
	s.commands[cmd.Name] = cmd
	s.order = append(s.order, cmd.Name)
	return s
}

// Dispatch runs the sub-command named by the first word of line. An empty
// line or "help" prints the listing.
func (s *CommandSet) Dispatch(ctx context.Context, line string) error {
	name, args := SplitKeyword(line)
	if name == "" || name == "help" {
		s.Help(args)
		return nil
	}

	cmd, ok := s.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s %s%s", shellerr.ErrUnknownCommand, s.name, name, DidYouMean(name, s.order))
	}
	return cmd.Run(ctx, args)
}

// Help prints usage for one sub-command, or the listing when topic is empty
// or unknown.
func (s *CommandSet) Help(topic string) {
	if cmd, ok := s.commands[strings.TrimSpace(topic)]; ok {
		s.printf("%s %s\n    %s\n", s.name, cmd.Usage, cmd.Summary)
		return
	}
	s.printf("%s sub-commands:\n", s.name)
	for _, name := range s.order {
		cmd := s.commands[name]
		s.printf("  %-24s %s\n", cmd.Usage, cmd.Summary)
	}
}

// SplitKeyword splits a line into its first word and the trimmed remainder.
func SplitKeyword(line string) (keyword, rest string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}
