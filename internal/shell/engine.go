package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/specialistvlad/mashgo/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// loopState is a foreach block being buffered.
type loopState struct {
	variable string
	items    []cty.Value
	lines    []string

	// depth counts foreach lines inside the block still waiting for their
	// endforeach. A block that ever had one is discarded.
	depth  int
	nested bool
}

// LoopError reports the replayed line that stopped a foreach block.
type LoopError struct {
	Variable string
	Item     string
	Line     string
	Err      error
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("running loop %s=%s failed at %q: %v", e.Variable, e.Item, e.Line, e.Err)
}

func (e *LoopError) Unwrap() error { return e.Err }

// Feed processes one raw input line.
func (s *Shell) Feed(ctx context.Context, raw string) error {
	if s.loop != nil {
		return s.buffer(ctx, raw)
	}

	line := strings.TrimSpace(raw)
	if isBlankOrComment(line) {
		return nil
	}

	rendered, err := s.vars.Render(line)
	if err != nil {
		s.console.Error(err)
	}
	return s.Dispatch(ctx, rendered)
}

func isBlankOrComment(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// buffer appends a line to the open foreach block, or closes the block.
func (s *Shell) buffer(ctx context.Context, raw string) error {
	line := strings.TrimSpace(raw)
	keyword, _ := registry.SplitKeyword(line)

	switch {
	case keyword == "foreach":
		s.loop.depth++
		s.loop.nested = true
		return nil
	case line == "endforeach" && s.loop.depth > 0:
		s.loop.depth--
		return nil
	case line == "endforeach":
		loop := s.loop
		s.loop = nil
		if loop.nested {
			return fmt.Errorf("%w: nested foreach is not supported, block discarded", shellerr.ErrSyntax)
		}
		return s.replay(ctx, loop)
	}

	if !s.loop.nested {
		s.loop.lines = append(s.loop.lines, raw)
	}
	return nil
}

// replay runs the buffered block once per item. Lines render the same way
// as at the prompt; the first failing command stops the whole loop.
func (s *Shell) replay(ctx context.Context, loop *loopState) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Replaying foreach block.", "variable", loop.variable, "items", len(loop.items), "lines", len(loop.lines))

	for _, item := range loop.items {
		s.vars.Set(loop.variable, item)
		for _, raw := range loop.lines {
			line := strings.TrimSpace(raw)
			if isBlankOrComment(line) {
				continue
			}

			rendered, err := s.vars.Render(line)
			if err != nil {
				s.console.Error(err)
			}
			if err := s.Dispatch(ctx, rendered); err != nil {
				return &LoopError{
					Variable: loop.variable,
					Item:     varstore.Format(item),
					Line:     line,
					Err:      err,
				}
			}
		}
	}
	return nil
}

// startLoop parses `VAR in LIST` and opens a foreach block.
func (s *Shell) startLoop(args string) error {
	usage := fmt.Errorf("%w: usage: foreach VAR in LIST|VARNAME", shellerr.ErrSyntax)

	variable, rest := registry.SplitKeyword(args)
	in, listSpec := registry.SplitKeyword(rest)
	if variable == "" || in != "in" || listSpec == "" {
		return usage
	}
	if !hclsyntax.ValidIdentifier(variable) {
		return fmt.Errorf("%w: %q is not a valid variable name", shellerr.ErrSyntax, variable)
	}

	items, err := s.loopItems(listSpec)
	if err != nil {
		return err
	}
	s.loop = &loopState{variable: variable, items: items}
	return nil
}

// loopItems materializes the list a foreach iterates over. A single bare
// word names a list variable; anything else is a literal list of words.
func (s *Shell) loopItems(listSpec string) ([]cty.Value, error) {
	words, err := shlex.Split(listSpec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shellerr.ErrSyntax, err)
	}

	if len(words) == 1 && !strings.ContainsAny(words[0], " \t") {
		name := words[0]
		if name == "" {
			return nil, fmt.Errorf("%w: empty list", shellerr.ErrSyntax)
		}
		value, err := s.vars.Get(name)
		if err != nil {
			return nil, err
		}
		elems, err := varstore.Elements(value)
		if err != nil {
			return nil, fmt.Errorf("%s is %s: %w", name, varstore.Describe(value), err)
		}
		return elems, nil
	}

	var literal []string
	for _, word := range words {
		literal = append(literal, strings.Fields(word)...)
	}
	items := make([]cty.Value, len(literal))
	for i, word := range literal {
		items[i] = cty.StringVal(word)
	}
	return items, nil
}
