package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mashgo/internal/controlclient"
	"github.com/specialistvlad/mashgo/internal/ctxlog"
	"github.com/specialistvlad/mashgo/internal/registry"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/specialistvlad/mashgo/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// nullResult marks a failed request in MPROV_RESULT.
var nullResult = cty.NullVal(cty.DynamicPseudoType)

func (s *Shell) connect(ctx context.Context, args string) error {
	url, auth, err := s.connectTarget(ctx, args)
	if err != nil {
		return fmt.Errorf("%w: %w", shellerr.ErrConnectFailed, err)
	}

	catalog, err := s.client.Connect(ctx, url, auth)
	if err != nil {
		return fmt.Errorf("%w: %w", shellerr.ErrConnectFailed, err)
	}
	s.notef("Connected to %s, %d models available.\n", url, catalog.Len())
	return nil
}

// connectTarget resolves the URL and Authorization header for connect.
func (s *Shell) connectTarget(ctx context.Context, args string) (url, auth string, err error) {
	words := strings.Fields(args)
	switch {
	case len(words) == 0:
		if s.loader == nil {
			return "", "", errors.New("no config file available")
		}
		file, err := s.loader.Load(ctx)
		if err != nil {
			return "", "", err
		}
		global, err := file.Global()
		if err != nil {
			return "", "", err
		}
		ctxlog.FromContext(ctx).Debug("Using connection settings from config file.", "path", file.Path)
		return global.URL, global.AuthHeader(), nil
	case len(words) == 1:
		return words[0], "", nil
	case len(words) == 3 && words[1] == "apikey":
		return words[0], controlclient.APIKeyAuth(words[2]), nil
	case len(words) == 5 && words[1] == "user" && words[3] == "password":
		return words[0], controlclient.BasicAuth(words[2], words[4]), nil
	}
	return "", "", fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins["connect"].usage)
}

func (s *Shell) disconnect(ctx context.Context, _ string) error {
	s.drain(ctx)
	return s.client.Disconnect()
}

// crud validates and sends one CRUD request. Failed field validation sets the
// null marker; a communication error leaves MPROV_RESULT as it was.
// Background requests never touch the variable store.
func (s *Shell) crud(ctx context.Context, verb controlclient.Verb, args string) error {
	args, background := splitBackground(args)
	modelName, fieldArgs := registry.SplitKeyword(args)
	if modelName == "" {
		return fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins[verb.String()].usage)
	}

	req, err := s.client.BuildRequest(verb, modelName, fieldArgs, verb == controlclient.Create)
	if err != nil {
		if !background && isFieldError(err) {
			s.vars.Set(varstore.ResultVariable, nullResult)
		}
		if errors.Is(err, shellerr.ErrUnknownField) || errors.Is(err, shellerr.ErrMissingRequiredField) {
			return fmt.Errorf("%w\nCheck 'model %s' and try again.", err, modelName)
		}
		return err
	}

	if background {
		id := s.jobGroup(ctx).Go(verb.String()+" "+modelName, func(ctx context.Context) error {
			_, err := s.client.Execute(ctx, req)
			return err
		})
		s.notef("Job %d started.\n", id)
		return nil
	}

	result, err := s.client.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, shellerr.ErrResultParse) {
			s.vars.Set(varstore.ResultVariable, nullResult)
		}
		return err
	}
	s.vars.Set(varstore.ResultVariable, result)
	s.notef("OK\n")
	return nil
}

func isFieldError(err error) bool {
	return errors.Is(err, shellerr.ErrUnknownField) ||
		errors.Is(err, shellerr.ErrMissingRequiredField) ||
		errors.Is(err, shellerr.ErrSyntax)
}

func (s *Shell) models(context.Context, string) error {
	if _, err := s.client.Conn(); err != nil {
		return err
	}
	for _, name := range s.client.Catalog().Names() {
		s.console.Printf("%s\n", name)
	}
	return nil
}

func (s *Shell) model(_ context.Context, args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins["model"].usage)
	}
	if _, err := s.client.Conn(); err != nil {
		return err
	}
	m, err := s.client.Catalog().Model(name)
	if err != nil {
		return err
	}
	var sb strings.Builder
	if err := m.Describe(&sb); err != nil {
		return err
	}
	s.console.Printf("%s", sb.String())
	return nil
}

// let assigns a variable. The value is already rendered.
func (s *Shell) let(ctx context.Context, args string) error {
	key, value, found := strings.Cut(args, "=")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !found || key == "" {
		return fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins["let"].usage)
	}
	if !hclsyntax.ValidIdentifier(key) {
		return fmt.Errorf("%w: %q is not a valid variable name", shellerr.ErrSyntax, key)
	}
	if value == "" {
		return fmt.Errorf("%w: empty value in assignment", shellerr.ErrSyntax)
	}

	switch value[0] {
	case '`':
		out, err := s.console.Capture(func() error {
			return s.Dispatch(ctx, value[1:])
		})
		if err != nil {
			return err
		}
		s.vars.SetString(key, strings.TrimSuffix(out, "\n"))
	case '$':
		copied, err := s.vars.Lookup(value[1:])
		if err != nil {
			return err
		}
		s.vars.Set(key, copied)
	default:
		s.vars.SetString(key, value)
	}
	return nil
}

// pvar prints NAME=VALUE for each comma separated path.
func (s *Shell) pvar(_ context.Context, args string) error {
	if strings.TrimSpace(args) == "" {
		return fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins["pvar"].usage)
	}

	var firstErr error
	for _, path := range strings.Split(args, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		value, err := s.vars.Lookup(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.console.Printf("%s=%s\n", path, varstore.Format(value))
	}
	return firstErr
}

func (s *Shell) print(_ context.Context, args string) error {
	s.console.Printf("%s\n", args)
	return nil
}

func (s *Shell) seq(_ context.Context, args string) error {
	words := strings.Fields(args)
	if len(words) != 3 {
		return fmt.Errorf("%w: usage: %s", shellerr.ErrSyntax, builtins["seq"].usage)
	}
	if !hclsyntax.ValidIdentifier(words[0]) {
		return fmt.Errorf("%w: %q is not a valid variable name", shellerr.ErrSyntax, words[0])
	}
	start, err := strconv.Atoi(words[1])
	if err != nil {
		return fmt.Errorf("%w: start %q is not an integer", shellerr.ErrSyntax, words[1])
	}
	end, err := strconv.Atoi(words[2])
	if err != nil {
		return fmt.Errorf("%w: end %q is not an integer", shellerr.ErrSyntax, words[2])
	}
	values, err := varstore.NumberRange(start, end)
	if err != nil {
		return err
	}
	s.vars.Set(words[0], values)
	return nil
}
