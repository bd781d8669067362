package varstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/zclconf/go-cty/cty"
)

// ResultVariable is the reserved name holding the most recent foreground
// CRUD result.
const ResultVariable = "MPROV_RESULT"

// Store maps variable names to values for the lifetime of a session.
type Store struct {
	vars map[string]cty.Value
}

// New creates an empty store.
func New() *Store {
	return &Store{vars: make(map[string]cty.Value)}
}

// Set assigns value to name, replacing any previous value.
func (s *Store) Set(name string, value cty.Value) {
	s.vars[name] = value
}

// SetString is a shorthand for Set with a string value.
func (s *Store) SetString(name, value string) {
	s.vars[name] = cty.StringVal(value)
}

// Get returns the value of name.
func (s *Store) Get(name string) (cty.Value, error) {
	value, ok := s.vars[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w %s", shellerr.ErrUndefinedVariable, name)
	}
	return value, nil
}

// Has reports whether name is defined.
func (s *Store) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Names returns every defined name in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a variable path such as `MPROV_RESULT.nodes[0].hostname`.
func (s *Store) Lookup(path string) (cty.Value, error) {
	path = strings.TrimSpace(path)
	traversal, diags := hclsyntax.ParseTraversalAbs([]byte(path), "variable", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w, bad variable path %q", shellerr.ErrSyntax, path)
	}
	if !s.Has(traversal.RootName()) {
		return cty.NilVal, fmt.Errorf("%w %s", shellerr.ErrUndefinedVariable, traversal.RootName())
	}

	value, diags := traversal.TraverseAbs(s.evalContext())
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w %s: %s", shellerr.ErrUndefinedVariable, path, diagSummary(diags))
	}
	return value, nil
}

// evalContext exposes the current variables to HCL evaluation.
func (s *Store) evalContext() *hcl.EvalContext {
	variables := make(map[string]cty.Value, len(s.vars))
	for name, value := range s.vars {
		variables[name] = value
	}
	return &hcl.EvalContext{Variables: variables}
}

// diagSummary joins the summaries of all error diagnostics.
func diagSummary(diags hcl.Diagnostics) string {
	var parts []string
	for _, diag := range diags.Errs() {
		if d, ok := diag.(*hcl.Diagnostic); ok && d.Detail != "" {
			parts = append(parts, d.Detail)
			continue
		}
		parts = append(parts, diag.Error())
	}
	return strings.Join(parts, "; ")
}
