package varstore

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mashgo/internal/shellerr"
	"github.com/zclconf/go-cty/cty"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render substitutes every `{{ expr }}` placeholder in template. On any error
// the original template is returned alongside the error, so callers can fall
// back to the unrendered text.
func (s *Store) Render(template string) (string, error) {
	if !strings.Contains(template, openDelim) {
		return template, nil
	}

	var sb strings.Builder
	rest := template
	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		body := rest[open+len(openDelim):]
		closing := placeholderEnd(body)
		if closing < 0 {
			return template, fmt.Errorf("%w, unterminated %s placeholder", shellerr.ErrSyntax, openDelim)
		}

		value, err := s.Eval(body[:closing])
		if err != nil {
			return template, err
		}

		sb.WriteString(rest[:open])
		sb.WriteString(Format(value))
		rest = body[closing+len(closeDelim):]
	}

	return sb.String(), nil
}

// placeholderEnd returns the offset of the `}}` closing the placeholder body
// starts, or -1. Braces inside quoted strings and object literals do not
// count.
func placeholderEnd(body string) int {
	tokens, _ := hclsyntax.LexExpression([]byte(body), "template", hcl.Pos{Line: 1, Column: 1})
	depth := 0
	for i, tok := range tokens {
		switch tok.Type {
		case hclsyntax.TokenOBrace:
			depth++
		case hclsyntax.TokenCBrace:
			if depth > 0 {
				depth--
				continue
			}
			if i+1 < len(tokens) {
				next := tokens[i+1]
				if next.Type == hclsyntax.TokenCBrace && next.Range.Start.Byte == tok.Range.End.Byte {
					return tok.Range.Start.Byte
				}
			}
		}
	}
	return -1
}

// Eval evaluates a single placeholder expression against the store.
func (s *Store) Eval(src string) (cty.Value, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return cty.NilVal, fmt.Errorf("%w, empty placeholder", shellerr.ErrSyntax)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w in placeholder %q: %s", shellerr.ErrSyntax, src, diagSummary(diags))
	}

	for _, traversal := range expr.Variables() {
		if !s.Has(traversal.RootName()) {
			return cty.NilVal, fmt.Errorf("%w %s", shellerr.ErrUndefinedVariable, traversal.RootName())
		}
	}

	value, diags := expr.Value(s.evalContext())
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("%w in %q: %s", shellerr.ErrUndefinedVariable, src, diagSummary(diags))
	}
	return value, nil
}
