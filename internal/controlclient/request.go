package controlclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/shlex"
	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// Verb is one of the four CRUD operations.
type Verb int

const (
	Create Verb = iota
	Retrieve
	Update
	Delete
)

// Method returns the HTTP method for the verb.
func (v Verb) Method() string {
	switch v {
	case Create:
		return "POST"
	case Retrieve:
		return "GET"
	case Update:
		return "PATCH"
	case Delete:
		return "DELETE"
	}
	return ""
}

func (v Verb) String() string {
	switch v {
	case Create:
		return "create"
	case Retrieve:
		return "retrieve"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// isIdentifier reports whether a field addresses a single resource.
func isIdentifier(key string) bool {
	return key == "id" || key == "pk"
}

// BuildRequest validates fieldArgs against the model and composes the
// request. Nothing is sent. For create and update, fieldArgs are
// shell-quoted key=value pairs checked against the model's fields; with
// checkRequired set, every required field must be present. For retrieve and
// delete they become the query string.
func (c *Client) BuildRequest(verb Verb, modelName, fieldArgs string, checkRequired bool) (*Request, error) {
	conn, err := c.Conn()
	if err != nil {
		return nil, err
	}
	m, err := c.Catalog().Model(modelName)
	if err != nil {
		return nil, err
	}
	if m.Endpoint == "" {
		return nil, fmt.Errorf("%w: model %s does not seem to have a registered endpoint in the mPCC", shellerr.ErrUnknownModel, modelName)
	}

	var (
		idSegment string
		query     string
		body      []byte
	)
	switch verb {
	case Create, Update:
		pairs, err := parsePairs(fieldArgs)
		if err != nil {
			return nil, err
		}
		keys := make([]string, len(pairs))
		for i, pair := range pairs {
			keys[i] = pair[0]
		}
		if err := m.CheckFields(keys, checkRequired); err != nil {
			return nil, err
		}

		data := make(map[string]string, len(pairs))
		for _, pair := range pairs {
			if isIdentifier(pair[0]) {
				idSegment = url.PathEscape(pair[1]) + "/"
				continue
			}
			data[pair[0]] = pair[1]
		}
		if body, err = json.Marshal(data); err != nil {
			return nil, err
		}
	case Retrieve, Delete:
		query, idSegment = buildQuery(fieldArgs)
	default:
		return nil, fmt.Errorf("%w: unsupported verb %s", shellerr.ErrSyntax, verb)
	}

	return &Request{
		Method: verb.Method(),
		URL:    conn.url(m.Endpoint, idSegment, query),
		Header: conn.header(),
		Body:   body,
	}, nil
}

// parsePairs splits shell-quoted key=value arguments.
func parsePairs(fieldArgs string) ([][2]string, error) {
	words, err := shlex.Split(fieldArgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shellerr.ErrSyntax, err)
	}
	pairs := make([][2]string, 0, len(words))
	for _, word := range words {
		key, value, found := strings.Cut(word, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", shellerr.ErrSyntax, word)
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}

// buildQuery turns whitespace separated tokens into `?a=b&c=d&`. An id or pk
// token also yields the resource path segment.
func buildQuery(fieldArgs string) (query, idSegment string) {
	tokens := strings.Fields(fieldArgs)
	if len(tokens) == 0 {
		return "", ""
	}

	var sb strings.Builder
	sb.WriteByte('?')
	for _, token := range tokens {
		key, value, found := strings.Cut(token, "=")
		if !found {
			sb.WriteString(url.QueryEscape(token))
		} else {
			if isIdentifier(key) {
				idSegment = url.PathEscape(value) + "/"
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(value))
		}
		sb.WriteByte('&')
	}
	return sb.String(), idSegment
}
