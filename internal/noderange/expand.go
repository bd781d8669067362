package noderange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/mashgo/internal/shellerr"
)

// maxTokenLen caps the names a single bracket token may produce.
const maxTokenLen = 1 << 20

// tokenRegex matches a single bracket token, e.g. `07` or `01-30`.
var tokenRegex = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)

// Expand returns the ordered list of names described by spec. A spec without
// a bracket expands to itself. Duplicates across tokens are kept.
func Expand(spec string) ([]string, error) {
	open := strings.IndexByte(spec, '[')
	if open < 0 {
		return []string{spec}, nil
	}

	closing := strings.IndexByte(spec[open:], ']')
	if closing < 0 {
		return nil, fmt.Errorf("%w, no closing bracket found in %q", shellerr.ErrRangeSyntax, spec)
	}
	closing += open

	prefix, body, suffix := spec[:open], spec[open+1:closing], spec[closing+1:]
	if strings.ContainsAny(body, "[") || strings.ContainsAny(suffix, "[]") {
		return nil, fmt.Errorf("%w, only one bracket group is supported in %q", shellerr.ErrRangeSyntax, spec)
	}

	var names []string
	for _, token := range strings.Split(body, ",") {
		expanded, err := expandToken(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", spec, err)
		}
		for _, number := range expanded {
			names = append(names, prefix+number+suffix)
		}
	}

	return names, nil
}

// expandToken turns one bracket token into its zero-padded numbers.
func expandToken(token string) ([]string, error) {
	matches := tokenRegex.FindStringSubmatch(token)
	if matches == nil {
		return nil, fmt.Errorf("%w, bad token %q", shellerr.ErrRangeSyntax, token)
	}
	if matches[2] == "" {
		return []string{matches[1]}, nil
	}

	width := len(matches[1])
	start, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("%w, bad range start %q", shellerr.ErrRangeSyntax, matches[1])
	}
	end, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("%w, bad range end %q", shellerr.ErrRangeSyntax, matches[2])
	}
	if start > end {
		return nil, fmt.Errorf("%w, range %q runs backwards", shellerr.ErrRangeSyntax, token)
	}
	if len(strconv.Itoa(end)) > width {
		return nil, fmt.Errorf("%w, padded zeros do not match range %q", shellerr.ErrRangeFormat, token)
	}

	if uint64(end)-uint64(start) >= maxTokenLen {
		return nil, fmt.Errorf("%w, range %q has more than %d names", shellerr.ErrRangeSyntax, token, maxTokenLen)
	}

	numbers := make([]string, 0, end-start+1)
	for n := start; ; n++ {
		numbers = append(numbers, fmt.Sprintf("%0*d", width, n))
		if n == end {
			break
		}
	}
	return numbers, nil
}
