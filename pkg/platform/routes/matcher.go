package routes

import (
	"fmt"
	"net/http"
	"strings"

	"petadopt/pkg/domain"
)

// rule is one exemption. A prefix rule exempts prefix + one numeric segment.
type rule struct {
	anyMethod bool
	exact     string
	prefix    string
}

// Matcher decides whether a request skips authentication.
//
// GET routes are exempt on an exact path match, or, when the pattern ends in
// a single {param}, on the static prefix followed by exactly one all-digit
// segment. Public routes declared with any other method (login, register)
// are exempt for every method.
type Matcher struct {
	basePath string
	rules    []rule
}

// NewMatcher derives the exemption rules from the public entries of table.
func NewMatcher(basePath string, table []Route) (*Matcher, error) {
	m := &Matcher{basePath: strings.TrimSuffix(basePath, "/")}
	for _, r := range table {
		if r.Access.Kind != AccessPublic {
			continue
		}
		rl, err := compile(r)
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, rl)
	}
	return m, nil
}

func compile(r Route) (rule, error) {
	anyMethod := r.Method != http.MethodGet
	open := strings.IndexByte(r.Pattern, '{')
	if open < 0 {
		return rule{anyMethod: anyMethod, exact: r.Pattern}, nil
	}
	prefix := r.Pattern[:open]
	tail := r.Pattern[open:]
	if !strings.HasSuffix(prefix, "/") || !strings.HasSuffix(tail, "}") || strings.ContainsAny(tail[1:], "{/") {
		return rule{}, fmt.Errorf("public route %s: only a single trailing {param} is supported", r.Name())
	}
	return rule{anyMethod: anyMethod, prefix: prefix}, nil
}

// Normalize strips the deployment base path and ensures a leading slash.
func Normalize(basePath, path string) string {
	basePath = strings.TrimSuffix(basePath, "/")
	if basePath != "" && (path == basePath || strings.HasPrefix(path, basePath+"/")) {
		path = path[len(basePath):]
	}
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		return "/" + path
	}
	return path
}

// IsPublic reports whether method and path are exempt from authentication.
func (m *Matcher) IsPublic(method, path string) bool {
	path = Normalize(m.basePath, path)
	for _, rl := range m.rules {
		if !rl.anyMethod && method != http.MethodGet {
			continue
		}
		if rl.exact != "" {
			if path == rl.exact {
				return true
			}
			continue
		}
		if id, ok := strings.CutPrefix(path, rl.prefix); ok && domain.IsNumericSegment(id) {
			return true
		}
	}
	return false
}
