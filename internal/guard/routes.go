package guard

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/storefront-dev/storefront/internal/session"
	"github.com/storefront-dev/storefront/internal/token"
)

//go:embed routes.yaml
var defaultRoutes []byte

var ErrUnknownRoute = errors.New("unknown route")

// Route declares who may visit a path pattern. Patterns use ":name" for
// variable segments. Non-public routes with no roles need any session.
type Route struct {
	Pattern string   `yaml:"pattern"`
	Public  bool     `yaml:"public"`
	Roles   []string `yaml:"roles"`

	segments []string
}

// Table is an ordered list of routes
type Table struct {
	routes []Route
}

type tableFile struct {
	Routes []Route `yaml:"routes"`
}

// DefaultTable returns the built-in route table
func DefaultTable() *Table {
	t, err := ParseTable(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("guard: invalid embedded routes: %v", err))
	}
	return t
}

// ParseTable reads a route table from YAML
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}

	t := &Table{}
	for i, r := range file.Routes {
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("route %d: pattern %q must start with /", i, r.Pattern)
		}
		if r.Public && len(r.Roles) > 0 {
			return nil, fmt.Errorf("route %q: public routes cannot require roles", r.Pattern)
		}
		r.Roles = token.NormalizeRoles(r.Roles)
		r.segments = splitPath(r.Pattern)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// Lookup returns the first route matching path
func (t *Table) Lookup(path string) (Route, bool) {
	segments := splitPath(path)
	for _, r := range t.routes {
		if matchSegments(r.segments, segments) {
			return r, true
		}
	}
	return Route{}, false
}

// Authorize evaluates the guard for path. Public routes are always allowed.
func (t *Table) Authorize(s session.Session, path string) (Decision, error) {
	route, ok := t.Lookup(path)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	if route.Public {
		return allow(), nil
	}
	return Evaluate(s, path, route.Roles), nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return false
			}
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return true
}
