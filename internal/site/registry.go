package site

import (
	"fmt"
	"regexp"
	"sort"
)

var validName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidName reports whether name can be used as a site (and table prefix).
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// reserved names are top-level routes that would shadow a site.
var reserved = map[string]struct{}{
	"healthz": {},
	"readyz":  {},
	"metrics": {},
	"static":  {},
}

// Reserved reports whether name collides with a fixed server route.
func Reserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Registry maps site names to their stores. It is fixed at construction and
// safe for concurrent reads.
type Registry struct {
	stores map[string]Store
	names  []string
}

// NewRegistry copies stores into an immutable registry.
func NewRegistry(stores map[string]Store) (*Registry, error) {
	r := &Registry{
		stores: make(map[string]Store, len(stores)),
		names:  make([]string, 0, len(stores)),
	}
	for name, s := range stores {
		if !ValidName(name) {
			return nil, fmt.Errorf("invalid site name %q", name)
		}
		if Reserved(name) {
			return nil, fmt.Errorf("site name %q is reserved", name)
		}
		if s == nil {
			return nil, fmt.Errorf("site %q has no store", name)
		}
		r.stores[name] = s
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the store for name.
func (r *Registry) Lookup(name string) (Store, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.stores[name]
	return s, ok
}

// Names returns the site names sorted lexicographically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered sites.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
