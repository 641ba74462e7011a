package source

import (
	"fmt"
	"net/http"
	"sort"

	"goldarb/internal/domain"
)

// Registry holds the known sites keyed by name and builds the enabled set of
// adapters.
type Registry struct {
	sites  map[string]Site
	client *http.Client
}

// NewRegistry creates a Registry over the given sites. A nil client gives
// each adapter its own default client.
func NewRegistry(sites []Site, client *http.Client) *Registry {
	m := make(map[string]Site, len(sites))
	for _, s := range sites {
		m[s.Name] = s
	}
	return &Registry{sites: m, client: client}
}

// Names returns every registered site name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sites))
	for name := range r.sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns adapters for the named sites; an empty list means all of
// them. Unknown names are an error so configuration typos fail loudly.
func (r *Registry) Build(names []string) ([]domain.SourceAdapter, error) {
	if len(names) == 0 {
		names = r.Names()
	}

	adapters := make([]domain.SourceAdapter, 0, len(names))
	for _, name := range names {
		site, ok := r.sites[name]
		if !ok {
			return nil, fmt.Errorf("source: unknown site %q", name)
		}
		adapter, err := NewHTTPSource(site, r.client)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
