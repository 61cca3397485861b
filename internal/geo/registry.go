package geo

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"weeklydinner/internal/domain"
)

//go:embed locations.yaml
var seedLocations []byte

// DefaultLocation is the registry key of DefaultCoordinate.
const DefaultLocation = "Phoenix, AZ"

// DefaultCoordinate is returned for locations the registry cannot resolve.
var DefaultCoordinate = Coordinate{Lat: 33.4484367, Lng: -112.074141}

// Registry is a read-only mapping from location name to coordinate. It is built once at
// startup and never mutated afterwards, so it is safe for concurrent readers.
type Registry struct {
	entries map[string]Coordinate
}

// NewRegistry returns a registry holding a copy of entries.
func NewRegistry(entries map[string]Coordinate) *Registry {
	m := make(map[string]Coordinate, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Registry{entries: m}
}

// LoadSeedRegistry parses the embedded seed locations.
func LoadSeedRegistry() (*Registry, error) {
	entries := make(map[string]Coordinate)
	if err := yaml.Unmarshal(seedLocations, &entries); err != nil {
		return nil, fmt.Errorf("parse seed locations: %w", err)
	}
	return NewRegistry(entries), nil
}

// WithLocations returns a new registry with locs added; stored locations win over existing entries.
func (r *Registry) WithLocations(locs []*domain.Location) *Registry {
	m := make(map[string]Coordinate, len(r.entries)+len(locs))
	for k, v := range r.entries {
		m[k] = v
	}
	for _, l := range locs {
		if l == nil || l.Name == "" {
			continue
		}
		m[l.Name] = Coordinate{Lat: l.Lat, Lng: l.Lng}
	}
	return &Registry{entries: m}
}

// Get returns the coordinate stored under the exact key.
func (r *Registry) Get(location string) (Coordinate, bool) {
	c, ok := r.entries[location]
	return c, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
