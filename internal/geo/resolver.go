package geo

import (
	"log/slog"
	"strings"

	"weeklydinner/internal/metrics"
)

// Resolver maps free-text locations to coordinates using a static Registry.
// Resolve never fails and never touches the network.
type Resolver struct {
	registry *Registry
	logger   *slog.Logger
	metrics  metrics.Collector
}

// NewResolver returns a resolver over registry. A nil collector records nothing.
func NewResolver(registry *Registry, logger *slog.Logger, collector metrics.Collector) *Resolver {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	return &Resolver{registry: registry, logger: logger, metrics: collector}
}

// Lookup tries an exact match, then the "City, Region" form of location.
func (r *Resolver) Lookup(location string) (Coordinate, bool) {
	if c, ok := r.registry.Get(location); ok {
		return c, true
	}
	if c, ok := r.registry.Get(CityRegion(location)); ok {
		return c, true
	}
	return Coordinate{}, false
}

// Resolve returns the coordinate for location, falling back to DefaultCoordinate with a warning.
func (r *Resolver) Resolve(location string) Coordinate {
	if c, ok := r.Lookup(location); ok {
		return c
	}
	r.logger.Warn("location not found, using default",
		"location", location,
		"default", DefaultLocation,
	)
	r.metrics.RecordLocationFallback()
	return DefaultCoordinate
}

// CityRegion reduces a location to its first two comma-separated segments, trimmed and joined
// by ", ". "Phoenix , AZ, USA" becomes "Phoenix, AZ"; a location without a comma is only trimmed.
func CityRegion(location string) string {
	parts := strings.Split(location, ",")
	city := strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		if region := strings.TrimSpace(parts[1]); region != "" {
			return city + ", " + region
		}
	}
	return city
}
