package geo

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklydinner/internal/domain"
)

// capturingHandler records every log record for assertions.
type capturingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

type countingCollector struct {
	fallbacks int
}

func (c *countingCollector) RecordLocationFallback() { c.fallbacks++ }

func (c *countingCollector) RecordAssignment(_ string) {}

func (c *countingCollector) RecordReassignment(_ string, _, _ int) {}

func newTestResolver(t *testing.T) (*Resolver, *capturingHandler, *countingCollector) {
	t.Helper()
	reg, err := LoadSeedRegistry()
	require.NoError(t, err)
	var h capturingHandler
	c := &countingCollector{}
	return NewResolver(reg, slog.New(&h), c), &h, c
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     Coordinate
	}{
		{"exact match", "Scottsdale, AZ", Coordinate{Lat: 33.4942, Lng: -111.9261}},
		{"extra segments trimmed", "Tempe, AZ, USA", Coordinate{Lat: 33.4255, Lng: -111.9400}},
		{"whitespace around segments", "  Mesa ,  AZ ", Coordinate{Lat: 33.4152, Lng: -111.8315}},
		{"multi-word city", "Paradise Valley, AZ", Coordinate{Lat: 33.5312, Lng: -111.9426}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, h, c := newTestResolver(t)
			got := r.Resolve(tt.location)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, h.records)
			assert.Zero(t, c.fallbacks)
		})
	}
}

func TestResolver_UnknownLocationFallsBack(t *testing.T) {
	r, h, c := newTestResolver(t)

	got := r.Resolve("Nowhereville, ZZ")

	require.Equal(t, DefaultCoordinate, got)
	require.Len(t, h.records, 1)
	rec := h.records[0]
	require.Equal(t, slog.LevelWarn, rec.Level)
	require.Equal(t, "location not found, using default", rec.Message)
	attrs := make(map[string]slog.Value)
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	require.Equal(t, "Nowhereville, ZZ", attrs["location"].String())
	require.Equal(t, 1, c.fallbacks)
}

func TestResolver_RegionWithPostcodeFallsBack(t *testing.T) {
	r, _, c := newTestResolver(t)
	assert.Equal(t, DefaultCoordinate, r.Resolve("Paradise Valley, AZ 85253"))
	assert.Equal(t, 1, c.fallbacks)
}

func TestResolver_Lookup(t *testing.T) {
	r, h, _ := newTestResolver(t)

	_, ok := r.Lookup("Nowhereville, ZZ")
	assert.False(t, ok)
	c, ok := r.Lookup("Gilbert, AZ")
	assert.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 33.3528, Lng: -111.7890}, c)
	assert.Empty(t, h.records, "Lookup must not emit diagnostics")
}

func TestResolver_NilDependencies(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	assert.Equal(t, DefaultCoordinate, r.Resolve("Phoenix, AZ"))
}

func TestCityRegion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Phoenix, AZ", "Phoenix, AZ"},
		{"Phoenix,AZ", "Phoenix, AZ"},
		{"Phoenix, AZ, USA", "Phoenix, AZ"},
		{" Phoenix ", "Phoenix"},
		{"Phoenix,", "Phoenix"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CityRegion(tt.in), "input %q", tt.in)
	}
}

func TestLoadSeedRegistry(t *testing.T) {
	reg, err := LoadSeedRegistry()
	require.NoError(t, err)
	require.Equal(t, 17, reg.Len())
	c, ok := reg.Get(DefaultLocation)
	require.True(t, ok)
	require.Equal(t, DefaultCoordinate, c)
}

func TestRegistry_WithLocations(t *testing.T) {
	base := NewRegistry(map[string]Coordinate{"Tempe, AZ": {Lat: 1, Lng: 1}})

	merged := base.WithLocations([]*domain.Location{
		{Name: "Tempe, AZ", Lat: 33.4255, Lng: -111.94},
		{Name: "Tucson, AZ", Lat: 32.2226, Lng: -110.9747},
		nil,
		{Name: ""},
	})

	require.Equal(t, 2, merged.Len())
	c, _ := merged.Get("Tempe, AZ")
	require.Equal(t, Coordinate{Lat: 33.4255, Lng: -111.94}, c)
	// the original registry is unchanged
	c, _ = base.Get("Tempe, AZ")
	require.Equal(t, Coordinate{Lat: 1, Lng: 1}, c)
	_, ok := base.Get("Tucson, AZ")
	require.False(t, ok)
}

func TestNewRegistry_CopiesEntries(t *testing.T) {
	entries := map[string]Coordinate{"A": {Lat: 1, Lng: 2}}
	reg := NewRegistry(entries)
	entries["A"] = Coordinate{}
	c, ok := reg.Get("A")
	require.True(t, ok)
	require.Equal(t, Coordinate{Lat: 1, Lng: 2}, c)
}
