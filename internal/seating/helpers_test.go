package seating

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
)

var baseTime = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func newGuest(name string, age int, location, table string) domain.Guest {
	return domain.Guest{ID: "id-" + name, Name: name, Age: age, Location: location, Table: table, SubmittedAt: baseTime}
}

// seatedAt returns n guests of the given age and location, all labelled table.
func seatedAt(table string, n, age int, location string) []domain.Guest {
	out := make([]domain.Guest, n)
	for i := range out {
		out[i] = newGuest(fmt.Sprintf("%s-%d", table, i), age, location, table)
	}
	return out
}

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

func (h *capturingHandler) count(level slog.Level, msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level && r.Message == msg {
			n++
		}
	}
	return n
}

type recordingCollector struct {
	mu            sync.Mutex
	fallbacks     int
	assignments   []string
	reassignments []string
}

func (c *recordingCollector) RecordLocationFallback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbacks++
}

func (c *recordingCollector) RecordAssignment(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments = append(c.assignments, outcome)
}

func (c *recordingCollector) RecordReassignment(result string, _, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reassignments = append(c.reassignments, result)
}

func newTestResolver(t *testing.T, logger *slog.Logger, c *recordingCollector) *geo.Resolver {
	t.Helper()
	reg, err := geo.LoadSeedRegistry()
	require.NoError(t, err)
	return geo.NewResolver(reg, logger, c)
}
